package handlers

import (
	"log"

	"partspicker/internal/models"
	"partspicker/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PartHandler handles HTTP requests for the parts catalog.
type PartHandler struct {
	service  *services.PartService
	validate *validator.Validate
}

// NewPartHandler creates a new PartHandler.
func NewPartHandler(service *services.PartService) *PartHandler {
	return &PartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the catalog routes. Reads are public; writes
// require a session. Part removal is additionally gated on the admin code
// carried in the request body.
func (h *PartHandler) RegisterRoutes(router fiber.Router, session fiber.Handler) {
	partRoutes := router.Group("/parts")
	partRoutes.Get("/", h.HandleGetParts)
	partRoutes.Get("/:id", h.HandleGetPartByID)
	partRoutes.Post("/", session, h.HandleCreatePart)
	partRoutes.Put("/:id", session, h.HandleUpdatePart)
	partRoutes.Delete("/:id", session, h.HandleRemovePart)

	paramRoutes := router.Group("/car-parameters")
	paramRoutes.Get("/", h.HandleGetCarParameters)
	paramRoutes.Post("/", session, h.HandleCreateCarParameter)
}

// HandleGetParts retrieves all parts.
func (h *PartHandler) HandleGetParts(c *fiber.Ctx) error {
	parts, err := h.service.GetAllParts()
	if err != nil {
		log.Printf("Error getting all parts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve parts",
			"error":   err.Error(),
		})
	}
	return c.JSON(parts)
}

// HandleGetPartByID retrieves a single part by its ID.
func (h *PartHandler) HandleGetPartByID(c *fiber.Ctx) error {
	partID := c.Params("id")
	part, err := h.service.GetPartByID(partID)
	if err != nil {
		log.Printf("Error getting part by ID %s: %v", partID, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not retrieve part",
			"error":   err.Error(),
		})
	}
	return c.JSON(part)
}

// HandleCreatePart creates a new part in the catalog.
func (h *PartHandler) HandleCreatePart(c *fiber.Ctx) error {
	var part models.Part
	if err := c.BodyParser(&part); err != nil {
		log.Printf("Error parsing part request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(part); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.service.CreatePart(&part); err != nil {
		log.Printf("Error creating part: %v", err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not create part",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(part)
}

// HandleUpdatePart replaces an existing part's catalog fields.
func (h *PartHandler) HandleUpdatePart(c *fiber.Ctx) error {
	var part models.Part
	if err := c.BodyParser(&part); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	part.ID = c.Params("id")
	if err := h.validate.Struct(part); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.service.UpdatePart(&part); err != nil {
		log.Printf("Error updating part %s: %v", part.ID, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not update part",
			"error":   err.Error(),
		})
	}
	return c.JSON(part)
}

// RemovePartRequest carries the legacy admin code gating part removal.
type RemovePartRequest struct {
	AdminCode string `json:"admin_code" validate:"required"`
}

// HandleRemovePart deletes a part. The caller must supply the configured
// admin code; the session alone is not sufficient.
func (h *PartHandler) HandleRemovePart(c *fiber.Ctx) error {
	var req RemovePartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	partID := c.Params("id")
	if err := h.service.RemovePart(partID, req.AdminCode); err != nil {
		log.Printf("Error removing part %s: %v", partID, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not remove part",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Part removed successfully",
	})
}

// HandleGetCarParameters retrieves all car parameter sets.
func (h *PartHandler) HandleGetCarParameters(c *fiber.Ctx) error {
	params, err := h.service.GetAllCarParameters()
	if err != nil {
		log.Printf("Error getting car parameters: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve car parameters",
			"error":   err.Error(),
		})
	}
	return c.JSON(params)
}

// HandleCreateCarParameter creates a new car parameter set.
func (h *PartHandler) HandleCreateCarParameter(c *fiber.Ctx) error {
	var param models.CarParameter
	if err := c.BodyParser(&param); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(param); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.service.CreateCarParameter(&param); err != nil {
		log.Printf("Error creating car parameter: %v", err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not create car parameter",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(param)
}
