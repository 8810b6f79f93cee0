package services

import (
	"fmt"

	"partspicker/internal/models"
	"partspicker/internal/repositories"
)

// PartService handles business logic for the parts catalog.
type PartService struct {
	repo repositories.PartRepository
	auth *AuthService
}

// NewPartService creates a new PartService.
func NewPartService(repo repositories.PartRepository, auth *AuthService) *PartService {
	return &PartService{
		repo: repo,
		auth: auth,
	}
}

// GetAllParts retrieves all parts.
func (s *PartService) GetAllParts() ([]models.Part, error) {
	return s.repo.GetAll()
}

// GetPartByID retrieves a single part by its ID.
func (s *PartService) GetPartByID(id string) (*models.Part, error) {
	return s.repo.GetByID(id)
}

// CreatePart creates a new part. A referenced car parameter set must exist.
func (s *PartService) CreatePart(part *models.Part) error {
	if part.CarParameterID != nil {
		if _, err := s.repo.GetCarParameterByID(*part.CarParameterID); err != nil {
			return fmt.Errorf("car parameter lookup: %w", err)
		}
	}
	return s.repo.Create(part)
}

// UpdatePart updates an existing part.
func (s *PartService) UpdatePart(part *models.Part) error {
	return s.repo.Update(part)
}

// RemovePart deletes a part. Destruction is gated on the legacy admin code,
// not on the caller's role.
func (s *PartService) RemovePart(id, adminCode string) error {
	if !s.auth.CheckAdminCode(adminCode) {
		return fmt.Errorf("admin code mismatch: %w", models.ErrUnauthorized)
	}
	return s.repo.Delete(id)
}

// CreateCarParameter creates a new car parameter set.
func (s *PartService) CreateCarParameter(param *models.CarParameter) error {
	return s.repo.CreateCarParameter(param)
}

// GetAllCarParameters retrieves all car parameter sets.
func (s *PartService) GetAllCarParameters() ([]models.CarParameter, error) {
	return s.repo.GetAllCarParameters()
}
