package repositories

import (
	"errors"
	"fmt"

	"partspicker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPartRepository is a GORM implementation of PartRepository.
type GORMPartRepository struct {
	db *gorm.DB
}

// NewGORMPartRepository creates a new instance of GORMPartRepository.
func NewGORMPartRepository(db *gorm.DB) *GORMPartRepository {
	return &GORMPartRepository{
		db: db,
	}
}

// GetAll retrieves all parts from the database.
func (r *GORMPartRepository) GetAll() ([]models.Part, error) {
	var parts []models.Part
	if err := r.db.Find(&parts).Error; err != nil {
		return nil, fmt.Errorf("failed to get all parts: %w", err)
	}
	return parts, nil
}

// GetByID retrieves a single part by its ID from the database.
func (r *GORMPartRepository) GetByID(id string) (*models.Part, error) {
	var part models.Part
	if err := r.db.First(&part, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("part with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get part by ID %s: %w", id, err)
	}
	return &part, nil
}

// Create creates a new part in the database.
func (r *GORMPartRepository) Create(part *models.Part) error {
	if part.ID == "" {
		part.ID = uuid.New().String()
	}
	if err := r.db.Create(part).Error; err != nil {
		return fmt.Errorf("failed to create part: %w", err)
	}
	return nil
}

// Update replaces all catalog fields of an existing part. The part must
// already exist; Save alone would fall back to an insert on a missing row.
func (r *GORMPartRepository) Update(part *models.Part) error {
	var existing models.Part
	if err := r.db.First(&existing, "id = ?", part.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("part with ID %s: %w", part.ID, models.ErrNotFound)
		}
		return fmt.Errorf("failed to get part for update: %w", err)
	}
	part.CreatedAt = existing.CreatedAt
	if err := r.db.Save(part).Error; err != nil {
		return fmt.Errorf("failed to update part: %w", err)
	}
	return nil
}

// Delete deletes a part by its ID from the database.
func (r *GORMPartRepository) Delete(id string) error {
	res := r.db.Delete(&models.Part{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete part: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("part with ID %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// CreateCarParameter creates a new car parameter set in the database.
func (r *GORMPartRepository) CreateCarParameter(param *models.CarParameter) error {
	if param.ID == "" {
		param.ID = uuid.New().String()
	}
	if err := r.db.Create(param).Error; err != nil {
		return fmt.Errorf("failed to create car parameter: %w", err)
	}
	return nil
}

// GetAllCarParameters retrieves all car parameter sets from the database.
func (r *GORMPartRepository) GetAllCarParameters() ([]models.CarParameter, error) {
	var params []models.CarParameter
	if err := r.db.Find(&params).Error; err != nil {
		return nil, fmt.Errorf("failed to get all car parameters: %w", err)
	}
	return params, nil
}

// GetCarParameterByID retrieves a single car parameter set by its ID.
func (r *GORMPartRepository) GetCarParameterByID(id string) (*models.CarParameter, error) {
	var param models.CarParameter
	if err := r.db.First(&param, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("car parameter with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get car parameter by ID %s: %w", id, err)
	}
	return &param, nil
}
