package repositories

import (
	"fmt"
	"sync"

	"partspicker/internal/models"

	"github.com/google/uuid"
)

// MockPartRepository is an in-memory implementation of PartRepository.
type MockPartRepository struct {
	parts  map[string]models.Part
	params map[string]models.CarParameter
	mu     sync.RWMutex
}

// NewMockPartRepository creates a new instance of MockPartRepository.
func NewMockPartRepository() *MockPartRepository {
	return &MockPartRepository{
		parts:  make(map[string]models.Part),
		params: make(map[string]models.CarParameter),
	}
}

// GetAll returns all parts.
func (r *MockPartRepository) GetAll() ([]models.Part, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	partList := make([]models.Part, 0, len(r.parts))
	for _, p := range r.parts {
		partList = append(partList, p)
	}
	return partList, nil
}

// GetByID returns a part by its ID.
func (r *MockPartRepository) GetByID(id string) (*models.Part, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	part, ok := r.parts[id]
	if !ok {
		return nil, fmt.Errorf("part with ID %s: %w", id, models.ErrNotFound)
	}
	return &part, nil
}

// Create adds a new part.
func (r *MockPartRepository) Create(part *models.Part) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if part.ID == "" {
		part.ID = uuid.New().String()
	}
	r.parts[part.ID] = *part
	return nil
}

// Update modifies an existing part.
func (r *MockPartRepository) Update(part *models.Part) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.parts[part.ID]
	if !ok {
		return fmt.Errorf("part with ID %s: %w", part.ID, models.ErrNotFound)
	}
	r.parts[part.ID] = *part
	return nil
}

// Delete removes a part by its ID.
func (r *MockPartRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.parts[id]
	if !ok {
		return fmt.Errorf("part with ID %s: %w", id, models.ErrNotFound)
	}
	delete(r.parts, id)
	return nil
}

// CreateCarParameter adds a new car parameter set.
func (r *MockPartRepository) CreateCarParameter(param *models.CarParameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if param.ID == "" {
		param.ID = uuid.New().String()
	}
	r.params[param.ID] = *param
	return nil
}

// GetAllCarParameters returns all car parameter sets.
func (r *MockPartRepository) GetAllCarParameters() ([]models.CarParameter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paramList := make([]models.CarParameter, 0, len(r.params))
	for _, p := range r.params {
		paramList = append(paramList, p)
	}
	return paramList, nil
}

// GetCarParameterByID returns a car parameter set by its ID.
func (r *MockPartRepository) GetCarParameterByID(id string) (*models.CarParameter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	param, ok := r.params[id]
	if !ok {
		return nil, fmt.Errorf("car parameter with ID %s: %w", id, models.ErrNotFound)
	}
	return &param, nil
}
