package repositories

import "partspicker/internal/models"

// PartRepository defines the interface for catalog data access: parts and
// the car parameter sets they can be fitted against.
type PartRepository interface {
	GetAll() ([]models.Part, error)
	GetByID(id string) (*models.Part, error)
	Create(part *models.Part) error
	Update(part *models.Part) error
	Delete(id string) error

	CreateCarParameter(param *models.CarParameter) error
	GetAllCarParameters() ([]models.CarParameter, error)
	GetCarParameterByID(id string) (*models.CarParameter, error)
}
