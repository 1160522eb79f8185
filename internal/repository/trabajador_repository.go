package repository

import (
	"errors"

	"github.com/corposign/corposign/internal/models"

	"gorm.io/gorm"
)

// TrabajadorRepository acceso a datos de trabajadores
type TrabajadorRepository interface {
	Create(trabajador *models.Trabajador) error
	GetByID(id uint) (*models.Trabajador, error)
	GetByNombre(nombre string) (*models.Trabajador, error)
	Update(trabajador *models.Trabajador) error
	SetActivo(id uint, activo bool) error
	List(soloActivos bool) ([]models.Trabajador, error)
	WithTx(tx *gorm.DB) *GormTrabajadorRepository
}

// GormTrabajadorRepository implementación GORM
type GormTrabajadorRepository struct {
	db *gorm.DB
}

// NewTrabajadorRepository crea el repositorio de trabajadores
func NewTrabajadorRepository(db *gorm.DB) *GormTrabajadorRepository {
	return &GormTrabajadorRepository{db: db}
}

// WithTx liga el repositorio a una transacción
func (r *GormTrabajadorRepository) WithTx(tx *gorm.DB) *GormTrabajadorRepository {
	if tx == nil {
		return r
	}
	return &GormTrabajadorRepository{db: tx}
}

// Create crea un trabajador
func (r *GormTrabajadorRepository) Create(trabajador *models.Trabajador) error {
	return r.db.Create(trabajador).Error
}

// GetByID obtiene un trabajador por ID
func (r *GormTrabajadorRepository) GetByID(id uint) (*models.Trabajador, error) {
	var trabajador models.Trabajador
	if err := r.db.First(&trabajador, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trabajador, nil
}

// GetByNombre obtiene un trabajador por nombre exacto
func (r *GormTrabajadorRepository) GetByNombre(nombre string) (*models.Trabajador, error) {
	var trabajador models.Trabajador
	if err := r.db.Where("nombre = ?", nombre).First(&trabajador).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trabajador, nil
}

// Update guarda los cambios de un trabajador
func (r *GormTrabajadorRepository) Update(trabajador *models.Trabajador) error {
	return r.db.Save(trabajador).Error
}

// SetActivo cambia la baja lógica de un trabajador
func (r *GormTrabajadorRepository) SetActivo(id uint, activo bool) error {
	return r.db.Model(&models.Trabajador{}).Where("id = ?", id).Update("activo", activo).Error
}

// List lista trabajadores
func (r *GormTrabajadorRepository) List(soloActivos bool) ([]models.Trabajador, error) {
	var trabajadores []models.Trabajador
	query := r.db.Model(&models.Trabajador{})
	if soloActivos {
		query = query.Where("activo = ?", true)
	}
	if err := query.Order("nombre asc").Find(&trabajadores).Error; err != nil {
		return nil, err
	}
	return trabajadores, nil
}
