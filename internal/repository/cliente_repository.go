package repository

import (
	"errors"

	"github.com/corposign/corposign/internal/models"

	"gorm.io/gorm"
)

// ClienteRepository acceso a datos de clientes
type ClienteRepository interface {
	Create(cliente *models.Cliente) error
	GetByID(id uint) (*models.Cliente, error)
	Update(cliente *models.Cliente) error
	Delete(id uint) error
	List(filter ClienteListFilter) ([]models.Cliente, int64, error)
	Count() (int64, error)
	WithTx(tx *gorm.DB) *GormClienteRepository
}

// GormClienteRepository implementación GORM
type GormClienteRepository struct {
	db *gorm.DB
}

// NewClienteRepository crea el repositorio de clientes
func NewClienteRepository(db *gorm.DB) *GormClienteRepository {
	return &GormClienteRepository{db: db}
}

// WithTx liga el repositorio a una transacción
func (r *GormClienteRepository) WithTx(tx *gorm.DB) *GormClienteRepository {
	if tx == nil {
		return r
	}
	return &GormClienteRepository{db: tx}
}

// Create crea un cliente
func (r *GormClienteRepository) Create(cliente *models.Cliente) error {
	return r.db.Create(cliente).Error
}

// GetByID obtiene un cliente por ID
func (r *GormClienteRepository) GetByID(id uint) (*models.Cliente, error) {
	var cliente models.Cliente
	if err := r.db.First(&cliente, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cliente, nil
}

// Update guarda los cambios de un cliente
func (r *GormClienteRepository) Update(cliente *models.Cliente) error {
	return r.db.Save(cliente).Error
}

// Delete elimina un cliente
func (r *GormClienteRepository) Delete(id uint) error {
	return r.db.Delete(&models.Cliente{}, id).Error
}

// List lista clientes con filtros y paginación
func (r *GormClienteRepository) List(filter ClienteListFilter) ([]models.Cliente, int64, error) {
	var clientes []models.Cliente
	query := r.db.Model(&models.Cliente{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("nombre LIKE ? OR telefono LIKE ? OR email LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("nombre asc").Find(&clientes).Error; err != nil {
		return nil, 0, err
	}
	return clientes, total, nil
}

// Count cuenta todos los clientes
func (r *GormClienteRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.Cliente{}).Count(&total).Error
	return total, err
}
