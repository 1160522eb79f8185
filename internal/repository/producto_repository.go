package repository

import (
	"errors"

	"github.com/corposign/corposign/internal/models"

	"gorm.io/gorm"
)

// ProductoRepository acceso a datos de productos configurables
type ProductoRepository interface {
	Create(producto *models.ProductoConfigurable) error
	GetByID(id uint) (*models.ProductoConfigurable, error)
	Update(producto *models.ProductoConfigurable) error
	// CountNombreActivo cuenta productos activos con el mismo nombre,
	// excluyendo opcionalmente un ID (para renombrados).
	CountNombreActivo(nombre string, excludeID *uint) (int64, error)
	SetActivo(id uint, activo bool) error
	List(filter ProductoListFilter) ([]models.ProductoConfigurable, int64, error)
	WithTx(tx *gorm.DB) *GormProductoRepository
}

// GormProductoRepository implementación GORM
type GormProductoRepository struct {
	db *gorm.DB
}

// NewProductoRepository crea el repositorio de productos
func NewProductoRepository(db *gorm.DB) *GormProductoRepository {
	return &GormProductoRepository{db: db}
}

// WithTx liga el repositorio a una transacción
func (r *GormProductoRepository) WithTx(tx *gorm.DB) *GormProductoRepository {
	if tx == nil {
		return r
	}
	return &GormProductoRepository{db: tx}
}

// Create crea un producto
func (r *GormProductoRepository) Create(producto *models.ProductoConfigurable) error {
	return r.db.Create(producto).Error
}

// GetByID obtiene un producto por ID
func (r *GormProductoRepository) GetByID(id uint) (*models.ProductoConfigurable, error) {
	var producto models.ProductoConfigurable
	if err := r.db.First(&producto, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &producto, nil
}

// Update guarda los cambios de un producto
func (r *GormProductoRepository) Update(producto *models.ProductoConfigurable) error {
	return r.db.Save(producto).Error
}

// CountNombreActivo cuenta productos activos con un nombre
func (r *GormProductoRepository) CountNombreActivo(nombre string, excludeID *uint) (int64, error) {
	query := r.db.Model(&models.ProductoConfigurable{}).
		Where("nombre = ? AND activo = ?", nombre, true)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var total int64
	err := query.Count(&total).Error
	return total, err
}

// SetActivo cambia la baja lógica de un producto
func (r *GormProductoRepository) SetActivo(id uint, activo bool) error {
	return r.db.Model(&models.ProductoConfigurable{}).Where("id = ?", id).Update("activo", activo).Error
}

// List lista productos con filtros y paginación
func (r *GormProductoRepository) List(filter ProductoListFilter) ([]models.ProductoConfigurable, int64, error) {
	var productos []models.ProductoConfigurable
	query := r.db.Model(&models.ProductoConfigurable{})

	if filter.SoloActivos {
		query = query.Where("activo = ?", true)
	}
	if filter.Search != "" {
		query = query.Where("nombre LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("nombre asc").Find(&productos).Error; err != nil {
		return nil, 0, err
	}
	return productos, total, nil
}
