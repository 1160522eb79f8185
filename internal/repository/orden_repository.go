package repository

import (
	"errors"

	"github.com/corposign/corposign/internal/models"

	"gorm.io/gorm"
)

// OrdenRepository acceso a datos de órdenes de trabajo
type OrdenRepository interface {
	Create(orden *models.Orden) error
	GetByID(id uint) (*models.Orden, error)
	GetByVentaID(ventaID uint) (*models.Orden, error)
	List(filter OrdenListFilter) ([]models.Orden, int64, error)
	UpdateEstado(id uint, estado string) error
	UpdateDetalles(id uint, detalles models.JSON) error
	// CountDetallesConteniendo cuenta órdenes cuyo JSON de detalles contiene
	// el fragmento dado. Es una búsqueda heurística por subcadena, no una
	// cuenta real de referencias.
	CountDetallesConteniendo(fragmento string) (int64, error)
	WithTx(tx *gorm.DB) *GormOrdenRepository
}

// GormOrdenRepository implementación GORM
type GormOrdenRepository struct {
	db *gorm.DB
}

// NewOrdenRepository crea el repositorio de órdenes
func NewOrdenRepository(db *gorm.DB) *GormOrdenRepository {
	return &GormOrdenRepository{db: db}
}

// WithTx liga el repositorio a una transacción
func (r *GormOrdenRepository) WithTx(tx *gorm.DB) *GormOrdenRepository {
	if tx == nil {
		return r
	}
	return &GormOrdenRepository{db: tx}
}

// Create crea una orden
func (r *GormOrdenRepository) Create(orden *models.Orden) error {
	return r.db.Create(orden).Error
}

// GetByID obtiene una orden por ID
func (r *GormOrdenRepository) GetByID(id uint) (*models.Orden, error) {
	var orden models.Orden
	if err := r.db.Preload("Venta").First(&orden, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &orden, nil
}

// GetByVentaID obtiene la orden de una venta
func (r *GormOrdenRepository) GetByVentaID(ventaID uint) (*models.Orden, error) {
	var orden models.Orden
	if err := r.db.Where("venta_id = ?", ventaID).First(&orden).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &orden, nil
}

// List lista órdenes con filtros y paginación
func (r *GormOrdenRepository) List(filter OrdenListFilter) ([]models.Orden, int64, error) {
	var ordenes []models.Orden
	query := r.db.Model(&models.Orden{})

	if filter.NumeroOrden != "" {
		query = query.Where("numero_orden LIKE ?", "%"+filter.NumeroOrden+"%")
	}
	if filter.Estado != "" {
		query = query.Where("estado = ?", filter.Estado)
	}
	if filter.VentaID != 0 {
		query = query.Where("venta_id = ?", filter.VentaID)
	}
	if filter.Desde != nil {
		query = query.Where("created_at >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		query = query.Where("created_at <= ?", *filter.Hasta)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id desc").Find(&ordenes).Error; err != nil {
		return nil, 0, err
	}
	return ordenes, total, nil
}

// UpdateEstado actualiza el estado de una orden
func (r *GormOrdenRepository) UpdateEstado(id uint, estado string) error {
	return r.db.Model(&models.Orden{}).Where("id = ?", id).Update("estado", estado).Error
}

// UpdateDetalles reescribe el payload de la orden
func (r *GormOrdenRepository) UpdateDetalles(id uint, detalles models.JSON) error {
	return r.db.Model(&models.Orden{}).Where("id = ?", id).Update("detalles", detalles).Error
}

// CountDetallesConteniendo búsqueda por subcadena en el JSON de detalles
func (r *GormOrdenRepository) CountDetallesConteniendo(fragmento string) (int64, error) {
	if fragmento == "" {
		return 0, nil
	}
	var total int64
	err := r.db.Model(&models.Orden{}).
		Where("detalles LIKE ?", "%"+fragmento+"%").
		Count(&total).Error
	return total, err
}
