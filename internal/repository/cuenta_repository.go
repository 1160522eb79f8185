package repository

import (
	"errors"

	"github.com/corposign/corposign/internal/models"

	"gorm.io/gorm"
)

// CuentaRepository acceso a datos de cuentas por pagar
type CuentaRepository interface {
	Create(cuenta *models.CuentaPorPagar) error
	GetByID(id uint) (*models.CuentaPorPagar, error)
	Update(cuenta *models.CuentaPorPagar) error
	MarkPagada(id uint) error
	List(filter CuentaListFilter) ([]models.CuentaPorPagar, int64, error)
	WithTx(tx *gorm.DB) *GormCuentaRepository
}

// GormCuentaRepository implementación GORM
type GormCuentaRepository struct {
	db *gorm.DB
}

// NewCuentaRepository crea el repositorio de cuentas por pagar
func NewCuentaRepository(db *gorm.DB) *GormCuentaRepository {
	return &GormCuentaRepository{db: db}
}

// WithTx liga el repositorio a una transacción
func (r *GormCuentaRepository) WithTx(tx *gorm.DB) *GormCuentaRepository {
	if tx == nil {
		return r
	}
	return &GormCuentaRepository{db: tx}
}

// Create crea una cuenta por pagar
func (r *GormCuentaRepository) Create(cuenta *models.CuentaPorPagar) error {
	return r.db.Create(cuenta).Error
}

// GetByID obtiene una cuenta por ID
func (r *GormCuentaRepository) GetByID(id uint) (*models.CuentaPorPagar, error) {
	var cuenta models.CuentaPorPagar
	if err := r.db.First(&cuenta, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cuenta, nil
}

// Update guarda los cambios de una cuenta
func (r *GormCuentaRepository) Update(cuenta *models.CuentaPorPagar) error {
	return r.db.Save(cuenta).Error
}

// MarkPagada marca una cuenta como pagada
func (r *GormCuentaRepository) MarkPagada(id uint) error {
	return r.db.Model(&models.CuentaPorPagar{}).Where("id = ?", id).Update("pagada", true).Error
}

// List lista cuentas por pagar con filtros y paginación
func (r *GormCuentaRepository) List(filter CuentaListFilter) ([]models.CuentaPorPagar, int64, error) {
	var cuentas []models.CuentaPorPagar
	query := r.db.Model(&models.CuentaPorPagar{})

	if filter.Proveedor != "" {
		query = query.Where("proveedor LIKE ?", "%"+filter.Proveedor+"%")
	}
	if filter.SoloPendientes {
		query = query.Where("pagada = ?", false)
	}
	if filter.VencenAntes != nil {
		query = query.Where("fecha_vencimiento IS NOT NULL AND fecha_vencimiento <= ?", *filter.VencenAntes)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("fecha_vencimiento asc").Find(&cuentas).Error; err != nil {
		return nil, 0, err
	}
	return cuentas, total, nil
}
