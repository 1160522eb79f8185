package repository

import (
	"errors"

	"github.com/corposign/corposign/internal/models"

	"gorm.io/gorm"
)

// CorporeoRepository acceso a datos de configuraciones de corpóreo
type CorporeoRepository interface {
	// UpsertConfig crea o reemplaza la configuración vigente de (venta, orden).
	UpsertConfig(config *models.CorporeoConfig) error
	GetConfigByVenta(ventaID uint) (*models.CorporeoConfig, error)
	AppendPayload(payload *models.CorporeoPayload) error
	ListPayloadsByVenta(ventaID uint) ([]models.CorporeoPayload, error)
	WithTx(tx *gorm.DB) *GormCorporeoRepository
}

// GormCorporeoRepository implementación GORM
type GormCorporeoRepository struct {
	db *gorm.DB
}

// NewCorporeoRepository crea el repositorio de corpóreos
func NewCorporeoRepository(db *gorm.DB) *GormCorporeoRepository {
	return &GormCorporeoRepository{db: db}
}

// WithTx liga el repositorio a una transacción
func (r *GormCorporeoRepository) WithTx(tx *gorm.DB) *GormCorporeoRepository {
	if tx == nil {
		return r
	}
	return &GormCorporeoRepository{db: tx}
}

// UpsertConfig crea o actualiza la configuración por (venta, orden)
func (r *GormCorporeoRepository) UpsertConfig(config *models.CorporeoConfig) error {
	var existente models.CorporeoConfig
	err := r.db.Where("venta_id = ? AND orden_id = ?", config.VentaID, config.OrdenID).
		First(&existente).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(config).Error
	}
	if err != nil {
		return err
	}
	config.ID = existente.ID
	config.CreatedAt = existente.CreatedAt
	return r.db.Save(config).Error
}

// GetConfigByVenta obtiene la configuración vigente de una venta
func (r *GormCorporeoRepository) GetConfigByVenta(ventaID uint) (*models.CorporeoConfig, error) {
	var config models.CorporeoConfig
	if err := r.db.Where("venta_id = ?", ventaID).
		Order("id desc").First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

// AppendPayload agrega una versión histórica del payload
func (r *GormCorporeoRepository) AppendPayload(payload *models.CorporeoPayload) error {
	return r.db.Create(payload).Error
}

// ListPayloadsByVenta lista el histórico de payloads de una venta
func (r *GormCorporeoRepository) ListPayloadsByVenta(ventaID uint) ([]models.CorporeoPayload, error) {
	var payloads []models.CorporeoPayload
	if err := r.db.Where("venta_id = ?", ventaID).
		Order("id desc").Find(&payloads).Error; err != nil {
		return nil, err
	}
	return payloads, nil
}
