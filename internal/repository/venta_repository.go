package repository

import (
	"errors"
	"time"

	"github.com/corposign/corposign/internal/models"

	"gorm.io/gorm"
)

// VentaRepository acceso a datos de ventas
type VentaRepository interface {
	Create(venta *models.Venta, items []models.VentaItem, pagos []models.VentaPago) error
	GetByID(id uint) (*models.Venta, error)
	GetByNumeroOrden(numero string) (*models.Venta, error)
	List(filter VentaListFilter) ([]models.Venta, int64, error)
	// ListNumeros devuelve todos los numero_orden existentes, para el
	// cálculo de la próxima secuencia.
	ListNumeros() ([]string, error)
	ExisteNumero(numero string) (bool, error)
	UpdateDetalles(id uint, detalles models.JSON) error
	// ListDelDia lista ventas creadas dentro del día natural dado.
	ListDelDia(dia time.Time) ([]models.Venta, error)
	// TasaDelDia busca la última tasa registrada en ventas del día dado.
	TasaDelDia(dia time.Time) (models.Money, bool, error)
	// ListComisionables lista ventas totalmente cobradas (restante <= tolerancia)
	// con comisión aún no pagada, opcionalmente de un asesor.
	ListComisionables(asesor string) ([]models.Venta, error)
	MarkComisionPagada(ids []uint) (int64, error)
	// NextSecuenciaAnual incrementa y retorna la secuencia del año del
	// esquema heredado ORD-{año}-{seq}. Solo escribe, no confirma: la
	// transacción exterior decide el commit.
	NextSecuenciaAnual(anio int) (int, error)
	WithTx(tx *gorm.DB) *GormVentaRepository
}

// GormVentaRepository implementación GORM
type GormVentaRepository struct {
	db *gorm.DB
}

// NewVentaRepository crea el repositorio de ventas
func NewVentaRepository(db *gorm.DB) *GormVentaRepository {
	return &GormVentaRepository{db: db}
}

// WithTx liga el repositorio a una transacción
func (r *GormVentaRepository) WithTx(tx *gorm.DB) *GormVentaRepository {
	if tx == nil {
		return r
	}
	return &GormVentaRepository{db: tx}
}

// Create crea la venta y sus renglones y pagos
func (r *GormVentaRepository) Create(venta *models.Venta, items []models.VentaItem, pagos []models.VentaPago) error {
	if err := r.db.Create(venta).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].VentaID = venta.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	for i := range pagos {
		pagos[i].VentaID = venta.ID
	}
	if len(pagos) > 0 {
		if err := r.db.Create(&pagos).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene una venta con renglones y pagos
func (r *GormVentaRepository) GetByID(id uint) (*models.Venta, error) {
	var venta models.Venta
	if err := r.db.Preload("Items").Preload("Pagos").First(&venta, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &venta, nil
}

// GetByNumeroOrden obtiene una venta por numero de orden
func (r *GormVentaRepository) GetByNumeroOrden(numero string) (*models.Venta, error) {
	var venta models.Venta
	if err := r.db.Preload("Items").Preload("Pagos").
		Where("numero_orden = ?", numero).First(&venta).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &venta, nil
}

// List lista ventas con filtros y paginación
func (r *GormVentaRepository) List(filter VentaListFilter) ([]models.Venta, int64, error) {
	var ventas []models.Venta
	query := r.db.Model(&models.Venta{})

	if filter.NumeroOrden != "" {
		query = query.Where("numero_orden LIKE ?", "%"+filter.NumeroOrden+"%")
	}
	if filter.Asesor != "" {
		query = query.Where("asesor = ?", filter.Asesor)
	}
	if filter.Cliente != "" {
		query = query.Where("cliente LIKE ?", "%"+filter.Cliente+"%")
	}
	if filter.FormaPago != "" {
		query = query.Where("forma_pago = ?", filter.FormaPago)
	}
	if filter.Desde != nil {
		query = query.Where("created_at >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		query = query.Where("created_at <= ?", *filter.Hasta)
	}
	if filter.SoloDeuda {
		query = query.Where("restante > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Items").Preload("Pagos").
		Order("id desc").Find(&ventas).Error; err != nil {
		return nil, 0, err
	}
	return ventas, total, nil
}

// ListNumeros devuelve todos los numero_orden existentes
func (r *GormVentaRepository) ListNumeros() ([]string, error) {
	var numeros []string
	if err := r.db.Model(&models.Venta{}).Pluck("numero_orden", &numeros).Error; err != nil {
		return nil, err
	}
	return numeros, nil
}

// ExisteNumero indica si un numero de orden ya está en uso
func (r *GormVentaRepository) ExisteNumero(numero string) (bool, error) {
	var total int64
	if err := r.db.Model(&models.Venta{}).
		Where("numero_orden = ?", numero).Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

// UpdateDetalles reescribe la instantánea JSON de la venta
func (r *GormVentaRepository) UpdateDetalles(id uint, detalles models.JSON) error {
	return r.db.Model(&models.Venta{}).Where("id = ?", id).Update("detalles", detalles).Error
}

// ListDelDia lista ventas del día natural dado
func (r *GormVentaRepository) ListDelDia(dia time.Time) ([]models.Venta, error) {
	inicio := time.Date(dia.Year(), dia.Month(), dia.Day(), 0, 0, 0, 0, dia.Location())
	fin := inicio.Add(24 * time.Hour)
	var ventas []models.Venta
	if err := r.db.Where("created_at >= ? AND created_at < ?", inicio, fin).
		Order("id asc").Find(&ventas).Error; err != nil {
		return nil, err
	}
	return ventas, nil
}

// TasaDelDia busca la última tasa no nula registrada ese día
func (r *GormVentaRepository) TasaDelDia(dia time.Time) (models.Money, bool, error) {
	inicio := time.Date(dia.Year(), dia.Month(), dia.Day(), 0, 0, 0, 0, dia.Location())
	fin := inicio.Add(24 * time.Hour)
	var venta models.Venta
	err := r.db.Where("created_at >= ? AND created_at < ? AND tasa_bcv > 0", inicio, fin).
		Order("id desc").First(&venta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Money{}, false, nil
		}
		return models.Money{}, false, err
	}
	return venta.TasaBCV, true, nil
}

// ListComisionables lista ventas cobradas sin comisión pagada
func (r *GormVentaRepository) ListComisionables(asesor string) ([]models.Venta, error) {
	query := r.db.Where("restante <= ? AND comision_pagada = ?", 0.01, false)
	if asesor != "" {
		query = query.Where("asesor = ?", asesor)
	}
	var ventas []models.Venta
	if err := query.Order("id asc").Find(&ventas).Error; err != nil {
		return nil, err
	}
	return ventas, nil
}

// MarkComisionPagada marca comisiones pagadas, retorna filas afectadas
func (r *GormVentaRepository) MarkComisionPagada(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Venta{}).
		Where("id IN ? AND comision_pagada = ?", ids, false).
		Update("comision_pagada", true)
	return result.RowsAffected, result.Error
}

// NextSecuenciaAnual incrementa la secuencia del año sin confirmar
func (r *GormVentaRepository) NextSecuenciaAnual(anio int) (int, error) {
	var seq models.SecuenciaOrden
	err := r.db.Where("anio = ?", anio).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = models.SecuenciaOrden{Anio: anio, UltimoNumero: 1}
		if err := r.db.Create(&seq).Error; err != nil {
			return 0, err
		}
		return seq.UltimoNumero, nil
	}
	if err != nil {
		return 0, err
	}
	seq.UltimoNumero++
	if err := r.db.Save(&seq).Error; err != nil {
		return 0, err
	}
	return seq.UltimoNumero, nil
}
