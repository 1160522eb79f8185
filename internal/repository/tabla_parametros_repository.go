package repository

import (
	"errors"

	"github.com/corposign/corposign/internal/models"

	"gorm.io/gorm"
)

// TablaParametrosRepository acceso a datos del motor de tablas de parámetros
type TablaParametrosRepository interface {
	Create(tabla *models.TablaParametros) error
	GetByID(id uint) (*models.TablaParametros, error)
	Update(tabla *models.TablaParametros) error
	SetActivo(id uint, activo bool) error
	List(filter TablaListFilter) ([]models.TablaParametros, error)
	// ListHijas lista las tablas cuya TablaPadreID apunta a la dada.
	ListHijas(tablaID uint, soloActivas bool) ([]models.TablaParametros, error)
	CountNombreTabla(nombreTabla string) (int64, error)

	CreateFila(fila *models.FilaParametros) error
	GetFila(id uint) (*models.FilaParametros, error)
	UpdateFila(fila *models.FilaParametros) error
	SetFilaActivo(id uint, activo bool) error
	ListFilas(tablaID uint, soloActivas bool) ([]models.FilaParametros, error)
	// DeactivateFilas baja lógica masiva de las filas activas de una tabla;
	// retorna cuántas filas cambiaron.
	DeactivateFilas(tablaID uint) (int64, error)

	WithTx(tx *gorm.DB) *GormTablaParametrosRepository
}

// GormTablaParametrosRepository implementación GORM
type GormTablaParametrosRepository struct {
	db *gorm.DB
}

// NewTablaParametrosRepository crea el repositorio de tablas de parámetros
func NewTablaParametrosRepository(db *gorm.DB) *GormTablaParametrosRepository {
	return &GormTablaParametrosRepository{db: db}
}

// WithTx liga el repositorio a una transacción
func (r *GormTablaParametrosRepository) WithTx(tx *gorm.DB) *GormTablaParametrosRepository {
	if tx == nil {
		return r
	}
	return &GormTablaParametrosRepository{db: tx}
}

// Create crea una tabla de parámetros
func (r *GormTablaParametrosRepository) Create(tabla *models.TablaParametros) error {
	return r.db.Create(tabla).Error
}

// GetByID obtiene una tabla por ID
func (r *GormTablaParametrosRepository) GetByID(id uint) (*models.TablaParametros, error) {
	var tabla models.TablaParametros
	if err := r.db.First(&tabla, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tabla, nil
}

// Update guarda los cambios de una tabla
func (r *GormTablaParametrosRepository) Update(tabla *models.TablaParametros) error {
	return r.db.Save(tabla).Error
}

// SetActivo cambia la baja lógica de una tabla
func (r *GormTablaParametrosRepository) SetActivo(id uint, activo bool) error {
	return r.db.Model(&models.TablaParametros{}).Where("id = ?", id).Update("activo", activo).Error
}

// List lista tablas de un producto
func (r *GormTablaParametrosRepository) List(filter TablaListFilter) ([]models.TablaParametros, error) {
	var tablas []models.TablaParametros
	query := r.db.Model(&models.TablaParametros{})
	if filter.ProductoID != 0 {
		query = query.Where("producto_id = ?", filter.ProductoID)
	}
	if filter.SoloActivas {
		query = query.Where("activo = ?", true)
	}
	if err := query.Order("id asc").Find(&tablas).Error; err != nil {
		return nil, err
	}
	return tablas, nil
}

// ListHijas lista tablas hijas directas
func (r *GormTablaParametrosRepository) ListHijas(tablaID uint, soloActivas bool) ([]models.TablaParametros, error) {
	var tablas []models.TablaParametros
	query := r.db.Where("tabla_padre_id = ?", tablaID)
	if soloActivas {
		query = query.Where("activo = ?", true)
	}
	if err := query.Order("id asc").Find(&tablas).Error; err != nil {
		return nil, err
	}
	return tablas, nil
}

// CountNombreTabla cuenta tablas con un nombre de sistema dado
func (r *GormTablaParametrosRepository) CountNombreTabla(nombreTabla string) (int64, error) {
	var total int64
	err := r.db.Model(&models.TablaParametros{}).
		Where("nombre_tabla = ?", nombreTabla).
		Count(&total).Error
	return total, err
}

// CreateFila crea una fila de una tabla
func (r *GormTablaParametrosRepository) CreateFila(fila *models.FilaParametros) error {
	return r.db.Create(fila).Error
}

// GetFila obtiene una fila por ID
func (r *GormTablaParametrosRepository) GetFila(id uint) (*models.FilaParametros, error) {
	var fila models.FilaParametros
	if err := r.db.First(&fila, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fila, nil
}

// UpdateFila guarda los cambios de una fila
func (r *GormTablaParametrosRepository) UpdateFila(fila *models.FilaParametros) error {
	return r.db.Save(fila).Error
}

// SetFilaActivo cambia la baja lógica de una fila
func (r *GormTablaParametrosRepository) SetFilaActivo(id uint, activo bool) error {
	return r.db.Model(&models.FilaParametros{}).Where("id = ?", id).Update("activo", activo).Error
}

// ListFilas lista filas de una tabla
func (r *GormTablaParametrosRepository) ListFilas(tablaID uint, soloActivas bool) ([]models.FilaParametros, error) {
	var filas []models.FilaParametros
	query := r.db.Where("tabla_id = ?", tablaID)
	if soloActivas {
		query = query.Where("activo = ?", true)
	}
	if err := query.Order("id asc").Find(&filas).Error; err != nil {
		return nil, err
	}
	return filas, nil
}

// DeactivateFilas baja lógica masiva de filas activas
func (r *GormTablaParametrosRepository) DeactivateFilas(tablaID uint) (int64, error) {
	result := r.db.Model(&models.FilaParametros{}).
		Where("tabla_id = ? AND activo = ?", tablaID, true).
		Update("activo", false)
	return result.RowsAffected, result.Error
}
