package repository

import (
	"errors"

	"github.com/corposign/corposign/internal/models"

	"gorm.io/gorm"
)

// UsuarioRepository acceso a datos de usuarios
type UsuarioRepository interface {
	Create(usuario *models.Usuario) error
	GetByID(id uint) (*models.Usuario, error)
	// GetByUsername busca por username incluyendo usuarios dados de baja,
	// de forma que recrear un username inactivo reactive la misma fila.
	GetByUsername(username string) (*models.Usuario, error)
	Update(usuario *models.Usuario) error
	Deactivate(id uint) error
	List(filter UsuarioListFilter) ([]models.Usuario, int64, error)
	WithTx(tx *gorm.DB) *GormUsuarioRepository
}

// GormUsuarioRepository implementación GORM
type GormUsuarioRepository struct {
	db *gorm.DB
}

// NewUsuarioRepository crea el repositorio de usuarios
func NewUsuarioRepository(db *gorm.DB) *GormUsuarioRepository {
	return &GormUsuarioRepository{db: db}
}

// WithTx liga el repositorio a una transacción
func (r *GormUsuarioRepository) WithTx(tx *gorm.DB) *GormUsuarioRepository {
	if tx == nil {
		return r
	}
	return &GormUsuarioRepository{db: tx}
}

// Create crea un usuario
func (r *GormUsuarioRepository) Create(usuario *models.Usuario) error {
	return r.db.Create(usuario).Error
}

// GetByID obtiene un usuario por ID
func (r *GormUsuarioRepository) GetByID(id uint) (*models.Usuario, error) {
	var usuario models.Usuario
	if err := r.db.First(&usuario, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &usuario, nil
}

// GetByUsername obtiene un usuario por username, activo o no
func (r *GormUsuarioRepository) GetByUsername(username string) (*models.Usuario, error) {
	var usuario models.Usuario
	if err := r.db.Where("username = ?", username).First(&usuario).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &usuario, nil
}

// Update guarda los cambios de un usuario
func (r *GormUsuarioRepository) Update(usuario *models.Usuario) error {
	return r.db.Save(usuario).Error
}

// Deactivate baja lógica de un usuario
func (r *GormUsuarioRepository) Deactivate(id uint) error {
	return r.db.Model(&models.Usuario{}).Where("id = ?", id).Update("activo", false).Error
}

// List lista usuarios con filtros y paginación
func (r *GormUsuarioRepository) List(filter UsuarioListFilter) ([]models.Usuario, int64, error) {
	var usuarios []models.Usuario
	query := r.db.Model(&models.Usuario{})

	if filter.SoloActivos {
		query = query.Where("activo = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("username LIKE ? OR nombre_completo LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("username asc").Find(&usuarios).Error; err != nil {
		return nil, 0, err
	}
	return usuarios, total, nil
}
