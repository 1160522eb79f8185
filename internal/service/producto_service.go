package service

import (
	"strings"

	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/repository"
)

// ProductoService gestión de productos configurables
type ProductoService struct {
	productoRepo repository.ProductoRepository
	tablaRepo    repository.TablaParametrosRepository
}

// NewProductoService crea el servicio de productos
func NewProductoService(productoRepo repository.ProductoRepository, tablaRepo repository.TablaParametrosRepository) *ProductoService {
	return &ProductoService{
		productoRepo: productoRepo,
		tablaRepo:    tablaRepo,
	}
}

// ProductoInput datos de alta o edición de un producto
type ProductoInput struct {
	Nombre      string `json:"nombre" binding:"required"`
	Descripcion string `json:"descripcion"`
	CreadoPor   string `json:"creado_por"`
}

// Crear registra un producto configurable. El nombre debe ser único
// entre los productos activos.
func (s *ProductoService) Crear(input ProductoInput) (*models.ProductoConfigurable, error) {
	nombre := strings.TrimSpace(input.Nombre)
	if nombre == "" {
		return nil, ErrValidacion
	}

	count, err := s.productoRepo.CountNombreActivo(nombre, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrYaExiste
	}

	producto := &models.ProductoConfigurable{
		Nombre:      nombre,
		Descripcion: strings.TrimSpace(input.Descripcion),
		CreadoPor:   strings.TrimSpace(input.CreadoPor),
		Activo:      true,
	}
	if err := s.productoRepo.Create(producto); err != nil {
		return nil, err
	}
	return producto, nil
}

// Obtener busca un producto por ID
func (s *ProductoService) Obtener(id uint) (*models.ProductoConfigurable, error) {
	producto, err := s.productoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, ErrNoEncontrado
	}
	return producto, nil
}

// Actualizar edita nombre y descripción manteniendo la unicidad del
// nombre entre activos
func (s *ProductoService) Actualizar(id uint, input ProductoInput) (*models.ProductoConfigurable, error) {
	producto, err := s.Obtener(id)
	if err != nil {
		return nil, err
	}

	nombre := strings.TrimSpace(input.Nombre)
	if nombre == "" {
		return nil, ErrValidacion
	}
	if !strings.EqualFold(nombre, producto.Nombre) {
		count, err := s.productoRepo.CountNombreActivo(nombre, &producto.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrYaExiste
		}
	}

	producto.Nombre = nombre
	producto.Descripcion = strings.TrimSpace(input.Descripcion)
	if err := s.productoRepo.Update(producto); err != nil {
		return nil, err
	}
	return producto, nil
}

// Desactivar da de baja lógica al producto. Las tablas de parámetros
// asociadas se conservan y siguen el ciclo de vida propio del módulo
// de tablas.
func (s *ProductoService) Desactivar(id uint) error {
	producto, err := s.productoRepo.GetByID(id)
	if err != nil {
		return err
	}
	if producto == nil {
		return ErrNoEncontrado
	}
	return s.productoRepo.SetActivo(id, false)
}

// Reactivar vuelve a poner activo un producto dado de baja siempre que
// no choque con otro activo del mismo nombre
func (s *ProductoService) Reactivar(id uint) error {
	producto, err := s.productoRepo.GetByID(id)
	if err != nil {
		return err
	}
	if producto == nil {
		return ErrNoEncontrado
	}
	count, err := s.productoRepo.CountNombreActivo(producto.Nombre, &producto.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrYaExiste
	}
	return s.productoRepo.SetActivo(id, true)
}

// Listar pagina los productos
func (s *ProductoService) Listar(filter repository.ProductoListFilter) ([]models.ProductoConfigurable, int64, error) {
	return s.productoRepo.List(filter)
}

// Tablas retorna las tablas de parámetros de un producto
func (s *ProductoService) Tablas(productoID uint, soloActivas bool) ([]models.TablaParametros, error) {
	if _, err := s.Obtener(productoID); err != nil {
		return nil, err
	}
	return s.tablaRepo.List(repository.TablaListFilter{
		ProductoID:  productoID,
		SoloActivas: soloActivas,
	})
}
