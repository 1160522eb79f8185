package service

import (
	"strings"

	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/repository"
)

// ClienteService gestión del catálogo de clientes
type ClienteService struct {
	clienteRepo repository.ClienteRepository
}

// NewClienteService crea el servicio de clientes
func NewClienteService(clienteRepo repository.ClienteRepository) *ClienteService {
	return &ClienteService{clienteRepo: clienteRepo}
}

// ClienteInput datos de alta o edición de un cliente
type ClienteInput struct {
	Nombre    string `json:"nombre" binding:"required"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
	Direccion string `json:"direccion"`
}

// Crear registra un cliente nuevo
func (s *ClienteService) Crear(input ClienteInput) (*models.Cliente, error) {
	nombre := strings.TrimSpace(input.Nombre)
	if nombre == "" {
		return nil, ErrValidacion
	}

	cliente := &models.Cliente{
		Nombre:    nombre,
		Telefono:  strings.TrimSpace(input.Telefono),
		Email:     strings.TrimSpace(input.Email),
		Direccion: strings.TrimSpace(input.Direccion),
	}
	if err := s.clienteRepo.Create(cliente); err != nil {
		return nil, err
	}
	return cliente, nil
}

// Obtener busca un cliente por ID
func (s *ClienteService) Obtener(id uint) (*models.Cliente, error) {
	cliente, err := s.clienteRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cliente == nil {
		return nil, ErrNoEncontrado
	}
	return cliente, nil
}

// Actualizar edita los datos de un cliente existente
func (s *ClienteService) Actualizar(id uint, input ClienteInput) (*models.Cliente, error) {
	cliente, err := s.Obtener(id)
	if err != nil {
		return nil, err
	}

	nombre := strings.TrimSpace(input.Nombre)
	if nombre == "" {
		return nil, ErrValidacion
	}
	cliente.Nombre = nombre
	cliente.Telefono = strings.TrimSpace(input.Telefono)
	cliente.Email = strings.TrimSpace(input.Email)
	cliente.Direccion = strings.TrimSpace(input.Direccion)

	if err := s.clienteRepo.Update(cliente); err != nil {
		return nil, err
	}
	return cliente, nil
}

// Eliminar borra un cliente; las ventas existentes conservan el nombre
// en texto aunque el registro desaparezca
func (s *ClienteService) Eliminar(id uint) error {
	cliente, err := s.clienteRepo.GetByID(id)
	if err != nil {
		return err
	}
	if cliente == nil {
		return ErrNoEncontrado
	}
	return s.clienteRepo.Delete(id)
}

// Listar pagina el catálogo con búsqueda opcional
func (s *ClienteService) Listar(filter repository.ClienteListFilter) ([]models.Cliente, int64, error) {
	return s.clienteRepo.List(filter)
}
