package service

import (
	"strings"

	"github.com/corposign/corposign/internal/constants"
	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/repository"
)

// UsuarioService gestión de usuarios del sistema
type UsuarioService struct {
	usuarioRepo repository.UsuarioRepository
	authService *AuthService
	authzSvc    RolAssigner
}

// RolAssigner sincroniza el rol del usuario con el motor de permisos
type RolAssigner interface {
	AsignarRol(username, rol string) error
	QuitarRoles(username string) error
}

// NewUsuarioService crea el servicio de usuarios
func NewUsuarioService(usuarioRepo repository.UsuarioRepository, authService *AuthService, authzSvc RolAssigner) *UsuarioService {
	return &UsuarioService{
		usuarioRepo: usuarioRepo,
		authService: authService,
		authzSvc:    authzSvc,
	}
}

// UsuarioInput datos de alta de un usuario
type UsuarioInput struct {
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password" binding:"required"`
	NombreCompleto string `json:"nombre_completo"`
	Rol            string `json:"rol" binding:"required"`
}

func rolValido(rol string) bool {
	switch rol {
	case constants.RolAdministrador, constants.RolVendedor, constants.RolDisenador:
		return true
	}
	return false
}

// Crear registra un usuario. Si el username existe dado de baja se
// reactiva la misma fila con los datos nuevos; si existe activo es un
// conflicto.
func (s *UsuarioService) Crear(input UsuarioInput) (*models.Usuario, error) {
	username := strings.TrimSpace(strings.ToLower(input.Username))
	if username == "" || len(input.Password) < 6 {
		return nil, ErrValidacion
	}
	if !rolValido(input.Rol) {
		return nil, ErrValidacion
	}

	existente, err := s.usuarioRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existente != nil && existente.Activo {
		return nil, ErrYaExiste
	}

	hash, err := s.authService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	var usuario *models.Usuario
	if existente != nil {
		// reactivación: misma fila, credenciales y rol nuevos
		existente.PasswordHash = hash
		existente.NombreCompleto = strings.TrimSpace(input.NombreCompleto)
		existente.Rol = input.Rol
		existente.Activo = true
		if err := s.usuarioRepo.Update(existente); err != nil {
			return nil, err
		}
		usuario = existente
	} else {
		usuario = &models.Usuario{
			Username:       username,
			PasswordHash:   hash,
			NombreCompleto: strings.TrimSpace(input.NombreCompleto),
			Rol:            input.Rol,
			Activo:         true,
		}
		if err := s.usuarioRepo.Create(usuario); err != nil {
			return nil, err
		}
	}

	if s.authzSvc != nil {
		if err := s.authzSvc.AsignarRol(usuario.Username, usuario.Rol); err != nil {
			return nil, err
		}
	}
	return usuario, nil
}

// Obtener busca un usuario por ID
func (s *UsuarioService) Obtener(id uint) (*models.Usuario, error) {
	usuario, err := s.usuarioRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if usuario == nil {
		return nil, ErrNoEncontrado
	}
	return usuario, nil
}

// CambiarRol reasigna el rol y lo sincroniza con el motor de permisos
func (s *UsuarioService) CambiarRol(id uint, rol string) (*models.Usuario, error) {
	if !rolValido(rol) {
		return nil, ErrValidacion
	}
	usuario, err := s.Obtener(id)
	if err != nil {
		return nil, err
	}
	usuario.Rol = rol
	if err := s.usuarioRepo.Update(usuario); err != nil {
		return nil, err
	}
	if s.authzSvc != nil {
		if err := s.authzSvc.AsignarRol(usuario.Username, rol); err != nil {
			return nil, err
		}
	}
	return usuario, nil
}

// Desactivar da de baja lógica a un usuario y retira sus roles
func (s *UsuarioService) Desactivar(id uint) error {
	usuario, err := s.Obtener(id)
	if err != nil {
		return err
	}
	if err := s.usuarioRepo.Deactivate(id); err != nil {
		return err
	}
	if s.authzSvc != nil {
		if err := s.authzSvc.QuitarRoles(usuario.Username); err != nil {
			return err
		}
	}
	return nil
}

// Listar pagina los usuarios
func (s *UsuarioService) Listar(filter repository.UsuarioListFilter) ([]models.Usuario, int64, error) {
	return s.usuarioRepo.List(filter)
}
