package service

import (
	"errors"
	"time"

	"github.com/corposign/corposign/internal/config"
	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService autenticación del panel administrativo
type AuthService struct {
	cfg         *config.Config
	usuarioRepo repository.UsuarioRepository
}

// NewAuthService crea el servicio de autenticación
func NewAuthService(cfg *config.Config, usuarioRepo repository.UsuarioRepository) *AuthService {
	return &AuthService{
		cfg:         cfg,
		usuarioRepo: usuarioRepo,
	}
}

// HashPassword cifra la contraseña con bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword verifica la contraseña contra el hash almacenado
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// JWTClaims claims del token del panel
type JWTClaims struct {
	UsuarioID uint   `json:"usuario_id"`
	Username  string `json:"username"`
	Rol       string `json:"rol"`
	jwt.RegisteredClaims
}

// GenerateJWT genera el token firmado para un usuario
func (s *AuthService) GenerateJWT(usuario *models.Usuario) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.JWT.ExpireHours) * time.Hour)

	claims := JWTClaims{
		UsuarioID: usuario.ID,
		Username:  usuario.Username,
		Rol:       usuario.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ParseJWT valida y decodifica un token del panel
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("token inválido")
}

// Login autentica un usuario activo y emite su token
func (s *AuthService) Login(username, password string) (*models.Usuario, string, time.Time, error) {
	usuario, err := s.usuarioRepo.GetByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if usuario == nil || !usuario.Activo {
		return nil, "", time.Time{}, ErrCredenciales
	}

	if err := s.VerifyPassword(usuario.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrCredenciales
	}

	token, expiresAt, err := s.GenerateJWT(usuario)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	usuario.UltimoLoginAt = &now
	if err := s.usuarioRepo.Update(usuario); err != nil {
		return nil, "", time.Time{}, err
	}

	return usuario, token, expiresAt, nil
}

// ChangePassword cambia la contraseña validando la anterior
func (s *AuthService) ChangePassword(usuarioID uint, oldPassword, newPassword string) error {
	usuario, err := s.usuarioRepo.GetByID(usuarioID)
	if err != nil {
		return err
	}
	if usuario == nil {
		return ErrNoEncontrado
	}

	if err := s.VerifyPassword(usuario.PasswordHash, oldPassword); err != nil {
		return ErrCredenciales
	}
	if len(newPassword) < 6 {
		return ErrValidacion
	}

	hashedPassword, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	usuario.PasswordHash = hashedPassword
	return s.usuarioRepo.Update(usuario)
}
