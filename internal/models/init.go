package models

import (
	"strings"

	"github.com/corposign/corposign/internal/constants"
	"github.com/corposign/corposign/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitUsuarioAdmin crea el usuario administrador inicial si no hay usuarios
func InitUsuarioAdmin(username, password string) error {
	var count int64
	DB.Model(&Usuario{}).Count(&count)
	if count > 0 {
		return nil
	}

	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := Usuario{
		Username:       strings.TrimSpace(username),
		PasswordHash:   string(hash),
		NombreCompleto: "Administrador",
		Rol:            constants.RolAdministrador,
		Activo:         true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "username", username)
		logger.Warnw("default_admin_password_change_required", "username", username)
	} else {
		logger.Warnw("default_admin_created", "username", username, "password_hidden", true)
	}
	return nil
}
