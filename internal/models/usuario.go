package models

import "time"

// Usuario tabla de usuarios del sistema
// La baja es lógica (Activo=false): recrear un username dado de baja
// reactiva la misma fila en vez de duplicarla.
type Usuario struct {
	ID             uint       `gorm:"primarykey" json:"id"`                     // clave primaria
	Username       string     `gorm:"uniqueIndex;not null" json:"username"`     // nombre de usuario único
	PasswordHash   string     `gorm:"type:varchar(200);not null" json:"-"`      // hash bcrypt
	NombreCompleto string     `gorm:"type:varchar(150)" json:"nombre_completo"` // nombre completo
	Rol            string     `gorm:"type:varchar(40);index" json:"rol"`        // rol asignado (casbin)
	Activo         bool       `gorm:"index" json:"activo"`                      // baja lógica
	UltimoLoginAt  *time.Time `json:"ultimo_login_at"`                          // último login exitoso
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName nombre de la tabla
func (Usuario) TableName() string {
	return "usuarios"
}
