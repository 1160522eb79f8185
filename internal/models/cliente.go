package models

import "time"

// Cliente tabla de clientes
type Cliente struct {
	ID        uint      `gorm:"primarykey" json:"id"`           // clave primaria
	Nombre    string    `gorm:"index;not null" json:"nombre"`   // nombre o razón social
	Telefono  string    `gorm:"type:varchar(30)" json:"telefono,omitempty"`
	Email     string    `gorm:"type:varchar(120);index" json:"email,omitempty"`
	Direccion string    `gorm:"type:varchar(300)" json:"direccion,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName nombre de la tabla
func (Cliente) TableName() string {
	return "clientes"
}
