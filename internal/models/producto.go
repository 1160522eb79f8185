package models

import "time"

// ProductoConfigurable producto con tablas de parámetros definibles en tiempo de ejecución
// Nunca se elimina físicamente: las órdenes históricas referencian su nombre.
type ProductoConfigurable struct {
	ID          uint      `gorm:"primarykey" json:"id"`                     // clave primaria
	Nombre      string    `gorm:"index;not null" json:"nombre"`             // único entre productos activos
	Descripcion string    `gorm:"type:varchar(500)" json:"descripcion,omitempty"`
	CreadoPor   string    `gorm:"type:varchar(100)" json:"creado_por"`      // operador que lo creó
	Activo      bool      `gorm:"index" json:"activo"`                      // baja lógica
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relaciones
	Tablas []TablaParametros `gorm:"foreignKey:ProductoID" json:"tablas,omitempty"` // tablas de parámetros
}

// TableName nombre de la tabla
func (ProductoConfigurable) TableName() string {
	return "productos_configurables"
}
