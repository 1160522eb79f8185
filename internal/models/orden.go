package models

import "time"

// Orden orden de trabajo asociada a una venta
// Comparte NumeroOrden con la venta que la originó.
type Orden struct {
	ID          uint      `gorm:"primarykey" json:"id"`                      // clave primaria
	VentaID     uint      `gorm:"index;not null" json:"venta_id"`            // venta que la creó
	NumeroOrden string    `gorm:"index;not null" json:"numero_orden"`        // compartido con la venta
	Producto    string    `gorm:"type:varchar(200)" json:"producto"`         // nombre del producto
	Detalles    JSON      `gorm:"type:json" json:"detalles,omitempty"`       // payload estructurado (texto/items/corpóreo)
	Estado      string    `gorm:"type:varchar(20);index;not null" json:"estado"` // NUEVO, BORRADOR, ...
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relaciones
	Venta *Venta `gorm:"foreignKey:VentaID" json:"venta,omitempty"`
}

// TableName nombre de la tabla
func (Orden) TableName() string {
	return "ordenes"
}

// SecuenciaOrden secuencia anual heredada para el formato ORD-{año}-{seq}
// Se incrementa con flush dentro de la transacción del llamador para no
// dejar huecos si la transacción externa revierte.
type SecuenciaOrden struct {
	ID           uint `gorm:"primarykey" json:"id"`
	Anio         int  `gorm:"uniqueIndex;not null" json:"anio"`
	UltimoNumero int  `gorm:"not null;default:0" json:"ultimo_numero"`
}

// TableName nombre de la tabla
func (SecuenciaOrden) TableName() string {
	return "secuencias_orden"
}
