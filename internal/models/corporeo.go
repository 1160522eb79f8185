package models

import "time"

// CorporeoConfig configuración vigente de un aviso corpóreo
// Se upserta por (VentaID, OrdenID); los campos de resumen se extraen del
// payload para listados y filtros rápidos.
type CorporeoConfig struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	VentaID     uint      `gorm:"index;not null" json:"venta_id"`
	OrdenID     uint      `gorm:"index;not null" json:"orden_id"`
	Payload     JSON      `gorm:"type:json;not null" json:"payload"`            // configuración completa
	Cantidad    int       `gorm:"not null;default:0" json:"cantidad"`           // resumen: cantidad de piezas
	PrecioUSD   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"precio_usd"` // resumen: precio USD
	PrecioBs    Money     `gorm:"type:decimal(20,2);not null;default:0" json:"precio_bs"`  // resumen: precio Bs
	Material    string    `gorm:"type:varchar(60)" json:"material,omitempty"`   // resumen: material elegido
	Iluminacion string    `gorm:"type:varchar(60)" json:"iluminacion,omitempty"` // resumen: tipo de iluminación
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName nombre de la tabla
func (CorporeoConfig) TableName() string {
	return "corporeo_configs"
}

// CorporeoPayload versión histórica del payload de un corpóreo
// Se admite más de una fila por venta (versiones anteriores).
type CorporeoPayload struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	VentaID   uint      `gorm:"index;not null" json:"venta_id"`
	OrdenID   uint      `gorm:"index" json:"orden_id,omitempty"`
	Payload   JSON      `gorm:"type:json;not null" json:"payload"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName nombre de la tabla
func (CorporeoPayload) TableName() string {
	return "corporeo_payloads"
}
