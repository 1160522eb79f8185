package models

import "time"

// Venta tabla de ventas
// Los montos en dólares y bolívares conviven: MontoUSDCalculado deriva de
// MontoBs/TasaBCV cuando ambos están disponibles.
type Venta struct {
	ID                uint      `gorm:"primarykey" json:"id"`                                  // clave primaria
	NumeroOrden       string    `gorm:"uniqueIndex;not null" json:"numero_orden"`              // secuencial de 6 dígitos o legado "ORD-*"
	Articulo          string    `gorm:"not null" json:"articulo"`                              // artículo vendido
	Asesor            string    `gorm:"type:varchar(100);index" json:"asesor"`                 // asesor de la venta
	VentaUSD          Money     `gorm:"type:decimal(20,2);not null;default:0" json:"venta_usd"`       // precio total en USD
	FormaPago         string    `gorm:"type:varchar(40);index" json:"forma_pago"`              // forma de pago principal
	Serial            string    `gorm:"type:varchar(60)" json:"serial,omitempty"`              // serial del punto
	Banco             string    `gorm:"type:varchar(60)" json:"banco,omitempty"`               // banco del pago
	Referencia        string    `gorm:"type:varchar(60)" json:"referencia,omitempty"`          // referencia bancaria
	FechaPago         *time.Time `gorm:"index" json:"fecha_pago,omitempty"`                    // fecha del pago en Bs
	MontoBs           Money     `gorm:"type:decimal(20,2);not null;default:0" json:"monto_bs"` // monto pagado en bolívares
	TasaBCV           Money     `gorm:"type:decimal(20,2);not null;default:0" json:"tasa_bcv"` // tasa aplicada (0 = no disponible)
	MontoUSDCalculado Money     `gorm:"type:decimal(20,2);not null;default:0" json:"monto_usd_calculado"` // MontoBs/TasaBCV
	AbonoUSD          Money     `gorm:"type:decimal(20,2);not null;default:0" json:"abono_usd"` // abono recibido en USD
	Restante          Money     `gorm:"type:decimal(20,2);not null;default:0" json:"restante"`  // max(0, VentaUSD-AbonoUSD)
	IVA               Money     `gorm:"type:decimal(20,2);not null;default:0" json:"iva"`
	DisenoUSD         Money     `gorm:"type:decimal(20,2);not null;default:0" json:"diseno_usd"` // costo de diseño
	IngresosUSD       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"ingresos_usd"` // auto=AbonoUSD en Efectivo $/Zelle
	Descripcion       string    `gorm:"type:text" json:"descripcion,omitempty"`                // saneada de fragmentos Subtotal/Total
	Cliente           string    `gorm:"type:varchar(150);index" json:"cliente,omitempty"`      // nombre suelto del cliente
	ClienteID         *uint     `gorm:"index" json:"cliente_id,omitempty"`                     // FK opcional a clientes
	Detalles          JSON      `gorm:"type:json" json:"detalles,omitempty"`                   // instantánea items/totales/meta
	ComisionPagada    bool      `gorm:"default:false;index" json:"comision_pagada"`            // evita doble pago de comisión
	CreatedAt         time.Time `gorm:"index" json:"created_at"`

	// OrdenCreadaID id de la orden creada junto con la venta; solo en
	// memoria, la fila persistida es la de ordenes
	OrdenCreadaID uint `gorm:"-" json:"orden_creada_id,omitempty"`

	// Relaciones
	Items []VentaItem `gorm:"foreignKey:VentaID" json:"items,omitempty"`
	Pagos []VentaPago `gorm:"foreignKey:VentaID" json:"pagos,omitempty"`
}

// TableName nombre de la tabla
func (Venta) TableName() string {
	return "ventas"
}

// VentaItem renglón de una venta
type VentaItem struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	VentaID     uint   `gorm:"index;not null" json:"venta_id"`
	Descripcion string `gorm:"not null" json:"descripcion"`
	Cantidad    int    `gorm:"not null;default:1" json:"cantidad"`
	PrecioUSD   Money  `gorm:"type:decimal(20,2);not null;default:0" json:"precio_usd"`
	TotalUSD    Money  `gorm:"type:decimal(20,2);not null;default:0" json:"total_usd"`
}

// TableName nombre de la tabla
func (VentaItem) TableName() string {
	return "venta_items"
}

// VentaPago pago asociado a una venta (una venta admite varios métodos)
type VentaPago struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	VentaID    uint       `gorm:"index;not null" json:"venta_id"`
	FormaPago  string     `gorm:"type:varchar(40);not null" json:"forma_pago"`
	MontoUSD   Money      `gorm:"type:decimal(20,2);not null;default:0" json:"monto_usd"`
	MontoBs    Money      `gorm:"type:decimal(20,2);not null;default:0" json:"monto_bs"`
	Banco      string     `gorm:"type:varchar(60)" json:"banco,omitempty"`
	Referencia string     `gorm:"type:varchar(60)" json:"referencia,omitempty"`
	FechaPago  *time.Time `json:"fecha_pago,omitempty"`
}

// TableName nombre de la tabla
func (VentaPago) TableName() string {
	return "venta_pagos"
}
