package models

import "time"

// Trabajador tabla de trabajadores
type Trabajador struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Nombre      string    `gorm:"index;not null" json:"nombre"`
	Cargo       string    `gorm:"type:varchar(80)" json:"cargo"`
	SalarioUSD  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"salario_usd"`  // salario base en USD
	ComisionPct Money     `gorm:"type:decimal(8,2);not null;default:0" json:"comision_pct"`  // porcentaje sobre ventas cobradas
	Activo      bool      `gorm:"index" json:"activo"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName nombre de la tabla
func (Trabajador) TableName() string {
	return "trabajadores"
}

// CuentaPorPagar cuenta pendiente con un proveedor
type CuentaPorPagar struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	Proveedor        string     `gorm:"index;not null" json:"proveedor"`
	Concepto         string     `gorm:"type:varchar(300)" json:"concepto"`
	MontoUSD         Money      `gorm:"type:decimal(20,2);not null;default:0" json:"monto_usd"`
	FechaVencimiento *time.Time `gorm:"index" json:"fecha_vencimiento,omitempty"`
	Pagada           bool       `gorm:"default:false;index" json:"pagada"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName nombre de la tabla
func (CuentaPorPagar) TableName() string {
	return "cuentas_por_pagar"
}
