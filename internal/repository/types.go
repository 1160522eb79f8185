package repository

import "time"

// ClienteListFilter filtros del listado de clientes
type ClienteListFilter struct {
	Page     int
	PageSize int
	Search   string
}

// UsuarioListFilter filtros del listado de usuarios
type UsuarioListFilter struct {
	Page        int
	PageSize    int
	Search      string
	SoloActivos bool
}

// ProductoListFilter filtros del listado de productos configurables
type ProductoListFilter struct {
	Page        int
	PageSize    int
	Search      string
	SoloActivos bool
}

// TablaListFilter filtros del listado de tablas de parámetros
type TablaListFilter struct {
	ProductoID  uint
	SoloActivas bool
}

// VentaListFilter filtros del listado de ventas
type VentaListFilter struct {
	Page        int
	PageSize    int
	NumeroOrden string
	Asesor      string
	Cliente     string
	FormaPago   string
	Desde       *time.Time
	Hasta       *time.Time
	SoloDeuda   bool // restante > 0
}

// OrdenListFilter filtros del listado de órdenes
type OrdenListFilter struct {
	Page        int
	PageSize    int
	NumeroOrden string
	Estado      string
	VentaID     uint
	Desde       *time.Time
	Hasta       *time.Time
}

// CuentaListFilter filtros de cuentas por pagar
type CuentaListFilter struct {
	Page           int
	PageSize       int
	Proveedor      string
	SoloPendientes bool
	VencenAntes    *time.Time
}
