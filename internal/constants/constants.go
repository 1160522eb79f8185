package constants

// Estados de orden de trabajo
const (
	OrdenEstadoNuevo     = "NUEVO"
	OrdenEstadoBorrador  = "BORRADOR"
	OrdenEstadoEnProceso = "EN_PROCESO"
	OrdenEstadoListo     = "LISTO"
	OrdenEstadoEntregado = "ENTREGADO"
	OrdenEstadoAnulado   = "ANULADO"
)

// Formas de pago aceptadas
const (
	FormaPagoEfectivoUSD   = "Efectivo $"
	FormaPagoEfectivoBs    = "Efectivo Bs"
	FormaPagoZelle         = "Zelle"
	FormaPagoPagoMovil     = "Pago Móvil"
	FormaPagoTransferencia = "Transferencia"
	FormaPagoPunto         = "Punto de Venta"
)

// Tipos de columna de las tablas de parámetros dinámicas
const (
	ColumnaTipoTexto    = "TEXT"
	ColumnaTipoEntero   = "INTEGER"
	ColumnaTipoReal     = "REAL"
	ColumnaTipoBooleano = "BOOLEAN"
)

// Roles integrados
const (
	RolAdministrador = "administrador"
	RolVendedor      = "vendedor"
	RolDisenador     = "disenador"
)

// Nombres de tarea de la cola asincrónica
const (
	TaskOrdenCreada   = "venta:order_created"
	TaskReporteDiario = "report:daily"
	QueueDefault      = "default"
)

// MaterialesCorporeo materiales reconocidos por el extractor de resumen
var MaterialesCorporeo = []string{"PVC", "Acrílico", "MDF", "Anime", "Aluminio"}
