package queue

import (
	"encoding/json"

	"github.com/corposign/corposign/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrdenCreada notificación de orden creada junto con una venta
	TaskOrdenCreada = constants.TaskOrdenCreada
	// TaskReporteDiario generación del reporte diario de ventas
	TaskReporteDiario = constants.TaskReporteDiario
)

// OrdenCreadaPayload carga de la tarea de orden creada
type OrdenCreadaPayload struct {
	VentaID     uint   `json:"venta_id"`
	OrdenID     uint   `json:"orden_id"`
	NumeroOrden string `json:"numero_orden"`
}

// ReporteDiarioPayload carga de la tarea de reporte diario
type ReporteDiarioPayload struct {
	Fecha string `json:"fecha"` // 2006-01-02; vacío = hoy
}

// NewOrdenCreadaTask crea la tarea de orden creada
func NewOrdenCreadaTask(payload OrdenCreadaPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrdenCreada, body), nil
}

// NewReporteDiarioTask crea la tarea de reporte diario
func NewReporteDiarioTask(payload ReporteDiarioPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReporteDiario, body), nil
}
