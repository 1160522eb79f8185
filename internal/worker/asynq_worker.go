package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/corposign/corposign/internal/logger"
	"github.com/corposign/corposign/internal/provider"
	"github.com/corposign/corposign/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer consumidor de tareas asincrónicas
type Consumer struct {
	*provider.Container
}

// NewConsumer crea el consumidor
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register registra los manejadores de tareas
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrdenCreada, c.handleOrdenCreada)
	mux.HandleFunc(queue.TaskReporteDiario, c.handleReporteDiario)
}

func (c *Consumer) handleOrdenCreada(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_orden_creada_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrdenCreadaPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_orden_creada_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrdenID == 0 {
		logger.Debugw("worker_orden_creada_skip_invalid_payload", "orden_id", payload.OrdenID)
		return nil
	}
	orden, err := c.OrdenRepo.GetByID(payload.OrdenID)
	if err != nil {
		logger.Warnw("worker_orden_creada_fetch_failed", "orden_id", payload.OrdenID, "error", err)
		return err
	}
	if orden == nil {
		logger.Debugw("worker_orden_creada_skip_not_found", "orden_id", payload.OrdenID)
		return nil
	}
	logger.Infow("worker_orden_creada",
		"orden_id", orden.ID,
		"venta_id", payload.VentaID,
		"numero_orden", orden.NumeroOrden,
		"producto", orden.Producto,
	)
	return nil
}

func (c *Consumer) handleReporteDiario(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_reporte_diario_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ReporteDiarioPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_reporte_diario_unmarshal_failed", "error", err)
		return err
	}
	dia := time.Now()
	if payload.Fecha != "" {
		parsed, err := time.ParseInLocation("2006-01-02", payload.Fecha, time.Local)
		if err != nil {
			logger.Warnw("worker_reporte_diario_invalid_fecha", "fecha", payload.Fecha, "error", err)
			return nil
		}
		dia = parsed
	}
	if c.ReporteService == nil {
		logger.Warnw("worker_reporte_diario_skip_service_nil", "fecha", payload.Fecha)
		return nil
	}
	reporte, err := c.ReporteService.Diario(ctx, dia)
	if err != nil {
		logger.Warnw("worker_reporte_diario_failed", "fecha", payload.Fecha, "error", err)
		return err
	}
	logger.Infow("worker_reporte_diario",
		"fecha", reporte.Fecha,
		"total_ventas", reporte.TotalVentas,
		"venta_usd", reporte.VentaUSD.String(),
		"abono_usd", reporte.AbonoUSD.String(),
		"restante_usd", reporte.RestanteUSD.String(),
	)
	return nil
}
