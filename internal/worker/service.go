package worker

import (
	"context"
	"errors"
	"time"

	"github.com/corposign/corposign/internal/config"
	"github.com/corposign/corposign/internal/logger"
	"github.com/corposign/corposign/internal/queue"

	"github.com/hibiken/asynq"
)

// reporteDiarioHora hora local a la que se encola el reporte del día
const reporteDiarioHora = 20

// Service servicio de la cola asincrónica
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService crea el servicio de la cola
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name nombre del servicio
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start arranca el servidor de la cola
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.QueueClient != nil {
		go s.runReporteDiarioLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop detiene el servidor
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runReporteDiarioLoop encola el reporte de cierre una vez al día
func (s *Service) runReporteDiarioLoop(ctx context.Context) {
	for {
		ahora := time.Now()
		proximo := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), reporteDiarioHora, 0, 0, 0, ahora.Location())
		if !proximo.After(ahora) {
			proximo = proximo.Add(24 * time.Hour)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(proximo.Sub(ahora)):
		}

		payload := queue.ReporteDiarioPayload{Fecha: time.Now().Format("2006-01-02")}
		if err := s.consumer.QueueClient.EnqueueReporteDiario(payload); err != nil {
			logger.Warnw("worker_enqueue_reporte_diario_failed", "error", err)
		}
	}
}
