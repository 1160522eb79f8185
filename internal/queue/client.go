package queue

import (
	"context"
	"fmt"
	"strings"

	"github.com/corposign/corposign/internal/config"
	"github.com/corposign/corposign/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue nombre de la cola por defecto
const DefaultQueue = constants.QueueDefault

// Client cliente de la cola asincrónica. Deshabilitado, todos los
// encolados son no-ops: la cola es opcional para la operación.
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient crea el cliente de cola
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:       client,
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled indica si la cola está habilitada
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close cierra el cliente
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// OrdenCreada encola el evento de orden creada; implementa el emisor
// que consume el servicio de ventas
func (c *Client) OrdenCreada(ctx context.Context, ventaID, ordenID uint, numeroOrden string) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrdenCreadaTask(OrdenCreadaPayload{
		VentaID:     ventaID,
		OrdenID:     ordenID,
		NumeroOrden: numeroOrden,
	})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.defaultQueue))
	return err
}

// EnqueueReporteDiario encola la generación del reporte diario
func (c *Client) EnqueueReporteDiario(payload ReporteDiarioPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewReporteDiarioTask(payload)
	if err != nil {
		return err
	}
	options := append([]asynq.Option{asynq.Queue(c.defaultQueue)}, opts...)
	_, err = c.client.Enqueue(task, options...)
	return err
}

// BuildServerConfig arma la configuración del servidor de la cola
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
