package provider

import (
	"github.com/corposign/corposign/internal/authz"
	"github.com/corposign/corposign/internal/cache"
	"github.com/corposign/corposign/internal/config"
	"github.com/corposign/corposign/internal/logger"
	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/queue"
	"github.com/corposign/corposign/internal/repository"
	"github.com/corposign/corposign/internal/service"
	"github.com/corposign/corposign/internal/tasabcv"
)

// Container contenedor de dependencias
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositorios
	ClienteRepo    repository.ClienteRepository
	UsuarioRepo    repository.UsuarioRepository
	ProductoRepo   repository.ProductoRepository
	TablaRepo      repository.TablaParametrosRepository
	VentaRepo      repository.VentaRepository
	OrdenRepo      repository.OrdenRepository
	CorporeoRepo   repository.CorporeoRepository
	TrabajadorRepo repository.TrabajadorRepository
	CuentaRepo     repository.CuentaRepository

	// Servicios
	AuthzService      *authz.Service
	AuthService       *service.AuthService
	ClienteService    *service.ClienteService
	UsuarioService    *service.UsuarioService
	ProductoService   *service.ProductoService
	TablaService      *service.TablaParametrosService
	VentaService      *service.VentaService
	OrdenService      *service.OrdenService
	TrabajadorService *service.TrabajadorService
	CuentaService     *service.CuentaService
	ReporteService    *service.ReporteService
	TasaProvider      *tasabcv.Provider
}

// NewContainer inicializa el contenedor
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.ClienteRepo = repository.NewClienteRepository(db)
	c.UsuarioRepo = repository.NewUsuarioRepository(db)
	c.ProductoRepo = repository.NewProductoRepository(db)
	c.TablaRepo = repository.NewTablaParametrosRepository(db)
	c.VentaRepo = repository.NewVentaRepository(db)
	c.OrdenRepo = repository.NewOrdenRepository(db)
	c.CorporeoRepo = repository.NewCorporeoRepository(db)
	c.TrabajadorRepo = repository.NewTrabajadorRepository(db)
	c.CuentaRepo = repository.NewCuentaRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.TasaProvider = tasabcv.NewProvider(c.Config.BCV)

	c.AuthService = service.NewAuthService(c.Config, c.UsuarioRepo)
	c.ClienteService = service.NewClienteService(c.ClienteRepo)
	c.UsuarioService = service.NewUsuarioService(c.UsuarioRepo, c.AuthService, c.AuthzService)
	c.ProductoService = service.NewProductoService(c.ProductoRepo, c.TablaRepo)
	c.TablaService = service.NewTablaParametrosService(c.TablaRepo, c.ProductoRepo, c.OrdenRepo)

	var eventos service.EventEmitter
	if c.QueueClient != nil {
		eventos = c.QueueClient
	}
	c.VentaService = service.NewVentaService(models.DB, c.Config, c.VentaRepo, c.OrdenRepo, c.CorporeoRepo, c.TasaProvider, eventos)
	c.OrdenService = service.NewOrdenService(c.OrdenRepo)
	c.TrabajadorService = service.NewTrabajadorService(models.DB, c.TrabajadorRepo, c.VentaRepo)
	c.CuentaService = service.NewCuentaService(c.CuentaRepo)
	c.ReporteService = service.NewReporteService(c.VentaRepo, c.TasaProvider)
}
