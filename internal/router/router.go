package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corposign/corposign/internal/authz"
	"github.com/corposign/corposign/internal/cache"
	"github.com/corposign/corposign/internal/config"
	adminhandlers "github.com/corposign/corposign/internal/http/handlers/admin"
	"github.com/corposign/corposign/internal/http/response"
	"github.com/corposign/corposign/internal/logger"
	"github.com/corposign/corposign/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter inicializa las rutas del panel
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "cs"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "demasiados intentos de acceso, espere un momento",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		admin := apiV1.Group("/admin")
		{
			// Acceso (sin token)
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), adminHandler.Login)

			// Resto del panel con JWT + RBAC
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.UsuarioRepo), RBACMiddleware(c.AuthzService))
			{
				// Sesión
				authorized.GET("/me", adminHandler.Me)
				authorized.PUT("/password", adminHandler.ChangePassword)

				// Clientes
				authorized.GET("/clientes", adminHandler.GetClientes)
				authorized.GET("/clientes/:id", adminHandler.GetCliente)
				authorized.POST("/clientes", adminHandler.CreateCliente)
				authorized.PUT("/clientes/:id", adminHandler.UpdateCliente)
				authorized.DELETE("/clientes/:id", adminHandler.DeleteCliente)

				// Usuarios del panel
				authorized.GET("/usuarios", adminHandler.GetUsuarios)
				authorized.POST("/usuarios", adminHandler.CreateUsuario)
				authorized.PATCH("/usuarios/:id/rol", adminHandler.UpdateUsuarioRol)
				authorized.DELETE("/usuarios/:id", adminHandler.DeleteUsuario)

				// Productos y sus tablas de parámetros
				authorized.GET("/productos", adminHandler.GetProductos)
				authorized.GET("/productos/:id", adminHandler.GetProducto)
				authorized.POST("/productos", adminHandler.CreateProducto)
				authorized.PUT("/productos/:id", adminHandler.UpdateProducto)
				authorized.DELETE("/productos/:id", adminHandler.DeleteProducto)
				authorized.POST("/productos/:id/restaurar", adminHandler.RestoreProducto)
				authorized.GET("/productos/:id/tablas", adminHandler.GetProductoTablas)

				// Tablas de parámetros dinámicas
				authorized.GET("/tablas/:id", adminHandler.GetTabla)
				authorized.POST("/tablas", adminHandler.CreateTabla)
				authorized.PUT("/tablas/:id", adminHandler.UpdateTabla)
				authorized.DELETE("/tablas/:id", adminHandler.DeleteTabla)
				authorized.POST("/tablas/:id/restaurar", adminHandler.RestoreTabla)
				authorized.GET("/tablas/:id/referencias", adminHandler.GetTablaReferencias)
				authorized.GET("/tablas/:id/filas", adminHandler.GetTablaFilas)
				authorized.POST("/tablas/:id/filas", adminHandler.CreateTablaFila)
				authorized.PUT("/tablas/:id/filas/:fila_id", adminHandler.UpdateTablaFila)
				authorized.DELETE("/tablas/:id/filas/:fila_id", adminHandler.DeleteTablaFila)
				authorized.GET("/tablas/:id/opciones-padre", adminHandler.GetTablaOpcionesPadre)
				authorized.GET("/tablas/:id/filas-por-padre", adminHandler.GetTablaFilasPorPadre)

				// Ventas
				authorized.GET("/ventas", adminHandler.GetVentas)
				authorized.GET("/ventas/numero", adminHandler.GetProximoNumero)
				authorized.GET("/ventas/:id", adminHandler.GetVenta)
				authorized.GET("/ventas/:id/corporeo", adminHandler.GetVentaCorporeo)
				authorized.GET("/ventas/por-numero/:numero", adminHandler.GetVentaPorNumero)
				authorized.POST("/ventas", adminHandler.CreateVenta)

				// Órdenes de producción
				authorized.GET("/ordenes", adminHandler.GetOrdenes)
				authorized.GET("/ordenes/:id", adminHandler.GetOrden)
				authorized.PATCH("/ordenes/:id/estado", adminHandler.UpdateOrdenEstado)
				authorized.PUT("/ordenes/:id/detalles", adminHandler.UpdateOrdenDetalles)

				// Trabajadores y comisiones
				authorized.GET("/trabajadores", adminHandler.GetTrabajadores)
				authorized.GET("/trabajadores/:id", adminHandler.GetTrabajador)
				authorized.POST("/trabajadores", adminHandler.CreateTrabajador)
				authorized.PUT("/trabajadores/:id", adminHandler.UpdateTrabajador)
				authorized.DELETE("/trabajadores/:id", adminHandler.DeleteTrabajador)
				authorized.GET("/trabajadores/:id/comision", adminHandler.GetTrabajadorComision)
				authorized.POST("/trabajadores/:id/pagar-comision", adminHandler.PagarTrabajadorComision)

				// Cuentas por pagar
				authorized.GET("/cuentas", adminHandler.GetCuentas)
				authorized.GET("/cuentas/:id", adminHandler.GetCuenta)
				authorized.POST("/cuentas", adminHandler.CreateCuenta)
				authorized.PUT("/cuentas/:id", adminHandler.UpdateCuenta)
				authorized.POST("/cuentas/:id/pagar", adminHandler.PagarCuenta)

				// Tasa y reportes
				authorized.GET("/tasa", adminHandler.GetTasa)
				authorized.GET("/reportes/diario", adminHandler.GetReporteDiario)

				// Administración de permisos
				authorized.GET("/authz/roles", adminHandler.GetRoles)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetRolePolicies)
				authorized.POST("/authz/roles/:role/policies", adminHandler.GrantRolePolicy)
				authorized.DELETE("/authz/roles/:role/policies", adminHandler.RevokeRolePolicy)
				authorized.GET("/authz/usuarios/:username/roles", adminHandler.GetUsuarioRoles)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildPermissionCatalog(r))
				})
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type permissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildPermissionCatalog enumera las rutas administrativas registradas
// como objetos normalizados listos para asignar en políticas
func buildPermissionCatalog(engine *gin.Engine) []permissionCatalogItem {
	if engine == nil {
		return []permissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]permissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, permissionCatalogItem{
			Module:     derivePermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func derivePermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
