package admin

import (
	"strconv"
	"time"

	"github.com/corposign/corposign/internal/http/handlers/shared"
	"github.com/corposign/corposign/internal/http/response"
	"github.com/corposign/corposign/internal/repository"
	"github.com/corposign/corposign/internal/service"

	"github.com/gin-gonic/gin"
)

// GetVentas lista ventas con filtros y paginación
func (h *Handler) GetVentas(c *gin.Context) {
	page := shared.QueryInt(c, "page", 1)
	pageSize := shared.QueryInt(c, "page_size", 20)
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.VentaListFilter{
		Page:        page,
		PageSize:    pageSize,
		NumeroOrden: c.Query("numero_orden"),
		Asesor:      c.Query("asesor"),
		Cliente:     c.Query("cliente"),
		FormaPago:   c.Query("forma_pago"),
	}
	if raw := c.Query("desde"); raw != "" {
		if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
			filter.Desde = &t
		}
	}
	if raw := c.Query("hasta"); raw != "" {
		if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
			filter.Hasta = &t
		}
	}
	filter.SoloDeuda, _ = strconv.ParseBool(c.DefaultQuery("solo_deuda", "false"))

	ventas, total, err := h.VentaService.Listar(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "no se pudo listar ventas", err)
		return
	}
	response.SuccessWithPage(c, ventas, shared.BuildPagination(page, pageSize, total))
}

// GetVenta detalle de una venta con renglones y pagos
func (h *Handler) GetVenta(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	venta, err := h.VentaService.Obtener(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, venta)
}

// GetVentaPorNumero busca una venta por numero_orden
func (h *Handler) GetVentaPorNumero(c *gin.Context) {
	numero := c.Param("numero")
	venta, err := h.VentaService.ObtenerPorNumero(numero)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, venta)
}

// GetProximoNumero próximo numero_orden disponible
func (h *Handler) GetProximoNumero(c *gin.Context) {
	numero, err := h.VentaService.GenerarNumeroOrden()
	if err != nil {
		respondError(c, response.CodeInternal, "no se pudo generar el número", err)
		return
	}
	response.Success(c, gin.H{"numero_orden": numero})
}

// CreateVenta crea la venta con su orden asociada
func (h *Handler) CreateVenta(c *gin.Context) {
	var req service.VentaInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	if req.Asesor == "" {
		if username, ok := getUsername(c); ok {
			req.Asesor = username
		}
	}
	venta, err := h.VentaService.Crear(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, venta)
}

// GetVentaCorporeo payload de corpóreo de una venta
func (h *Handler) GetVentaCorporeo(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	payload, err := h.VentaService.CorporeoDeVenta(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, payload)
}
