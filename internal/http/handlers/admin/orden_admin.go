package admin

import (
	"strconv"
	"time"

	"github.com/corposign/corposign/internal/http/handlers/shared"
	"github.com/corposign/corposign/internal/http/response"
	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetOrdenes lista órdenes de producción con filtros
func (h *Handler) GetOrdenes(c *gin.Context) {
	page := shared.QueryInt(c, "page", 1)
	pageSize := shared.QueryInt(c, "page_size", 20)
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.OrdenListFilter{
		Page:        page,
		PageSize:    pageSize,
		NumeroOrden: c.Query("numero_orden"),
		Estado:      c.Query("estado"),
	}
	if raw := c.Query("venta_id"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.VentaID = uint(v)
		}
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

	ordenes, total, err := h.OrdenService.Listar(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "no se pudo listar órdenes", err)
		return
	}
	response.SuccessWithPage(c, ordenes, shared.BuildPagination(page, pageSize, total))
}

// GetOrden detalle de una orden
func (h *Handler) GetOrden(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	orden, err := h.OrdenService.Obtener(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, orden)
}

// CambiarEstadoRequest cambio de estado de una orden
type CambiarEstadoRequest struct {
	Estado string `json:"estado" binding:"required"`
}

// UpdateOrdenEstado transiciona el estado de la orden
func (h *Handler) UpdateOrdenEstado(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req CambiarEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	orden, err := h.OrdenService.CambiarEstado(id, req.Estado)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("orden_estado_cambiado",
		"orden_id", id,
		"estado", orden.Estado,
	)
	response.Success(c, orden)
}

// DetallesRequest reemplazo de los detalles de la orden
type DetallesRequest struct {
	Detalles models.JSON `json:"detalles" binding:"required"`
}

// UpdateOrdenDetalles reemplaza el JSON de detalles
func (h *Handler) UpdateOrdenDetalles(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req DetallesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	orden, err := h.OrdenService.ActualizarDetalles(id, req.Detalles)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, orden)
}
