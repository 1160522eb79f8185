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

// GetCuentas lista cuentas por pagar
func (h *Handler) GetCuentas(c *gin.Context) {
	page := shared.QueryInt(c, "page", 1)
	pageSize := shared.QueryInt(c, "page_size", 20)
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.CuentaListFilter{
		Page:      page,
		PageSize:  pageSize,
		Proveedor: c.Query("proveedor"),
	}
	filter.SoloPendientes, _ = strconv.ParseBool(c.DefaultQuery("solo_pendientes", "false"))
	if raw := c.Query("vencen_antes"); raw != "" {
		if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
			filter.VencenAntes = &t
		}
	}

	cuentas, total, err := h.CuentaService.Listar(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "no se pudo listar cuentas", err)
		return
	}
	response.SuccessWithPage(c, cuentas, shared.BuildPagination(page, pageSize, total))
}

// GetCuenta detalle de una cuenta por pagar
func (h *Handler) GetCuenta(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	cuenta, err := h.CuentaService.Obtener(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cuenta)
}

// CreateCuenta registra una cuenta por pagar
func (h *Handler) CreateCuenta(c *gin.Context) {
	var req service.CuentaInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	cuenta, err := h.CuentaService.Crear(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cuenta)
}

// UpdateCuenta modifica una cuenta pendiente
func (h *Handler) UpdateCuenta(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req service.CuentaInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	cuenta, err := h.CuentaService.Actualizar(id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cuenta)
}

// PagarCuenta marca la cuenta como pagada
func (h *Handler) PagarCuenta(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.CuentaService.MarcarPagada(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "cuenta pagada", nil)
}
