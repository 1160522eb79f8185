package admin

import (
	"strconv"

	"github.com/corposign/corposign/internal/http/response"
	"github.com/corposign/corposign/internal/service"

	"github.com/gin-gonic/gin"
)

// GetTrabajadores lista trabajadores
func (h *Handler) GetTrabajadores(c *gin.Context) {
	soloActivos, _ := strconv.ParseBool(c.DefaultQuery("solo_activos", "true"))
	trabajadores, err := h.TrabajadorService.Listar(soloActivos)
	if err != nil {
		respondError(c, response.CodeInternal, "no se pudo listar trabajadores", err)
		return
	}
	response.Success(c, trabajadores)
}

// GetTrabajador detalle de un trabajador
func (h *Handler) GetTrabajador(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	trabajador, err := h.TrabajadorService.Obtener(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, trabajador)
}

// CreateTrabajador registra un trabajador
func (h *Handler) CreateTrabajador(c *gin.Context) {
	var req service.TrabajadorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	trabajador, err := h.TrabajadorService.Crear(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, trabajador)
}

// UpdateTrabajador actualiza los datos de un trabajador
func (h *Handler) UpdateTrabajador(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req service.TrabajadorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	trabajador, err := h.TrabajadorService.Actualizar(id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, trabajador)
}

// DeleteTrabajador desactiva un trabajador
func (h *Handler) DeleteTrabajador(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.TrabajadorService.Desactivar(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "trabajador desactivado", nil)
}

// GetTrabajadorComision comisión pendiente del trabajador
func (h *Handler) GetTrabajadorComision(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	comision, err := h.TrabajadorService.CalcularComision(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, comision)
}

// PagarTrabajadorComision liquida la comisión pendiente
func (h *Handler) PagarTrabajadorComision(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	comision, err := h.TrabajadorService.PagarComision(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("comision_liquidada",
		"trabajador_id", id,
		"ventas", len(comision.Ventas),
		"monto_usd", comision.MontoUSD,
	)
	response.Success(c, comision)
}
