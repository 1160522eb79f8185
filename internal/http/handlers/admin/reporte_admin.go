package admin

import (
	"time"

	"github.com/corposign/corposign/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetReporteDiario resumen de ventas de un día
// El parámetro fecha (YYYY-MM-DD) es opcional; por defecto hoy.
func (h *Handler) GetReporteDiario(c *gin.Context) {
	dia := time.Now()
	if raw := c.Query("fecha"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			respondError(c, response.CodeBadRequest, "fecha inválida, use YYYY-MM-DD", err)
			return
		}
		dia = parsed
	}
	reporte, err := h.ReporteService.Diario(c.Request.Context(), dia)
	if err != nil {
		respondError(c, response.CodeInternal, "no se pudo generar el reporte", err)
		return
	}
	response.Success(c, reporte)
}
