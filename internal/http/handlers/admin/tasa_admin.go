package admin

import (
	"time"

	"github.com/corposign/corposign/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetTasa devuelve la tasa BCV vigente según la cadena de fuentes. Con
// ?fecha=YYYY-MM-DD responde la última tasa registrada en ventas de ese día.
func (h *Handler) GetTasa(c *gin.Context) {
	if fecha := c.Query("fecha"); fecha != "" {
		dia, err := time.ParseInLocation("2006-01-02", fecha, time.Local)
		if err != nil {
			respondError(c, response.CodeBadRequest, "fecha inválida, use YYYY-MM-DD", err)
			return
		}
		tasa, ok, err := h.VentaRepo.TasaDelDia(dia)
		if err != nil {
			respondError(c, response.CodeInternal, "error consultando la tasa del día", err)
			return
		}
		fuente := ""
		if ok {
			fuente = "ventas"
		}
		response.Success(c, gin.H{
			"tasa":       tasa,
			"fecha":      fecha,
			"fuente":     fuente,
			"disponible": ok,
		})
		return
	}

	resultado := h.TasaProvider.TasaActual(c.Request.Context())
	response.Success(c, gin.H{
		"tasa":       resultado.Tasa,
		"fuente":     resultado.Fuente,
		"disponible": resultado.Disponible(),
	})
}
