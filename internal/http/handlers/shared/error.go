package shared

import (
	"errors"

	"github.com/corposign/corposign/internal/http/response"
	"github.com/corposign/corposign/internal/logger"
	"github.com/corposign/corposign/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog entrega un logger con el request_id de la petición.
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError responde el error con código y mensaje, registrando el
// error original cuando existe.
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondServiceError traduce los errores centinela de los servicios a
// códigos de respuesta.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoEncontrado):
		RespondError(c, response.CodeNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrYaExiste):
		RespondError(c, response.CodeConflict, err.Error(), nil)
	case errors.Is(err, service.ErrValidacion), errors.Is(err, service.ErrTieneReferencias):
		RespondError(c, response.CodeBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrCredenciales):
		RespondError(c, response.CodeUnauthorized, err.Error(), nil)
	case errors.Is(err, service.ErrNoAutorizado):
		RespondError(c, response.CodeForbidden, err.Error(), nil)
	default:
		RespondError(c, response.CodeInternal, "error interno", err)
	}
}
