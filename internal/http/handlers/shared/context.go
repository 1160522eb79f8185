package shared

import (
	"strconv"

	"github.com/corposign/corposign/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextUintWithKeys lee un uint del contexto con manejo uniforme
// de errores.
func GetContextUintWithKeys(c *gin.Context, key, invalidMsg, typeInvalidMsg string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "no autorizado", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidMsg, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidMsg, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidMsg, nil)
		return 0, false
	}
}

// ParamUint lee un parámetro de ruta como uint; responde 400 si no es
// un entero válido.
func ParamUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		RespondError(c, response.CodeBadRequest, "identificador inválido", nil)
		return 0, false
	}
	return uint(parsed), true
}

// QueryInt lee un parámetro de query como entero con valor por defecto
func QueryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
