package admin

import (
	handlershared "github.com/corposign/corposign/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUsuarioID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "usuario_id", "usuario_id inválido", "usuario_id de tipo inválido")
}

func getUsername(c *gin.Context) (string, bool) {
	value, exists := c.Get("username")
	if !exists {
		return "", false
	}
	username, ok := value.(string)
	return username, ok && username != ""
}
