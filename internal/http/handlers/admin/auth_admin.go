package admin

import (
	"github.com/corposign/corposign/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest credenciales del panel
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login autentica y retorna el token del panel
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}

	usuario, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	requestLog(c).Infow("admin_login", "usuario_id", usuario.ID, "username", usuario.Username)
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"usuario":    usuario,
	})
}

// Me retorna el usuario autenticado
func (h *Handler) Me(c *gin.Context) {
	usuarioID, ok := getUsuarioID(c)
	if !ok {
		return
	}
	usuario, err := h.UsuarioService.Obtener(usuarioID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, usuario)
}

// ChangePasswordRequest cambio de contraseña propio
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword cambia la contraseña del usuario autenticado
func (h *Handler) ChangePassword(c *gin.Context) {
	usuarioID, ok := getUsuarioID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	if err := h.AuthService.ChangePassword(usuarioID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "contraseña actualizada", nil)
}
