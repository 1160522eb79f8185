package admin

import (
	"strconv"

	"github.com/corposign/corposign/internal/http/handlers/shared"
	"github.com/corposign/corposign/internal/http/response"
	"github.com/corposign/corposign/internal/repository"
	"github.com/corposign/corposign/internal/service"

	"github.com/gin-gonic/gin"
)

// GetUsuarios lista usuarios del sistema
func (h *Handler) GetUsuarios(c *gin.Context) {
	page := shared.QueryInt(c, "page", 1)
	pageSize := shared.QueryInt(c, "page_size", 20)
	page, pageSize = normalizePagination(page, pageSize)

	soloActivos, _ := strconv.ParseBool(c.DefaultQuery("solo_activos", "true"))
	usuarios, total, err := h.UsuarioService.Listar(repository.UsuarioListFilter{
		Page:        page,
		PageSize:    pageSize,
		Search:      c.Query("search"),
		SoloActivos: soloActivos,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "no se pudo listar usuarios", err)
		return
	}
	response.SuccessWithPage(c, usuarios, shared.BuildPagination(page, pageSize, total))
}

// CreateUsuario alta de usuario; un username dado de baja se reactiva
func (h *Handler) CreateUsuario(c *gin.Context) {
	var req service.UsuarioInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	usuario, err := h.UsuarioService.Crear(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, usuario)
}

// CambiarRolRequest cambio de rol
type CambiarRolRequest struct {
	Rol string `json:"rol" binding:"required"`
}

// UpdateUsuarioRol reasigna el rol de un usuario
func (h *Handler) UpdateUsuarioRol(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req CambiarRolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	usuario, err := h.UsuarioService.CambiarRol(id, req.Rol)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, usuario)
}

// DeleteUsuario baja lógica de un usuario
func (h *Handler) DeleteUsuario(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.UsuarioService.Desactivar(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "usuario desactivado", nil)
}
