package admin

import (
	"github.com/corposign/corposign/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetRoles roles conocidos por el enforcer
func (h *Handler) GetRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "no se pudo listar roles", err)
		return
	}
	response.Success(c, roles)
}

// GetRolePolicies políticas de un rol
func (h *Handler) GetRolePolicies(c *gin.Context) {
	role := c.Param("role")
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeInternal, "no se pudo listar políticas", err)
		return
	}
	response.Success(c, policies)
}

// RolePolicyRequest alta o baja de una política de rol
type RolePolicyRequest struct {
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// GrantRolePolicy agrega una política al rol
func (h *Handler) GrantRolePolicy(c *gin.Context) {
	role := c.Param("role")
	var req RolePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeInternal, "no se pudo agregar la política", err)
		return
	}
	requestLog(c).Infow("role_policy_granted",
		"role", role,
		"object", req.Object,
		"action", req.Action,
	)
	response.SuccessWithMsg(c, "política agregada", nil)
}

// RevokeRolePolicy retira una política del rol
func (h *Handler) RevokeRolePolicy(c *gin.Context) {
	role := c.Param("role")
	var req RolePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeInternal, "no se pudo retirar la política", err)
		return
	}
	requestLog(c).Infow("role_policy_revoked",
		"role", role,
		"object", req.Object,
		"action", req.Action,
	)
	response.SuccessWithMsg(c, "política retirada", nil)
}

// GetUsuarioRoles roles efectivos de un usuario
func (h *Handler) GetUsuarioRoles(c *gin.Context) {
	username := c.Param("username")
	roles, err := h.AuthzService.RolesDeUsuario(username)
	if err != nil {
		respondError(c, response.CodeInternal, "no se pudo consultar roles", err)
		return
	}
	response.Success(c, gin.H{"username": username, "roles": roles})
}
