package admin

import (
	"github.com/corposign/corposign/internal/http/handlers/shared"
	"github.com/corposign/corposign/internal/http/response"
	"github.com/corposign/corposign/internal/repository"
	"github.com/corposign/corposign/internal/service"

	"github.com/gin-gonic/gin"
)

// GetClientes lista clientes con búsqueda y paginación
func (h *Handler) GetClientes(c *gin.Context) {
	page := shared.QueryInt(c, "page", 1)
	pageSize := shared.QueryInt(c, "page_size", 20)
	page, pageSize = normalizePagination(page, pageSize)

	clientes, total, err := h.ClienteService.Listar(repository.ClienteListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "no se pudo listar clientes", err)
		return
	}
	response.SuccessWithPage(c, clientes, shared.BuildPagination(page, pageSize, total))
}

// GetCliente detalle de un cliente
func (h *Handler) GetCliente(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	cliente, err := h.ClienteService.Obtener(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cliente)
}

// CreateCliente alta de cliente
func (h *Handler) CreateCliente(c *gin.Context) {
	var req service.ClienteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	cliente, err := h.ClienteService.Crear(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cliente)
}

// UpdateCliente edición de cliente
func (h *Handler) UpdateCliente(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req service.ClienteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	cliente, err := h.ClienteService.Actualizar(id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cliente)
}

// DeleteCliente borra un cliente
func (h *Handler) DeleteCliente(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.ClienteService.Eliminar(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "cliente eliminado", nil)
}
