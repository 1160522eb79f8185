package admin

import (
	"strconv"

	"github.com/corposign/corposign/internal/http/handlers/shared"
	"github.com/corposign/corposign/internal/http/response"
	"github.com/corposign/corposign/internal/repository"
	"github.com/corposign/corposign/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProductos lista productos configurables
func (h *Handler) GetProductos(c *gin.Context) {
	page := shared.QueryInt(c, "page", 1)
	pageSize := shared.QueryInt(c, "page_size", 20)
	page, pageSize = normalizePagination(page, pageSize)

	soloActivos, _ := strconv.ParseBool(c.DefaultQuery("solo_activos", "true"))
	productos, total, err := h.ProductoService.Listar(repository.ProductoListFilter{
		Page:        page,
		PageSize:    pageSize,
		Search:      c.Query("search"),
		SoloActivos: soloActivos,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "no se pudo listar productos", err)
		return
	}
	response.SuccessWithPage(c, productos, shared.BuildPagination(page, pageSize, total))
}

// GetProducto detalle de un producto
func (h *Handler) GetProducto(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	producto, err := h.ProductoService.Obtener(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, producto)
}

// CreateProducto alta de producto configurable
func (h *Handler) CreateProducto(c *gin.Context) {
	var req service.ProductoInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	if req.CreadoPor == "" {
		if username, ok := getUsername(c); ok {
			req.CreadoPor = username
		}
	}
	producto, err := h.ProductoService.Crear(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, producto)
}

// UpdateProducto edición de producto
func (h *Handler) UpdateProducto(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req service.ProductoInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	producto, err := h.ProductoService.Actualizar(id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, producto)
}

// DeleteProducto baja lógica de un producto
func (h *Handler) DeleteProducto(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.ProductoService.Desactivar(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "producto desactivado", nil)
}

// RestoreProducto reactiva un producto dado de baja
func (h *Handler) RestoreProducto(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.ProductoService.Reactivar(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "producto reactivado", nil)
}

// GetProductoTablas tablas de parámetros de un producto
func (h *Handler) GetProductoTablas(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	soloActivas, _ := strconv.ParseBool(c.DefaultQuery("solo_activas", "true"))
	tablas, err := h.ProductoService.Tablas(id, soloActivas)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, tablas)
}
