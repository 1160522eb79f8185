package admin

import (
	"strconv"

	"github.com/corposign/corposign/internal/http/response"
	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/service"

	"github.com/gin-gonic/gin"
)

// GetTabla detalle de una tabla de parámetros con su esquema
func (h *Handler) GetTabla(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	tabla, err := h.TablaService.Obtener(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, tabla)
}

// CreateTabla define una tabla de parámetros nueva
func (h *Handler) CreateTabla(c *gin.Context) {
	var req service.TablaInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	tabla, err := h.TablaService.Crear(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, tabla)
}

// UpdateTabla reescribe el esquema de una tabla
func (h *Handler) UpdateTabla(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req service.TablaInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	tabla, err := h.TablaService.Actualizar(id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, tabla)
}

// DeleteTabla baja lógica de una tabla; force desactiva descendientes
// y cascade_values desactiva las filas
func (h *Handler) DeleteTabla(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	cascadeValues, _ := strconv.ParseBool(c.DefaultQuery("cascade_values", "true"))
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))

	resultado, err := h.TablaService.Eliminar(id, cascadeValues, force)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, resultado)
}

// RestoreTabla reactiva una tabla; with_children restaura la cadena de
// padres y los descendientes
func (h *Handler) RestoreTabla(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	withChildren, _ := strconv.ParseBool(c.DefaultQuery("with_children", "false"))
	if err := h.TablaService.Restaurar(id, withChildren); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "tabla restaurada", nil)
}

// GetTablaReferencias búsqueda heurística de referencias previas a la baja
func (h *Handler) GetTablaReferencias(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	referencias, err := h.TablaService.VerificarReferencias(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, referencias)
}

// GetTablaFilas filas de una tabla
func (h *Handler) GetTablaFilas(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	soloActivas, _ := strconv.ParseBool(c.DefaultQuery("solo_activas", "true"))
	filas, err := h.TablaService.Filas(id, soloActivas)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, filas)
}

// FilaRequest datos de una fila de tabla de parámetros
type FilaRequest struct {
	Datos models.JSON `json:"datos" binding:"required"`
}

// CreateTablaFila inserta una fila validada contra el esquema
func (h *Handler) CreateTablaFila(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req FilaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	fila, err := h.TablaService.AgregarFila(id, req.Datos)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, fila)
}

// UpdateTablaFila reescribe una fila validada contra el esquema
func (h *Handler) UpdateTablaFila(c *gin.Context) {
	filaID, ok := paramUint(c, "fila_id")
	if !ok {
		return
	}
	var req FilaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "petición inválida", err)
		return
	}
	fila, err := h.TablaService.ActualizarFila(filaID, req.Datos)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, fila)
}

// DeleteTablaFila baja lógica de una fila
func (h *Handler) DeleteTablaFila(c *gin.Context) {
	filaID, ok := paramUint(c, "fila_id")
	if !ok {
		return
	}
	if err := h.TablaService.EliminarFila(filaID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "fila eliminada", nil)
}

// GetTablaOpcionesPadre etiquetas legibles de las filas de una tabla
// padre, para poblar selectores dependientes
func (h *Handler) GetTablaOpcionesPadre(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	opciones, err := h.TablaService.OpcionesTablaPadre(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, opciones)
}

// GetTablaFilasPorPadre filas de la tabla hija filtradas por la fila padre
func (h *Handler) GetTablaFilasPorPadre(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	padreFilaID, err := strconv.ParseUint(c.Query("padre_fila_id"), 10, 32)
	if err != nil || padreFilaID == 0 {
		respondError(c, response.CodeBadRequest, "padre_fila_id inválido", nil)
		return
	}
	filas, err := h.TablaService.FilasPorPadre(id, c.Query("columna_relacion"), uint(padreFilaID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, filas)
}
