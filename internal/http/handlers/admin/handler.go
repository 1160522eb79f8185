package admin

import "github.com/corposign/corposign/internal/provider"

// Handler punto de entrada de la API administrativa
type Handler struct {
	*provider.Container
}

// New crea el handler administrativo
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
