package service

import (
	"fmt"

	"github.com/corposign/corposign/internal/constants"
	"github.com/corposign/corposign/internal/logger"
	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/repository"
)

// OrdenService consulta y avance de órdenes de trabajo
type OrdenService struct {
	ordenRepo repository.OrdenRepository
}

// NewOrdenService crea el servicio de órdenes
func NewOrdenService(ordenRepo repository.OrdenRepository) *OrdenService {
	return &OrdenService{ordenRepo: ordenRepo}
}

// transiciones permitidas del estado de una orden
var transicionesOrden = map[string][]string{
	constants.OrdenEstadoNuevo:     {constants.OrdenEstadoBorrador, constants.OrdenEstadoEnProceso, constants.OrdenEstadoAnulado},
	constants.OrdenEstadoBorrador:  {constants.OrdenEstadoEnProceso, constants.OrdenEstadoAnulado},
	constants.OrdenEstadoEnProceso: {constants.OrdenEstadoListo, constants.OrdenEstadoAnulado},
	constants.OrdenEstadoListo:     {constants.OrdenEstadoEntregado, constants.OrdenEstadoAnulado},
}

// Obtener busca una orden por ID
func (s *OrdenService) Obtener(id uint) (*models.Orden, error) {
	orden, err := s.ordenRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if orden == nil {
		return nil, ErrNoEncontrado
	}
	return orden, nil
}

// Listar pagina las órdenes
func (s *OrdenService) Listar(filter repository.OrdenListFilter) ([]models.Orden, int64, error) {
	return s.ordenRepo.List(filter)
}

// CambiarEstado avanza la orden validando la transición
func (s *OrdenService) CambiarEstado(id uint, estado string) (*models.Orden, error) {
	orden, err := s.Obtener(id)
	if err != nil {
		return nil, err
	}
	if orden.Estado == estado {
		return orden, nil
	}

	permitidos := transicionesOrden[orden.Estado]
	valido := false
	for _, destino := range permitidos {
		if destino == estado {
			valido = true
			break
		}
	}
	if !valido {
		return nil, fmt.Errorf("%w: no se puede pasar de %s a %s", ErrValidacion, orden.Estado, estado)
	}

	if err := s.ordenRepo.UpdateEstado(id, estado); err != nil {
		return nil, err
	}
	logger.Infow("order_status_changed", "orden_id", id, "desde", orden.Estado, "hasta", estado)
	orden.Estado = estado
	return orden, nil
}

// ActualizarDetalles reescribe el payload estructurado de la orden
func (s *OrdenService) ActualizarDetalles(id uint, detalles models.JSON) (*models.Orden, error) {
	orden, err := s.Obtener(id)
	if err != nil {
		return nil, err
	}
	if detalles == nil {
		return nil, fmt.Errorf("%w: detalles vacíos", ErrValidacion)
	}
	if err := s.ordenRepo.UpdateDetalles(id, detalles); err != nil {
		return nil, err
	}
	orden.Detalles = detalles
	return orden, nil
}
