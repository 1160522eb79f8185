package service

import (
	"strings"
	"time"

	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/repository"
)

// CuentaService cuentas por pagar a proveedores
type CuentaService struct {
	cuentaRepo repository.CuentaRepository
}

// NewCuentaService crea el servicio de cuentas por pagar
func NewCuentaService(cuentaRepo repository.CuentaRepository) *CuentaService {
	return &CuentaService{cuentaRepo: cuentaRepo}
}

// CuentaInput datos de una cuenta por pagar
type CuentaInput struct {
	Proveedor        string     `json:"proveedor" binding:"required"`
	Concepto         string     `json:"concepto"`
	MontoUSD         float64    `json:"monto_usd"`
	FechaVencimiento *time.Time `json:"fecha_vencimiento"`
}

// Crear registra una cuenta por pagar
func (s *CuentaService) Crear(input CuentaInput) (*models.CuentaPorPagar, error) {
	proveedor := strings.TrimSpace(input.Proveedor)
	if proveedor == "" || input.MontoUSD <= 0 {
		return nil, ErrValidacion
	}

	cuenta := &models.CuentaPorPagar{
		Proveedor:        proveedor,
		Concepto:         strings.TrimSpace(input.Concepto),
		MontoUSD:         models.NewMoneyFromFloat(input.MontoUSD),
		FechaVencimiento: input.FechaVencimiento,
	}
	if err := s.cuentaRepo.Create(cuenta); err != nil {
		return nil, err
	}
	return cuenta, nil
}

// Obtener busca una cuenta por ID
func (s *CuentaService) Obtener(id uint) (*models.CuentaPorPagar, error) {
	cuenta, err := s.cuentaRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cuenta == nil {
		return nil, ErrNoEncontrado
	}
	return cuenta, nil
}

// Actualizar edita una cuenta pendiente; una cuenta pagada no se toca
func (s *CuentaService) Actualizar(id uint, input CuentaInput) (*models.CuentaPorPagar, error) {
	cuenta, err := s.Obtener(id)
	if err != nil {
		return nil, err
	}
	if cuenta.Pagada {
		return nil, ErrValidacion
	}
	proveedor := strings.TrimSpace(input.Proveedor)
	if proveedor == "" || input.MontoUSD <= 0 {
		return nil, ErrValidacion
	}

	cuenta.Proveedor = proveedor
	cuenta.Concepto = strings.TrimSpace(input.Concepto)
	cuenta.MontoUSD = models.NewMoneyFromFloat(input.MontoUSD)
	cuenta.FechaVencimiento = input.FechaVencimiento
	if err := s.cuentaRepo.Update(cuenta); err != nil {
		return nil, err
	}
	return cuenta, nil
}

// MarcarPagada cierra una cuenta; marcar una ya pagada es un no-op
func (s *CuentaService) MarcarPagada(id uint) error {
	cuenta, err := s.Obtener(id)
	if err != nil {
		return err
	}
	if cuenta.Pagada {
		return nil
	}
	return s.cuentaRepo.MarkPagada(id)
}

// Listar pagina las cuentas por pagar
func (s *CuentaService) Listar(filter repository.CuentaListFilter) ([]models.CuentaPorPagar, int64, error) {
	return s.cuentaRepo.List(filter)
}
