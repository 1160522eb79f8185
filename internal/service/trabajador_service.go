package service

import (
	"fmt"
	"strings"

	"github.com/corposign/corposign/internal/logger"
	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TrabajadorService nómina y comisiones
type TrabajadorService struct {
	db             *gorm.DB
	trabajadorRepo repository.TrabajadorRepository
	ventaRepo      repository.VentaRepository
}

// NewTrabajadorService crea el servicio de trabajadores
func NewTrabajadorService(db *gorm.DB, trabajadorRepo repository.TrabajadorRepository, ventaRepo repository.VentaRepository) *TrabajadorService {
	return &TrabajadorService{
		db:             db,
		trabajadorRepo: trabajadorRepo,
		ventaRepo:      ventaRepo,
	}
}

// TrabajadorInput datos de alta o edición de un trabajador
type TrabajadorInput struct {
	Nombre      string  `json:"nombre" binding:"required"`
	Cargo       string  `json:"cargo"`
	SalarioUSD  float64 `json:"salario_usd"`
	ComisionPct float64 `json:"comision_pct"`
}

// Crear registra un trabajador
func (s *TrabajadorService) Crear(input TrabajadorInput) (*models.Trabajador, error) {
	nombre := strings.TrimSpace(input.Nombre)
	if nombre == "" {
		return nil, ErrValidacion
	}
	if input.ComisionPct < 0 || input.ComisionPct > 100 {
		return nil, fmt.Errorf("%w: el porcentaje de comisión debe estar entre 0 y 100", ErrValidacion)
	}

	existente, err := s.trabajadorRepo.GetByNombre(nombre)
	if err != nil {
		return nil, err
	}
	if existente != nil && existente.Activo {
		return nil, ErrYaExiste
	}

	trabajador := &models.Trabajador{
		Nombre:      nombre,
		Cargo:       strings.TrimSpace(input.Cargo),
		SalarioUSD:  models.NewMoneyFromFloat(input.SalarioUSD),
		ComisionPct: models.NewMoneyFromFloat(input.ComisionPct),
		Activo:      true,
	}
	if err := s.trabajadorRepo.Create(trabajador); err != nil {
		return nil, err
	}
	return trabajador, nil
}

// Obtener busca un trabajador por ID
func (s *TrabajadorService) Obtener(id uint) (*models.Trabajador, error) {
	trabajador, err := s.trabajadorRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if trabajador == nil {
		return nil, ErrNoEncontrado
	}
	return trabajador, nil
}

// Actualizar edita los datos de un trabajador
func (s *TrabajadorService) Actualizar(id uint, input TrabajadorInput) (*models.Trabajador, error) {
	trabajador, err := s.Obtener(id)
	if err != nil {
		return nil, err
	}
	nombre := strings.TrimSpace(input.Nombre)
	if nombre == "" {
		return nil, ErrValidacion
	}
	if input.ComisionPct < 0 || input.ComisionPct > 100 {
		return nil, fmt.Errorf("%w: el porcentaje de comisión debe estar entre 0 y 100", ErrValidacion)
	}

	trabajador.Nombre = nombre
	trabajador.Cargo = strings.TrimSpace(input.Cargo)
	trabajador.SalarioUSD = models.NewMoneyFromFloat(input.SalarioUSD)
	trabajador.ComisionPct = models.NewMoneyFromFloat(input.ComisionPct)
	if err := s.trabajadorRepo.Update(trabajador); err != nil {
		return nil, err
	}
	return trabajador, nil
}

// Desactivar baja lógica de un trabajador
func (s *TrabajadorService) Desactivar(id uint) error {
	if _, err := s.Obtener(id); err != nil {
		return err
	}
	return s.trabajadorRepo.SetActivo(id, false)
}

// Listar lista los trabajadores
func (s *TrabajadorService) Listar(soloActivos bool) ([]models.Trabajador, error) {
	return s.trabajadorRepo.List(soloActivos)
}

// ComisionPendiente comisión calculada de un asesor sobre sus ventas
// cobradas con comisión sin pagar
type ComisionPendiente struct {
	Asesor      string         `json:"asesor"`
	Ventas      []models.Venta `json:"ventas"`
	BaseUSD     models.Money   `json:"base_usd"`
	ComisionPct models.Money   `json:"comision_pct"`
	MontoUSD    models.Money   `json:"monto_usd"`
}

// CalcularComision suma las ventas comisionables del trabajador y
// aplica su porcentaje. Solo cuentan ventas totalmente cobradas
// (restante dentro de la tolerancia) sin comisión pagada.
func (s *TrabajadorService) CalcularComision(trabajadorID uint) (*ComisionPendiente, error) {
	trabajador, err := s.Obtener(trabajadorID)
	if err != nil {
		return nil, err
	}

	ventas, err := s.ventaRepo.ListComisionables(trabajador.Nombre)
	if err != nil {
		return nil, err
	}

	base := decimal.Zero
	for _, venta := range ventas {
		base = base.Add(venta.VentaUSD.Decimal)
	}
	monto := base.Mul(trabajador.ComisionPct.Decimal).Div(decimal.NewFromInt(100))

	return &ComisionPendiente{
		Asesor:      trabajador.Nombre,
		Ventas:      ventas,
		BaseUSD:     models.NewMoneyFromDecimal(base),
		ComisionPct: trabajador.ComisionPct,
		MontoUSD:    models.NewMoneyFromDecimal(monto),
	}, nil
}

// PagarComision marca como pagada la comisión de las ventas
// comisionables del trabajador; la marca evita el doble pago
func (s *TrabajadorService) PagarComision(trabajadorID uint) (*ComisionPendiente, error) {
	pendiente, err := s.CalcularComision(trabajadorID)
	if err != nil {
		return nil, err
	}
	if len(pendiente.Ventas) == 0 {
		return pendiente, nil
	}

	ids := make([]uint, 0, len(pendiente.Ventas))
	for _, venta := range pendiente.Ventas {
		ids = append(ids, venta.ID)
	}
	marcadas, err := s.ventaRepo.MarkComisionPagada(ids)
	if err != nil {
		return nil, err
	}
	logger.Infow("commission_paid", "asesor", pendiente.Asesor, "ventas", marcadas, "monto_usd", pendiente.MontoUSD.String())
	return pendiente, nil
}
