package service

import (
	"context"
	"time"

	"github.com/corposign/corposign/internal/constants"
	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/repository"
	"github.com/corposign/corposign/internal/tasabcv"

	"github.com/shopspring/decimal"
)

// ReporteService agregados diarios de la operación
type ReporteService struct {
	ventaRepo repository.VentaRepository
	tasa      *tasabcv.Provider
}

// NewReporteService crea el servicio de reportes
func NewReporteService(ventaRepo repository.VentaRepository, tasa *tasabcv.Provider) *ReporteService {
	return &ReporteService{ventaRepo: ventaRepo, tasa: tasa}
}

// ReporteDiario resumen de las ventas de un día
type ReporteDiario struct {
	Fecha            string         `json:"fecha"`
	TotalVentas      int            `json:"total_ventas"`
	VentaUSD         models.Money   `json:"venta_usd"`
	AbonoUSD         models.Money   `json:"abono_usd"`
	RestanteUSD      models.Money   `json:"restante_usd"`
	MontoBs          models.Money   `json:"monto_bs"`
	IngresosUSD      models.Money   `json:"ingresos_usd"`
	PorFormaPago     map[string]int `json:"por_forma_pago"`
	TasaBCV          models.Money   `json:"tasa_bcv"`
	FuenteTasa       string         `json:"fuente_tasa,omitempty"`
	VentasPendientes []models.Venta `json:"ventas_pendientes,omitempty"`
}

// Diario agrega las ventas del día dado. La tasa reportada es la última
// registrada en una venta del día; a falta de ella se consulta el
// proveedor.
func (s *ReporteService) Diario(ctx context.Context, dia time.Time) (*ReporteDiario, error) {
	ventas, err := s.ventaRepo.ListDelDia(dia)
	if err != nil {
		return nil, err
	}

	reporte := &ReporteDiario{
		Fecha:        dia.Format("2006-01-02"),
		TotalVentas:  len(ventas),
		PorFormaPago: make(map[string]int),
	}

	ventaUSD, abonoUSD, restante, montoBs, ingresos := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, venta := range ventas {
		ventaUSD = ventaUSD.Add(venta.VentaUSD.Decimal)
		abonoUSD = abonoUSD.Add(venta.AbonoUSD.Decimal)
		restante = restante.Add(venta.Restante.Decimal)
		montoBs = montoBs.Add(venta.MontoBs.Decimal)
		ingresos = ingresos.Add(venta.IngresosUSD.Decimal)
		if venta.FormaPago != "" {
			reporte.PorFormaPago[venta.FormaPago]++
		}
		if venta.Restante.IsPositive() {
			reporte.VentasPendientes = append(reporte.VentasPendientes, venta)
		}
	}
	reporte.VentaUSD = models.NewMoneyFromDecimal(ventaUSD)
	reporte.AbonoUSD = models.NewMoneyFromDecimal(abonoUSD)
	reporte.RestanteUSD = models.NewMoneyFromDecimal(restante)
	reporte.MontoBs = models.NewMoneyFromDecimal(montoBs)
	reporte.IngresosUSD = models.NewMoneyFromDecimal(ingresos)

	if tasa, ok, err := s.ventaRepo.TasaDelDia(dia); err == nil && ok {
		reporte.TasaBCV = tasa
		reporte.FuenteTasa = "ventas"
	} else if s.tasa != nil {
		if resultado := s.tasa.TasaActual(ctx); resultado.Disponible() {
			reporte.TasaBCV = models.NewMoneyFromDecimal(resultado.Tasa)
			reporte.FuenteTasa = resultado.Fuente
		}
	}

	return reporte, nil
}

// FormasPagoConocidas catálogo de formas de pago para la interfaz
func (s *ReporteService) FormasPagoConocidas() []string {
	return []string{
		constants.FormaPagoEfectivoUSD,
		constants.FormaPagoEfectivoBs,
		constants.FormaPagoZelle,
		constants.FormaPagoPagoMovil,
		constants.FormaPagoTransferencia,
		constants.FormaPagoPunto,
	}
}
