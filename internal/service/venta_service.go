package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/corposign/corposign/internal/config"
	"github.com/corposign/corposign/internal/constants"
	"github.com/corposign/corposign/internal/logger"
	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/repository"
	"github.com/corposign/corposign/internal/tasabcv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EventEmitter publica eventos de dominio hacia la cola asincrónica.
// La publicación es de mejor esfuerzo: un fallo no revierte la venta.
type EventEmitter interface {
	OrdenCreada(ctx context.Context, ventaID, ordenID uint, numeroOrden string) error
}

// VentaService flujo de creación de ventas y órdenes
type VentaService struct {
	db           *gorm.DB
	cfg          *config.Config
	ventaRepo    repository.VentaRepository
	ordenRepo    repository.OrdenRepository
	corporeoRepo repository.CorporeoRepository
	tasa         *tasabcv.Provider
	eventos      EventEmitter
}

// NewVentaService crea el servicio de ventas
func NewVentaService(db *gorm.DB, cfg *config.Config, ventaRepo repository.VentaRepository, ordenRepo repository.OrdenRepository, corporeoRepo repository.CorporeoRepository, tasa *tasabcv.Provider, eventos EventEmitter) *VentaService {
	return &VentaService{
		db:           db,
		cfg:          cfg,
		ventaRepo:    ventaRepo,
		ordenRepo:    ordenRepo,
		corporeoRepo: corporeoRepo,
		tasa:         tasa,
		eventos:      eventos,
	}
}

// VentaItemInput renglón de la venta
type VentaItemInput struct {
	Descripcion string  `json:"descripcion" binding:"required"`
	Cantidad    int     `json:"cantidad"`
	PrecioUSD   float64 `json:"precio_usd"`
}

// VentaPagoInput pago parcial de la venta
type VentaPagoInput struct {
	FormaPago  string     `json:"forma_pago" binding:"required"`
	MontoUSD   float64    `json:"monto_usd"`
	MontoBs    float64    `json:"monto_bs"`
	Banco      string     `json:"banco"`
	Referencia string     `json:"referencia"`
	FechaPago  *time.Time `json:"fecha_pago"`
}

// VentaInput datos de creación de una venta
type VentaInput struct {
	NumeroOrden      string           `json:"numero_orden"` // vacío: se genera
	Articulo         string           `json:"articulo" binding:"required"`
	Asesor           string           `json:"asesor"`
	VentaUSD         float64          `json:"venta_usd"`
	FormaPago        string           `json:"forma_pago"`
	Serial           string           `json:"serial"`
	Banco            string           `json:"banco"`
	Referencia       string           `json:"referencia"`
	FechaPago        *time.Time       `json:"fecha_pago"`
	MontoBs          float64          `json:"monto_bs"`
	TasaBCV          float64          `json:"tasa_bcv"` // 0: resolver automáticamente
	AbonoUSD         float64          `json:"abono_usd"`
	IVA              float64          `json:"iva"`
	DisenoUSD        float64          `json:"diseno_usd"`
	IngresosUSD      *float64         `json:"ingresos_usd"` // nil: auto según forma de pago
	Descripcion      string           `json:"descripcion"`
	Cliente          string           `json:"cliente"`
	ClienteID        *uint            `json:"cliente_id"`
	Items            []VentaItemInput `json:"items"`
	Pagos            []VentaPagoInput `json:"pagos"`
	CorporeoPayload  models.JSON      `json:"corporeo_payload"`  // configuración de corpóreo opcional
	UsarNumeroLegado bool             `json:"usar_numero_legado"` // formato ORD-{año}-{seq}
}

var (
	numeroModerno = regexp.MustCompile(`^\d{6}$`)
	numeroLegado  = regexp.MustCompile(`^ORD-(\d+)$`)
	// fragmentos "Subtotal: 12,50" / "Total: $ 99.00" pegados en la descripción
	fragmentoTotales = regexp.MustCompile(`(?i)(sub)?total:?\s*\$?\s*[\d.,]+\s*`)
)

// GenerarNumeroOrden calcula el próximo numero_orden: recorre los
// existentes, entiende tanto el formato de 6 dígitos como el legado
// "ORD-####", toma el máximo y suma uno. Reintenta ante colisión y cae
// a un sufijo derivado del reloj como último recurso.
func (s *VentaService) GenerarNumeroOrden() (string, error) {
	maxIntentos := s.cfg.Venta.MaxReintentosNumero
	if maxIntentos <= 0 {
		maxIntentos = 5
	}

	for intento := 0; intento < maxIntentos; intento++ {
		numeros, err := s.ventaRepo.ListNumeros()
		if err != nil {
			return "", err
		}
		maxSeq := 0
		for _, numero := range numeros {
			if numeroModerno.MatchString(numero) {
				if n, err := strconv.Atoi(numero); err == nil && n > maxSeq {
					maxSeq = n
				}
				continue
			}
			if m := numeroLegado.FindStringSubmatch(numero); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil && n > maxSeq {
					maxSeq = n
				}
			}
		}

		candidato := fmt.Sprintf("%06d", maxSeq+1)
		existe, err := s.ventaRepo.ExisteNumero(candidato)
		if err != nil {
			return "", err
		}
		if !existe {
			return candidato, nil
		}
	}

	return numeroRespaldo(), nil
}

// numeroRespaldo número derivado del reloj para salir de una racha de
// colisiones
func numeroRespaldo() string {
	return fmt.Sprintf("ORD-%05d", time.Now().UnixNano()/int64(time.Millisecond)%100000)
}

// resolverTasa cadena de resolución de la tasa: valor explícito, tasa
// registrada en ventas del día del pago, proveedor externo. Money en
// cero significa tasa no disponible.
func (s *VentaService) resolverTasa(ctx context.Context, input VentaInput) models.Money {
	if input.TasaBCV > 0 {
		return models.NewMoneyFromFloat(input.TasaBCV)
	}
	if input.MontoBs > 0 {
		dia := time.Now()
		if input.FechaPago != nil {
			dia = *input.FechaPago
		}
		if tasa, ok, err := s.ventaRepo.TasaDelDia(dia); err == nil && ok {
			return tasa
		}
	}
	if s.tasa != nil {
		if resultado := s.tasa.TasaActual(ctx); resultado.Disponible() {
			return models.NewMoneyFromDecimal(resultado.Tasa)
		}
	}
	return models.Money{}
}

// sanearDescripcion quita fragmentos numéricos de subtotal/total que el
// operador suele pegar junto con el texto
func sanearDescripcion(descripcion string) string {
	limpio := fragmentoTotales.ReplaceAllString(descripcion, "")
	return strings.TrimSpace(limpio)
}

// construirDetalles arma la instantánea estructurada de la venta; un
// payload de corpóreo explícito manda sobre la síntesis simple
func construirDetalles(input VentaInput, descripcion string) models.JSON {
	if input.CorporeoPayload != nil {
		return input.CorporeoPayload
	}
	items := make([]map[string]interface{}, 0, len(input.Items))
	for _, item := range input.Items {
		cantidad := item.Cantidad
		if cantidad <= 0 {
			cantidad = 1
		}
		items = append(items, map[string]interface{}{
			"descripcion": item.Descripcion,
			"cantidad":    cantidad,
			"precio_usd":  item.PrecioUSD,
			"total_usd":   float64(cantidad) * item.PrecioUSD,
		})
	}
	return models.JSON{
		"descripcion_text": descripcion,
		"items":            items,
		"totales": map[string]interface{}{
			"venta_usd": input.VentaUSD,
			"abono_usd": input.AbonoUSD,
			"iva":       input.IVA,
		},
		"meta": map[string]interface{}{
			"asesor":     input.Asesor,
			"forma_pago": input.FormaPago,
		},
	}
}

// recortarDetalles copia los detalles sin la lista de renglones; la venta
// guarda solo totales y metadatos, la versión completa queda en la orden
func recortarDetalles(detalles models.JSON) models.JSON {
	if detalles == nil {
		return nil
	}
	recorte := make(models.JSON, len(detalles))
	for clave, valor := range detalles {
		if clave == "items" {
			continue
		}
		recorte[clave] = valor
	}
	return recorte
}

// Crear registra la venta, sus renglones y pagos, y siempre una orden
// asociada, todo en una transacción. Ante un choque del índice único de
// numero_orden regenera con el número de respaldo y reintenta una vez.
func (s *VentaService) Crear(ctx context.Context, input VentaInput) (*models.Venta, error) {
	if strings.TrimSpace(input.Articulo) == "" {
		return nil, fmt.Errorf("%w: artículo requerido", ErrValidacion)
	}
	if input.VentaUSD < 0 || input.AbonoUSD < 0 || input.MontoBs < 0 {
		return nil, fmt.Errorf("%w: los montos no pueden ser negativos", ErrValidacion)
	}

	numero := strings.TrimSpace(input.NumeroOrden)
	if numero == "" && !input.UsarNumeroLegado {
		generado, err := s.GenerarNumeroOrden()
		if err != nil {
			return nil, err
		}
		numero = generado
	}

	venta, err := s.crearConNumero(ctx, input, numero)
	if esConflictoNumeroOrden(err) {
		logger.Warnw("order_number_collision", "numero_orden", numero)
		venta, err = s.crearConNumero(ctx, input, numeroRespaldo())
	}
	if err != nil {
		return nil, err
	}

	if s.eventos != nil {
		if emitErr := s.eventos.OrdenCreada(ctx, venta.ID, venta.OrdenCreadaID, venta.NumeroOrden); emitErr != nil {
			logger.Warnw("order_created_event_failed", "venta_id", venta.ID, "error", emitErr)
		}
	}
	logger.Infow("sale_created", "venta_id", venta.ID, "numero_orden", venta.NumeroOrden, "orden_id", venta.OrdenCreadaID)
	return venta, nil
}

// esConflictoNumeroOrden detecta el choque del índice único por el
// texto del error del motor
func esConflictoNumeroOrden(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") && strings.Contains(msg, "numero_orden")
}

func (s *VentaService) crearConNumero(ctx context.Context, input VentaInput, numero string) (*models.Venta, error) {
	var venta *models.Venta

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ventaRepo := s.ventaRepo.WithTx(tx)
		ordenRepo := s.ordenRepo.WithTx(tx)
		corporeoRepo := s.corporeoRepo.WithTx(tx)

		if input.UsarNumeroLegado && numero == "" {
			anio := time.Now().Year()
			seq, err := ventaRepo.NextSecuenciaAnual(anio)
			if err != nil {
				return err
			}
			numero = fmt.Sprintf("ORD-%d-%04d", anio, seq)
		}

		tasa := s.resolverTasa(ctx, input)
		montoBs := models.NewMoneyFromFloat(input.MontoBs)
		montoUSDCalculado := models.Money{}
		if montoBs.IsPositive() && tasa.IsPositive() {
			montoUSDCalculado = models.NewMoneyFromDecimal(montoBs.Div(tasa.Decimal))
		}

		ventaUSD := models.NewMoneyFromFloat(input.VentaUSD)
		abonoUSD := models.NewMoneyFromFloat(input.AbonoUSD)
		restante := models.NewMoneyFromDecimal(decimal.Max(decimal.Zero, ventaUSD.Sub(abonoUSD.Decimal)))

		ingresos := models.Money{}
		if input.IngresosUSD != nil {
			ingresos = models.NewMoneyFromFloat(*input.IngresosUSD)
		} else if input.FormaPago == constants.FormaPagoEfectivoUSD || input.FormaPago == constants.FormaPagoZelle {
			ingresos = abonoUSD
		}

		descripcion := sanearDescripcion(input.Descripcion)

		nueva := &models.Venta{
			NumeroOrden:       numero,
			Articulo:          strings.TrimSpace(input.Articulo),
			Asesor:            strings.TrimSpace(input.Asesor),
			VentaUSD:          ventaUSD,
			FormaPago:         input.FormaPago,
			Serial:            input.Serial,
			Banco:             input.Banco,
			Referencia:        input.Referencia,
			FechaPago:         input.FechaPago,
			MontoBs:           montoBs,
			TasaBCV:           tasa,
			MontoUSDCalculado: montoUSDCalculado,
			AbonoUSD:          abonoUSD,
			Restante:          restante,
			IVA:               models.NewMoneyFromFloat(input.IVA),
			DisenoUSD:         models.NewMoneyFromFloat(input.DisenoUSD),
			IngresosUSD:       ingresos,
			Descripcion:       descripcion,
			Cliente:           strings.TrimSpace(input.Cliente),
			ClienteID:         input.ClienteID,
		}

		items := make([]models.VentaItem, 0, len(input.Items))
		for _, item := range input.Items {
			cantidad := item.Cantidad
			if cantidad <= 0 {
				cantidad = 1
			}
			precio := models.NewMoneyFromFloat(item.PrecioUSD)
			items = append(items, models.VentaItem{
				Descripcion: item.Descripcion,
				Cantidad:    cantidad,
				PrecioUSD:   precio,
				TotalUSD:    models.NewMoneyFromDecimal(precio.Mul(decimal.NewFromInt(int64(cantidad)))),
			})
		}
		pagos := make([]models.VentaPago, 0, len(input.Pagos))
		for _, pago := range input.Pagos {
			pagos = append(pagos, models.VentaPago{
				FormaPago:  pago.FormaPago,
				MontoUSD:   models.NewMoneyFromFloat(pago.MontoUSD),
				MontoBs:    models.NewMoneyFromFloat(pago.MontoBs),
				Banco:      pago.Banco,
				Referencia: pago.Referencia,
				FechaPago:  pago.FechaPago,
			})
		}

		if err := ventaRepo.Create(nueva, items, pagos); err != nil {
			return err
		}

		detalles := construirDetalles(input, descripcion)
		orden := &models.Orden{
			VentaID:     nueva.ID,
			NumeroOrden: numero,
			Producto:    nueva.Articulo,
			Detalles:    detalles,
			Estado:      constants.OrdenEstadoNuevo,
		}
		if err := ordenRepo.Create(orden); err != nil {
			return err
		}
		nueva.OrdenCreadaID = orden.ID

		if input.CorporeoPayload != nil {
			if err := s.persistirCorporeo(corporeoRepo, nueva.ID, orden.ID, input.CorporeoPayload); err != nil {
				return err
			}
		}

		// instantánea recortada de los detalles sobre la venta misma
		recorte := recortarDetalles(detalles)
		nueva.Detalles = recorte
		if err := ventaRepo.UpdateDetalles(nueva.ID, recorte); err != nil {
			return err
		}

		venta = nueva
		return nil
	})
	if err != nil {
		return nil, err
	}
	return venta, nil
}

// persistirCorporeo upserta la configuración vigente y anexa la versión
// al histórico, con los campos de resumen extraídos del payload
func (s *VentaService) persistirCorporeo(repo repository.CorporeoRepository, ventaID, ordenID uint, payload models.JSON) error {
	vigente := &models.CorporeoConfig{
		VentaID: ventaID,
		OrdenID: ordenID,
		Payload: payload,
	}
	extraerResumenCorporeo(vigente, payload)
	if err := repo.UpsertConfig(vigente); err != nil {
		return err
	}
	return repo.AppendPayload(&models.CorporeoPayload{
		VentaID: ventaID,
		OrdenID: ordenID,
		Payload: payload,
	})
}

// extraerResumenCorporeo saca del payload los campos de listado rápido.
// La extracción es heurística: tolera claves faltantes.
func extraerResumenCorporeo(vigente *models.CorporeoConfig, payload models.JSON) {
	if v, ok := payload["cantidad"]; ok {
		if n, err := valorComoEntero(v); err == nil {
			vigente.Cantidad = int(n)
		}
	}
	if v, ok := payload["precio_usd"]; ok {
		if f, err := valorComoFloat(v); err == nil {
			vigente.PrecioUSD = models.NewMoneyFromFloat(f)
		}
	}
	if v, ok := payload["precio_bs"]; ok {
		if f, err := valorComoFloat(v); err == nil {
			vigente.PrecioBs = models.NewMoneyFromFloat(f)
		}
	}
	if v, ok := payload["material"].(string); ok {
		for _, material := range constants.MaterialesCorporeo {
			if strings.EqualFold(v, material) {
				vigente.Material = material
				break
			}
		}
		if vigente.Material == "" {
			vigente.Material = v
		}
	}
	if v, ok := payload["iluminacion"].(string); ok {
		vigente.Iluminacion = v
	}
}

// Obtener busca una venta con sus renglones y pagos
func (s *VentaService) Obtener(id uint) (*models.Venta, error) {
	venta, err := s.ventaRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if venta == nil {
		return nil, ErrNoEncontrado
	}
	return venta, nil
}

// ObtenerPorNumero busca una venta por su numero_orden
func (s *VentaService) ObtenerPorNumero(numero string) (*models.Venta, error) {
	venta, err := s.ventaRepo.GetByNumeroOrden(numero)
	if err != nil {
		return nil, err
	}
	if venta == nil {
		return nil, ErrNoEncontrado
	}
	return venta, nil
}

// Listar pagina las ventas
func (s *VentaService) Listar(filter repository.VentaListFilter) ([]models.Venta, int64, error) {
	return s.ventaRepo.List(filter)
}

// CorporeoDeVenta resuelve el payload de corpóreo de una venta. La
// configuración vigente manda; el histórico y los detalles de la orden
// son respaldos de lectura, en ese orden.
func (s *VentaService) CorporeoDeVenta(ventaID uint) (models.JSON, error) {
	config, err := s.corporeoRepo.GetConfigByVenta(ventaID)
	if err != nil {
		return nil, err
	}
	if config != nil {
		return config.Payload, nil
	}
	historial, err := s.corporeoRepo.ListPayloadsByVenta(ventaID)
	if err != nil {
		return nil, err
	}
	if len(historial) > 0 {
		return historial[len(historial)-1].Payload, nil
	}
	orden, err := s.ordenRepo.GetByVentaID(ventaID)
	if err != nil {
		return nil, err
	}
	if orden != nil && orden.Detalles != nil {
		return orden.Detalles, nil
	}
	return nil, ErrNoEncontrado
}
