package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/corposign/corposign/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupVentaRepoTest(t *testing.T) *GormVentaRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Venta{}, &models.VentaItem{}, &models.VentaPago{}, &models.SecuenciaOrden{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewVentaRepository(db)
}

func crearVentaPrueba(t *testing.T, repo *GormVentaRepository, numero string, mutar func(*models.Venta)) *models.Venta {
	t.Helper()
	venta := &models.Venta{
		NumeroOrden: numero,
		Articulo:    "Letrero luminoso",
		Asesor:      "Carla",
		VentaUSD:    models.NewMoneyFromFloat(100),
		AbonoUSD:    models.NewMoneyFromFloat(100),
		Restante:    models.NewMoneyFromFloat(0),
	}
	if mutar != nil {
		mutar(venta)
	}
	if err := repo.Create(venta, nil, nil); err != nil {
		t.Fatalf("create venta %s failed: %v", numero, err)
	}
	return venta
}

func TestVentaCreateConItemsYPagos(t *testing.T) {
	repo := setupVentaRepoTest(t)

	venta := &models.Venta{
		NumeroOrden: "000001",
		Articulo:    "Aviso corpóreo",
		VentaUSD:    models.NewMoneyFromFloat(250),
		AbonoUSD:    models.NewMoneyFromFloat(100),
		Restante:    models.NewMoneyFromFloat(150),
	}
	items := []models.VentaItem{
		{Descripcion: "Letras PVC", Cantidad: 5, PrecioUSD: models.NewMoneyFromFloat(40), TotalUSD: models.NewMoneyFromFloat(200)},
		{Descripcion: "Instalación", Cantidad: 1, PrecioUSD: models.NewMoneyFromFloat(50), TotalUSD: models.NewMoneyFromFloat(50)},
	}
	pagos := []models.VentaPago{
		{FormaPago: "Zelle", MontoUSD: models.NewMoneyFromFloat(100)},
	}
	if err := repo.Create(venta, items, pagos); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if venta.ID == 0 {
		t.Fatalf("expected venta ID assigned")
	}

	leida, err := repo.GetByNumeroOrden("000001")
	if err != nil {
		t.Fatalf("get by numero failed: %v", err)
	}
	if leida == nil {
		t.Fatalf("expected venta found")
	}
	if len(leida.Items) != 2 {
		t.Fatalf("items want 2 got %d", len(leida.Items))
	}
	if len(leida.Pagos) != 1 {
		t.Fatalf("pagos want 1 got %d", len(leida.Pagos))
	}
	if leida.Restante.String() != "150.00" {
		t.Fatalf("restante want 150.00 got %s", leida.Restante.String())
	}
}

func TestVentaGetByNumeroInexistente(t *testing.T) {
	repo := setupVentaRepoTest(t)
	venta, err := repo.GetByNumeroOrden("999999")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if venta != nil {
		t.Fatalf("expected nil for missing numero")
	}
}

func TestVentaListNumerosYExiste(t *testing.T) {
	repo := setupVentaRepoTest(t)
	crearVentaPrueba(t, repo, "000007", nil)
	crearVentaPrueba(t, repo, "ORD-12", nil)

	numeros, err := repo.ListNumeros()
	if err != nil {
		t.Fatalf("list numeros failed: %v", err)
	}
	if len(numeros) != 2 {
		t.Fatalf("numeros want 2 got %d", len(numeros))
	}

	existe, err := repo.ExisteNumero("000007")
	if err != nil {
		t.Fatalf("existe failed: %v", err)
	}
	if !existe {
		t.Fatalf("expected numero 000007 to exist")
	}
	existe, err = repo.ExisteNumero("000008")
	if err != nil {
		t.Fatalf("existe failed: %v", err)
	}
	if existe {
		t.Fatalf("expected numero 000008 to not exist")
	}
}

func TestVentaListFiltroSoloDeuda(t *testing.T) {
	repo := setupVentaRepoTest(t)
	crearVentaPrueba(t, repo, "000001", func(v *models.Venta) {
		v.Restante = models.NewMoneyFromFloat(80)
	})
	crearVentaPrueba(t, repo, "000002", nil)

	ventas, total, err := repo.List(VentaListFilter{Page: 1, PageSize: 10, SoloDeuda: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("total want 1 got %d", total)
	}
	if len(ventas) != 1 || ventas[0].NumeroOrden != "000001" {
		t.Fatalf("expected only venta con deuda, got %+v", ventas)
	}
}

func TestVentaTasaDelDia(t *testing.T) {
	repo := setupVentaRepoTest(t)

	tasa, ok, err := repo.TasaDelDia(time.Now())
	if err != nil {
		t.Fatalf("tasa del dia failed: %v", err)
	}
	if ok {
		t.Fatalf("expected no rate on empty day, got %s", tasa.String())
	}

	crearVentaPrueba(t, repo, "000001", func(v *models.Venta) {
		v.TasaBCV = models.NewMoneyFromFloat(36.5)
	})
	crearVentaPrueba(t, repo, "000002", func(v *models.Venta) {
		v.TasaBCV = models.NewMoneyFromFloat(40)
	})

	tasa, ok, err = repo.TasaDelDia(time.Now())
	if err != nil {
		t.Fatalf("tasa del dia failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected rate found")
	}
	// gana la venta más reciente del día
	if tasa.String() != "40.00" {
		t.Fatalf("tasa want 40.00 got %s", tasa.String())
	}
}

func TestVentaNextSecuenciaAnual(t *testing.T) {
	repo := setupVentaRepoTest(t)

	seq, err := repo.NextSecuenciaAnual(2026)
	if err != nil {
		t.Fatalf("first sequence failed: %v", err)
	}
	if seq != 1 {
		t.Fatalf("first sequence want 1 got %d", seq)
	}

	seq, err = repo.NextSecuenciaAnual(2026)
	if err != nil {
		t.Fatalf("second sequence failed: %v", err)
	}
	if seq != 2 {
		t.Fatalf("second sequence want 2 got %d", seq)
	}

	seq, err = repo.NextSecuenciaAnual(2027)
	if err != nil {
		t.Fatalf("new year sequence failed: %v", err)
	}
	if seq != 1 {
		t.Fatalf("new year sequence want 1 got %d", seq)
	}
}

func TestVentaComisionables(t *testing.T) {
	repo := setupVentaRepoTest(t)

	cobrada := crearVentaPrueba(t, repo, "000001", func(v *models.Venta) {
		v.Asesor = "Carla"
	})
	crearVentaPrueba(t, repo, "000002", func(v *models.Venta) {
		v.Asesor = "Carla"
		v.Restante = models.NewMoneyFromFloat(30)
	})
	crearVentaPrueba(t, repo, "000003", func(v *models.Venta) {
		v.Asesor = "Pedro"
	})

	ventas, err := repo.ListComisionables("Carla")
	if err != nil {
		t.Fatalf("list comisionables failed: %v", err)
	}
	if len(ventas) != 1 || ventas[0].ID != cobrada.ID {
		t.Fatalf("comisionables want [%d] got %+v", cobrada.ID, ventas)
	}

	marcadas, err := repo.MarkComisionPagada([]uint{cobrada.ID})
	if err != nil {
		t.Fatalf("mark comision failed: %v", err)
	}
	if marcadas != 1 {
		t.Fatalf("marcadas want 1 got %d", marcadas)
	}

	ventas, err = repo.ListComisionables("Carla")
	if err != nil {
		t.Fatalf("list comisionables failed: %v", err)
	}
	if len(ventas) != 0 {
		t.Fatalf("expected no pending commissions, got %d", len(ventas))
	}
}

func TestVentaTasaRedondeadaADosDecimales(t *testing.T) {
	repo := setupVentaRepoTest(t)

	crearVentaPrueba(t, repo, "000001", func(v *models.Venta) {
		v.TasaBCV = models.NewMoneyFromFloat(36.4567)
		v.MontoBs = models.NewMoneyFromFloat(3645.67)
	})

	guardada, err := repo.GetByNumeroOrden("000001")
	if err != nil {
		t.Fatalf("get venta failed: %v", err)
	}
	if guardada.TasaBCV.String() != "36.46" {
		t.Fatalf("tasa want 36.46 got %s", guardada.TasaBCV.String())
	}

	tasa, ok, err := repo.TasaDelDia(time.Now())
	if err != nil || !ok {
		t.Fatalf("tasa del dia failed: ok=%v err=%v", ok, err)
	}
	if tasa.String() != "36.46" {
		t.Fatalf("tasa del dia want 36.46 got %s", tasa.String())
	}
}
