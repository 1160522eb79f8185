package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type trabajadorServiceFixture struct {
	svc       *TrabajadorService
	ventaRepo *repository.GormVentaRepository
}

func setupTrabajadorServiceTest(t *testing.T) *trabajadorServiceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(&models.Trabajador{}, &models.Venta{}, &models.VentaItem{}, &models.VentaPago{})
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	ventaRepo := repository.NewVentaRepository(db)
	return &trabajadorServiceFixture{
		svc:       NewTrabajadorService(db, repository.NewTrabajadorRepository(db), ventaRepo),
		ventaRepo: ventaRepo,
	}
}

func crearVentaCobrada(t *testing.T, repo *repository.GormVentaRepository, numero, asesor string, ventaUSD, restante float64) {
	t.Helper()
	venta := &models.Venta{
		NumeroOrden: numero,
		Articulo:    "Aviso",
		Asesor:      asesor,
		VentaUSD:    models.NewMoneyFromFloat(ventaUSD),
		Restante:    models.NewMoneyFromFloat(restante),
	}
	if err := repo.Create(venta, nil, nil); err != nil {
		t.Fatalf("create venta failed: %v", err)
	}
}

func TestTrabajadorCrearValidaciones(t *testing.T) {
	fixture := setupTrabajadorServiceTest(t)

	if _, err := fixture.svc.Crear(TrabajadorInput{Nombre: "  "}); !errors.Is(err, ErrValidacion) {
		t.Fatalf("nombre vacío want ErrValidacion got %v", err)
	}
	if _, err := fixture.svc.Crear(TrabajadorInput{Nombre: "María", ComisionPct: 120}); !errors.Is(err, ErrValidacion) {
		t.Fatalf("comisión fuera de rango want ErrValidacion got %v", err)
	}

	if _, err := fixture.svc.Crear(TrabajadorInput{Nombre: "María", ComisionPct: 3.5}); err != nil {
		t.Fatalf("crear failed: %v", err)
	}
	if _, err := fixture.svc.Crear(TrabajadorInput{Nombre: "María"}); !errors.Is(err, ErrYaExiste) {
		t.Fatalf("nombre duplicado want ErrYaExiste got %v", err)
	}
}

func TestTrabajadorCalcularComision(t *testing.T) {
	fixture := setupTrabajadorServiceTest(t)

	trabajador, err := fixture.svc.Crear(TrabajadorInput{Nombre: "María", ComisionPct: 10})
	if err != nil {
		t.Fatalf("crear trabajador failed: %v", err)
	}

	crearVentaCobrada(t, fixture.ventaRepo, "000001", "María", 100, 0)
	crearVentaCobrada(t, fixture.ventaRepo, "000002", "María", 50, 0)
	// con saldo pendiente no comisiona
	crearVentaCobrada(t, fixture.ventaRepo, "000003", "María", 300, 120)
	// de otro asesor tampoco
	crearVentaCobrada(t, fixture.ventaRepo, "000004", "Pedro", 80, 0)

	pendiente, err := fixture.svc.CalcularComision(trabajador.ID)
	if err != nil {
		t.Fatalf("calcular comision failed: %v", err)
	}
	if len(pendiente.Ventas) != 2 {
		t.Fatalf("ventas comisionables want 2 got %d", len(pendiente.Ventas))
	}
	if pendiente.BaseUSD.String() != "150.00" {
		t.Fatalf("base want 150.00 got %s", pendiente.BaseUSD.String())
	}
	if pendiente.MontoUSD.String() != "15.00" {
		t.Fatalf("monto want 15.00 got %s", pendiente.MontoUSD.String())
	}
}

func TestTrabajadorPagarComisionEvitaDoblePago(t *testing.T) {
	fixture := setupTrabajadorServiceTest(t)

	trabajador, err := fixture.svc.Crear(TrabajadorInput{Nombre: "María", ComisionPct: 5})
	if err != nil {
		t.Fatalf("crear trabajador failed: %v", err)
	}
	crearVentaCobrada(t, fixture.ventaRepo, "000001", "María", 200, 0)

	pagado, err := fixture.svc.PagarComision(trabajador.ID)
	if err != nil {
		t.Fatalf("pagar comision failed: %v", err)
	}
	if pagado.MontoUSD.String() != "10.00" {
		t.Fatalf("monto pagado want 10.00 got %s", pagado.MontoUSD.String())
	}

	segundo, err := fixture.svc.PagarComision(trabajador.ID)
	if err != nil {
		t.Fatalf("segundo pago failed: %v", err)
	}
	if len(segundo.Ventas) != 0 {
		t.Fatalf("expected sin ventas pendientes tras el pago, got %d", len(segundo.Ventas))
	}
	if segundo.MontoUSD.String() != "0.00" {
		t.Fatalf("segundo monto want 0.00 got %s", segundo.MontoUSD.String())
	}
}

func TestTrabajadorDesactivar(t *testing.T) {
	fixture := setupTrabajadorServiceTest(t)

	trabajador, err := fixture.svc.Crear(TrabajadorInput{Nombre: "José", Cargo: "Instalador"})
	if err != nil {
		t.Fatalf("crear failed: %v", err)
	}
	if err := fixture.svc.Desactivar(trabajador.ID); err != nil {
		t.Fatalf("desactivar failed: %v", err)
	}

	activos, err := fixture.svc.Listar(true)
	if err != nil {
		t.Fatalf("listar failed: %v", err)
	}
	if len(activos) != 0 {
		t.Fatalf("activos want 0 got %d", len(activos))
	}
	todos, err := fixture.svc.Listar(false)
	if err != nil {
		t.Fatalf("listar failed: %v", err)
	}
	if len(todos) != 1 {
		t.Fatalf("todos want 1 got %d", len(todos))
	}
}
