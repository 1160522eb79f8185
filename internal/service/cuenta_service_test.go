package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCuentaServiceTest(t *testing.T) *CuentaService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.CuentaPorPagar{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewCuentaService(repository.NewCuentaRepository(db))
}

func TestCuentaCrearValidaciones(t *testing.T) {
	svc := setupCuentaServiceTest(t)

	if _, err := svc.Crear(CuentaInput{Proveedor: " ", MontoUSD: 100}); !errors.Is(err, ErrValidacion) {
		t.Fatalf("proveedor vacío want ErrValidacion got %v", err)
	}
	if _, err := svc.Crear(CuentaInput{Proveedor: "Vinilos CA", MontoUSD: 0}); !errors.Is(err, ErrValidacion) {
		t.Fatalf("monto cero want ErrValidacion got %v", err)
	}
}

func TestCuentaMarcarPagadaEsIdempotente(t *testing.T) {
	svc := setupCuentaServiceTest(t)

	vence := time.Now().Add(72 * time.Hour)
	cuenta, err := svc.Crear(CuentaInput{
		Proveedor:        "Vinilos CA",
		Concepto:         "Rollos de vinil",
		MontoUSD:         350,
		FechaVencimiento: &vence,
	})
	if err != nil {
		t.Fatalf("crear failed: %v", err)
	}

	if err := svc.MarcarPagada(cuenta.ID); err != nil {
		t.Fatalf("marcar pagada failed: %v", err)
	}
	leida, err := svc.Obtener(cuenta.ID)
	if err != nil {
		t.Fatalf("obtener failed: %v", err)
	}
	if !leida.Pagada {
		t.Fatalf("expected cuenta pagada")
	}

	// repetir el pago no falla
	if err := svc.MarcarPagada(cuenta.ID); err != nil {
		t.Fatalf("segundo pago failed: %v", err)
	}
}

func TestCuentaPagadaNoSeEdita(t *testing.T) {
	svc := setupCuentaServiceTest(t)

	cuenta, err := svc.Crear(CuentaInput{Proveedor: "Vinilos CA", MontoUSD: 350})
	if err != nil {
		t.Fatalf("crear failed: %v", err)
	}
	if err := svc.MarcarPagada(cuenta.ID); err != nil {
		t.Fatalf("marcar pagada failed: %v", err)
	}

	_, err = svc.Actualizar(cuenta.ID, CuentaInput{Proveedor: "Vinilos CA", MontoUSD: 400})
	if !errors.Is(err, ErrValidacion) {
		t.Fatalf("editar cuenta pagada want ErrValidacion got %v", err)
	}
}

func TestCuentaListarSoloPendientes(t *testing.T) {
	svc := setupCuentaServiceTest(t)

	pendiente, err := svc.Crear(CuentaInput{Proveedor: "Vinilos CA", MontoUSD: 350})
	if err != nil {
		t.Fatalf("crear failed: %v", err)
	}
	pagada, err := svc.Crear(CuentaInput{Proveedor: "Acrílicos Zulia", MontoUSD: 120})
	if err != nil {
		t.Fatalf("crear failed: %v", err)
	}
	if err := svc.MarcarPagada(pagada.ID); err != nil {
		t.Fatalf("marcar pagada failed: %v", err)
	}

	cuentas, total, err := svc.Listar(repository.CuentaListFilter{Page: 1, PageSize: 10, SoloPendientes: true})
	if err != nil {
		t.Fatalf("listar failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("total want 1 got %d", total)
	}
	if len(cuentas) != 1 || cuentas[0].ID != pendiente.ID {
		t.Fatalf("expected solo la cuenta pendiente, got %+v", cuentas)
	}
}
