package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/corposign/corposign/internal/constants"
	"github.com/corposign/corposign/internal/models"
	"github.com/corposign/corposign/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrdenServiceTest(t *testing.T) (*OrdenService, *repository.GormOrdenRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Orden{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	repo := repository.NewOrdenRepository(db)
	return NewOrdenService(repo), repo
}

func crearOrdenPrueba(t *testing.T, repo *repository.GormOrdenRepository, estado string) *models.Orden {
	t.Helper()
	orden := &models.Orden{
		VentaID:     1,
		NumeroOrden: fmt.Sprintf("%06d", 1),
		Producto:    "Letrero",
		Estado:      estado,
	}
	if err := repo.Create(orden); err != nil {
		t.Fatalf("create orden failed: %v", err)
	}
	return orden
}

func TestOrdenCambiarEstadoFlujoCompleto(t *testing.T) {
	svc, repo := setupOrdenServiceTest(t)
	orden := crearOrdenPrueba(t, repo, constants.OrdenEstadoNuevo)

	for _, destino := range []string{
		constants.OrdenEstadoEnProceso,
		constants.OrdenEstadoListo,
		constants.OrdenEstadoEntregado,
	} {
		actualizada, err := svc.CambiarEstado(orden.ID, destino)
		if err != nil {
			t.Fatalf("transición a %s failed: %v", destino, err)
		}
		if actualizada.Estado != destino {
			t.Fatalf("estado want %s got %s", destino, actualizada.Estado)
		}
	}
}

func TestOrdenCambiarEstadoInvalido(t *testing.T) {
	svc, repo := setupOrdenServiceTest(t)
	orden := crearOrdenPrueba(t, repo, constants.OrdenEstadoNuevo)

	// de NUEVO no se puede saltar directo a ENTREGADO
	_, err := svc.CambiarEstado(orden.ID, constants.OrdenEstadoEntregado)
	if !errors.Is(err, ErrValidacion) {
		t.Fatalf("want ErrValidacion got %v", err)
	}

	entregada := crearOrdenPrueba(t, repo, constants.OrdenEstadoEntregado)
	_, err = svc.CambiarEstado(entregada.ID, constants.OrdenEstadoEnProceso)
	if !errors.Is(err, ErrValidacion) {
		t.Fatalf("estado terminal want ErrValidacion got %v", err)
	}
}

func TestOrdenCambiarEstadoMismoEstadoNoOpera(t *testing.T) {
	svc, repo := setupOrdenServiceTest(t)
	orden := crearOrdenPrueba(t, repo, constants.OrdenEstadoListo)

	actualizada, err := svc.CambiarEstado(orden.ID, constants.OrdenEstadoListo)
	if err != nil {
		t.Fatalf("cambiar al mismo estado failed: %v", err)
	}
	if actualizada.Estado != constants.OrdenEstadoListo {
		t.Fatalf("estado want %s got %s", constants.OrdenEstadoListo, actualizada.Estado)
	}
}

func TestOrdenAnulableDesdeCualquierEstadoActivo(t *testing.T) {
	svc, repo := setupOrdenServiceTest(t)

	for _, origen := range []string{
		constants.OrdenEstadoNuevo,
		constants.OrdenEstadoBorrador,
		constants.OrdenEstadoEnProceso,
		constants.OrdenEstadoListo,
	} {
		orden := crearOrdenPrueba(t, repo, origen)
		if _, err := svc.CambiarEstado(orden.ID, constants.OrdenEstadoAnulado); err != nil {
			t.Fatalf("anular desde %s failed: %v", origen, err)
		}
	}
}

func TestOrdenActualizarDetalles(t *testing.T) {
	svc, repo := setupOrdenServiceTest(t)
	orden := crearOrdenPrueba(t, repo, constants.OrdenEstadoNuevo)

	if _, err := svc.ActualizarDetalles(orden.ID, nil); !errors.Is(err, ErrValidacion) {
		t.Fatalf("detalles nulos want ErrValidacion got %v", err)
	}

	detalles := models.JSON{"material": "PVC", "observaciones": "instalar sábado"}
	actualizada, err := svc.ActualizarDetalles(orden.ID, detalles)
	if err != nil {
		t.Fatalf("actualizar detalles failed: %v", err)
	}
	if actualizada.Detalles["material"] != "PVC" {
		t.Fatalf("detalles inesperados: %+v", actualizada.Detalles)
	}

	leida, err := svc.Obtener(orden.ID)
	if err != nil {
		t.Fatalf("obtener failed: %v", err)
	}
	if leida.Detalles["observaciones"] != "instalar sábado" {
		t.Fatalf("detalles no persistidos: %+v", leida.Detalles)
	}
}
