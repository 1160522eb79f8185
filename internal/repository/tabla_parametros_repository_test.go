package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/corposign/corposign/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTablaRepoTest(t *testing.T) *GormTablaParametrosRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.ProductoConfigurable{}, &models.TablaParametros{}, &models.FilaParametros{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewTablaParametrosRepository(db)
}

func crearTablaPrueba(t *testing.T, repo *GormTablaParametrosRepository, nombreTabla string, padreID *uint) *models.TablaParametros {
	t.Helper()
	tabla := &models.TablaParametros{
		ProductoID:    1,
		NombreTabla:   nombreTabla,
		NombreVisible: nombreTabla,
		Esquema: models.ListaColumnas{
			{Nombre: "id", Tipo: "INTEGER", Requerida: true, PrimaryKey: true, AutoIncrement: true},
			{Nombre: "material", Tipo: "TEXT", Requerida: true},
		},
		ConAutoID:    true,
		TablaPadreID: padreID,
		Activo:       true,
	}
	if err := repo.Create(tabla); err != nil {
		t.Fatalf("create tabla %s failed: %v", nombreTabla, err)
	}
	return tabla
}

func TestTablaListHijas(t *testing.T) {
	repo := setupTablaRepoTest(t)
	padre := crearTablaPrueba(t, repo, "param_materiales_1", nil)
	hijaActiva := crearTablaPrueba(t, repo, "param_espesores_1", &padre.ID)
	hijaInactiva := crearTablaPrueba(t, repo, "param_colores_1", &padre.ID)
	if err := repo.SetActivo(hijaInactiva.ID, false); err != nil {
		t.Fatalf("set activo failed: %v", err)
	}

	hijas, err := repo.ListHijas(padre.ID, true)
	if err != nil {
		t.Fatalf("list hijas activas failed: %v", err)
	}
	if len(hijas) != 1 || hijas[0].ID != hijaActiva.ID {
		t.Fatalf("hijas activas want [%d] got %+v", hijaActiva.ID, hijas)
	}

	hijas, err = repo.ListHijas(padre.ID, false)
	if err != nil {
		t.Fatalf("list hijas failed: %v", err)
	}
	if len(hijas) != 2 {
		t.Fatalf("hijas totales want 2 got %d", len(hijas))
	}
}

func TestTablaDeactivateFilas(t *testing.T) {
	repo := setupTablaRepoTest(t)
	tabla := crearTablaPrueba(t, repo, "param_materiales_2", nil)
	otra := crearTablaPrueba(t, repo, "param_otros_2", nil)

	for i := 0; i < 3; i++ {
		fila := &models.FilaParametros{
			TablaID: tabla.ID,
			Datos:   models.JSON{"material": fmt.Sprintf("PVC %d", i)},
			Activo:  true,
		}
		if err := repo.CreateFila(fila); err != nil {
			t.Fatalf("create fila failed: %v", err)
		}
	}
	ajena := &models.FilaParametros{TablaID: otra.ID, Datos: models.JSON{"material": "MDF"}, Activo: true}
	if err := repo.CreateFila(ajena); err != nil {
		t.Fatalf("create fila ajena failed: %v", err)
	}

	n, err := repo.DeactivateFilas(tabla.ID)
	if err != nil {
		t.Fatalf("deactivate filas failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("filas desactivadas want 3 got %d", n)
	}

	activas, err := repo.ListFilas(tabla.ID, true)
	if err != nil {
		t.Fatalf("list filas failed: %v", err)
	}
	if len(activas) != 0 {
		t.Fatalf("filas activas want 0 got %d", len(activas))
	}
	todas, err := repo.ListFilas(tabla.ID, false)
	if err != nil {
		t.Fatalf("list filas failed: %v", err)
	}
	if len(todas) != 3 {
		t.Fatalf("filas totales want 3 got %d", len(todas))
	}

	// las filas de otras tablas no se tocan
	ajenas, err := repo.ListFilas(otra.ID, true)
	if err != nil {
		t.Fatalf("list filas ajenas failed: %v", err)
	}
	if len(ajenas) != 1 {
		t.Fatalf("filas ajenas want 1 got %d", len(ajenas))
	}
}

func TestTablaCountNombreTabla(t *testing.T) {
	repo := setupTablaRepoTest(t)
	crearTablaPrueba(t, repo, "param_materiales_3", nil)

	count, err := repo.CountNombreTabla("param_materiales_3")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("count want 1 got %d", count)
	}
	count, err = repo.CountNombreTabla("param_inexistente")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("count want 0 got %d", count)
	}
}
