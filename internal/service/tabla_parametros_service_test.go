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

func setupTablaServiceTest(t *testing.T) (*TablaParametrosService, *models.ProductoConfigurable) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.ProductoConfigurable{},
		&models.TablaParametros{},
		&models.FilaParametros{},
		&models.Orden{},
	)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	productoRepo := repository.NewProductoRepository(db)
	producto := &models.ProductoConfigurable{Nombre: "Letrero Corpóreo", Activo: true}
	if err := productoRepo.Create(producto); err != nil {
		t.Fatalf("create producto failed: %v", err)
	}

	svc := NewTablaParametrosService(
		repository.NewTablaParametrosRepository(db),
		productoRepo,
		repository.NewOrdenRepository(db),
	)
	return svc, producto
}

func crearTablaMateriales(t *testing.T, svc *TablaParametrosService, productoID uint) *models.TablaParametros {
	t.Helper()
	tabla, err := svc.Crear(TablaInput{
		ProductoID:    productoID,
		NombreVisible: "Materiales",
		Columnas: []models.ColumnaEsquema{
			{Nombre: "material", Tipo: constants.ColumnaTipoTexto, Requerida: true},
			{Nombre: "precio_m2_usd", Tipo: constants.ColumnaTipoReal, Requerida: true},
		},
	})
	if err != nil {
		t.Fatalf("crear tabla materiales failed: %v", err)
	}
	return tabla
}

func crearTablaEspesores(t *testing.T, svc *TablaParametrosService, productoID, padreID uint) *models.TablaParametros {
	t.Helper()
	tabla, err := svc.Crear(TablaInput{
		ProductoID:    productoID,
		NombreVisible: "Espesores",
		TablaPadreID:  &padreID,
		Columnas: []models.ColumnaEsquema{
			{Nombre: "espesor_mm", Tipo: constants.ColumnaTipoReal, Requerida: true},
		},
	})
	if err != nil {
		t.Fatalf("crear tabla espesores failed: %v", err)
	}
	return tabla
}

func agregarFilaPrueba(t *testing.T, svc *TablaParametrosService, tablaID uint, datos models.JSON) *models.FilaParametros {
	t.Helper()
	fila, err := svc.AgregarFila(tablaID, datos)
	if err != nil {
		t.Fatalf("agregar fila failed: %v", err)
	}
	return fila
}

func TestCrearInyectaColumnaIDAlFrente(t *testing.T) {
	svc, producto := setupTablaServiceTest(t)
	tabla := crearTablaMateriales(t, svc, producto.ID)

	if len(tabla.Esquema) != 3 {
		t.Fatalf("columnas want 3 got %d", len(tabla.Esquema))
	}
	id := tabla.Esquema[0]
	if id.Nombre != "id" || id.Tipo != constants.ColumnaTipoEntero || !id.PrimaryKey || !id.AutoIncrement || !id.Requerida {
		t.Fatalf("columna id mal inyectada: %+v", id)
	}
	if !strings.HasPrefix(tabla.NombreTabla, "param_materiales_") {
		t.Fatalf("nombre tabla want prefix param_materiales_ got %s", tabla.NombreTabla)
	}
}

func TestCrearSinAutoID(t *testing.T) {
	svc, producto := setupTablaServiceTest(t)
	sinID := false
	tabla, err := svc.Crear(TablaInput{
		ProductoID:    producto.ID,
		NombreVisible: "Acabados",
		ConAutoID:     &sinID,
		Columnas: []models.ColumnaEsquema{
			{Nombre: "acabado", Tipo: constants.ColumnaTipoTexto, Requerida: true},
		},
	})
	if err != nil {
		t.Fatalf("crear failed: %v", err)
	}
	if len(tabla.Esquema) != 1 || tabla.Esquema[0].Nombre != "acabado" {
		t.Fatalf("esquema inesperado: %+v", tabla.Esquema)
	}
}

func TestCrearRechazaEsquemaInvalido(t *testing.T) {
	svc, producto := setupTablaServiceTest(t)

	casos := []struct {
		nombre   string
		columnas []models.ColumnaEsquema
	}{
		{
			nombre: "columna duplicada",
			columnas: []models.ColumnaEsquema{
				{Nombre: "material", Tipo: constants.ColumnaTipoTexto},
				{Nombre: "MATERIAL", Tipo: constants.ColumnaTipoTexto},
			},
		},
		{
			nombre: "tipo desconocido",
			columnas: []models.ColumnaEsquema{
				{Nombre: "material", Tipo: "VARCHAR"},
			},
		},
		{
			nombre: "columna sin nombre",
			columnas: []models.ColumnaEsquema{
				{Nombre: "  ", Tipo: constants.ColumnaTipoTexto},
			},
		},
		{
			nombre: "id declarada con tipo incorrecto",
			columnas: []models.ColumnaEsquema{
				{Nombre: "id", Tipo: constants.ColumnaTipoTexto, PrimaryKey: true},
			},
		},
	}
	for _, caso := range casos {
		_, err := svc.Crear(TablaInput{
			ProductoID:    producto.ID,
			NombreVisible: "Inválida",
			Columnas:      caso.columnas,
		})
		if !errors.Is(err, ErrValidacion) {
			t.Fatalf("%s: want ErrValidacion got %v", caso.nombre, err)
		}
	}
}

func TestCrearConPadreAgregaColumnaRelacion(t *testing.T) {
	svc, producto := setupTablaServiceTest(t)
	padre := crearTablaMateriales(t, svc, producto.ID)
	hija := crearTablaEspesores(t, svc, producto.ID, padre.ID)

	if hija.ColumnaRelacion != padre.NombreTabla+"_id" {
		t.Fatalf("columna relacion want %s_id got %s", padre.NombreTabla, hija.ColumnaRelacion)
	}
	var fk *models.ColumnaEsquema
	for i := range hija.Esquema {
		if hija.Esquema[i].Nombre == hija.ColumnaRelacion {
			fk = &hija.Esquema[i]
		}
	}
	if fk == nil {
		t.Fatalf("columna de relación ausente en el esquema: %+v", hija.Esquema)
	}
	if !fk.EsForanea || fk.TablaReferencia != padre.ID || !fk.Requerida {
		t.Fatalf("descriptor FK inesperado: %+v", fk)
	}
}

func TestEliminarSinForceConHijasActivas(t *testing.T) {
	svc, producto := setupTablaServiceTest(t)
	padre := crearTablaMateriales(t, svc, producto.ID)
	crearTablaEspesores(t, svc, producto.ID, padre.ID)

	_, err := svc.Eliminar(padre.ID, false, false)
	if !errors.Is(err, ErrTieneReferencias) {
		t.Fatalf("want ErrTieneReferencias got %v", err)
	}
}

func TestEliminarCascadaCuentaHijasYFilas(t *testing.T) {
	svc, producto := setupTablaServiceTest(t)
	padre := crearTablaMateriales(t, svc, producto.ID)
	filaPadre := agregarFilaPrueba(t, svc, padre.ID, models.JSON{"material": "PVC", "precio_m2_usd": 18.5})
	hija := crearTablaEspesores(t, svc, producto.ID, padre.ID)
	agregarFilaPrueba(t, svc, hija.ID, models.JSON{
		"espesor_mm":         float64(3),
		hija.ColumnaRelacion: float64(filaPadre.ID),
	})
	agregarFilaPrueba(t, svc, hija.ID, models.JSON{
		"espesor_mm":         float64(5),
		hija.ColumnaRelacion: float64(filaPadre.ID),
	})

	resultado, err := svc.Eliminar(padre.ID, true, true)
	if err != nil {
		t.Fatalf("eliminar failed: %v", err)
	}
	if resultado.TablasHijas != 1 {
		t.Fatalf("tablas hijas want 1 got %d", resultado.TablasHijas)
	}
	if resultado.ValoresDesactivados != 3 {
		t.Fatalf("valores desactivados want 3 got %d", resultado.ValoresDesactivados)
	}

	// la segunda baja es idempotente y no cuenta nada
	resultado, err = svc.Eliminar(padre.ID, true, true)
	if err != nil {
		t.Fatalf("eliminar repetido failed: %v", err)
	}
	if resultado.TablasHijas != 0 || resultado.ValoresDesactivados != 0 {
		t.Fatalf("baja repetida want contadores en cero got %+v", resultado)
	}
}

func TestRestaurarExigeCadenaDePadres(t *testing.T) {
	svc, producto := setupTablaServiceTest(t)
	padre := crearTablaMateriales(t, svc, producto.ID)
	hija := crearTablaEspesores(t, svc, producto.ID, padre.ID)

	if _, err := svc.Eliminar(padre.ID, false, true); err != nil {
		t.Fatalf("eliminar failed: %v", err)
	}

	err := svc.Restaurar(hija.ID, false)
	if !errors.Is(err, ErrValidacion) {
		t.Fatalf("restaurar con padre inactivo want ErrValidacion got %v", err)
	}

	if err := svc.Restaurar(hija.ID, true); err != nil {
		t.Fatalf("restaurar con cadena failed: %v", err)
	}
	restauradaHija, err := svc.Obtener(hija.ID)
	if err != nil {
		t.Fatalf("obtener hija failed: %v", err)
	}
	if !restauradaHija.Activo {
		t.Fatalf("expected hija activa")
	}
	restauradoPadre, err := svc.Obtener(padre.ID)
	if err != nil {
		t.Fatalf("obtener padre failed: %v", err)
	}
	if !restauradoPadre.Activo {
		t.Fatalf("expected padre reactivado en cadena")
	}
}

func TestAgregarFilaValidaEsquema(t *testing.T) {
	svc, producto := setupTablaServiceTest(t)
	tabla := crearTablaMateriales(t, svc, producto.ID)

	casos := []struct {
		nombre string
		datos  models.JSON
	}{
		{nombre: "columna desconocida", datos: models.JSON{"material": "PVC", "precio_m2_usd": 18.5, "color": "rojo"}},
		{nombre: "requerida ausente", datos: models.JSON{"material": "PVC"}},
		{nombre: "tipo incorrecto", datos: models.JSON{"material": 42, "precio_m2_usd": 18.5}},
		{nombre: "fila sin datos", datos: nil},
	}
	for _, caso := range casos {
		_, err := svc.AgregarFila(tabla.ID, caso.datos)
		if !errors.Is(err, ErrValidacion) {
			t.Fatalf("%s: want ErrValidacion got %v", caso.nombre, err)
		}
	}

	fila := agregarFilaPrueba(t, svc, tabla.ID, models.JSON{"id": float64(99), "material": "Acrílico", "precio_m2_usd": 32.0})
	if _, presente := fila.Datos["id"]; presente {
		t.Fatalf("el id dentro del JSON debe descartarse")
	}
	if fila.ID == 0 {
		t.Fatalf("expected fila ID asignado")
	}
}

func TestAgregarFilaRechazaTablaInactiva(t *testing.T) {
	svc, producto := setupTablaServiceTest(t)
	tabla := crearTablaMateriales(t, svc, producto.ID)
	if _, err := svc.Eliminar(tabla.ID, false, true); err != nil {
		t.Fatalf("eliminar failed: %v", err)
	}
	_, err := svc.AgregarFila(tabla.ID, models.JSON{"material": "PVC", "precio_m2_usd": 18.5})
	if !errors.Is(err, ErrValidacion) {
		t.Fatalf("want ErrValidacion got %v", err)
	}
}

func TestAgregarFilaValidaForanea(t *testing.T) {
	svc, producto := setupTablaServiceTest(t)
	padre := crearTablaMateriales(t, svc, producto.ID)
	filaPadre := agregarFilaPrueba(t, svc, padre.ID, models.JSON{"material": "PVC", "precio_m2_usd": 18.5})
	hija := crearTablaEspesores(t, svc, producto.ID, padre.ID)

	// referencia inexistente
	_, err := svc.AgregarFila(hija.ID, models.JSON{
		"espesor_mm":         float64(3),
		hija.ColumnaRelacion: float64(9999),
	})
	if !errors.Is(err, ErrValidacion) {
		t.Fatalf("referencia inexistente want ErrValidacion got %v", err)
	}

	// referencia válida
	agregarFilaPrueba(t, svc, hija.ID, models.JSON{
		"espesor_mm":         float64(3),
		hija.ColumnaRelacion: float64(filaPadre.ID),
	})

	// referencia a fila dada de baja
	if err := svc.EliminarFila(filaPadre.ID); err != nil {
		t.Fatalf("eliminar fila failed: %v", err)
	}
	_, err = svc.AgregarFila(hija.ID, models.JSON{
		"espesor_mm":         float64(5),
		hija.ColumnaRelacion: float64(filaPadre.ID),
	})
	if !errors.Is(err, ErrValidacion) {
		t.Fatalf("referencia inactiva want ErrValidacion got %v", err)
	}
}

func TestOpcionesTablaPadreEtiqueta(t *testing.T) {
	svc, producto := setupTablaServiceTest(t)
	padre := crearTablaMateriales(t, svc, producto.ID)
	agregarFilaPrueba(t, svc, padre.ID, models.JSON{"material": "PVC", "precio_m2_usd": 18.5})
	agregarFilaPrueba(t, svc, padre.ID, models.JSON{"material": "MDF", "precio_m2_usd": 14.0})

	opciones, err := svc.OpcionesTablaPadre(padre.ID)
	if err != nil {
		t.Fatalf("opciones failed: %v", err)
	}
	if len(opciones) != 2 {
		t.Fatalf("opciones want 2 got %d", len(opciones))
	}
	// la etiqueta sale de la primera columna TEXT que no sea id
	if opciones[0].Etiqueta != "PVC" || opciones[1].Etiqueta != "MDF" {
		t.Fatalf("etiquetas inesperadas: %+v", opciones)
	}
}

func TestFilasPorPadreFiltra(t *testing.T) {
	svc, producto := setupTablaServiceTest(t)
	padre := crearTablaMateriales(t, svc, producto.ID)
	filaPVC := agregarFilaPrueba(t, svc, padre.ID, models.JSON{"material": "PVC", "precio_m2_usd": 18.5})
	filaMDF := agregarFilaPrueba(t, svc, padre.ID, models.JSON{"material": "MDF", "precio_m2_usd": 14.0})
	hija := crearTablaEspesores(t, svc, producto.ID, padre.ID)

	agregarFilaPrueba(t, svc, hija.ID, models.JSON{"espesor_mm": float64(3), hija.ColumnaRelacion: float64(filaPVC.ID)})
	agregarFilaPrueba(t, svc, hija.ID, models.JSON{"espesor_mm": float64(5), hija.ColumnaRelacion: float64(filaPVC.ID)})
	agregarFilaPrueba(t, svc, hija.ID, models.JSON{"espesor_mm": float64(9), hija.ColumnaRelacion: float64(filaMDF.ID)})

	filas, err := svc.FilasPorPadre(hija.ID, "", filaPVC.ID)
	if err != nil {
		t.Fatalf("filas por padre failed: %v", err)
	}
	if len(filas) != 2 {
		t.Fatalf("filas de PVC want 2 got %d", len(filas))
	}
	filas, err = svc.FilasPorPadre(hija.ID, "", filaMDF.ID)
	if err != nil {
		t.Fatalf("filas por padre failed: %v", err)
	}
	if len(filas) != 1 {
		t.Fatalf("filas de MDF want 1 got %d", len(filas))
	}
}

func TestVerificarReferenciasCuentaOrdenes(t *testing.T) {
	svc, producto := setupTablaServiceTest(t)
	padre := crearTablaMateriales(t, svc, producto.ID)
	crearTablaEspesores(t, svc, producto.ID, padre.ID)

	refs, err := svc.VerificarReferencias(padre.ID)
	if err != nil {
		t.Fatalf("verificar referencias failed: %v", err)
	}
	if refs.TablasHijasActivas != 1 {
		t.Fatalf("hijas activas want 1 got %d", refs.TablasHijasActivas)
	}
	if refs.OrdenesCoincidentes != 0 {
		t.Fatalf("ordenes want 0 got %d", refs.OrdenesCoincidentes)
	}
}

func TestNombreTablaDisponibleEvitaChoques(t *testing.T) {
	svc, producto := setupTablaServiceTest(t)
	tabla := crearTablaMateriales(t, svc, producto.ID)

	nombre, err := nombreTablaDisponible(svc.tablaRepo, tabla.NombreTabla)
	if err != nil {
		t.Fatalf("nombre disponible failed: %v", err)
	}
	if want := tabla.NombreTabla + "_2"; nombre != want {
		t.Fatalf("nombre ocupado want %s got %s", want, nombre)
	}

	libre, err := nombreTablaDisponible(svc.tablaRepo, "param_acabados_123")
	if err != nil {
		t.Fatalf("nombre libre failed: %v", err)
	}
	if libre != "param_acabados_123" {
		t.Fatalf("nombre libre want param_acabados_123 got %s", libre)
	}
}
