package tasabcv

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/corposign/corposign/internal/config"

	"github.com/shopspring/decimal"
)

func fuenteFija(nombre string, tasa float64) fuente {
	return fuente{
		nombre: nombre,
		resolver: func(ctx context.Context, client *http.Client) (decimal.Decimal, error) {
			return decimal.NewFromFloat(tasa), nil
		},
	}
}

func fuenteRota(nombre string) fuente {
	return fuente{
		nombre: nombre,
		resolver: func(ctx context.Context, client *http.Client) (decimal.Decimal, error) {
			return decimal.Zero, fmt.Errorf("fuente %s caída", nombre)
		},
	}
}

func TestTasaActualRecorreLaCadena(t *testing.T) {
	p := NewProviderConFuentes(config.BCVConfig{}, []fuente{
		fuenteRota("primaria"),
		fuenteFija("secundaria", 36.5),
		fuenteFija("terciaria", 99),
	})

	resultado := p.TasaActual(context.Background())
	if !resultado.Disponible() {
		t.Fatalf("expected tasa disponible")
	}
	if resultado.Fuente != "secundaria" {
		t.Fatalf("fuente want secundaria got %s", resultado.Fuente)
	}
	if !resultado.Tasa.Equal(decimal.NewFromFloat(36.5)) {
		t.Fatalf("tasa want 36.5 got %s", resultado.Tasa.String())
	}
}

func TestTasaActualIgnoraTasasNoPositivas(t *testing.T) {
	p := NewProviderConFuentes(config.BCVConfig{}, []fuente{
		fuenteFija("cero", 0),
		fuenteFija("valida", 40),
	})

	resultado := p.TasaActual(context.Background())
	if resultado.Fuente != "valida" {
		t.Fatalf("fuente want valida got %s", resultado.Fuente)
	}
}

func TestTasaActualCaeAlCacheArchivo(t *testing.T) {
	ruta := filepath.Join(t.TempDir(), "tasa.json")
	cfg := config.BCVConfig{CacheFile: ruta}

	// una corrida exitosa deja el archivo escrito
	caliente := NewProviderConFuentes(cfg, []fuente{fuenteFija("red", 38.2)})
	if resultado := caliente.TasaActual(context.Background()); !resultado.Disponible() {
		t.Fatalf("expected tasa de red disponible")
	}

	// con la red caída se usa el último valor conocido
	frio := NewProviderConFuentes(cfg, []fuente{fuenteRota("red")})
	resultado := frio.TasaActual(context.Background())
	if !resultado.Disponible() {
		t.Fatalf("expected tasa de caché disponible")
	}
	if resultado.Fuente != "cache_local" {
		t.Fatalf("fuente want cache_local got %s", resultado.Fuente)
	}
	if !resultado.Tasa.Equal(decimal.NewFromFloat(38.2)) {
		t.Fatalf("tasa want 38.2 got %s", resultado.Tasa.String())
	}
}

func TestTasaActualDefaultComoUltimoRecurso(t *testing.T) {
	p := NewProviderConFuentes(config.BCVConfig{DefaultRate: 35}, []fuente{fuenteRota("red")})

	resultado := p.TasaActual(context.Background())
	if resultado.Fuente != "default" {
		t.Fatalf("fuente want default got %s", resultado.Fuente)
	}
	if !resultado.Tasa.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("tasa want 35 got %s", resultado.Tasa.String())
	}
}

func TestTasaActualSinFuentesNiRespaldo(t *testing.T) {
	p := NewProviderConFuentes(config.BCVConfig{}, []fuente{fuenteRota("red")})

	resultado := p.TasaActual(context.Background())
	if resultado.Disponible() {
		t.Fatalf("expected tasa no disponible, got %s", resultado.Tasa.String())
	}
}

func TestFetchJSONPathEndpointConfigurado(t *testing.T) {
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"monitors":{"bcv":{"price":"36,42"}}}`)
	}))
	defer servidor.Close()

	tasa, err := fetchJSONPath(context.Background(), servidor.Client(), servidor.URL, "monitors.bcv.price")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !tasa.Equal(decimal.NewFromFloat(36.42)) {
		t.Fatalf("tasa want 36.42 got %s", tasa.String())
	}
}

func TestFetchJSONPathErrores(t *testing.T) {
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "mantenimiento", http.StatusServiceUnavailable)
	}))
	defer servidor.Close()

	if _, err := fetchJSONPath(context.Background(), servidor.Client(), servidor.URL, "promedio"); err == nil {
		t.Fatalf("expected error por status no OK")
	}
}

func TestWalkJSONPath(t *testing.T) {
	doc := map[string]interface{}{
		"rates": map[string]interface{}{"VES": 36.0},
	}

	valor, err := walkJSONPath(doc, "rates.VES")
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if valor != 36.0 {
		t.Fatalf("valor want 36.0 got %v", valor)
	}

	if _, err := walkJSONPath(doc, "rates.USD"); err == nil {
		t.Fatalf("expected error por segmento inexistente")
	}
	if _, err := walkJSONPath(doc, "rates.VES.mas"); err == nil {
		t.Fatalf("expected error por nodo no objeto")
	}
}

func TestParseTasaFormatos(t *testing.T) {
	casos := []struct {
		valor interface{}
		want  string
	}{
		{valor: 36.5, want: "36.5"},
		{valor: "40", want: "40"},
		{valor: " 36,42 ", want: "36.42"},
	}
	for _, caso := range casos {
		tasa, err := parseTasa(caso.valor)
		if err != nil {
			t.Fatalf("parse %v failed: %v", caso.valor, err)
		}
		if tasa.String() != caso.want {
			t.Fatalf("parse %v want %s got %s", caso.valor, caso.want, tasa.String())
		}
	}

	if _, err := parseTasa(true); err == nil {
		t.Fatalf("expected error por tipo no soportado")
	}
}
