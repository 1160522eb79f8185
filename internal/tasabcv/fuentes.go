package tasabcv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/corposign/corposign/internal/config"

	"github.com/shopspring/decimal"
)

// fuente una entrada de la cadena de resolución
type fuente struct {
	nombre   string
	resolver func(ctx context.Context, client *http.Client) (decimal.Decimal, error)
}

// fuentesPorDefecto arma la cadena: endpoint del operador primero, luego
// las APIs públicas conocidas en orden de preferencia.
func fuentesPorDefecto(cfg config.BCVConfig) []fuente {
	var fuentes []fuente

	if strings.TrimSpace(cfg.APIURL) != "" {
		url := cfg.APIURL
		path := cfg.APIJSONPath
		fuentes = append(fuentes, fuente{
			nombre: "configurada",
			resolver: func(ctx context.Context, client *http.Client) (decimal.Decimal, error) {
				return fetchJSONPath(ctx, client, url, path)
			},
		})
	}

	// pydolarve expone la tasa oficial bajo monitors.bcv.price,
	// con más de una ruta según la versión del API
	for _, variante := range []struct {
		url  string
		path string
	}{
		{"https://pydolarve.org/api/v1/dollar?page=bcv", "monitors.bcv.price"},
		{"https://pydolarve.org/api/v1/dollar/page/bcv", "monitors.bcv.price"},
	} {
		url, path := variante.url, variante.path
		fuentes = append(fuentes, fuente{
			nombre: "pydolarve",
			resolver: func(ctx context.Context, client *http.Client) (decimal.Decimal, error) {
				return fetchJSONPath(ctx, client, url, path)
			},
		})
	}

	// dolarapi usa un objeto plano con el campo "promedio"
	fuentes = append(fuentes, fuente{
		nombre: "dolarapi",
		resolver: func(ctx context.Context, client *http.Client) (decimal.Decimal, error) {
			return fetchJSONPath(ctx, client, "https://ve.dolarapi.com/v1/dolares/oficial", "promedio")
		},
	})

	// exchangerate-api anida la tasa bajo rates.VES
	fuentes = append(fuentes, fuente{
		nombre: "exchangerate",
		resolver: func(ctx context.Context, client *http.Client) (decimal.Decimal, error) {
			return fetchJSONPath(ctx, client, "https://open.er-api.com/v6/latest/USD", "rates.VES")
		},
	})

	return fuentes
}

// fetchJSONPath descarga un JSON y extrae un valor numérico por ruta punteada
func fetchJSONPath(ctx context.Context, client *http.Client, url, path string) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("status %d desde %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return decimal.Zero, err
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return decimal.Zero, err
	}

	valor, err := walkJSONPath(doc, path)
	if err != nil {
		return decimal.Zero, err
	}
	return parseTasa(valor)
}

// walkJSONPath navega una ruta punteada ("monitors.bcv.price") en un documento
func walkJSONPath(doc interface{}, path string) (interface{}, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return doc, nil
	}
	actual := doc
	for _, segmento := range strings.Split(trimmed, ".") {
		mapa, ok := actual.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("segmento %q: el nodo no es un objeto", segmento)
		}
		siguiente, ok := mapa[segmento]
		if !ok {
			return nil, fmt.Errorf("segmento %q no existe", segmento)
		}
		actual = siguiente
	}
	return actual, nil
}

// parseTasa acepta números o cadenas con formato local ("36,50")
func parseTasa(valor interface{}) (decimal.Decimal, error) {
	switch v := valor.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		normalizada := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		f, err := strconv.ParseFloat(normalizada, 64)
		if err != nil {
			return decimal.Zero, fmt.Errorf("tasa no numérica: %q", v)
		}
		return decimal.NewFromFloat(f), nil
	default:
		return decimal.Zero, fmt.Errorf("tipo de tasa no soportado: %T", valor)
	}
}
