package tasabcv

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
)

// archivoCache formato en disco del último valor conocido
type archivoCache struct {
	Rate   string `json:"rate"`
	TS     int64  `json:"ts"`
	Fuente string `json:"fuente,omitempty"`
}

// leerCacheArchivo retorna el último valor cacheado si no expiró
func (p *Provider) leerCacheArchivo() (Resultado, bool) {
	ruta := p.cfg.CacheFile
	if ruta == "" {
		return Resultado{}, false
	}

	data, err := os.ReadFile(ruta)
	if err != nil {
		return Resultado{}, false
	}

	var contenido archivoCache
	if err := json.Unmarshal(data, &contenido); err != nil {
		return Resultado{}, false
	}

	maxDias := p.cfg.CacheMaxDays
	if maxDias <= 0 {
		maxDias = defaultCacheDays
	}
	edad := time.Since(time.Unix(contenido.TS, 0))
	if edad > time.Duration(maxDias)*24*time.Hour {
		return Resultado{}, false
	}

	tasa, err := decimal.NewFromString(contenido.Rate)
	if err != nil || !tasa.IsPositive() {
		return Resultado{}, false
	}
	return Resultado{Tasa: tasa, Fuente: "cache_local"}, true
}

// escribirCacheArchivo persiste el valor con marca de tiempo
func (p *Provider) escribirCacheArchivo(resultado Resultado) error {
	ruta := p.cfg.CacheFile
	if ruta == "" {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if dir := filepath.Dir(ruta); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	contenido := archivoCache{
		Rate:   resultado.Tasa.String(),
		TS:     time.Now().Unix(),
		Fuente: resultado.Fuente,
	}
	data, err := json.Marshal(contenido)
	if err != nil {
		return err
	}
	return os.WriteFile(ruta, data, 0o644)
}
