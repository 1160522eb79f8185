// Package tasabcv resuelve la tasa de cambio Bs/USD con una cadena de
// fuentes: endpoint configurado, APIs públicas, caché local en archivo y
// tasa estática por defecto. Nunca retorna error al negocio: una tasa
// cero significa "no disponible".
package tasabcv

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/corposign/corposign/internal/cache"
	"github.com/corposign/corposign/internal/config"
	"github.com/corposign/corposign/internal/logger"

	"github.com/shopspring/decimal"
)

const (
	redisCacheKey     = "tasa_bcv:actual"
	defaultTimeoutMS  = 3000
	defaultCacheDays  = 7
	defaultRedisTTLSec = 300
)

// Provider proveedor de tasa de cambio
type Provider struct {
	cfg        config.BCVConfig
	httpClient *http.Client
	fuentes    []fuente

	mu sync.Mutex // serializa escrituras del archivo de caché
}

// Resultado tasa resuelta y la fuente que la produjo
type Resultado struct {
	Tasa   decimal.Decimal `json:"tasa"`
	Fuente string          `json:"fuente"`
}

// Disponible indica si la tasa es utilizable
func (r Resultado) Disponible() bool {
	return r.Tasa.IsPositive()
}

// NewProvider crea el proveedor con la cadena de fuentes por defecto
func NewProvider(cfg config.BCVConfig) *Provider {
	timeout := cfg.TimeoutMS
	if timeout <= 0 {
		timeout = defaultTimeoutMS
	}
	p := &Provider{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Millisecond,
		},
	}
	p.fuentes = fuentesPorDefecto(cfg)
	return p
}

// NewProviderConFuentes crea el proveedor con fuentes explícitas (pruebas)
func NewProviderConFuentes(cfg config.BCVConfig, fuentes []fuente) *Provider {
	p := NewProvider(cfg)
	p.fuentes = fuentes
	return p
}

// TasaActual resuelve la tasa vigente recorriendo la cadena de fuentes.
// Todo fallo de red o de parseo se absorbe y pasa a la siguiente fuente.
func (p *Provider) TasaActual(ctx context.Context) Resultado {
	// Memoización corta en redis cuando está habilitado
	var cached Resultado
	if ok, err := cache.GetJSON(ctx, redisCacheKey, &cached); err == nil && ok && cached.Disponible() {
		return cached
	}

	for _, f := range p.fuentes {
		tasa, err := f.resolver(ctx, p.httpClient)
		if err != nil {
			logger.Debugw("tasa_fuente_fallo", "fuente", f.nombre, "error", err)
			continue
		}
		if !tasa.IsPositive() {
			continue
		}
		resultado := Resultado{Tasa: tasa, Fuente: f.nombre}
		p.persistir(ctx, resultado)
		return resultado
	}

	if cacheado, ok := p.leerCacheArchivo(); ok {
		return cacheado
	}

	if p.cfg.DefaultRate > 0 {
		return Resultado{
			Tasa:   decimal.NewFromFloat(p.cfg.DefaultRate),
			Fuente: "default",
		}
	}

	logger.Warnw("tasa_no_disponible", "fuentes_agotadas", len(p.fuentes))
	return Resultado{}
}

// persistir guarda una tasa obtenida de la red en archivo y redis
func (p *Provider) persistir(ctx context.Context, resultado Resultado) {
	if err := p.escribirCacheArchivo(resultado); err != nil {
		logger.Warnw("tasa_cache_archivo_escritura_fallo", "error", err)
	}
	ttl := p.cfg.CacheTTLRedis
	if ttl <= 0 {
		ttl = defaultRedisTTLSec
	}
	if err := cache.SetJSON(ctx, redisCacheKey, resultado, time.Duration(ttl)*time.Second); err != nil {
		logger.Debugw("tasa_cache_redis_escritura_fallo", "error", err)
	}
}
