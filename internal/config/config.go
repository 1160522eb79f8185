package config

import (
	"fmt"
	"strings"

	"github.com/corposign/corposign/internal/logger"

	"github.com/spf13/viper"
)

// Config estructura de configuración de la aplicación
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	BCV      BCVConfig      `mapstructure:"bcv"`
	Venta    VentaConfig    `mapstructure:"venta"`
	Security SecurityConfig `mapstructure:"security"`
}

// SecurityConfig límites de seguridad del panel
type SecurityConfig struct {
	LoginRateLimit LoginRateLimitConfig `mapstructure:"login_rate_limit"`
}

// LoginRateLimitConfig ventana de intentos de login (requiere Redis)
type LoginRateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
}

// ServerConfig configuración del servidor HTTP
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig configuración de logs
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions convierte a opciones del logger
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig configuración del pool de conexiones
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig configuración de base de datos
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres
	URL    string             `mapstructure:"url"`    // cadena de conexión (DATABASE_URL)
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig configuración JWT del panel administrativo
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// RedisConfig configuración de Redis (opcional)
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig configuración de la cola asincrónica (opcional)
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig configuración de CORS
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// BCVConfig configuración del proveedor de tasa de cambio
type BCVConfig struct {
	APIURL        string  `mapstructure:"api_url"`       // DOLLAR_API_URL: endpoint configurado por el operador
	APIJSONPath   string  `mapstructure:"api_json_path"` // DOLLAR_API_JSON_PATH: ruta dentro del JSON (p.ej. "promedio" o "data.rate")
	DefaultRate   float64 `mapstructure:"default_rate"`  // BCV_RATE_DEFAULT: tasa estática de último recurso
	CacheFile     string  `mapstructure:"cache_file"`
	CacheMaxDays  int     `mapstructure:"cache_max_days"`
	TimeoutMS     int     `mapstructure:"timeout_ms"`
	CacheTTLRedis int     `mapstructure:"cache_ttl_redis_seconds"`
}

// VentaConfig reglas de venta
type VentaConfig struct {
	MaxReintentosNumero int `mapstructure:"max_reintentos_numero"`
}

// Load carga la configuración desde config.yml y variables de entorno
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")   // al ejecutar desde cmd/server
	viper.AddConfigPath("./etc")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "corposign.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.url", "./db/corposign.db")
	viper.SetDefault("database.pool.max_open_conns", 1)
	viper.SetDefault("database.pool.max_idle_conns", 1)
	viper.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	viper.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expire_hours", 24)
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "cs")
	viper.SetDefault("queue.enabled", false)
	viper.SetDefault("queue.host", "127.0.0.1")
	viper.SetDefault("queue.port", 6379)
	viper.SetDefault("queue.password", "")
	viper.SetDefault("queue.db", 1)
	viper.SetDefault("queue.concurrency", 10)
	viper.SetDefault("queue.queues", map[string]int{
		"default": 10,
	})
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
	})
	viper.SetDefault("cors.allow_credentials", true)
	viper.SetDefault("cors.max_age", 600)
	viper.SetDefault("bcv.api_url", "")
	viper.SetDefault("bcv.api_json_path", "")
	viper.SetDefault("bcv.default_rate", 0)
	viper.SetDefault("bcv.cache_file", "./db/tasa_bcv_cache.json")
	viper.SetDefault("bcv.cache_max_days", 7)
	viper.SetDefault("bcv.timeout_ms", 3000)
	viper.SetDefault("bcv.cache_ttl_redis_seconds", 300)
	viper.SetDefault("venta.max_reintentos_numero", 5)
	viper.SetDefault("security.login_rate_limit.window_seconds", 60)
	viper.SetDefault("security.login_rate_limit.max_attempts", 10)

	// Soporte de variables de entorno: database.url -> DATABASE_URL
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Alias heredados de la instalación de escritorio
	_ = viper.BindEnv("bcv.api_url", "DOLLAR_API_URL", "BCV_API_URL")
	_ = viper.BindEnv("bcv.api_json_path", "DOLLAR_API_JSON_PATH", "BCV_API_JSON_PATH")
	_ = viper.BindEnv("bcv.default_rate", "BCV_RATE_DEFAULT", "BCV_DEFAULT_RATE")

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("no se pudo interpretar la configuración: %w", err))
	}

	return &cfg
}
