package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/corposign/corposign/internal/app"
	"github.com/corposign/corposign/internal/config"
	"github.com/corposign/corposign/internal/logger"
	"github.com/corposign/corposign/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	printStartupBanner()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.JWT.SecretKey) {
			stdLog.Fatalf("el secreto JWT es débil o sigue siendo el valor por defecto; configure una clave fuerte en producción")
		}
	} else if isWeakSecret(cfg.JWT.SecretKey) {
		stdLog.Printf("advertencia: el secreto JWT es débil o sigue siendo el valor por defecto")
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.URL, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("fallo al inicializar la base de datos: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("fallo en la migración de la base de datos: %v", err)
	}

	// Cuenta administrativa inicial
	adminUser := os.Getenv("CS_DEFAULT_ADMIN_USERNAME")
	adminPass := os.Getenv("CS_DEFAULT_ADMIN_PASSWORD")
	if cfg.Server.Mode == "release" && adminPass == "" {
		stdLog.Printf("advertencia: CS_DEFAULT_ADMIN_PASSWORD no definida, se omite el administrador por defecto")
	} else if err := models.InitUsuarioAdmin(adminUser, adminPass); err != nil {
		stdLog.Printf("advertencia: no se pudo crear el administrador por defecto: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "modo de arranque: all (por defecto), api, worker")
	flag.Parse()

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("fallo al ejecutar el servicio: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + ansiBold + "CorpoSign API" + ansiReset)
	fmt.Println(ansiDim + "panel administrativo de ventas y producción de letreros" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
