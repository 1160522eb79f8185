package main

import (
	"fmt"

	"github.com/corposign/corposign/internal/config"
	"github.com/corposign/corposign/internal/constants"
	"github.com/corposign/corposign/internal/logger"
	"github.com/corposign/corposign/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.URL, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// Clientes de muestra
	clientes := []models.Cliente{
		{Nombre: "Inversiones El Faro C.A.", Telefono: "0414-5550101", Email: "compras@elfaro.com.ve", Direccion: "Av. Bolívar, Valencia"},
		{Nombre: "Panadería La Espiga", Telefono: "0412-5550202", Direccion: "C.C. Metrópolis, local 12"},
		{Nombre: "Farmacia San Rafael", Telefono: "0424-5550303", Email: "sanrafael@gmail.com"},
	}
	for _, cliente := range clientes {
		var existing models.Cliente
		if err := models.DB.Where("nombre = ?", cliente.Nombre).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cliente).Error; err != nil {
				stdLog.Printf("Failed to create cliente %s: %v", cliente.Nombre, err)
			} else {
				stdLog.Printf("Created cliente: %s", cliente.Nombre)
			}
		} else {
			stdLog.Printf("Cliente already exists: %s", cliente.Nombre)
		}
	}

	// Producto configurable con sus tablas de parámetros
	producto := models.ProductoConfigurable{
		Nombre:      "Letrero Corpóreo",
		Descripcion: "Letras corpóreas en distintos materiales con iluminación opcional",
		CreadoPor:   "seed",
		Activo:      true,
	}
	var existingProducto models.ProductoConfigurable
	if err := models.DB.Where("nombre = ? AND activo = ?", producto.Nombre, true).First(&existingProducto).Error; err != nil {
		if err := models.DB.Create(&producto).Error; err != nil {
			stdLog.Fatalf("Failed to create producto: %v", err)
		}
		stdLog.Printf("Created producto: %s", producto.Nombre)
	} else {
		producto = existingProducto
		stdLog.Printf("Producto already exists: %s", producto.Nombre)
	}

	// Tabla de materiales (padre)
	materiales := models.TablaParametros{
		ProductoID:    producto.ID,
		NombreTabla:   "param_materiales_seed",
		NombreVisible: "Materiales",
		Descripcion:   "Materiales disponibles con precio por metro cuadrado",
		ConAutoID:     true,
		Activo:        true,
		Esquema: models.ListaColumnas{
			{Nombre: "id", Tipo: constants.ColumnaTipoEntero, Requerida: true, PrimaryKey: true, AutoIncrement: true},
			{Nombre: "material", Tipo: constants.ColumnaTipoTexto, Requerida: true},
			{Nombre: "precio_m2_usd", Tipo: constants.ColumnaTipoReal, Requerida: true},
		},
	}
	materiales = ensureTabla(stdLog, materiales)

	// Tabla de espesores (hija de materiales)
	columnaRelacion := "param_materiales_seed_id"
	espesores := models.TablaParametros{
		ProductoID:      producto.ID,
		NombreTabla:     "param_espesores_seed",
		NombreVisible:   "Espesores",
		Descripcion:     "Espesores por material",
		ConAutoID:       true,
		TablaPadreID:    &materiales.ID,
		ColumnaRelacion: columnaRelacion,
		Activo:          true,
		Esquema: models.ListaColumnas{
			{Nombre: "id", Tipo: constants.ColumnaTipoEntero, Requerida: true, PrimaryKey: true, AutoIncrement: true},
			{Nombre: columnaRelacion, Tipo: constants.ColumnaTipoEntero, Requerida: true, EsForanea: true, TablaReferencia: materiales.ID},
			{Nombre: "espesor_mm", Tipo: constants.ColumnaTipoReal, Requerida: true},
			{Nombre: "recargo_pct", Tipo: constants.ColumnaTipoReal, Requerida: false},
		},
	}
	espesores = ensureTabla(stdLog, espesores)

	// Filas de materiales
	var countMateriales int64
	models.DB.Model(&models.FilaParametros{}).Where("tabla_id = ?", materiales.ID).Count(&countMateriales)
	if countMateriales == 0 {
		filas := []models.FilaParametros{
			{TablaID: materiales.ID, Activo: true, Datos: models.JSON{"material": "PVC", "precio_m2_usd": 18.5}},
			{TablaID: materiales.ID, Activo: true, Datos: models.JSON{"material": "Acrílico", "precio_m2_usd": 32.0}},
			{TablaID: materiales.ID, Activo: true, Datos: models.JSON{"material": "MDF", "precio_m2_usd": 14.0}},
		}
		for _, fila := range filas {
			if err := models.DB.Create(&fila).Error; err != nil {
				stdLog.Printf("Failed to create fila de materiales: %v", err)
			}
		}
		stdLog.Printf("Seeded %d filas de materiales", len(filas))
	}

	var countEspesores int64
	models.DB.Model(&models.FilaParametros{}).Where("tabla_id = ?", espesores.ID).Count(&countEspesores)
	if countEspesores == 0 {
		var primera models.FilaParametros
		if err := models.DB.Where("tabla_id = ?", materiales.ID).Order("id asc").First(&primera).Error; err == nil {
			filas := []models.FilaParametros{
				{TablaID: espesores.ID, Activo: true, Datos: models.JSON{columnaRelacion: float64(primera.ID), "espesor_mm": 10.0}},
				{TablaID: espesores.ID, Activo: true, Datos: models.JSON{columnaRelacion: float64(primera.ID), "espesor_mm": 15.0, "recargo_pct": 12.5}},
			}
			for _, fila := range filas {
				if err := models.DB.Create(&fila).Error; err != nil {
					stdLog.Printf("Failed to create fila de espesores: %v", err)
				}
			}
			stdLog.Printf("Seeded %d filas de espesores", len(filas))
		}
	}

	// Trabajadores
	trabajadores := []models.Trabajador{
		{Nombre: "María Pérez", Cargo: "Asesora de ventas", SalarioUSD: models.NewMoneyFromDecimal(decimal.NewFromInt(180)), ComisionPct: models.NewMoneyFromFloat(3.5), Activo: true},
		{Nombre: "José Rondón", Cargo: "Diseñador", SalarioUSD: models.NewMoneyFromDecimal(decimal.NewFromInt(220)), Activo: true},
	}
	for _, trabajador := range trabajadores {
		var existing models.Trabajador
		if err := models.DB.Where("nombre = ? AND activo = ?", trabajador.Nombre, true).First(&existing).Error; err != nil {
			if err := models.DB.Create(&trabajador).Error; err != nil {
				stdLog.Printf("Failed to create trabajador %s: %v", trabajador.Nombre, err)
			} else {
				stdLog.Printf("Created trabajador: %s", trabajador.Nombre)
			}
		} else {
			stdLog.Printf("Trabajador already exists: %s", trabajador.Nombre)
		}
	}

	fmt.Println("\nDatos de ejemplo creados:")
	fmt.Println("- 3 clientes")
	fmt.Println("- 1 producto configurable con tablas de materiales y espesores")
	fmt.Println("- 2 trabajadores")
}

func ensureTabla(stdLog interface{ Printf(string, ...interface{}) }, tabla models.TablaParametros) models.TablaParametros {
	var existing models.TablaParametros
	if err := models.DB.Where("nombre_tabla = ?", tabla.NombreTabla).First(&existing).Error; err != nil {
		if err := models.DB.Create(&tabla).Error; err != nil {
			stdLog.Printf("Failed to create tabla %s: %v", tabla.NombreTabla, err)
			return tabla
		}
		stdLog.Printf("Created tabla: %s", tabla.NombreTabla)
		return tabla
	}
	stdLog.Printf("Tabla already exists: %s", existing.NombreTabla)
	return existing
}
