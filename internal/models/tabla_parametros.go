package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// ColumnaEsquema descriptor tipado de una columna de tabla de parámetros
// Tipo ∈ {TEXT, INTEGER, REAL, BOOLEAN}. La relación con la tabla padre se
// declara explícita (EsForanea+TablaReferencia), no se infiere por nombre.
type ColumnaEsquema struct {
	Nombre          string `json:"nombre"`
	Tipo            string `json:"tipo"`
	Requerida       bool   `json:"requerida"`
	PrimaryKey      bool   `json:"primary_key"`
	AutoIncrement   bool   `json:"auto_increment"`
	Descripcion     string `json:"descripcion,omitempty"`
	EsForanea       bool   `json:"es_foranea,omitempty"`
	TablaReferencia uint   `json:"tabla_referencia,omitempty"` // ID de la tabla padre referenciada
}

// ListaColumnas esquema completo serializado como JSON en una columna
type ListaColumnas []ColumnaEsquema

// Value implementa driver.Valuer
func (l ListaColumnas) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implementa sql.Scanner
func (l *ListaColumnas) Scan(value interface{}) error {
	if value == nil {
		*l = ListaColumnas{}
		return nil
	}
	bytes, ok := normalizeJSONBytes(value)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// TablaParametros tabla de atributos definida por el operador para un producto
// El esquema vive como metadatos JSON; las filas van en filas_parametros.
type TablaParametros struct {
	ID              uint          `gorm:"primarykey" json:"id"`                         // clave primaria
	ProductoID      uint          `gorm:"index;not null" json:"producto_id"`            // producto dueño
	NombreTabla     string        `gorm:"uniqueIndex;not null" json:"nombre_tabla"`     // slug generado por el sistema
	NombreVisible   string        `gorm:"not null" json:"nombre_visible"`               // nombre para el operador
	Descripcion     string        `gorm:"type:varchar(500)" json:"descripcion,omitempty"`
	Esquema         ListaColumnas `gorm:"type:json" json:"esquema"`                     // descriptores de columna
	ConAutoID       bool          `json:"con_auto_id"`                                 // inyectar columna id automática
	TablaPadreID    *uint         `gorm:"index" json:"tabla_padre_id,omitempty"`        // relación jerárquica
	ColumnaRelacion string        `gorm:"type:varchar(100)" json:"columna_relacion,omitempty"` // columna FK hacia el padre
	Activo          bool          `gorm:"index" json:"activo"`                          // baja lógica
	CreatedAt       time.Time     `gorm:"index" json:"created_at"`

	// Relaciones
	Producto *ProductoConfigurable `gorm:"foreignKey:ProductoID" json:"producto,omitempty"`
	Filas    []FilaParametros      `gorm:"foreignKey:TablaID" json:"filas,omitempty"`
}

// TableName nombre de la tabla
func (TablaParametros) TableName() string {
	return "tablas_parametros"
}

// FilaParametros fila de datos de una tabla de parámetros (blob JSON)
// El ID de esta fila es la clave lógica; un campo "id" duplicado dentro del
// JSON de filas heredadas se normaliza contra esta columna.
type FilaParametros struct {
	ID        uint      `gorm:"primarykey" json:"id"`              // clave primaria lógica de la fila
	TablaID   uint      `gorm:"index;not null" json:"tabla_id"`    // tabla dueña
	Datos     JSON      `gorm:"type:json;not null" json:"datos"`   // mapa columna→valor según el esquema
	Activo    bool      `gorm:"index" json:"activo"`               // baja lógica
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName nombre de la tabla
func (FilaParametros) TableName() string {
	return "filas_parametros"
}
