package models

import (
	"database/sql/driver"
	"encoding/json"
)

// JSON mapa libre serializado como JSON en una columna
type JSON map[string]interface{}

// Value implementa driver.Valuer
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implementa sql.Scanner
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := normalizeJSONBytes(value)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

func normalizeJSONBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
