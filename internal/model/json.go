package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap is a free-form JSON object stored in a JSON column.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal JSONMap: %w", err)
	}
	return b, nil
}

func (m *JSONMap) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("JSONMap.Scan: expected []byte, got %T", src)
	}
	if len(data) == 0 || string(data) == "null" {
		*m = nil
		return nil
	}
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("unmarshal JSONMap: %w", err)
	}
	return nil
}

// Truthy reports whether the value under key would be considered true by a
// loosely typed caller: false, 0, "", null and missing keys are falsy.
func (m JSONMap) Truthy(key string) bool {
	v, ok := m[key]
	if !ok {
		return false
	}
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}
