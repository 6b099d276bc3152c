package models

import (
	"encoding/json"
	"fmt"
)

// scanJSON decodes a JSONB column value into dst. A nil or empty value leaves
// dst at its zero value.
func scanJSON(value interface{}, dst interface{}, what string) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for %s", value, what)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal %s: %w", what, err)
	}
	return nil
}
