package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores a []string as a JSON text column so the same model works
// on both the postgres and sqlite dialects.
type StringList []string

// Value marshals the list for storage. An empty list stores as [].
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		s = StringList{}
	}
	raw, err := json.Marshal([]string(s))
	if err != nil {
		return nil, fmt.Errorf("string list: marshal: %w", err)
	}
	return string(raw), nil
}

// Scan decodes the stored JSON back into the list.
func (s *StringList) Scan(value any) error {
	if value == nil {
		*s = StringList{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("string list: unsupported scan type %T", value)
	}

	if len(raw) == 0 {
		*s = StringList{}
		return nil
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("string list: unmarshal: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*s = out
	return nil
}
