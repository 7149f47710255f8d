package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Flag is a boolean that also decodes from "true"/"false" strings.
// The restaurant backend has stored is_favorite both ways.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		*f = false
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return fmt.Errorf("flag: %w", err)
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*f = false
			return nil
		}
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("flag: %w", err)
	}
	*f = Flag(v)
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

// Scan implements sql.Scanner.
func (f *Flag) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = false
	case bool:
		*f = Flag(v)
	case int64:
		*f = v != 0
	case []byte:
		return f.parse(string(v))
	case string:
		return f.parse(v)
	default:
		return fmt.Errorf("flag: unsupported type %T", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (f Flag) Value() (driver.Value, error) {
	return bool(f), nil
}

func (f *Flag) parse(s string) error {
	if s == "" {
		*f = false
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("flag: %w", err)
	}
	*f = Flag(v)
	return nil
}
