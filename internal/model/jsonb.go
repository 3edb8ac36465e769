package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList stores an ordered list of strings as a JSONB column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	return string(data), err
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// UnitPrice is one entry of a product's per-unit price list, in minor units.
type UnitPrice struct {
	Unit  string `json:"unit" validate:"required"`
	Price int64  `json:"price" validate:"gte=0"`
}

// UnitPriceList stores the ordered manual price list as a JSONB column.
// Index 0 is the primary unit.
type UnitPriceList []UnitPrice

func (l UnitPriceList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	return string(data), err
}

func (l *UnitPriceList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported jsonb source type")
	}
}
