package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Known vehicle types. Any other string is accepted as a type as well.
const (
	VehicleTypeCar        = "Car"
	VehicleTypeMotorcycle = "Motorcycle"
	VehicleTypeQuad       = "Quad"
	VehicleTypeSnowmobile = "Snowmobile"
)

// UnknownAbbreviation is reported for vehicles that are not registered.
const UnknownAbbreviation = "UNK"

var typeAbbreviations = map[string]string{
	VehicleTypeCar:        "CAR",
	VehicleTypeMotorcycle: "MC",
	VehicleTypeQuad:       "QUAD",
	VehicleTypeSnowmobile: "SLED",
}

// VehicleTypes lists the known vehicle types in display order.
var VehicleTypes = []string{VehicleTypeCar, VehicleTypeMotorcycle, VehicleTypeQuad, VehicleTypeSnowmobile}

// TypeAbbreviation returns the short label for a vehicle type.
func TypeAbbreviation(vehicleType string) string {
	if vehicleType == "" {
		vehicleType = VehicleTypeCar
	}
	if abbr, ok := typeAbbreviations[vehicleType]; ok {
		return abbr
	}
	r := []rune(vehicleType)
	if len(r) > 4 {
		r = r[:4]
	}
	return strings.ToUpper(string(r))
}

// Year is a model year. Older documents store it as a string, so both
// JSON numbers and numeric strings are accepted.
type Year int

// UnmarshalJSON implements json.Unmarshaler.
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*y = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid year %q: %w", s, err)
		}
		*y = Year(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid year %s: %w", data, err)
	}
	*y = Year(n)
	return nil
}

// VehicleInfo is the metadata kept per vehicle name.
type VehicleInfo struct {
	Type string `json:"type" yaml:"type"`
	Year Year   `json:"year" yaml:"year"`
	Misc string `json:"misc" yaml:"misc"`
}

// Vehicle pairs a vehicle name with its metadata.
type Vehicle struct {
	Name        string `json:"name" yaml:"name"`
	VehicleInfo `yaml:",inline"`
}

// VehicleEdit carries the optional changes of an edit. Nil fields and an
// empty NewName are left untouched.
type VehicleEdit struct {
	NewName string  `json:"new_name,omitempty"`
	Type    *string `json:"type,omitempty"`
	Year    *int    `json:"year,omitempty"`
	Misc    *string `json:"misc,omitempty"`
}

// VehicleDocument is the persisted shape of the vehicle collection.
type VehicleDocument struct {
	Vehicles    []string               `json:"vehicles"`
	VehicleData map[string]VehicleInfo `json:"vehicle_data"`
}
