package models

import (
	"encoding/json"
	"fmt"
)

// ShutdownType tells why a room is shutting down
type ShutdownType int

const (
	ShutdownNone ShutdownType = iota
	ShutdownManual
	ShutdownVacancy
	ShutdownEmergency
)

// String returns the string representation of a shutdown type
func (s ShutdownType) String() string {
	return [...]string{"none", "manual", "vacancy", "emergency"}[s]
}

// MarshalJSON encodes the shutdown type by name
func (s ShutdownType) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ParseShutdownType converts a name back to a ShutdownType
func ParseShutdownType(name string) (ShutdownType, error) {
	for _, t := range []ShutdownType{ShutdownNone, ShutdownManual, ShutdownVacancy, ShutdownEmergency} {
		if t.String() == name {
			return t, nil
		}
	}
	return ShutdownNone, fmt.Errorf("unknown shutdown type %q", name)
}

// UnmarshalJSON decodes a shutdown type name
func (s *ShutdownType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	t, err := ParseShutdownType(name)
	if err != nil {
		return err
	}
	*s = t
	return nil
}
