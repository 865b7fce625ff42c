package filter

import (
	"encoding/json"
	"fmt"
	"os"
)

// MarshalSpec encodes a spec in its persisted JSON form.
func MarshalSpec(s *Spec) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSpec decodes a persisted spec and fills unset engine
// parameters with their defaults.
func UnmarshalSpec(data []byte) (*Spec, error) {
	s := NewSpec()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode filter spec: %w", err)
	}
	if s.BuyPercentile == 0 && s.SellPercentile == 0 {
		s.BuyPercentile = 60
		s.SellPercentile = 40
	}
	if s.Policy == "" {
		s.Policy = PolicyRejectItem
	}
	return s, nil
}

// LoadSpec reads a spec from a JSON file.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read filter spec: %w", err)
	}
	return UnmarshalSpec(data)
}

// SaveSpec writes a spec to a JSON file.
func SaveSpec(path string, s *Spec) error {
	data, err := MarshalSpec(s)
	if err != nil {
		return fmt.Errorf("encode filter spec: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write filter spec: %w", err)
	}
	return nil
}
