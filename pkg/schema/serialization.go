package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/regfsm/pkg/domain"
)

// Format names a wire encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" and "yml" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// Marshal encodes v. JSON output is indented for humans.
func Marshal(v any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(v, "", "  ")
	case FormatYAML:
		return yaml.Marshal(v)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any, format Format) error {
	switch format {
	case FormatJSON:
		return json.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	}
	return fmt.Errorf("unsupported format %q", format)
}

// EncodeResult flattens r and encodes it.
func EncodeResult(r *domain.Result, format Format) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("schema: EncodeResult on nil result")
	}
	data, err := Marshal(FromResult(r), format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result %s: %w", r.ID, err)
	}
	return data, nil
}

// DecodeResult decodes and validates a result.
func DecodeResult(data []byte, format Format) (*domain.Result, error) {
	var wire Result
	if err := Unmarshal(data, &wire, format); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return wire.ToDomain()
}
