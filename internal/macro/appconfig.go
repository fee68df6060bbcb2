package macro

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Params maps config parameter names to their decoded parameter objects.
// Duplicate keys keep their first position and their last value.
type Params = orderedmap.OrderedMap[string, any]

// Layer maps configuration keys to override values for one target.
type Layer = orderedmap.OrderedMap[string, any]

// AppConfig is the parsed application configuration (mbed_app.json).
// Every map keeps the key order of the document.
type AppConfig struct {
	// Config maps parameter names to parameter objects with an optional "value".
	Config *Params
	// Macros are literal macro strings appended verbatim.
	Macros []string
	// TargetOverrides maps target names to override layers.
	TargetOverrides *orderedmap.OrderedMap[string, *Layer]
}

// NewAppConfig returns an empty configuration.
func NewAppConfig() *AppConfig {
	return &AppConfig{
		Config:          orderedmap.New[string, any](),
		TargetOverrides: orderedmap.New[string, *Layer](),
	}
}

type appConfigDocument struct {
	Config          json.RawMessage `json:"config"`
	Macros          json.RawMessage `json:"macros"`
	TargetOverrides json.RawMessage `json:"target_overrides"`
}

// LoadAppConfig reads the application configuration at path.
// A missing file, or one holding only whitespace, yields an empty configuration.
func LoadAppConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewAppConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read app config: %w", err)
	}

	cfg, err := ParseAppConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse app config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseAppConfig decodes an application configuration document.
func ParseAppConfig(data []byte) (*AppConfig, error) {
	cfg := NewAppConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	if kind := jsonKind(data); kind != "object" {
		return nil, fmt.Errorf("top-level value must be an object, got %s", kind)
	}
	var doc appConfigDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if kind := jsonKind(doc.Config); kind != "null" {
		if kind != "object" {
			return nil, fmt.Errorf(`"config" must be an object, got %s`, kind)
		}
		if err := json.Unmarshal(doc.Config, cfg.Config); err != nil {
			return nil, fmt.Errorf(`failed to decode "config": %w`, err)
		}
	}

	if kind := jsonKind(doc.Macros); kind != "null" {
		if kind != "array" {
			return nil, fmt.Errorf(`"macros" must be an array, got %s`, kind)
		}
		var items []any
		if err := json.Unmarshal(doc.Macros, &items); err != nil {
			return nil, fmt.Errorf(`failed to decode "macros": %w`, err)
		}
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf(`"macros"[%d] must be a string, got %s`, i, typeName(item))
			}
			cfg.Macros = append(cfg.Macros, s)
		}
	}

	if kind := jsonKind(doc.TargetOverrides); kind != "null" {
		if kind != "object" {
			return nil, fmt.Errorf(`"target_overrides" must be an object, got %s`, kind)
		}
		raw := orderedmap.New[string, json.RawMessage]()
		if err := json.Unmarshal(doc.TargetOverrides, raw); err != nil {
			return nil, fmt.Errorf(`failed to decode "target_overrides": %w`, err)
		}
		for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
			kind := jsonKind(pair.Value)
			if kind == "null" {
				continue
			}
			if kind != "object" {
				return nil, fmt.Errorf(`"target_overrides"[%q] must be an object, got %s`, pair.Key, kind)
			}
			layer := orderedmap.New[string, any]()
			if err := json.Unmarshal(pair.Value, layer); err != nil {
				return nil, fmt.Errorf(`failed to decode "target_overrides"[%q]: %w`, pair.Key, err)
			}
			cfg.TargetOverrides.Set(pair.Key, layer)
		}
	}

	return cfg, nil
}

// jsonKind names the type of a raw JSON value from its first byte.
// An absent value reports "null".
func jsonKind(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "null"
	}
	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// truthy follows JavaScript truthiness for decoded JSON values.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	default:
		return true
	}
}

// stringify renders a decoded JSON value the way JavaScript's toString does.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case string:
		return t
	case float64:
		return formatNumber(t)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			if item == nil {
				continue
			}
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return fmt.Sprint(t)
	}
}

// formatNumber prints integers without a fraction and switches to exponent
// notation outside [1e-6, 1e21), matching JavaScript number formatting.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "e" + sign + exp
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
