package signals

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kingrea/report-engine/internal/content"
)

// Value is a resolved leaf together with the path it was read from.
type Value struct {
	Raw  any
	Path string
}

// Resolve returns the first non-empty candidate path.
func Resolve(t Tree, paths ...string) (Value, bool) {
	for _, path := range paths {
		if raw, ok := t.Lookup(path); ok {
			return Value{Raw: raw, Path: path}, true
		}
	}
	return Value{}, false
}

// Coverage classifies the value's originating path.
func (v Value) Coverage() content.Coverage {
	return ClassifyPath(v.Path)
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// Float interprets the value as a number. Strings yield their first number,
// so "230V" and "63 A" both parse.
func (v Value) Float() (float64, bool) {
	return toFloat(v.Raw)
}

func toFloat(raw any) (float64, bool) {
	switch t := raw.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		match := numberPattern.FindString(strings.ReplaceAll(t, ",", ""))
		if match == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(match, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// String renders the value as trimmed text.
func (v Value) String() string {
	switch t := v.Raw.(type) {
	case string:
		return strings.TrimSpace(t)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// Bool interprets yes/no style values. The second result is false when the
// value is not recognisably boolean.
func (v Value) Bool() (bool, bool) {
	return toBool(v.Raw)
}

func toBool(raw any) (bool, bool) {
	switch t := raw.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, true
	case int:
		return t != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "y", "true", "present", "installed", "1":
			return true, true
		case "no", "n", "false", "absent", "none", "0":
			return false, true
		}
	}
	return false, false
}

// Reading is a numeric signal with provenance.
type Reading struct {
	Value    float64          `json:"value"`
	Path     string           `json:"path"`
	Coverage content.Coverage `json:"coverage"`
}

// ResolveReading returns the first candidate that parses as a number.
func ResolveReading(t Tree, paths ...string) *Reading {
	for _, path := range paths {
		raw, ok := t.Lookup(path)
		if !ok {
			continue
		}
		if f, ok := toFloat(raw); ok {
			return &Reading{Value: f, Path: path, Coverage: ClassifyPath(path)}
		}
	}
	return nil
}

// ResolveFlag returns the first candidate that parses as a boolean.
func ResolveFlag(t Tree, paths ...string) (*bool, string) {
	for _, path := range paths {
		raw, ok := t.Lookup(path)
		if !ok {
			continue
		}
		if b, ok := toBool(raw); ok {
			return &b, path
		}
	}
	return nil, ""
}
