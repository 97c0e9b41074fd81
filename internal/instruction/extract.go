package instruction

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownKind is returned by Decode for a mapping whose "type" is not an instruction kind
	ErrUnknownKind = errors.New("unknown instruction type")
	// ErrMalformed is returned by Decode when a required key is missing or has the wrong shape
	ErrMalformed = errors.New("malformed instruction")
)

// Extract returns the first balanced {...} object embedded in text.
// Braces are counted without regard to string literals. If the candidate is not valid JSON, single
// quotes are replaced with double quotes and parsing is retried once.
func Extract(text string) (map[string]any, bool) {
	candidate, ok := firstObject(text)
	if !ok {
		return nil, false
	}
	if obj, err := parseObject(candidate); err == nil {
		return obj, true
	}
	obj, err := parseObject(strings.ReplaceAll(candidate, "'", `"`))
	if err != nil {
		return nil, false
	}
	return obj, true
}

func firstObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func parseObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after object")
	}
	if obj == nil {
		return nil, fmt.Errorf("not an object")
	}
	return obj, nil
}

// Decode converts the wire mapping into a typed instruction.
// Numbers may be JSON numbers or numeric strings. Counts are truncated toward zero.
func Decode(m map[string]any) (Instruction, error) {
	kind, _ := m["type"].(string)
	switch Kind(strings.TrimSpace(kind)) {
	case KindUpdateStaff:
		name, ok := stringField(m, "staff_name")
		if !ok {
			return nil, fmt.Errorf("%w: %s requires staff_name", ErrMalformed, kind)
		}
		field, ok := stringField(m, "field")
		if !ok {
			return nil, fmt.Errorf("%w: %s requires field", ErrMalformed, kind)
		}
		value, err := decimalField(m, "value")
		if err != nil {
			return nil, err
		}
		return UpdateStaffField{StaffName: name, Field: NormalizeField(field), Value: value}, nil

	case KindUpdateDemand:
		day, ok := stringField(m, "day")
		if !ok {
			return nil, fmt.Errorf("%w: %s requires day", ErrMalformed, kind)
		}
		value, err := countField(m, "value")
		if err != nil {
			return nil, err
		}
		return SetDemand{Day: NormalizeDay(day), Value: value}, nil

	case KindUpdateDemandDelta:
		day, ok := stringField(m, "day")
		if !ok {
			return nil, fmt.Errorf("%w: %s requires day", ErrMalformed, kind)
		}
		delta, err := countField(m, "delta")
		if err != nil {
			return nil, err
		}
		return AdjustDemandDelta{Day: NormalizeDay(day), Delta: delta}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func stringField(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// countField truncates a numeric field toward zero and rejects magnitudes beyond MaxCount
func countField(m map[string]any, key string) (int, error) {
	d, err := decimalField(m, key)
	if err != nil {
		return 0, err
	}
	d = d.Truncate(0)
	if d.Abs().GreaterThan(decimal.NewFromInt(MaxCount)) {
		return 0, fmt.Errorf("%w: %s %s is out of range", ErrMalformed, key, d)
	}
	return int(d.IntPart()), nil
}

func decimalField(m map[string]any, key string) (decimal.Decimal, error) {
	var raw string
	switch v := m[key].(type) {
	case json.Number:
		raw = v.String()
	case string:
		raw = strings.TrimSpace(v)
	case decimal.Decimal:
		return v, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case nil:
		return decimal.Decimal{}, fmt.Errorf("%w: missing %s", ErrMalformed, key)
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: %s has type %T", ErrMalformed, key, v)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s %q is not a number", ErrMalformed, key, raw)
	}
	return d, nil
}
