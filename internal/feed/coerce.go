package feed

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Festival feeds are hand-maintained and loose with types: ABV arrives as
// string, int, or float; bar labels as string, number, or bool; allergen
// flags as bool, 0/1, or 1.0. Each coercion below is total, with a
// documented fallback, so one sloppy field never fails a whole fetch.

// coerceABV converts a raw JSON value to a non-negative finite float.
// Unparsable, negative, or absent values coerce to 0.0.
func coerceABV(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return sanitizeABV(f)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return sanitizeABV(f)
		}
	}

	return 0
}

func sanitizeABV(f float64) float64 {
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// coerceLabel converts a raw JSON value to a display string. Numbers are
// formatted, booleans and anything else coerce to empty.
func coerceLabel(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	return ""
}

// coerceAllergens converts a raw JSON object to a flag map. Values accept
// bool or numeric truthiness; entries that coerce to neither are dropped.
// A missing or malformed object yields nil.
func coerceAllergens(raw json.RawMessage) map[string]bool {
	if len(raw) == 0 {
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}

	out := make(map[string]bool, len(obj))
	for key, val := range obj {
		var b bool
		if err := json.Unmarshal(val, &b); err == nil {
			out[key] = b
			continue
		}
		var f float64
		if err := json.Unmarshal(val, &f); err == nil {
			out[key] = f != 0
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
