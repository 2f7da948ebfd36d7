// ABOUTME: Tolerant accessor wrapper around raw OSLC JSON records
// ABOUTME: Normalizes spi:/rdf: key prefixes and substitutes zero values for missing or malformed fields
package oslc

import (
	"strconv"
	"strings"
)

// Record is one member of an OSLC response page. Keys are normalized to
// lowercase with namespace prefixes (spi:, rdf:, rdfs:, oslc:) stripped, so
// mapping code reads "wonum" whether the server sent "spi:wonum" or "wonum".
// All accessors substitute zero values for missing or malformed fields; a
// bad field never aborts a record.
type Record map[string]any

// NewRecord normalizes a raw decoded JSON object into a Record.
func NewRecord(raw map[string]any) Record {
	rec := make(Record, len(raw))
	for k, v := range raw {
		rec[normalizeKey(k)] = v
	}
	return rec
}

func normalizeKey(k string) string {
	if i := strings.IndexByte(k, ':'); i >= 0 {
		k = k[i+1:]
	}
	return strings.ToLower(k)
}

// String returns the field as a string, or "" when absent.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Float returns the field as a float64, or 0 when absent or unparsable.
func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Int returns the field as an int64, truncating numeric values.
func (r Record) Int(key string) int64 {
	return int64(r.Float(key))
}

// Bool returns the field as a bool. Maximo serializes flags both as JSON
// booleans and as 0/1 numbers.
func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v == "1" || strings.EqualFold(v, "true")
	default:
		return false
	}
}

// Records returns a nested collection field as normalized child records.
// Absent or malformed collections yield nil.
func (r Record) Records(key string) []Record {
	arr, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, NewRecord(m))
		}
	}
	return out
}

// Record returns a nested single-object field, or nil when absent.
func (r Record) Record(key string) Record {
	if m, ok := r[key].(map[string]any); ok {
		return NewRecord(m)
	}
	return nil
}

// Has reports whether the field is present at all.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}
