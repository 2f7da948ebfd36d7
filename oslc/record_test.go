// ABOUTME: Tests for OSLC record key normalization and tolerant field access
// ABOUTME: Verifies spi:-prefixed and plain keys resolve identically and bad fields yield zero values
package oslc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordNormalizesPrefixes(t *testing.T) {
	rec := NewRecord(map[string]any{
		"spi:wonum":       "WO-1001",
		"rdf:about":       "http://host/oslc/os/mxapiwodetail/123",
		"SITEID":          "BEDFORD",
		"spi:description": "Pump overhaul",
	})

	assert.Equal(t, "WO-1001", rec.String("wonum"))
	assert.Equal(t, "BEDFORD", rec.String("siteid"))
	assert.Equal(t, "Pump overhaul", rec.String("description"))
	assert.True(t, rec.Has("about"))
}

func TestRecordMissingFieldsYieldZeroValues(t *testing.T) {
	rec := NewRecord(map[string]any{"wonum": "WO-1"})

	assert.Equal(t, "", rec.String("nope"))
	assert.Equal(t, float64(0), rec.Float("nope"))
	assert.Equal(t, int64(0), rec.Int("nope"))
	assert.False(t, rec.Bool("nope"))
	assert.Nil(t, rec.Records("nope"))
	assert.Nil(t, rec.Record("nope"))
}

func TestRecordNumericCoercion(t *testing.T) {
	rec := NewRecord(map[string]any{
		"spi:curbal":      float64(150),
		"spi:reservedqty": "30.5",
		"spi:priority":    float64(2.9),
		"bad":             []any{"x"},
	})

	assert.Equal(t, float64(150), rec.Float("curbal"))
	assert.Equal(t, 30.5, rec.Float("reservedqty"))
	assert.Equal(t, int64(2), rec.Int("priority"))
	assert.Equal(t, float64(0), rec.Float("bad"))
}

func TestRecordBoolCoercion(t *testing.T) {
	rec := NewRecord(map[string]any{
		"a": true,
		"b": float64(1),
		"c": float64(0),
		"d": "1",
		"e": "true",
		"f": "N",
	})

	assert.True(t, rec.Bool("a"))
	assert.True(t, rec.Bool("b"))
	assert.False(t, rec.Bool("c"))
	assert.True(t, rec.Bool("d"))
	assert.True(t, rec.Bool("e"))
	assert.False(t, rec.Bool("f"))
}

func TestRecordNestedCollections(t *testing.T) {
	rec := NewRecord(map[string]any{
		"spi:invbalances": []any{
			map[string]any{"spi:binnum": "A-1", "spi:curbal": float64(10)},
			map[string]any{"spi:binnum": "A-2", "spi:curbal": float64(5)},
			"garbage entry",
		},
	})

	balances := rec.Records("invbalances")
	assert.Len(t, balances, 2)
	assert.Equal(t, "A-1", balances[0].String("binnum"))
	assert.Equal(t, float64(5), balances[1].Float("curbal"))
}
