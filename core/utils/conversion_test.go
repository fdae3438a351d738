package utils

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   int64
		wantOK bool
	}{
		{"Int", 42, 42, true},
		{"Int32", int32(7), 7, true},
		{"IntegralFloat", float64(12), 12, true},
		{"FractionalFloat", 1.5, 0, false},
		{"JSONNumber", json.Number("1001"), 1001, true},
		{"JSONNumberFloatForm", json.Number("3.0"), 3, true},
		{"String", " 15 ", 15, true},
		{"Bytes", []byte("9"), 9, true},
		{"Garbage", "abc", 0, false},
		{"Nil", nil, 0, false},
		{"Uint64Max", uint64(math.MaxUint64), 0, false},
		{"Uint64AtMaxInt64", uint64(math.MaxInt64), math.MaxInt64, true},
		{"FloatAboveRange", float64(1e19), 0, false},
		{"FloatBelowRange", float64(-1e19), 0, false},
		{"FloatTwoTo63", float64(9223372036854775808.0), 0, false},
		{"FloatMinInt64", float64(-9223372036854775808.0), math.MinInt64, true},
		{"NumericStringAboveRange", "1e19", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToInt64(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "abc", ToString("abc"))
	assert.Equal(t, "12", ToString(json.Number("12")))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "raw", ToString([]byte("raw")))
}
