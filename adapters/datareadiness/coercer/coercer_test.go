package coercer

import (
	"testing"

	"cholwatch/domain/risk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumeric(t *testing.T) {
	c := NewNumericCoercer(DefaultCoercionConfig())

	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"180", 180, true},
		{" 210.5 ", 210.5, true},
		{"199.999", 199.999, true},
		{"-12", -12, true},
		{"(150)", -150, true},
		{"1e3", 1000, true},
		{"1,234.5", 1234.5, true},
		{"1.234,56", 1234.56, true},
		{"1,234", 1234, true},
		{"1,5", 1.5, true},
		{"240 mg/dL", 240, true},
		{"185mg", 185, true},
		{"high", 0, false},
		{"Inf", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := c.ParseNumeric(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, got, 1e-9)
			}
		})
	}
}

func TestCoerceReading_MissingTokens(t *testing.T) {
	c := NewNumericCoercer(DefaultCoercionConfig())

	for _, token := range []string{"", "  ", "NA", "n/a", "NaN", "nan", "NULL", "None", "#N/A", "<NA>"} {
		reading, outcome := c.CoerceReading(token)
		assert.Equal(t, OutcomeMissing, outcome, "token %q", token)
		assert.False(t, reading.Present, "token %q", token)
	}
}

func TestCoerceReading_Unparseable(t *testing.T) {
	c := NewNumericCoercer(DefaultCoercionConfig())

	reading, outcome := c.CoerceReading("pending")
	assert.Equal(t, OutcomeUnparseable, outcome)
	assert.Equal(t, risk.Missing(), reading)
}

func TestCoerceColumn(t *testing.T) {
	c := NewNumericCoercer(DefaultCoercionConfig())

	result := c.CoerceColumn([]string{"180", "", "210", "n/a", "oops", "300"})

	require.Len(t, result.Readings, 6)
	assert.Equal(t, 3, result.Numeric)
	assert.Equal(t, 2, result.Missing)
	assert.Equal(t, 1, result.Unparseable)
	assert.Equal(t, risk.Measured(180), result.Readings[0])
	assert.False(t, result.Readings[1].Present)
	assert.Equal(t, risk.Measured(300), result.Readings[5])
}
