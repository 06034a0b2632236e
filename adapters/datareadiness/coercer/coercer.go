package coercer

import (
	"math"
	"strconv"
	"strings"

	"cholwatch/domain/risk"
)

// Outcome describes how a raw cell was interpreted
type Outcome int

const (
	OutcomeNumeric Outcome = iota
	OutcomeMissing
	OutcomeUnparseable
)

// NumericCoercer turns raw cell text into readings with deterministic rules
type NumericCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines which tokens count as missing and which suffixes are stripped
type CoercionConfig struct {
	MissingTokens []string `json:"missing_tokens"` // compared case-insensitively after trimming
	UnitSuffixes  []string `json:"unit_suffixes"`  // stripped from the end before parsing
}

// DefaultCoercionConfig mirrors the usual spreadsheet and dataframe NA markers
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		MissingTokens: []string{"", "na", "n/a", "nan", "-nan", "null", "none", "#n/a", "<na>", "nil"},
		UnitSuffixes:  []string{"mg/dl", "mg"},
	}
}

// NewNumericCoercer creates a coercer with the given config
func NewNumericCoercer(config CoercionConfig) *NumericCoercer {
	return &NumericCoercer{config: config}
}

// ColumnResult is a coerced column plus counts of what was dropped
type ColumnResult struct {
	Readings    []risk.Reading `json:"-"`
	Numeric     int            `json:"numeric"`
	Missing     int            `json:"missing"`
	Unparseable int            `json:"unparseable"`
}

// CoerceReading converts one raw cell. Non-numeric text becomes a missing reading.
func (c *NumericCoercer) CoerceReading(raw string) (risk.Reading, Outcome) {
	if c.isMissing(raw) {
		return risk.Missing(), OutcomeMissing
	}
	v, ok := c.ParseNumeric(raw)
	if !ok {
		return risk.Missing(), OutcomeUnparseable
	}
	return risk.Measured(v), OutcomeNumeric
}

// CoerceColumn converts a whole column, keeping one reading per input cell
func (c *NumericCoercer) CoerceColumn(raw []string) ColumnResult {
	result := ColumnResult{Readings: make([]risk.Reading, len(raw))}
	for i, cell := range raw {
		reading, outcome := c.CoerceReading(cell)
		result.Readings[i] = reading
		switch outcome {
		case OutcomeNumeric:
			result.Numeric++
		case OutcomeMissing:
			result.Missing++
		case OutcomeUnparseable:
			result.Unparseable++
		}
	}
	return result
}

func (c *NumericCoercer) isMissing(raw string) bool {
	token := strings.ToLower(strings.TrimSpace(raw))
	for _, m := range c.config.MissingTokens {
		if token == m {
			return true
		}
	}
	return false
}

// ParseNumeric parses a number leniently.
// Handles parentheses for negatives, thousands separators, European decimals
// and a trailing unit. NaN and infinities are rejected.
func (c *NumericCoercer) ParseNumeric(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}

	lower := strings.ToLower(cleanVal)
	for _, suffix := range c.config.UnitSuffixes {
		if strings.HasSuffix(lower, suffix) {
			cleanVal = strings.TrimSpace(cleanVal[:len(cleanVal)-len(suffix)])
			break
		}
	}

	// (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	if hasComma && (hasPeriod || hasSpace) {
		// 1.234,56 or 1 234,56 when the comma is followed by at most three digits
		commaIdx := strings.LastIndex(cleanVal, ",")
		afterComma := cleanVal[commaIdx+1:]
		if len(afterComma) <= 3 && isDigits(afterComma) && commaIdx > strings.LastIndex(cleanVal, ".") {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
		}
	} else if hasComma {
		// A lone comma followed by exactly three digits is a thousands separator
		commaIdx := strings.LastIndex(cleanVal, ",")
		if strings.Count(cleanVal, ",") == 1 && len(cleanVal)-commaIdx-1 != 3 {
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		}
	} else {
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
