// Package risk classifies cholesterol readings into clinical risk bands.
//
// Classification is a pure function of the reading's value in mg/dL. It has
// no configuration, no state and no failure mode.
package risk

import (
	"fmt"
	"strconv"
	"strings"
)

// Band boundaries in mg/dL. Each boundary belongs to the band above it.
const (
	BorderlineThreshold = 200.0
	HighRiskThreshold   = 240.0
)

// Unit is the only unit readings are expressed in
const Unit = "mg/dL"

// Category is the closed set of risk bands a reading can fall into
type Category int

const (
	Normal Category = iota
	BorderlineHigh
	HighRisk
)

// Categories lists every band in ascending order of risk
var Categories = []Category{Normal, BorderlineHigh, HighRisk}

// String returns the identifier used in JSON and logs
func (c Category) String() string {
	switch c {
	case Normal:
		return "Normal"
	case BorderlineHigh:
		return "BorderlineHigh"
	case HighRisk:
		return "HighRisk"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Label returns the human-readable band name shown to users
func (c Category) Label() string {
	switch c {
	case Normal:
		return "Normal"
	case BorderlineHigh:
		return "Borderline High"
	case HighRisk:
		return "High Risk"
	}
	return c.String()
}

// Valid reports whether c is one of the three defined bands
func (c Category) Valid() bool {
	return c >= Normal && c <= HighRisk
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid risk category %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory accepts either the identifier or the display label
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for _, c := range Categories {
		if key == strings.ToLower(c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown risk category %q", s)
}

// Reading is one cholesterol measurement that may be absent
type Reading struct {
	Value   float64
	Present bool
}

// Measured returns a present reading with value v
func Measured(v float64) Reading {
	return Reading{Value: v, Present: true}
}

// Missing returns an absent reading
func Missing() Reading {
	return Reading{}
}

// Readings wraps plain values as present readings
func Readings(values ...float64) []Reading {
	out := make([]Reading, len(values))
	for i, v := range values {
		out[i] = Measured(v)
	}
	return out
}

// ClassifiedReading pairs a present reading's value with its band
type ClassifiedReading struct {
	Value    float64  `json:"value"`
	Category Category `json:"category"`
}

func (cr ClassifiedReading) String() string {
	return fmt.Sprintf("%s %s: %s", FormatValue(cr.Value), Unit, cr.Category.Label())
}

// FormatValue renders a reading with the fewest digits that round-trip
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
