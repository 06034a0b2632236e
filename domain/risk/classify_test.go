package risk

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryOf_Bands(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected Category
	}{
		{"well below", 120, Normal},
		{"negative", -50, Normal},
		{"zero", 0, Normal},
		{"just below borderline", 199.999, Normal},
		{"borderline boundary", 200, BorderlineHigh},
		{"mid borderline", 220, BorderlineHigh},
		{"just below high", 239.999, BorderlineHigh},
		{"high boundary", 240, HighRisk},
		{"high", 300, HighRisk},
		{"extreme", 1e9, HighRisk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategoryOf(tt.value))
		})
	}
}

func TestCategoryOf_FloatBoundaries(t *testing.T) {
	below200 := math.Nextafter(200, math.Inf(-1))
	below240 := math.Nextafter(240, math.Inf(-1))
	above240 := math.Nextafter(240, math.Inf(1))

	assert.Equal(t, Normal, CategoryOf(below200))
	assert.Equal(t, BorderlineHigh, CategoryOf(200))
	assert.Equal(t, BorderlineHigh, CategoryOf(below240))
	assert.Equal(t, HighRisk, CategoryOf(240))
	assert.Equal(t, HighRisk, CategoryOf(above240))
}

func TestCategoryOf_Sweep(t *testing.T) {
	// Walk -100..500 in 0.25 steps and check each value against the band definition
	for v := -100.0; v <= 500; v += 0.25 {
		got := CategoryOf(v)
		switch {
		case v < 200:
			require.Equal(t, Normal, got, "value %v", v)
		case v < 240:
			require.Equal(t, BorderlineHigh, got, "value %v", v)
		default:
			require.Equal(t, HighRisk, got, "value %v", v)
		}
	}
}

func TestClassify_SingleReadings(t *testing.T) {
	tests := []struct {
		value    float64
		expected Category
	}{
		{200, BorderlineHigh},
		{199.999, Normal},
		{240, HighRisk},
		{239.999, BorderlineHigh},
	}

	for _, tt := range tests {
		got := Classify([]Reading{Measured(tt.value)})
		assert.Equal(t, []ClassifiedReading{{Value: tt.value, Category: tt.expected}}, got)
	}
}

func TestClassify_DropsMissingAndKeepsOrder(t *testing.T) {
	input := []Reading{Measured(150), Missing(), Measured(250)}

	got := Classify(input)

	require.Len(t, got, 2)
	assert.Equal(t, []ClassifiedReading{
		{Value: 150, Category: Normal},
		{Value: 250, Category: HighRisk},
	}, got)
}

func TestClassify_PreservesOrder(t *testing.T) {
	got := Classify(Readings(260, 100, 230, 199, 240))

	assert.Equal(t, []float64{260, 100, 230, 199, 240}, Values(got))
	assert.Equal(t, HighRisk, got[0].Category)
	assert.Equal(t, Normal, got[1].Category)
	assert.Equal(t, BorderlineHigh, got[2].Category)
	assert.Equal(t, Normal, got[3].Category)
	assert.Equal(t, HighRisk, got[4].Category)
}

func TestClassify_EmptyInputs(t *testing.T) {
	empty := Classify(nil)
	require.NotNil(t, empty)
	assert.Empty(t, empty)

	assert.Empty(t, Classify([]Reading{}))
	assert.Empty(t, Classify([]Reading{Missing(), Missing()}))
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	input := []Reading{Measured(180), Missing(), Measured(245)}
	snapshot := append([]Reading(nil), input...)

	Classify(input)

	assert.Equal(t, snapshot, input)
}

func TestClassify_Deterministic(t *testing.T) {
	input := []Reading{Measured(180), Measured(210), Missing(), Measured(300), Measured(199.5)}

	first := Classify(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(input))
	}
}

func TestClassify_EndToEndScenario(t *testing.T) {
	input := []Reading{Measured(180), Measured(210), Measured(300), Missing()}

	classified := Classify(input)
	require.Equal(t, []ClassifiedReading{
		{Value: 180, Category: Normal},
		{Value: 210, Category: BorderlineHigh},
		{Value: 300, Category: HighRisk},
	}, classified)

	advisories := Advise(classified)
	require.Len(t, advisories, 3)
	assert.Equal(t, StyleSuccess, advisories[0].Style)
	assert.Equal(t, StyleWarning, advisories[1].Style)
	assert.Equal(t, StyleError, advisories[2].Style)
}

func TestCounts(t *testing.T) {
	counts := Counts(Classify(Readings(100, 150, 205, 300)))

	assert.Equal(t, map[Category]int{Normal: 2, BorderlineHigh: 1, HighRisk: 1}, counts)

	empty := Counts(nil)
	assert.Len(t, empty, 3)
	assert.Zero(t, empty[HighRisk])
}

func TestCategory_TextRoundTrip(t *testing.T) {
	payload, err := json.Marshal(ClassifiedReading{Value: 210, Category: BorderlineHigh})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":210,"category":"BorderlineHigh"}`, string(payload))

	var decoded ClassifiedReading
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, BorderlineHigh, decoded.Category)

	_, err = Category(7).MarshalText()
	assert.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		parsed, err := ParseCategory(c.Label())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParseCategory("Very High")
	assert.Error(t, err)
}
