package risk

// CategoryOf maps a value in mg/dL to its band.
// Total over all reals; no physiological range check is applied.
func CategoryOf(v float64) Category {
	switch {
	case v < BorderlineThreshold:
		return Normal
	case v < HighRiskThreshold:
		return BorderlineHigh
	default:
		return HighRisk
	}
}

// Classify labels every present reading, in input order. Missing readings are
// dropped, so the result may be shorter than the input. The input is not
// modified and an empty result is never nil.
func Classify(readings []Reading) []ClassifiedReading {
	out := make([]ClassifiedReading, 0, len(readings))
	for _, r := range readings {
		if !r.Present {
			continue
		}
		out = append(out, ClassifiedReading{Value: r.Value, Category: CategoryOf(r.Value)})
	}
	return out
}

// Counts tallies classified readings per band. Every band has an entry.
func Counts(classified []ClassifiedReading) map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		counts[c] = 0
	}
	for _, cr := range classified {
		counts[cr.Category]++
	}
	return counts
}

// Values extracts the numeric values of classified readings
func Values(classified []ClassifiedReading) []float64 {
	out := make([]float64, len(classified))
	for i, cr := range classified {
		out[i] = cr.Value
	}
	return out
}
