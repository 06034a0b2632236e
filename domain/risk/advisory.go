package risk

import "fmt"

// Style is the presentation severity of an advisory
type Style string

const (
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
	StyleError   Style = "error"
)

// Advisory is the per-reading recommendation shown to the user
type Advisory struct {
	Value    float64  `json:"value"`
	Category Category `json:"category"`
	Style    Style    `json:"style"`
	Message  string   `json:"message"`
}

// StyleFor returns the banner style used for a band
func StyleFor(c Category) Style {
	switch c {
	case BorderlineHigh:
		return StyleWarning
	case HighRisk:
		return StyleError
	default:
		return StyleSuccess
	}
}

// Recommendation returns the advice text for a band, without the reading
func Recommendation(c Category) string {
	switch c {
	case BorderlineHigh:
		return "Consider dietary changes and regular exercise."
	case HighRisk:
		return "Consult a doctor. Medication like statins may be recommended."
	default:
		return "No medication needed. Maintain a healthy diet."
	}
}

// AdviceFor builds the advisory for a single classified reading
func AdviceFor(cr ClassifiedReading) Advisory {
	return Advisory{
		Value:    cr.Value,
		Category: cr.Category,
		Style:    StyleFor(cr.Category),
		Message: fmt.Sprintf("Cholesterol Level: %s %s - %s",
			FormatValue(cr.Value), Unit, Recommendation(cr.Category)),
	}
}

// Advise returns one advisory per classified reading, in the same order
func Advise(classified []ClassifiedReading) []Advisory {
	out := make([]Advisory, len(classified))
	for i, cr := range classified {
		out[i] = AdviceFor(cr)
	}
	return out
}
