package profiling

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultBins matches the chart's bar count
const DefaultBins = 20

// Summary holds the descriptive statistics shown next to the chart
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// Bin is one histogram bar covering [Lower, Upper)
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram is an equal-width frequency distribution
type Histogram struct {
	Bins     []Bin   `json:"bins"`
	BinWidth float64 `json:"bin_width"`
	Total    int     `json:"total"`
}

// Point is one sample of a density curve
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MaxCount returns the tallest bar
func (h Histogram) MaxCount() int {
	max := 0
	for _, b := range h.Bins {
		if b.Count > max {
			max = b.Count
		}
	}
	return max
}

// Range returns the lower edge of the first bin and the upper edge of the last
func (h Histogram) Range() (float64, float64) {
	if len(h.Bins) == 0 {
		return 0, 0
	}
	return h.Bins[0].Lower, h.Bins[len(h.Bins)-1].Upper
}

// DistributionAnalyzer handles distribution shape analysis
type DistributionAnalyzer struct {
	bins      int
	kdePoints int
}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer(bins int) *DistributionAnalyzer {
	if bins <= 0 {
		bins = DefaultBins
	}
	return &DistributionAnalyzer{bins: bins, kdePoints: 200}
}

// Summarize calculates basic summary statistics.
// Spreads too wide for float64 are computed on rescaled data; results that
// still exceed the float64 range saturate at ±math.MaxFloat64.
func (da *DistributionAnalyzer) Summarize(data []float64) (Summary, error) {
	summary := Summary{Count: len(data)}
	if len(data) == 0 {
		return summary, fmt.Errorf("cannot summarize empty data")
	}

	var err error
	if summary.Min, err = stats.Min(data); err != nil {
		return summary, err
	}
	if summary.Max, err = stats.Max(data); err != nil {
		return summary, err
	}

	center, err := centerAndSpread(data, 1)
	if err != nil {
		return summary, err
	}
	if !center.finite() {
		scale := math.Max(math.Abs(summary.Min), math.Abs(summary.Max))
		scaled := make([]float64, len(data))
		for i, v := range data {
			scaled[i] = v / scale
		}
		if center, err = centerAndSpread(scaled, scale); err != nil {
			return summary, err
		}
	}

	summary.Mean = saturate(center.mean)
	summary.Median = saturate(center.median)
	summary.StdDev = saturate(center.stdDev)
	return summary, nil
}

type moments struct {
	mean, median, stdDev float64
}

func (m moments) finite() bool {
	for _, v := range []float64{m.mean, m.median, m.stdDev} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// centerAndSpread computes mean, median and sample std-dev of data, multiplied by scale
func centerAndSpread(data []float64, scale float64) (moments, error) {
	var m moments
	var err error
	if m.mean, err = stats.Mean(data); err != nil {
		return m, err
	}
	if m.median, err = stats.Median(data); err != nil {
		return m, err
	}
	if len(data) > 1 {
		if m.stdDev, err = stats.StandardDeviationSample(data); err != nil {
			return m, err
		}
	}
	m.mean *= scale
	m.median *= scale
	m.stdDev *= scale
	return m, nil
}

func saturate(v float64) float64 {
	switch {
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}

// span returns (hi-lo)/n without overflowing when hi-lo exceeds float64
func span(lo, hi float64, n int) float64 {
	if d := hi - lo; !math.IsInf(d, 0) {
		return d / float64(n)
	}
	return hi/float64(n) - lo/float64(n)
}

// Histogram buckets data into equal-width bins spanning [min, max].
// The last bin is closed on the right so the maximum is counted. Data whose
// spread cannot be divided into non-zero bins collapses into a single bin.
func (da *DistributionAnalyzer) Histogram(data []float64) Histogram {
	if len(data) == 0 {
		return Histogram{Bins: []Bin{}}
	}

	min, max := data[0], data[0]
	for _, v := range data[1:] {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}

	width := span(min, max, da.bins)
	if min == max || width <= 0 || math.IsInf(width, 0) || math.IsNaN(width) {
		return singleBin(min, max, len(data))
	}

	bins := make([]Bin, da.bins)
	for i := range bins {
		bins[i].Lower = min + float64(i)*width
		bins[i].Upper = min + float64(i+1)*width
	}
	bins[0].Lower = min
	bins[len(bins)-1].Upper = max

	for _, v := range data {
		pos := (v - min) / width
		if math.IsInf(pos, 0) {
			pos = v/width - min/width
		}
		idx := 0
		if !math.IsNaN(pos) && pos > 0 {
			idx = int(math.Min(pos, float64(da.bins-1)))
		}
		bins[idx].Count++
	}

	return Histogram{Bins: bins, BinWidth: width, Total: len(data)}
}

func singleBin(min, max float64, n int) Histogram {
	lower, upper := min-0.5, max+0.5
	if math.IsInf(lower, 0) {
		lower = min
	}
	if math.IsInf(upper, 0) {
		upper = max
	}
	width := upper - lower
	if width <= 0 || math.IsInf(width, 0) {
		width = 1
	}
	return Histogram{
		Bins:     []Bin{{Lower: lower, Upper: upper, Count: n}},
		BinWidth: width,
		Total:    n,
	}
}

// KDE estimates a Gaussian kernel density over the histogram's range using
// Scott's bandwidth, scaled by count and bin width so it overlays the bars.
// Returns nil when the data has no spread or the curve is not representable.
func (da *DistributionAnalyzer) KDE(data []float64, hist Histogram) []Point {
	n := float64(len(data))
	if len(data) < 2 {
		return nil
	}
	sd := stat.StdDev(data, nil)
	if sd == 0 || math.IsNaN(sd) || math.IsInf(sd, 0) {
		return nil
	}
	bandwidth := sd * math.Pow(n, -1.0/5.0)
	if bandwidth <= 0 {
		return nil
	}
	kernel := distuv.Normal{Mu: 0, Sigma: bandwidth}

	lo, hi := hist.Range()
	step := span(lo, hi, da.kdePoints-1)
	scale := n * hist.BinWidth

	points := make([]Point, da.kdePoints)
	for i := range points {
		x := lo + float64(i)*step
		density := 0.0
		for _, v := range data {
			density += kernel.Prob(x - v)
		}
		y := density / n * scale
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return nil
		}
		points[i] = Point{X: x, Y: y}
	}
	return points
}
