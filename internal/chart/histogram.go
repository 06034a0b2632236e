// Package chart renders the reading distribution as an inline SVG.
package chart

import (
	"fmt"
	"html"
	"html/template"
	"math"
	"strings"

	"cholwatch/domain/risk"
	"cholwatch/internal/profiling"
)

// Marker is a dashed vertical reference line
type Marker struct {
	Value float64
	Color string
	Label string
}

// RiskMarkers returns the band boundaries drawn on every chart
func RiskMarkers() []Marker {
	return []Marker{
		{Value: risk.BorderlineThreshold, Color: "#e6c200", Label: fmt.Sprintf("Borderline (%g %s)", risk.BorderlineThreshold, risk.Unit)},
		{Value: risk.HighRiskThreshold, Color: "#d62728", Label: fmt.Sprintf("High (%g %s)", risk.HighRiskThreshold, risk.Unit)},
	}
}

// Options controls chart geometry and labels
type Options struct {
	Width  int
	Height int
	XLabel string
	YLabel string
}

// DefaultOptions matches an 8x5 figure at 100dpi
func DefaultOptions() Options {
	return Options{
		Width:  800,
		Height: 500,
		XLabel: "Cholesterol Level (mg/dL)",
		YLabel: "Count",
	}
}

const (
	marginLeft   = 60.0
	marginRight  = 20.0
	marginTop    = 30.0
	marginBottom = 60.0
	barColor     = "#4c72b0"
	maxTicks     = 50
)

type plot struct {
	opts       Options
	xMin, xMax float64
	yMax       float64
}

func (p plot) innerWidth() float64  { return float64(p.opts.Width) - marginLeft - marginRight }
func (p plot) innerHeight() float64 { return float64(p.opts.Height) - marginTop - marginBottom }

func (p plot) x(v float64) float64 {
	// halved so readings near ±MaxFloat64 do not overflow the subtraction
	return marginLeft + (v/2-p.xMin/2)/(p.xMax/2-p.xMin/2)*p.innerWidth()
}

func (p plot) y(v float64) float64 {
	return marginTop + p.innerHeight() - v/p.yMax*p.innerHeight()
}

// RenderHistogram draws bars, the density curve and the markers.
// The x domain always includes every marker.
func RenderHistogram(hist profiling.Histogram, curve []profiling.Point, markers []Marker, opts Options) template.HTML {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}

	p := plot{opts: opts}
	p.xMin, p.xMax = domain(hist, markers)
	p.yMax = math.Max(float64(hist.MaxCount()), 1)
	for _, pt := range curve {
		p.yMax = math.Max(p.yMax, pt.Y)
	}
	p.yMax *= 1.1

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" class="chart" viewBox="0 0 %d %d" role="img" aria-label="Cholesterol level distribution">`,
		opts.Width, opts.Height)

	p.writeAxes(&b)

	b.WriteString(`<g class="bars">`)
	for _, bin := range hist.Bins {
		if bin.Count == 0 {
			continue
		}
		x0, x1 := p.x(bin.Lower), p.x(bin.Upper)
		y := p.y(float64(bin.Count))
		fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="0.6" stroke="#ffffff"><title>%s–%s: %d</title></rect>`,
			x0, y, math.Max(x1-x0, 1), p.y(0)-y, barColor,
			fmtTick(bin.Lower), fmtTick(bin.Upper), bin.Count)
	}
	b.WriteString(`</g>`)

	if len(curve) > 1 {
		pts := make([]string, len(curve))
		for i, pt := range curve {
			pts[i] = fmt.Sprintf("%.2f,%.2f", p.x(pt.X), p.y(pt.Y))
		}
		fmt.Fprintf(&b, `<polyline class="kde" fill="none" stroke="%s" stroke-width="2" points="%s"/>`, barColor, strings.Join(pts, " "))
	}

	for _, m := range markers {
		x := p.x(m.Value)
		fmt.Fprintf(&b, `<line class="marker" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="2" stroke-dasharray="6,4"/>`,
			x, marginTop, x, p.y(0), m.Color)
	}

	p.writeLegend(&b, markers)
	b.WriteString(`</svg>`)

	return template.HTML(b.String())
}

// domain pads the data range and stretches it to include every marker.
// Padding that would leave the float64 range is skipped.
func domain(hist profiling.Histogram, markers []Marker) (float64, float64) {
	lo, hi := hist.Range()
	if len(hist.Bins) == 0 {
		lo, hi = math.Inf(1), math.Inf(-1)
	}
	for _, m := range markers {
		lo = math.Min(lo, m.Value)
		hi = math.Max(hi, m.Value)
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, 1
	}
	pad := hi*0.05 - lo*0.05
	if pad == 0 {
		pad = 1
	}
	if v := lo - pad; !math.IsInf(v, 0) {
		lo = v
	}
	if v := hi + pad; !math.IsInf(v, 0) {
		hi = v
	}
	return lo, hi
}

func (p plot) writeAxes(b *strings.Builder) {
	bottom := p.y(0)
	right := marginLeft + p.innerWidth()

	b.WriteString(`<g class="axes" stroke="#333333" fill="#333333" font-size="12">`)
	fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`, marginLeft, bottom, right, bottom)
	fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`, marginLeft, marginTop, marginLeft, bottom)

	for _, v := range ticks(p.xMin, p.xMax, niceStep(p.xMax/8-p.xMin/8)) {
		x := p.x(v)
		fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`, x, bottom, x, bottom+5)
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" text-anchor="middle" stroke="none">%s</text>`, x, bottom+18, fmtTick(v))
	}

	for _, v := range ticks(0, p.yMax, math.Max(1, niceStep(p.yMax/5))) {
		y := p.y(v)
		fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`, marginLeft-5, y, marginLeft, y)
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" text-anchor="end" stroke="none">%s</text>`, marginLeft-8, y+4, fmtTick(v))
	}

	fmt.Fprintf(b, `<text class="x-label" x="%.2f" y="%.2f" text-anchor="middle" stroke="none">%s</text>`,
		marginLeft+p.innerWidth()/2, float64(p.opts.Height)-15, html.EscapeString(p.opts.XLabel))
	fmt.Fprintf(b, `<text class="y-label" x="%.2f" y="%.2f" text-anchor="middle" stroke="none" transform="rotate(-90 %.2f %.2f)">%s</text>`,
		18.0, marginTop+p.innerHeight()/2, 18.0, marginTop+p.innerHeight()/2, html.EscapeString(p.opts.YLabel))
	b.WriteString(`</g>`)
}

func (p plot) writeLegend(b *strings.Builder, markers []Marker) {
	x := marginLeft + p.innerWidth() - 190
	y := marginTop + 10
	b.WriteString(`<g class="legend" font-size="12">`)
	for i, m := range markers {
		ly := y + float64(i)*18
		fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="2" stroke-dasharray="6,4"/>`,
			x, ly, x+24, ly, m.Color)
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" fill="#333333">%s</text>`, x+30, ly+4, html.EscapeString(m.Label))
	}
	b.WriteString(`</g>`)
}

// niceStep rounds a raw step up to 1, 2 or 5 times a power of ten
func niceStep(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm <= 1:
		return mag
	case norm <= 2:
		return 2 * mag
	case norm <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

// ticks lists the multiples of step within [lo, hi], at most maxTicks of them
func ticks(lo, hi, step float64) []float64 {
	var out []float64
	first := math.Ceil(lo / step)
	for i := 0; i < maxTicks; i++ {
		v := (first + float64(i)) * step
		if math.IsNaN(v) || math.IsInf(v, 0) || v > hi {
			break
		}
		out = append(out, v)
	}
	return out
}

func fmtTick(v float64) string {
	if math.Abs(v) >= 1e6 {
		return fmt.Sprintf("%g", v)
	}
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
