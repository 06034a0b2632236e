// Package guidance renders the per-band explanatory notes shown beside the
// category counts. Notes are authored in markdown and embedded at build time.
package guidance

import (
	"embed"
	"fmt"
	"html/template"
	"sync"

	"cholwatch/domain/risk"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed notes/*.md
var notesFS embed.FS

var noteFiles = map[risk.Category]string{
	risk.Normal:         "notes/normal.md",
	risk.BorderlineHigh: "notes/borderline_high.md",
	risk.HighRisk:       "notes/high_risk.md",
}

var (
	renderOnce sync.Once
	rendered   map[risk.Category]template.HTML
	renderErr  error
)

// Notes returns the rendered note for every band
func Notes() (map[risk.Category]template.HTML, error) {
	renderOnce.Do(func() {
		rendered, renderErr = renderAll()
	})
	return rendered, renderErr
}

// Note returns the rendered note for a single band, or empty HTML if unavailable
func Note(c risk.Category) template.HTML {
	notes, err := Notes()
	if err != nil {
		return ""
	}
	return notes[c]
}

func renderAll() (map[risk.Category]template.HTML, error) {
	out := make(map[risk.Category]template.HTML, len(noteFiles))
	for category, path := range noteFiles {
		source, err := notesFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read guidance note %s: %w", path, err)
		}
		out[category] = Render(source)
	}
	return out, nil
}

// Render converts markdown to HTML. Raw HTML in the source is skipped.
func Render(source []byte) template.HTML {
	// a parser is single-use
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.SkipHTML | mdhtml.HrefTargetBlank,
	})
	return template.HTML(markdown.ToHTML(source, p, renderer))
}
