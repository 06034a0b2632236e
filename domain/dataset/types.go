package dataset

import (
	"io"
	"strings"
)

// Row is one data row keyed by header name
type Row map[string]string

// Table is an uploaded tabular file: a header row followed by data rows
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Upload is a file handed to the analysis pipeline
type Upload struct {
	Filename string
	Size     int64
	File     io.Reader
}

// HasColumn reports whether a header matches name exactly after trimming
func (t *Table) HasColumn(name string) bool {
	name = strings.TrimSpace(name)
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Column returns the raw cell text of a column, one entry per row.
// Rows shorter than the header yield an empty cell.
func (t *Table) Column(name string) []string {
	name = strings.TrimSpace(name)
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[name]
	}
	return out
}

// Head returns at most n rows from the top of the table
func (t *Table) Head(n int) []Row {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// Len is the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}
