package ports

import (
	"context"
	"io"

	"cholwatch/domain/dataset"
)

// TableReader turns an uploaded file into a table.
// The filename selects the format; implementations must not retain src.
type TableReader interface {
	Read(ctx context.Context, src io.Reader, filename string) (*dataset.Table, error)
}
