package excel

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cholwatch/domain/core"
	"cholwatch/domain/dataset"
	"cholwatch/internal"
	"cholwatch/internal/errors"

	"github.com/xuri/excelize/v2"
)

const (
	fileTypeCSV  = "csv"
	fileTypeXLSX = "xlsx"
)

// DataReader handles reading Excel and CSV files into tables
type DataReader struct {
	config ExcelConfig
	logger *internal.Logger
}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader(config ExcelConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if len(config.Delimiters) == 0 {
		config.Delimiters = DefaultExcelConfig().Delimiters
	}
	return &DataReader{config: config, logger: logger}
}

// SupportedExtensions lists the file extensions the reader accepts
func SupportedExtensions() []string {
	return []string{".csv", ".xlsx"}
}

// FileType maps a filename to the reader format, or an error for anything else
func FileType(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return fileTypeCSV, nil
	case ".xlsx":
		return fileTypeXLSX, nil
	}
	return "", errors.WithCode(errors.CodeUnsupportedFormat,
		fmt.Errorf("%w: %s", core.ErrUnsupportedExt, filepath.Base(filename)))
}

// ReadFile reads a table from disk
func (r *DataReader) ReadFile(ctx context.Context, path string) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()
	return r.Read(ctx, f, filepath.Base(path))
}

// Read parses src as the format implied by filename
func (r *DataReader) Read(ctx context.Context, src io.Reader, filename string) (*dataset.Table, error) {
	fileType, err := FileType(filename)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var rows [][]string
	switch fileType {
	case fileTypeCSV:
		rows, err = r.readCSVRows(src)
	case fileTypeXLSX:
		rows, err = r.readExcelRows(src)
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("[DataReader] %s read in %.2fms (%d raw rows)",
		strings.ToUpper(fileType), float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows, fileType)
}

// readExcelRows reads the configured sheet, or the first one
func (r *DataReader) readExcelRows(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheet := r.config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.WithCode(errors.CodeInvalidInput, core.ErrEmptyFile)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read sheet %s: %w", sheet, err))
	}
	return rows, nil
}

// readCSVRows reads delimited text, sniffing the delimiter from the header line
func (r *DataReader) readCSVRows(src io.Reader) ([][]string, error) {
	buffered := bufio.NewReader(src)
	firstLine, err := buffered.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read CSV file: %w", err))
	}
	if idx := bytes.IndexByte(firstLine, '\n'); idx >= 0 {
		firstLine = firstLine[:idx]
	}

	reader := csv.NewReader(buffered)
	reader.Comma = r.detectDelimiter(string(firstLine))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read CSV file: %w", err))
	}
	return rows, nil
}

// detectDelimiter picks the candidate that splits the header into the most fields
func (r *DataReader) detectDelimiter(header string) rune {
	best := r.config.Delimiters[0]
	bestCount := 0
	for _, d := range r.config.Delimiters {
		if n := strings.Count(header, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// processRows converts raw string rows into a table keyed by header
func (r *DataReader) processRows(rows [][]string, fileType string) (*dataset.Table, error) {
	if len(rows) == 0 {
		return nil, errors.WithCode(errors.CodeInvalidInput, core.ErrEmptyFile)
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		header = strings.TrimPrefix(header, "\ufeff")
		headers[i] = strings.TrimSpace(header)
	}
	dedupeHeaders(headers)

	dataRows := make([]dataset.Row, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rowData := make(dataset.Row, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.logger.Info("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(fileType), len(headers), len(dataRows))

	return &dataset.Table{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

// dedupeHeaders renames repeated headers in place to name.1, name.2 and so on,
// so a later column never overwrites an earlier one in a row
func dedupeHeaders(headers []string) {
	taken := make(map[string]bool, len(headers))
	next := make(map[string]int)
	for i, h := range headers {
		name := h
		for taken[name] {
			next[h]++
			name = fmt.Sprintf("%s.%d", h, next[h])
		}
		taken[name] = true
		headers[i] = name
	}
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
