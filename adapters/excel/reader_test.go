package excel

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cholwatch/domain/core"
	"cholwatch/internal"
	"cholwatch/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestReader() *DataReader {
	return NewDataReader(DefaultExcelConfig(), internal.Discard())
}

func TestRead_CSV(t *testing.T) {
	src := strings.NewReader("id,age,chol\n1,54,180\n2,61,\n3,47,250.5\n")

	table, err := newTestReader().Read(context.Background(), src, "patients.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "age", "chol"}, table.Headers)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"180", "", "250.5"}, table.Column("chol"))
}

func TestRead_CSVDelimiterSniffing(t *testing.T) {
	tests := map[string]string{
		"semicolon": "id;chol\n1;210\n",
		"tab":       "id\tchol\n1\t210\n",
		"pipe":      "id|chol\n1|210\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			table, err := newTestReader().Read(context.Background(), strings.NewReader(body), "x.csv")
			require.NoError(t, err)
			assert.True(t, table.HasColumn("chol"))
			assert.Equal(t, []string{"210"}, table.Column("chol"))
		})
	}
}

func TestRead_CSVStripsBOMAndBlankRows(t *testing.T) {
	src := strings.NewReader("\ufeffchol , id\n 180 ,1\n\n,,\n200,2\n")

	table, err := newTestReader().Read(context.Background(), src, "bom.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"chol", "id"}, table.Headers)
	assert.Equal(t, []string{"180", "200"}, table.Column("chol"))
}

func TestRead_DuplicateHeadersKeepEveryColumn(t *testing.T) {
	src := strings.NewReader("chol,chol,age\n180,250,54\n")

	table, err := newTestReader().Read(context.Background(), src, "dup.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"chol", "chol.1", "age"}, table.Headers)
	assert.Equal(t, []string{"180"}, table.Column("chol"))
	assert.Equal(t, []string{"250"}, table.Column("chol.1"))
}

func TestDedupeHeaders(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"unique", []string{"id", "chol"}, []string{"id", "chol"}},
		{"repeated", []string{"chol", "chol", "chol"}, []string{"chol", "chol.1", "chol.2"}},
		{"suffix already present", []string{"a", "a.1", "a"}, []string{"a", "a.1", "a.2"}},
		{"generated name collides", []string{"a", "a", "a.1"}, []string{"a", "a.1", "a.1.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := append([]string(nil), tt.in...)
			dedupeHeaders(headers)
			assert.Equal(t, tt.want, headers)
		})
	}
}

func TestRead_HeaderOnlyIsEmptyTable(t *testing.T) {
	table, err := newTestReader().Read(context.Background(), strings.NewReader("id,chol\n"), "empty.csv")
	require.NoError(t, err)

	assert.True(t, table.HasColumn("chol"))
	assert.Zero(t, table.Len())
}

func TestRead_EmptyFile(t *testing.T) {
	_, err := newTestReader().Read(context.Background(), strings.NewReader(""), "nothing.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptyFile)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestRead_UnsupportedExtension(t *testing.T) {
	_, err := newTestReader().Read(context.Background(), strings.NewReader("a,b"), "notes.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnsupportedExt)
	assert.Equal(t, errors.CodeUnsupportedFormat, errors.GetCode(err))
}

func TestRead_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestReader().Read(ctx, strings.NewReader("chol\n1\n"), "a.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRead_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"id", "chol"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{1, 180}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{2, 239.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{3, 260}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := newTestReader().Read(context.Background(), &buf, "labs.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "chol"}, table.Headers)
	assert.Equal(t, []string{"180", "239.5", "260"}, table.Column("chol"))
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.csv")
	require.NoError(t, os.WriteFile(path, []byte("chol\n199\n241\n"), 0o600))

	table, err := newTestReader().ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"199", "241"}, table.Column("chol"))

	_, err = newTestReader().ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestFileType(t *testing.T) {
	ft, err := FileType("DATA.CSV")
	require.NoError(t, err)
	assert.Equal(t, fileTypeCSV, ft)

	ft, err = FileType("book.xlsx")
	require.NoError(t, err)
	assert.Equal(t, fileTypeXLSX, ft)

	_, err = FileType("legacy.xls")
	assert.Error(t, err)
}
