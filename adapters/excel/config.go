package excel

// ExcelConfig holds configuration for reading uploaded tables
type ExcelConfig struct {
	SheetName  string `json:"sheet_name"` // empty means the first sheet
	Delimiters []rune `json:"delimiters"` // CSV delimiters tried in order when sniffing
}

// DefaultExcelConfig returns sensible defaults for table processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		Delimiters: []rune{',', ';', '\t', '|'},
	}
}
