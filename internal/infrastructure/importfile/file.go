package importfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Row is one parsed data row. Number is the 1-based data row index,
// counted from the first row after the header.
type Row struct {
	Number int
	Data   map[string]string
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// GetOrDefault returns the value for a column, or default if not present
func (r *Row) GetOrDefault(header, defaultVal string) string {
	if val, ok := r.Data[header]; ok && val != "" {
		return val
	}
	return defaultVal
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// Document is a fully parsed upload: the header names and all non-empty
// data rows in file order.
type Document struct {
	Headers []string
	Rows    []*Row
}

// MissingHeaders returns the required headers absent from the document
func (d *Document) MissingHeaders(required []string) []string {
	present := make(map[string]struct{}, len(d.Headers))
	for _, h := range d.Headers {
		present[h] = struct{}{}
	}
	var missing []string
	for _, h := range required {
		if _, ok := present[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// ParseFile parses an uploaded file by extension. Only .csv and .xlsx are
// accepted; anything else returns ErrUnsupportedFormat.
func ParseFile(path string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSVFile(path)
	case ".xlsx":
		return parseXLSXFile(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func parseCSVFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	parser, err := NewCSVParser(f)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}

	return &Document{Headers: parser.Headers(), Rows: rows}, nil
}
