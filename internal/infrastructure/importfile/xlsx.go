package importfile

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// parseXLSXFile reads the first sheet of an Excel workbook. The first row is
// the header, every following row is data. Cells beyond the header width are
// ignored, short rows are padded with empty values.
func parseXLSXFile(path string) (*Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, ErrMissingHeader
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = trimSpaces(h)
	}
	if len(headers) == 0 {
		return nil, ErrMissingHeader
	}

	var rows []*Row
	for i, record := range records[1:] {
		row := &Row{
			Number: i + 1,
			Data:   make(map[string]string, len(headers)),
		}
		for j, header := range headers {
			if j < len(record) {
				row.Data[header] = trimSpaces(record[j])
			} else {
				row.Data[header] = ""
			}
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}

	return &Document{Headers: headers, Rows: rows}, nil
}
