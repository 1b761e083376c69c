package importfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVParser(t *testing.T) {
	t.Run("Valid UTF-8 CSV", func(t *testing.T) {
		csv := "name,address_line1,city\nAcme,12 Main St,Pune"
		parser, err := NewCSVParser(strings.NewReader(csv))

		require.NoError(t, err)
		require.NotNil(t, parser)
	})

	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		csv := "\xEF\xBB\xBFname,city\nAcme,Pune"
		parser, err := NewCSVParser(strings.NewReader(csv))

		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		headers := parser.Headers()
		assert.Equal(t, "name", headers[0])
	})

	t.Run("Empty file returns error", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader(""))

		assert.Nil(t, parser)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("Invalid encoding returns error", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("name\n\xff\xfe\xfd"))

		assert.Nil(t, parser)
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("Custom delimiter", func(t *testing.T) {
		csv := "name;city\nAcme;Pune"
		parser, err := NewCSVParser(strings.NewReader(csv), WithDelimiter(';'))

		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())
		assert.Equal(t, []string{"name", "city"}, parser.Headers())
	})
}

func TestReadAllRows(t *testing.T) {
	t.Run("Rows numbered from first data row", func(t *testing.T) {
		csv := "name,city\nAcme,Pune\nGlobex,Mumbai"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, parser.ParseHeader())

		rows, err := parser.ReadAllRows()
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 1, rows[0].Number)
		assert.Equal(t, "Acme", rows[0].Get("name"))
		assert.Equal(t, 2, rows[1].Number)
		assert.Equal(t, "Mumbai", rows[1].Get("city"))
	})

	t.Run("Short rows padded with empty values", func(t *testing.T) {
		csv := "name,city,state\nAcme,Pune"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, parser.ParseHeader())

		rows, err := parser.ReadAllRows()
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "", rows[0].Get("state"))
	})

	t.Run("Values have surrounding whitespace trimmed", func(t *testing.T) {
		csv := "name,city\n  Acme  ,  Pune  "
		parser, _ := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, parser.ParseHeader())

		rows, err := parser.ReadAllRows()
		require.NoError(t, err)
		assert.Equal(t, "Acme", rows[0].Get("name"))
		assert.Equal(t, "Pune", rows[0].Get("city"))
	})
}

func TestValidateHeaders(t *testing.T) {
	csv := "name,address_line1\nAcme,12 Main St"
	parser, _ := NewCSVParser(strings.NewReader(csv))
	require.NoError(t, parser.ParseHeader())

	missing := parser.ValidateHeaders([]string{"name", "address_line1", "city", "state"})
	assert.Equal(t, []string{"city", "state"}, missing)
}

func TestParseFile(t *testing.T) {
	t.Run("Unsupported extension", func(t *testing.T) {
		_, err := ParseFile("upload.pdf")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("CSV file round trip", func(t *testing.T) {
		path := writeTempFile(t, "stores.csv", "name,address_line1,city,state\nAcme,12 Main St,Pune,MH\n")

		doc, err := ParseFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "address_line1", "city", "state"}, doc.Headers)
		require.Len(t, doc.Rows, 1)
		assert.Equal(t, "MH", doc.Rows[0].Get("state"))
	})

	t.Run("Header only file has no data rows", func(t *testing.T) {
		path := writeTempFile(t, "empty.csv", "name,city\n")

		_, err := ParseFile(path)
		assert.ErrorIs(t, err, ErrNoDataRows)
	})
}
