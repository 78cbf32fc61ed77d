package importer

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

const csvHeader = "Product Name,Description,Category,Base Price,Variant Name,SKU,Barcode,Variant Price,Stock,Attributes,Active,Image URL"

func readAll(t *testing.T, r RowReader) []*ImportRow {
	t.Helper()
	var rows []*ImportRow
	for {
		row, err := r.Next()
		if err == io.EOF {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestCSVReader_ParsesRows(t *testing.T) {
	data := csvHeader + "\n" +
		"T-Shirt,Cotton tee,Apparel,19.99,Blue / M,TSH-1,,21.99,25,,true,\n" +
		"Mug,,Kitchen,8.50,Default,MUG-1,,8.50,100,,false,\n"

	reader, err := NewReader(strings.NewReader(data), models.ImportFormatCSV, 0)
	require.NoError(t, err)
	defer reader.Close()

	rows := readAll(t, reader)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "T-Shirt", rows[0].ProductName)
	assert.Equal(t, "Apparel", rows[0].CategoryName)
	assert.Equal(t, "TSH-1", rows[0].SKU)
	assert.Equal(t, "21.99", rows[0].VariantPrice)

	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, "Mug", rows[1].ProductName)
	assert.Equal(t, "false", rows[1].Active)
}

func TestCSVReader_ShortRowLeavesTrailingFieldsEmpty(t *testing.T) {
	data := csvHeader + "\n" + "T-Shirt,Cotton tee,Apparel,19.99\n"

	reader, err := NewReader(strings.NewReader(data), models.ImportFormatCSV, 0)
	require.NoError(t, err)
	defer reader.Close()

	rows := readAll(t, reader)
	require.Len(t, rows, 1)
	assert.Equal(t, "T-Shirt", rows[0].ProductName)
	assert.Equal(t, "19.99", rows[0].BasePrice)
	assert.Empty(t, rows[0].SKU)
	assert.Empty(t, rows[0].Active)
}

func TestCSVReader_MissingHeader(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), models.ImportFormatCSV, 0)
	assert.Error(t, err)
}

func TestCSVReader_RowCap(t *testing.T) {
	data := csvHeader + "\n" +
		"A,,Cat,1,,A-1,,1,1,,,\n" +
		"B,,Cat,1,,B-1,,1,1,,,\n" +
		"C,,Cat,1,,C-1,,1,1,,,\n"

	reader, err := NewReader(strings.NewReader(data), models.ImportFormatCSV, 2)
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.Next()
	require.NoError(t, err)
	_, err = reader.Next()
	require.NoError(t, err)

	_, err = reader.Next()
	var tooMany *ErrTooManyRows
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 2, tooMany.Limit)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := NewReader(strings.NewReader("x"), models.ImportFormat("pdf"), 0)
	assert.Error(t, err)
}

func exportFixture() []*ExportRow {
	return []*ExportRow{
		{
			ProductName:  "T-Shirt",
			Description:  "Cotton tee",
			CategoryName: "Apparel",
			BasePrice:    "19.99",
			VariantName:  "Blue / M",
			SKU:          "TSH-1",
			Barcode:      "0012345678905",
			VariantPrice: "21.99",
			Stock:        "25",
			Attributes:   `{"size":"M"}`,
			Active:       "true",
			ImageURL:     "https://cdn.example.com/tsh.jpg",
		},
		{
			ProductName:  "Mug",
			CategoryName: "Kitchen",
			BasePrice:    "8.50",
			VariantName:  "Default",
			SKU:          "MUG-1",
			VariantPrice: "8.50",
			Stock:        "0",
			Active:       "false",
		},
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportFixture()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, csvHeader, lines[0])

	reader, err := NewReader(bytes.NewReader(buf.Bytes()), models.ImportFormatCSV, 0)
	require.NoError(t, err)
	defer reader.Close()

	rows := readAll(t, reader)
	require.Len(t, rows, 2)
	assert.Equal(t, "T-Shirt", rows[0].ProductName)
	assert.Equal(t, "21.99", rows[0].VariantPrice)
	assert.Equal(t, "MUG-1", rows[1].SKU)
	assert.Equal(t, "false", rows[1].Active)
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, exportFixture()))

	reader, err := NewReader(bytes.NewReader(buf.Bytes()), models.ImportFormatXLSX, 0)
	require.NoError(t, err)
	defer reader.Close()

	rows := readAll(t, reader)
	require.Len(t, rows, 2)

	assert.Equal(t, "T-Shirt", rows[0].ProductName)
	assert.Equal(t, "19.99", rows[0].BasePrice)
	assert.Equal(t, "0012345678905", rows[0].Barcode)
	assert.Equal(t, "25", rows[0].Stock)
	assert.Equal(t, `{"size":"M"}`, rows[0].Attributes)
	assert.Equal(t, "true", rows[0].Active)
	assert.Equal(t, "Mug", rows[1].ProductName)
}

func TestWriteTemplate_CSVHasExampleRow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, models.ImportFormatCSV))

	reader, err := NewReader(bytes.NewReader(buf.Bytes()), models.ImportFormatCSV, 0)
	require.NoError(t, err)
	defer reader.Close()

	rows := readAll(t, reader)
	require.Len(t, rows, 1)

	example := Normalize(rows[0])
	assert.True(t, example.Valid())
	assert.Equal(t, "Classic Cotton T-Shirt", example.ProductName)
	assert.Equal(t, "TSH-BLU-M-001", example.SKU)
}

func TestTemplateDefinition(t *testing.T) {
	template := TemplateDefinition()

	assert.Equal(t, "products", template.Entity)
	require.Len(t, template.Columns, 12)

	required := make(map[string]bool)
	for _, col := range template.Columns {
		required[col.Name] = col.Required
		assert.NotEmpty(t, col.Example, "column %s", col.Name)
	}
	assert.True(t, required["Product Name"])
	assert.True(t, required["Category"])
	assert.True(t, required["SKU"])
	assert.False(t, required["Barcode"])
	assert.False(t, required["Active"])
}
