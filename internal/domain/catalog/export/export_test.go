package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

func sampleRecords() []model.Record {
	return []model.Record{
		{MasterPartNo: "1001", Origin: "PRC", Description: "SEAL-O-RING", Cost: "45.00"},
		{MasterPartNo: "1003", PartNo: "A-77", Description: "RING METAL, RETAINING", Application: `12" "SPECIAL"`, Cost: "1,250.00"},
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json":           FormatJSON,
		"CSV":            FormatCSV,
		"out/parts.xlsx": FormatXLSX,
		"parts.JSON":     FormatJSON,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.ErrorIs(t, Write(&bytes.Buffer{}, Format("xml"), Document{}), ErrUnknownFormat)
}

func TestJSONRoundTrip(t *testing.T) {
	doc := NewDocument("catalog.txt", "run-1", sampleRecords())

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, doc))

	out := buf.String()
	assert.Contains(t, out, `"items"`)
	assert.Contains(t, out, `"Master Part No": "1001"`)
	assert.Contains(t, out, `"totalItems": 2`)
	assert.Less(t, strings.Index(out, `"Master Part No"`), strings.Index(out, `"Price B"`))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc.Items, got.Items)
	assert.Equal(t, "catalog.txt", got.Metadata.Source)
	assert.Equal(t, model.Header(), got.Metadata.Columns)

	bare, err := ReadJSON(strings.NewReader(`[{"Master Part No":"X1"}]`))
	require.NoError(t, err)
	require.Len(t, bare.Items, 1)
	assert.Equal(t, "X1", bare.Items[0].MasterPartNo)

	_, err = ReadJSON(strings.NewReader(`{`))
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, model.Header(), rows[0])
	assert.Equal(t, "RING METAL, RETAINING", rows[2][3])
	assert.Equal(t, `12" "SPECIAL"`, rows[2][4])
	assert.Equal(t, "1,250.00", rows[2][12])
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, `"Master Part No","Part No","Origin","Description","Application","Grade","Order Level","Weight","Main Category","Sub Category","Size","Brand","Cost","Price A","Price B"`, lines[0])
	assert.Equal(t, `"1001","","PRC","SEAL-O-RING","","","","","","","","","45.00","",""`, lines[1], "every value is quoted")
	assert.Contains(t, lines[2], `"RING METAL, RETAINING","12"" ""SPECIAL"""`)

	back, err := ReadCSV(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), back)

	t.Run("empty keeps header", func(t *testing.T) {
		var empty bytes.Buffer
		require.NoError(t, WriteCSV(&empty, nil))
		assert.Equal(t, `"`+strings.Join(model.Header(), `","`)+"\"\n", empty.String())

		back, err := ReadCSV(strings.NewReader(empty.String()))
		require.NoError(t, err)
		assert.Empty(t, back)
	})
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, NewDocument("x", "", sampleRecords())))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, model.Header(), rows[0])
	assert.Equal(t, "1001", rows[1][0])
	assert.Equal(t, "RING METAL, RETAINING", rows[2][3])
}

func TestFormatContentType(t *testing.T) {
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")
}
