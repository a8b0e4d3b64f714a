package assembler

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/extractor"
	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

func sectionOf(index int, text string) model.Section {
	return model.NewSection(index, []model.Line{{Index: 0, Offset: 0, Text: text}})
}

func seriesOf(f model.Field, values ...string) model.FieldSeries {
	fs := model.FieldSeries{Field: f}
	for i, v := range values {
		fs.Values = append(fs.Values, model.CandidateValue{Value: v, SourceOffset: i, Confidence: f.Confidence()})
	}
	return fs
}

func TestAssemble_InterleavedLine(t *testing.T) {
	line := "1001 1002 1003 SEAL-O-RING SEAL-O-RING RING METAL, RETAINING PRC PRC PRC 45.00 60.00 75.00"
	sec := sectionOf(0, line)

	series := extractor.New(model.DefaultRules(), nil).ExtractAll(sec, 3)
	records, stats := New(nil).Assemble(sec, 3, series)

	require.Len(t, records, 3)
	assert.Equal(t, 3, stats.Emitted)

	wantDesc := []string{"SEAL-O-RING", "SEAL-O-RING", "RING METAL, RETAINING"}
	wantCost := []string{"45.00", "60.00", "75.00"}
	for r, rec := range records {
		assert.Equal(t, fmt.Sprint(1001+r), rec.MasterPartNo)
		assert.Equal(t, wantDesc[r], rec.Description)
		assert.Equal(t, "PRC", rec.Origin)
		assert.Equal(t, wantCost[r], rec.Cost)
		assert.Empty(t, rec.PartNo)
	}
}

func TestAssemble_ModuloFallback(t *testing.T) {
	series := map[model.Field]model.FieldSeries{
		model.FieldMasterPartNo: seriesOf(model.FieldMasterPartNo, "A1001", "A1002", "A1003", "A1004", "A1005"),
		model.FieldPartNo:       seriesOf(model.FieldPartNo, "B2001", "B2002"),
		model.FieldDescription:  seriesOf(model.FieldDescription, "GASKET", "FILTER"),
	}

	records, stats := New(nil).Assemble(sectionOf(0, ""), 5, series)
	require.Len(t, records, 5)

	assert.Equal(t, "GASKET", records[4].Description, "4 mod 2 = 0")
	assert.Equal(t, "FILTER", records[3].Description)
	assert.Equal(t, "GASKET", records[2].Description)
	assert.Equal(t, 3, stats.Fallbacks)

	// Identifiers are never reused.
	assert.Equal(t, "B2002", records[1].PartNo)
	assert.Empty(t, records[2].PartNo)
	assert.Empty(t, records[4].PartNo)
}

func TestAssemble_DropsMissingPrimary(t *testing.T) {
	series := map[model.Field]model.FieldSeries{
		model.FieldMasterPartNo: seriesOf(model.FieldMasterPartNo, "A1001"),
		model.FieldDescription:  seriesOf(model.FieldDescription, "GASKET", "FILTER", "PUMP"),
	}

	records, stats := New(nil).Assemble(sectionOf(0, ""), 3, series)
	require.Len(t, records, 1)
	assert.Equal(t, 2, stats.Dropped)
	assert.Equal(t, "GASKET", records[0].Description)

	records, _ = New(nil).Assemble(sectionOf(0, ""), 0, series)
	assert.Empty(t, records)

	records, _ = New(nil).Assemble(sectionOf(0, ""), 2, map[model.Field]model.FieldSeries{})
	assert.Empty(t, records, "no identifiers yields no records")
}

func TestRelativeIndex(t *testing.T) {
	assert.Equal(t, 0, RelativeIndex(0, 3))
	assert.Equal(t, 2, RelativeIndex(2, 3))
	assert.Equal(t, 0, RelativeIndex(3, 3))
	assert.Equal(t, 2, RelativeIndex(5, 3))
	assert.Equal(t, -1, RelativeIndex(1, 0))

	for n := 1; n <= 10; n++ {
		for idx := 0; idx < 2*n; idx++ {
			r := RelativeIndex(idx, n)
			assert.GreaterOrEqual(t, r, 0)
			assert.Less(t, r, n)
		}
	}
}

func TestLocate(t *testing.T) {
	ids := seriesOf(model.FieldMasterPartNo, "1001", "1002", "1003", "X1", "X2", "X3").Values

	r, ok := Locate(ids, "1002", 3)
	require.True(t, ok)
	assert.Equal(t, 1, r)

	r, ok = Locate(ids, "X3", 3)
	require.True(t, ok)
	assert.Equal(t, 2, r)

	_, ok = Locate(ids, "NOPE", 3)
	assert.False(t, ok)
}

func TestDedup(t *testing.T) {
	records := []model.Record{
		{MasterPartNo: "X123", Description: "GASKET", Section: 0},
		{MasterPartNo: "Y456", Description: "FILTER", Section: 0},
		{MasterPartNo: "X123", Description: "PUMP", Section: 1},
	}

	out, dropped := Dedup(records)
	require.Len(t, out, 2)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, "GASKET", out[0].Description)
	assert.Equal(t, "Y456", out[1].MasterPartNo)
}

func TestAssemble_RequiredFieldInvariant(t *testing.T) {
	faker := gofakeit.New(42)
	a := New(nil)

	for i := 0; i < 50; i++ {
		n := faker.Number(1, 8)
		series := map[model.Field]model.FieldSeries{}
		for _, f := range model.Schema {
			values := make([]string, faker.Number(0, n))
			for j := range values {
				values[j] = faker.LetterN(6)
			}
			series[f] = seriesOf(f, values...)
		}

		records, stats := a.Assemble(sectionOf(i, ""), n, series)
		assert.Equal(t, n, stats.Emitted+stats.Dropped)
		for _, rec := range records {
			assert.NotEmpty(t, rec.MasterPartNo)
			assert.Equal(t, i, rec.Section)
		}
	}
}
