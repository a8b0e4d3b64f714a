package importer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

func TestNormalizeOrigin(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"PRC", "china"},
		{"chn", "china"},
		{"JAP", "japan"},
		{" GER ", "germany"},
		{"LOCAL", "local"},
		{"TWN", "twn"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeOrigin(tt.in))
		})
	}
}

func TestBuildPayload(t *testing.T) {
	rec := model.Record{
		MasterPartNo: "1001",
		Origin:       "PRC",
		Description:  "SEAL-O-RING",
		Grade:        "b",
		OrderLevel:   "1,200",
		Weight:       "0.45",
		Cost:         "Rs 1,250.456",
		PriceA:       "99.9",
		PriceB:       "n/a",
	}

	p := BuildPayload(rec, "PKR")

	assert.Equal(t, "1001", p.MasterPartNo)
	assert.Equal(t, "1001", p.PartNo, "part no falls back to the primary id")
	assert.Equal(t, "china", p.Origin)
	assert.Equal(t, "B", p.Grade)
	assert.Equal(t, "pcs", p.UOM)
	assert.Equal(t, "active", p.Status)

	require.NotNil(t, p.ReorderLevel)
	assert.Equal(t, 1200, *p.ReorderLevel)
	require.NotNil(t, p.Weight)
	assert.InDelta(t, 0.45, *p.Weight, 1e-9)
	require.NotNil(t, p.Cost)
	assert.InDelta(t, 1250.46, *p.Cost, 1e-9)
	require.NotNil(t, p.PriceA)
	assert.InDelta(t, 99.9, *p.PriceA, 1e-9)
	assert.Nil(t, p.PriceB)
}

func TestBuildPayload_DropsNegativeAmounts(t *testing.T) {
	p := BuildPayload(model.Record{MasterPartNo: "1001", Cost: "-45.00", PriceA: "0", PriceB: "-0.01"}, "PKR")

	assert.Nil(t, p.Cost)
	require.NotNil(t, p.PriceA)
	assert.Zero(t, *p.PriceA)
	assert.Nil(t, p.PriceB)
}

func TestBuildPayload_OmitsEmptyValues(t *testing.T) {
	body, err := json.Marshal(BuildPayload(model.Record{MasterPartNo: "X123", PartNo: "X124"}, "PKR"))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "X124", got["part_no"])
	assert.NotContains(t, got, "cost")
	assert.NotContains(t, got, "weight")
	assert.NotContains(t, got, "brand_name")
	assert.NotContains(t, got, "reorder_level")
}
