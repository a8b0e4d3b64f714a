package segmenter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

func TestSegmenter_Normalize(t *testing.T) {
	seg := New(model.DefaultRules(), nil)

	doc := strings.Join([]string{
		"   Part No. Part No. Part No.   ",
		"",
		"Page 3 of 12",
		"17",
		"short",
		"1001 1002 1003 SEAL-O-RING",
	}, "\n")

	lines := seg.Normalize(doc)
	require.Len(t, lines, 2)

	assert.Equal(t, "Part No. Part No. Part No.", lines[0].Text)
	assert.Equal(t, 0, lines[0].Index)
	assert.Equal(t, 3, lines[0].Offset)
	assert.Equal(t, doc[lines[1].Offset:lines[1].Offset+len(lines[1].Text)], lines[1].Text)
	assert.Equal(t, 5, lines[1].Index)
}

func TestSegmenter_Segment(t *testing.T) {
	seg := New(model.DefaultRules(), nil)

	t.Run("empty document yields no sections", func(t *testing.T) {
		assert.Empty(t, seg.Segment(""))
		assert.Empty(t, seg.Segment("\n\n\n"))
	})

	t.Run("run of noise lines splits sections", func(t *testing.T) {
		doc := strings.Join([]string{
			"Part No. Part No.",
			"1001 1002 SEAL-O-RING RING PRC PRC",
			"",
			"Page 1 of 2",
			"Part No. Part No.",
			"2001 2002 GASKET FILTER USA USA",
		}, "\n")

		sections := seg.Segment(doc)
		require.Len(t, sections, 2)
		assert.Len(t, sections[0].Lines, 2)
		assert.Equal(t, 0, sections[0].Index)
		assert.Equal(t, 1, sections[1].Index)
		assert.Contains(t, sections[1].Text(), "2001")
	})

	t.Run("single noise line does not split", func(t *testing.T) {
		doc := "Part No. Part No.\n\n1001 1002 SEAL-O-RING RING"
		sections := seg.Segment(doc)
		require.Len(t, sections, 1)
		assert.Len(t, sections[0].Lines, 2)
	})

	t.Run("new header after data starts a section", func(t *testing.T) {
		doc := strings.Join([]string{
			"Part No. Part No.",
			"1001 1002 SEAL-O-RING RING",
			"Part No. Part No.",
			"2001 2002 GASKET FILTER",
		}, "\n")

		sections := seg.Segment(doc)
		require.Len(t, sections, 2)
		assert.Equal(t, "Part No. Part No.\n2001 2002 GASKET FILTER", sections[1].Text())
	})

	t.Run("prose lines are not table data", func(t *testing.T) {
		doc := strings.Join([]string{
			"Welcome to the annual price list",
			"All prices are subject to change",
			"Part No. Part No.",
			"1001 1002 SEAL-O-RING RING",
		}, "\n")

		sections := seg.Segment(doc)
		require.Len(t, sections, 1)
		assert.Equal(t, 2, sections[0].Lines[0].Index)
	})
}

func TestSegmenter_ShortHeaderLine(t *testing.T) {
	seg := New(model.DefaultRules(), nil)
	doc := "Part No.\nA10001 SEAL-O-RING PRC 45.00\n"

	lines := seg.Normalize(doc)
	require.Len(t, lines, 2)
	assert.Equal(t, "Part No.", lines[0].Text)

	sections := seg.Segment(doc)
	require.Len(t, sections, 1)
	assert.Equal(t, "Part No.\nA10001 SEAL-O-RING PRC 45.00", sections[0].Text())

	// Short lines without a header are still noise.
	assert.Empty(t, seg.Normalize("Note\n12 34"))
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "a\nb\nc", Canonical("a\r\nb\rc"))
	// Fullwidth digits fold to ASCII.
	assert.Equal(t, "1001 1002", Canonical("１００１ 1002"))
}
