package pdftext

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_RejectsNonPDF(t *testing.T) {
	data := "Part No. Part No.\n1001 1002 SEAL-O-RING RING"
	_, err := Extract(strings.NewReader(data), int64(len(data)))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoText)
}

func TestExtract_Empty(t *testing.T) {
	_, err := Extract(strings.NewReader(""), 0)
	require.Error(t, err)
}

func TestExtractFile_Missing(t *testing.T) {
	_, err := ExtractFile(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.pdf")
}
