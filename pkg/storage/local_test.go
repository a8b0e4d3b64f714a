package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()

	store, err := New(&Config{LocalPath: base})
	require.NoError(t, err)

	runID := uuid.New()

	t.Run("save and open", func(t *testing.T) {
		info, err := store.Save(ctx, runID, "records.json", "application/json", strings.NewReader(`{"items":[]}`))
		require.NoError(t, err)
		assert.Equal(t, int64(12), info.Size)
		assert.Equal(t, filepath.Join(runID.String(), "records.json"), info.Path)

		rc, got, err := store.Open(ctx, runID, "records.json")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, `{"items":[]}`, string(data))
		assert.Equal(t, info.ID, got.ID)
	})

	t.Run("list in creation order", func(t *testing.T) {
		_, err := store.Save(ctx, runID, "report.txt", "text/plain", strings.NewReader("ok"))
		require.NoError(t, err)

		files, err := store.List(ctx, runID)
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, "records.json", files[0].Name)
		assert.Equal(t, "report.txt", files[1].Name)

		empty, err := store.List(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("names cannot escape the run", func(t *testing.T) {
		info, err := store.Save(ctx, runID, "../../etc/passwd", "text/plain", strings.NewReader("x"))
		require.NoError(t, err)
		assert.Equal(t, "passwd", info.Name)
		_, err = os.Stat(filepath.Join(base, runID.String(), "passwd"))
		assert.NoError(t, err)
	})

	t.Run("missing artifact", func(t *testing.T) {
		_, _, err := store.Open(ctx, runID, "nope.csv")
		assert.ErrorContains(t, err, "artifact not found")
	})

	t.Run("delete run", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, runID))
		_, err := os.Stat(filepath.Join(base, runID.String()))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b.csv", sanitizeFilename("a:b.csv"))
	assert.Equal(t, "artifact", sanitizeFilename(".."))
	assert.Equal(t, "x.json", sanitizeFilename("dir/x.json"))
	assert.Len(t, sanitizeFilename(strings.Repeat("a", 300)+".csv"), 200)
}
