package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONMissingFile(t *testing.T) {
	var v []string
	found, err := ReadJSON(filepath.Join(t.TempDir(), "missing.json"), &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	type record struct {
		Name string `json:"name"`
	}

	require.NoError(t, WriteJSON(path, []record{{Name: "rye"}, {Name: "spelt"}}))

	var got []record
	found, err := ReadJSON(path, &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, 2)
	assert.Equal(t, "rye", got[0].Name)

	// No leftover temp file from the atomic write.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestReadJSONCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var v map[string]string
	_, err := ReadJSON(path, &v)
	require.Error(t, err)
}
