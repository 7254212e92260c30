package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPathList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "label.txt")
	content := "frankfurt/frankfurt_000000_000294_gtFine_labelIds.png\r\n\nlindau/lindau_000001_000019_gtFine_labelIds.png\n  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := ReadPathList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"frankfurt/frankfurt_000000_000294_gtFine_labelIds.png",
		"lindau/lindau_000001_000019_gtFine_labelIds.png",
	}, entries)
}

func TestReadPathListMissing(t *testing.T) {
	_, err := ReadPathList(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "a.png", BaseName("city/sub/a.png"))
	assert.Equal(t, "a.png", BaseName("a.png"))
	assert.Equal(t, "a", TrimExt("a.png"))
	assert.Equal(t, "a.b", TrimExt("a.b.png"))
}
