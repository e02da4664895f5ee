package imagefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/mould-triage/internal/domain/triage"
)

func TestCheckExtension(t *testing.T) {
	for _, name := range []string{"a.jpg", "a.JPG", "b.jpeg", "c.png", "dir/with.dots/d.PnG"} {
		require.NoError(t, CheckExtension(name), name)
	}
	for _, name := range []string{"a.gif", "noext", "a.png.exe", ".bashrc", "a.webp"} {
		require.ErrorIs(t, CheckExtension(name), triage.ErrUnsupportedFormat, name)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wall.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xd8, 0xff}, 0o600))

	data, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0xd8, 0xff}, data)
}

func TestReadFile_NotFound(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.jpg"))
	require.ErrorIs(t, err, triage.ErrImageNotFound)
}

func TestReadFile_ReadErrors(t *testing.T) {
	dir := t.TempDir()

	// a directory exists but cannot be read as an image
	_, err := ReadFile(dir)
	require.ErrorIs(t, err, triage.ErrImageRead)
	require.NotErrorIs(t, err, triage.ErrImageNotFound)

	empty := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = ReadFile(empty)
	require.ErrorIs(t, err, triage.ErrImageRead)
}
