package fsutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	fsys := OSFileSystem{}

	out := filepath.Join(dir, "plots", "nested")
	require.NoError(t, fsys.MkdirAll(out, 0o755))
	assert.True(t, fsys.Exists(out))

	name := filepath.Join(out, "capture.txt")
	w, err := fsys.Create(name)
	require.NoError(t, err)
	_, err = io.WriteString(w, "CSI_DATA: 1 2 3\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := fsys.Open(name)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "CSI_DATA: 1 2 3\n", string(data))

	assert.False(t, fsys.Exists(filepath.Join(dir, "missing.txt")))
}

func TestMemoryFileSystem_CreateVisibleAfterClose(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("/out/a.png")
	require.NoError(t, err)
	_, err = w.Write([]byte("png"))
	require.NoError(t, err)

	assert.False(t, mfs.Exists("/out/a.png"), "not visible before Close")
	require.NoError(t, w.Close())
	assert.True(t, mfs.Exists("/out/a.png"))

	data, err := mfs.ReadFile("/out/a.png")
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, []string{"/out/a.png"}, mfs.Files())
}

func TestMemoryFileSystem_OpenMissing(t *testing.T) {
	mfs := NewMemoryFileSystem()
	_, err := mfs.Open("nope.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMemoryFileSystem_WriteFileCopies(t *testing.T) {
	mfs := NewMemoryFileSystem()
	data := []byte("abc")
	mfs.WriteFile("./x.txt", data)
	data[0] = 'z'

	r, err := mfs.Open("x.txt")
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryFileSystem_MkdirAll(t *testing.T) {
	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.MkdirAll("/a/b/c", 0o755))
	assert.True(t, mfs.Exists("/a/b/c"))
	assert.True(t, mfs.Exists("/a/b"))
	assert.True(t, mfs.Exists("/a"))
	assert.False(t, mfs.Exists("/a/b/c/d"))
}
