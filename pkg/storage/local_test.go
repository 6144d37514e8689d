package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/public/")
	require.NoError(t, err)

	url, err := s.Save(context.Background(), "shoe.png", "image/png", strings.NewReader("png-bytes"), 9)
	require.NoError(t, err)
	assert.Equal(t, "/public/shoe.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "shoe.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(dir, "shoe.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.Delete(context.Background(), url))
}

func TestLocalStorageStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/public")
	require.NoError(t, err)

	url, err := s.Save(context.Background(), "../../etc/evil.png", "image/png", strings.NewReader("x"), 1)
	require.NoError(t, err)
	assert.Equal(t, "/public/evil.png", url)
	assert.FileExists(t, filepath.Join(dir, "evil.png"))
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "a.png", objectName("http://minio:9000/bucket/a.png?x=1"))
	assert.Equal(t, "b.jpg", objectName("/public/b.jpg"))
}
