package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestArchiveHTTPZip(t *testing.T) {
	payload := buildZip(t, map[string]string{
		"nlcd/landcover.tif": "raster-bytes",
		"nlcd/landcover.xml": "<metadata/>",
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	destDir := t.TempDir()
	dir, err := Archive(context.Background(), srv.URL+"/landcover.zip", Options{DestDir: destDir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "landcover"), dir)

	// entries are flattened to base names
	data, err := os.ReadFile(filepath.Join(dir, "landcover.tif"))
	require.NoError(t, err)
	assert.Equal(t, "raster-bytes", string(data))

	_, err = os.Stat(filepath.Join(dir, "landcover.xml"))
	assert.NoError(t, err)
}

func TestArchiveHTTPPlainFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain payload"))
	}))
	defer srv.Close()

	destDir := t.TempDir()
	dir, err := Archive(context.Background(), srv.URL+"/points.csv", Options{DestDir: destDir})
	require.NoError(t, err)
	assert.Equal(t, destDir, dir)

	data, err := os.ReadFile(filepath.Join(destDir, "points.csv"))
	require.NoError(t, err)
	assert.Equal(t, "plain payload", string(data))
}

func TestArchiveSkipsExistingDownload(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	destDir := t.TempDir()
	existing := filepath.Join(destDir, "points.csv")
	require.NoError(t, os.WriteFile(existing, []byte("cached"), 0o644))

	_, err := Archive(context.Background(), srv.URL+"/points.csv", Options{DestDir: destDir})
	require.NoError(t, err)
	assert.Zero(t, hits)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "cached", string(data))
}

func TestArchiveBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Archive(context.Background(), srv.URL+"/missing.zip", Options{DestDir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestArchiveUnsupportedScheme(t *testing.T) {
	_, err := Archive(context.Background(), "gopher://example.com/file.zip", Options{DestDir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}

func TestArchiveNoFileName(t *testing.T) {
	_, err := Archive(context.Background(), "https://example.com/", Options{DestDir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no file name")
}
