package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"
)

func TestParseRemote_Filename(t *testing.T) {
	assert := assert_.New(t)
	for _, tc := range []struct {
		url      string
		expected string
	}{
		{"http://example.com/a/b/thing.torrent", "thing.torrent"},
		{"http://example.com/thing.torrent/", "thing.torrent"},
		{"https://example.com/thing.torrent?token=1", "thing.torrent"},
		{"http://example.com/", ""},
		{"http://example.com", ""},
		{"http://example.com/a/..", ""},
		{"http://example.com/.hidden", ""},
	} {
		_, filename, err := ParseRemote(tc.url)
		if tc.expected == "" {
			assert.ErrorIs(err, ErrNoFilename, tc.url)
		} else {
			assert.NoError(err, tc.url)
			assert.Equal(tc.expected, filename)
		}
	}
}

func TestIsRemote(t *testing.T) {
	assert := assert_.New(t)
	assert.True(IsRemote("http://example.com/x.torrent"))
	assert.True(IsRemote("HTTPS://example.com/x.torrent"))
	assert.False(IsRemote("magnet:?xt=urn:btih:00"))
	assert.False(IsRemote("/tmp/x.torrent"))
	assert.False(IsRemote("ftp://example.com/x.torrent"))

	_, _, err := ParseRemote("ftp://example.com/x.torrent")
	assert.ErrorIs(err, ErrNotRemote)
}

func TestFetch(t *testing.T) {
	assert := assert_.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.torrent":
			_, _ = w.Write([]byte("d4:infoe"))
		case "/big.torrent":
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()
	dir := t.TempDir()

	path, err := Fetch(context.Background(), server.Client(), server.URL+"/ok.torrent", dir, 64)
	require_.NoError(t, err)
	assert.Equal(filepath.Join(dir, "ok.torrent"), path)
	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Equal("d4:infoe", string(data))

	_, err = Fetch(context.Background(), server.Client(), server.URL+"/big.torrent", dir, 64)
	assert.Error(err)
	_, err = Fetch(context.Background(), server.Client(), server.URL+"/missing.torrent", dir, 64)
	assert.Error(err)

	// Nothing but the successful download is left behind
	entries, err := os.ReadDir(dir)
	assert.NoError(err)
	assert.Len(entries, 1)
}
