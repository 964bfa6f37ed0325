package connector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammwy/mcbootstrap-go/pkg/checksum"
)

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/lib.jar", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write([]byte("jar-bytes"))
	})
	mux.HandleFunc("/missing.jar", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPConnector_DownloadTo(t *testing.T) {
	srv := newTestServer(t)
	c := NewHTTPConnector(srv.URL, nil)

	target := filepath.Join(t.TempDir(), "nested", "lib.jar")
	require.NoError(t, c.DownloadTo(context.Background(), "/lib.jar", target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "jar-bytes", string(data))

	if _, err := os.Stat(target + ".part"); !os.IsNotExist(err) {
		t.Fatal("temp file must not survive a successful download")
	}
}

func TestHTTPConnector_DownloadTo_NotFound(t *testing.T) {
	srv := newTestServer(t)
	c := NewHTTPConnector(srv.URL, nil)

	err := c.DownloadTo(context.Background(), "/missing.jar", filepath.Join(t.TempDir(), "x.jar"))
	assert.Error(t, err)
}

func TestHTTPConnector_HasFile(t *testing.T) {
	srv := newTestServer(t)
	c := NewHTTPConnector(srv.URL, nil)

	assert.True(t, c.HasFile(context.Background(), "/lib.jar"))
	assert.False(t, c.HasFile(context.Background(), "/missing.jar"))
}

func TestHTTPConnector_HasFileWithChecksum(t *testing.T) {
	srv := newTestServer(t)
	c := NewHTTPConnector(srv.URL, nil)

	want := checksum.BytesSHA1([]byte("jar-bytes"))
	assert.True(t, c.HasFileWithChecksum(context.Background(), "/lib.jar", ChecksumSHA1, want))
	assert.False(t, c.HasFileWithChecksum(context.Background(), "/lib.jar", ChecksumSHA1, "wrong"))
}

func TestFromURI_DispatchesByScheme(t *testing.T) {
	srv := newTestServer(t)
	c, err := FromURI(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "http", c.Scheme())
}

func TestFromURI_UnknownScheme(t *testing.T) {
	_, err := FromURI("ftp://example.com/x")
	assert.Error(t, err)
}
