package keydist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustplane/trustplane/internal/domain/trust"
)

const bundleJSON = `{
  "issued_at": "2026-08-01T00:00:00Z",
  "keys": [
    {"id": "release-2026", "algorithm": "ed25519", "public_key": "cHVibGljLWtleQ=="}
  ]
}`

func TestHTTPLoader_LoadBundle(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(bundleJSON))
	}))
	defer server.Close()

	loader := NewHTTPLoader(DefaultHTTPLoaderConfig(server.URL))
	bundle, err := loader.LoadBundle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), bundle.IssuedAt)
	require.Len(t, bundle.Keys, 1)
	assert.Equal(t, "release-2026", bundle.Keys[0].ID)
	assert.Equal(t, trust.AlgorithmEd25519, bundle.Keys[0].Algorithm)
}

func TestHTTPLoader_AuthToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(bundleJSON))
	}))
	defer server.Close()

	config := DefaultHTTPLoaderConfig(server.URL)
	loader := NewHTTPLoader(config)
	_, err := loader.LoadBundle(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	config.AuthToken = "secret"
	loader = NewHTTPLoader(config)
	_, err = loader.LoadBundle(context.Background())
	assert.NoError(t, err)
}

func TestHTTPLoader_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	loader := NewHTTPLoader(DefaultHTTPLoaderConfig(server.URL))
	_, err := loader.LoadBundle(context.Background())
	assert.ErrorIs(t, err, ErrServerError)
}

func TestHTTPLoader_NotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	loader := NewHTTPLoader(DefaultHTTPLoaderConfig(server.URL))
	_, err := loader.LoadBundle(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestHTTPLoader_MalformedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer server.Close()

	loader := NewHTTPLoader(DefaultHTTPLoaderConfig(server.URL))
	_, err := loader.LoadBundle(context.Background())
	assert.ErrorIs(t, err, ErrParseFailed)
}

func TestHTTPLoader_CancelledContext(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(bundleJSON))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := NewHTTPLoader(DefaultHTTPLoaderConfig(server.URL))
	_, err := loader.LoadBundle(ctx)
	assert.Error(t, err)
}

func TestFileLoader_LoadBundle(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte(bundleJSON), 0o600))

	loader := NewFileLoader(path)
	bundle, err := loader.LoadBundle(context.Background())
	require.NoError(t, err)
	require.Len(t, bundle.Keys, 1)
	assert.Equal(t, "release-2026", bundle.Keys[0].ID)
}

func TestFileLoader_MissingFile(t *testing.T) {
	t.Parallel()

	loader := NewFileLoader(filepath.Join(t.TempDir(), "nope.json"))
	_, err := loader.LoadBundle(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestFileLoader_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := NewFileLoader("irrelevant")
	_, err := loader.LoadBundle(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseBundle_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseBundle([]byte("[]"))
	assert.ErrorIs(t, err, ErrParseFailed)
}
