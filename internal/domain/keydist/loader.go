// Package keydist keeps the trust store's signing keys current. It defines
// the bundle loader contract, loaders for HTTP and local file sources, and
// the periodic refresher that feeds fetched bundles into the trust store.
package keydist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/trustplane/trustplane/internal/domain/trust"
)

// Loader errors.
var (
	ErrFetchFailed  = errors.New("key bundle fetch failed")
	ErrParseFailed  = errors.New("key bundle parse failed")
	ErrUnauthorized = errors.New("key distribution source rejected credentials")
	ErrServerError  = errors.New("key distribution server error")
)

// maxBundleBytes caps how much of a bundle response is read.
const maxBundleBytes = 4 << 20

// BundleLoader fetches a fresh signing-key bundle from a distribution
// source. Implementations must honor context cancellation mid-flight.
type BundleLoader interface {
	LoadBundle(ctx context.Context) (trust.KeyBundle, error)
}

// ParseBundle decodes a JSON key bundle.
func ParseBundle(data []byte) (trust.KeyBundle, error) {
	var bundle trust.KeyBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return trust.KeyBundle{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return bundle, nil
}

// HTTPLoaderConfig configures the HTTP bundle loader.
type HTTPLoaderConfig struct {
	// URL is the bundle endpoint.
	URL string
	// Timeout is the per-request timeout.
	Timeout time.Duration
	// UserAgent is the User-Agent header value.
	UserAgent string
	// AuthToken is an optional bearer token.
	AuthToken string
}

// DefaultHTTPLoaderConfig returns sensible defaults for the given URL.
func DefaultHTTPLoaderConfig(url string) HTTPLoaderConfig {
	return HTTPLoaderConfig{
		URL:       url,
		Timeout:   30 * time.Second,
		UserAgent: "trustplane/1.0",
	}
}

// HTTPLoader loads JSON key bundles over HTTP(S).
type HTTPLoader struct {
	config HTTPLoaderConfig
	client *http.Client
}

// NewHTTPLoader creates a new HTTP bundle loader.
func NewHTTPLoader(config HTTPLoaderConfig) *HTTPLoader {
	return &HTTPLoader{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// LoadBundle fetches and parses a bundle from the configured URL.
func (l *HTTPLoader) LoadBundle(ctx context.Context) (trust.KeyBundle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.config.URL, nil)
	if err != nil {
		return trust.KeyBundle{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", l.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	if l.config.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+l.config.AuthToken)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return trust.KeyBundle{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return trust.KeyBundle{}, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode >= 500:
		return trust.KeyBundle{}, fmt.Errorf("%w: status %d", ErrServerError, resp.StatusCode)
	default:
		return trust.KeyBundle{}, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBundleBytes))
	if err != nil {
		return trust.KeyBundle{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	return ParseBundle(data)
}

var _ BundleLoader = (*HTTPLoader)(nil)

// FileLoader reads a key bundle from a local file, for air-gapped hosts
// that distribute bundles out of band.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader reading from the given path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// LoadBundle reads and parses the bundle file.
func (l *FileLoader) LoadBundle(ctx context.Context) (trust.KeyBundle, error) {
	if err := ctx.Err(); err != nil {
		return trust.KeyBundle{}, err
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return trust.KeyBundle{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return ParseBundle(data)
}

var _ BundleLoader = (*FileLoader)(nil)
