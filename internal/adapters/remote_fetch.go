package adapters

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	lru "github.com/hashicorp/golang-lru/v2"

	"license-summary/internal/ports"
	"license-summary/internal/shared"
)

const (
	defaultFetchTimeout = 30 * time.Second
	fetchCacheSize      = 256
)

// RemoteFetchAdapter downloads license texts from HTTPS URLs. Several
// packages can point at the same upstream file, so responses are
// memoized per URL. A non-success response fails the run after a
// single attempt.
type RemoteFetchAdapter struct {
	Timeout time.Duration
	cache   *lru.Cache[string, string]
}

func NewRemoteFetchAdapter(timeout time.Duration) RemoteFetchAdapter {
	cache, _ := lru.New[string, string](fetchCacheSize)
	return RemoteFetchAdapter{
		Timeout: normalizeFetchTimeout(timeout),
		cache:   cache,
	}
}

func (a RemoteFetchAdapter) FetchText(ctx context.Context, url string) (string, error) {
	if a.cache != nil {
		if text, ok := a.cache.Get(url); ok {
			return text, nil
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create license text request").
			WithCause(err)
	}
	client := &http.Client{Timeout: a.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("license text fetch failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read license text response").
			WithCause(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("license text fetch failed").
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, url, strings.TrimSpace(string(body))))
	}
	text := string(body)
	if a.cache != nil {
		a.cache.Add(url, text)
	}
	return text, nil
}

func normalizeFetchTimeout(value time.Duration) time.Duration {
	if value <= 0 {
		return defaultFetchTimeout
	}
	return value
}

var _ ports.RemoteFetchPort = RemoteFetchAdapter{}
