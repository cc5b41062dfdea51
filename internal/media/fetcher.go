// Package media normalizes media locators into self-contained, storable
// payloads (base64 data URLs). Normalization is strictly best-effort: any
// failure is logged and the caller keeps the original locator, so a save is
// never blocked by an expiring handle or a cross-origin fetch.
package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/dmitrijs2005/genstudio/internal/logging"
	"github.com/dmitrijs2005/genstudio/internal/models"
)

const dataURLPrefix = "data:"

// Fetcher converts remote or ephemeral locators into data URLs. Results are
// cached by locator for a short TTL so saving a record twice does not
// refetch the bytes.
type Fetcher struct {
	httpClient *http.Client
	cache      *cache.Cache
	log        logging.Logger
}

// NewFetcher returns a Fetcher with a default HTTP client and cache.
func NewFetcher(log logging.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache.New(15*time.Minute, 30*time.Minute),
		log:        log,
	}
}

// Normalize returns a storable form of locator: a data URL when the bytes
// could be fetched and encoded, or the original locator on any failure.
// It never returns an error; degraded results are logged only.
func (f *Fetcher) Normalize(ctx context.Context, locator string, kind models.Mode) string {
	if locator == "" || strings.HasPrefix(locator, dataURLPrefix) {
		// already self-contained
		return locator
	}

	if cached, ok := f.cache.Get(locator); ok {
		return cached.(string)
	}

	data, mime, err := f.fetch(ctx, locator)
	if err != nil {
		f.log.Warn(ctx, "media normalization failed, keeping original locator",
			"kind", kind, "error", err)
		return locator
	}

	url := DataURL(data, mime)
	f.cache.Set(locator, url, cache.DefaultExpiration)
	return url
}

func (f *Fetcher) fetch(ctx context.Context, locator string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return data, mime, nil
}

// DataURL encodes raw bytes as a base64 data URL.
func DataURL(data []byte, mime string) string {
	return dataURLPrefix + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL splits a data URL back into raw bytes and a MIME type.
func DecodeDataURL(url string) ([]byte, string, error) {
	if !strings.HasPrefix(url, dataURLPrefix) {
		return nil, "", fmt.Errorf("not a data URL")
	}
	rest := url[len(dataURLPrefix):]
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URL")
	}
	mime := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode data URL payload: %w", err)
	}
	return data, mime, nil
}
