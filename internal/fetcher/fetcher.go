package fetcher

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/MichalMitros/market-tracker/internal/platform/models"
)

// Option is custom configuration of Fetcher.
type Option func(f *Fetcher)

// Fetcher builds http requests and fetches discovery feeds and product details via http.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	extractorURL string
}

// NewFetcher returns new Fetcher.
func NewFetcher(client *http.Client, userAgent string, ops ...Option) *Fetcher {
	f := &Fetcher{
		client:    client,
		userAgent: userAgent,
	}

	for _, op := range ops {
		op(f)
	}

	return f
}

// FetchFile returns ReadCloser with file fetched from provided url or error.
// The caller is responsible for closing returned ReadCloser.
func (f *Fetcher) FetchFile(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("can't build http request: %w", err)
	}

	req.Header.Add("Accept", "application/xml")
	req.Header.Add("Accept-Encoding", "gzip")
	req.Header.Add("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("can't get http response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, ErrStatusNotOK
	}

	switch mediaType(resp.Header.Get("Content-Type")) {
	case "application/xml", "text/xml":
		return resp.Body, nil
	case "application/zip", "application/gzip", "application/x-gzip":
		return decompressResponse(resp.Body)
	default:
		_ = resp.Body.Close()
		return nil, ErrContentTypeNotSupported
	}
}

// FetchProduct returns raw fields of product extracted by extraction service.
func (f *Fetcher) FetchProduct(ctx context.Context, productID string) (models.Fields, error) {
	endpoint := strings.TrimRight(f.extractorURL, "/") + "/products/" + url.PathEscape(productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("can't build http request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Add("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("can't get http response: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusGone:
		return nil, ErrProductGone
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("got status %d: %w", resp.StatusCode, ErrStatusNotOK)
	}

	if mediaType(resp.Header.Get("Content-Type")) != "application/json" {
		return nil, ErrContentTypeNotSupported
	}

	fields := models.Fields{}
	if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil {
		return nil, fmt.Errorf("can't decode product fields: %w", err)
	}

	return fields, nil
}

// mediaType returns media type of Content-Type header without parameters.
func mediaType(contentType string) string {
	parsed, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}
	return parsed
}

// decompressResponse returns io.ReadCloser with decompressed http response and error.
func decompressResponse(response io.ReadCloser) (io.ReadCloser, error) {
	decompressed, err := gzip.NewReader(response)
	if err != nil {
		_ = response.Close()
		return nil, fmt.Errorf("can't decompress response: %w", err)
	}

	return &decompressedReadCloser{
		compressed:   response,
		decompressed: decompressed,
	}, nil
}

// decompressedReadCloser reads from decompressed Reader, but closes compressed ReadCloser.
type decompressedReadCloser struct {
	compressed   io.ReadCloser
	decompressed io.Reader
}

func (r decompressedReadCloser) Read(p []byte) (n int, err error) {
	return r.decompressed.Read(p)
}

func (r decompressedReadCloser) Close() error {
	return r.compressed.Close()
}

// WithExtractorURL sets base url of product extraction service.
func WithExtractorURL(extractorURL string) Option {
	return func(f *Fetcher) {
		f.extractorURL = extractorURL
	}
}
