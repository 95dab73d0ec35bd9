package storage

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"
)

const (
	defaultFetchAttempts = 3
	defaultMaxFetchBytes = 20 * 1024 * 1024
)

// StatusError carries a non-200 status code returned by a remote server
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	if e.Code >= 400 && e.Code < 500 {
		return fmt.Sprintf("client error: status code %d", e.Code)
	}
	return fmt.Sprintf("server error: status code %d", e.Code)
}

// HTTPImageFetcher fetches source images over HTTP(S) with bounded retries.
// It is read-only.
type HTTPImageFetcher struct {
	client     *http.Client
	attempts   int
	retryDelay time.Duration
	maxBytes   int64
	maxPixels  int64
}

// HTTPOption customises an HTTPImageFetcher
type HTTPOption func(*HTTPImageFetcher)

// WithTimeout bounds a single request including the body read
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTPImageFetcher) {
		if d > 0 {
			h.client.Timeout = d
		}
	}
}

// WithRetryDelay sets the base backoff; attempt n waits n*delay
func WithRetryDelay(d time.Duration) HTTPOption {
	return func(h *HTTPImageFetcher) {
		if d >= 0 {
			h.retryDelay = d
		}
	}
}

// WithMaxBytes caps how much of a response body is decoded
func WithMaxBytes(n int64) HTTPOption {
	return func(h *HTTPImageFetcher) {
		if n > 0 {
			h.maxBytes = n
		}
	}
}

// WithMaxPixels rejects images whose header declares more than n pixels
func WithMaxPixels(n int64) HTTPOption {
	return func(h *HTTPImageFetcher) {
		h.SetMaxPixels(n)
	}
}

// NewHTTPImageFetcher creates a fetcher tuned for single image downloads
func NewHTTPImageFetcher(opts ...HTTPOption) *HTTPImageFetcher {
	transport := &http.Transport{
		MaxIdleConns:           10,
		MaxIdleConnsPerHost:    2,
		IdleConnTimeout:        30 * time.Second,
		TLSHandshakeTimeout:    10 * time.Second,
		ResponseHeaderTimeout:  10 * time.Second,
		ExpectContinueTimeout:  1 * time.Second,
		MaxResponseHeaderBytes: 4096,
	}

	h := &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		attempts:   defaultFetchAttempts,
		retryDelay: time.Second,
		maxBytes:   defaultMaxFetchBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// FetchImage downloads and decodes the image at imageURL. Network errors and
// 5xx responses are retried; 4xx responses fail immediately.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	req.Header.Set("Accept", "image/png, image/jpeg, image/webp, image/bmp, image/tiff, image/gif, */*")
	req.Header.Set("User-Agent", "go-frame-filters/1.0")

	var lastErr error
	for attempt := 0; attempt < h.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * h.retryDelay):
			}
		}

		resp, err := h.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return h.decode(resp)
		}

		resp.Body.Close()
		lastErr = &StatusError{Code: resp.StatusCode}
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, lastErr)
		}
		if resp.StatusCode < 500 {
			break
		}
	}

	return nil, fmt.Errorf("failed to fetch image after %d attempts: %w", h.attempts, lastErr)
}

// SetMaxPixels caps the declared size of fetched images
func (h *HTTPImageFetcher) SetMaxPixels(n int64) {
	if n >= 0 {
		h.maxPixels = n
	}
}

func (h *HTTPImageFetcher) decode(resp *http.Response) (image.Image, error) {
	defer resp.Body.Close()
	img, _, err := DecodeImageLimited(io.LimitReader(resp.Body, h.maxBytes), h.maxPixels)
	return img, err
}

// Store always fails: HTTP sources are read-only
func (h *HTTPImageFetcher) Store(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	return "", ErrStoreUnsupported
}
