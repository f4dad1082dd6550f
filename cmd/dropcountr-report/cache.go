package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// cachedResponse is a helper struct to store the response fields
// we care about in a simple JSON format.
type cachedResponse struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Proto      string      `json:"proto"`
	Header     http.Header `json:"header"`
	Body       []byte      `json:"body"`
}

// CachingRoundTripper implements http.RoundTripper as a GET-only disk cache,
// useful when iterating on report formatting without hammering the API.
// The login POST and its Set-Cookie response always go to the network.
type CachingRoundTripper struct {
	// UnderlyingTransport will be used for cache misses and non-GET
	// requests. If nil, http.DefaultTransport will be used.
	UnderlyingTransport http.RoundTripper

	// CacheDir is the directory where response files are stored.
	CacheDir string
}

func (c *CachingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := c.UnderlyingTransport
	if transport == nil {
		transport = http.DefaultTransport
	}

	if req.Method != http.MethodGet {
		return transport.RoundTrip(req)
	}

	cacheFilePath := c.cacheFilePath(cacheKey(req.Method, req.URL.String()))

	if data, err := os.ReadFile(cacheFilePath); err == nil {
		var cr cachedResponse
		if err := json.Unmarshal(data, &cr); err != nil {
			return nil, err
		}
		return buildHTTPResponse(req, cr), nil
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	cr := cachedResponse{
		Status:     resp.Status,
		StatusCode: resp.StatusCode,
		Proto:      resp.Proto,
		Header:     resp.Header.Clone(),
		Body:       body,
	}
	data, err := json.MarshalIndent(cr, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(cacheFilePath, data, 0644); err != nil {
		return nil, err
	}

	return buildHTTPResponse(req, cr), nil
}

// cacheKey builds a SHA-256 hash string from method and url.
func cacheKey(method, url string) string {
	hash := sha256.New()
	hash.Write([]byte(method))
	hash.Write([]byte(url))
	return hex.EncodeToString(hash.Sum(nil))
}

// cacheFilePath returns the path to the cache file for the given key.
func (c *CachingRoundTripper) cacheFilePath(key string) string {
	return filepath.Join(c.CacheDir, key+".json")
}

// buildHTTPResponse constructs a new *http.Response from cachedResponse data.
func buildHTTPResponse(req *http.Request, cr cachedResponse) *http.Response {
	return &http.Response{
		Status:        cr.Status,
		StatusCode:    cr.StatusCode,
		Proto:         cr.Proto,
		Header:        cr.Header,
		Body:          io.NopCloser(bytes.NewReader(cr.Body)),
		ContentLength: int64(len(cr.Body)),
		Request:       req,
	}
}
