// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps how much of a response body is read into memory.
// Reference pages occasionally serve very large documents; everything
// past the cap is irrelevant to extraction anyway.
const maxBodyBytes = 4 << 20

// Response holds the parts of an HTTP response the pipeline stages use.
type Response struct {
	// Body is the response body, capped at maxBodyBytes.
	Body []byte

	// ContentType is the Content-Type header value, used for charset
	// detection during parsing.
	ContentType string

	// FinalURL is the request URL after following redirects.
	FinalURL string
}

// BrowserHeaders returns a request header set resembling a desktop
// browser. Some reference hosts refuse obviously non-browser clients,
// so reference fetches present these instead of a bare tool User-Agent.
func BrowserHeaders() http.Header {
	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0")
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.5")
	return h
}

// Get issues a single GET request and returns the body, content type,
// and post-redirect URL. A non-2xx status is an error. There is no
// retry: each fetch in the pipeline is attempted exactly once.
func Get(ctx context.Context, client *http.Client, url string, headers http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}
