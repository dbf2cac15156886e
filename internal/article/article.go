// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package article fetches the subject encyclopedia article for a run.
package article

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/pdiddy/citecheck/internal/httputil"
	"github.com/pdiddy/citecheck/pkg/types"
)

// DefaultRandomURL redirects to a random English Wikipedia article.
const DefaultRandomURL = "https://en.wikipedia.org/wiki/Special:Random"

// Wikipedia page element IDs.
const (
	headingID = "firstHeading"
	contentID = "mw-content-text"
)

// Source yields the subject article. pageURL selects an explicit article;
// when empty, the implementation picks one at random. Tests supply fixed
// fixtures through this seam.
type Source interface {
	Fetch(ctx context.Context, pageURL string) (*types.Article, error)
}

// WikipediaSource fetches articles from Wikipedia over HTTP.
type WikipediaSource struct {
	Client *http.Client
	Config types.ArticleConfig
}

// Fetch retrieves the article at pageURL, or a random one when pageURL is
// empty. Any failure here is fatal to the run: without an article there is
// nothing to check.
func (s *WikipediaSource) Fetch(ctx context.Context, pageURL string) (*types.Article, error) {
	target := pageURL
	if target == "" {
		target = s.Config.RandomURL
	}
	if target == "" {
		target = DefaultRandomURL
	}

	headers := http.Header{}
	if s.Config.UserAgent != "" {
		headers.Set("User-Agent", s.Config.UserAgent)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.Get(ctx, client, target, headers)
	if err != nil {
		return nil, fmt.Errorf("fetching article: %w", err)
	}

	html, err := decodeUTF8(resp.Body, resp.ContentType)
	if err != nil {
		return nil, fmt.Errorf("decoding article page: %w", err)
	}

	title, err := parseTitle(html)
	if err != nil {
		return nil, fmt.Errorf("parsing article page %s: %w", resp.FinalURL, err)
	}

	return &types.Article{
		Title: title,
		URL:   resp.FinalURL,
		HTML:  html,
	}, nil
}

// decodeUTF8 normalizes the page bytes to UTF-8 using the Content-Type
// header and byte sniffing.
func decodeUTF8(data []byte, contentType string) (string, error) {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return "", err
		}
		decoded = data
	}
	return string(decoded), nil
}

// parseTitle extracts the article heading and verifies the content region
// exists. Pages missing either element are not articles (special pages,
// error pages) and fail the run.
func parseTitle(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(html)))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	heading := doc.Find("#" + headingID).First()
	if heading.Length() == 0 {
		return "", fmt.Errorf("page has no #%s element", headingID)
	}
	if doc.Find("#"+contentID).Length() == 0 {
		return "", fmt.Errorf("page has no #%s element", contentID)
	}

	title := strings.TrimSpace(heading.Text())
	if title == "" {
		return "", fmt.Errorf("page heading is empty")
	}
	return title, nil
}
