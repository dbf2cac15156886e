// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citations locates inline citation markers in article HTML and
// pairs each with the sentence it annotates and the first external URL
// in its footnote entry.
package citations

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pdiddy/citecheck/pkg/types"
)

// contentID is the Wikipedia element holding the article body and footnotes.
const contentID = "mw-content-text"

// Extract walks the article's paragraphs in document order and returns one
// Citation per inline reference marker, indexed from 1. A citation whose
// footnote has no external link is kept with an empty SourceURL. An article
// with no citations yields an empty slice, not an error.
func Extract(art *types.Article) ([]types.Citation, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(art.HTML))
	if err != nil {
		return nil, fmt.Errorf("parsing article HTML: %w", err)
	}

	content := doc.Find("#" + contentID).First()
	if content.Length() == 0 {
		return nil, fmt.Errorf("article has no #%s element", contentID)
	}

	footnotes := footnoteLinks(content, art.URL)

	var cites []types.Citation
	content.Find("p").Each(func(_ int, p *goquery.Selection) {
		sentence := ""
		p.Contents().Each(func(_ int, child *goquery.Selection) {
			node := child.Get(0)

			if isReferenceMarker(node, child) {
				cites = append(cites, types.Citation{
					Index:     len(cites) + 1,
					Excerpt:   strings.TrimSpace(sentence),
					SourceURL: footnotes[markerTarget(child)],
				})
				// Reset so text between two markers attributes to
				// the second one.
				sentence = ""
				return
			}

			if node.Type == html.TextNode {
				sentence += node.Data
			} else {
				sentence += child.Text()
			}

			// Keep a separating space between accumulated sentences.
			trimmed := strings.TrimSpace(sentence)
			if strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, "!") || strings.HasSuffix(trimmed, "?") {
				sentence = trimmed + " "
			}
		})
	})

	return cites, nil
}

// isReferenceMarker reports whether the node is an inline citation marker:
// a <sup class="reference"> element.
func isReferenceMarker(node *html.Node, sel *goquery.Selection) bool {
	return node.Type == html.ElementNode && node.Data == "sup" && sel.HasClass("reference")
}

// markerTarget returns the footnote element ID a marker's link points at,
// or "" when the marker has no in-page link.
func markerTarget(marker *goquery.Selection) string {
	href := marker.Find("a[href]").First().AttrOr("href", "")
	if !strings.HasPrefix(href, "#") {
		return ""
	}
	return href[1:]
}

// footnoteLinks indexes footnote list items by element ID, mapping each to
// the first external link in its rendered text. Footnotes without an
// external link are omitted; only the first link counts.
func footnoteLinks(content *goquery.Selection, articleURL string) map[string]string {
	base, err := url.Parse(articleURL)
	if err != nil {
		base = nil
	}

	links := make(map[string]string)
	content.Find("li[id]").Each(func(_ int, li *goquery.Selection) {
		id := li.AttrOr("id", "")
		if id == "" {
			return
		}
		href := li.Find("a.external[href]").First().AttrOr("href", "")
		if href == "" {
			return
		}
		if resolved := resolveURL(base, href); resolved != "" {
			links[id] = resolved
		}
	})
	return links
}

// resolveURL resolves href against the article URL and returns it when the
// result is a fetchable http(s) URL, "" otherwise.
func resolveURL(base *url.URL, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
