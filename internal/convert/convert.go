// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert reduces fetched reference pages to readable plain text.
// Boilerplate (navigation, scripts, chrome) is stripped with a readability
// pass; the surviving markup is flattened to text and capped to the
// configured content budget.
package convert

import (
	"strings"
	"unicode/utf8"

	"github.com/cixtor/readability"
	"github.com/jaytaylor/html2text"
)

// DefaultMaxBytes is the content budget applied when the config leaves it
// unset. Sized for small-context local models.
const DefaultMaxBytes = 8192

// ExtractText returns the main readable text of a fetched page, truncated
// to maxBytes. An empty result means no usable content was found; callers
// treat that the same as a failed fetch.
func ExtractText(raw, pageURL string, maxBytes int) string {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	content := raw
	reader := readability.New()
	if parsed, err := reader.Parse(strings.NewReader(raw), pageURL); err == nil {
		if strings.TrimSpace(parsed.Content) != "" {
			content = parsed.Content
		}
	}

	text, err := html2text.FromString(content)
	if err != nil {
		// Favor recall: fall back to the raw input so a page that
		// defeats the flattener still yields something checkable.
		text = raw
	}

	return truncate(strings.TrimSpace(text), maxBytes)
}

// truncate cuts s to at most maxBytes, backing off to a rune boundary.
func truncate(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut])
}
