// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Article holds the subject article for one fact-checking run.
// Created once per run and immutable afterwards.
type Article struct {
	// Title is the article heading as rendered on the page.
	Title string `json:"title" yaml:"title"`

	// URL is the canonical article URL after redirects.
	URL string `json:"url" yaml:"url"`

	// HTML is the raw page markup the citations were extracted from.
	HTML string `json:"-" yaml:"-"`
}

// Citation is one inline reference marker together with the sentence it
// annotates and the first external URL found in its footnote.
type Citation struct {
	// Index is the 1-based position of the citation in document order.
	Index int `json:"index" yaml:"index"`

	// Excerpt is the sentence (or sentence fragment) preceding the
	// inline marker.
	Excerpt string `json:"excerpt" yaml:"excerpt"`

	// SourceURL is the first external link in the footnote entry.
	// Empty when the footnote carries no resolvable link.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`
}

// HasSource reports whether the citation carries a resolvable source URL.
func (c Citation) HasSource() bool {
	return c.SourceURL != ""
}

// Reference is the fetched-and-extracted content behind one citation's
// source URL. References are never shared between citations, even when
// two citations point at the same URL.
type Reference struct {
	// SourceURL is the URL the content was fetched from.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// Fetched reports whether the HTTP fetch succeeded.
	Fetched bool `json:"fetched" yaml:"fetched"`

	// Text is the readable plain-text content, empty on fetch or
	// extraction failure.
	Text string `json:"-" yaml:"-"`
}

// Usable reports whether the reference yielded text worth fact-checking.
func (r Reference) Usable() bool {
	return r.Fetched && r.Text != ""
}

// Verdict is the fact-check outcome for one citation.
type Verdict struct {
	// Supported reports whether the reference content substantiates
	// the cited sentence.
	Supported bool `json:"supported" yaml:"supported"`

	// Explanation is a short natural-language justification.
	Explanation string `json:"explanation" yaml:"explanation"`
}

// Result pairs a citation with its verdict.
type Result struct {
	Citation Citation `json:"citation" yaml:"citation"`
	Verdict  Verdict  `json:"verdict" yaml:"verdict"`
}

// RunReport is the complete outcome of one pipeline run: the subject
// article plus one result per citation, in extraction order.
type RunReport struct {
	Title   string   `json:"title" yaml:"title"`
	URL     string   `json:"url" yaml:"url"`
	Results []Result `json:"results" yaml:"results"`
}
