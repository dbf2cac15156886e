// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/pdiddy/citecheck/internal/factcheck"
	"github.com/pdiddy/citecheck/internal/report"
	"github.com/pdiddy/citecheck/pkg/types"
)

// --- stubs ---

type stubSource struct {
	art *types.Article
	err error
}

func (s *stubSource) Fetch(_ context.Context, _ string) (*types.Article, error) {
	return s.art, s.err
}

type stubRefs struct {
	refs  map[string]types.Reference
	calls []string
}

func (s *stubRefs) Fetch(_ context.Context, sourceURL string) types.Reference {
	s.calls = append(s.calls, sourceURL)
	if ref, ok := s.refs[sourceURL]; ok {
		return ref
	}
	return types.Reference{SourceURL: sourceURL}
}

type backendCall struct {
	excerpt string
	refText string
}

type stubBackend struct {
	verdicts map[string]types.Verdict // excerpt → verdict
	err      error
	calls    []backendCall
}

func (s *stubBackend) Check(_ context.Context, cit types.Citation, referenceText string) (types.Verdict, error) {
	s.calls = append(s.calls, backendCall{excerpt: cit.Excerpt, refText: referenceText})
	if s.err != nil {
		return types.Verdict{}, s.err
	}
	return s.verdicts[cit.Excerpt], nil
}

// --- fixtures ---

// articleHTML builds a Wikipedia-shaped page: each claim becomes a cited
// sentence, each href the matching footnote's external link. An empty
// href produces a footnote with no link.
func articleHTML(claims []string, hrefs []string) string {
	var b strings.Builder
	b.WriteString(`<html><body><h1 id="firstHeading">Subject</h1><div id="mw-content-text">`)
	for i, claim := range claims {
		fmt.Fprintf(&b, `<p>%s<sup class="reference"><a href="#cite_note-%d">[%d]</a></sup></p>`, claim, i+1, i+1)
	}
	b.WriteString(`<ol class="references">`)
	for i, href := range hrefs {
		if href == "" {
			fmt.Fprintf(&b, `<li id="cite_note-%d">Print-only source.</li>`, i+1)
		} else {
			fmt.Fprintf(&b, `<li id="cite_note-%d"><a class="external" href="%s">ref</a></li>`, i+1, href)
		}
	}
	b.WriteString(`</ol></div></body></html>`)
	return b.String()
}

func testArticle(claims, hrefs []string) *types.Article {
	return &types.Article{
		Title: "Subject",
		URL:   "https://en.wikipedia.org/wiki/Subject",
		HTML:  articleHTML(claims, hrefs),
	}
}

func newPipeline(src *stubSource, refs *stubRefs, backend factcheck.Backend) *Pipeline {
	return &Pipeline{Source: src, Refs: refs, Backend: backend}
}

// --- tests ---

func TestRun_ArticleFetchFailureIsFatal(t *testing.T) {
	p := newPipeline(
		&stubSource{err: fmt.Errorf("fetching article: HTTP 503")},
		&stubRefs{},
		&stubBackend{},
	)

	_, _, err := p.Run(context.Background(), "", io.Discard)
	if err == nil {
		t.Fatal("expected fatal error when the article cannot be fetched")
	}
}

func TestRun_ZeroCitations(t *testing.T) {
	refs := &stubRefs{}
	backend := &stubBackend{}
	p := newPipeline(&stubSource{art: testArticle(nil, nil)}, refs, backend)

	rep, summary, err := p.Run(context.Background(), "", io.Discard)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rep.Title != "Subject" || rep.URL != "https://en.wikipedia.org/wiki/Subject" {
		t.Errorf("report header = %q %q", rep.Title, rep.URL)
	}
	if len(rep.Results) != 0 {
		t.Errorf("got %d results, want 0", len(rep.Results))
	}
	if summary.Total() != 0 {
		t.Errorf("summary total = %d, want 0", summary.Total())
	}
	if len(refs.calls) != 0 || len(backend.calls) != 0 {
		t.Error("no fetches or model calls expected for a citation-free article")
	}
}

func TestRun_NoSourceURLSkipsFetchAndModel(t *testing.T) {
	refs := &stubRefs{}
	backend := &stubBackend{}
	p := newPipeline(
		&stubSource{art: testArticle([]string{"Uncited claim."}, []string{""})},
		refs, backend,
	)

	rep, summary, err := p.Run(context.Background(), "", io.Discard)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(rep.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(rep.Results))
	}
	v := rep.Results[0].Verdict
	if v.Supported {
		t.Error("verdict should be unsupported")
	}
	if !strings.Contains(v.Explanation, "inaccessible") {
		t.Errorf("explanation = %q, want mention of inaccessibility", v.Explanation)
	}
	if len(refs.calls) != 0 {
		t.Errorf("reference fetches = %v, want none", refs.calls)
	}
	if len(backend.calls) != 0 {
		t.Errorf("model calls = %d, want 0", len(backend.calls))
	}
	if summary.Inaccessible != 1 {
		t.Errorf("summary.Inaccessible = %d, want 1", summary.Inaccessible)
	}
}

func TestRun_DeadAndLiveLink(t *testing.T) {
	refs := &stubRefs{refs: map[string]types.Reference{
		"https://example.com/dead": {SourceURL: "https://example.com/dead", Fetched: false},
		"https://example.com/live": {SourceURL: "https://example.com/live", Fetched: true, Text: "Blue whales reach 30 metres."},
	}}
	backend := &stubBackend{verdicts: map[string]types.Verdict{
		"Whales are large.": {Supported: true, Explanation: "the reference states their size"},
	}}
	p := newPipeline(
		&stubSource{art: testArticle(
			[]string{"Whales are old.", "Whales are large."},
			[]string{"https://example.com/dead", "https://example.com/live"},
		)},
		refs, backend,
	)

	rep, summary, err := p.Run(context.Background(), "", io.Discard)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rep.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(rep.Results))
	}

	dead := rep.Results[0].Verdict
	if dead.Supported || !strings.Contains(dead.Explanation, "inaccessible") {
		t.Errorf("dead-link verdict = %+v", dead)
	}

	live := rep.Results[1].Verdict
	if !live.Supported || live.Explanation != "the reference states their size" {
		t.Errorf("live-link verdict = %+v", live)
	}

	// Exactly one model call, for the live citation, with its excerpt
	// and extracted reference text.
	if len(backend.calls) != 1 {
		t.Fatalf("model calls = %d, want 1", len(backend.calls))
	}
	if backend.calls[0].excerpt != "Whales are large." {
		t.Errorf("model excerpt = %q", backend.calls[0].excerpt)
	}
	if backend.calls[0].refText != "Blue whales reach 30 metres." {
		t.Errorf("model reference text = %q", backend.calls[0].refText)
	}

	if summary.Supported != 1 || summary.Inaccessible != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestRun_EmptyExtractionIsInaccessible(t *testing.T) {
	refs := &stubRefs{refs: map[string]types.Reference{
		"https://example.com/empty": {SourceURL: "https://example.com/empty", Fetched: true, Text: ""},
	}}
	backend := &stubBackend{}
	p := newPipeline(
		&stubSource{art: testArticle([]string{"A claim."}, []string{"https://example.com/empty"})},
		refs, backend,
	)

	rep, _, err := p.Run(context.Background(), "", io.Discard)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	v := rep.Results[0].Verdict
	if v.Supported || !strings.Contains(v.Explanation, "inaccessible") {
		t.Errorf("verdict = %+v", v)
	}
	if len(backend.calls) != 0 {
		t.Errorf("model calls = %d, want 0", len(backend.calls))
	}
}

func TestRun_MalformedReplyContinues(t *testing.T) {
	refs := &stubRefs{refs: map[string]types.Reference{
		"https://example.com/1": {SourceURL: "https://example.com/1", Fetched: true, Text: "ref one"},
		"https://example.com/2": {SourceURL: "https://example.com/2", Fetched: true, Text: "ref two"},
	}}

	// Fail parsing for the first citation only.
	backend := &malformedOnceBackend{
		good: types.Verdict{Supported: true, Explanation: "fine"},
	}
	p := newPipeline(
		&stubSource{art: testArticle(
			[]string{"First.", "Second."},
			[]string{"https://example.com/1", "https://example.com/2"},
		)},
		refs, backend,
	)

	rep, summary, err := p.Run(context.Background(), "", io.Discard)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	first := rep.Results[0].Verdict
	if first.Supported || !strings.Contains(first.Explanation, "could not be parsed") {
		t.Errorf("parse-failure verdict = %+v", first)
	}

	second := rep.Results[1].Verdict
	if !second.Supported {
		t.Errorf("second verdict = %+v, want supported", second)
	}

	if summary.ParseFailures != 1 || summary.Supported != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

type malformedOnceBackend struct {
	calls int
	good  types.Verdict
}

func (m *malformedOnceBackend) Check(_ context.Context, _ types.Citation, _ string) (types.Verdict, error) {
	m.calls++
	if m.calls == 1 {
		return types.Verdict{}, fmt.Errorf("%w: not JSON", factcheck.ErrMalformedReply)
	}
	return m.good, nil
}

func TestRun_AllCallsFailedWarning(t *testing.T) {
	refs := &stubRefs{refs: map[string]types.Reference{
		"https://example.com/1": {SourceURL: "https://example.com/1", Fetched: true, Text: "ref one"},
		"https://example.com/2": {SourceURL: "https://example.com/2", Fetched: true, Text: "ref two"},
	}}
	backend := &stubBackend{err: fmt.Errorf("connection refused")}
	p := newPipeline(
		&stubSource{art: testArticle(
			[]string{"First.", "Second."},
			[]string{"https://example.com/1", "https://example.com/2"},
		)},
		refs, backend,
	)

	var status bytes.Buffer
	rep, summary, err := p.Run(context.Background(), "", &status)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Both verdicts degrade; the run still completes with exit-zero semantics.
	for i, res := range rep.Results {
		if res.Verdict.Supported {
			t.Errorf("result %d should be unsupported", i)
		}
	}
	if summary.CallFailures != 2 {
		t.Errorf("summary.CallFailures = %d, want 2", summary.CallFailures)
	}
	if !strings.Contains(status.String(), "all 2 fact-check calls failed") {
		t.Errorf("status missing systemic warning:\n%s", status.String())
	}
}

func TestRun_OrderingAndIdempotence(t *testing.T) {
	claims := []string{"One.", "Two.", "Three.", "Four."}
	hrefs := []string{"https://example.com/1", "", "https://example.com/3", "https://example.com/4"}

	makePipeline := func() *Pipeline {
		refs := &stubRefs{refs: map[string]types.Reference{
			"https://example.com/1": {SourceURL: "https://example.com/1", Fetched: true, Text: "ref"},
			"https://example.com/3": {SourceURL: "https://example.com/3", Fetched: false},
			"https://example.com/4": {SourceURL: "https://example.com/4", Fetched: true, Text: "ref"},
		}}
		backend := &stubBackend{verdicts: map[string]types.Verdict{
			"One.":  {Supported: true, Explanation: "a"},
			"Four.": {Supported: false, Explanation: "b"},
		}}
		return newPipeline(&stubSource{art: testArticle(claims, hrefs)}, refs, backend)
	}

	render := func(p *Pipeline) string {
		rep, _, err := p.Run(context.Background(), "", io.Discard)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		for i, res := range rep.Results {
			if res.Citation.Index != i+1 {
				t.Errorf("Results[%d].Citation.Index = %d, want %d", i, res.Citation.Index, i+1)
			}
		}
		var buf bytes.Buffer
		if err := report.Write(&buf, rep, types.ReportConfig{}); err != nil {
			t.Fatalf("report.Write: %v", err)
		}
		return buf.String()
	}

	first := render(makePipeline())
	second := render(makePipeline())
	if first != second {
		t.Errorf("reports differ between identical runs:\n%s\n---\n%s", first, second)
	}
	if len(first) == 0 {
		t.Fatal("empty report")
	}
}
