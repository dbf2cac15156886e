// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the linear fact-checking flow: fetch article,
// extract citations, then for each citation fetch its reference and ask
// the inference backend for a verdict. Citations are processed one at a
// time in document order; only the article fetch itself can fail the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pdiddy/citecheck/internal/article"
	"github.com/pdiddy/citecheck/internal/citations"
	"github.com/pdiddy/citecheck/internal/factcheck"
	"github.com/pdiddy/citecheck/pkg/types"
)

// Fixed explanations for verdicts produced without a model call.
const (
	explInaccessible = "reference content is inaccessible"
	explParseFailure = "the model response could not be parsed"
	explCallFailed   = "the fact-check service could not be reached"
)

// ReferenceFetcher retrieves reference content for one citation. The
// concrete implementation lives in internal/reference; tests supply mocks.
type ReferenceFetcher interface {
	Fetch(ctx context.Context, sourceURL string) types.Reference
}

// Summary holds per-verdict counts from one run.
type Summary struct {
	Supported     int
	Unsupported   int
	Inaccessible  int
	ParseFailures int
	CallFailures  int
}

// Total returns the number of citations processed.
func (s Summary) Total() int {
	return s.Supported + s.Unsupported + s.Inaccessible + s.ParseFailures + s.CallFailures
}

// Pipeline wires the run's collaborators. All fields are required.
type Pipeline struct {
	Source  article.Source
	Refs    ReferenceFetcher
	Backend factcheck.Backend
}

// Run executes one pass: article, citations, per-citation verdicts.
// articleURL selects an explicit article; empty means random. Progress and
// warnings go to status, never to the report itself, so reports stay
// byte-stable for a given article and backend. The returned error is
// non-nil only for the fatal article-level failures.
func (p *Pipeline) Run(ctx context.Context, articleURL string, status io.Writer) (types.RunReport, Summary, error) {
	art, err := p.Source.Fetch(ctx, articleURL)
	if err != nil {
		return types.RunReport{}, Summary{}, err
	}

	cites, err := citations.Extract(art)
	if err != nil {
		return types.RunReport{}, Summary{}, fmt.Errorf("extracting citations: %w", err)
	}

	rep := types.RunReport{
		Title: art.Title,
		URL:   art.URL,
	}

	var summary Summary
	calls, callFailures := 0, 0

	for _, cit := range cites {
		verdict := p.checkOne(ctx, cit, status, &summary, &calls, &callFailures)
		rep.Results = append(rep.Results, types.Result{
			Citation: cit,
			Verdict:  verdict,
		})
	}

	if calls > 0 && callFailures == calls {
		fmt.Fprintf(status, "warning: all %d fact-check calls failed; is the inference endpoint reachable?\n", calls)
	}

	fmt.Fprintf(status, "\nRun summary: %d supported, %d unsupported, %d inaccessible, %d parse failures, %d call failures (total: %d)\n",
		summary.Supported, summary.Unsupported, summary.Inaccessible,
		summary.ParseFailures, summary.CallFailures, summary.Total())

	return rep, summary, nil
}

// checkOne produces the verdict for a single citation. Every failure past
// the article stage degrades to an unsupported verdict here.
func (p *Pipeline) checkOne(ctx context.Context, cit types.Citation, status io.Writer, summary *Summary, calls, callFailures *int) types.Verdict {
	if !cit.HasSource() {
		fmt.Fprintf(status, "skipped citation %d (no source URL)\n", cit.Index)
		summary.Inaccessible++
		return types.Verdict{Supported: false, Explanation: explInaccessible}
	}

	fmt.Fprintf(status, "checking citation %d: %s\n", cit.Index, cit.SourceURL)

	ref := p.Refs.Fetch(ctx, cit.SourceURL)
	if !ref.Usable() {
		fmt.Fprintf(status, "  reference inaccessible\n")
		summary.Inaccessible++
		return types.Verdict{Supported: false, Explanation: explInaccessible}
	}

	*calls++
	verdict, err := p.Backend.Check(ctx, cit, ref.Text)
	switch {
	case err == nil:
		if verdict.Supported {
			summary.Supported++
		} else {
			summary.Unsupported++
		}
		return verdict

	case errors.Is(err, factcheck.ErrMalformedReply):
		fmt.Fprintf(status, "  warning: %v\n", err)
		summary.ParseFailures++
		return types.Verdict{Supported: false, Explanation: explParseFailure}

	default:
		fmt.Fprintf(status, "  warning: fact-check call failed: %v\n", err)
		*callFailures++
		summary.CallFailures++
		return types.Verdict{Supported: false, Explanation: explCallFailed}
	}
}
