// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reference retrieves the web content behind a citation's source
// URL. Fetch failures are an expected outcome here, not errors: a dead
// link degrades to an unsupported verdict and the run moves on.
package reference

import (
	"context"
	"net/http"

	"github.com/pdiddy/citecheck/internal/convert"
	"github.com/pdiddy/citecheck/internal/httputil"
	"github.com/pdiddy/citecheck/pkg/types"
)

// Fetcher retrieves and extracts reference content. Requests carry a
// browser-like header set; some reference hosts block tool user agents.
type Fetcher struct {
	Client *http.Client
	Config types.ReferenceConfig
}

// Fetch issues a single GET for sourceURL and reduces the response to
// readable text. Every failure mode (malformed URL, connection error,
// timeout, non-2xx status) yields Fetched=false and empty text.
func (f *Fetcher) Fetch(ctx context.Context, sourceURL string) types.Reference {
	ref := types.Reference{SourceURL: sourceURL}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.Get(ctx, client, sourceURL, httputil.BrowserHeaders())
	if err != nil {
		return ref
	}

	ref.Fetched = true
	ref.Text = convert.ExtractText(string(resp.Body), resp.FinalURL, f.Config.MaxContentBytes)
	return ref
}
