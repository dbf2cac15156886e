// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package factcheck asks an inference backend whether a citation's
// reference content substantiates the cited sentence.
package factcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pdiddy/citecheck/pkg/types"
)

// Backend abstracts the inference API so tests can supply a mock. Each
// implementation handles a single citation and returns the parsed verdict.
type Backend interface {
	Check(ctx context.Context, cit types.Citation, referenceText string) (types.Verdict, error)
}

// ErrMalformedReply marks model replies that could not be parsed into a
// verdict. Callers use it to distinguish a bad reply from an unreachable
// endpoint.
var ErrMalformedReply = errors.New("malformed model reply")

// New returns the backend selected by the config.
func New(cfg types.FactCheckConfig) (Backend, error) {
	switch cfg.Backend {
	case types.BackendOllama, "":
		return NewOllamaBackend(cfg), nil
	case types.BackendOpenAI:
		return NewOpenAIBackend(cfg), nil
	default:
		return nil, fmt.Errorf("unknown fact-check backend %q", cfg.Backend)
	}
}

// verdictReply mirrors the JSON schema the prompt instructs the model to
// answer with.
type verdictReply struct {
	Supported   *bool   `json:"reference_supports_citation"`
	Explanation *string `json:"brief_explanation"`
}

// parseVerdict decodes a model reply into a Verdict. Extra fields are
// tolerated and dropped; a missing or non-boolean support field is a
// malformed reply.
func parseVerdict(raw string) (types.Verdict, error) {
	var reply verdictReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return types.Verdict{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if reply.Supported == nil {
		return types.Verdict{}, fmt.Errorf("%w: missing reference_supports_citation", ErrMalformedReply)
	}
	if reply.Explanation == nil {
		return types.Verdict{}, fmt.Errorf("%w: missing brief_explanation", ErrMalformedReply)
	}
	return types.Verdict{
		Supported:   *reply.Supported,
		Explanation: *reply.Explanation,
	}, nil
}
