// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders the per-citation verdicts of one run.
package report

import (
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citecheck/pkg/types"
)

// noSourcePlaceholder stands in for a citation without a resolvable URL.
const noSourcePlaceholder = "(no source URL)"

// DefaultExcerptWidth is the trailing-rune budget for excerpt lines.
const DefaultExcerptWidth = 90

// Write renders the report in the configured format. Results are emitted
// in citation order, placeholders included; callers never reorder.
func Write(out io.Writer, rep types.RunReport, cfg types.ReportConfig) error {
	switch cfg.Format {
	case types.FormatYAML:
		return writeYAML(out, rep)
	case types.FormatText, "":
		return writeText(out, rep, cfg)
	default:
		return fmt.Errorf("unknown report format %q", cfg.Format)
	}
}

// writeText renders the human-readable format: article header, then one
// blank-line-separated block per citation.
func writeText(out io.Writer, rep types.RunReport, cfg types.ReportConfig) error {
	if _, err := fmt.Fprintf(out, "%s\n%s\n\n", rep.Title, rep.URL); err != nil {
		return err
	}

	for _, res := range rep.Results {
		source := res.Citation.SourceURL
		if source == "" {
			source = noSourcePlaceholder
		}

		_, err := fmt.Fprintf(out, "Citation %d: %s\n\t%s\n\tSupported: %s\n\tExplanation: %s\n\n",
			res.Citation.Index,
			tailExcerpt(res.Citation.Excerpt, cfg.ExcerptWidth),
			source,
			formatBool(res.Verdict.Supported),
			res.Verdict.Explanation,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeYAML renders the machine-readable format.
func writeYAML(out io.Writer, rep types.RunReport) error {
	data, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// tailExcerpt keeps the trailing width runes of the excerpt, prefixed with
// an ellipsis when truncated. The tail is what sits next to the citation
// marker, so it is the text the footnote actually annotates.
func tailExcerpt(excerpt string, width int) string {
	if width <= 0 {
		width = DefaultExcerptWidth
	}
	runes := []rune(excerpt)
	if len(runes) <= width {
		return excerpt
	}
	return "..." + string(runes[len(runes)-width:])
}

// formatBool renders the verdict boolean in the report's Title-case form.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
