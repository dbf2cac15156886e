// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citecheck/pkg/types"
)

func sampleReport() types.RunReport {
	return types.RunReport{
		Title: "Blue whale",
		URL:   "https://en.wikipedia.org/wiki/Blue_whale",
		Results: []types.Result{
			{
				Citation: types.Citation{Index: 1, Excerpt: "The blue whale is the largest animal.", SourceURL: "https://example.com/whales"},
				Verdict:  types.Verdict{Supported: true, Explanation: "stated directly in the source"},
			},
			{
				Citation: types.Citation{Index: 2, Excerpt: "It feeds on krill."},
				Verdict:  types.Verdict{Supported: false, Explanation: "reference content is inaccessible"},
			},
		},
	}
}

func TestWrite_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, sampleReport(), types.ReportConfig{Format: types.FormatText})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := "Blue whale\n" +
		"https://en.wikipedia.org/wiki/Blue_whale\n" +
		"\n" +
		"Citation 1: The blue whale is the largest animal.\n" +
		"\thttps://example.com/whales\n" +
		"\tSupported: True\n" +
		"\tExplanation: stated directly in the source\n" +
		"\n" +
		"Citation 2: It feeds on krill.\n" +
		"\t(no source URL)\n" +
		"\tSupported: False\n" +
		"\tExplanation: reference content is inaccessible\n" +
		"\n"

	if buf.String() != want {
		t.Errorf("report mismatch:\ngot:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestWrite_DefaultFormatIsText(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleReport(), types.ReportConfig{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Blue whale\n") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestWrite_ZeroCitations(t *testing.T) {
	rep := types.RunReport{Title: "Stub article", URL: "https://en.wikipedia.org/wiki/Stub"}

	var buf bytes.Buffer
	if err := Write(&buf, rep, types.ReportConfig{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := "Stub article\nhttps://en.wikipedia.org/wiki/Stub\n\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWrite_YAMLRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, sampleReport(), types.ReportConfig{Format: types.FormatYAML})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	var decoded types.RunReport
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Title != "Blue whale" {
		t.Errorf("Title = %q", decoded.Title)
	}
	if len(decoded.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(decoded.Results))
	}
	if !decoded.Results[0].Verdict.Supported {
		t.Error("Results[0] should be supported")
	}
	if decoded.Results[1].Citation.SourceURL != "" {
		t.Errorf("Results[1].SourceURL = %q, want empty", decoded.Results[1].Citation.SourceURL)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleReport(), types.ReportConfig{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestTailExcerpt(t *testing.T) {
	tests := []struct {
		name    string
		excerpt string
		width   int
		want    string
	}{
		{"short excerpt untouched", "A short claim.", 90, "A short claim."},
		{"exact width untouched", "abcde", 5, "abcde"},
		{"long excerpt keeps tail", "aaaa the end of the sentence.", 9, "...sentence."},
		{"zero width uses default", "short", 0, "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tailExcerpt(tt.excerpt, tt.width); got != tt.want {
				t.Errorf("tailExcerpt(%q, %d) = %q, want %q", tt.excerpt, tt.width, got, tt.want)
			}
		})
	}
}
