// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package factcheck

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/citecheck/pkg/types"
)

// factCheckPromptTmpl is the prompt sent to the inference backend for each
// citation. It instructs the model to judge the citation against the
// reference text alone and answer in a fixed JSON shape.
var factCheckPromptTmpl = template.Must(template.New("factcheck").Parse(`You are a fact-checking assistant. Your task is to determine if the given citation is supported by the
provided reference content.

# System Preamble
Analyze the provided text citation from an encyclopedia article and the reference content that was meant to support it.
Determine if the reference supports the citation being checked, using only the reference source material below.
Provide a brief explanation for your decision. Your explanation should be concise, ideally one sentence.

## Style Guide
Respond in JSON format with the following schema and NOTHING else:
{
"reference_supports_citation": boolean,
"brief_explanation": string
}

## Citation being checked
{{.Excerpt}}

## Reference source material
Source: {{.SourceURL}}

{{.Content}}
`))

// promptData feeds the fact-check template.
type promptData struct {
	Excerpt   string
	SourceURL string
	Content   string
}

// renderPrompt executes the fact-check template for one citation.
func renderPrompt(cit types.Citation, referenceText string) (string, error) {
	var buf bytes.Buffer
	err := factCheckPromptTmpl.Execute(&buf, promptData{
		Excerpt:   cit.Excerpt,
		SourceURL: cit.SourceURL,
		Content:   referenceText,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
