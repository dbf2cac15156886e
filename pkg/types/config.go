package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citecheck/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ArticleConfig holds settings for the article-fetch stage.
type ArticleConfig struct {
	HTTPConfig `yaml:",inline"`

	// RandomURL is the endpoint that redirects to a random article
	// (default "https://en.wikipedia.org/wiki/Special:Random").
	RandomURL string `json:"random_url" yaml:"random_url"`
}

// ReferenceConfig holds settings for fetching and extracting cited references.
type ReferenceConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxContentBytes caps the extracted reference text passed to the
	// fact-check prompt (default 8192). The cap keeps prompts inside the
	// model's context budget; it is a tunable, not a protocol constant.
	MaxContentBytes int `json:"max_content_bytes" yaml:"max_content_bytes"`
}

// LLMBackend identifies the inference backend used for fact-checking.
type LLMBackend string

const (
	BackendOllama LLMBackend = "ollama"
	BackendOpenAI LLMBackend = "openai"
)

// FactCheckConfig holds settings for the fact-check stage.
type FactCheckConfig struct {
	// Backend selects the inference backend: ollama or openai.
	Backend LLMBackend `json:"backend" yaml:"backend"`

	// Endpoint is the inference server base URL
	// (e.g. "http://localhost:11434" for Ollama).
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Model is the model identifier passed to the backend.
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against OpenAI-compatible endpoints. Unused
	// by the Ollama backend.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout is the per-call timeout for inference requests.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ReportFormat selects the report output format.
type ReportFormat string

const (
	FormatText ReportFormat = "text"
	FormatYAML ReportFormat = "yaml"
)

// ReportConfig holds settings for the report stage.
type ReportConfig struct {
	// Format selects the output format: text or yaml.
	Format ReportFormat `json:"format" yaml:"format"`

	// ExcerptWidth is the number of trailing runes of the cited sentence
	// shown per citation line (default 90).
	ExcerptWidth int `json:"excerpt_width" yaml:"excerpt_width"`
}

// PipelineConfig groups all stage configurations for one run.
type PipelineConfig struct {
	Article   ArticleConfig   `json:"article" yaml:"article"`
	Reference ReferenceConfig `json:"reference" yaml:"reference"`
	FactCheck FactCheckConfig `json:"fact_check" yaml:"fact_check"`
	Report    ReportConfig    `json:"report" yaml:"report"`
}
