package main

import (
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citecheck/internal/article"
	"github.com/pdiddy/citecheck/internal/convert"
	"github.com/pdiddy/citecheck/internal/factcheck"
	"github.com/pdiddy/citecheck/internal/pipeline"
	"github.com/pdiddy/citecheck/internal/reference"
	"github.com/pdiddy/citecheck/internal/report"
	"github.com/pdiddy/citecheck/pkg/types"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultEndpoint  = "http://localhost:11434"
	defaultModel     = "llama3.1:8b"
	defaultUserAgent = "citecheck/0.1"
)

func init() {
	rootCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout (article, references, and inference calls)")
	rootCmd.Flags().String("endpoint", defaultEndpoint, "inference endpoint base URL")
	rootCmd.Flags().String("model", defaultModel, "model identifier for fact-checking")
	rootCmd.Flags().String("llm-backend", string(types.BackendOllama), "inference backend: ollama or openai")
	rootCmd.Flags().String("output", string(types.FormatText), "report format: text or yaml")
	rootCmd.Flags().Int("excerpt-width", report.DefaultExcerptWidth, "trailing runes of the cited sentence shown per citation")
	rootCmd.Flags().Int("max-content-bytes", convert.DefaultMaxBytes, "cap on extracted reference text passed to the prompt")
	rootCmd.Flags().String("random-url", article.DefaultRandomURL, "endpoint that redirects to a random article")

	for _, name := range []string{
		"timeout", "endpoint", "model", "llm-backend", "output",
		"excerpt-width", "max-content-bytes", "random-url",
	} {
		viper.BindPFlag(name, rootCmd.Flags().Lookup(name))
	}
}

// runConfig assembles the pipeline configuration from flags, config file,
// environment, and secrets, in viper's usual precedence.
func runConfig() types.PipelineConfig {
	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("timeout"),
		UserAgent: defaultUserAgent,
	}

	return types.PipelineConfig{
		Article: types.ArticleConfig{
			HTTPConfig: httpCfg,
			RandomURL:  viper.GetString("random-url"),
		},
		Reference: types.ReferenceConfig{
			HTTPConfig:      httpCfg,
			MaxContentBytes: viper.GetInt("max-content-bytes"),
		},
		FactCheck: types.FactCheckConfig{
			Backend:  types.LLMBackend(viper.GetString("llm-backend")),
			Endpoint: viper.GetString("endpoint"),
			Model:    viper.GetString("model"),
			APIKey:   secretDefault("openai-api-key", viper.GetString("api-key")),
			Timeout:  viper.GetDuration("timeout"),
		},
		Report: types.ReportConfig{
			Format:       types.ReportFormat(viper.GetString("output")),
			ExcerptWidth: viper.GetInt("excerpt-width"),
		},
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	articleURL := ""
	if len(args) == 1 {
		articleURL = args[0]
	}

	cfg := runConfig()

	backend, err := factcheck.New(cfg.FactCheck)
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{
		Source: &article.WikipediaSource{
			Client: &http.Client{Timeout: cfg.Article.Timeout},
			Config: cfg.Article,
		},
		Refs: &reference.Fetcher{
			Client: &http.Client{Timeout: cfg.Reference.Timeout},
			Config: cfg.Reference,
		},
		Backend: backend,
	}

	// Progress goes to stderr; stdout carries only the report.
	rep, _, err := p.Run(cmd.Context(), articleURL, os.Stderr)
	if err != nil {
		return err
	}

	return report.Write(os.Stdout, rep, cfg.Report)
}
