// Package cli implements the askdocs command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdocs/internal/adapters/driven/embedding"
	ollamaembed "github.com/custodia-labs/askdocs/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/askdocs/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/askdocs/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/askdocs/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/askdocs/internal/adapters/driven/storage/memory"
	vectormem "github.com/custodia-labs/askdocs/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/askdocs/internal/chunker"
	"github.com/custodia-labs/askdocs/internal/config"
	"github.com/custodia-labs/askdocs/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs/internal/core/services"
	"github.com/custodia-labs/askdocs/internal/extract/pdf"
	"github.com/custodia-labs/askdocs/internal/extract/plaintext"
	"github.com/custodia-labs/askdocs/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands, set during Initialize or by tests.
var (
	documentService driving.DocumentService
	qaService       driving.QAService
	appConfig       config.Config
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "askdocs",
	Short: "Ask questions about your documents",
	Long: `askdocs ingests plain text and PDF documents, indexes them by
embedding or keyword, and answers natural-language questions about
their content. Works fully offline on the keyword path; configure an
embedding and completion provider for semantic search and synthesized
answers.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetServices injects the services the commands operate on.
func SetServices(doc driving.DocumentService, qa driving.QAService) {
	documentService = doc
	qaService = qa
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Initialize builds the full service stack from the configuration and
// wires it into the commands. Provider construction failures are fatal
// here rather than surfacing on the first request.
func Initialize(cfg config.Config) error {
	appConfig = cfg

	embedder, err := buildEmbedder(cfg.Embedding)
	if err != nil {
		return fmt.Errorf("embedding provider: %w", err)
	}

	llm, err := buildLLM(cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm provider: %w", err)
	}

	store := memory.NewDocumentStore()
	index := vectormem.NewIndex()
	split := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.ChunkSize),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)

	docService := services.NewDocumentService(store, index, embedder, split,
		plaintext.New(),
		pdf.New(),
	)
	SetServices(docService, services.NewQAService(store, index, embedder, llm))
	return nil
}

// buildEmbedder constructs the configured embedding provider wrapped in
// the degrading gateway, or nil for the "none" provider.
func buildEmbedder(cfg config.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case config.ProviderNone, "":
		return nil, nil
	case config.ProviderOllama:
		provider := ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			Dimensions:        cfg.Dimensions,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})
		return embedding.NewGateway(provider), nil
	case config.ProviderOpenAI:
		provider, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:            cfg.APIKey,
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})
		if err != nil {
			return nil, err
		}
		return embedding.NewGateway(provider), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// buildLLM constructs the configured completion provider, or nil for
// the "none" provider.
func buildLLM(cfg config.LLMConfig) (driven.LLMService, error) {
	switch cfg.Provider {
	case config.ProviderNone, "":
		return nil, nil
	case config.ProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			RequestsPerSecond: cfg.RequestsPerSecond,
		}), nil
	case config.ProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:            cfg.APIKey,
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
