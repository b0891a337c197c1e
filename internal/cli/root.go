// Package cli defines the command-line surface of the application.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"pubmedrag/internal/config"
	"pubmedrag/internal/domain"
	"pubmedrag/internal/embedding"
	"pubmedrag/internal/llm"
	"pubmedrag/internal/logger"
	"pubmedrag/internal/pubmed"
	"pubmedrag/internal/retriever"
	"pubmedrag/internal/service"
	"pubmedrag/internal/summarizer"
	"pubmedrag/internal/synthesis"
)

var (
	cfgPath string
	debug   bool

	cfg *config.AppConfig

	// services are wired from cfg on first use; tests preset them
	paperSource domain.Source
	embedder    domain.Embedder
	generator   domain.Generator
	searcher    domain.Retriever
	answerer    domain.Synthesizer
)

var rootCmd = &cobra.Command{
	Use:               "pubmedrag",
	Short:             "Fetch PubMed papers and chat about them with a local LLM",
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error { return rootCmd.Execute() }

func setup(_ *cobra.Command, _ []string) error {
	logger.SetDebug(debug)
	if cfg != nil {
		return nil
	}
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config %s: %w", cfgPath, err)
		}
		cfg = loaded
		return nil
	}
	loaded, path, err := config.LoadDefault()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger.Debugf("using config %s", path)
	cfg = loaded
	return nil
}

func getSource() domain.Source {
	if paperSource == nil {
		paperSource = pubmed.NewClient(pubmed.Config{
			BaseURL: cfg.PubMed.BaseURL,
			Email:   cfg.PubMed.Email,
			Timeout: time.Duration(cfg.PubMed.TimeoutSecs) * time.Second,
		})
	}
	return paperSource
}

func getEmbedder() domain.Embedder {
	if embedder == nil {
		embedder = embedding.NewClient(embedding.Config{
			BaseURL:   cfg.Embedder.BaseURL,
			Model:     cfg.Embedder.Model,
			APIKeyEnv: cfg.Embedder.APIKeyEnv,
			Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
		})
	}
	return embedder
}

func getGenerator() domain.Generator {
	if generator == nil {
		generator = llm.NewClient(llm.Config{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		})
	}
	return generator
}

// getSummarizer picks the LLM summarizer when generation is enabled and the
// frequency fallback otherwise.
func getSummarizer() domain.Summarizer {
	if cfg.LLM.Enabled {
		return summarizer.NewLLM(getGenerator())
	}
	return summarizer.NewFrequency(2)
}

func getPipeline() *service.Pipeline {
	return service.New(getSource(), getSummarizer(), getEmbedder(), cfg.Index.Dir, cfg.Index.CachePath)
}

func getRetriever() domain.Retriever {
	if searcher == nil {
		searcher = retriever.New(getEmbedder(), cfg.Index.Dir, cfg.Index.CachePath)
	}
	return searcher
}

func getSynthesizer() domain.Synthesizer {
	if answerer == nil {
		answerer = synthesis.New(getGenerator(), cfg.LLM.MaxAttempts)
	}
	return answerer
}

func printPaperList(out io.Writer, papers []domain.Paper) {
	for i, p := range papers {
		fmt.Fprintf(out, "[%d] %s\n", i+1, p.Title)
		fmt.Fprintf(out, "    PubMed ID: %s  (%s)\n", p.PubmedID, p.PublicationDate)
		fmt.Fprintf(out, "    Authors: %s\n", p.Authors)
		if len(p.CompanyAffiliations) > 0 {
			fmt.Fprintf(out, "    Company affiliations: %v\n", p.CompanyAffiliations)
		}
		if p.Summary != "" {
			fmt.Fprintf(out, "    Summary: %s\n", p.Summary)
		}
		fmt.Fprintln(out)
	}
}
