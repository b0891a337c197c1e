package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pubmedrag/internal/domain"
	"pubmedrag/internal/retriever"
	"pubmedrag/internal/service"
)

var indexFile string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the vector index from cached or imported papers",
	Long: `Re-embeds papers and replaces the persisted index generation. By
default the papers come from the session cache left by the last fetch; with
--file they are read from an exported JSON paper list (and become the new
session cache).`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexFile, "file", "f", "", "JSON paper list to index instead of the cache")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	papers, err := loadIndexInput()
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		cmd.Println("No papers to index. Run 'pubmedrag fetch' first.")
		return nil
	}

	if err := getPipeline().Reindex(cmd.Context(), papers); err != nil {
		return err
	}
	if indexFile != "" {
		if err := retriever.SaveCache(cfg.Index.CachePath, papers); err != nil {
			return fmt.Errorf("updating session cache: %w", err)
		}
	}
	cmd.Printf("Indexed %d papers into %s\n", len(papers), cfg.Index.Dir)
	return nil
}

func loadIndexInput() ([]domain.Paper, error) {
	if indexFile != "" {
		return service.LoadPapers(indexFile)
	}
	return retriever.LoadCache(cfg.Index.CachePath)
}
