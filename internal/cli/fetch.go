package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pubmedrag/internal/export"
)

var (
	fetchLimit  int
	fetchOut    string
	fetchFormat string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [query]",
	Short: "Fetch papers from PubMed, summarize them and build the index",
	Long: `Searches PubMed for the query, summarizes each abstract, writes the
session cache and persists a fresh vector index for later search and chat.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVarP(&fetchLimit, "limit", "n", 0, "maximum number of papers (default from config)")
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "also export the fetched papers to this file")
	fetchCmd.Flags().StringVar(&fetchFormat, "format", export.FormatCSV, "export format: csv, md or json")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	limit := fetchLimit
	if limit <= 0 {
		limit = cfg.PubMed.FetchLimit
	}

	papers, err := getPipeline().FetchAndIndex(cmd.Context(), args[0], limit)
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		cmd.Println("No papers found.")
		return nil
	}

	cmd.Printf("Fetched and indexed %d papers:\n\n", len(papers))
	printPaperList(cmd.OutOrStdout(), papers)

	if fetchOut != "" {
		if err := export.Save(fetchOut, fetchFormat, papers); err != nil {
			return fmt.Errorf("exporting results: %w", err)
		}
		cmd.Printf("Exported to %s\n", fetchOut)
	}
	return nil
}
