package cli

import (
	"github.com/spf13/cobra"

	"pubmedrag/internal/export"
	"pubmedrag/internal/retriever"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the last fetched papers to CSV, Markdown or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", export.FormatCSV, "export format: csv, md or json")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	papers, err := retriever.LoadCache(cfg.Index.CachePath)
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		cmd.Println("Nothing to export. Run 'pubmedrag fetch' first.")
		return nil
	}
	if err := export.Save(args[0], exportFormat, papers); err != nil {
		return err
	}
	cmd.Printf("Exported %d papers to %s\n", len(papers), args[0])
	return nil
}
