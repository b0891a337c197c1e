package cli

import (
	"github.com/spf13/cobra"
)

var (
	searchTopK    int
	searchExplain bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find the most relevant indexed papers for a question",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of papers to return (default from config)")
	searchCmd.Flags().BoolVar(&searchExplain, "explain", false, "also generate a grounded answer from the results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	k := searchTopK
	if k <= 0 {
		k = cfg.Chat.TopK
	}

	papers, err := getRetriever().Retrieve(cmd.Context(), args[0], k)
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		cmd.Println("No relevant papers found. Run 'pubmedrag fetch' first.")
		return nil
	}

	cmd.Printf("Top %d relevant papers:\n\n", len(papers))
	printPaperList(cmd.OutOrStdout(), papers)

	if searchExplain {
		answer, err := getSynthesizer().Synthesize(cmd.Context(), args[0], papers)
		if err != nil {
			return err
		}
		cmd.Println(answer)
	}
	return nil
}
