package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"categorization-service/internal/categorizer"
)

var (
	categorizeTags     []string
	categorizeCategory string
	categorizeTopK     int
)

// categorizeCmd runs a one-off categorization from the command line, useful
// for smoke-testing the oracle without a broker or database round trip. The
// result is printed only; nothing is persisted or published.
var categorizeCmd = &cobra.Command{
	Use:   "categorize <text>",
	Short: "Categorize a text once and print the ranked labels",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()

		text := strings.Join(args, " ")
		scores, err := appInstance.Categorizer.Categorize(cmd.Context(), categorizer.Request{
			Text:     text,
			Tags:     categorizeTags,
			Category: categorizeCategory,
			TopK:     categorizeTopK,
		})
		if err != nil {
			return fmt.Errorf("categorization failed: %w", err)
		}

		bold := color.New(color.Bold)
		bold.Printf("Top %d categories:\n", len(scores))

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Rank", "Category", "Score"})
		for i, cs := range scores {
			table.Append([]string{
				fmt.Sprintf("%d", i+1),
				cs.Category,
				fmt.Sprintf("%.4f", cs.Score),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categorizeCmd)

	categorizeCmd.Flags().StringSliceVar(&categorizeTags, "tag", nil, "Extra candidate labels from tags (repeatable)")
	categorizeCmd.Flags().StringVar(&categorizeCategory, "category", "", "Extra candidate label from a known category")
	categorizeCmd.Flags().IntVar(&categorizeTopK, "top-k", 0, "Number of ranked labels to return (default from config)")
}
