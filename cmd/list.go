package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"categorization-service/internal/models"
	"categorization-service/internal/store"
)

var (
	listLimit    int
	listOffset   int
	listCategory string
)

// listCmd shows recent categorization events and the categories linked to
// each one. With --category only events linked to that category are shown.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent categorization events",
	Long: `Displays recent categorization events stored in the database, newest
first, with the category labels linked to each event. Supports pagination and
filtering by a category name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return err
		}
		defer appInstance.Close()

		var filterID int64
		if listCategory != "" {
			cat, err := appInstance.Store.GetCategoryByName(ctx, listCategory)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					fmt.Printf("No category named %q found.\n", listCategory)
					return nil
				}
				return fmt.Errorf("error looking up category: %w", err)
			}
			filterID = cat.ID
		}

		events, err := appInstance.Store.ListCategorizations(ctx, listLimit, listOffset)
		if err != nil {
			return fmt.Errorf("error listing categorizations: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No categorizations found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Channel", "Video", "Part", "Categories", "Created At"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		shown := 0
		for _, ev := range events {
			cats, err := appInstance.Store.CategoriesFor(ctx, ev.ID)
			if err != nil {
				return fmt.Errorf("error loading categories for categorization %d: %w", ev.ID, err)
			}

			if filterID != 0 && !hasCategory(cats, filterID) {
				continue
			}

			names := make([]string, len(cats))
			for i, c := range cats {
				names[i] = c.Name
			}
			table.Append([]string{
				strconv.FormatInt(ev.ID, 10),
				ev.ChannelID,
				ev.VideoID,
				ev.AudioPart,
				strings.Join(names, ", "),
				ev.CreatedAt.Format("2006-01-02 15:04:05"),
			})
			shown++
		}

		if shown == 0 {
			fmt.Printf("No categorizations linked to %q in the last %d events.\n", listCategory, len(events))
			return nil
		}
		table.Render()
		return nil
	},
}

func hasCategory(cats []*models.Category, id int64) bool {
	for _, c := range cats {
		if c.ID == id {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Maximum number of events to show")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of events to skip")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Only show events linked to this category name")
}
