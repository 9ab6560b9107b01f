package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyPage int
	historyJSON bool
)

func init() {
	historyCmd.Flags().IntVar(&historyPage, "page", 1, "Page number")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output raw JSON")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past queries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _ := newClient()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		page, err := client.History(ctx, historyPage)
		if err != nil {
			return fmt.Errorf("failed to fetch history: %w", err)
		}

		if historyJSON {
			data, err := json.MarshalIndent(page, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal history: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("%d record(s) total\n\n", page.Count)
		for _, rec := range page.Results {
			fmt.Printf("%s [%s/%s]\n", rec.Timestamp, rec.Language, rec.Category)
			fmt.Printf("  Q: %s\n", rec.Query)
			fmt.Printf("  A: %s\n\n", rec.Response)
		}
		if page.Next != nil {
			fmt.Printf("More available: rerun with --page %d\n", historyPage+1)
		}
		return nil
	},
}
