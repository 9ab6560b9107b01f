package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	voicebridge "github.com/ayreact/VoiceBridge"
	"github.com/spf13/cobra"
)

var (
	lessonsLanguage string
	lessonsCategory string
	lessonsSearch   string
	lessonsPage     int
	lessonsJSON     bool
)

func init() {
	lessonsCmd.Flags().StringVar(&lessonsLanguage, "language", "all", "Filter by language (en, yo, ha, ig, all)")
	lessonsCmd.Flags().StringVar(&lessonsCategory, "category", "all", "Filter by category")
	lessonsCmd.Flags().StringVar(&lessonsSearch, "search", "", "Free-text search over title and body")
	lessonsCmd.Flags().IntVar(&lessonsPage, "page", 1, "Page number")
	lessonsCmd.Flags().BoolVar(&lessonsJSON, "json", false, "Output raw JSON")
	rootCmd.AddCommand(lessonsCmd)
}

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Browse learning lessons",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _ := newClient()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		page, err := client.Lessons(ctx, voicebridge.LessonFilter{
			Language: lessonsLanguage,
			Category: lessonsCategory,
			Search:   lessonsSearch,
			Page:     lessonsPage,
		})
		if err != nil {
			return fmt.Errorf("failed to list lessons: %w", err)
		}

		if lessonsJSON {
			data, err := json.MarshalIndent(page, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal lessons: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("%d lesson(s) total\n\n", page.Count)
		for _, lesson := range page.Results {
			fmt.Printf("[%s/%s] %s\n", lesson.Language, lesson.Category, lesson.Title)
			fmt.Printf("  %s\n\n", lesson.Body)
		}
		if page.Next != nil {
			fmt.Printf("More available: rerun with --page %d\n", lessonsPage+1)
		}
		return nil
	},
}
