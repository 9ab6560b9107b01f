package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	askLanguage string
	askCategory string

	voiceLanguage string
	voiceCategory string
)

func init() {
	askCmd.Flags().StringVar(&askLanguage, "language", "", "Query language: en, yo, ha, ig (defaults to config)")
	askCmd.Flags().StringVar(&askCategory, "category", "", "Force a category: health, education, finance, entertainment")

	voiceCmd.Flags().StringVar(&voiceLanguage, "language", "", "Query language: en, yo, ha, ig (defaults to config)")
	voiceCmd.Flags().StringVar(&voiceCategory, "category", "", "Force a category: health, education, finance, entertainment")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(voiceCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask <text...>",
	Short: "Ask the assistant a text question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")

		client, cfg := newClient()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := client.TextQuery(ctx, text, language(cfg, askLanguage), askCategory)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}

		fmt.Println(result.Response)
		if result.AudioURL != "" {
			fmt.Printf("\nAudio: %s\n", result.AudioURL)
		}
		return nil
	},
}

var voiceCmd = &cobra.Command{
	Use:   "voice <audio-file>",
	Short: "Submit a recorded voice query",
	Long:  "Upload a recorded audio file as a voice query. The recognized question and the assistant's answer are printed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		audio, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read audio file: %w", err)
		}

		client, cfg := newClient()
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		result, err := client.VoiceUpload(ctx, audio, filepath.Base(path), language(cfg, voiceLanguage), voiceCategory)
		if err != nil {
			return fmt.Errorf("voice upload failed: %w", err)
		}

		fmt.Printf("Heard:  %s\n", result.Query)
		fmt.Printf("Answer: %s\n", result.Response)
		if result.AudioURL != "" {
			fmt.Printf("Audio:  %s\n", result.AudioURL)
		}
		return nil
	},
}
