package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [base-url]",
	Short: "Create ~/.voicebridge/config.toml",
	Long: "Initialize the VoiceBridge CLI configuration. Pass a backend base URL to run online;\n" +
		"omit it to run fully offline from local storage.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if len(args) == 1 {
			cfg.Default.BaseURL = args[0]
		}
		if cfg.Default.Language == "" {
			cfg.Default.Language = "en"
		}

		if err := saveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		path, _ := configPath()
		fmt.Printf("Configuration saved to %s\n", path)
		if cfg.Default.BaseURL == "" {
			fmt.Println("No base URL configured; the assistant will run in offline mode.")
		}
		return nil
	},
}
