package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	voicebridge "github.com/ayreact/VoiceBridge"
	"go.uber.org/zap"
)

// newClient builds an SDK client from config and environment. The
// VOICEBRIDGE_API_BASE_URL environment variable overrides the config
// file; a blank base URL selects offline mode.
func newClient() (*voicebridge.Client, *Config) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	baseURL := os.Getenv("VOICEBRIDGE_API_BASE_URL")
	if baseURL == "" {
		baseURL = cfg.Default.BaseURL
	}

	var opts []voicebridge.ClientOption
	if baseURL != "" {
		opts = append(opts, voicebridge.WithBaseURL(baseURL))
	}
	if cfg.Default.DataDir != "" {
		opts = append(opts, voicebridge.WithDataDir(cfg.Default.DataDir))
	}
	if verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			opts = append(opts, voicebridge.WithLogger(logger))
		}
	}

	return voicebridge.NewClient(opts...), cfg
}

// language resolves the effective language: flag, then config, then
// English.
func language(cfg *Config, flag string) string {
	if flag != "" {
		return flag
	}
	if cfg.Default.Language != "" {
		return cfg.Default.Language
	}
	return voicebridge.LanguageEnglish
}

// promptPassword reads a password from stdin when it was not supplied
// as a flag.
func promptPassword(supplied string) (string, error) {
	if supplied != "" {
		return supplied, nil
	}
	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("cannot read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
