// Package main provides the entry point for the resume builder server and
// its storage maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "resume_builder",
	Short: "Resume Builder HTTP API Server",
	Long:  "Resume Builder manages a master data bank and per-profile overrides for tailored resumes, served over a REST API with interchangeable storage backends.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings layers the config file (when given) over environment
// variables over built-in defaults, then validates the result.
func loadSettings() (config.Config, error) {
	cfg := config.FromEnv()
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	cfg = cfg.MergeWithDefaults(config.Defaults())

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
