package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/optimize"
	"github.com/jonathan/resume-builder/internal/server"
)

var (
	servePort    int
	serveBackend string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for profiles, master data, and storage operations.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveBackend, "backend", "", "Storage backend: local, database, or memory (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveBackend != "" {
		cfg.Backend = serveBackend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	var collab optimize.Collaborator
	if cfg.GeminiAPIKey != "" {
		collab, err = optimize.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
	} else {
		log.Println("GEMINI_API_KEY not set; optimization endpoints disabled")
	}

	srv := server.New(server.Config{
		Port:           cfg.Port,
		AllowedOrigin:  cfg.AllowedOrigin,
		JWTSecret:      cfg.JWTSecret,
		DefaultBackend: cfg.Backend,
	}, newGatewayFactory(cfg), collab)

	return srv.Start()
}
