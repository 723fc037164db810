package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"insighto/ai"
	"insighto/app"
	"insighto/internal/config"
	"insighto/ports"
	"insighto/ui"
)

func main() {
	// .env is optional; environment variables win either way
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var rewriter ports.Rewriter
	if cfg.Rewriter.Enabled {
		client := ai.NewRewriteClient(ai.Config{
			URL:         cfg.Rewriter.URL,
			Model:       cfg.Rewriter.Model,
			Timeout:     cfg.Rewriter.Timeout,
			MaxTokens:   cfg.Rewriter.MaxTokens,
			Temperature: cfg.Rewriter.Temperature,
		})
		if client.Available(context.Background()) {
			rewriter = client
		} else {
			log.Println("Rewriting service unreachable, continuing without it")
		}
	}

	service := app.NewAnalysisService(cfg, rewriter)
	httpApp := ui.NewApp(service)
	if err := httpApp.Serve(ui.Config{Port: cfg.Server.Port}); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
