// Command cli runs one analysis over a local dataset file and prints the
// result as JSON. Useful for smoke-testing a dataset without the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"insighto/adapters/csvfile"
	"insighto/adapters/excel"
	"insighto/adapters/postgres"
	"insighto/app"
	dash "insighto/domain/dashboard"
	"insighto/internal/config"
	"insighto/ports"
	"insighto/ui"
)

func main() {
	var (
		filePath     = flag.String("file", "", "path to a CSV or Excel dataset")
		query        = flag.String("query", "", "SQL query to load the dataset from DATABASE_URL instead of a file")
		templatePath = flag.String("template", "", "optional dashboard template JSON")
		reportMode   = flag.Bool("report", false, "print a markdown report instead of JSON")
	)
	flag.Parse()

	if *filePath == "" && *query == "" {
		fmt.Fprintln(os.Stderr, "usage: cli -file dataset.csv [-template template.json] [-report]")
		os.Exit(2)
	}

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	reader, name, err := buildReader(cfg, *filePath, *query)
	if err != nil {
		log.Fatalf("%v", err)
	}

	t, err := reader.Read(ctx)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	tmpl := dash.DefaultTemplate()
	if *templatePath != "" {
		data, err := os.ReadFile(*templatePath)
		if err != nil {
			log.Fatalf("Failed to read template: %v", err)
		}
		tmpl, err = dash.ParseTemplate(data)
		if err != nil {
			log.Fatalf("Invalid template: %v", err)
		}
	}

	service := app.NewAnalysisService(cfg, nil)
	result := service.Analyze(ctx, t, tmpl, name)

	if *reportMode {
		fmt.Print(ui.RenderMarkdownReport(result))
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
}

func buildReader(cfg *config.Config, filePath, query string) (ports.TableReader, string, error) {
	if query != "" {
		if cfg.Database.URL == "" {
			return nil, "", fmt.Errorf("DATABASE_URL is required for -query")
		}
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			return nil, "", err
		}
		return postgres.NewReader(db, query), "query result", nil
	}

	name := filepath.Base(filePath)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xls":
		return excel.NewReader(filePath), name, nil
	default:
		return csvfile.NewReader(filePath), name, nil
	}
}
