// Command ArticleData extracts the septic arthritis hospitalizations of the
// study from the SIH/SUS RD files: for every federative unit and every year
// of the study window it downloads the raw records, keeps the adult
// admissions whose principal diagnosis is in the M00.x allow-list and
// appends them to a single CSV. The statistical analysis reads that CSV.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/WelCode99/ArticleData/config"
	"github.com/WelCode99/ArticleData/datasus"
	"github.com/WelCode99/ArticleData/logging"
	"github.com/WelCode99/ArticleData/pipeline"
)

func main() {
	// The env file is optional; the defaults reproduce the study run
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogDir, logging.ParseLevel(cfg.LogLevel))

	fmt.Printf("Iniciando extração SIH/SUS, %d-%d, saída em %s\n",
		cfg.YearStart, cfg.YearEnd, cfg.OutputPath)
	start := time.Now()

	sink, err := pipeline.NewCSVSink(cfg.OutputPath)
	if err != nil {
		logging.Error("Failed to prepare output file", "path", cfg.OutputPath, "error", err)
		os.Exit(1)
	}

	client := datasus.NewClient(cfg.BaseURL, cfg.HTTPTimeout, cfg.RetryMax)

	summary := pipeline.New(client, sink, cfg.YearStart, cfg.YearEnd).Run(context.Background())

	if err := sink.Close(); err != nil {
		logging.Error("Failed to close output file", "error", err)
		os.Exit(1)
	}

	logging.Info("Extraction completed",
		"duration", time.Since(start).String(),
		"rows_kept", summary.RowsKept,
		"scopes_saved", summary.ScopesSaved,
		"scopes_empty", summary.ScopesEmpty,
		"scopes_failed", summary.ScopesFailed)

	fmt.Printf("Concluído: %d linhas salvas em %s\n", summary.RowsKept, cfg.OutputPath)
}
