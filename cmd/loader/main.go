package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/vamsiche/retail-sales-api/internal/config"
	"github.com/vamsiche/retail-sales-api/internal/db"
	"github.com/vamsiche/retail-sales-api/internal/ingestion"
	"github.com/vamsiche/retail-sales-api/internal/repository"
)

// Bulk loader for sales exports. Runs migrations, then upserts every row of
// the given CSV or XLSX file into the sales table.
func main() {
	filePath := flag.String("file", "", "CSV or XLSX file to load")
	configPath := flag.String("config", ".", "directory containing config.yaml")
	migrationsPath := flag.String("migrations", "./migrations", "directory containing *.up.sql files")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("usage: loader -file <sales.csv|sales.xlsx>")
	}

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	conn, err := db.NewConnection(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn.Pool, *migrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *filePath, err)
	}
	defer file.Close()

	store := repository.NewTransactionRepository(conn.Pool)
	service := ingestion.NewService(store)

	summary, err := service.Load(ctx, ingestion.Request{FileName: *filePath, Data: file})
	if err != nil {
		log.Fatalf("Load failed: %v", err)
	}

	log.Printf("[LOADER] run %s: %d rows, %d loaded, %d skipped",
		summary.RunID, summary.TotalRows, summary.Loaded, summary.Skipped)
	for _, rowErr := range summary.Errors {
		log.Printf("[LOADER] row %d skipped: %s", rowErr.Row, rowErr.Reason)
	}
}
