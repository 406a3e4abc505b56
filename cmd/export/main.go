// Command export dumps stored products to CSV, JSON, or both.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/rakibhsn/chaldal-agent/config"
	"github.com/rakibhsn/chaldal-agent/export"
	"github.com/rakibhsn/chaldal-agent/logging"
	"github.com/rakibhsn/chaldal-agent/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "export: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := config.Load()

	var (
		dbPath   = flag.String("db", cfg.DatabaseFile, "path to the products database")
		category = flag.String("category", "", "filter by category substring (blank for all)")
		limit    = flag.Int("limit", 0, "maximum rows to export (0 for all)")
		format   = flag.String("format", "csv", "output format: csv, json, or dual")
		output   = flag.String("output", "products_export", "output path without extension")
	)
	flag.Parse()

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()

	st := store.New(*dbPath, logger)
	if err := st.InitSchema(); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	products, err := st.Query(*category, *limit)
	if err != nil {
		return fmt.Errorf("query products: %w", err)
	}
	if len(products) == 0 {
		return fmt.Errorf("no products to export")
	}

	var writer export.ProductWriter
	switch strings.ToLower(*format) {
	case "csv":
		writer, err = export.NewCSVWriter(*output + ".csv")
	case "json":
		writer, err = export.NewJSONWriter(*output + ".json")
	case "dual":
		writer, err = export.NewDualWriter(*output+".csv", *output+".json")
	default:
		return fmt.Errorf("unknown format %q (want csv, json, or dual)", *format)
	}
	if err != nil {
		return fmt.Errorf("create writer: %w", err)
	}

	if err := writer.Write(products); err != nil {
		writer.Close()
		return fmt.Errorf("write products: %w", err)
	}
	if err := writer.Validate(); err != nil {
		writer.Close()
		return fmt.Errorf("validate output: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}

	fmt.Printf("Exported %d products (%s format) to %s.*\n", len(products), *format, *output)
	return nil
}
