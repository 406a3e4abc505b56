// Command agent runs the grocery scraping assistant, either as an
// interactive menu or as a one-shot natural-language query.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rakibhsn/chaldal-agent/agent"
	"github.com/rakibhsn/chaldal-agent/catalog"
	"github.com/rakibhsn/chaldal-agent/config"
	"github.com/rakibhsn/chaldal-agent/logging"
	"github.com/rakibhsn/chaldal-agent/scraper"
	"github.com/rakibhsn/chaldal-agent/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "agent: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()

	if cfg.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set; add it to the environment or a .env file")
	}

	st := store.New(cfg.DatabaseFile, logger)
	registry, err := catalog.NewRegistry(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize category registry: %w", err)
	}
	verifier, err := catalog.NewVerifier(cfg, logger, registry)
	if err != nil {
		return fmt.Errorf("initialize category verifier: %w", err)
	}

	metrics := scraper.NewMetrics()
	if cfg.MetricsAddr != "" {
		startMetricsServer(cfg.MetricsAddr, metrics, logger)
	}

	sc := scraper.New(cfg, logger, registry, st, metrics)
	dispatcher := agent.NewDispatcher(cfg, logger, sc, registry, verifier, st)
	client := agent.NewClient(cfg)
	ai := agent.NewAgent(client, dispatcher, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GlobalTimeout)
	defer cancel()

	if len(os.Args) > 1 {
		query := strings.Join(os.Args[1:], " ")
		return runOnce(ctx, ai, query)
	}
	return runMenu(ctx, cfg, logger, ai, dispatcher, st)
}

func startMetricsServer(addr string, metrics *scraper.Metrics, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
}

// runOnce executes a single natural-language query and prints the
// response as JSON.
func runOnce(ctx context.Context, ai *agent.Agent, query string) error {
	response := ai.Run(ctx, query)
	encoded, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	fmt.Println(string(encoded))
	if response.Status == agent.RunError {
		return fmt.Errorf("request failed")
	}
	return nil
}

const menu = `
==================================================
Grocery Scraper Agent
==================================================
1. Ask the AI agent (natural language)
2. List available categories
3. Scrape a specific category
4. View scraped data
5. Refresh categories
6. Test database
7. Exit
`

// runMenu drives the interactive loop. Each iteration reads one choice
// and executes one operation; failures print and return to the menu.
func runMenu(ctx context.Context, cfg *config.Config, logger *zap.Logger, ai *agent.Agent, dispatcher *agent.Dispatcher, st *store.Store) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(menu)
		fmt.Print("Choose an option (1-7): ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			fmt.Print("What would you like me to do? ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			query := strings.TrimSpace(scanner.Text())
			if query == "" {
				fmt.Println("Please enter a request.")
				continue
			}
			response := ai.Run(ctx, query)
			fmt.Printf("\n%s\n[status: %s]\n", response.Summary, response.Status)

		case "2":
			summary, err := dispatcher.ListCategories(ctx)
			printResult(summary, err)

		case "3":
			fmt.Print("Enter category name (e.g. rice, dal, food): ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			category := strings.TrimSpace(scanner.Text())
			if category == "" {
				fmt.Println("Please enter a category name.")
				continue
			}
			summary, err := dispatcher.Execute(ctx, agent.ToolCall{Kind: agent.ToolScrapeProducts, Category: category})
			printResult(summary, err)

		case "4":
			fmt.Print("Filter by category (blank for all): ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			category := strings.TrimSpace(scanner.Text())
			fmt.Print("How many products to show (default 10): ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			limit := 10
			if raw := strings.TrimSpace(scanner.Text()); raw != "" {
				if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
					limit = parsed
				}
			}
			summary, err := dispatcher.ViewData(category, limit)
			printResult(summary, err)

		case "5":
			summary, err := dispatcher.RefreshCategories(ctx)
			printResult(summary, err)

		case "6":
			testDatabase(cfg, st)

		case "7":
			fmt.Println("Goodbye!")
			return nil

		default:
			fmt.Println("Invalid option, please choose 1-7.")
		}
	}
}

func printResult(summary string, err error) {
	fmt.Println()
	fmt.Println(summary)
	if err != nil {
		fmt.Printf("[error: %v]\n", err)
	}
}

// testDatabase verifies the database is reachable and reports row
// counts.
func testDatabase(cfg *config.Config, st *store.Store) {
	if err := st.InitSchema(); err != nil {
		fmt.Printf("\nDatabase test failed: %v\n", err)
		return
	}
	products, categories, err := st.Stats()
	if err != nil {
		fmt.Printf("\nDatabase test failed: %v\n", err)
		return
	}
	fmt.Printf("\nDatabase OK: %s\n", cfg.DatabaseFile)
	fmt.Printf("  products:   %d\n", products)
	fmt.Printf("  categories: %d\n", categories)
}
