package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wsbscraper/pkg/arcticshift"
	"wsbscraper/pkg/config"
	"wsbscraper/pkg/logger"
	"wsbscraper/pkg/scraper"
	"wsbscraper/pkg/storage"
)

var (
	startDate          string
	endDate            string
	dbPath             string
	subreddit          string
	pageSize           int
	requestDelay       time.Duration
	maxRetries         int
	checkpointInterval int
)

// scrapeCmd runs the ingestion pipeline
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Ingest comments for the configured date range",
	Long: `Fetch historical comments from the Arctic Shift archive for the configured
subreddit and date range, and store them in the SQLite database.

Re-running after an interruption is safe: the scraper resumes from the latest
comment already in the database and duplicate ids are skipped on insert.`,
	Example: `  # Ingest with default settings (r/wallstreetbets, 2020-12-01 to 2021-03-31)
  wsbscraper scrape

  # Custom window and database location
  wsbscraper scrape --start 2021-01-01 --end 2021-02-01 --db ./data/jan.sqlite

  # Slower pacing for a constrained provider
  wsbscraper scrape --request-delay 2s --checkpoint-interval 5`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&startDate, "start", "", "start date (YYYY-MM-DD)")
	scrapeCmd.Flags().StringVar(&endDate, "end", "", "end date (YYYY-MM-DD)")
	scrapeCmd.Flags().StringVar(&dbPath, "db", "", "path to SQLite database")
	scrapeCmd.Flags().StringVar(&subreddit, "subreddit", "", "subreddit to ingest")
	scrapeCmd.Flags().IntVar(&pageSize, "page-size", 0, "records per API request (max 100)")
	scrapeCmd.Flags().DurationVar(&requestDelay, "request-delay", 0, "pause between API requests")
	scrapeCmd.Flags().IntVar(&maxRetries, "max-retries", 0, "retry attempts for transport errors")
	scrapeCmd.Flags().IntVar(&checkpointInterval, "checkpoint-interval", 0, "batches between commits and progress reports")
}

func runScrape(cmd *cobra.Command, args []string) error {
	flags := make(map[string]interface{})
	if startDate != "" {
		flags["start"] = startDate
	}
	if endDate != "" {
		flags["end"] = endDate
	}
	if dbPath != "" {
		flags["db"] = dbPath
	}
	if subreddit != "" {
		flags["subreddit"] = subreddit
	}
	if pageSize > 0 {
		flags["page-size"] = pageSize
	}
	if requestDelay > 0 {
		flags["request-delay"] = requestDelay
	}
	if maxRetries > 0 {
		flags["max-retries"] = maxRetries
	}
	if checkpointInterval > 0 {
		flags["checkpoint-interval"] = checkpointInterval
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	// Bad configuration fails here, before the store or network is touched
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return err
	}
	log := logger.GetLogger()

	store, err := storage.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	client := arcticshift.NewClient(arcticshift.Options{
		BaseURL:    cfg.Archive.BaseURL,
		Subreddit:  cfg.Archive.Subreddit,
		PageSize:   cfg.Archive.PageSize,
		UserAgent:  cfg.Archive.UserAgent,
		MaxRetries: cfg.RateLimit.MaxRetries,
		Timeout:    cfg.RateLimit.RequestTimeout,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := scraper.New(cfg, client, store, log).Run(ctx)
	if summary != nil {
		printSummary(summary)
	}
	return err
}

func printSummary(s *scraper.Summary) {
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Ingestion finished: %s\n", s.Reason)
	fmt.Printf("Total comments in database: %d\n", s.TotalStored)
	if s.MinDate != "" {
		fmt.Printf("Date range: %s to %s\n", s.MinDate, s.MaxDate)
	}
	fmt.Printf("New comments inserted this run: %d (fetched %d in %d batches)\n",
		s.Inserted, s.Fetched, s.Batches)
	fmt.Println("------------------------------------------------------------")
}
