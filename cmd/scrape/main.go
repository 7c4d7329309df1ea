// Command scrape runs the extraction pipeline against one or more
// fund URLs from the command line.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fundsift/fundsift/internal/batch"
	"github.com/fundsift/fundsift/internal/config"
	"github.com/fundsift/fundsift/internal/extract"
	"github.com/fundsift/fundsift/internal/fetch"
	"github.com/fundsift/fundsift/internal/logging"
	"github.com/fundsift/fundsift/internal/scrape"
	"github.com/fundsift/fundsift/internal/store"
)

func main() {
	urlsFile := flag.String("urls", "", "File with one URL per line")
	storeDir := flag.String("store", "", "Record store directory (overrides STORE_DIR)")
	workers := flag.Int("workers", 0, "Worker pool size (overrides BATCH_WORKERS)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *storeDir != "" {
		cfg.Store.Dir = *storeDir
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}

	urls := flag.Args()
	if *urlsFile != "" {
		fromFile, err := readURLs(*urlsFile)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *urlsFile, err)
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		log.Fatal("No URLs given; pass them as arguments or via -urls")
	}

	logger := logging.MustNew(cfg.Logging)
	defer logger.Sync()

	st, err := store.New(cfg.Store.Dir, logger, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	engine := extract.NewEngine(
		extract.WithBounds(cfg.Extract.Bounds()),
		extract.WithLogger(logger),
	)
	fetcher := fetch.New(cfg.Fetch, logger, nil)
	scraper := scrape.New(fetcher, engine, st, logger)

	runner := batch.NewRunner(cfg.Batch.Workers, func(ctx context.Context, url string) error {
		_, err := scraper.ScrapeURL(ctx, url)
		return err
	}, logger, nil)

	summary := runner.Run(context.Background(), urls)

	fmt.Printf("Scraped %d URLs: %d ok, %d failed\n",
		summary.Total, summary.Successful, summary.Failed)
	for _, e := range summary.Errors {
		fmt.Fprintln(os.Stderr, e)
	}
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
