// Command scrape runs a single refresh pass and prints what each source
// produced. With -dry-run nothing is written.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/ShreyaSuvarna1/Veerpath/internal/cache"
	"github.com/ShreyaSuvarna1/Veerpath/internal/config"
	"github.com/ShreyaSuvarna1/Veerpath/internal/core"
	"github.com/ShreyaSuvarna1/Veerpath/internal/httpx"
	"github.com/ShreyaSuvarna1/Veerpath/internal/jobs"
	"github.com/ShreyaSuvarna1/Veerpath/internal/logging"
	"github.com/ShreyaSuvarna1/Veerpath/internal/scraper"
	"github.com/ShreyaSuvarna1/Veerpath/internal/store"
)

func main() {
	configPath := flag.String("config", os.Getenv("VEERPATH_CONFIG"), "Path to YAML config file")
	out := flag.String("out", "", "JSON file to write (defaults to the configured storage path)")
	dryRun := flag.Bool("dry-run", false, "Scrape and merge without saving")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.New(os.Stderr, cfg.Logging.Level, "text")

	fetcher := httpx.NewCollyFetcher(httpx.Options{
		UserAgent:      cfg.Fetch.UserAgent,
		AcceptLanguage: cfg.Fetch.AcceptLanguage,
		Timeout:        cfg.Fetch.Timeout,
		RespectRobots:  cfg.Fetch.RespectRobots,
		HostInterval:   cfg.Fetch.HostInterval,
	})
	s := scraper.New(fetcher)
	ctx := context.Background()

	if *dryRun {
		var lists [][]jobs.Record
		for _, src := range cfg.Sources {
			res := s.Scrape(ctx, src)
			if res.Failed() {
				logger.Warn("source failed", "source", src.ID, "error", res.Err)
				continue
			}
			lists = append(lists, res.Records)
		}
		printJobs(jobs.Merge(lists...))
		return
	}

	path := *out
	if path == "" {
		path = cfg.Storage.Path
	}
	cell := cache.New()
	fileStore := store.NewFileStore(path)
	pipeline := core.NewPipeline(s, cfg.Sources, fileStore, cell, logger)

	rep, err := pipeline.RunOnce(ctx)
	if err != nil {
		log.Fatalf("Refresh failed: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tJOBS\tERROR")
	for _, sr := range rep.Sources {
		errText := "-"
		if sr.Err != nil {
			errText = sr.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", sr.Source, sr.Records, errText)
	}
	w.Flush()

	if rep.Skipped {
		fmt.Println("every source failed; nothing written")
		return
	}
	fmt.Printf("run %s: %d jobs written to %s\n", rep.RunID, rep.Published, fileStore.Path())
}

func printJobs(list []jobs.Record) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tTITLE\tLINK")
	for _, j := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n", j.Source, j.Title, j.Link)
	}
	w.Flush()
}
