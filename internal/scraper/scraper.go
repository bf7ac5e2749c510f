package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/ShreyaSuvarna1/Veerpath/internal/jobs"
	"github.com/ShreyaSuvarna1/Veerpath/internal/observability"
)

// Fetcher retrieves raw markup for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error)
}

// Result is the outcome of scraping one source. Err is a fetch or extract
// failure; Records is empty whenever Err is set.
type Result struct {
	Source  jobs.Source
	Records []jobs.Record
	Err     error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

type Scraper struct {
	fetcher Fetcher
	now     func() time.Time
}

func New(fetcher Fetcher) *Scraper {
	return &Scraper{fetcher: fetcher, now: time.Now}
}

// WithClock overrides the extraction timestamp source.
func (s *Scraper) WithClock(now func() time.Time) *Scraper {
	s.now = now
	return s
}

// Scrape fetches and extracts one source. It never panics and never returns
// a partial list.
func (s *Scraper) Scrape(ctx context.Context, src Source) (res Result) {
	res = Result{Source: src.ID, Records: []jobs.Record{}}
	defer func() {
		if r := recover(); r != nil {
			observability.IncError(observability.ErrorUnknown, string(src.ID))
			res = Result{Source: src.ID, Records: []jobs.Record{}, Err: fmt.Errorf("scrape %s: panic: %v", src.ID, r)}
		}
	}()

	body, err := s.fetcher.Fetch(ctx, src.PageURL(), src.Timeout)
	if err != nil {
		observability.IncError(observability.Classify(err), string(src.ID))
		res.Err = err
		return res
	}
	observability.IncPagesFetched(string(src.ID))

	records, err := Extract(src, body, s.now())
	if err != nil {
		observability.IncError(observability.ErrorExtract, string(src.ID))
		res.Err = err
		return res
	}
	observability.AddRecordsExtracted(string(src.ID), len(records))
	res.Records = records
	return res
}
