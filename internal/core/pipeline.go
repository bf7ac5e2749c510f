package core

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ShreyaSuvarna1/Veerpath/internal/cache"
	"github.com/ShreyaSuvarna1/Veerpath/internal/jobs"
	"github.com/ShreyaSuvarna1/Veerpath/internal/observability"
	"github.com/ShreyaSuvarna1/Veerpath/internal/scraper"
	"github.com/ShreyaSuvarna1/Veerpath/internal/store"
)

// SourceScraper fetches and extracts a single source.
type SourceScraper interface {
	Scrape(ctx context.Context, src scraper.Source) scraper.Result
}

type SourceReport struct {
	Source  jobs.Source
	Records int
	Err     error
}

type Report struct {
	RunID      string
	Sources    []SourceReport
	Scraped    int
	Published  int
	Skipped    bool // every source failed, previous snapshot kept
	StartedAt  time.Time
	FinishedAt time.Time
}

// Pipeline runs scrape, merge and publish. It is the only writer of the
// snapshot cell.
type Pipeline struct {
	scraper SourceScraper
	sources []scraper.Source
	store   store.Store
	cell    *cache.Cell
	log     *slog.Logger
	now     func() time.Time
	busy    atomic.Bool
}

func NewPipeline(s SourceScraper, sources []scraper.Source, st store.Store, cell *cache.Cell, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		scraper: s,
		sources: sources,
		store:   st,
		cell:    cell,
		log:     log,
		now:     time.Now,
	}
}

// WithClock overrides the publish timestamp source.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Busy reports whether a run is in progress.
func (p *Pipeline) Busy() bool {
	return p.busy.Load()
}

// RunOnce scrapes every source in order, merges the results and publishes
// them. Per-source failures only reduce the output; the returned error is
// either ErrRunInProgress or a *PersistError.
func (p *Pipeline) RunOnce(ctx context.Context) (Report, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return Report{}, ErrRunInProgress
	}
	defer p.busy.Store(false)

	rep := Report{RunID: uuid.NewString(), StartedAt: p.now()}
	log := p.log.With("run_id", rep.RunID)
	log.Info("refresh started", "sources", len(p.sources))

	lists := make([][]jobs.Record, 0, len(p.sources))
	failed := 0
	for _, src := range p.sources {
		res := p.scraper.Scrape(ctx, src)
		rep.Sources = append(rep.Sources, SourceReport{Source: src.ID, Records: len(res.Records), Err: res.Err})
		if res.Failed() {
			failed++
			log.Warn("source failed", "source", src.ID, "kind", observability.Classify(res.Err), "error", res.Err)
			continue
		}
		log.Info("source scraped", "source", src.ID, "jobs", len(res.Records))
		rep.Scraped += len(res.Records)
		lists = append(lists, res.Records)
	}

	merged := jobs.Merge(lists...)
	for _, j := range merged {
		log.Debug("job", "title", j.Title, "source", j.Source)
	}
	log.Info("deduplicated", "scraped", rep.Scraped, "kept", len(merged))

	if len(p.sources) > 0 && failed == len(p.sources) {
		rep.Skipped = true
		rep.FinishedAt = p.now()
		log.Warn("every source failed, keeping previous snapshot")
		p.finish(rep, false)
		return rep, nil
	}

	if err := p.Publish(ctx, merged); err != nil {
		rep.FinishedAt = p.now()
		log.Error("refresh failed", "error", err)
		p.finish(rep, true)
		return rep, err
	}

	rep.Published = len(merged)
	rep.FinishedAt = p.now()
	log.Info("refresh complete", "jobs", rep.Published, "failed_sources", failed)
	p.finish(rep, false)
	return rep, nil
}

func (p *Pipeline) finish(rep Report, failed bool) {
	observability.IncRun(failed)
	observability.ObserveRunDuration(rep.FinishedAt.Sub(rep.StartedAt).Seconds())
}

// Publish saves list and, only if that succeeds, swaps it into the cell.
func (p *Pipeline) Publish(ctx context.Context, list []jobs.Record) error {
	if err := p.store.Save(ctx, list); err != nil {
		observability.IncError(observability.ErrorPersist, "store")
		return &PersistError{Err: err}
	}
	p.cell.Store(list, p.now())
	observability.SetRecordsPublished(len(list))
	return nil
}

// Bootstrap fills the cell at startup: from storage when it holds jobs,
// otherwise from a synchronous run. Failures leave an empty cache.
func (p *Pipeline) Bootstrap(ctx context.Context) {
	list, err := p.store.Load(ctx)
	if err != nil {
		p.log.Error("bootstrap: failed to load stored jobs", "error", err)
	}
	if len(list) > 0 {
		p.cell.Store(list, p.now())
		observability.SetRecordsPublished(len(list))
		p.log.Info("bootstrap: loaded cached jobs", "jobs", len(list))
		return
	}

	p.log.Info("bootstrap: no stored jobs, running refresh")
	if _, err := p.RunOnce(ctx); err != nil {
		p.log.Error("bootstrap: initial refresh failed", "error", err)
	}
}
