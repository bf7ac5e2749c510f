package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShreyaSuvarna1/Veerpath/internal/cache"
	"github.com/ShreyaSuvarna1/Veerpath/internal/httpx"
	"github.com/ShreyaSuvarna1/Veerpath/internal/jobs"
	"github.com/ShreyaSuvarna1/Veerpath/internal/scraper"
)

var (
	t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(30 * time.Minute)
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// pages serves canned markup per URL; a nil entry simulates a fetch failure.
type pages map[string][]byte

func (p pages) Fetch(_ context.Context, rawURL string, _ time.Duration) ([]byte, error) {
	body, ok := p[rawURL]
	if !ok || body == nil {
		return nil, &httpx.FetchError{URL: rawURL, Status: 503}
	}
	return body, nil
}

type memStore struct {
	mu      sync.Mutex
	list    []jobs.Record
	saves   int
	saveErr error
	loadErr error
}

func (m *memStore) Load(context.Context) ([]jobs.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]jobs.Record{}, m.list...), nil
}

func (m *memStore) Save(_ context.Context, list []jobs.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.list = append([]jobs.Record{}, list...)
	return nil
}

func (m *memStore) Close() error { return nil }

func testSources() []scraper.Source {
	mk := func(id jobs.Source, host string) scraper.Source {
		return scraper.Source{
			ID:        id,
			BaseURL:   "https://" + host,
			Path:      "/jobs",
			Container: ".job a",
			Limit:     10,
		}
	}
	return []scraper.Source{
		mk("A", "a.example"),
		mk("B", "b.example"),
		mk("C", "c.example"),
	}
}

func newTestPipeline(p pages, st *memStore, cell *cache.Cell, clock func() time.Time) *Pipeline {
	s := scraper.New(p).WithClock(func() time.Time { return t0 })
	return NewPipeline(s, testSources(), st, cell, quietLogger()).WithClock(clock)
}

func fixed(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRunOnceEndToEndDefaults(t *testing.T) {
	p := pages{
		"https://a.example/jobs": []byte(`<div class="job"><a href="/j1">Driver</a></div>`),
	}
	st := &memStore{}
	cell := cache.New()

	rep, err := newTestPipeline(p, st, cell, fixed(t1)).RunOnce(context.Background())
	require.NoError(t, err)

	want := jobs.Record{
		Title:      "Driver",
		Company:    jobs.PlaceholderCompany,
		Location:   jobs.PlaceholderLocation,
		Link:       "https://a.example/j1",
		Source:     "A",
		Posted:     jobs.PlaceholderPosted,
		ScrapedAt:  t0,
		IsOfficial: true,
	}
	snap := cell.Load()
	require.Len(t, snap.Jobs, 1)
	assert.Equal(t, want, snap.Jobs[0])
	assert.Equal(t, t1, snap.UpdatedAt)
	assert.Equal(t, snap.Jobs, st.list)
	assert.Equal(t, 1, rep.Published)
	assert.NotEmpty(t, rep.RunID)
	require.Len(t, rep.Sources, 3)
	assert.Error(t, rep.Sources[1].Err)
}

func TestRunOnceFetchIsolation(t *testing.T) {
	p := pages{
		"https://a.example/jobs": []byte(`<div class="job"><a href="/1">Guard</a><a href="/2">Clerk</a></div>`),
		"https://c.example/jobs": []byte(`<div class="job"><a href="/3">Pilot</a></div>`),
	}
	cell := cache.New()

	_, err := newTestPipeline(p, &memStore{}, cell, fixed(t1)).RunOnce(context.Background())
	require.NoError(t, err)

	var got []string
	for _, j := range cell.Load().Jobs {
		got = append(got, string(j.Source)+":"+j.Title)
	}
	assert.Equal(t, []string{"A:Guard", "A:Clerk", "C:Pilot"}, got)
}

func TestRunOnceDedupAcrossRun(t *testing.T) {
	p := pages{
		"https://a.example/jobs": []byte(`<div class="job"><a href="/1">Guard</a><a href="/2">GUARD</a></div>`),
		"https://b.example/jobs": []byte(`<div class="job"><a href="/3">Guard</a></div>`),
	}
	cell := cache.New()

	_, err := newTestPipeline(p, &memStore{}, cell, fixed(t1)).RunOnce(context.Background())
	require.NoError(t, err)

	list := cell.Load().Jobs
	require.Len(t, list, 2)
	assert.Equal(t, "https://a.example/1", list[0].Link)
	assert.Equal(t, jobs.Source("B"), list[1].Source)
}

func TestPersistErrorLeavesSnapshotUntouched(t *testing.T) {
	p := pages{
		"https://a.example/jobs": []byte(`<div class="job"><a href="/1">New job</a></div>`),
	}
	cell := cache.New()
	prior := []jobs.Record{{Title: "Old job", Source: "A"}}
	cell.Store(prior, t0)

	st := &memStore{saveErr: errors.New("disk full")}
	rep, err := newTestPipeline(p, st, cell, fixed(t1)).RunOnce(context.Background())

	var pe *PersistError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "persist", pe.Kind())
	assert.Zero(t, rep.Published)

	snap := cell.Load()
	assert.Equal(t, prior, snap.Jobs)
	assert.Equal(t, t0, snap.UpdatedAt)
}

func TestAllSourcesFailedKeepsSnapshot(t *testing.T) {
	cell := cache.New()
	prior := []jobs.Record{{Title: "Old job", Source: "A"}}
	cell.Store(prior, t0)
	st := &memStore{}

	rep, err := newTestPipeline(pages{}, st, cell, fixed(t1)).RunOnce(context.Background())

	require.NoError(t, err)
	assert.True(t, rep.Skipped)
	assert.Zero(t, st.saves)
	assert.Equal(t, prior, cell.Load().Jobs)
	assert.Equal(t, t0, cell.Load().UpdatedAt)
}

func TestRunOnceRejectsOverlap(t *testing.T) {
	pl := newTestPipeline(pages{}, &memStore{}, cache.New(), fixed(t1))
	assert.False(t, pl.Busy())
	pl.busy.Store(true)
	assert.True(t, pl.Busy())

	_, err := pl.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)
}

func TestBootstrapUsesStoredJobs(t *testing.T) {
	stored := []jobs.Record{{Title: "Stored", Source: "A"}}
	st := &memStore{list: stored}
	cell := cache.New()
	p := pages{"https://a.example/jobs": []byte(`<div class="job"><a href="/1">Fresh</a></div>`)}

	newTestPipeline(p, st, cell, fixed(t1)).Bootstrap(context.Background())

	assert.Equal(t, stored, cell.Load().Jobs)
	assert.Equal(t, t1, cell.Load().UpdatedAt)
	assert.Zero(t, st.saves)
}

func TestBootstrapRunsPipelineWhenStorageEmpty(t *testing.T) {
	st := &memStore{}
	cell := cache.New()
	p := pages{"https://b.example/jobs": []byte(`<div class="job"><a href="/1">Fresh</a></div>`)}

	newTestPipeline(p, st, cell, fixed(t1)).Bootstrap(context.Background())

	require.Len(t, cell.Load().Jobs, 1)
	assert.Equal(t, "Fresh", cell.Load().Jobs[0].Title)
	assert.Equal(t, 1, st.saves)
}

func TestBootstrapDegradesToEmptyCache(t *testing.T) {
	st := &memStore{loadErr: errors.New("permission denied"), saveErr: errors.New("read-only fs")}
	cell := cache.New()
	p := pages{"https://a.example/jobs": []byte(`<div class="job"><a href="/1">Fresh</a></div>`)}

	assert.NotPanics(t, func() {
		newTestPipeline(p, st, cell, fixed(t1)).Bootstrap(context.Background())
	})
	assert.Empty(t, cell.Load().Jobs)
	assert.True(t, cell.Load().UpdatedAt.IsZero())
}
