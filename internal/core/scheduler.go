package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ShreyaSuvarna1/Veerpath/internal/mailbox"
)

// Runner is one refresh pass.
type Runner interface {
	RunOnce(ctx context.Context) (Report, error)
}

type trigger struct {
	reason string
	at     time.Time
}

// Scheduler fires refreshes on a fixed interval and on demand. Every run goes
// through one runner goroutine fed by a single-slot mailbox, so runs never
// overlap and pending requests collapse into one.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	log      *slog.Logger

	cron     *cron.Cron
	triggers *mailbox.Mailbox[trigger]
	running  atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(runner Runner, interval time.Duration, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		runner:   runner,
		interval: interval,
		log:      log,
		triggers: mailbox.New[trigger](),
	}
}

// Start begins the interval timer and the runner. The first timed run happens
// one interval after Start.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return errors.New("scheduler already started")
	}
	if s.interval <= 0 {
		return errors.New("scheduler interval must be > 0")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	s.cron = cron.New(cron.WithLogger(cronLogger{s.log}))
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		s.Trigger("timer")
	}))
	s.cron.Start()

	s.running.Store(true)
	go s.loop(runCtx, s.done)

	s.log.Info("scheduler started", "interval", s.interval.String())
	return nil
}

// Trigger requests a refresh. It never blocks; it reports false when the
// scheduler is not running.
func (s *Scheduler) Trigger(reason string) bool {
	if !s.running.Load() {
		return false
	}
	s.triggers.Put(trigger{reason: reason, at: time.Now()})
	return true
}

// Running reports whether the scheduler accepts refreshes.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Stop halts the timer and waits for an in-flight refresh to finish, or for
// ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done, c := s.cancel, s.done, s.cron
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}

	s.running.Store(false)
	<-c.Stop().Done()
	cancel()

	select {
	case <-done:
		s.log.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer s.running.Store(false)
	for {
		t, ok := s.triggers.Take(ctx)
		if !ok || ctx.Err() != nil {
			return
		}
		s.run(ctx, t)
	}
}

func (s *Scheduler) run(ctx context.Context, t trigger) {
	s.log.Info("refresh triggered", "reason", t.reason, "queued_for", time.Since(t.at).String())
	// a started run always completes, even during shutdown
	rep, err := s.runner.RunOnce(context.WithoutCancel(ctx))
	if err != nil {
		s.log.Error("scheduled refresh failed", "reason", t.reason, "run_id", rep.RunID, "error", err)
	}
}

type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
