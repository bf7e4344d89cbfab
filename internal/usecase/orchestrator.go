package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"FinDash/internal/domain/models"
	drepo "FinDash/internal/domain/repository"
	"FinDash/internal/domain/service"
	"FinDash/internal/service/summary"
	"FinDash/pkg/logger"

	"github.com/robfig/cron/v3"
)

const (
	DefaultInterval     = 120 * time.Second
	DefaultGroupTimeout = 6 * time.Second
	sinkTimeout         = 5 * time.Second
)

type OrchestratorConfig struct {
	Interval     time.Duration
	GroupTimeout time.Duration
}

// Orchestrator owns the dashboard snapshot. Every cycle seeds the snapshot from the
// fallback generator, races the four live fetches against a group timeout, and adopts
// each non-empty live category that arrived in time.
type Orchestrator struct {
	provider service.DataProvider
	log      *logger.Logger
	metrics  drepo.Metrics
	cfg      OrchestratorConfig
	now      func() time.Time

	mu     sync.RWMutex
	snap   models.Snapshot
	cycle  uint64
	closed bool
	sinks  []drepo.SnapshotSink

	// notifyMu orders sink delivery; notified is the last cycle delivered.
	notifyMu sync.Mutex
	notified uint64

	baseCtx   context.Context
	cancel    context.CancelFunc
	cron      *cron.Cron
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

func NewOrchestrator(log *logger.Logger, provider service.DataProvider, m drepo.Metrics, cfg OrchestratorConfig, sinks ...drepo.SnapshotSink) *Orchestrator {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.GroupTimeout <= 0 {
		cfg.GroupTimeout = DefaultGroupTimeout
	}
	if m == nil {
		m = drepo.NoopMetrics{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		provider: provider,
		log:      log.With(logger.String("component", "orchestrator")),
		metrics:  m,
		cfg:      cfg,
		now:      time.Now,
		snap:     models.Snapshot{IsLoading: true, Sources: fallbackSources()},
		sinks:    sinks,
		baseCtx:  ctx,
		cancel:   cancel,
	}
}

// AddSink registers a sink for cycles settling from now on.
func (o *Orchestrator) AddSink(s drepo.SnapshotSink) {
	o.mu.Lock()
	o.sinks = append(o.sinks, s)
	o.mu.Unlock()
}

// Start runs the first cycle immediately and then one every interval. Cancelling ctx
// has the same effect as Stop.
func (o *Orchestrator) Start(ctx context.Context) error {
	err := errors.New("orchestrator already started")
	o.startOnce.Do(func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.closed {
			err = errors.New("orchestrator stopped")
			return
		}

		o.cron = cron.New()
		o.cron.Schedule(cron.Every(o.cfg.Interval), cron.FuncJob(o.Refresh))
		o.cron.Start()
		err = nil

		go func() {
			select {
			case <-ctx.Done():
				o.Stop()
			case <-o.baseCtx.Done():
			}
		}()
	})
	if err != nil {
		return err
	}

	o.seedInitial()
	o.log.Info("orchestrator started",
		logger.Duration("interval_ms", o.cfg.Interval),
		logger.Duration("group_timeout_ms", o.cfg.GroupTimeout))
	o.Refresh()
	return nil
}

// seedInitial publishes the fallback dataset before the first cycle runs, so readers
// attached before Start returns never see an empty snapshot. It stays loading until
// that cycle settles.
func (o *Orchestrator) seedInitial() {
	seed := o.provider.GenerateFallback()
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.cycle > 0 || seed.Empty() {
		return
	}
	o.snap = models.Snapshot{
		Dataset:   seed,
		IsLoading: true,
		UpdatedAt: o.now(),
		Sources:   fallbackSources(),
	}
}

// Stop cancels the timer and in-flight fetches and waits for running cycles. No
// snapshot mutation happens after it returns. It is idempotent.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		o.mu.Lock()
		o.closed = true
		c := o.cron
		o.mu.Unlock()

		o.cancel()
		if c != nil {
			<-c.Stop().Done()
		}
		o.wg.Wait()
		o.log.Info("orchestrator stopped")
	})
}

// Refresh starts an out-of-band cycle without waiting for it. A cycle already in flight
// is not awaited; whichever cycle started last owns the snapshot.
func (o *Orchestrator) Refresh() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.wg.Add(1)
	o.mu.Unlock()

	go func() {
		defer o.wg.Done()
		o.RunCycle(o.baseCtx)
	}()
}

// Snapshot returns a deep copy of the current state.
func (o *Orchestrator) Snapshot() models.Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snap.Clone()
}

// CycleID returns the id of the most recently started cycle.
func (o *Orchestrator) CycleID() uint64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.cycle
}

type fetchResult struct {
	cat        models.Category
	currencies []models.ExchangeRate
	crypto     []models.CryptoAsset
	companies  []models.CompanyShare
	news       []models.NewsArticle
	n          int
	err        error
}

// RunCycle runs one full cycle and blocks until it settles, the group timeout fires,
// or ctx is done.
func (o *Orchestrator) RunCycle(ctx context.Context) models.CycleReport {
	started := o.now()
	seed := o.provider.GenerateFallback()

	report := models.CycleReport{
		Started: started,
		Sources: fallbackSources(),
		Errors:  map[models.Category]string{},
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		report.Outcome = models.OutcomeClosed
		return report
	}
	o.cycle++
	id := o.cycle
	report.CycleID = id

	o.snap = models.Snapshot{
		Dataset:   seed.Clone(),
		IsLoading: true,
		CycleID:   id,
		UpdatedAt: started,
		Sources:   fallbackSources(),
	}
	if seed.Empty() {
		o.snap.IsLoading = false
		o.snap.ErrorMessage = models.ErrAllSourcesExhausted.Error()
		snap := o.snap.Clone()
		o.mu.Unlock()

		report.Outcome = models.OutcomeExhausted
		report.Duration = o.now().Sub(started)
		o.log.Error("fallback produced no data", logger.Uint64("cycle", id),
			logger.Error(models.ErrAllSourcesExhausted))
		o.metrics.RecordCycle(string(report.Outcome), report.Duration.Seconds())
		o.notify(snap, report)
		return report
	}
	// Registered under the lock so Stop cannot start waiting between the closed check
	// and the fetches being counted.
	o.wg.Add(len(models.Categories))
	o.mu.Unlock()

	results, timedOut := o.race(ctx)
	report.TimedOut = timedOut

	o.mu.Lock()
	switch {
	case o.closed:
		o.mu.Unlock()
		report.Outcome = models.OutcomeClosed
		report.Duration = o.now().Sub(started)
		return report
	case o.cycle != id:
		o.mu.Unlock()
		report.Outcome = models.OutcomeSuperseded
		report.Duration = o.now().Sub(started)
		o.metrics.RecordStaleDropped()
		o.metrics.RecordCycle(string(report.Outcome), report.Duration.Seconds())
		o.log.Debug("cycle superseded, results dropped", logger.Uint64("cycle", id))
		return report
	}

	for _, cat := range models.Categories {
		r, ok := results[cat]
		switch {
		case !ok:
			report.Errors[cat] = "timeout"
		case r.err != nil:
			report.Errors[cat] = r.err.Error()
		case r.n == 0:
			report.Errors[cat] = "empty"
		default:
			o.adopt(r)
			report.Sources[cat] = models.SourceLive
		}
		o.metrics.RecordCategory(string(cat), report.Sources[cat] == models.SourceLive, o.snap.Len(cat))
	}
	o.snap.MarketSummary = summary.Compute(o.snap.Dataset)
	o.snap.IsLoading = false
	o.snap.UpdatedAt = o.now()
	for cat, src := range report.Sources {
		o.snap.Sources[cat] = src
	}
	snap := o.snap.Clone()
	o.mu.Unlock()

	report.Outcome = models.OutcomeSettled
	report.Duration = o.now().Sub(started)
	if len(report.Errors) == 0 {
		report.Errors = nil
	}
	o.metrics.RecordCycle(string(report.Outcome), report.Duration.Seconds())
	o.log.Info("cycle settled",
		logger.Uint64("cycle", id),
		logger.Int("live", countLive(report.Sources)),
		logger.Bool("timed_out", timedOut),
		logger.Duration("duration_ms", report.Duration))

	o.notify(snap, report)
	return report
}

// adopt replaces one category with live data. Caller holds o.mu.
func (o *Orchestrator) adopt(r fetchResult) {
	switch r.cat {
	case models.CategoryCurrencies:
		o.snap.Currencies = r.currencies
	case models.CategoryCrypto:
		o.snap.Cryptocurrencies = r.crypto
	case models.CategoryCompanies:
		o.snap.Companies = r.companies
	case models.CategoryNews:
		o.snap.News = r.news
	}
}

// race starts the four live fetches and collects whatever arrives before the group
// timeout. Fetches are not cancelled by the timeout; late results land in the buffered
// channel and are dropped with it. The caller has already added the fetches to o.wg.
func (o *Orchestrator) race(ctx context.Context) (map[models.Category]fetchResult, bool) {
	fetchCtx := o.baseCtx
	ch := make(chan fetchResult, len(models.Categories))

	for _, cat := range models.Categories {
		go func(cat models.Category) {
			defer o.wg.Done()
			ch <- o.fetch(fetchCtx, cat)
		}(cat)
	}

	timer := time.NewTimer(o.cfg.GroupTimeout)
	defer timer.Stop()

	results := make(map[models.Category]fetchResult, len(models.Categories))
	for len(results) < len(models.Categories) {
		select {
		case r := <-ch:
			results[r.cat] = r
		case <-timer.C:
			return results, true
		case <-ctx.Done():
			return results, true
		case <-o.baseCtx.Done():
			return results, true
		}
	}
	return results, false
}

func (o *Orchestrator) fetch(ctx context.Context, cat models.Category) (r fetchResult) {
	r.cat = cat
	defer func() {
		if p := recover(); p != nil {
			r.err = fmt.Errorf("%s fetch panicked: %v", cat, p)
		}
	}()

	switch cat {
	case models.CategoryCurrencies:
		r.currencies, r.err = o.provider.FetchLiveCurrencies(ctx)
		r.n = len(r.currencies)
	case models.CategoryCrypto:
		r.crypto, r.err = o.provider.FetchLiveCrypto(ctx)
		r.n = len(r.crypto)
	case models.CategoryCompanies:
		r.companies, r.err = o.provider.FetchLiveCompanies(ctx)
		r.n = len(r.companies)
	case models.CategoryNews:
		r.news, r.err = o.provider.FetchLiveNews(ctx)
		r.n = len(r.news)
	}
	return r
}

// notify delivers a cycle to every sink unless a newer cycle was already delivered.
func (o *Orchestrator) notify(snap models.Snapshot, report models.CycleReport) {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()
	if report.CycleID <= o.notified {
		return
	}
	o.notified = report.CycleID

	o.mu.RLock()
	sinks := append([]drepo.SnapshotSink(nil), o.sinks...)
	o.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()
	for _, s := range sinks {
		if err := s.OnSettled(ctx, snap, report); err != nil {
			o.metrics.RecordSinkError(s.Name())
			o.log.Warn("snapshot sink failed",
				logger.String("sink", s.Name()),
				logger.Uint64("cycle", report.CycleID),
				logger.Error(err))
		}
	}
}

func fallbackSources() map[models.Category]models.Source {
	m := make(map[models.Category]models.Source, len(models.Categories))
	for _, c := range models.Categories {
		m[c] = models.SourceFallback
	}
	return m
}

func countLive(sources map[models.Category]models.Source) int {
	n := 0
	for _, s := range sources {
		if s == models.SourceLive {
			n++
		}
	}
	return n
}
