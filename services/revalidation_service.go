package services

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/business-partner/leads-backend/config"
	"github.com/business-partner/leads-backend/logger"
)

// ContentInvalidator is the cache side of revalidation.
type ContentInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

// Debouncer coalesces a burst of triggers into one callback invocation
// after a quiet period. Each trigger re-arms the timer; only the last one
// in a burst fires.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules the callback, cancelling any pending invocation.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// RevalidationService invalidates the cached content after the content
// store reports a change. Publishing tools fire webhooks per document, so
// invalidation runs behind a debounce: a burst of saves costs one flush.
type RevalidationService struct {
	secret      string
	invalidator ContentInvalidator
	debouncer   *Debouncer

	triggerCount prometheus.Counter
	flushCount   prometheus.Counter
}

func NewRevalidationService(cfg *config.RevalidationConfig, invalidator ContentInvalidator) *RevalidationService {
	return NewRevalidationServiceWithRegistry(cfg, invalidator, prometheus.DefaultRegisterer)
}

func NewRevalidationServiceWithRegistry(cfg *config.RevalidationConfig, invalidator ContentInvalidator, reg prometheus.Registerer) *RevalidationService {
	s := &RevalidationService{
		secret:      cfg.Secret,
		invalidator: invalidator,
		triggerCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leads_revalidation_triggers_total",
			Help: "Total number of revalidation triggers received",
		}),
		flushCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leads_revalidation_flushes_total",
			Help: "Total number of content cache flushes performed",
		}),
	}

	delay := time.Duration(cfg.DebounceMilliseconds) * time.Millisecond
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	s.debouncer = NewDebouncer(delay, s.flush)

	reg.MustRegister(s.triggerCount)
	reg.MustRegister(s.flushCount)
	return s
}

// SecretMatches compares the presented secret in constant time. An empty
// configured secret matches nothing; the endpoint is then effectively off.
func (s *RevalidationService) SecretMatches(candidate string) bool {
	if s.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.secret), []byte(candidate)) == 1
}

// Trigger requests a cache flush. Returns immediately; the flush happens
// after the quiet period.
func (s *RevalidationService) Trigger() {
	s.triggerCount.Inc()
	s.debouncer.Trigger()
}

// Stop cancels any pending flush.
func (s *RevalidationService) Stop() {
	s.debouncer.Stop()
}

func (s *RevalidationService) flush() {
	log := logger.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.invalidator.InvalidateAll(ctx); err != nil {
		log.Errorw("Content cache flush failed", "error", err)
		return
	}
	s.flushCount.Inc()
}
