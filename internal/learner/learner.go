// Package learner runs the autonomous research loop: on every interval each
// specialist persona "researches" a random subtopic of its domain and records
// the result in the knowledge store. Research is simulated, but the loop,
// cancellation, and commit path are real.
package learner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jfbinTECHA/zetav10/internal/knowledge"
	"github.com/jfbinTECHA/zetav10/internal/persona"
)

// Default pacing, matching the conversational surface this loop backs.
const (
	DefaultInterval      = 30 * time.Second
	DefaultResearchDelay = 2 * time.Second
)

// Rand supplies subtopic selection. Tests inject a fixed sequence.
type Rand interface {
	Intn(n int) int
}

// Finding is one completed research pass for one persona.
type Finding struct {
	PersonaKey string
	Topic      string
	Content    string
}

// Applier commits a finding to shared state. The engine routes this through
// its update queue so learner writes serialize with chat turns.
type Applier func(f Finding)

// Learner drives the periodic research loop.
type Learner struct {
	registry *persona.Registry
	rng      Rand
	apply    Applier
	logger   *zap.Logger

	interval      time.Duration
	researchDelay time.Duration
	onActivity    func(personaKey, topic string)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Learner.
type Option func(*Learner)

// WithInterval sets the research cycle interval.
func WithInterval(d time.Duration) Option {
	return func(l *Learner) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithResearchDelay sets the simulated per-persona research latency.
func WithResearchDelay(d time.Duration) Option {
	return func(l *Learner) { l.researchDelay = d }
}

// WithLogger sets the learner logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Learner) { l.logger = log }
}

// WithActivityHook registers a callback fired after each committed finding,
// used by the chat surface to surface background activity.
func WithActivityHook(fn func(personaKey, topic string)) Option {
	return func(l *Learner) { l.onActivity = fn }
}

// New creates a stopped learner. apply must be non-nil.
func New(registry *persona.Registry, rng Rand, apply Applier, opts ...Option) *Learner {
	l := &Learner{
		registry:      registry,
		rng:           rng,
		apply:         apply,
		logger:        zap.NewNop(),
		interval:      DefaultInterval,
		researchDelay: DefaultResearchDelay,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start begins the research loop. Calling Start on a running learner is a
// no-op. The loop stops when Stop is called or the parent context ends.
func (l *Learner) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done
	l.logger.Info("autonomous learning started", zap.Duration("interval", l.interval))

	// The goroutine owns its completion channel; Stop may nil the fields
	// before the loop ever runs.
	go l.run(loopCtx, done)
}

// Stop halts the loop and waits for in-flight research to unwind.
func (l *Learner) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	l.logger.Info("autonomous learning stopped")
}

// Running reports whether the loop is active.
func (l *Learner) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

func (l *Learner) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := l.cycle(ctx); err != nil && ctx.Err() == nil {
				l.logger.Warn("research cycle failed", zap.Error(err))
			}
		}
	}
}

// cycle fans one research pass out across every specialist persona.
func (l *Learner) cycle(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, key := range l.registry.DomainKeys() {
		p := l.registry.Resolve(key)

		// Subtopic selection happens before the goroutine launches so the
		// injected rng is only touched from one goroutine.
		subtopics := persona.SubtopicsForDomain(p.Domain)
		subtopic := subtopics[l.rng.Intn(len(subtopics))]

		g.Go(func() error {
			if err := sleepCtx(gctx, l.researchDelay); err != nil {
				return err
			}
			finding := Finding{
				PersonaKey: p.Key,
				Topic:      knowledge.NormalizeTopic(subtopic),
				Content: fmt.Sprintf("Latest research on %s: new developments in %s show promising advances. Key findings include improved methodologies and emerging best practices in %s.",
					subtopic, subtopic, p.Domain),
			}
			l.apply(finding)
			l.logger.Debug("research finding recorded",
				zap.String("persona", p.Key),
				zap.String("topic", finding.Topic))
			if l.onActivity != nil {
				l.onActivity(p.Key, finding.Topic)
			}
			return nil
		})
	}
	return g.Wait()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
