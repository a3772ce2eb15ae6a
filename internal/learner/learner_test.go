package learner

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/jfbinTECHA/zetav10/internal/persona"
)

type fixedRand struct{ v int }

func (f fixedRand) Intn(n int) int { return f.v % n }

type findingSink struct {
	mu       sync.Mutex
	findings []Finding
}

func (s *findingSink) apply(f Finding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findings = append(s.findings, f)
}

func (s *findingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.findings)
}

func (s *findingSink) snapshot() []Finding {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Finding, len(s.findings))
	copy(out, s.findings)
	return out
}

func TestCycleRecordsFindingForEverySpecialist(t *testing.T) {
	defer goleak.VerifyNone(t)

	registry := persona.NewRegistry()
	sink := &findingSink{}
	l := New(registry, fixedRand{}, sink.apply,
		WithInterval(5*time.Millisecond),
		WithResearchDelay(0))

	l.Start(context.Background())
	defer l.Stop()

	deadline := time.After(2 * time.Second)
	for sink.count() < len(registry.DomainKeys()) {
		select {
		case <-deadline:
			t.Fatalf("only %d findings before deadline", sink.count())
		case <-time.After(time.Millisecond):
		}
	}

	seen := make(map[string]bool)
	for _, f := range sink.snapshot() {
		seen[f.PersonaKey] = true
		if f.Topic == "" || f.Content == "" {
			t.Fatalf("empty finding: %+v", f)
		}
	}
	for _, key := range registry.DomainKeys() {
		if !seen[key] {
			t.Fatalf("no finding for %s", key)
		}
	}
}

func TestStopHaltsResearch(t *testing.T) {
	defer goleak.VerifyNone(t)

	registry := persona.NewRegistry()
	sink := &findingSink{}
	l := New(registry, fixedRand{}, sink.apply,
		WithInterval(5*time.Millisecond),
		WithResearchDelay(0))

	l.Start(context.Background())
	for sink.count() == 0 {
		time.Sleep(time.Millisecond)
	}
	l.Stop()

	if l.Running() {
		t.Fatal("learner still reports running after Stop")
	}
	n := sink.count()
	time.Sleep(30 * time.Millisecond)
	if sink.count() != n {
		t.Fatal("findings kept arriving after Stop")
	}
}

func TestStopDuringResearchDelayUnwinds(t *testing.T) {
	defer goleak.VerifyNone(t)

	registry := persona.NewRegistry()
	sink := &findingSink{}
	l := New(registry, fixedRand{}, sink.apply,
		WithInterval(time.Millisecond),
		WithResearchDelay(time.Hour))

	l.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	l.Stop()

	if sink.count() != 0 {
		t.Fatalf("findings committed despite cancellation: %d", sink.count())
	}
}

func TestImmediateStopAfterStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	registry := persona.NewRegistry()
	sink := &findingSink{}
	l := New(registry, fixedRand{}, sink.apply,
		WithInterval(time.Millisecond),
		WithResearchDelay(0))

	// Stop can land before the loop goroutine has even been scheduled; the
	// shutdown handshake must survive that without losing the channel.
	for i := 0; i < 200; i++ {
		l.Start(context.Background())
		l.Stop()
	}
	if l.Running() {
		t.Fatal("learner reports running after final Stop")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	registry := persona.NewRegistry()
	sink := &findingSink{}
	l := New(registry, fixedRand{}, sink.apply, WithInterval(time.Hour))

	ctx := context.Background()
	l.Start(ctx)
	l.Start(ctx)
	l.Stop()
	l.Stop()
}

func TestActivityHookFires(t *testing.T) {
	defer goleak.VerifyNone(t)

	registry := persona.NewRegistry()
	sink := &findingSink{}
	var mu sync.Mutex
	activity := make(map[string]string)
	l := New(registry, fixedRand{}, sink.apply,
		WithInterval(5*time.Millisecond),
		WithResearchDelay(0),
		WithActivityHook(func(personaKey, topic string) {
			mu.Lock()
			defer mu.Unlock()
			activity[personaKey] = topic
		}))

	l.Start(context.Background())
	defer l.Stop()

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(activity)
		mu.Unlock()
		if n == len(registry.DomainKeys()) {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("activity hook fired for %d personas", n)
		case <-time.After(time.Millisecond):
		}
	}
}
