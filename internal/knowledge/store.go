// Package knowledge implements the per-persona topic store backing the
// conversational engine. It is a write-mostly, log-like cache: records never
// expire, are never validated, and the most recent write for a topic wins.
package knowledge

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Source tags how a record entered the store.
type Source string

const (
	SourceWebResearch          Source = "web_research"
	SourceSelfUpgrading        Source = "self_upgrading_research"
	SourceAutonomousResearch   Source = "autonomous_research"
	SourceContinuousLearning   Source = "continuous_web_learning"
	SourceRecursiveImprovement Source = "recursive_self_improvement"
	SourceEvolution            Source = "knowledge_evolution"
)

// Record is a single stored fact attributed to one persona.
type Record struct {
	Topic     string
	Content   string
	Source    Source
	LearnedAt time.Time
}

// ChangeListener observes every committed write. Listeners run while the
// store lock is held; keep them cheap.
type ChangeListener func(personaKey, topic string, rec Record)

// Store maps persona key -> topic -> Record. Every registered persona always
// has a bucket, possibly empty. Same-topic writes overwrite.
type Store struct {
	mu       sync.RWMutex
	order    []string
	buckets  map[string]map[string]Record
	inserted map[string][]string // per-persona topic insertion order, for display and eviction
	cap      int
	clock    func() time.Time
	listener ChangeListener
	logger   *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source. Used by tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithCap bounds the number of records retained per persona. Zero means the
// default of 256; the oldest record is evicted first.
func WithCap(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.cap = n
		}
	}
}

// WithListener registers the change listener.
func WithListener(fn ChangeListener) Option {
	return func(s *Store) { s.listener = fn }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a store with an empty bucket for every persona key.
func NewStore(personaKeys []string, opts ...Option) *Store {
	s := &Store{
		buckets:  make(map[string]map[string]Record, len(personaKeys)),
		inserted: make(map[string][]string, len(personaKeys)),
		cap:      256,
		clock:    time.Now,
		logger:   zap.NewNop(),
	}
	for _, key := range personaKeys {
		s.order = append(s.order, key)
		s.buckets[key] = make(map[string]Record)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeTopic trims and lowercases a topic key.
func NormalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

// RecordTopic stores or overwrites a record under the persona's bucket and
// returns the committed record. Unknown persona keys fall back to the first
// registered bucket rather than creating one.
func (s *Store) RecordTopic(personaKey, topic, content string, src Source) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.resolveKey(personaKey)
	normalized := NormalizeTopic(topic)
	rec := Record{
		Topic:     normalized,
		Content:   content,
		Source:    src,
		LearnedAt: s.clock(),
	}

	bucket := s.buckets[key]
	if _, exists := bucket[normalized]; !exists {
		s.inserted[key] = append(s.inserted[key], normalized)
		s.evictLocked(key)
	}
	bucket[normalized] = rec

	s.logger.Debug("knowledge recorded",
		zap.String("persona", key),
		zap.String("topic", normalized),
		zap.String("source", string(src)))

	if s.listener != nil {
		s.listener(key, normalized, rec)
	}
	return rec
}

// LookupTopic returns the record for a topic, if present.
func (s *Store) LookupTopic(personaKey, topic string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.buckets[s.resolveKey(personaKey)][NormalizeTopic(topic)]
	return rec, ok
}

// TopicsFor returns the persona's topics in insertion order.
func (s *Store) TopicsFor(personaKey string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.inserted[s.resolveKey(personaKey)]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Count returns the number of records held for a persona.
func (s *Store) Count(personaKey string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets[s.resolveKey(personaKey)])
}

// Records returns a copy of the persona's records in insertion order.
func (s *Store) Records(personaKey string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := s.resolveKey(personaKey)
	out := make([]Record, 0, len(s.inserted[key]))
	for _, topic := range s.inserted[key] {
		out = append(out, s.buckets[key][topic])
	}
	return out
}

// Synthesize concatenates every persona's name and topic list (excluding one
// persona, typically general) into a human-readable report, then stores the
// report itself under the excluded persona with source knowledge_evolution.
// displayName resolves a persona key to its display name.
func (s *Store) Synthesize(excludeKey string, displayName func(key string) string) string {
	s.mu.Lock()

	var lines []string
	for _, key := range s.order {
		if key == excludeKey {
			continue
		}
		topics := s.inserted[key]
		lines = append(lines, fmt.Sprintf("- %s: %s", displayName(key), strings.Join(topics, ", ")))
	}

	report := "Knowledge Synthesis Complete!\n\nInterconnected Insights:\n" +
		strings.Join(lines, "\n") +
		"\n\nEvolved Understanding: By combining expertise from all agents, I've developed a holistic approach that integrates medical data analysis with user experience design, research methodologies with AI development."
	s.mu.Unlock()

	// Read-then-write compound op; single-writer callers serialize it.
	s.RecordTopic(excludeKey, "synthesized_knowledge", report, SourceEvolution)
	return report
}

// restore replays an archived record, preserving its original timestamp.
// Unknown persona keys are dropped and no change notification is fired.
func (s *Store) restore(personaKey string, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.buckets[personaKey]
	if !ok {
		return
	}
	normalized := NormalizeTopic(rec.Topic)
	rec.Topic = normalized
	if _, exists := bucket[normalized]; !exists {
		s.inserted[personaKey] = append(s.inserted[personaKey], normalized)
		s.evictLocked(personaKey)
	}
	bucket[normalized] = rec
}

// resolveKey maps unknown persona keys to the first registered bucket.
// Callers are expected to validate keys; this is the never-invent guard.
func (s *Store) resolveKey(personaKey string) string {
	if _, ok := s.buckets[personaKey]; ok {
		return personaKey
	}
	return s.order[0]
}

// evictLocked drops the oldest topics until the persona is within cap.
func (s *Store) evictLocked(key string) {
	for len(s.inserted[key]) > s.cap {
		oldest := s.inserted[key][0]
		s.inserted[key] = s.inserted[key][1:]
		delete(s.buckets[key], oldest)
		s.logger.Debug("knowledge evicted", zap.String("persona", key), zap.String("topic", oldest))
	}
}
