package knowledge

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

var testKeys = []string{"general", "chrono", "vega", "aria", "kilo"}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRecordAndLookup(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	s := NewStore(testKeys, WithClock(fixedClock(now)))

	rec := s.RecordTopic("kilo", "  React Hooks ", "hooks content", SourceWebResearch)
	if rec.Topic != "react hooks" {
		t.Fatalf("topic not normalized: %q", rec.Topic)
	}
	if !rec.LearnedAt.Equal(now) {
		t.Fatalf("timestamp = %v, want %v", rec.LearnedAt, now)
	}

	got, ok := s.LookupTopic("kilo", "REACT HOOKS")
	if !ok {
		t.Fatal("lookup failed after record")
	}
	if got.Content != "hooks content" {
		t.Fatalf("content = %q", got.Content)
	}
	if got.Source != SourceWebResearch {
		t.Fatalf("source = %q", got.Source)
	}
}

func TestOverwriteKeepsOneRecord(t *testing.T) {
	s := NewStore(testKeys)

	s.RecordTopic("vega", "color theory", "v1", SourceWebResearch)
	s.RecordTopic("vega", "color theory", "v2", SourceAutonomousResearch)

	if n := s.Count("vega"); n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
	rec, _ := s.LookupTopic("vega", "color theory")
	if rec.Content != "v2" || rec.Source != SourceAutonomousResearch {
		t.Fatalf("overwrite did not win: %+v", rec)
	}
}

func TestUnknownPersonaFallsBackToFirstBucket(t *testing.T) {
	s := NewStore(testKeys)

	s.RecordTopic("zorp", "stray", "content", SourceWebResearch)

	if _, ok := s.LookupTopic("general", "stray"); !ok {
		t.Fatal("record for unknown persona should land in the first bucket")
	}
	if s.Count("zorp") != s.Count("general") {
		t.Fatal("unknown persona lookups should resolve to the first bucket")
	}
}

func TestTopicsForInsertionOrder(t *testing.T) {
	s := NewStore(testKeys)

	s.RecordTopic("aria", "b topic", "x", SourceWebResearch)
	s.RecordTopic("aria", "a topic", "x", SourceWebResearch)
	s.RecordTopic("aria", "b topic", "y", SourceWebResearch) // overwrite keeps position

	topics := s.TopicsFor("aria")
	if len(topics) != 2 || topics[0] != "b topic" || topics[1] != "a topic" {
		t.Fatalf("topics = %v", topics)
	}
}

func TestEviction(t *testing.T) {
	s := NewStore(testKeys, WithCap(3))

	for i := 0; i < 5; i++ {
		s.RecordTopic("kilo", fmt.Sprintf("topic-%d", i), "x", SourceWebResearch)
	}

	if n := s.Count("kilo"); n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
	if _, ok := s.LookupTopic("kilo", "topic-0"); ok {
		t.Fatal("oldest topic should have been evicted")
	}
	if _, ok := s.LookupTopic("kilo", "topic-4"); !ok {
		t.Fatal("newest topic should survive eviction")
	}
}

func TestListenerFiresOnWrite(t *testing.T) {
	var gotPersona, gotTopic string
	var gotRec Record
	s := NewStore(testKeys, WithListener(func(personaKey, topic string, rec Record) {
		gotPersona, gotTopic, gotRec = personaKey, topic, rec
	}))

	s.RecordTopic("chrono", "HIPAA", "privacy rules", SourceContinuousLearning)

	if gotPersona != "chrono" || gotTopic != "hipaa" {
		t.Fatalf("listener saw %q/%q", gotPersona, gotTopic)
	}
	if gotRec.Source != SourceContinuousLearning {
		t.Fatalf("listener record = %+v", gotRec)
	}
}

func TestSynthesize(t *testing.T) {
	s := NewStore(testKeys)
	s.RecordTopic("chrono", "patient data", "x", SourceWebResearch)
	s.RecordTopic("kilo", "neural networks", "x", SourceWebResearch)

	names := map[string]string{
		"chrono": "Chrono", "vega": "Vega", "aria": "Aria", "kilo": "Kilo Code",
	}
	report := s.Synthesize("general", func(key string) string { return names[key] })

	for _, want := range []string{
		"Knowledge Synthesis Complete!",
		"Chrono: patient data",
		"Kilo Code: neural networks",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}

	// The report itself lands under the excluded persona.
	rec, ok := s.LookupTopic("general", "synthesized_knowledge")
	if !ok {
		t.Fatal("synthesis not stored")
	}
	if rec.Source != SourceEvolution {
		t.Fatalf("synthesis source = %q", rec.Source)
	}
}

func TestRestorePreservesTimestampAndSkipsUnknown(t *testing.T) {
	s := NewStore(testKeys)
	old := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	s.restore("vega", Record{Topic: "Grid Layouts", Content: "x", Source: SourceWebResearch, LearnedAt: old})
	rec, ok := s.LookupTopic("vega", "grid layouts")
	if !ok {
		t.Fatal("restore failed")
	}
	if !rec.LearnedAt.Equal(old) {
		t.Fatalf("restore changed timestamp: %v", rec.LearnedAt)
	}

	s.restore("ghost", Record{Topic: "nope", Content: "x"})
	if _, ok := s.LookupTopic("general", "nope"); ok {
		t.Fatal("restore must not fall back for unknown personas")
	}
}
