package knowledge

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestArchiveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.db")

	archive, err := OpenArchive(path, zap.NewNop())
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer archive.Close()

	learned := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	src := NewStore(testKeys, WithClock(fixedClock(learned)))
	src.RecordTopic("kilo", "react hooks", "hooks content", SourceWebResearch)
	src.RecordTopic("kilo", "transformers", "attention content", SourceAutonomousResearch)
	src.RecordTopic("vega", "color theory", "contrast content", SourceContinuousLearning)

	if err := archive.Save(src); err != nil {
		t.Fatalf("save: %v", err)
	}

	dst := NewStore(testKeys)
	if err := archive.Load(dst); err != nil {
		t.Fatalf("load: %v", err)
	}

	if n := dst.Count("kilo"); n != 2 {
		t.Fatalf("kilo count = %d, want 2", n)
	}
	rec, ok := dst.LookupTopic("kilo", "react hooks")
	if !ok {
		t.Fatal("react hooks missing after load")
	}
	if rec.Content != "hooks content" || rec.Source != SourceWebResearch {
		t.Fatalf("record = %+v", rec)
	}
	if !rec.LearnedAt.Equal(learned) {
		t.Fatalf("timestamp not preserved: %v", rec.LearnedAt)
	}

	topics := dst.TopicsFor("kilo")
	if len(topics) != 2 || topics[0] != "react hooks" {
		t.Fatalf("insertion order not preserved: %v", topics)
	}
}

func TestArchiveSaveReplacesPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.db")

	archive, err := OpenArchive(path, zap.NewNop())
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer archive.Close()

	s := NewStore(testKeys)
	s.RecordTopic("aria", "citations", "x", SourceWebResearch)
	if err := archive.Save(s); err != nil {
		t.Fatalf("first save: %v", err)
	}

	s2 := NewStore(testKeys)
	s2.RecordTopic("aria", "peer review", "y", SourceWebResearch)
	if err := archive.Save(s2); err != nil {
		t.Fatalf("second save: %v", err)
	}

	dst := NewStore(testKeys)
	if err := archive.Load(dst); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := dst.LookupTopic("aria", "citations"); ok {
		t.Fatal("stale record survived snapshot replacement")
	}
	if _, ok := dst.LookupTopic("aria", "peer review"); !ok {
		t.Fatal("current record missing")
	}
}

func TestArchiveLoadEmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.db")

	archive, err := OpenArchive(path, zap.NewNop())
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer archive.Close()

	s := NewStore(testKeys)
	if err := archive.Load(s); err != nil {
		t.Fatalf("load empty: %v", err)
	}
	for _, key := range testKeys {
		if n := s.Count(key); n != 0 {
			t.Fatalf("%s count = %d after empty load", key, n)
		}
	}
}
