package engine

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jfbinTECHA/zetav10/internal/knowledge"
	"github.com/jfbinTECHA/zetav10/internal/persona"
	"github.com/jfbinTECHA/zetav10/internal/router"
	"github.com/jfbinTECHA/zetav10/internal/session"
)

type fixedRand struct{ v int }

func (f fixedRand) Intn(n int) int { return f.v % n }

// sinkEvents records engine output for assertions.
type sinkEvents struct {
	mu      sync.Mutex
	msgs    []session.Message
	learned []string
}

func (s *sinkEvents) OnMessageAppended(msg session.Message) {}

func (s *sinkEvents) OnStreamToken(messageID, token string) {}

func (s *sinkEvents) OnUpgradeNotification(n router.UpgradeNotification) {}

func (s *sinkEvents) OnMessageCompleted(msg session.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *sinkEvents) OnKnowledgeChanged(personaKey, topic string, rec knowledge.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.Source == knowledge.SourceAutonomousResearch {
		s.learned = append(s.learned, personaKey+"/"+topic)
	}
}

func (s *sinkEvents) learnedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.learned)
}

func newTestEngine(t *testing.T, events *sinkEvents, extra ...Option) *Engine {
	t.Helper()
	morning := func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }
	opts := append([]Option{
		WithRand(fixedRand{}),
		WithClock(morning),
		WithDeliveryTimings(time.Millisecond, time.Millisecond, time.Millisecond),
		WithLearnerTimings(5*time.Millisecond, time.Millisecond),
	}, extra...)
	eng, err := New(events, opts...)
	require.NoError(t, err)
	return eng
}

func TestTurnCommitsTranscriptAndContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	events := &sinkEvents{}
	eng := newTestEngine(t, events)
	defer eng.Close()

	require.NoError(t, eng.SubmitUserMessage(context.Background(), "switch to vega"))

	view, err := eng.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, persona.KeyVega, view.CurrentAgent)

	all := eng.Transcript().All()
	require.Len(t, all, 2)
	assert.Equal(t, session.RoleUser, all[0].Role)
	assert.Equal(t, "switch to vega", all[0].Content)
	assert.Equal(t, session.RoleAssistant, all[1].Role)
	assert.Contains(t, all[1].Content, "Switched to Vega!")
}

func TestLearnThenRecallThroughEngine(t *testing.T) {
	defer goleak.VerifyNone(t)

	events := &sinkEvents{}
	eng := newTestEngine(t, events)
	defer eng.Close()

	ctx := context.Background()
	require.NoError(t, eng.SubmitUserMessage(ctx, "learn react hooks"))

	rec, ok := eng.Store().LookupTopic(persona.KeyGeneral, "react hooks")
	require.True(t, ok)
	assert.Equal(t, knowledge.SourceWebResearch, rec.Source)

	require.NoError(t, eng.SubmitUserMessage(ctx, "recall react hooks"))
	all := eng.Transcript().All()
	assert.Contains(t, all[len(all)-1].Content, rec.Content)
}

func TestSwitchPersonaValidation(t *testing.T) {
	defer goleak.VerifyNone(t)

	events := &sinkEvents{}
	eng := newTestEngine(t, events)
	defer eng.Close()

	assert.Error(t, eng.SwitchPersona("zorp"))
	require.NoError(t, eng.SwitchPersona("kilo"))

	view, err := eng.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, persona.KeyKilo, view.CurrentAgent)
}

func TestAutonomousModeDrivesLearner(t *testing.T) {
	defer goleak.VerifyNone(t)

	events := &sinkEvents{}
	eng := newTestEngine(t, events)
	defer eng.Close()

	require.NoError(t, eng.SetAutonomous(true))
	assert.True(t, eng.Learner().Running())

	deadline := time.After(2 * time.Second)
	for events.learnedCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("no autonomous findings recorded")
		case <-time.After(time.Millisecond):
		}
	}

	require.NoError(t, eng.SetAutonomous(false))
	assert.False(t, eng.Learner().Running())

	// Findings landed in specialist buckets with the autonomous source tag.
	found := false
	for _, key := range eng.Registry().DomainKeys() {
		for _, rec := range eng.Store().Records(key) {
			if rec.Source == knowledge.SourceAutonomousResearch {
				found = true
			}
		}
	}
	assert.True(t, found)
}

func TestTurnsConcurrentWithLearnerShareRandSafely(t *testing.T) {
	defer goleak.VerifyNone(t)

	events := &sinkEvents{}
	// Default random source: the router and the learner draw from the same
	// shared rand on different goroutines.
	morning := func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }
	eng, err := New(events,
		WithClock(morning),
		WithDeliveryTimings(time.Millisecond, time.Millisecond, time.Millisecond),
		WithLearnerTimings(time.Millisecond, time.Millisecond))
	require.NoError(t, err)
	defer eng.Close()

	require.NoError(t, eng.SetAutonomous(true))

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, eng.SubmitUserMessage(ctx, "hello"))
	}

	require.NoError(t, eng.SetAutonomous(false))
}

func TestLockedRandSerializesDraws(t *testing.T) {
	r := &lockedRand{src: fixedRand{v: 1}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if got := r.Intn(5); got != 1 {
					t.Errorf("Intn = %d, want 1", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestGroupChatTurn(t *testing.T) {
	defer goleak.VerifyNone(t)

	events := &sinkEvents{}
	eng := newTestEngine(t, events)
	defer eng.Close()

	require.NoError(t, eng.SetGroupChat(true))
	require.NoError(t, eng.SubmitUserMessage(context.Background(), "hello everyone"))

	// One user message plus one reply per specialist.
	all := eng.Transcript().All()
	require.Len(t, all, 5)
	assert.True(t, strings.HasPrefix(all[1].Content, "Chrono: "))
	assert.True(t, strings.HasPrefix(all[4].Content, "Kilo Code: "))

	view, err := eng.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, persona.KeyGeneral, view.CurrentAgent)
}

func TestToggleVoice(t *testing.T) {
	defer goleak.VerifyNone(t)

	events := &sinkEvents{}
	eng := newTestEngine(t, events)
	defer eng.Close()

	on, err := eng.ToggleVoice()
	require.NoError(t, err)
	assert.True(t, on)

	on, err = eng.ToggleVoice()
	require.NoError(t, err)
	assert.False(t, on)
}

func TestCloseIsTerminal(t *testing.T) {
	events := &sinkEvents{}
	eng := newTestEngine(t, events)

	require.NoError(t, eng.Close())
	assert.Error(t, eng.SubmitUserMessage(context.Background(), "hello"))
}

func TestClosePersistsArchive(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := t.TempDir() + "/knowledge.db"
	archive, err := knowledge.OpenArchive(path, nil)
	require.NoError(t, err)
	defer archive.Close()

	events := &sinkEvents{}
	eng := newTestEngine(t, events, WithArchive(archive))
	require.NoError(t, eng.SubmitUserMessage(context.Background(), "learn react hooks"))
	require.NoError(t, eng.Close())

	// A fresh engine sharing the archive sees the learned topic.
	events2 := &sinkEvents{}
	eng2 := newTestEngine(t, events2, WithArchive(archive))
	defer eng2.Close()

	_, ok := eng2.Store().LookupTopic(persona.KeyGeneral, "react hooks")
	assert.True(t, ok)
}
