package router

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfbinTECHA/zetav10/internal/knowledge"
	"github.com/jfbinTECHA/zetav10/internal/persona"
	"github.com/jfbinTECHA/zetav10/internal/session"
)

// seqRand returns a fixed sequence of values, then zeros.
type seqRand struct {
	vals []int
	i    int
}

func (s *seqRand) Intn(n int) int {
	if s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i] % n
	s.i++
	return v
}

func newTestRouter(t *testing.T, rng Rand) (*Router, *knowledge.Store) {
	t.Helper()
	registry := persona.NewRegistry()
	store := knowledge.NewStore(registry.Keys())
	if rng == nil {
		rng = &seqRand{}
	}
	morning := func() time.Time {
		return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	}
	return New(registry, store, rng, WithClock(morning)), store
}

func TestSwitchPersona(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	res := r.Route("switch to vega", session.NewContext(persona.KeyGeneral))

	assert.Equal(t, "persona-switch", res.Rule)
	assert.Equal(t, persona.KeyVega, res.Ctx.CurrentAgent)
	assert.Contains(t, res.Reply, "Switched to Vega!")
	assert.Contains(t, res.Reply, "I'm Vega, your UX and user engagement specialist")
}

func TestSwitchBeatsGreeting(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	// Both the switch and greeting patterns match; the earlier rule wins.
	res := r.Route("switch to vega, hello!", session.NewContext(persona.KeyGeneral))

	assert.Equal(t, "persona-switch", res.Rule)
	assert.Equal(t, persona.KeyVega, res.Ctx.CurrentAgent)
}

func TestLearnThenRecall(t *testing.T) {
	r, store := newTestRouter(t, nil)
	ctx := session.NewContext(persona.KeyGeneral)

	res := r.Route("learn react hooks", ctx)
	assert.Equal(t, "learn-topic", res.Rule)
	assert.Contains(t, res.Reply, `"react hooks"`)

	rec, ok := store.LookupTopic(persona.KeyGeneral, "react hooks")
	require.True(t, ok)
	assert.Equal(t, knowledge.SourceWebResearch, rec.Source)

	res = r.Route("recall react hooks", ctx)
	assert.Equal(t, "recall-topic", res.Rule)
	assert.Contains(t, res.Reply, rec.Content)
	assert.Contains(t, res.Reply, "web_research")
}

func TestRecallUnknownTopic(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	res := r.Route("recall quantum computing", session.NewContext(persona.KeyGeneral))

	assert.Equal(t, "recall-topic", res.Rule)
	assert.Contains(t, res.Reply, "don't have specific knowledge")
}

func TestBareLearnFallsThrough(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	res := r.Route("learn", session.NewContext(persona.KeyGeneral))

	assert.NotEqual(t, "learn-topic", res.Rule)
}

func TestButtonUnderKilo(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	ctx := session.NewContext(persona.KeyKilo)

	res := r.Route("make me a button", ctx)

	assert.Equal(t, "codegen-button", res.Rule)
	assert.Contains(t, res.Code, "SmartButton")
	assert.Equal(t, "button", res.Ctx.LastCodeType)
}

func TestButtonVariantsPerPersona(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	res := r.Route("button please", session.NewContext(persona.KeyVega))
	assert.Contains(t, res.Code, "AccessibleButton")

	res = r.Route("button please", session.NewContext(persona.KeyGeneral))
	assert.Contains(t, res.Code, "MyButton")
}

func TestButtonColorModRequiresPriorButton(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	ctx := session.NewContext(persona.KeyGeneral)

	// Without a prior button, "make it red" falls back.
	res := r.Route("make it red", ctx)
	assert.NotEqual(t, "button-color-mod", res.Rule)

	ctx.LastCodeType = "button"
	res = r.Route("make it red", ctx)
	assert.Equal(t, "button-color-mod", res.Rule)
	assert.Contains(t, res.Code, `variant="danger"`)
	assert.Equal(t, "button", res.Ctx.LastCodeType)
}

func TestFallback(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	res := r.Route("xyzzy plugh", session.NewContext(persona.KeyGeneral))

	assert.Equal(t, "fallback", res.Rule)
	assert.Equal(t, session.TopicUnknown, res.Ctx.LastTopic)
	assert.Contains(t, fallbackReplies, res.Reply)
}

func TestRoutingIsDeterministicWithFixedRand(t *testing.T) {
	r1, _ := newTestRouter(t, &seqRand{vals: []int{2}})
	r2, _ := newTestRouter(t, &seqRand{vals: []int{2}})

	a := r1.Route("xyzzy", session.NewContext(persona.KeyGeneral))
	b := r2.Route("xyzzy", session.NewContext(persona.KeyGeneral))

	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("identical inputs diverged (-a +b):\n%s", diff)
	}
	assert.Equal(t, fallbackReplies[2], a.Reply)
}

func TestGreetingTimeOfDay(t *testing.T) {
	// rng index 0 selects the time-of-day variant; the clock is fixed at 9am.
	r, _ := newTestRouter(t, &seqRand{vals: []int{0}})

	res := r.Route("hello", session.NewContext(persona.KeyGeneral))

	assert.Equal(t, "greeting", res.Rule)
	assert.Contains(t, res.Reply, "Good morning")
	assert.Equal(t, session.TopicGreeting, res.Ctx.LastTopic)
}

func TestGreetingUsesRememberedName(t *testing.T) {
	r, _ := newTestRouter(t, &seqRand{vals: []int{0}})
	ctx := session.NewContext(persona.KeyGeneral)
	ctx.UserName = "Sam"

	res := r.Route("hello", ctx)

	assert.Contains(t, res.Reply, "Sam")
}

func TestGreetingNameSeparatorPerVariant(t *testing.T) {
	// Only the "Hey there" and "Greetings" variants put a comma before the
	// name; the others join with a bare space.
	cases := []struct {
		variant int
		want    string
	}{
		{0, "Good morning Sam!"},
		{1, "Hey there, Sam!"},
		{2, "Hello Sam!"},
		{3, "Hi Sam!"},
		{4, "Greetings, Sam!"},
	}
	for _, tc := range cases {
		r, _ := newTestRouter(t, &seqRand{vals: []int{tc.variant}})
		ctx := session.NewContext(persona.KeyGeneral)
		ctx.UserName = "Sam"

		res := r.Route("hello", ctx)

		assert.True(t, strings.HasPrefix(res.Reply, tc.want),
			"variant %d: got %q, want prefix %q", tc.variant, res.Reply, tc.want)
	}
}

func TestNameExtractionIsNonTerminal(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	res := r.Route("my name is Alex, hello", session.NewContext(persona.KeyGeneral))

	// Name extraction records the name but the greeting rule still answers.
	assert.Equal(t, "greeting", res.Rule)
	assert.Equal(t, "Alex", res.Ctx.UserName)
}

func TestHelpFollowup(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	ctx := session.NewContext(persona.KeyGeneral)

	res := r.Route("what can you do", ctx)
	assert.Equal(t, "capability-help", res.Rule)
	assert.Equal(t, session.TopicHelp, res.Ctx.LastTopic)

	res = r.Route("yes please", res.Ctx)
	assert.Equal(t, "help-followup-yes", res.Rule)
	assert.Contains(t, res.Reply, "What component would you like me to create?")
}

func TestCollaborate(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	ctx := session.NewContext(persona.KeyChrono)

	res := r.Route("collaborate with vega", ctx)
	assert.Equal(t, "collaborate", res.Rule)
	assert.Contains(t, res.Reply, "I'll collaborate with Vega")
	// Collaboration announces a pairing; the active agent does not change.
	assert.Equal(t, persona.KeyChrono, res.Ctx.CurrentAgent)

	res = r.Route("collaborate with chrono", ctx)
	assert.Contains(t, res.Reply, "already in that mode")
}

func TestAutoLearnSideChannel(t *testing.T) {
	r, store := newTestRouter(t, nil)
	ctx := session.NewContext(persona.KeyKilo)

	res := r.Route("tell me about machine learning trends", ctx)

	// The side channel recorded the keyword even though a later rule answered.
	rec, ok := store.LookupTopic(persona.KeyKilo, "machine learning")
	require.True(t, ok)
	assert.Equal(t, knowledge.SourceSelfUpgrading, rec.Source)
	assert.NotEqual(t, "topic-auto-learn", res.Rule)
}

func TestAutoLearnSkipsGeneral(t *testing.T) {
	r, store := newTestRouter(t, nil)

	r.Route("tell me about machine learning trends", session.NewContext(persona.KeyGeneral))

	_, ok := store.LookupTopic(persona.KeyGeneral, "machine learning")
	assert.False(t, ok)
}

func TestLearnedTopicRecall(t *testing.T) {
	r, store := newTestRouter(t, nil)
	store.RecordTopic(persona.KeyAria, "peer review", "Peer review validates findings.", knowledge.SourceWebResearch)
	ctx := session.NewContext(persona.KeyAria)

	res := r.Route("what do you think about peer review practices", ctx)

	assert.Equal(t, "learned-topic-recall", res.Rule)
	assert.Contains(t, res.Reply, "Peer review validates findings.")
}

func TestContinuousLearning(t *testing.T) {
	r, store := newTestRouter(t, nil)
	ctx := session.NewContext(persona.KeyVega)

	res := r.Route("enable continuous learning", ctx)

	assert.Equal(t, "continuous-learning", res.Rule)
	rec, ok := store.LookupTopic(persona.KeyVega, "user experience design and interface optimization")
	require.True(t, ok)
	assert.Equal(t, knowledge.SourceContinuousLearning, rec.Source)
}

func TestContinuousLearningRequiresSpecialist(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	res := r.Route("enable continuous learning", session.NewContext(persona.KeyGeneral))

	assert.NotEqual(t, "continuous-learning", res.Rule)
}

func TestSynthesize(t *testing.T) {
	r, store := newTestRouter(t, nil)
	store.RecordTopic(persona.KeyKilo, "transformers", "x", knowledge.SourceWebResearch)

	res := r.Route("synthesize your knowledge", session.NewContext(persona.KeyGeneral))

	assert.Equal(t, "synthesize", res.Rule)
	assert.Contains(t, res.Reply, "Knowledge Synthesis Complete!")
	_, ok := store.LookupTopic(persona.KeyGeneral, "synthesized_knowledge")
	assert.True(t, ok)
}

func TestSelfImprove(t *testing.T) {
	r, store := newTestRouter(t, nil)
	store.RecordTopic(persona.KeyKilo, "reinforcement learning", "x", knowledge.SourceWebResearch)
	ctx := session.NewContext(persona.KeyKilo)

	res := r.Route("time to self improve", ctx)

	assert.Equal(t, "self-improve", res.Rule)
	require.NotNil(t, res.Notification)
	assert.Equal(t, "Kilo Code", res.Notification.Agent)
	assert.NotEmpty(t, res.Notification.NewCapabilities)
	rec, ok := store.LookupTopic(persona.KeyKilo, "self_improvement")
	require.True(t, ok)
	assert.Equal(t, knowledge.SourceRecursiveImprovement, rec.Source)
}

func TestDeepDiveRequiresActivePersona(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	// Kilo's deep dive phrasing, but spoken to chrono: the kilo rule is gated
	// on the active persona, so an earlier rule or fallback answers instead.
	res := r.Route("let's build an ai model together", session.NewContext(persona.KeyChrono))
	assert.NotEqual(t, "kilo-deep-dive", res.Rule)

	res = r.Route("let's build an ai model together", session.NewContext(persona.KeyKilo))
	assert.Equal(t, "kilo-deep-dive", res.Rule)
	assert.Contains(t, res.Code, "AIModelDesigner")
}

func TestResearch(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	ctx := session.NewContext(persona.KeyGeneral)

	res := r.Route("research react", ctx)

	assert.Equal(t, "research", res.Rule)
	assert.Contains(t, res.Reply, "https://react.dev/")
	assert.Contains(t, res.Reply, "GitHub URLs will automatically fetch README files")
	assert.Equal(t, session.TopicResearch, res.Ctx.LastTopic)
	assert.Equal(t, "react", res.Ctx.ResearchTopic)
}

func TestResearchUnknownTopicBuildsSearchURLs(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	res := r.Route("research underwater basket weaving", session.NewContext(persona.KeyGeneral))

	assert.Contains(t, res.Reply, "https://en.wikipedia.org/wiki/underwater_basket_weaving")
	assert.Contains(t, res.Reply, "duckduckgo.com")
}

func TestExplainWithoutCodePromptsForIt(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	res := r.Route("explain this to me", session.NewContext(persona.KeyGeneral))

	assert.Equal(t, "explain-code", res.Rule)
	assert.Contains(t, res.Reply, "Paste some code in backticks")
}

func TestExplainAnalyzesCodeBlock(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	input := "explain ```const x = () => useState(0)```"
	res := r.Route(input, session.NewContext(persona.KeyGeneral))

	assert.Contains(t, res.Reply, "JavaScript/React code")
	assert.Contains(t, res.Reply, "React hooks")
	assert.Equal(t, session.TopicExplanation, res.Ctx.LastTopic)
}

func TestRouteDoesNotMutateCallerView(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	view := session.NewContext(persona.KeyGeneral)

	res := r.Route("switch to kilo", view)

	assert.Equal(t, persona.KeyGeneral, view.CurrentAgent)
	assert.Equal(t, persona.KeyKilo, res.Ctx.CurrentAgent)
}

func TestRuleOrderIsStable(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	names := r.Rules()
	require.NotEmpty(t, names)
	assert.Equal(t, "topic-auto-learn", names[0])
	assert.Equal(t, "fallback", names[len(names)-1])
}
