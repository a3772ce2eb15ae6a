// Package engine wires the conversational system together: persona registry,
// knowledge store, intent router, delivery pipeline, and the autonomous
// learner. All shared-state mutation funnels through a single update
// goroutine, so chat turns and background learning commit in a strict serial
// order without fine-grained locking in the callers.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jfbinTECHA/zetav10/internal/delivery"
	"github.com/jfbinTECHA/zetav10/internal/knowledge"
	"github.com/jfbinTECHA/zetav10/internal/learner"
	"github.com/jfbinTECHA/zetav10/internal/llm"
	"github.com/jfbinTECHA/zetav10/internal/persona"
	"github.com/jfbinTECHA/zetav10/internal/router"
	"github.com/jfbinTECHA/zetav10/internal/session"
)

// promptHistoryWindow bounds how much transcript context a remote completion
// request reports.
const promptHistoryWindow = 10

// Rand seeds both routed reply variation and learner subtopic selection.
type Rand interface {
	Intn(n int) int
}

// lockedRand serializes draws from a shared source. The router draws on the
// chat-turn goroutine while the learner draws from its cycle goroutine, and
// *math/rand.Rand is not safe for concurrent use.
type lockedRand struct {
	mu  sync.Mutex
	src Rand
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

// Engine owns all conversational state for one session.
type Engine struct {
	registry   *persona.Registry
	store      *knowledge.Store
	transcript *session.Transcript
	router     *router.Router
	pipeline   *delivery.Pipeline
	learner    *learner.Learner
	archive    *knowledge.Archive
	events     delivery.Events
	logger     *zap.Logger

	// State below is owned by the update loop.
	view  session.Context
	voice bool

	updates chan func()
	rootCtx context.Context
	cancel  context.CancelFunc
	loopWG  sync.WaitGroup
}

type options struct {
	remote        llm.Client
	speaker       delivery.Speaker
	archive       *knowledge.Archive
	rng           Rand
	clock         func() time.Time
	logger        *zap.Logger
	stream        time.Duration
	stagger       time.Duration
	initial       time.Duration
	learnInterval time.Duration
	researchDelay time.Duration
	transcriptCap int
	knowledgeCap  int
}

// Option configures an Engine.
type Option func(*options)

// WithRemote sets the remote completion client.
func WithRemote(c llm.Client) Option { return func(o *options) { o.remote = c } }

// WithSpeaker sets the voice output sink.
func WithSpeaker(s delivery.Speaker) Option { return func(o *options) { o.speaker = s } }

// WithArchive sets the SQLite knowledge archive. The engine loads it on
// construction and saves on Close.
func WithArchive(a *knowledge.Archive) Option { return func(o *options) { o.archive = a } }

// WithRand injects the random source. Tests pass a fixed sequence.
func WithRand(r Rand) Option { return func(o *options) { o.rng = r } }

// WithClock injects the wall clock used for greetings and timestamps.
func WithClock(fn func() time.Time) Option { return func(o *options) { o.clock = fn } }

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.logger = l } }

// WithDeliveryTimings overrides stream pacing. Zero values keep defaults.
func WithDeliveryTimings(stream, stagger, initial time.Duration) Option {
	return func(o *options) { o.stream, o.stagger, o.initial = stream, stagger, initial }
}

// WithLearnerTimings overrides the research loop pacing.
func WithLearnerTimings(interval, researchDelay time.Duration) Option {
	return func(o *options) { o.learnInterval, o.researchDelay = interval, researchDelay }
}

// WithCaps overrides transcript and knowledge retention limits.
func WithCaps(transcriptCap, knowledgeCap int) Option {
	return func(o *options) { o.transcriptCap, o.knowledgeCap = transcriptCap, knowledgeCap }
}

// New builds an engine and starts its update loop. events must be non-nil.
func New(events delivery.Events, opts ...Option) (*Engine, error) {
	if events == nil {
		return nil, fmt.Errorf("engine requires an event sink")
	}

	o := &options{
		clock:  time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(o.clock().UnixNano()))
	}
	rng := &lockedRand{src: o.rng}

	registry := persona.NewRegistry()

	storeOpts := []knowledge.Option{
		knowledge.WithLogger(o.logger),
		knowledge.WithClock(o.clock),
		knowledge.WithListener(func(personaKey, topic string, rec knowledge.Record) {
			events.OnKnowledgeChanged(personaKey, topic, rec)
		}),
	}
	if o.knowledgeCap > 0 {
		storeOpts = append(storeOpts, knowledge.WithCap(o.knowledgeCap))
	}
	store := knowledge.NewStore(registry.Keys(), storeOpts...)

	transcript := session.NewTranscript(o.transcriptCap)

	rt := router.New(registry, store, rng,
		router.WithClock(o.clock),
		router.WithLogger(o.logger))

	pipelineOpts := []delivery.Option{
		delivery.WithLogger(o.logger),
		delivery.WithTimings(o.stream, o.stagger, o.initial),
	}
	if o.remote != nil {
		pipelineOpts = append(pipelineOpts, delivery.WithRemote(o.remote))
	}
	if o.speaker != nil {
		pipelineOpts = append(pipelineOpts, delivery.WithSpeaker(o.speaker))
	}
	pipeline := delivery.New(registry, rt, events, pipelineOpts...)

	rootCtx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		registry:   registry,
		store:      store,
		transcript: transcript,
		router:     rt,
		pipeline:   pipeline,
		archive:    o.archive,
		events:     events,
		logger:     o.logger,
		view:       session.NewContext(persona.KeyGeneral),
		updates:    make(chan func()),
		rootCtx:    rootCtx,
		cancel:     cancel,
	}

	learnerOpts := []learner.Option{learner.WithLogger(o.logger)}
	if o.learnInterval > 0 {
		learnerOpts = append(learnerOpts, learner.WithInterval(o.learnInterval))
	}
	if o.researchDelay > 0 {
		learnerOpts = append(learnerOpts, learner.WithResearchDelay(o.researchDelay))
	}
	e.learner = learner.New(registry, rng, e.applyFinding, learnerOpts...)

	if e.archive != nil {
		if err := e.archive.Load(store); err != nil {
			cancel()
			return nil, fmt.Errorf("load knowledge archive: %w", err)
		}
	}

	e.loopWG.Add(1)
	go e.updateLoop()
	return e, nil
}

// updateLoop applies queued state mutations one at a time.
func (e *Engine) updateLoop() {
	defer e.loopWG.Done()
	for {
		select {
		case <-e.rootCtx.Done():
			return
		case fn := <-e.updates:
			fn()
		}
	}
}

// do runs fn on the update loop and waits for it to finish.
func (e *Engine) do(fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		fn()
	}
	select {
	case e.updates <- wrapped:
	case <-e.rootCtx.Done():
		return fmt.Errorf("engine closed: %w", e.rootCtx.Err())
	}
	select {
	case <-done:
		return nil
	case <-e.rootCtx.Done():
		return fmt.Errorf("engine closed: %w", e.rootCtx.Err())
	}
}

// applyFinding commits one learner research result through the update queue.
func (e *Engine) applyFinding(f learner.Finding) {
	_ = e.do(func() {
		e.store.RecordTopic(f.PersonaKey, f.Topic, f.Content, knowledge.SourceAutonomousResearch)
	})
}

// SubmitUserMessage runs one full chat turn: the user message is appended,
// addressed personas reply through the delivery pipeline, and each completed
// reply commits transcript and context updates in order. It blocks until the
// turn finishes streaming or ctx is cancelled.
func (e *Engine) SubmitUserMessage(ctx context.Context, text string) error {
	var (
		view   session.Context
		voice  bool
		prompt llm.PromptContext
	)
	err := e.do(func() {
		userMsg := session.NewMessage(session.RoleUser, text)
		e.transcript.Append(userMsg)
		e.events.OnMessageAppended(userMsg)

		view = e.view.Clone()
		voice = e.voice
		prompt = e.buildPromptContext()
	})
	if err != nil {
		return err
	}

	turn := delivery.Turn{Input: text, View: view, Voice: voice, Prompt: prompt}
	return e.pipeline.Respond(ctx, turn, func(d delivery.Delivered) {
		_ = e.do(func() {
			e.transcript.Append(d.Message)
			e.view = d.Ctx
		})
	})
}

// buildPromptContext snapshots state for a remote completion request. Called
// from the update loop.
func (e *Engine) buildPromptContext() llm.PromptContext {
	learned := make(map[string]string)
	for _, rec := range e.store.Records(e.view.CurrentAgent) {
		learned[rec.Topic] = rec.Content
	}
	recent := e.transcript.Recent(promptHistoryWindow)
	return llm.PromptContext{
		LearnedData:    learned,
		CurrentAgent:   e.view.CurrentAgent,
		Personality:    e.registry.Resolve(e.view.CurrentAgent),
		RecentMessages: len(recent),
	}
}

// SwitchPersona makes the named persona the active agent.
func (e *Engine) SwitchPersona(key string) error {
	if !e.registry.Valid(key) {
		return fmt.Errorf("unknown persona %q", key)
	}
	return e.do(func() {
		e.view.CurrentAgent = key
		e.logger.Info("persona switched", zap.String("persona", key))
	})
}

// SetGroupChat toggles group chat mode.
func (e *Engine) SetGroupChat(on bool) error {
	return e.do(func() { e.view.GroupChat = on })
}

// SetAutonomous toggles autonomous learning mode, starting or stopping the
// background research loop.
func (e *Engine) SetAutonomous(on bool) error {
	err := e.do(func() { e.view.AutonomousMode = on })
	if err != nil {
		return err
	}
	if on {
		e.learner.Start(e.rootCtx)
	} else {
		e.learner.Stop()
	}
	return nil
}

// ToggleVoice flips voice output and returns the new state.
func (e *Engine) ToggleVoice() (bool, error) {
	var on bool
	err := e.do(func() {
		e.voice = !e.voice
		on = e.voice
	})
	return on, err
}

// Snapshot returns a copy of the current conversation context.
func (e *Engine) Snapshot() (session.Context, error) {
	var view session.Context
	err := e.do(func() { view = e.view.Clone() })
	return view, err
}

// Transcript returns the message history accessor.
func (e *Engine) Transcript() *session.Transcript { return e.transcript }

// Store returns the knowledge store accessor.
func (e *Engine) Store() *knowledge.Store { return e.store }

// Registry returns the persona catalog.
func (e *Engine) Registry() *persona.Registry { return e.registry }

// Learner exposes the background research loop, mainly for status display.
func (e *Engine) Learner() *learner.Learner { return e.learner }

// Save persists the knowledge store to the archive, when one is configured.
func (e *Engine) Save() error {
	if e.archive == nil {
		return nil
	}
	return e.archive.Save(e.store)
}

// Close stops background work, persists knowledge, and shuts the update loop
// down. The engine is unusable afterwards.
func (e *Engine) Close() error {
	e.learner.Stop()

	var saveErr error
	if e.archive != nil {
		saveErr = e.archive.Save(e.store)
	}

	e.cancel()
	e.loopWG.Wait()

	if saveErr != nil {
		return fmt.Errorf("save knowledge archive: %w", saveErr)
	}
	return nil
}
