// Package delivery turns routed replies into the simulated-streaming message
// flow the chat surface renders: addressee resolution, an optional remote
// completion attempt, word-by-word token emission, and per-agent staggering in
// group chat.
package delivery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jfbinTECHA/zetav10/internal/knowledge"
	"github.com/jfbinTECHA/zetav10/internal/llm"
	"github.com/jfbinTECHA/zetav10/internal/persona"
	"github.com/jfbinTECHA/zetav10/internal/router"
	"github.com/jfbinTECHA/zetav10/internal/session"
)

// Default pacing. Streaming is simulated, so these only shape perceived
// latency, never correctness.
const (
	DefaultStreamInterval = 100 * time.Millisecond
	DefaultStaggerDelay   = 1500 * time.Millisecond
	DefaultInitialDelay   = 800 * time.Millisecond
)

var mentionRe = regexp.MustCompile(`@(\w+)`)

// Events receives the observable output of the system. Implementations must
// be fast; they are called inline from the pipeline and store goroutines.
type Events interface {
	OnMessageAppended(msg session.Message)
	OnStreamToken(messageID, token string)
	OnMessageCompleted(msg session.Message)
	OnUpgradeNotification(n router.UpgradeNotification)
	OnKnowledgeChanged(personaKey, topic string, rec knowledge.Record)
}

// Speaker voices a completed reply when voice mode is on.
type Speaker interface {
	Speak(text string)
}

// Turn is one user input plus the context snapshot it runs against.
type Turn struct {
	Input  string
	View   session.Context
	Voice  bool
	Prompt llm.PromptContext
}

// Delivered is a fully streamed assistant message and the context state that
// should be committed alongside it.
type Delivered struct {
	Message      session.Message
	Ctx          session.Context
	Notification *router.UpgradeNotification
}

// Pipeline resolves addressees, produces replies, and streams them out.
type Pipeline struct {
	registry *persona.Registry
	router   *router.Router
	remote   llm.Client
	events   Events
	speaker  Speaker
	logger   *zap.Logger

	streamInterval time.Duration
	staggerDelay   time.Duration
	initialDelay   time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRemote sets the remote completion client. A nil client keeps the
// pipeline local-only.
func WithRemote(c llm.Client) Option {
	return func(p *Pipeline) { p.remote = c }
}

// WithSpeaker sets the voice output sink.
func WithSpeaker(s Speaker) Option {
	return func(p *Pipeline) { p.speaker = s }
}

// WithLogger sets the pipeline logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithTimings overrides stream pacing. Zero values keep the defaults; tests
// pass tiny intervals to run fast.
func WithTimings(stream, stagger, initial time.Duration) Option {
	return func(p *Pipeline) {
		if stream > 0 {
			p.streamInterval = stream
		}
		if stagger > 0 {
			p.staggerDelay = stagger
		}
		if initial > 0 {
			p.initialDelay = initial
		}
	}
}

// New creates a delivery pipeline.
func New(registry *persona.Registry, rt *router.Router, events Events, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry:       registry,
		router:         rt,
		events:         events,
		logger:         zap.NewNop(),
		streamInterval: DefaultStreamInterval,
		staggerDelay:   DefaultStaggerDelay,
		initialDelay:   DefaultInitialDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Respond runs one turn. commit is invoked once per fully streamed message
// with the message and the context state to persist; the caller decides how
// commits are serialized. Respond returns early on context cancellation.
func (p *Pipeline) Respond(ctx context.Context, turn Turn, commit func(Delivered)) error {
	input, addressees, addressed := p.resolveAddressees(turn.Input, turn.View)

	if err := sleepCtx(ctx, p.initialDelay); err != nil {
		return err
	}

	// Remote completion replaces the whole local turn when it succeeds.
	if p.remote != nil {
		if done, err := p.respondRemote(ctx, turn, input, commit); done || err != nil {
			return err
		}
	}

	for i, key := range addressees {
		if i > 0 {
			if err := sleepCtx(ctx, p.staggerDelay); err != nil {
				return err
			}
		}

		view := turn.View
		view.CurrentAgent = key
		result := p.router.Route(input, view)

		after := result.Ctx
		if addressed {
			// Group and mention turns route per addressee; the active agent
			// only changes through an explicit switch in plain mode.
			after.CurrentAgent = turn.View.CurrentAgent
		}

		// Every local reply carries the responding persona's name; speech
		// gets the bare text.
		reply := p.registry.Resolve(key).Name + ": " + result.Reply

		msg := session.NewMessage(session.RoleAssistant, reply)
		msg.Code = result.Code
		msg.Persona = key
		msg.Source = session.SourceLocal

		p.events.OnMessageAppended(msg)
		if err := p.stream(ctx, msg.ID, reply); err != nil {
			return err
		}
		p.events.OnMessageCompleted(msg)

		commit(Delivered{Message: msg, Ctx: after, Notification: result.Notification})
		if result.Notification != nil {
			p.events.OnUpgradeNotification(*result.Notification)
		}
		p.speak(turn.Voice, result.Reply)
	}
	return nil
}

// respondRemote attempts a remote completion for the active agent. It returns
// done=true when a remote reply was delivered and the local path should be
// skipped entirely.
func (p *Pipeline) respondRemote(ctx context.Context, turn Turn, input string, commit func(Delivered)) (bool, error) {
	system := llm.BuildSystemPrompt(turn.Prompt)
	reply, err := p.remote.CompleteWithSystem(ctx, system, input)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		p.logger.Warn("remote completion failed, falling back to local routing",
			zap.String("provider", p.remote.Provider()),
			zap.Error(err))
		return false, nil
	}

	msg := session.NewMessage(session.RoleAssistant, reply)
	msg.Persona = turn.View.CurrentAgent
	msg.Source = p.remote.Provider()

	p.events.OnMessageAppended(msg)
	if err := p.stream(ctx, msg.ID, reply); err != nil {
		return false, err
	}
	p.events.OnMessageCompleted(msg)
	commit(Delivered{Message: msg, Ctx: turn.View})
	p.speak(turn.Voice, reply)
	return true, nil
}

// resolveAddressees picks which personas answer this turn. An @mention of a
// known persona wins and is stripped from the input; group chat fans out to
// every specialist; otherwise the active agent answers alone. addressed
// reports whether the turn routes per addressee and must leave the active
// agent untouched.
func (p *Pipeline) resolveAddressees(input string, view session.Context) (string, []string, bool) {
	if m := mentionRe.FindStringSubmatch(input); m != nil {
		key := strings.ToLower(m[1])
		if p.registry.Valid(key) {
			stripped := strings.TrimSpace(strings.Replace(input, m[0], "", 1))
			return stripped, []string{key}, true
		}
	}
	if view.GroupChat {
		return input, p.registry.DomainKeys(), true
	}
	return input, []string{view.CurrentAgent}, false
}

// stream emits the reply word by word. Splitting on single spaces keeps
// newlines attached to their preceding word so multi-line replies reassemble
// byte for byte.
func (p *Pipeline) stream(ctx context.Context, messageID, text string) error {
	words := strings.Split(text, " ")
	for i, w := range words {
		if i > 0 {
			if err := sleepCtx(ctx, p.streamInterval); err != nil {
				return err
			}
			w = " " + w
		}
		p.events.OnStreamToken(messageID, w)
	}
	return nil
}

func (p *Pipeline) speak(voice bool, text string) {
	if voice && p.speaker != nil {
		p.speaker.Speak(text)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("delivery interrupted: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
