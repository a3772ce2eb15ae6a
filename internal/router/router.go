// Package router implements the ordered intent-matching dispatcher at the
// heart of the conversational engine. Routing is a priority list, not
// best-match scoring: rules are evaluated in a fixed order and the first
// terminal rule that matches wins. A few early rules are side-effecting but
// non-terminal; they mutate the working context or the knowledge store and
// let evaluation continue.
package router

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jfbinTECHA/zetav10/internal/knowledge"
	"github.com/jfbinTECHA/zetav10/internal/persona"
	"github.com/jfbinTECHA/zetav10/internal/session"
)

// Rand is the injected random source used for flavor-text selection.
// *math/rand.Rand satisfies it; tests supply a fixed implementation.
type Rand interface {
	Intn(n int) int
}

// Request carries one normalized user input through the rule chain.
// Ctx is the working copy of the conversation context; handlers mutate it
// freely and the caller commits it after routing.
type Request struct {
	Raw     string
	Lower   string
	Ctx     *session.Context
	Persona persona.Persona
}

// Outcome is what a matched rule produces.
type Outcome struct {
	Reply        string
	Code         string
	Notification *UpgradeNotification
}

// Rule is one ordered (predicate, handler) pair. Handle is only invoked when
// Match reported true. Non-terminal rules let evaluation continue.
type Rule struct {
	Name     string
	Terminal bool
	Match    func(req *Request) bool
	Handle   func(req *Request) Outcome
}

// Result is the routed reply plus the outgoing context.
type Result struct {
	Reply        string
	Code         string
	Rule         string
	Ctx          session.Context
	Notification *UpgradeNotification
}

// Router evaluates the fixed rule list against normalized input.
type Router struct {
	registry *persona.Registry
	store    *knowledge.Store
	rng      Rand
	clock    func() time.Time
	logger   *zap.Logger
	rules    []Rule

	switchRe    *regexp.Regexp
	collabRe    *regexp.Regexp
	nameRe      *regexp.Regexp
	researchRe  *regexp.Regexp
	learnRe     *regexp.Regexp
	recallRe    *regexp.Regexp
	codeBlockRe *regexp.Regexp
}

// Option configures a Router.
type Option func(*Router)

// WithClock overrides the time source used for time-of-day greetings.
func WithClock(clock func() time.Time) Option {
	return func(r *Router) { r.clock = clock }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// New builds a router over the persona registry and knowledge store.
// rng drives flavor-text selection and must not be nil.
func New(registry *persona.Registry, store *knowledge.Store, rng Rand, opts ...Option) *Router {
	r := &Router{
		registry: registry,
		store:    store,
		rng:      rng,
		clock:    time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	// Match predicates are built from the registry so an invalid persona key
	// can never reach a handler.
	r.switchRe = regexp.MustCompile(`(?i)switch to (` + strings.Join(registry.Keys(), "|") + `)`)
	r.collabRe = regexp.MustCompile(`(?i)collaborate with (` + strings.Join(registry.DomainKeys(), "|") + `)`)
	r.nameRe = regexp.MustCompile(`(?i)(?:my name is|i am|call me)\s+(\w+)`)
	r.researchRe = regexp.MustCompile(`(?i)(?:research|search)\s+(.+)`)
	r.learnRe = regexp.MustCompile(`(?i)\blearn\s+(.+)`)
	r.recallRe = regexp.MustCompile(`(?i)(?:recall|remember)\s+(.+)`)
	r.codeBlockRe = regexp.MustCompile("(?s)```(.*?)```")

	r.rules = r.buildRules()
	return r
}

// Route normalizes the input, walks the rule list, and returns the first
// terminal outcome together with the mutated context. Routing never fails for
// well-formed string input; the final fallback rule always matches.
func (r *Router) Route(raw string, view session.Context) Result {
	ctx := view.Clone()
	req := &Request{
		Raw:     strings.TrimSpace(raw),
		Lower:   strings.ToLower(strings.TrimSpace(raw)),
		Ctx:     &ctx,
		Persona: r.registry.Resolve(view.CurrentAgent),
	}

	for _, rule := range r.rules {
		if !rule.Match(req) {
			continue
		}
		out := rule.Handle(req)
		if !rule.Terminal {
			continue
		}
		r.logger.Debug("intent routed",
			zap.String("rule", rule.Name),
			zap.String("agent", ctx.CurrentAgent))
		return Result{
			Reply:        out.Reply,
			Code:         out.Code,
			Rule:         rule.Name,
			Ctx:          ctx,
			Notification: out.Notification,
		}
	}

	// Unreachable: the fallback rule matches everything.
	return Result{Reply: "", Ctx: ctx, Rule: "none"}
}

// Rules returns the rule names in evaluation order, for introspection.
func (r *Router) Rules() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name
	}
	return names
}

// containsAny reports whether s contains at least one of the substrings.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// withName appends the remembered user name behind sep when known.
func withName(name, sep string) string {
	if name == "" {
		return ""
	}
	return sep + name
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
