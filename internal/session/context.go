// Package session holds the mutable per-session state threaded through every
// conversational turn: the conversation context and the message transcript.
package session

// Topic categories recorded in Context.LastTopic. Free-form topics from
// research requests are stored as-is.
const (
	TopicGreeting    = "greeting"
	TopicWellbeing   = "wellbeing"
	TopicHelp        = "help"
	TopicThanks      = "thanks"
	TopicFollowup    = "followup"
	TopicExplanation = "explanation"
	TopicDebugging   = "debugging"
	TopicResearch    = "research"
	TopicExpansion   = "knowledge_expansion"
	TopicIntegration = "integration"
	TopicUnknown     = "unknown"
)

// Context is the conversation state read and rewritten on every turn.
// Handlers receive a copy, mutate the copy, and the engine commits the copy
// atomically once the turn completes; the engine's single update loop makes
// the commit race-free.
type Context struct {
	CurrentAgent   string // always a valid persona key
	LastTopic      string // interaction category, or empty
	LastCodeType   string // subject of the last generated snippet, or empty
	ResearchTopic  string // last researched topic, or empty
	UserName       string // extracted from "my name is ...", or empty
	GroupChat      bool
	AutonomousMode bool
}

// NewContext returns the initial session context.
func NewContext(agentKey string) Context {
	return Context{CurrentAgent: agentKey}
}

// Clone returns an independent copy. Context is all scalars, so a value copy
// suffices; the method exists to make the copy-on-write discipline explicit
// at call sites.
func (c Context) Clone() Context {
	return c
}
