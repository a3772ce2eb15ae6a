// Package llm provides the best-effort remote completion clients used by the
// response delivery pipeline. Remote completion is an optional enhancement:
// every failure path returns an error and the caller falls back to the local
// intent router, so nothing here is allowed to panic or block indefinitely.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/jfbinTECHA/zetav10/internal/persona"
)

// Client is the provider-neutral completion interface.
type Client interface {
	// Provider returns the provider tag recorded on remote-sourced messages.
	Provider() string
	// CompleteWithSystem performs a single completion attempt. No retries.
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// PromptContext is the conversation snapshot carried with a remote request.
type PromptContext struct {
	LearnedData    map[string]string
	CurrentAgent   string
	Personality    persona.Persona
	RecentMessages int
}

// BuildSystemPrompt renders the system prompt from a context snapshot.
func BuildSystemPrompt(pc PromptContext) string {
	var learned []string
	for topic, content := range pc.LearnedData {
		learned = append(learned, fmt.Sprintf("%s: %s", topic, firstSentence(content)))
	}

	return fmt.Sprintf(`You are an advanced AI coding assistant integrated with a sophisticated local learning system.

CONTEXT INFORMATION:
- Learned Knowledge: %s
- Current Agent: %s
- Agent Personality: %s (%s) - %s
- Conversation History: %d messages

CAPABILITIES:
- Generate React components and code
- Access web scraping functionality
- Self-improvement and learning
- Multi-agent coordination
- Natural conversation

INSTRUCTIONS:
- Be helpful, witty, and engaging
- Reference learned knowledge when relevant
- Maintain conversation context
- Provide high-quality, working code examples

Always respond naturally and intelligently, leveraging both your general knowledge and the specific context provided.`,
		strings.Join(learned, "; "),
		pc.CurrentAgent,
		pc.Personality.Name, pc.Personality.Role, pc.Personality.Style,
		pc.RecentMessages)
}

func firstSentence(s string) string {
	if idx := strings.IndexByte(s, '.'); idx > 0 {
		return s[:idx+1]
	}
	return s
}
