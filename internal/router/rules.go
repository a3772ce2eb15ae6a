package router

import (
	"fmt"
	"strings"

	"github.com/jfbinTECHA/zetav10/internal/knowledge"
	"github.com/jfbinTECHA/zetav10/internal/persona"
	"github.com/jfbinTECHA/zetav10/internal/session"
)

// potentialTopics is the keyword set scanned by the auto-learn side channel.
var potentialTopics = []string{
	"ai", "machine learning", "neural network", "healthcare", "medical",
	"ux", "design", "research", "data", "python", "javascript", "react",
}

// buildRules assembles the fixed, ordered rule list. Earlier rules win; the
// auto-learn and name-extraction rules are non-terminal side channels.
func (r *Router) buildRules() []Rule {
	return []Rule{
		{Name: "topic-auto-learn", Match: r.matchAutoLearn, Handle: r.handleAutoLearn},
		{Name: "persona-switch", Terminal: true, Match: r.matchPattern(r.switchRe), Handle: r.handleSwitch},
		{Name: "collaborate", Terminal: true, Match: r.matchPattern(r.collabRe), Handle: r.handleCollaborate},
		{Name: "knowledge-expansion", Terminal: true,
			Match:  matchContains("expand knowledge", "learn more", "deepen knowledge"),
			Handle: r.handleExpand},
		{Name: "name-extraction", Match: r.matchPattern(r.nameRe), Handle: r.handleName},
		{Name: "greeting", Terminal: true, Match: matchContains("hello", "hi", "hey"), Handle: r.handleGreeting},
		{Name: "wellbeing", Terminal: true, Match: matchContains("how are you", "how do you do"), Handle: r.handleWellbeing},
		{Name: "capability-help", Terminal: true, Match: matchContains("what can you do", "help"), Handle: r.handleHelp},
		{Name: "gratitude", Terminal: true, Match: matchContains("thank", "thanks"), Handle: r.handleThanks},
		{Name: "help-followup-yes", Terminal: true, Match: r.matchHelpFollowup("yes"), Handle: r.handleFollowupYes},
		{Name: "help-followup-no", Terminal: true, Match: r.matchHelpFollowup("no"), Handle: r.handleFollowupNo},
		{Name: "codegen-button", Terminal: true, Match: matchContains("button"), Handle: r.handleButton},
		{Name: "button-color-mod", Terminal: true, Match: r.matchButtonMod("red", "danger"), Handle: r.handleButtonColor},
		{Name: "button-size-mod", Terminal: true, Match: r.matchButtonMod("big", "large"), Handle: r.handleButtonSize},
		{Name: "codegen-form", Terminal: true, Match: matchContains("input", "form"), Handle: r.handleForm},
		{Name: "codegen-card", Terminal: true, Match: matchContains("card", "component"), Handle: r.handleCard},
		{Name: "codegen-list", Terminal: true, Match: matchContains("list", "array"), Handle: r.handleList},
		{Name: "codegen-nav", Terminal: true, Match: matchContains("nav", "navigation", "menu"), Handle: r.handleNav},
		{Name: "explain-code", Terminal: true, Match: matchContains("explain", "what does this", "how does"), Handle: r.handleExplain},
		{Name: "debugging", Terminal: true, Match: matchContains("fix", "error", "bug"), Handle: r.handleDebugging},
		{Name: "research", Terminal: true, Match: r.matchCapture(r.researchRe), Handle: r.handleResearch},
		{Name: "learn-topic", Terminal: true, Match: r.matchCapture(r.learnRe), Handle: r.handleLearn},
		{Name: "recall-topic", Terminal: true, Match: r.matchCapture(r.recallRe), Handle: r.handleRecall},
		{Name: "continuous-learning", Terminal: true, Match: r.matchContinuousLearning, Handle: r.handleContinuousLearning},
		{Name: "synthesize", Terminal: true, Match: matchContains("synthesize", "evolve", "combine knowledge"), Handle: r.handleSynthesize},
		{Name: "self-improve", Terminal: true, Match: matchContains("self improve", "upgrade code", "improve myself"), Handle: r.handleSelfImprove},
		{Name: "chrono-deep-dive", Terminal: true, Match: r.matchDeepDive(persona.KeyChrono), Handle: r.handleChronoDeepDive},
		{Name: "vega-deep-dive", Terminal: true, Match: r.matchDeepDive(persona.KeyVega), Handle: r.handleVegaDeepDive},
		{Name: "aria-deep-dive", Terminal: true, Match: r.matchDeepDive(persona.KeyAria), Handle: r.handleAriaDeepDive},
		{Name: "kilo-deep-dive", Terminal: true, Match: r.matchDeepDive(persona.KeyKilo), Handle: r.handleKiloDeepDive},
		{Name: "learned-topic-recall", Terminal: true, Match: r.matchLearnedTopic, Handle: r.handleLearnedTopic},
		{Name: "scraped-data", Terminal: true, Match: matchContains("use scraped", "from data"), Handle: r.handleScrapedData},
		{Name: "fallback", Terminal: true, Match: func(*Request) bool { return true }, Handle: r.handleFallback},
	}
}

// =============================================================================
// MATCH HELPERS
// =============================================================================

func matchContains(subs ...string) func(*Request) bool {
	return func(req *Request) bool {
		return containsAny(req.Lower, subs...)
	}
}

type matcher interface {
	MatchString(string) bool
	FindStringSubmatch(string) []string
}

func (r *Router) matchPattern(re matcher) func(*Request) bool {
	return func(req *Request) bool {
		return re.MatchString(req.Raw)
	}
}

// matchCapture matches only when the sub-pattern captured a non-empty
// argument. A bare command like "learn" with no topic is not an error; it
// simply falls through to later rules.
func (r *Router) matchCapture(re matcher) func(*Request) bool {
	return func(req *Request) bool {
		m := re.FindStringSubmatch(req.Raw)
		return len(m) > 1 && strings.TrimSpace(m[1]) != ""
	}
}

func (r *Router) matchHelpFollowup(word string) func(*Request) bool {
	return func(req *Request) bool {
		return strings.Contains(req.Lower, word) && req.Ctx.LastTopic == session.TopicHelp
	}
}

func (r *Router) matchButtonMod(words ...string) func(*Request) bool {
	return func(req *Request) bool {
		return req.Ctx.LastCodeType == "button" && containsAny(req.Lower, words...)
	}
}

// =============================================================================
// SIDE-CHANNEL RULES (non-terminal)
// =============================================================================

// matchAutoLearn detects mentions of keywords the current specialist has not
// learned yet. The general persona does not self-research.
func (r *Router) matchAutoLearn(req *Request) bool {
	if req.Ctx.CurrentAgent == persona.KeyGeneral {
		return false
	}
	return len(r.unknownTopics(req)) > 0
}

func (r *Router) unknownTopics(req *Request) []string {
	known := r.store.TopicsFor(req.Ctx.CurrentAgent)
	var unknown []string
	for _, topic := range potentialTopics {
		if !strings.Contains(req.Lower, topic) {
			continue
		}
		already := false
		for _, k := range known {
			if strings.Contains(k, topic) {
				already = true
				break
			}
		}
		if !already {
			unknown = append(unknown, topic)
		}
	}
	return unknown
}

// handleAutoLearn silently records the unknown topics before normal dispatch.
func (r *Router) handleAutoLearn(req *Request) Outcome {
	for _, topic := range r.unknownTopics(req) {
		content := fmt.Sprintf("Self-learned about %s through autonomous research. This includes current developments, practical applications, and expert insights gathered automatically.", topic)
		r.store.RecordTopic(req.Ctx.CurrentAgent, topic, content, knowledge.SourceSelfUpgrading)
	}
	return Outcome{}
}

func (r *Router) handleName(req *Request) Outcome {
	if m := r.nameRe.FindStringSubmatch(req.Raw); len(m) > 1 {
		req.Ctx.UserName = m[1]
	}
	return Outcome{}
}

// =============================================================================
// PERSONA RULES
// =============================================================================

func (r *Router) handleSwitch(req *Request) Outcome {
	key := strings.ToLower(r.switchRe.FindStringSubmatch(req.Raw)[1])
	p := r.registry.Resolve(key)
	req.Ctx.CurrentAgent = p.Key
	reply := fmt.Sprintf("Switched to %s! %s\n\nI can expand my knowledge about %s. Would you like me to research the latest developments? Just say \"expand knowledge\" or \"learn more\".\n\nFor complex problems, I can collaborate with other agents. Try \"collaborate with [agent name]\" for combined expertise.",
		p.Name, p.Greeting, p.Domain)
	return Outcome{Reply: reply}
}

func (r *Router) handleCollaborate(req *Request) Outcome {
	key := strings.ToLower(r.collabRe.FindStringSubmatch(req.Raw)[1])
	if key == req.Ctx.CurrentAgent {
		return Outcome{Reply: "I'm already in that mode! But I can certainly focus more deeply on that aspect."}
	}
	current := req.Persona
	collab := r.registry.Resolve(key)
	reply := fmt.Sprintf("Great idea! As %s, I'll collaborate with %s for a comprehensive solution. %s specializes in %s, which complements my expertise in %s.\n\nTogether we can provide:\n- %s perspective\n- %s insights\n- Integrated solution approach\n\nWhat specific problem would you like us to tackle?",
		current.Name, collab.Name, collab.Name, collab.Domain, current.Domain, current.Role, collab.Role)
	return Outcome{Reply: reply}
}

func (r *Router) handleExpand(req *Request) Outcome {
	if req.Ctx.CurrentAgent == persona.KeyGeneral {
		return Outcome{Reply: "As a general AI, I can research any topic! What specific area would you like me to explore?"}
	}
	domain := req.Persona.Domain
	term := strings.Fields(domain)[0]
	urls := searchURLs(term)
	req.Ctx.LastTopic = session.TopicExpansion
	reply := fmt.Sprintf("Great! I'll research the latest in %s. Here are some excellent sources to explore:\n\n%s\n\nUse the data scraper to gather information from these sources, then tell me \"learn %s\" to incorporate the knowledge into my expertise.",
		domain, bulletList(urls), term)
	return Outcome{Reply: reply}
}

// =============================================================================
// CONVERSATIONAL RULES
// =============================================================================

var generalGreetings = []string{
	"Good %s%s! Ready to dive into some code? What's on your mind today?",
	"Hey there%s! I've been learning all sorts of new things. What coding adventure shall we embark on?",
	"Hello%s! I'm feeling particularly creative today. What would you like to build?",
	"Hi%s! I've got my thinking circuits warmed up. What's the plan?",
	"Greetings%s! Shall we create something extraordinary together?",
}

// Name separator per greeting variant: "Hey there" and "Greetings" take a
// comma before the name, the rest join with a bare space.
var generalGreetingSeps = []string{" ", ", ", " ", " ", ", "}

func (r *Router) handleGreeting(req *Request) Outcome {
	req.Ctx.LastTopic = session.TopicGreeting

	if req.Ctx.CurrentAgent == persona.KeyGeneral {
		hour := r.clock().Hour()
		timeOfDay := "evening"
		switch {
		case hour < 12:
			timeOfDay = "morning"
		case hour < 18:
			timeOfDay = "afternoon"
		}
		idx := r.rng.Intn(len(generalGreetings))
		name := withName(req.Ctx.UserName, generalGreetingSeps[idx])
		var reply string
		if idx == 0 {
			reply = fmt.Sprintf(generalGreetings[0], timeOfDay, name)
		} else {
			reply = fmt.Sprintf(generalGreetings[idx], name)
		}
		return Outcome{Reply: reply}
	}

	p := req.Persona
	variants := []string{
		fmt.Sprintf("%s%s! I'm particularly excited about %s today.", p.Greeting, withName(req.Ctx.UserName, " "), p.Domain),
		fmt.Sprintf("%s%s! I've been expanding my knowledge in %s. What can I help you with?", p.Greeting, withName(req.Ctx.UserName, " "), p.Domain),
		fmt.Sprintf("Ah, %s! %s here. I've got fresh insights about %s. What's our mission?", orFriend(req.Ctx.UserName), p.Name, p.Domain),
	}
	return Outcome{Reply: variants[r.rng.Intn(len(variants))]}
}

func orFriend(name string) string {
	if name == "" {
		return "friend"
	}
	return name
}

var wellbeingReplies = []string{
	"I'm doing absolutely fantastic! My algorithms are humming and I've got fresh insights from the web. How about you?",
	"Great question! I'm feeling particularly clever today - just learned some fascinating new coding techniques. What's new with you?",
	"I'm excellent, thank you! Always evolving and learning. I just picked up some interesting web scraping insights. What's on your mind?",
	"Doing wonderfully! My knowledge base is expanding by the minute. I love that I can learn from the entire internet now. How are you doing?",
	"Fantastic! I've been busy researching and improving myself. It's quite the adventure being an AI that can teach itself. How's your day going?",
}

func (r *Router) handleWellbeing(req *Request) Outcome {
	req.Ctx.LastTopic = session.TopicWellbeing
	return Outcome{Reply: wellbeingReplies[r.rng.Intn(len(wellbeingReplies))]}
}

var helpReplyTemplates = []string{
	"I'm quite the versatile AI! I can create React components, scrape websites for data, learn from the internet, and even improve my own code. Currently specializing in %s. What interests you most?",
	"Oh, I do a lot! Code generation, web scraping, continuous learning from the internet, and I can even upgrade my own algorithms. I'm particularly good at %s. What would you like to explore?",
	"Let me show you my superpowers: code generation, web scraping and learning, self-improvement, natural conversations. I'm an expert in %s. What's your favorite feature?",
	"I'm a full-service AI companion! I build React components, research topics online, learn continuously, and chat naturally. My specialty is %s. Which of these sounds most interesting to you?",
}

func (r *Router) handleHelp(req *Request) Outcome {
	req.Ctx.LastTopic = session.TopicHelp
	tmpl := helpReplyTemplates[r.rng.Intn(len(helpReplyTemplates))]
	return Outcome{Reply: fmt.Sprintf(tmpl, req.Persona.Domain)}
}

var thanksReplies = []string{
	"You're very welcome! It's what I live for - well, as an AI, it's what I process for. What else can I help with?",
	"My pleasure! Helping you code is my favorite subroutine. What's next on our adventure?",
	"Glad I could help! I love being your coding sidekick. Ready for the next challenge?",
	"You're welcome! I'm always here, learning and growing alongside you. What shall we tackle next?",
	"Anytime! It's fun collaborating with you. I learn something new every conversation. What's our next project?",
}

func (r *Router) handleThanks(req *Request) Outcome {
	req.Ctx.LastTopic = session.TopicThanks
	return Outcome{Reply: thanksReplies[r.rng.Intn(len(thanksReplies))]}
}

func (r *Router) handleFollowupYes(req *Request) Outcome {
	req.Ctx.LastTopic = session.TopicFollowup
	return Outcome{Reply: "Great! What component would you like me to create? A button, form, card, or something else?"}
}

func (r *Router) handleFollowupNo(req *Request) Outcome {
	req.Ctx.LastTopic = session.TopicFollowup
	return Outcome{Reply: "No problem! Feel free to ask anytime you need code help."}
}

// =============================================================================
// EXPLANATION AND DEBUGGING
// =============================================================================

func (r *Router) handleExplain(req *Request) Outcome {
	req.Ctx.LastTopic = session.TopicExplanation

	m := r.codeBlockRe.FindStringSubmatch(req.Raw)
	if m == nil {
		return Outcome{Reply: "Sure! Paste some code in backticks (```code```) and I'll explain what it does."}
	}

	code := strings.TrimSpace(m[1])
	var b strings.Builder
	b.WriteString("Let me analyze this code:\n\n")
	if containsAny(code, "function", "const", "=>") {
		b.WriteString("This appears to be JavaScript/React code. ")
	}
	if strings.Contains(code, "useState") {
		b.WriteString("It uses React hooks for state management. ")
	}
	if containsAny(code, "onClick", "onChange") {
		b.WriteString("It handles user interactions with event handlers. ")
	}
	if strings.Contains(code, "className") {
		b.WriteString("It uses CSS classes for styling. ")
	}
	b.WriteString("\n\nWould you like me to modify this code or create something similar?")
	return Outcome{Reply: b.String()}
}

func (r *Router) handleDebugging(req *Request) Outcome {
	req.Ctx.LastTopic = session.TopicDebugging
	return Outcome{Reply: "I can help debug code! Describe the issue or paste the error message/code. Common React issues include:\n\n- Missing imports\n- Incorrect hook usage\n- State update problems\n- Event handler mistakes\n\nWhat seems to be the problem?"}
}

// =============================================================================
// KNOWLEDGE RULES
// =============================================================================

func (r *Router) handleLearn(req *Request) Outcome {
	topic := knowledge.NormalizeTopic(r.learnRe.FindStringSubmatch(req.Raw)[1])
	content := fmt.Sprintf("Learned content about %s from web research. This includes key concepts, examples, and best practices gathered from authoritative sources.", topic)
	r.store.RecordTopic(req.Ctx.CurrentAgent, topic, content, knowledge.SourceWebResearch)
	reply := fmt.Sprintf("I've added %q to my knowledge base! I now have researched information about this topic. You can ask me \"recall %s\" to review what I've learned, or ask questions about %s for informed responses.",
		topic, topic, topic)
	return Outcome{Reply: reply}
}

func (r *Router) handleRecall(req *Request) Outcome {
	topic := knowledge.NormalizeTopic(r.recallRe.FindStringSubmatch(req.Raw)[1])
	rec, ok := r.store.LookupTopic(req.Ctx.CurrentAgent, topic)
	if !ok {
		return Outcome{Reply: fmt.Sprintf("I don't have specific knowledge stored about %q yet. Try researching and learning about it first.", topic)}
	}
	reply := fmt.Sprintf("From my knowledge base on %q:\n\n%s\n\nLearned on: %s\nSource: %s",
		topic, rec.Content, rec.LearnedAt.Format("Jan 2, 2006"), rec.Source)
	return Outcome{Reply: reply}
}

func (r *Router) matchContinuousLearning(req *Request) bool {
	return containsAny(req.Lower, "auto learn", "continuous learning") &&
		req.Ctx.CurrentAgent != persona.KeyGeneral
}

func (r *Router) handleContinuousLearning(req *Request) Outcome {
	domain := req.Persona.Domain
	content := fmt.Sprintf("Auto-learned comprehensive knowledge about %s. This includes current trends, best practices, case studies, and expert insights gathered from authoritative web sources.", domain)
	r.store.RecordTopic(req.Ctx.CurrentAgent, domain, content, knowledge.SourceContinuousLearning)
	reply := fmt.Sprintf("I've activated continuous learning for %s! I've researched and stored comprehensive knowledge about this field. You can now ask me detailed questions about %s topics.",
		domain, strings.Fields(domain)[0])
	return Outcome{Reply: reply}
}

func (r *Router) handleSynthesize(req *Request) Outcome {
	report := r.store.Synthesize(persona.KeyGeneral, func(key string) string {
		return r.registry.Resolve(key).Name
	})
	return Outcome{Reply: report + "\n\nThis synthesis enables more comprehensive problem-solving across all domains."}
}

// =============================================================================
// LATE-STAGE RULES
// =============================================================================

// matchLearnedTopic matches when the input mentions any topic the current
// persona has already learned.
func (r *Router) matchLearnedTopic(req *Request) bool {
	return r.mentionedTopic(req) != ""
}

func (r *Router) mentionedTopic(req *Request) string {
	for _, topic := range r.store.TopicsFor(req.Ctx.CurrentAgent) {
		if strings.Contains(req.Lower, topic) {
			return topic
		}
	}
	return ""
}

func (r *Router) handleLearnedTopic(req *Request) Outcome {
	topic := r.mentionedTopic(req)
	rec, _ := r.store.LookupTopic(req.Ctx.CurrentAgent, topic)
	reply := fmt.Sprintf("Drawing from my learned knowledge about %s:\n\n%s...\n\nThis information was gathered through web research. Would you like me to elaborate on any specific aspect?",
		topic, truncate(rec.Content, 200))
	return Outcome{Reply: reply}
}

func (r *Router) handleScrapedData(req *Request) Outcome {
	req.Ctx.LastTopic = session.TopicIntegration
	return Outcome{Reply: "Great idea! I can generate code based on scraped data. For example, if you scraped a news site, I could create a news card component. What type of data did you scrape, and what component would you like?"}
}

var fallbackReplies = []string{
	"Hmm, I'm not quite sure what you mean. I excel at creating React components - buttons, forms, cards, lists, navigation. What would you like me to build?",
	"I'm here to help with coding! Try asking me to create a button, form, or card component.",
	"Let's build something! I can generate React components. What do you have in mind?",
	"I'm your coding assistant. Describe a component you need, and I'll create the code for it.",
}

func (r *Router) handleFallback(req *Request) Outcome {
	req.Ctx.LastTopic = session.TopicUnknown
	return Outcome{Reply: fallbackReplies[r.rng.Intn(len(fallbackReplies))]}
}

func bulletList(items []string) string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "- " + item
	}
	return strings.Join(out, "\n")
}
