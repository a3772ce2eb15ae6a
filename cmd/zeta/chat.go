package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/jfbinTECHA/zetav10/internal/engine"
	"github.com/jfbinTECHA/zetav10/internal/knowledge"
	"github.com/jfbinTECHA/zetav10/internal/llm"
	"github.com/jfbinTECHA/zetav10/internal/router"
	"github.com/jfbinTECHA/zetav10/internal/session"
)

// consoleEvents renders engine output to the terminal. Stream tokens print
// incrementally; code blocks print once the message completes.
type consoleEvents struct {
	mu  sync.Mutex
	out io.Writer
}

func (c *consoleEvents) OnMessageAppended(msg session.Message) {
	if msg.Role != session.RoleAssistant {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, "\n")
}

func (c *consoleEvents) OnStreamToken(messageID, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, token)
}

func (c *consoleEvents) OnMessageCompleted(msg session.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out)
	if msg.Code != "" {
		fmt.Fprintf(c.out, "\n```jsx\n%s\n```\n", msg.Code)
	}
}

func (c *consoleEvents) OnUpgradeNotification(n router.UpgradeNotification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\n[upgrade] %s gained: %s\n", n.Agent, strings.Join(n.NewCapabilities, ", "))
}

func (c *consoleEvents) OnKnowledgeChanged(personaKey, topic string, rec knowledge.Record) {
	// Background learning is chatty; only autonomous findings surface.
	if rec.Source != knowledge.SourceAutonomousResearch {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\n[research] %s learned about %s\n", personaKey, topic)
}

// consoleSpeaker is a stand-in for real speech synthesis.
type consoleSpeaker struct {
	out io.Writer
}

func (s *consoleSpeaker) Speak(text string) {
	if idx := strings.IndexByte(text, '\n'); idx > 0 {
		text = text[:idx]
	}
	fmt.Fprintf(s.out, "[voice] %s\n", text)
}

func runChat(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	remote, err := llm.Detect(llm.Settings{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
	}, logger)
	if err != nil {
		return err
	}

	events := &consoleEvents{out: os.Stdout}
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithSpeaker(&consoleSpeaker{out: os.Stdout}),
		engine.WithDeliveryTimings(
			cfg.Engine.StreamInterval.Std(),
			cfg.Engine.StaggerDelay.Std(),
			cfg.Engine.InitialDelay.Std()),
		engine.WithLearnerTimings(cfg.Learner.Interval.Std(), cfg.Learner.ResearchDelay.Std()),
		engine.WithCaps(cfg.Engine.TranscriptCap, cfg.Engine.KnowledgeCap),
	}
	if remote != nil {
		opts = append(opts, engine.WithRemote(remote))
	}
	if cfg.Archive.Path != "" {
		archive, err := knowledge.OpenArchive(cfg.Archive.Path, logger)
		if err != nil {
			return err
		}
		defer archive.Close()
		opts = append(opts, engine.WithArchive(archive))
	}

	eng, err := engine.New(events, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Warn("shutdown error", zap.Error(err))
		}
	}()

	fmt.Println("zeta chat - type /help for commands, /quit to exit")
	general := eng.Registry().Resolve("general")
	fmt.Printf("\n%s\n", general.Greeting)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			done, err := handleCommand(eng, line)
			if err != nil {
				fmt.Println(err)
			}
			if done {
				return nil
			}
			continue
		}

		if err := eng.SubmitUserMessage(ctx, line); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("turn failed", zap.Error(err))
		}
	}
}

func handleCommand(eng *engine.Engine, line string) (done bool, err error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil

	case "/help":
		fmt.Println(`Commands:
  /switch <persona>   change the active persona
  /group              toggle group chat mode
  /auto               toggle autonomous learning
  /voice              toggle voice output
  /topics             show learned topics for the active persona
  /status             show current mode flags
  /save               persist learned knowledge now
  /quit               exit`)
		return false, nil

	case "/switch":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: /switch <persona>")
		}
		if err := eng.SwitchPersona(fields[1]); err != nil {
			return false, err
		}
		p := eng.Registry().Resolve(fields[1])
		fmt.Printf("Now talking to %s (%s)\n", p.Name, p.Role)
		return false, nil

	case "/group":
		view, err := eng.Snapshot()
		if err != nil {
			return false, err
		}
		if err := eng.SetGroupChat(!view.GroupChat); err != nil {
			return false, err
		}
		fmt.Printf("Group chat: %v\n", !view.GroupChat)
		return false, nil

	case "/auto":
		view, err := eng.Snapshot()
		if err != nil {
			return false, err
		}
		if err := eng.SetAutonomous(!view.AutonomousMode); err != nil {
			return false, err
		}
		fmt.Printf("Autonomous learning: %v\n", !view.AutonomousMode)
		return false, nil

	case "/voice":
		on, err := eng.ToggleVoice()
		if err != nil {
			return false, err
		}
		fmt.Printf("Voice output: %v\n", on)
		return false, nil

	case "/topics":
		view, err := eng.Snapshot()
		if err != nil {
			return false, err
		}
		topics := eng.Store().TopicsFor(view.CurrentAgent)
		if len(topics) == 0 {
			fmt.Printf("%s has not learned anything yet\n", view.CurrentAgent)
			return false, nil
		}
		for _, t := range topics {
			fmt.Println("-", t)
		}
		return false, nil

	case "/status":
		view, err := eng.Snapshot()
		if err != nil {
			return false, err
		}
		fmt.Printf("persona=%s group=%v autonomous=%v messages=%d\n",
			view.CurrentAgent, view.GroupChat, view.AutonomousMode, eng.Transcript().Len())
		return false, nil

	case "/save":
		if err := eng.Save(); err != nil {
			return false, err
		}
		fmt.Println("Knowledge saved")
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
}
