package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/youtrack-kb-agent/internal/config"
	"github.com/petasbytes/youtrack-kb-agent/internal/provider"
	"github.com/petasbytes/youtrack-kb-agent/internal/runner"
	"github.com/petasbytes/youtrack-kb-agent/internal/youtrack"
	"github.com/petasbytes/youtrack-kb-agent/memory"
	"github.com/petasbytes/youtrack-kb-agent/tools"
)

// persistedTail bounds the saved transcript.
const persistedTail = 200

func main() {
	// Basic env check (SDK also reads API key)
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		fmt.Println("Missing ANTHROPIC_API_KEY; export it before running.")
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	toolset := tools.New(youtrack.Config{
		BaseURL: cfg.YouTrack.BaseURL,
		Token:   cfg.YouTrack.Token,
		Timeout: cfg.YouTrack.Timeout(),
	})
	defer toolset.Close()

	persisted, err := memory.LoadConversation(cfg.ConversationPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load persisted conversation: %v\n", err)
	}

	r := runner.New(provider.NewAnthropicClient(), toolset.Definitions())
	model := provider.DefaultModel

	// Rebuild the SDK conversation from the persisted text transcript.
	conv := make([]anthropic.MessageParam, 0, len(persisted))
	for _, m := range persisted {
		if m.Role == "user" {
			conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		} else {
			conv = append(conv, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
		}
	}

	// Graceful shutdown on Ctrl-C (SIGINT) / SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	fmt.Println("Chat about your YouTrack knowledge base (Ctrl-C to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("\u001b[94mYou\u001b[0m: ")
		var (
			user string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case user, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(user)))

		// Collect assistant text to persist after the turn.
		var assistantText string
		for {
			msg, toolResults, err := r.RunOneStep(ctx, model, conv)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				break
			}
			conv = append(conv, msg.ToParam())
			for _, b := range msg.Content {
				if tb, ok := b.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
					if assistantText != "" {
						assistantText += "\n"
					}
					assistantText += tb.Text
				}
			}
			if len(toolResults) == 0 {
				break // assistant turn done
			}
			// Tool results go back to the model as a user message.
			conv = append(conv, anthropic.NewUserMessage(toolResults...))
		}

		// Persist a text-only transcript; tool blocks stay transient.
		persisted = append(persisted, memory.Message{Role: "user", Text: user})
		if strings.TrimSpace(assistantText) != "" {
			persisted = append(persisted, memory.Message{Role: "assistant", Text: assistantText})
		}
		persisted = memory.Tail(persisted, persistedTail)
		if err := memory.SaveConversation(cfg.ConversationPath, persisted); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save conversation: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
}
