package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ethanbaker/transcript-assistant/pkg/chat"
	"github.com/spf13/cobra"
)

func newAskCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask about your transcripts",
		Long: `Ask a question about your transcripts.

With a question, it is sent once and the reply printed. Without one, an
interactive session starts; type 'exit' to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.querier()
			if err != nil {
				return err
			}

			conv := chat.NewConversation("commandline")
			if len(args) > 0 {
				return askOnce(cmd.Context(), cmd.OutOrStdout(), conv, q, strings.Join(args, " "))
			}
			return startInteractiveSession(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), conv, q)
		},
	}
}

// askOnce sends one question and prints the reply
func askOnce(ctx context.Context, out io.Writer, conv *chat.Conversation, q chat.Querier, question string) error {
	added, err := conv.Submit(ctx, q, question)
	if errors.Is(err, chat.ErrEmptyQuery) {
		return fmt.Errorf("question must not be empty")
	}
	if err != nil {
		return err
	}

	printMessage(out, added[len(added)-1])
	return nil
}

// startInteractiveSession reads questions line by line until 'exit' or end of input
func startInteractiveSession(ctx context.Context, in io.Reader, out io.Writer, conv *chat.Conversation, q chat.Querier) error {
	fmt.Fprintln(out, "Transcript Assistant started. Type 'exit' to quit.")

	// Create scanner for reading user input
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		if input == "exit" {
			break
		}

		if input == "" {
			continue
		}

		added, err := conv.Submit(ctx, q, input)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}

		printMessage(out, added[len(added)-1])
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}

// printMessage writes an assistant reply
func printMessage(out io.Writer, m chat.Message) {
	if !m.HasResults() {
		fmt.Fprintf(out, "Assistant: %s\n", m.Text)
		for _, s := range m.Sources {
			name := s.Name
			if name == "" {
				name = "Transcript " + s.ID.String()
			}
			fmt.Fprintf(out, "  - %s\n", name)
		}
		return
	}

	fmt.Fprintf(out, "Search results (%d)\n", len(m.Results))
	for i, r := range m.Results {
		line := fmt.Sprintf("%d. %s", i+1, r.Label(i))
		if p := r.Percent(); p != "" {
			line += " (" + p + ")"
		}
		if r.Date != "" {
			line += " " + r.Date
		}
		fmt.Fprintln(out, line)

		if r.ChunkText != "" {
			fmt.Fprintf(out, "   %s\n", r.ChunkText)
		}
		if r.Filename != "" {
			fmt.Fprintf(out, "   Source: %s\n", r.Filename)
		}
	}
}
