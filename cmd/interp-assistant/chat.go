package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/interp-assistant/internal/agent"
	"github.com/pdiddy/interp-assistant/internal/router"
	"github.com/pdiddy/interp-assistant/pkg/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question-answering session",
	Long: `Chat reads questions from stdin in a loop and answers each one through
the router. Commands start with a slash:

  /help     show available commands
  /agents   list the specialists and their domains
  /history  show the questions asked this session
  /clear    clear the session history
  /exit     leave the session

A failed question prints its error and the session continues.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	noSearch, _ := cmd.Flags().GetBool("no-search")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := assistantConfig()
	if err != nil {
		return err
	}
	if err := validateCredentials(cfg, !noSearch); err != nil {
		return err
	}

	log := io.Discard
	if verbose {
		log = os.Stderr
	}

	r, _, err := buildRouter(cfg, log)
	if err != nil {
		return err
	}

	session := &chatSession{
		router:   r,
		opts:     agent.AskOptions{SearchWeb: !noSearch},
		out:      os.Stdout,
		specials: r.Specialists(),
	}
	if verbose {
		session.opts.OnSearch = func(q string) {
			fmt.Fprintf(os.Stderr, "searching: %s\n", q)
		}
	}

	return session.run(cmd.Context(), os.Stdin)
}

// historyEntry records one answered question for /history.
type historyEntry struct {
	question string
	agent    string
	topic    types.TopicLabel
}

type chatSession struct {
	router   *router.Router
	opts     agent.AskOptions
	out      io.Writer
	specials []*agent.Specialist
	history  []historyEntry
}

func (s *chatSession) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "Mechanistic Interpretability Research Assistant")
	fmt.Fprintln(s.out, "Type a question, or /help for commands.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "\n> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if done := s.command(line); done {
				return nil
			}
			continue
		}

		resp, err := s.router.ProcessQuery(ctx, line, s.opts)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}

		fmt.Fprintf(s.out, "\n%s\n", resp.Answer)
		s.history = append(s.history, historyEntry{
			question: line,
			agent:    resp.Agents[0],
			topic:    resp.QuestionType,
		})
	}
}

// command handles a slash command and reports whether the session
// should end.
func (s *chatSession) command(line string) bool {
	switch line {
	case "/exit", "/quit":
		fmt.Fprintln(s.out, "Goodbye.")
		return true
	case "/help":
		fmt.Fprintln(s.out, `Commands:
  /help     show this message
  /agents   list active specialists
  /history  show questions asked this session
  /clear    clear session history
  /exit     leave the session`)
	case "/agents":
		fmt.Fprintln(s.out, "Active specialists:")
		for i, spec := range s.specials {
			fmt.Fprintf(s.out, "  [%d] %s\n", i+1, spec.DisplayName)
		}
	case "/history":
		if len(s.history) == 0 {
			fmt.Fprintln(s.out, "No questions asked yet.")
			break
		}
		for i, h := range s.history {
			fmt.Fprintf(s.out, "  %d. %s  (%s, %s)\n", i+1, h.question, h.agent, h.topic)
		}
	case "/clear":
		s.history = nil
		fmt.Fprintln(s.out, "History cleared.")
	default:
		fmt.Fprintf(s.out, "unknown command %s; try /help\n", line)
	}
	return false
}

func init() {
	chatCmd.Flags().Bool("no-search", false, "answer without web search")
	chatCmd.Flags().Bool("verbose", false, "print routing and search activity to stderr")

	rootCmd.AddCommand(chatCmd)
}
