package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/interp-assistant/internal/agent"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a single question",
	Long: `Ask routes one question to the best-matching specialist, gathers web
evidence through the search gateway, and prints the generated answer.

Use --no-search to answer from the specialist's own knowledge, --verbose
to watch routing and search activity, and --json for the full structured
response.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	noSearch, _ := cmd.Flags().GetBool("no-search")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

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

	opts := agent.AskOptions{SearchWeb: !noSearch}
	if verbose {
		opts.OnSearch = func(q string) {
			fmt.Fprintf(os.Stderr, "searching: %s\n", q)
		}
	}

	resp, err := r.ProcessQuery(context.Background(), question, opts)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Println(resp.Answer)
	if verbose {
		fmt.Fprintf(os.Stderr, "\nagent: %s  type: %s  searches: %d  time: %.1fs\n",
			resp.Agents[0], resp.QuestionType, resp.SearchCount, resp.TimeSeconds)
	}
	return nil
}

func init() {
	askCmd.Flags().Bool("no-search", false, "answer without web search")
	askCmd.Flags().Bool("verbose", false, "print routing and search activity to stderr")
	askCmd.Flags().Bool("json", false, "output the full response as JSON")

	rootCmd.AddCommand(askCmd)
}
