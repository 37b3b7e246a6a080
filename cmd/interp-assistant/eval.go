// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/interp-assistant/internal/eval"
	"github.com/pdiddy/interp-assistant/pkg/types"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Run the evaluation suite against the assistant",
	Long: `Eval answers every test case through the router and grades each answer
with LLM-judge metrics (answer_relevancy, faithfulness, correctness,
technical_accuracy; pass threshold 0.7). Results are stored in a SQLite
database under the results directory and summarized on stdout.

The built-in suite covers both specialists plus routing edge cases; use
--suite to point at a YAML file of your own cases.`,
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	noSearch, _ := cmd.Flags().GetBool("no-search")
	quick, _ := cmd.Flags().GetBool("quick")
	yamlOut, _ := cmd.Flags().GetString("yaml-out")

	cfg, err := assistantConfig()
	if err != nil {
		return err
	}
	if suite, _ := cmd.Flags().GetString("suite"); suite != "" {
		cfg.Eval.SuitePath = suite
	}
	if metrics, _ := cmd.Flags().GetStringSlice("metrics"); len(metrics) > 0 {
		cfg.Eval.Metrics = metrics
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		cfg.Eval.Limit = limit
	}

	if err := validateCredentials(cfg, !noSearch); err != nil {
		return err
	}

	cases := eval.BuiltinSuite()
	if quick {
		cases = eval.QuickSuite()
	}
	if cfg.Eval.SuitePath != "" {
		cases, err = eval.LoadSuite(cfg.Eval.SuitePath)
		if err != nil {
			return err
		}
	}

	r, gen, err := buildRouter(cfg, os.Stderr)
	if err != nil {
		return err
	}

	scorers, err := eval.NewScorers(gen, cfg.Eval.Metrics)
	if err != nil {
		return err
	}

	store, err := eval.NewStore(cfg.Eval.ResultsDir)
	if err != nil {
		return err
	}
	defer store.Close()

	driver := eval.NewDriver(r, scorers, store, os.Stdout)
	summary, results, err := driver.Run(cmd.Context(), cases, eval.RunOptions{
		SearchWeb: !noSearch,
		Limit:     cfg.Eval.Limit,
	})
	if err != nil {
		return err
	}

	printSummary(summary)

	if yamlOut != "" {
		if err := writeResultsYAML(yamlOut, summary, results); err != nil {
			return err
		}
		fmt.Printf("\nResults written to %s\n", yamlOut)
	}

	if summary.Errored > 0 {
		return fmt.Errorf("%d case(s) errored", summary.Errored)
	}
	return nil
}

func printSummary(summary *types.RunSummary) {
	fmt.Printf("\nRun %s: %d cases, %d errored\n", summary.ID, summary.Cases, summary.Errored)

	for _, m := range summary.Metrics {
		fmt.Printf("  %-20s %d/%d passed (%.0f%%), avg score %.3f\n",
			m.Name, m.Passed, m.Total, m.PassRate*100, m.AvgScore)
	}

	if len(summary.CategoryPassRates) > 0 {
		fmt.Println("  by category:")
		categories := make([]string, 0, len(summary.CategoryPassRates))
		for cat := range summary.CategoryPassRates {
			categories = append(categories, cat)
		}
		sort.Strings(categories)
		for _, cat := range categories {
			fmt.Printf("    %-20s %.0f%%\n", cat, summary.CategoryPassRates[cat]*100)
		}
	}
}

// evalReport is the YAML shape written by --yaml-out.
type evalReport struct {
	Summary *types.RunSummary  `yaml:"summary"`
	Results []types.CaseResult `yaml:"results"`
}

func writeResultsYAML(path string, summary *types.RunSummary, results []types.CaseResult) error {
	data, err := yaml.Marshal(evalReport{Summary: summary, Results: results})
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func init() {
	evalCmd.Flags().String("suite", "", "YAML test-case suite (default: built-in)")
	evalCmd.Flags().StringSlice("metrics", nil, "metrics to run (default: all)")
	evalCmd.Flags().Int("limit", 0, "cap the number of cases evaluated")
	evalCmd.Flags().Bool("quick", false, "run the three-case quick suite")
	evalCmd.Flags().Bool("no-search", false, "answer without web search")
	evalCmd.Flags().String("yaml-out", "", "also write full results to a YAML file")

	rootCmd.AddCommand(evalCmd)
}
