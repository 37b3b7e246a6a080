// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/interp-assistant/internal/gateway"
	"github.com/pdiddy/interp-assistant/internal/websearch"
)

// searchServerCmd is the gateway server process. The client spawns this
// binary with this subcommand and speaks JSON-RPC over its stdio; it is
// hidden because users never run it directly.
var searchServerCmd = &cobra.Command{
	Use:    "search-server",
	Short:  "Serve the web_search tool over stdio (spawned by the gateway client)",
	Hidden: true,
	RunE:   runSearchServer,
}

func runSearchServer(cmd *cobra.Command, args []string) error {
	cfg, err := assistantConfig()
	if err != nil {
		return err
	}

	// Stdout carries the protocol; diagnostics go to stderr only.
	searcher, err := websearch.NewSearcher(cfg.WebSearch, os.Stderr)
	if err != nil {
		return err
	}

	server := gateway.NewServer(searcher)
	return server.Serve(cmd.Context(), os.Stdin, os.Stdout)
}

func init() {
	rootCmd.AddCommand(searchServerCmd)
}
