package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/depscope/internal/cache"
	"github.com/agentic-research/depscope/internal/query"
)

var (
	inspectDepth  int
	inspectCounts bool
)

func init() {
	inspectCmd.Flags().IntVar(&inspectDepth, "depth", 3, "Hierarchy levels to expand")
	inspectCmd.Flags().BoolVar(&inspectCounts, "counts", true, "Include per-element counts")
	rootCmd.AddCommand(inspectCmd)
}

// inspectCmd loads a model once and prints its overview, without starting a
// server. Handy for checking a model file before pointing an agent at it.
var inspectCmd = &cobra.Command{
	Use:   "inspect [model-file]",
	Short: "Load a model file and print its hierarchical overview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		c := cache.New(cache.WithLogger(logger))
		id, err := c.Load(context.Background(), args[0])
		if err != nil {
			return err
		}
		g, err := c.Get(id)
		if err != nil {
			return err
		}

		overview, err := query.Overview(g, "", inspectDepth, inspectCounts)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(overview, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal overview: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	},
}
