// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Annotate and route one day's papers without delivering",
	Long: `Preview runs the selector, annotator, and routing policy for the target
day and prints the would-be routing table. Nothing is posted to Slack; use
"run --deliver-to bottest" for an end-to-end test against the test channel.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("category", "", "arXiv category to query (default quant-ph)")
	previewCmd.Flags().String("date", "", "target publication date YYYY-MM-DD (default: yesterday)")
	previewCmd.Flags().Int("max-results", 0, "cap on recent items fetched before the day filter (default 100)")
	previewCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	previewCmd.Flags().String("model", "", "completion model identifier")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	targetDate, err := resolveDate(cmd, cfg.Feed)
	if err != nil {
		return err
	}

	p := buildPipeline(cfg)
	_, err = p.Preview(cmd.Context(), cfg.Feed.Category, targetDate, os.Stdout)
	return err
}
