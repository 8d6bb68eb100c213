// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-herald/internal/annotate"
	"github.com/pdiddy/paper-herald/internal/feed"
	"github.com/pdiddy/paper-herald/internal/notify"
	"github.com/pdiddy/paper-herald/internal/pipeline"
	"github.com/pdiddy/paper-herald/internal/secrets"
	"github.com/pdiddy/paper-herald/pkg/types"
)

const (
	defaultCategory   = "quant-ph"
	defaultTimeout    = 60 * time.Second
	defaultUserAgent  = "paper-herald/0.1"
	defaultMaxResults = 100
	defaultMaxTokens  = 1000
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, classify, and route one day's papers",
	Long: `Run executes the full pipeline once: fetch the target day's submissions,
annotate each paper with the completion model, route by the decision table,
and post Slack messages. Per-paper failures are recorded and do not abort
the batch.

The final line on stdout is a JSON status object {"status": ..., "error": ...}
reflecting whether the run itself executed, independent of per-paper failures.
Re-running for the same day re-notifies for the same papers; nothing is
persisted between runs.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("category", "", "arXiv category to query (default quant-ph)")
	runCmd.Flags().String("date", "", "target publication date YYYY-MM-DD (default: yesterday)")
	runCmd.Flags().Int("max-results", 0, "cap on recent items fetched before the day filter (default 100)")
	runCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	runCmd.Flags().String("model", "", "completion model identifier")
	runCmd.Flags().String("deliver-to", "", "redirect all deliveries to one channel (e.g. bottest)")
	runCmd.Flags().Bool("json", false, "print the per-paper run report as JSON")
	runCmd.Flags().Bool("yaml", false, "print the per-paper run report as YAML")

	rootCmd.AddCommand(runCmd)
}

// runStatus is the run-level result object: status=false only when the
// pipeline itself failed to execute.
type runStatus struct {
	Status bool   `json:"status"`
	Error  string `json:"error,omitempty"`
}

func printStatus(err error) {
	st := runStatus{Status: err == nil}
	if err != nil {
		st.Error = err.Error()
	}
	out, _ := json.Marshal(st)
	fmt.Println(string(out))
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	targetDate, err := resolveDate(cmd, cfg.Feed)
	if err != nil {
		printStatus(err)
		return err
	}

	redirect, err := redirectDestination(cmd)
	if err != nil {
		printStatus(err)
		return err
	}

	p := buildPipeline(cfg)
	p.RedirectTo = redirect

	result, err := p.Run(cmd.Context(), cfg.Feed.Category, targetDate, os.Stderr)
	if err != nil {
		printStatus(err)
		return err
	}

	printStatus(nil)

	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		out, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshaling run report: %w", err)
		}
		os.Stdout.Write(out)
	} else if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("marshaling run report: %w", err)
		}
	}
	return nil
}

// pipelineConfig resolves stage settings from flags, the viper config file,
// environment, and loaded secrets, in that order of precedence.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	category, _ := cmd.Flags().GetString("category")
	if category == "" {
		category = viper.GetString("feed.category")
	}
	if category == "" {
		category = defaultCategory
	}

	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults == 0 {
		maxResults = viper.GetInt("feed.max_results")
	}
	if maxResults == 0 {
		maxResults = defaultMaxResults
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("feed.timeout")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	timezone := viper.GetString("feed.timezone")
	if timezone == "" {
		timezone = "UTC"
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("annotate.model")
	}

	maxTokens := viper.GetInt("annotate.max_tokens")
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	httpCfg := types.HTTPConfig{
		Timeout:   timeout,
		UserAgent: defaultUserAgent,
	}

	return types.PipelineConfig{
		Feed: types.FeedConfig{
			HTTPConfig: httpCfg,
			Category:   category,
			MaxResults: maxResults,
			Timezone:   timezone,
		},
		Annotate: types.AnnotateConfig{
			Model:     model,
			APIKey:    secretDefault("anthropic-api-key", viper.GetString("annotate.api_key")),
			MaxTokens: maxTokens,
		},
		Notify: types.NotifyConfig{
			HTTPConfig: httpCfg,
			Webhooks:   webhookMap(),
		},
	}
}

// webhookMap builds the destination → webhook mapping from config with
// per-channel secret files as fallback.
func webhookMap() map[types.Destination]string {
	configured := viper.GetStringMapString("notify.webhooks")

	webhooks := make(map[types.Destination]string)
	for _, dest := range []types.Destination{
		types.DestinationJournalHub,
		types.DestinationTheory,
		types.DestinationBotTest,
	} {
		url := secretDefault(secrets.WebhookKey(string(dest)), configured[string(dest)])
		if url != "" {
			webhooks[dest] = url
		}
	}
	return webhooks
}

// buildPipeline wires the production collaborators.
func buildPipeline(cfg types.PipelineConfig) *pipeline.Pipeline {
	if cfg.Annotate.APIKey == "" {
		fmt.Fprintln(os.Stderr, "warning: no anthropic-api-key configured; annotation will fail")
	}

	client := &http.Client{Timeout: cfg.Feed.Timeout}

	return &pipeline.Pipeline{
		Selector: &feed.Selector{
			Client: client,
			Config: cfg.Feed,
		},
		Annotator: &annotate.Extractor{
			Completer: &annotate.ClaudeCompleter{
				Config: cfg.Annotate,
				Client: client,
			},
		},
		Deliverer: &notify.Notifier{
			Client:   client,
			Webhooks: cfg.Notify.Webhooks,
		},
	}
}

// resolveDate returns the target publication day: the --date flag if given,
// otherwise yesterday in the feed timezone.
func resolveDate(cmd *cobra.Command, cfg types.FeedConfig) (time.Time, error) {
	loc := time.UTC
	if cfg.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid feed timezone %q: %w", cfg.Timezone, err)
		}
	}

	if dateStr, _ := cmd.Flags().GetString("date"); dateStr != "" {
		date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q: %w", dateStr, err)
		}
		return date, nil
	}

	return time.Now().In(loc).AddDate(0, 0, -1), nil
}

// redirectDestination validates the --deliver-to flag.
func redirectDestination(cmd *cobra.Command) (types.Destination, error) {
	value, _ := cmd.Flags().GetString("deliver-to")
	if value == "" {
		return "", nil
	}
	switch dest := types.Destination(value); dest {
	case types.DestinationJournalHub, types.DestinationTheory, types.DestinationBotTest:
		return dest, nil
	default:
		return "", fmt.Errorf("unknown channel %q for --deliver-to (journal_hub, theory, bottest)", value)
	}
}
