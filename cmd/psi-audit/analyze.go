// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/NaomiVK/page-speed-accessibility/internal/advise"
	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

const (
	// Advice calls get a tighter budget than scoring calls; a chat
	// completion that takes longer than this has wedged.
	defaultAdviceTimeout = 60 * time.Second
	defaultTemperature   = 0.2
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Generate remediation advice for one audited page",
	Long: `Analyze sends the failed audits of one scored page to an AI model and
prints plain-language remediation advice, prioritized by impact. Responses
are cached per URL and strategy in the session database; --refresh discards
the cached response and asks again.

Requires an OpenAI API key via --api-key, advice.api_key in the config,
OPENAI_API_KEY, or .secrets/openai-api-key. Pages with no failed audits
report that directly and never call the API.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int("url-index", -1, "URL to analyze, by its summary-table index (required)")
	analyzeCmd.Flags().String("strategy", "desktop", "strategy whose result to analyze: desktop or mobile")
	analyzeCmd.Flags().String("api-key", "", "OpenAI API key (default: config or .secrets/openai-api-key)")
	analyzeCmd.Flags().String("model", "", "chat model for advice (default gpt-4o-mini)")
	analyzeCmd.Flags().Int("max-tokens", 0, "response token limit (default 1024)")
	analyzeCmd.Flags().Float64("temperature", 0, "sampling temperature (default 0.2)")
	analyzeCmd.Flags().Duration("timeout", 0, "advice request timeout (default 1m)")
	analyzeCmd.Flags().Bool("refresh", false, "ignore the cached analysis and request a new one")
	_ = analyzeCmd.MarkFlagRequired("url-index")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	urlIndex, _ := cmd.Flags().GetInt("url-index")
	if urlIndex < 0 {
		return fmt.Errorf("provide --url-index from the summary table")
	}
	strategyFlag, _ := cmd.Flags().GetString("strategy")
	strategy, err := types.ParseStrategy(strategyFlag)
	if err != nil {
		return err
	}

	sess, run, store, err := latestRunWithSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if urlIndex >= store.NumURLs() {
		return fmt.Errorf("url index %d out of range: the run has %d URLs", urlIndex, store.NumURLs())
	}
	result, ok := store.Get(urlIndex, strategy)
	if !ok {
		return fmt.Errorf("no %s result recorded for URL %d", strategy, urlIndex)
	}
	if result.Failed() {
		return fmt.Errorf("cannot analyze URL %d (%s): %s", urlIndex, strategy, result.Failure.Message)
	}

	refresh, _ := cmd.Flags().GetBool("refresh")
	if !refresh {
		if text, ok, err := sess.Analysis(context.Background(), run.ID, urlIndex, strategy); err != nil {
			return err
		} else if ok {
			fmt.Fprintln(os.Stderr, "Using cached analysis; pass --refresh to request a new one")
			fmt.Println(text)
			return nil
		}
	}

	var failed []types.AuditRecord
	for _, a := range result.Audits {
		if a.Category == types.CategoryFailed {
			failed = append(failed, a)
		}
	}
	if len(failed) == 0 {
		fmt.Println(advise.NoFailedAuditsMessage)
		return nil
	}

	url := store.URL(urlIndex)
	fmt.Fprintf(os.Stderr, "Analyzing %d failed audit(s) for %s\n", len(failed), advise.Label(url, strategy))

	keyFlag, _ := cmd.Flags().GetString("api-key")
	apiKey := resolveAdviceKey(keyFlag)

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = configDuration("advice.timeout", defaultAdviceTimeout)
	}
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = configString("advice.model", "")
	}
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")
	if maxTokens == 0 {
		maxTokens = configInt("advice.max_tokens", 0)
	}
	temperature, _ := cmd.Flags().GetFloat64("temperature")
	if temperature == 0 {
		temperature = configFloat("advice.temperature", defaultTemperature)
	}

	cfg := types.AdviceConfig{
		AIConfig: types.AIConfig{
			Model:       model,
			APIKey:      apiKey,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		},
		Timeout: timeout,
	}

	var backend advise.Backend
	if cfg.APIKey != "" {
		backend = advise.NewOpenAIBackend(cfg)
	}

	text, failure := advise.NewAdviser(backend).Advise(cmd.Context(), url, strategy, failed)
	if failure != nil {
		return failure
	}

	if err := sess.SaveAnalysis(context.Background(), run.ID, urlIndex, strategy, text); err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
