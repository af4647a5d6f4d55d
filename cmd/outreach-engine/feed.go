package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/outreach-engine/internal/feed"
	"github.com/pdiddy/outreach-engine/internal/generate"
	"github.com/pdiddy/outreach-engine/internal/httputil"
	"github.com/pdiddy/outreach-engine/internal/metadata"
	"github.com/pdiddy/outreach-engine/internal/store"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Generate the research-opportunity feed",
	Long: `Feed fetches the most recent arXiv submissions for the configured
topic, summarizes each into a two-sentence opportunity description, and
stores the results. Papers already stored are skipped; summarization
failures fall back to a truncated abstract.`,
	RunE: runFeed,
}

func init() {
	feedCmd.Flags().String("topic", "", "arXiv search topic (default from config)")
	feedCmd.Flags().String("domain", "", "label attached to stored opportunities")
	feedCmd.Flags().Int("max-papers", 0, "number of recent papers to process")

	rootCmd.AddCommand(feedCmd)
}

func runFeed(cmd *cobra.Command, args []string) error {
	feedCfg := types.FeedConfig{
		Topic:     viper.GetString("feed.topic"),
		Domain:    viper.GetString("feed.domain"),
		MaxPapers: viper.GetInt("feed.max_papers"),
	}
	if topic, _ := cmd.Flags().GetString("topic"); topic != "" {
		feedCfg.Topic = topic
	}
	if domain, _ := cmd.Flags().GetString("domain"); domain != "" {
		feedCfg.Domain = domain
	}
	if max, _ := cmd.Flags().GetInt("max-papers"); max > 0 {
		feedCfg.MaxPapers = max
	}

	svc, err := generate.NewGeminiService(cmd.Context(), generationConfig())
	if err != nil {
		return err
	}
	defer svc.Close()

	st, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	metaCfg := metadataConfig()
	rateCfg := types.RateLimitConfig{
		RequestsPerSecond: viper.GetFloat64("rate_limit.requests_per_second"),
		Burst:             viper.GetInt("rate_limit.burst"),
	}
	client := &http.Client{
		Timeout:   metaCfg.Timeout,
		Transport: httputil.NewPerHostLimiter(http.DefaultTransport, rateCfg.RequestsPerSecond, rateCfg.Burst),
	}
	lister := feed.ArxivLister{
		Source: &metadata.ArxivSource{Client: client},
		Config: metaCfg,
	}

	builder := feed.NewBuilder(lister, svc, st, feedCfg, logger)
	summary, err := builder.Run(cmd.Context(), os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("Feed complete: %d generated, %d degraded, %d skipped, %d failed (%d total)\n",
		summary.Generated, summary.Degraded, summary.Skipped, summary.Failed, summary.Total())
	if summary.Failed > 0 {
		return fmt.Errorf("%d paper(s) failed", summary.Failed)
	}
	return nil
}
