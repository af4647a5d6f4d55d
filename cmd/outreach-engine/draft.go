package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/outreach-engine/internal/generate"
	"github.com/pdiddy/outreach-engine/internal/httputil"
	"github.com/pdiddy/outreach-engine/internal/investigator"
	"github.com/pdiddy/outreach-engine/internal/metadata"
	"github.com/pdiddy/outreach-engine/internal/pipeline"
	"github.com/pdiddy/outreach-engine/internal/store"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

var draftCmd = &cobra.Command{
	Use:   "draft <reference>",
	Short: "Generate an outreach draft for one paper reference",
	Long: `Draft runs the outreach pipeline for a single reference: an arXiv ID,
a DOI, a URL, or free text describing the paper. The validated result
(summary, skills, analysis, draft email) is printed as YAML; --save
also stores it in the draft database.`,
	Args: cobra.ExactArgs(1),
	RunE: runDraft,
}

func init() {
	draftCmd.Flags().String("name", "", "requester name")
	draftCmd.Flags().String("qualification", "", "requester qualification (e.g. \"MSc Computer Science\")")
	draftCmd.Flags().String("institution", "", "requester institution")
	draftCmd.Flags().String("skills", "", "comma-separated requester skills")
	draftCmd.Flags().Bool("save", false, "store the draft in the database")

	rootCmd.AddCommand(draftCmd)
}

func runDraft(cmd *cobra.Command, args []string) error {
	reference := strings.TrimSpace(args[0])
	if reference == "" {
		return fmt.Errorf("empty paper reference")
	}

	profile := profileFromFlags(cmd)
	if profile.Name == "" {
		return fmt.Errorf("--name is required")
	}

	cfg := pipelineConfig()
	svc, err := generate.NewGeminiService(cmd.Context(), cfg.Generation)
	if err != nil {
		return err
	}
	defer svc.Close()

	// Resolve metadata here and hand it to the pipeline pre-supplied, so
	// the resolved title and investigator are available for persistence.
	client := &http.Client{
		Timeout:   cfg.Metadata.Timeout,
		Transport: httputil.NewPerHostLimiter(http.DefaultTransport, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	}
	resolver := metadata.NewResolver(cfg.Metadata, client, logger)
	meta := resolver.Resolve(cmd.Context(), metadata.Classify(reference))
	inv := investigator.Identify(meta)

	p := pipeline.New(cfg, svc, logger)
	outcome := p.Run(cmd.Context(), pipeline.Input{
		Reference: reference,
		Profile:   profile,
		Metadata:  &meta,
	})
	if !outcome.Success() {
		return fmt.Errorf("draft generation failed: %s", outcome.Failure)
	}

	enc := yaml.NewEncoder(os.Stdout)
	if err := enc.Encode(outcome.Result); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	save, _ := cmd.Flags().GetBool("save")
	if !save {
		return nil
	}

	st, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	draft := types.Draft{
		Reference:  reference,
		PaperTitle: meta.Title,
		Result:     *outcome.Result,
		CreatedAt:  time.Now().UTC(),
	}
	if inv.Confidence != types.ConfidenceUnknown {
		draft.Investigator = inv.Name
	}

	id, err := st.SaveDraft(draft)
	if err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Saved draft %d\n", id)
	return nil
}

func profileFromFlags(cmd *cobra.Command) types.RequesterProfile {
	name, _ := cmd.Flags().GetString("name")
	qualification, _ := cmd.Flags().GetString("qualification")
	institution, _ := cmd.Flags().GetString("institution")
	skillsFlag, _ := cmd.Flags().GetString("skills")

	var skills []string
	for _, s := range strings.Split(skillsFlag, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}

	return types.RequesterProfile{
		Name:          name,
		Qualification: qualification,
		Institution:   institution,
		Skills:        skills,
	}
}
