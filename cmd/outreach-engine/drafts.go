package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/outreach-engine/internal/store"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List stored outreach drafts",
	RunE:  runDraftsList,
}

var draftsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one stored draft as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftsShow,
}

var opportunitiesCmd = &cobra.Command{
	Use:   "opportunities",
	Short: "List stored feed opportunities",
	RunE:  runOpportunities,
}

func init() {
	opportunitiesCmd.Flags().String("domain", "", "filter by domain label")

	draftsCmd.AddCommand(draftsShowCmd)
	rootCmd.AddCommand(draftsCmd)
	rootCmd.AddCommand(opportunitiesCmd)
}

func runDraftsList(cmd *cobra.Command, args []string) error {
	st, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	drafts, err := st.ListDrafts()
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		fmt.Println("No drafts stored.")
		return nil
	}

	for _, d := range drafts {
		investigator := d.Investigator
		if investigator == "" {
			investigator = "(unknown investigator)"
		}
		fmt.Printf("%4d  %s  %s — %s\n", d.ID, d.CreatedAt.Format("2006-01-02"), d.PaperTitle, investigator)
	}
	return nil
}

func runDraftsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid draft id %q", args[0])
	}

	st, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	return st.ExportDraft(id, os.Stdout)
}

func runOpportunities(cmd *cobra.Command, args []string) error {
	domain, _ := cmd.Flags().GetString("domain")

	st, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	opps, err := st.ListOpportunities(domain)
	if err != nil {
		return err
	}
	if len(opps) == 0 {
		fmt.Println("No opportunities stored.")
		return nil
	}

	for _, o := range opps {
		fmt.Printf("%4d  [%s] %s\n      %s\n", o.ID, o.Domain, o.Title, o.Description)
		if o.PaperURL != "" {
			fmt.Printf("      %s\n", o.PaperURL)
		}
	}
	return nil
}
