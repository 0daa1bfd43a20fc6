package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Undertaker4032/secret-lab-app/internal/filters"
	"github.com/Undertaker4032/secret-lab-app/internal/liststore"
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Browse the research registry",
}

var researchFilters *filterFlags

var researchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List research projects",
	Long:  "List research projects matching the given filters.",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		defer researchFilters.reset()
		set, err := researchFilters.set()
		if err != nil {
			return err
		}

		store := liststore.NewResearch(a.client, a.messages, a.listOptions()...)
		if err := store.Fetch(cmd.Context(), set); err != nil {
			return fmt.Errorf("%s: %w", store.Error.Get(), err)
		}

		items := store.Items.Get()
		rows := make([][]string, 0, len(items))
		for _, r := range items {
			rows = append(rows, []string{itoa(r.ID), r.Title, r.LeadName, r.StatusName, r.RequiredClearanceName, r.UpdatedDate})
		}
		out := cmd.OutOrStdout()
		renderTable(out, []string{"ID", "Title", "Lead", "Status", "Clearance", "Updated"}, rows)
		renderFooter(out, len(items), store.Count.Get())
		return nil
	}),
}

var researchGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one research project",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid research id %q", args[0])
		}
		r, err := a.client.GetResearchObject(cmd.Context(), id)
		if err != nil {
			return a.explain(err)
		}

		out := cmd.OutOrStdout()
		renderFields(out, [][2]string{
			{"Title", r.Title},
			{"Lead", r.LeadName},
			{"Team", orDash(strings.Join(r.TeamMembers, ", "))},
			{"Status", r.StatusName},
			{"Clearance", r.RequiredClearanceName},
			{"Created", r.CreatedDate},
			{"Updated", r.UpdatedDate},
		})
		for _, section := range [][2]string{
			{"Description", r.Description},
			{"Objectives", r.Objectives},
			{"Findings", r.Findings},
		} {
			if section[1] != "" {
				fmt.Fprintf(out, "\n%s\n%s\n", labelStyle.Render(section[0]), section[1])
			}
		}
		return nil
	}),
}

var researchStatusesCmd = &cobra.Command{
	Use:   "statuses",
	Short: "List research statuses",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		statuses, err := a.client.GetResearchStatuses(cmd.Context())
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(statuses))
		for _, s := range statuses {
			rows = append(rows, []string{itoa(s.ID), s.Name})
		}
		renderTable(cmd.OutOrStdout(), []string{"ID", "Name"}, rows)
		return nil
	}),
}

func init() {
	researchFilters = bindFilterFlags(researchListCmd, filters.Research, map[string]string{
		"status":    "status__name",
		"division":  "lead__division__name",
		"clearance": "required_clearance__number",
		"created":   "created_date",
	})

	researchCmd.AddCommand(researchListCmd)
	researchCmd.AddCommand(researchGetCmd)
	researchCmd.AddCommand(researchStatusesCmd)
	rootCmd.AddCommand(researchCmd)
}
