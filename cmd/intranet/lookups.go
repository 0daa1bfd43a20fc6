package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Undertaker4032/secret-lab-app/internal/model"
)

var lookupsCombined bool

var lookupsCmd = &cobra.Command{
	Use:   "lookups",
	Short: "Show the employee filter vocabularies",
	Long:  "Show the clusters, departments, divisions, positions and clearance levels usable as employee filters.",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		defer func() { lookupsCombined = false }()

		var (
			vocab *model.EmployeeFilters
			err   error
		)
		if lookupsCombined {
			vocab, err = a.client.GetEmployeeFilters(cmd.Context())
		} else {
			vocab, err = a.client.LoadEmployeeVocabularies(cmd.Context())
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		section := func(title string, rows [][]string, headers ...string) {
			fmt.Fprintln(out, labelStyle.Render(title))
			renderTable(out, headers, rows)
		}

		var rows [][]string
		for _, c := range vocab.Clusters {
			rows = append(rows, []string{itoa(c.ID), c.Name})
		}
		section("Clusters (--cluster)", rows, "ID", "Name")

		rows = nil
		for _, d := range vocab.Departments {
			rows = append(rows, []string{itoa(d.ID), d.Name})
		}
		section("Departments (--department)", rows, "ID", "Name")

		rows = nil
		for _, d := range vocab.Divisions {
			rows = append(rows, []string{itoa(d.ID), d.Name})
		}
		section("Divisions (--division)", rows, "ID", "Name")

		rows = nil
		for _, p := range vocab.Positions {
			rows = append(rows, []string{itoa(p.ID), p.Name})
		}
		section("Positions (--position)", rows, "ID", "Name")

		rows = nil
		for _, l := range vocab.ClearanceLevels {
			rows = append(rows, []string{itoa(l.ID), l.Name, itoa(l.Number)})
		}
		section("Clearance levels (--clearance)", rows, "ID", "Name", "Number")
		return nil
	}),
}

func init() {
	lookupsCmd.Flags().BoolVar(&lookupsCombined, "combined", false, "Use the single combined endpoint instead of one request per vocabulary")
	rootCmd.AddCommand(lookupsCmd)
}
