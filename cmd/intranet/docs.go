package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Undertaker4032/secret-lab-app/internal/filters"
	"github.com/Undertaker4032/secret-lab-app/internal/liststore"
)

var docsCmd = &cobra.Command{
	Use:     "docs",
	Aliases: []string{"documentation"},
	Short:   "Browse the document library",
}

var docFilters *filterFlags

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Long:  "List documents matching the given filters.",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		defer docFilters.reset()
		set, err := docFilters.set()
		if err != nil {
			return err
		}

		store := liststore.NewDocumentation(a.client, a.messages, a.listOptions()...)
		if err := store.Fetch(cmd.Context(), set); err != nil {
			return fmt.Errorf("%s: %w", store.Error.Get(), err)
		}

		items := store.Items.Get()
		rows := make([][]string, 0, len(items))
		for _, d := range items {
			rows = append(rows, []string{itoa(d.ID), d.Title, d.TypeName, d.AuthorName, d.RequiredClearanceName, d.UpdatedDate})
		}
		out := cmd.OutOrStdout()
		renderTable(out, []string{"ID", "Title", "Type", "Author", "Clearance", "Updated"}, rows)
		renderFooter(out, len(items), store.Count.Get())
		return nil
	}),
}

var docsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one document",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid document id %q", args[0])
		}
		d, err := a.client.GetDocumentationObject(cmd.Context(), id)
		if err != nil {
			return a.explain(err)
		}

		out := cmd.OutOrStdout()
		renderFields(out, [][2]string{
			{"Title", d.Title},
			{"Type", d.TypeName},
			{"Author", d.AuthorName},
			{"Clearance", d.RequiredClearanceName},
			{"Created", d.CreatedDate},
			{"Updated", d.UpdatedDate},
		})
		fmt.Fprintf(out, "\n%s\n", d.Content)
		return nil
	}),
}

var docsTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List document types",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		types, err := a.client.GetDocumentTypes(cmd.Context())
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(types))
		for _, t := range types {
			rows = append(rows, []string{itoa(t.ID), t.Name})
		}
		renderTable(cmd.OutOrStdout(), []string{"ID", "Name"}, rows)
		return nil
	}),
}

func init() {
	docFilters = bindFilterFlags(docsListCmd, filters.Documentation, map[string]string{
		"type":      "type__name",
		"division":  "author__division__name",
		"clearance": "required_clearance__number",
		"created":   "created_date",
	})

	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsGetCmd)
	docsCmd.AddCommand(docsTypesCmd)
	rootCmd.AddCommand(docsCmd)
}
