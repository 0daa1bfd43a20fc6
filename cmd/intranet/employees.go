package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Undertaker4032/secret-lab-app/internal/filters"
	"github.com/Undertaker4032/secret-lab-app/internal/liststore"
	"github.com/Undertaker4032/secret-lab-app/internal/model"
)

var employeesCmd = &cobra.Command{
	Use:     "employees",
	Aliases: []string{"emp"},
	Short:   "Browse the employee directory",
}

var employeesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees",
	Long:  "List employees matching the given filters.",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		defer employeeFilters.reset()
		return listEmployees(cmd, a, employeeFilters, func(store *liststore.Employees) []model.Employee {
			return store.Items.Get()
		})
	}),
}

var employeesActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "List active employees only",
	Long:  "List the active employees among those matching the given filters.",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		defer employeeActiveFilters.reset()
		return listEmployees(cmd, a, employeeActiveFilters, func(store *liststore.Employees) []model.Employee {
			return store.Active.Get()
		})
	}),
}

var employeesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one employee",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid employee id %q", args[0])
		}
		e, err := a.client.GetEmployeeByID(cmd.Context(), id)
		if err != nil {
			return a.explain(err)
		}

		row := employeeRow(*e)
		fields := [][2]string{
			{"ID", row[0]},
			{"Name", e.Name},
			{"Position", row[2]},
			{"Division", row[3]},
			{"Clearance", row[4]},
			{"Active", row[5]},
		}
		if e.Department != nil {
			fields = append(fields, [2]string{"Department", e.Department.Name})
		}
		if e.Cluster != nil {
			fields = append(fields, [2]string{"Cluster", e.Cluster.Name})
		}
		renderFields(cmd.OutOrStdout(), fields)
		return nil
	}),
}

var (
	employeeFilters       *filterFlags
	employeeActiveFilters *filterFlags
)

var employeeFlagKeys = map[string]string{
	"active":     "is_active",
	"cluster":    "cluster",
	"department": "department",
	"division":   "division",
	"position":   "position",
	"clearance":  "clearance_level",
}

func listEmployees(cmd *cobra.Command, a *app, flags *filterFlags, pick func(*liststore.Employees) []model.Employee) error {
	set, err := flags.set()
	if err != nil {
		return err
	}

	store := liststore.NewEmployees(a.client, a.messages, a.listOptions()...)
	defer store.Stop()

	if err := store.Fetch(cmd.Context(), set); err != nil {
		return fmt.Errorf("%s: %w", store.Error.Get(), err)
	}

	items := pick(store)
	rows := make([][]string, 0, len(items))
	for _, e := range items {
		rows = append(rows, employeeRow(e))
	}
	out := cmd.OutOrStdout()
	renderTable(out, employeeHeaders, rows)
	renderFooter(out, len(items), store.Count.Get())
	return nil
}

func init() {
	employeeFilters = bindFilterFlags(employeesListCmd, filters.Employees, employeeFlagKeys)
	employeeActiveFilters = bindFilterFlags(employeesActiveCmd, filters.Employees, employeeFlagKeys)

	employeesCmd.AddCommand(employeesListCmd)
	employeesCmd.AddCommand(employeesActiveCmd)
	employeesCmd.AddCommand(employeesGetCmd)
	rootCmd.AddCommand(employeesCmd)
}
