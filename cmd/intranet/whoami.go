package main

import (
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and employee profile",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		out := cmd.OutOrStdout()
		username := "-"
		if user := a.session.User.Get(); user != nil {
			username = user.Username
		}
		fields := [][2]string{{"User", username}}

		employee := a.session.Employee.Get()
		switch {
		case employee == nil:
		case employee.IsPlaceholder():
			fields = append(fields, [2]string{"Employee", employee.Name + " (profile unavailable)"})
		default:
			row := employeeRow(*employee)
			fields = append(fields,
				[2]string{"Employee", employee.Name},
				[2]string{"Position", row[2]},
				[2]string{"Division", row[3]},
				[2]string{"Clearance", row[4]},
			)
		}
		renderFields(out, fields)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
