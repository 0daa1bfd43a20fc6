package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Undertaker4032/secret-lab-app/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
)

func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

// renderFields prints label/value pairs, one per line.
func renderFields(w io.Writer, fields [][2]string) {
	for _, f := range fields {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(f[0]+":"), f[1])
	}
}

func renderFooter(w io.Writer, shown, total int) {
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d of %d", shown, total)))
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func employeeRow(e model.Employee) []string {
	var level, division, position string
	if e.ClearanceLevel != nil {
		level = e.ClearanceLevel.Name
	}
	if e.Division != nil {
		division = e.Division.Name
	}
	if e.Position != nil {
		position = e.Position.Name
	}
	return []string{itoa(e.ID), e.Name, orDash(position), orDash(division), orDash(level), yesNo(e.IsActive)}
}

var employeeHeaders = []string{"ID", "Name", "Position", "Division", "Clearance", "Active"}
