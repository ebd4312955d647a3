package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/quatton/qstage/pkg/qexit"
)

var codesContract bool

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List exit codes and the outputs a job must produce",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := getEnv(cmd)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		if codesContract {
			t := newTable("OUTPUT", "FILE", "REQUIRED", "MISSING")
			for _, a := range qexit.Contract(e.cfg.Names) {
				missing := "-"
				if a.Missing != nil {
					missing = strconv.Itoa(a.Missing.Status)
				}
				file := a.File
				if file == "" {
					file = "-"
				}
				t.Row(a.Output, file, strconv.FormatBool(a.Required), missing)
			}
			fmt.Fprintln(w, t.Render())
			return nil
		}

		t := newTable("STATUS", "LABEL", "INVALIDATES CACHE", "MESSAGE")
		for _, c := range qexit.Codes() {
			invalidates := "no"
			if c.InvalidatesCache {
				invalidates = "yes"
			}
			t.Row(strconv.Itoa(c.Status), c.Label, invalidates, c.Message)
		}
		fmt.Fprintln(w, t.Render())
		return nil
	},
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func init() {
	codesCmd.Flags().BoolVar(&codesContract, "contract", false, "list the expected outputs instead of the exit codes")
	rootCmd.AddCommand(codesCmd)
}
