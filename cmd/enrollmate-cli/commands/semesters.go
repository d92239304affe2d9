package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(semestersCmd)
}

var semestersCmd = &cobra.Command{
	Use:   "semesters",
	Short: "Lists the semesters of the logged-in user.",
	Run: func(cmd *cobra.Command, args []string) {
		config := readConfig()
		client := apiClient(config)

		semesters, err := client.Semesters(cmd.Context(), config.UserId)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Id", "Name", "Year", "Type", "Current", "Status"})
		for _, s := range semesters {
			t.AppendRow(table.Row{s.Id, s.Name, s.Year, s.SemesterType, s.IsCurrent, s.Status})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
