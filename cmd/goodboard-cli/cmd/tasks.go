package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"goodboard-backend/lib/kvstore"
	"goodboard-backend/lib/scrapers/blackboard"
	"goodboard-backend/services/goodboard"
)

func init() {
	rootCmd.AddCommand(tasksCmd)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the calendar tasks currently in the store.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		tasks, _, err := kvstore.GetJSON[[]blackboard.Task](cmd.Context(), store, goodboard.KeyTasks)
		if err != nil {
			fatal(err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Title", "Date", "Course", "Color", "Status"})
		for _, task := range tasks {
			t.AppendRow(table.Row{task.Title, task.Date, task.Course, task.Color, task.Status})
		}
		t.Render()
	},
}
