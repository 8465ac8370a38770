package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"goodboard-backend/lib/kvstore"
	"goodboard-backend/lib/scrapers/blackboard"
	"goodboard-backend/services/goodboard"
)

func init() {
	rootCmd.AddCommand(coursesCmd)
}

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the courses currently in the store.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		courses, _, err := kvstore.GetJSON[[]blackboard.Course](cmd.Context(), store, goodboard.KeyCourses)
		if err != nil {
			fatal(err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Name", "Id", "Internal Id", "Professor"})
		for _, course := range courses {
			t.AppendRow(table.Row{course.Name, course.Id, course.InternalId, course.Professor})
		}
		t.Render()
	},
}
