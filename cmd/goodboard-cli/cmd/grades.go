package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"goodboard-backend/lib/kvstore"
	"goodboard-backend/lib/scrapers/blackboard"
	"goodboard-backend/services/goodboard"
)

func init() {
	rootCmd.AddCommand(gradesCmd)
	rootCmd.AddCommand(assignmentsCmd)
}

var gradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "List the course-level grade summaries currently in the store.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		grades, _, err := kvstore.GetJSON[[]blackboard.Grade](cmd.Context(), store, goodboard.KeyGrades)
		if err != nil {
			fatal(err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Course", "Grade", "Internal Id"})
		for _, grade := range grades {
			t.AppendRow(table.Row{grade.Course, grade.Grade, grade.InternalId})
		}
		t.Render()
	},
}

var assignmentsCmd = &cobra.Command{
	Use:   "assignments",
	Short: "List the per-course assignment rows currently in the store.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		assignments, _, err := kvstore.GetJSON[[]blackboard.Assignment](cmd.Context(), store, goodboard.KeyAssignments)
		if err != nil {
			fatal(err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Title", "Course", "Grade", "Due", "Status"})
		for _, a := range assignments {
			t.AppendRow(table.Row{a.Title, a.Course, a.Grade, a.DueDate, a.Status})
		}
		t.Render()
	},
}
