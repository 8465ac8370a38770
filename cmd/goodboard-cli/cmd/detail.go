package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"goodboard-backend/lib/kvstore"
	"goodboard-backend/lib/scrapers/blackboard"
	"goodboard-backend/services/goodboard"
)

func init() {
	rootCmd.AddCommand(detailCmd)
}

var detailCmd = &cobra.Command{
	Use:   "detail <course title>",
	Short: "Show the stored gradebook detail of one course.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		detail, ok, err := kvstore.GetJSON[blackboard.CourseDetail](
			cmd.Context(), store, goodboard.DetailKey(args[0]))
		if err != nil {
			fatal(err)
		}
		if !ok {
			fatal(fmt.Errorf("no detail stored for %q", args[0]))
		}

		t := newTable()
		t.AppendHeader(table.Row{"Title", "Due", "Submitted", "Status", "Grade", "Points", "Weight"})
		for _, row := range detail.Grades {
			t.AppendRow(table.Row{
				row.Title, row.DueDate, row.SubmittedDate,
				row.Status, row.Grade, row.PointsPossible, row.Weight,
			})
		}
		t.Render()

		if len(detail.Weights) > 0 {
			w := newTable()
			w.AppendHeader(table.Row{"Criteria", "Weight %"})
			for name, percent := range detail.Weights {
				w.AppendRow(table.Row{name, percent})
			}
			w.Render()
		}
	},
}
