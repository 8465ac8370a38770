package cmd

import (
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"goodboard-backend/lib/kvstore"
	"goodboard-backend/lib/scrapers/blackboard"
	"goodboard-backend/services/goodboard"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <page.html> <page url>",
	Short: "Run the extractors a live page at that url would trigger and merge the results into the store.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		file, err := os.Open(args[0])
		if err != nil {
			fatal(err)
		}
		defer file.Close()

		doc, err := goquery.NewDocumentFromReader(file)
		if err != nil {
			fatal(err)
		}

		err = router.Route(cmd.Context(), doc, args[1])
		if err != nil {
			fatal(err)
		}

		ctx := cmd.Context()
		tasks, _, _ := kvstore.GetJSON[[]blackboard.Task](ctx, store, goodboard.KeyTasks)
		grades, _, _ := kvstore.GetJSON[[]blackboard.Grade](ctx, store, goodboard.KeyGrades)
		courses, _, _ := kvstore.GetJSON[[]blackboard.Course](ctx, store, goodboard.KeyCourses)
		assignments, _, _ := kvstore.GetJSON[[]blackboard.Assignment](ctx, store, goodboard.KeyAssignments)

		fmt.Printf("store now holds %d tasks, %d grades, %d courses, %d assignments\n",
			len(tasks), len(grades), len(courses), len(assignments))
	},
}
