package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"goodboard-backend/lib/scrapers/blackboard"
	"goodboard-backend/services/goodboard"
)

func init() {
	rootCmd.AddCommand(instructionsCmd)
}

var instructionsCmd = &cobra.Command{
	Use:   "instructions <url or file>",
	Short: "Extract the instruction sections of an assignment page, fetching it when given a url.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := args[0]

		var sections []blackboard.InstructionSection
		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
			fetched, err := goodboard.NewInstructionsFetcher().Fetch(cmd.Context(), target)
			if err != nil {
				fatal(err)
			}
			sections = fetched
		} else {
			file, err := os.Open(target)
			if err != nil {
				fatal(err)
			}
			defer file.Close()

			doc, err := goquery.NewDocumentFromReader(file)
			if err != nil {
				fatal(err)
			}
			sections = blackboard.ExtractInstructions(doc, config.PortalOrigin)
		}

		if len(sections) == 0 {
			fatal(fmt.Errorf("no instructions found in %s", target))
		}
		for _, section := range sections {
			fmt.Printf("## %s\n\n%s\n\n", section.Title, section.Text)
		}
	},
}
