package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"enrollmate-backend/lib/courseparse"
	"enrollmate-backend/lib/scrapers/courselist"
	"enrollmate-backend/services/extract"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scrapeJson *bool

func init() {
	scrapeJson = scrapeCmd.Flags().Bool("json", false, "Print the extraction result as JSON.")
	rootCmd.AddCommand(scrapeCmd)
}

func scrapeUrl(cmd *cobra.Command, pageUrl string) (extract.Result, error) {
	client, err := courselist.NewClient()
	if err != nil {
		return extract.Result{}, err
	}
	doc, err := client.FetchDocument(cmd.Context(), pageUrl)
	if err != nil {
		return extract.Result{}, err
	}
	result := extract.ScrapeDocument(cmd.Context(), pageUrl, doc)
	extract.Sort(result.Courses)
	return result, nil
}

func renderCourses(courses []courseparse.Course) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{
		"Code", "Name", "Group", "Schedule", "Enrolled", "Instructor", "Room", "Status",
	})
	for _, c := range courses {
		t.AppendRow(table.Row{
			c.CourseCode,
			c.CourseName,
			c.SectionGroup,
			c.Schedule,
			fmt.Sprintf("%d/%d", c.EnrolledCurrent, c.EnrolledTotal),
			c.Instructor,
			c.Room,
			c.Status,
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url> [--json]",
	Short: "Scrapes the course listing at the given url and prints it.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		result, err := scrapeUrl(cmd, args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		if *scrapeJson {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			encoder.Encode(result)
			return
		}

		renderCourses(result.Courses)
		fmt.Printf("layout: %s, courses: %d\n", result.Layout, result.CourseCount)
	},
}
