package commands

import (
	"fmt"
	"os"

	"enrollmate-backend/services/importer"

	"github.com/spf13/cobra"
)

var importSemester *string

func init() {
	importSemester = importCmd.Flags().String(
		"semester", "",
		"The semester to import into, matched fuzzily against semester names. Defaults to the current semester.",
	)
	rootCmd.AddCommand(importCmd)
}

func pickSemester(name string, semesters []importer.Semester) (importer.Semester, error) {
	if name != "" {
		match, ok := importer.MatchSemester(name, semesters)
		if !ok {
			return importer.Semester{}, fmt.Errorf("no semester matching %q", name)
		}
		return match, nil
	}
	for _, s := range semesters {
		if s.IsCurrent {
			return s, nil
		}
	}
	return importer.Semester{}, fmt.Errorf("no current semester, specify one with --semester")
}

var importCmd = &cobra.Command{
	Use:   "import <url> [--semester <name>]",
	Short: "Scrapes the course listing at the given url and imports it into EnrollMate.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := readConfig()
		client := apiClient(config)

		// the same state machine the extension popup runs through
		session := importer.NewSession()
		fail := func(err error) {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		session.Apply(importer.EventExtract)
		result, err := scrapeUrl(cmd, args[0])
		if err != nil {
			session.Apply(importer.EventExtractFailed)
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		if result.CourseCount == 0 {
			session.Apply(importer.EventExtractFailed)
			fmt.Fprintln(os.Stderr, "no courses found on page")
			os.Exit(1)
		}
		session.Apply(importer.EventExtractSucceeded)
		renderCourses(result.Courses)

		if client.Token() == "" {
			session.Apply(importer.EventNeedLogin)
			fmt.Fprintln(os.Stderr, "no stored session, run `enrollmate-cli login` first")
			os.Exit(1)
		}
		session.Apply(importer.EventLoggedIn)

		semesters, err := client.Semesters(cmd.Context(), config.UserId)
		if err != nil {
			fail(err)
		}
		semester, err := pickSemester(*importSemester, semesters)
		if err != nil {
			fail(err)
		}

		session.Apply(importer.EventImport)
		imported, err := client.ImportCourses(cmd.Context(), semester.Id, result.Courses)
		if err != nil {
			fail(err)
		}
		session.Apply(importer.EventImportDone)

		fmt.Printf("%s into %q\n", imported.Message, semester.Name)
		for _, e := range imported.Errors {
			fmt.Fprintln(os.Stderr, "warning:", e)
		}
	},
}
