package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/examreview/internal/question"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [questions.csv]",
	Short: "Validate a question bank and print its contents by exam, subject and type",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		pool, err := question.LoadFile(cfg.QuestionsPath)
		if err != nil {
			return err
		}
		return printInventory(cmd.OutOrStdout(), cfg.QuestionsPath, pool)
	},
}

// printInventory writes question counts per exam/subject pair and per type.
func printInventory(w io.Writer, path string, pool *question.Pool) error {
	type pair struct{ exam, subject string }
	perPair := make(map[pair]int)
	perType := make(map[string]int)
	for _, q := range pool.All() {
		perPair[pair{q.Exam, q.Subject}]++
		perType[q.Type]++
	}

	facets := pool.Facets()
	fmt.Fprintf(w, "%s: %d questions, %d exams, %d subjects\n\n",
		path, pool.Len(), len(facets.Exams), len(facets.Subjects))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EXAM\tSUBJECT\tQUESTIONS")
	for _, exam := range facets.Exams {
		for _, subject := range facets.Subjects {
			if n := perPair[pair{exam, subject}]; n > 0 {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", exam, subject, n)
			}
		}
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "TYPE\tQUESTIONS")
	for _, typ := range facets.Types {
		fmt.Fprintf(tw, "%s\t%d\n", typ, perType[typ])
	}
	return tw.Flush()
}
