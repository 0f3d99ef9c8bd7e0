package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/golfmapper/coursemap/internal/match"
	"github.com/golfmapper/coursemap/internal/source"
)

// createExplainCmd creates a command that shows how one used course is scored
func createExplainCmd() *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "explain [course id]",
		Short: "Score one used course with tracing and show the best candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid course id %q", args[0])
			}
			return runExplain(cmd, id, topN)
		},
	}
	cmd.Flags().IntVar(&topN, "top", match.DefaultTopN, "number of candidates to show")
	return cmd
}

func runExplain(cmd *cobra.Command, id int64, topN int) error {
	ctx := cmd.Context()

	queries, err := loadQueries(ctx, source.Options{NewOnly: run.Matching.NewOnly})
	if err != nil {
		return err
	}
	var query *match.Query
	for i := range queries {
		if queries[i].ID == id {
			query = &queries[i]
			break
		}
	}
	if query == nil {
		return fmt.Errorf("used course %d not found", id)
	}

	candidates, err := loadCandidates(ctx)
	if err != nil {
		return err
	}
	engine, err := newEngine(candidates)
	if err != nil {
		return err
	}

	results := engine.FindMatches(true, query, topN)

	fmt.Printf("Course %d: %s\n", query.ID, match.Value(query.Name))
	fmt.Printf("  %s, %s, %s\n", match.Value(query.City), match.Value(query.State), match.Value(query.Country))
	if len(results) == 0 {
		fmt.Println("  No acceptable candidate")
		return nil
	}

	for i, r := range results {
		fmt.Printf("\n%d. [%d] %s (%s, %s)\n", i+1, r.Candidate.ID, r.Candidate.DisplayName(),
			match.Value(r.Candidate.City), match.Value(r.Candidate.State))
		fmt.Printf("   composite  %.3f  confidence %d\n", r.Composite, r.Confidence())
		fmt.Printf("   distance   %.2f  (%s)\n", r.DistanceScore, meters(r.DistanceMeters))
		if r.SplitName {
			fmt.Printf("   name       %.3f  (Club:%.2f, Course:%.2f)\n", r.NameScore, r.ClubScore, r.CourseScore)
		} else {
			fmt.Printf("   name       %.3f\n", r.NameScore)
		}
		fmt.Printf("   city       %.2f  state match %v\n", r.CityScore, r.StateMatch)
	}
	return nil
}

func meters(d *float64) string {
	if d == nil {
		return "no coordinates"
	}
	return fmt.Sprintf("%.0fm", *d)
}
