package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/golfmapper/coursemap/internal/match"
	"github.com/golfmapper/coursemap/internal/report"
	"github.com/golfmapper/coursemap/internal/source"
)

// createMapCmd creates the batch mapping command
func createMapCmd() *cobra.Command {
	var (
		used, reference, out, poolCache string
		formats                         []string
		limit, workers                  int
		newOnly, parseAddresses         bool
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Map every used course and write the reports",
		Long: `Loads the used courses and the reference pool, finds the best reference
course for each used course and writes the selected report formats
(csv, json, md, xlsx) to the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("used") {
				run.Stores.Used = used
			}
			if flags.Changed("reference") {
				run.Stores.Reference = reference
			}
			if flags.Changed("out") {
				run.Output.Dir = out
			}
			if flags.Changed("formats") {
				run.Output.Formats = formats
			}
			if flags.Changed("limit") {
				run.Matching.Limit = limit
			}
			if flags.Changed("workers") {
				run.Matching.Workers = workers
			}
			if flags.Changed("new-only") {
				run.Matching.NewOnly = newOnly
			}
			if flags.Changed("parse-addresses") {
				run.Matching.ParseAddresses = parseAddresses
			}
			if flags.Changed("pool-cache") {
				run.Cache.Pool = poolCache
			}
			if err := run.Validate(); err != nil {
				return err
			}

			return runMap(cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&used, "used", "", "used-course store (SQLite path or Postgres DSN)")
	flags.StringVar(&reference, "reference", "", "reference course store (SQLite path or Postgres DSN)")
	flags.StringVar(&out, "out", "", "output directory for reports")
	flags.StringSliceVar(&formats, "formats", nil, "report formats: csv, json, md, xlsx")
	flags.IntVarP(&limit, "limit", "n", 0, "map only the first N used courses by id")
	flags.IntVar(&workers, "workers", 1, "concurrent mapping workers")
	flags.BoolVar(&newOnly, "new-only", false, "read only new_user_courses")
	flags.BoolVar(&parseAddresses, "parse-addresses", false, "fill missing city, state and country from addresses")
	flags.StringVar(&poolCache, "pool-cache", "", "msgpack snapshot of the reference pool")

	return cmd
}

func runMap(cmd *cobra.Command) error {
	ctx := cmd.Context()
	start := time.Now()

	queries, err := loadQueries(ctx, source.Options{NewOnly: run.Matching.NewOnly, Limit: run.Matching.Limit})
	if err != nil {
		return err
	}
	candidates, err := loadCandidates(ctx)
	if err != nil {
		return err
	}

	engine, err := newEngine(candidates)
	if err != nil {
		return err
	}
	log.Info().Int("queries", len(queries)).Int("candidates", len(candidates)).
		Int("workers", run.Matching.Workers).Msg("Mapping courses")

	mappings, err := engine.MapAll(ctx, queries)
	if err != nil {
		return err
	}

	doc := report.Build(mappings, time.Now())
	paths, err := report.WriteAll(run.Output.Dir, doc, run.Output.Formats)
	if err != nil {
		return err
	}

	printDistribution(doc)
	for _, p := range paths {
		fmt.Printf("  wrote %s\n", p)
	}
	fmt.Printf("Mapped %d courses in %s\n", len(mappings), time.Since(start).Round(time.Millisecond))
	return nil
}

var tierColors = map[int]*color.Color{
	match.ConfidenceCertain:  color.New(color.FgGreen, color.Bold),
	match.ConfidenceLikely:   color.New(color.FgGreen),
	match.ConfidencePossible: color.New(color.FgYellow),
	match.ConfidenceWeak:     color.New(color.FgRed),
	match.ConfidenceNone:     color.New(color.FgRed, color.Bold),
}

func printDistribution(doc *report.Document) {
	s := report.Summarize(doc)

	fmt.Println()
	fmt.Println("=== Mapping Summary ===")
	fmt.Printf("Total courses: %d\n", s.Total)
	fmt.Printf("Matched:       %d (%.1f%%)\n", s.Matched, s.Percent(s.Matched))
	fmt.Printf("Unmatched:     %d (%.1f%%)\n", s.Unmatched, s.Percent(s.Unmatched))
	fmt.Println()
	fmt.Println("Confidence distribution:")
	for _, t := range s.Tiers {
		tierColors[t.Level].Printf("  Level %d: %5d (%5.1f%%)\n", t.Level, t.Count, s.Percent(t.Count))
	}
	fmt.Println()
}
