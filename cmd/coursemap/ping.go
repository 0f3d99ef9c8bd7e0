package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/golfmapper/coursemap/internal/db"
)

// createPingCmd creates a command to test store connectivity
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test both stores and show their row counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := color.New(color.FgGreen).SprintFunc()
			fail := color.New(color.FgRed).SprintFunc()

			stores := []struct {
				name, dsn string
				tables    []string
			}{
				{"Used courses", run.Stores.Used, []string{"courses", "user_courses", "new_user_courses"}},
				{"Reference", run.Stores.Reference, []string{"courses"}},
			}

			var failed bool
			for _, s := range stores {
				conn, err := db.Open(cmd.Context(), s.dsn)
				if err != nil {
					fmt.Printf("%s %s: %v\n", fail("✗"), s.name, err)
					failed = true
					continue
				}
				fmt.Printf("%s %s (%s)\n", ok("✓"), s.name, conn.Driver)

				for _, table := range s.tables {
					n, err := conn.CountRows(cmd.Context(), table)
					if err != nil {
						fmt.Printf("    %s: %v\n", table, err)
						continue
					}
					fmt.Printf("    %s: %d\n", table, n)
				}
				conn.Close()
			}

			if failed {
				return errors.New("store check failed")
			}
			return nil
		},
	}
}
