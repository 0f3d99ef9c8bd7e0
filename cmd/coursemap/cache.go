package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/golfmapper/coursemap/internal/cache"
	"github.com/golfmapper/coursemap/internal/db"
)

// createCacheCmd creates the pool cache subcommands
func createCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the reference pool snapshot",
	}
	cacheCmd.AddCommand(createCacheBuildCmd())
	return cacheCmd
}

func createCacheBuildCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Read the reference store and write the pool snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("out") {
				run.Cache.Pool = out
			}
			if run.Cache.Pool == "" {
				return errors.New("no snapshot path: set --out or cache.pool")
			}

			fingerprint, err := db.Fingerprint(cmd.Context(), run.Stores.Reference)
			if err != nil {
				return err
			}
			candidates, err := readReference(cmd.Context())
			if err != nil {
				return err
			}
			if err := cache.Write(run.Cache.Pool, run.Stores.Reference, fingerprint, candidates, time.Now()); err != nil {
				return err
			}
			fmt.Printf("Wrote %d reference courses to %s\n", len(candidates), run.Cache.Pool)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "snapshot path (default cache.pool)")
	return cmd
}
