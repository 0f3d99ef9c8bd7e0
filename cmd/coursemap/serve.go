package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/golfmapper/coursemap/internal/match"
	"github.com/golfmapper/coursemap/internal/report"
	"github.com/golfmapper/coursemap/internal/web"
)

// createServeCmd creates the review server command
func createServeCmd() *cobra.Command {
	var (
		host, reportPath string
		port             int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a mapping report and the reference pool for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("host") {
				run.Server.Host = host
			}
			if flags.Changed("port") {
				run.Server.Port = port
			}
			if flags.Changed("report") {
				run.Server.Report = reportPath
			}
			if err := run.Validate(); err != nil {
				return err
			}

			cfg := web.FromRun(&run)
			doc, err := report.ReadJSON(cfg.ReportPath)
			if err != nil {
				return err
			}
			candidates, err := loadCandidates(cmd.Context())
			if err != nil {
				return err
			}

			server, err := web.NewServer(cfg, doc, match.NewPool(candidates))
			if err != nil {
				return err
			}
			fmt.Printf("Review server on http://%s\n", server.Addr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Start(ctx)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&host, "host", "", "listen host")
	flags.IntVar(&port, "port", 0, "listen port")
	flags.StringVar(&reportPath, "report", "", "JSON mapping report to serve")
	return cmd
}
