// FilePath: cmd/main.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	tm "github.com/buger/goterm"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	nuts "github.com/vaudience/go-nuts"

	"github.com/fleetyard/fleetdash/internal/config"
	"github.com/fleetyard/fleetdash/internal/dashboard"
	"github.com/fleetyard/fleetdash/internal/models"
	"github.com/fleetyard/fleetdash/internal/server"
	"github.com/fleetyard/fleetdash/internal/telematics"
)

func main() {
	// A .env file is optional; deployments use real environment variables.
	_ = godotenv.Load()

	// Initialize version info
	nuts.InitVersion()

	rootCmd := &cobra.Command{
		Use:   "fleetdash",
		Short: "Fleet device dashboard aggregation service",
		Long: "fleetdash aggregates fleet telemetry (trips, exceptions, fill-ups and\n" +
			"status readings) into per-device dashboard snapshots and serves them\n" +
			"over HTTP.",
	}
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSnapshotCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Clear console and draw logo
			ClearConsole()
			DrawLogo()
			nuts.L.Infof("[Main] Starting fleetdash v%s", nuts.GetVersion())

			// Load configuration
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// Create and start server
			srv := server.New(cfg)
			return srv.Start()
		},
	}
}

func newSnapshotCmd() *cobra.Command {
	var (
		deviceID string
		fromStr  string
		toStr    string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Load one device dashboard and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			now := time.Now().UTC()
			from := now.AddDate(0, 0, -7)
			to := now
			if fromStr != "" {
				if from, err = time.Parse(time.RFC3339, fromStr); err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
			}
			if toStr != "" {
				if to, err = time.Parse(time.RFC3339, toStr); err != nil {
					return fmt.Errorf("invalid --to: %w", err)
				}
			}

			caller := telematics.NewHTTPCaller(cfg.Telemetry.Endpoint, cfg.Telemetry.Timeout)
			client := telematics.NewClient(caller)
			client.SetPageSize(cfg.Telemetry.PageSize)
			client.SetFallbackLimit(cfg.Telemetry.FallbackLimit)

			svc := dashboard.New(client)
			snap, err := svc.Load(cmd.Context(), deviceID, models.NewDateRange(from, to))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}

	cmd.Flags().StringVarP(&deviceID, "device", "d", "", "device ID to load")
	cmd.Flags().StringVar(&fromStr, "from", "", "range start (RFC3339), default 7 days ago")
	cmd.Flags().StringVar(&toStr, "to", "", "range end (RFC3339), default now")
	_ = cmd.MarkFlagRequired("device")

	return cmd
}

// ClearConsole clears the console screen and draws the logo.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"    ______          __  ____             __  ",
		"   / __/ /__  ___  / /_/ __ \\____ ______/ /_ ",
		"  / /_/ / _ \\/ _ \\/ __/ / / / __ '/ ___/ __ \\",
		" / __/ /  __/  __/ /_/ /_/ / /_/ (__  ) / / /",
		"/_/ /_/\\___/\\___/\\__/_____/\\__,_/____/_/ /_/ ",
		"..........................................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
