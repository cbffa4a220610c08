package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"homesnacks-cycle/cycle"
	"homesnacks-cycle/services"
	"homesnacks-cycle/storage"
)

var runCycleCmd = &cobra.Command{
	Use:   "run-cycle",
	Short: "Run data cycle stages",
	Long: `Run the data cycle stages 1 Prepare, 2 Download, 3 Convert, 4 Generate and 5 Cleanup.
Stages always run in ascending order. Including stage 1 starts a new cycle;
otherwise the most recent cycle is resumed.`,
	Example: `  homesnacks-cycle run-cycle --full
  homesnacks-cycle run-cycle --steps 3,4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		full, _ := cmd.Flags().GetBool("full")
		steps, _ := cmd.Flags().GetIntSlice("steps")
		sel := cycle.Selection{Full: full, Steps: steps}
		if _, err := sel.Resolve(); err != nil {
			return err
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		var warnings storage.WarningWriter
		if cfg.WarningsCSVPath != "" {
			w, err := storage.NewCSVWarningWriter(cfg.WarningsCSVPath)
			if err != nil {
				return err
			}
			defer w.Close()
			warnings = w
		}

		stages, err := buildStages(ctx, store, warnings)
		if err != nil {
			return err
		}

		logger.Info("=== HomeSnacks data cycle starting ===")
		dc, err := cycle.NewOrchestrator(store, stages, logger).Run(ctx, sel)
		if err != nil {
			return err
		}
		logger.Info("=== Data cycle %d done ===", dc.ID)
		return nil
	},
}

var refreshCitiesCmd = &cobra.Command{
	Use:   "refresh-cities",
	Short: "Recompute cached city property counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.RefreshCityCounts(cmd.Context())
		if err != nil {
			return err
		}
		logger.Info("[cities] Refreshed counts for %d cities", n)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the latest data cycle and its step log",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		dc, err := store.LatestCycle(ctx)
		if err != nil {
			return fmt.Errorf("latest data cycle: %w", err)
		}
		steps, err := store.CycleSteps(ctx, dc.ID)
		if err != nil {
			return err
		}

		svc := services.NewReportService(logger)
		svc.Print(os.Stdout, svc.Generate(dc, steps))
		return nil
	},
}

var importStagingCmd = &cobra.Command{
	Use:   "import-staging <file.csv>",
	Short: "Load a feed CSV export into the staging table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		rows, err := storage.ReadStagingCSV(f)
		if err != nil {
			return err
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		for _, r := range rows {
			if err := store.InsertStagingRow(ctx, r); err != nil {
				return err
			}
		}
		logger.Info("[import] Staged %d rows from %s", len(rows), args[0])
		return nil
	},
}

func init() {
	runCycleCmd.Flags().Bool("full", false, "Run all five stages against a new cycle")
	runCycleCmd.Flags().IntSlice("steps", nil, "Stage ids to run, e.g. --steps 3,4")

	rootCmd.AddCommand(runCycleCmd)
	rootCmd.AddCommand(refreshCitiesCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(importStagingCmd)
}
