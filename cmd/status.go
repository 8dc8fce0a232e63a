package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store contents and the stored measurement span",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "analyze")
		if err != nil {
			return err
		}
		defer env.Close()

		counts, err := env.Store.RegionStationCounts(ctx)
		if err != nil {
			return eris.Wrap(err, "status: count stations")
		}
		var stations, populated int
		for _, c := range counts {
			stations += c.Stations
			if c.Stations > 0 {
				populated++
			}
		}

		span, err := env.Store.MeasurementDateSpan(ctx, cfg.Analysis.MeasurementType)
		if err != nil {
			return eris.Wrap(err, "status: measurement span")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "=== Store Status ===")
		fmt.Fprintf(out, "Driver:             %s\n", cfg.Store.Driver)
		fmt.Fprintf(out, "Regions:            %d (%d with stations)\n", len(counts), populated)
		fmt.Fprintf(out, "Stations:           %d\n", stations)
		if span.IsEmpty() {
			fmt.Fprintln(out, "Measurements:       none")
		} else {
			fmt.Fprintf(out, "Measurements:       %s .. %s\n", span.Start, span.End)
		}
		if cfg.Analysis.MeasurementType != "" {
			fmt.Fprintf(out, "Measurement type:   %s\n", cfg.Analysis.MeasurementType)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
