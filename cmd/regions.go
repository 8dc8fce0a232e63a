package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/daynight/internal/model"
)

var (
	regionsAll  bool
	regionsJSON bool
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List regions with their station counts",
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
			return eris.Wrap(err, "regions: count stations")
		}
		counts = withStations(counts, regionsAll)

		out := cmd.OutOrStdout()
		if regionsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(counts)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "REGION\tSTATIONS")
		for _, c := range counts {
			fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Stations)
		}
		return tw.Flush()
	},
}

// withStations drops regions without stations unless all is set. The
// result is never nil.
func withStations(counts []model.RegionStationCount, all bool) []model.RegionStationCount {
	out := make([]model.RegionStationCount, 0, len(counts))
	for _, c := range counts {
		if all || c.Stations > 0 {
			out = append(out, c)
		}
	}
	return out
}

func init() {
	regionsCmd.Flags().BoolVar(&regionsAll, "all", false, "include regions without stations")
	regionsCmd.Flags().BoolVar(&regionsJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(regionsCmd)
}
