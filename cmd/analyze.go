package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/daynight/internal/analysis"
	"github.com/sells-group/daynight/internal/report"
)

var (
	analyzeRegion string
	analyzeStart  string
	analyzeEnd    string
	analyzeType   string
	analyzeFormat string
	analyzeOut    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare day and night temperatures for one region",
	Long:  "Classifies every sample of the region's stations as solar day or night and reports per-station and count-weighted regional averages. Missing --start/--end default to the stored measurement span.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		format, err := report.ParseFormat(analyzeFormat)
		if err != nil {
			return err
		}

		env, err := initEnv(ctx, "analyze")
		if err != nil {
			return err
		}
		defer env.Close()

		mtype := analyzeType
		if mtype == "" {
			mtype = cfg.Analysis.MeasurementType
		}
		start, end, err := resolveRange(ctx, env.Store, analyzeStart, analyzeEnd, mtype)
		if err != nil {
			return err
		}

		res, err := env.Engine.Analyze(ctx, analysis.Request{
			Region: analysis.CanonicalName(analyzeRegion),
			Start:  start,
			End:    end,
			Type:   analyzeType,
		})
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		toFile := analyzeOut != "" && analyzeOut != "-"
		if toFile {
			f, err := os.Create(analyzeOut)
			if err != nil {
				return eris.Wrapf(err, "analyze: create %s", analyzeOut)
			}
			defer f.Close() //nolint:errcheck
			w = f
		}

		if err := report.Write(w, format, res); err != nil {
			return err
		}
		if toFile {
			zap.L().Info("report written", zap.String("path", analyzeOut), zap.String("format", string(format)))
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRegion, "region", "", "region name (required)")
	analyzeCmd.Flags().StringVar(&analyzeStart, "start", "", "first date, YYYY-MM-DD (default: earliest stored)")
	analyzeCmd.Flags().StringVar(&analyzeEnd, "end", "", "last date, YYYY-MM-DD (default: latest stored)")
	analyzeCmd.Flags().StringVar(&analyzeType, "type", "", "measurement type filter (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "output format: text, json, yaml or xlsx")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "write to file instead of stdout")
	_ = analyzeCmd.MarkFlagRequired("region")
	rootCmd.AddCommand(analyzeCmd)
}
