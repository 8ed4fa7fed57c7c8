package cmd

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vzahanych/climate-outlook/internal/analysis"
	"github.com/vzahanych/climate-outlook/internal/config"
	"github.com/vzahanych/climate-outlook/internal/server/handlers"
)

type analyzeOptions struct {
	lat, lon     float64
	date         string
	activity     string
	activityDesc string
	enhance      bool
}

func analyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a single analysis and print it as JSON",
		Example: `  outlook analyze --lat 40.7128 --lon -74.006 --date 2025-10-08
  outlook analyze --lat 40.7128 --lon -74.006 --date 2025-10-08 --enhance --activity "Outdoor Picnic"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.lat, "lat", 0, "latitude in degrees (-90..90)")
	f.Float64Var(&opts.lon, "lon", 0, "longitude in degrees (-180..180)")
	f.StringVar(&opts.date, "date", "", "target date, YYYY-MM-DD")
	f.StringVar(&opts.activity, "activity", "", "planned activity, passed to the enhancer")
	f.StringVar(&opts.activityDesc, "desc", "", "activity description, passed to the enhancer")
	f.BoolVar(&opts.enhance, "enhance", false, "turn the summary into an activity report with the configured LLM")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions) error {
	if opts.lat < -90 || opts.lat > 90 || opts.lon < -180 || opts.lon > 180 {
		return fmt.Errorf("coordinates out of range: lat=%v lon=%v", opts.lat, opts.lon)
	}

	cfg := *config.GetConfig()
	cfg.Enhancement.Enabled = opts.enhance
	if err := cfg.Validate(); err != nil {
		return err
	}

	analyzer, err := analysis.NewAnalyzerFromConfig(&cfg, log.Logger, tele)
	if err != nil {
		return err
	}

	req := analysis.Request{
		Latitude:         opts.lat,
		Longitude:        opts.lon,
		TargetDate:       opts.date,
		UserActivity:     opts.activity,
		UserActivityDesc: opts.activityDesc,
	}

	var out interface{}
	if opts.enhance {
		result, err := analyzer.Report(cmd.Context(), req)
		if err != nil {
			return err
		}
		out = result.Report
		if result.Report == nil {
			out = handlers.FallbackData{
				RawAnalysis:      result.Summary,
				EnhancementError: result.EnhancementError,
				UserActivity:     req.UserActivity,
				UserActivityDesc: req.UserActivityDesc,
			}
		}
	} else {
		summary, err := analyzer.Analyze(cmd.Context(), req.Latitude, req.Longitude, req.TargetDate)
		if err != nil {
			return err
		}
		out = summary
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))

	log.Debug("Analysis printed", zap.String("target_date", opts.date), zap.Bool("enhanced", opts.enhance))
	return tele.Shutdown(cmd.Context())
}
