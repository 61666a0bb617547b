package main

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"covid-estimator/internal/config"
	"covid-estimator/internal/estimator"
	"covid-estimator/internal/logging"
	"covid-estimator/internal/model"
)

var (
	estInputPath  string
	estConfigPath string
	estRatios     model.RatioPercentages

	estBedAvailability     int
	estICURate             int
	estVentilatorRate      int
	estHospitalizationRate int
	estDoublingPeriod      int
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate impact for one input record",
	Long:  "estimate reads an input record as JSON from --input (or stdin) and prints the output record.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(estConfigPath)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("bed-availability") {
			estRatios.BedAvailability = model.Pct(estBedAvailability)
		}
		if flags.Changed("icu-rate") {
			estRatios.ICURate = model.Pct(estICURate)
		}
		if flags.Changed("ventilator-rate") {
			estRatios.VentilatorRate = model.Pct(estVentilatorRate)
		}
		if flags.Changed("hospitalization-rate") {
			estRatios.HospitalizationRate = model.Pct(estHospitalizationRate)
		}
		if flags.Changed("doubling-period") {
			estRatios.DoublingPeriodDays = model.Pct(estDoublingPeriod)
		}

		var in io.Reader = cmd.InOrStdin()
		if estInputPath != "" && estInputPath != "-" {
			f, err := os.Open(estInputPath)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		ratios := cfg.EstimatorRatios().Apply(estRatios)
		logger := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
		return runEstimate(in, cmd.OutOrStdout(), ratios, estimator.WithLogger(logger))
	},
}

// runEstimate decodes one input record from r and writes the indented
// output record to w.
func runEstimate(r io.Reader, w io.Writer, ratios estimator.Ratios, opts ...estimator.Option) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var input model.Input
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}

	opts = append([]estimator.Option{estimator.WithRatios(ratios)}, opts...)
	out, err := json.MarshalIndent(estimator.Estimate(input, opts...), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func init() {
	f := estimateCmd.Flags()
	f.StringVar(&estInputPath, "input", "", "Path to the input record JSON (default stdin)")
	f.StringVar(&estConfigPath, "config", "", "Path to service configuration YAML for default ratios")
	f.IntVar(&estBedAvailability, "bed-availability", 0, "Share of hospital beds available, in percent")
	f.IntVar(&estICURate, "icu-rate", 0, "Share of infections needing ICU care, in percent")
	f.IntVar(&estVentilatorRate, "ventilator-rate", 0, "Share of infections needing ventilators, in percent")
	f.IntVar(&estHospitalizationRate, "hospitalization-rate", 0, "Share of infections needing hospitalization, in percent")
	f.IntVar(&estDoublingPeriod, "doubling-period", 0, "Days for infections to double")
}
