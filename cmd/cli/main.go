package main

import (
	"encoding/json"
	"fmt"
	"os"

	"qrnglab/adapters/cryptorand"
	"qrnglab/adapters/quantum"
	"qrnglab/app"
	"qrnglab/domain/qrng"
	"qrnglab/internal/testkit"
	"qrnglab/ports"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "qrnglab-cli",
		Short: "QRNG lab CLI for collection runs and uniformity analysis",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newSweepCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var samples int
	var source string
	var seed int64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run [width]",
		Short: "Collect samples at one width and test uniformity",
		Long: `Collect n-bit samples from the chosen bit source and report
descriptive statistics plus the chi-square goodness-of-fit test.

Example: qrnglab-cli run 4 --samples 1000 --source quantum`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var width int
			if _, err := fmt.Sscanf(args[0], "%d", &width); err != nil {
				return fmt.Errorf("invalid width %q: %w", args[0], err)
			}

			bitSource, err := buildSource(source, seed)
			if err != nil {
				return err
			}

			pipeline := app.NewPipelineService(bitSource, nil)
			result, err := pipeline.Run(cmd.Context(), qrng.Width(width), samples)
			if err != nil {
				return err
			}

			return printResult(result, asJSON)
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 1000, "number of draws")
	cmd.Flags().StringVar(&source, "source", "quantum", "bit source: quantum, crypto or seeded")
	cmd.Flags().Int64Var(&seed, "seed", 1, "seed for the seeded source")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full result as JSON")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var samples int
	var source string
	var seed int64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sweep [widths...]",
		Short: "Run the pipeline at several widths concurrently",
		Long: `Collect and analyze the same number of samples at every listed
width. Each width runs with independent state.

Example: qrnglab-cli sweep 2 4 8 --samples 2000`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			widths := make([]qrng.Width, len(args))
			for i, arg := range args {
				var w int
				if _, err := fmt.Sscanf(arg, "%d", &w); err != nil {
					return fmt.Errorf("invalid width %q: %w", arg, err)
				}
				widths[i] = qrng.Width(w)
			}

			bitSource, err := buildSource(source, seed)
			if err != nil {
				return err
			}

			sweep := app.NewSweepService(bitSource, nil)
			results, err := sweep.Sweep(cmd.Context(), widths, samples)
			if err != nil {
				return err
			}

			for _, result := range results {
				if err := printResult(result, asJSON); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 1000, "number of draws per width")
	cmd.Flags().StringVar(&source, "source", "quantum", "bit source: quantum, crypto or seeded")
	cmd.Flags().Int64Var(&seed, "seed", 1, "seed for the seeded source")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit full results as JSON")
	return cmd
}

func buildSource(kind string, seed int64) (ports.BitSource, error) {
	switch kind {
	case "quantum":
		return quantum.NewSimulator()
	case "crypto":
		return cryptorand.NewSource(), nil
	case "seeded":
		return testkit.NewSeededSource(seed), nil
	default:
		return nil, fmt.Errorf("unknown source %q (want quantum, crypto or seeded)", kind)
	}
}

func printResult(result *app.RunResult, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	report := result.Report
	verdict := "non-uniform"
	if report.ConsistentWithUniform() {
		verdict = "consistent with uniform"
	}

	fmt.Printf("width=%d source=%s samples=%d\n", result.Width, result.Source, report.SampleSize)
	fmt.Printf("  mean      %.4f (expected %.4f)\n", report.Mean, report.TheoreticalMean)
	fmt.Printf("  std dev   %.4f (population)\n", report.StdDev)
	fmt.Printf("  range     [%d, %d], %d/%d values seen\n", report.Min, report.Max, report.UniqueValues, report.PossibleValues)
	fmt.Printf("  chi2      %.4f (df=%d)\n", report.ChiSquare, report.DegreesFreedom)
	fmt.Printf("  p-value   %.6f -> %s\n", report.PValue, verdict)
	return nil
}
