package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/slotter/pkg/export"
	"github.com/dshills/slotter/pkg/recommend"
	"github.com/dshills/slotter/pkg/validation"
)

var (
	format     string
	outputPath string
	validate   bool
)

var solveCmd = &cobra.Command{
	Use:   "solve <scenario.yaml>",
	Short: "Solve a scenario file and print the resulting assignment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		return runSolve(cobraCmd, args[0])
	},
}

func init() {
	solveCmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, or svg")
	solveCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write output to a file instead of stdout")
	solveCmd.Flags().BoolVar(&validate, "validate", false, "re-check the solution invariants after solving")
}

func runSolve(cobraCmd *cobra.Command, path string) error {
	scenario, err := recommend.LoadScenario(path)
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
	}

	assembler, err := recommend.NewAssembler(scenario.Options, recommend.WithLogger(logger))
	if err != nil {
		return err
	}

	set, err := scenario.SectionSet()
	if err != nil {
		return err
	}

	solution, err := assembler.Solve(cobraCmd.Context(), scenario.Candidates(), set)
	if err != nil {
		return err
	}

	for _, warning := range set.Warnings() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}

	if validate {
		report, err := validation.Validate(solution, set)
		if err != nil {
			return err
		}
		if !report.Passed {
			for _, detail := range report.Errors {
				fmt.Fprintf(os.Stderr, "Validation: %s\n", detail)
			}
			return fmt.Errorf("solution failed validation (%d errors)", len(report.Errors))
		}
		fmt.Fprintf(os.Stderr, "Validation: %d checks passed\n", len(report.Results))
	}

	var data []byte
	switch format {
	case "text":
		data = []byte(export.RenderText(solution))
	case "json":
		data, err = export.ExportJSON(solution)
	case "svg":
		data, err = export.ExportSVG(solution, export.DefaultSVGOptions())
	default:
		return fmt.Errorf("invalid format %q, must be one of: text, json, svg", format)
	}
	if err != nil {
		return err
	}

	if outputPath != "" {
		return os.WriteFile(outputPath, data, 0644)
	}
	_, err = os.Stdout.Write(data)
	return err
}
