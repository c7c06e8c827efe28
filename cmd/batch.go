package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/batch"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/config"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate markup for a dataset of prompts",
		Long: `Runs the markup pipeline over every prompt of a JSONL or Parquet file and
writes a YAML report with the generated documents.`,
	}

	cmd.AddCommand(newBatchRunCmd())
	cmd.AddCommand(newBatchReportCmd())

	return cmd
}

func newBatchRunCmd() *cobra.Command {
	var (
		input         string
		output        string
		concurrency   int
		rps           float64
		provider      string
		providerModel string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate markup for every item of a dataset",
		Example: `  # Two requests at a time, at most one per second
  mockup batch run --input prompts.jsonl --concurrency 2 --rps 1

  # Force every item without a provider onto OpenRouter
  mockup batch run --input prompts.parquet --provider secondary`,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := batch.NewLoader(input).Load()
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			slog.Info("Dataset loaded", "items", len(items))

			for i := range items {
				if items[i].Provider == "" {
					items[i].Provider = provider
				}
				if items[i].ProviderModel == "" {
					items[i].ProviderModel = providerModel
				}
			}

			service, _, err := newService(config.Load(config.Env), nil)
			if err != nil {
				return err
			}

			start := time.Now()
			results, runErr := batch.NewRunner(service, concurrency, rps).Run(cmd.Context(), items)

			report := batch.NewReport(batch.ReportConfig{Input: input, Concurrency: concurrency, RPS: rps}, results)
			if err := report.Save(output); err != nil {
				return err
			}
			slog.Info("Batch complete",
				"succeeded", report.Summary.Succeeded,
				"failed", report.Summary.Failed,
				"elapsed", time.Since(start),
				"report", output)

			return runErr
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Dataset file (.jsonl or .parquet)")
	cmd.Flags().StringVarP(&output, "output", "o", "batch-report.yaml", "Report file")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 2, "Items generated in parallel")
	cmd.Flags().Float64Var(&rps, "rps", 0, "Maximum provider requests per second (0 = unlimited)")
	cmd.Flags().StringVar(&provider, "provider", "", "Provider for items that name none")
	cmd.Flags().StringVar(&providerModel, "provider-model", "", "Provider model for items that name none")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func newBatchReportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report <report.yaml>",
		Short: "Print a saved batch report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := batch.LoadReport(args[0])
			if err != nil {
				return err
			}

			switch format {
			case "text":
				return batch.PrintText(os.Stdout, report)
			case "csv":
				return batch.PrintCSV(os.Stdout, report)
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, csv)")

	return cmd
}
