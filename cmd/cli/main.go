package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"mailmerge/adapters/excel"
	"mailmerge/adapters/markup"
	"mailmerge/domain/merge"
	"mailmerge/domain/tabular"
	"mailmerge/internal/batch"
	"mailmerge/internal/config"
	"mailmerge/internal/extract"
	"mailmerge/internal/profiling"
	"mailmerge/internal/reconcile"
	"mailmerge/internal/substitute"
	"mailmerge/internal/validation"
)

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "mailmerge",
		Short: "Mail-merge pipeline: import a dataset, reconcile template fields, render messages",
	}

	rootCmd.AddCommand(
		newInspectCmd(),
		newExtractCmd(),
		newPlanCmd(),
		newRenderCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newInspectCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect [dataset]",
		Short: "Import a dataset and print its discovered headers and column profiles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			result, err := importDataset(cfg, args[0], format)
			if err != nil {
				return err
			}

			fmt.Printf("Dataset %s: %d columns, %d rows", result.ID, len(result.Headers), len(result.Records))
			if result.SheetName != "" {
				fmt.Printf(" (sheet %q, header row %d)", result.SheetName, result.HeaderRow)
			}
			fmt.Println()
			for _, diag := range result.Diagnostics {
				fmt.Printf("  note: %s\n", diag)
			}

			fmt.Printf("\n%-30s %9s %9s %9s %6s\n", "COLUMN", "FILL", "UNIQUE", "MEANLEN", "MAX")
			for _, p := range profiling.ProfileColumns(result) {
				fmt.Printf("%-30s %8.0f%% %8.0f%% %9.1f %6d\n",
					p.Name, p.FillRate*100, p.UniqueRatio*100, p.MeanLength, p.MaxLength)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "dataset format override (csv, tsv, txt, xlsx)")
	return cmd
}

func newExtractCmd() *cobra.Command {
	var templateFormat string

	cmd := &cobra.Command{
		Use:   "extract [template]",
		Short: "List the placeholder tokens found in a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := loadTemplate(args[0], templateFormat)
			if err != nil {
				return err
			}

			keywords := reconcile.DefaultKeywords()
			for _, token := range extract.Tokens(tpl.Plain) {
				fmt.Printf("%-40s %s\n", token.Literal, keywords.Classify(token.Name()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&templateFormat, "template-format", "", "template format override (md, html, txt)")
	return cmd
}

func newPlanCmd() *cobra.Command {
	var format, templateFormat string

	cmd := &cobra.Command{
		Use:   "plan [template] [dataset]",
		Short: "Draft a field-to-column mapping for reviewer confirmation",
		Long: `Draft a mapping from template placeholder tokens to dataset columns.

Unmapped tokens appear with an empty column and must be resolved by the
reviewer (edit the JSON and pass it to render via --mapping).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			tpl, err := loadTemplate(args[0], templateFormat)
			if err != nil {
				return err
			}
			result, err := importDataset(cfg, args[1], format)
			if err != nil {
				return err
			}

			tokens := extract.Tokens(tpl.Plain)
			reconciler := reconcile.NewReconciler(reconcile.DefaultKeywords())
			mapping := reconciler.Reconcile(tokens, result.Headers)

			encoded, err := json.MarshalIndent(mapping, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(encoded))

			if unmapped := mapping.UnmappedTokens(); len(unmapped) > 0 {
				fmt.Fprintf(os.Stderr, "%d token(s) unmapped: %s\n", len(unmapped), strings.Join(unmapped, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "dataset format override (csv, tsv, txt, xlsx)")
	cmd.Flags().StringVar(&templateFormat, "template-format", "", "template format override (md, html, txt)")
	return cmd
}

func newRenderCmd() *cobra.Command {
	var format, templateFormat string
	var mappingFile, outDir string
	var emailColumn, phoneColumn string
	var parallelism int

	cmd := &cobra.Command{
		Use:   "render [template] [dataset]",
		Short: "Render one personalized message per dataset row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			tpl, err := loadTemplate(args[0], templateFormat)
			if err != nil {
				return err
			}
			result, err := importDataset(cfg, args[1], format)
			if err != nil {
				return err
			}

			tokens := extract.Tokens(tpl.Plain)
			reconciler := reconcile.NewReconciler(reconcile.DefaultKeywords())
			mapping := reconciler.Reconcile(tokens, result.Headers)
			if mappingFile != "" {
				if err := applyMappingOverrides(mapping, mappingFile); err != nil {
					return err
				}
			}
			cats := reconciler.ClassifyAll(tokens, result.Headers)

			engine := substitute.NewEngine(
				substitute.SerialDateConfig(cfg.SerialDate),
				substitute.Sentinels(cfg.Sentinels),
			)
			reporter := validation.NewReporter(validation.Thresholds(cfg.Validation))
			runner := batch.NewRunner(engine, reporter)

			opts := batch.Options{
				Parallelism: parallelism,
				YieldEvery:  cfg.Batch.YieldEvery,
				EmailColumn: emailColumn,
				PhoneColumn: phoneColumn,
			}
			if opts.Parallelism == 0 {
				opts.Parallelism = cfg.Batch.Parallelism
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			run, runErr := runner.Run(ctx, tpl.Plain, result.Records, mapping, cats, opts)

			if outDir != "" {
				if err := writeRun(outDir, run); err != nil {
					return err
				}
				fmt.Printf("Wrote %d messages to %s\n", len(run.Rows), outDir)
			} else {
				for _, row := range run.Rows {
					fmt.Printf("--- row %d (valid=%t) ---\n%s\n", row.Index, row.Report.IsValid, row.Result.Message)
				}
			}

			fmt.Printf("Run %s: %d/%d rows rendered, %d need attention\n",
				run.RunID, len(run.Rows), run.TotalRows, run.InvalidRows)
			return runErr
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "dataset format override (csv, tsv, txt, xlsx)")
	cmd.Flags().StringVar(&templateFormat, "template-format", "", "template format override (md, html, txt)")
	cmd.Flags().StringVar(&mappingFile, "mapping", "", "JSON file of reviewer mapping overrides (token literal -> column)")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for per-row message files and the run report")
	cmd.Flags().StringVar(&emailColumn, "email-column", "", "column holding the destination email address")
	cmd.Flags().StringVar(&phoneColumn, "phone-column", "", "column holding the destination phone number")
	cmd.Flags().IntVar(&parallelism, "parallelism", 0, "concurrent row renders (default from config)")
	return cmd
}

func importDataset(cfg *config.Config, path, formatOverride string) (*tabular.ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	format := formatOverride
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}

	importer := excel.NewImporter(excel.Config(cfg.Import))
	result, err := importer.Import(data, format)
	if err != nil {
		return nil, err
	}
	result.SourceName = filepath.Base(path)
	return result, nil
}

func loadTemplate(path, formatOverride string) (*markup.Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	format := formatOverride
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	return markup.Load(raw, format)
}

func applyMappingOverrides(mapping merge.FieldMapping, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read mapping file: %w", err)
	}
	overrides := make(map[string]string)
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return fmt.Errorf("invalid mapping file: %w", err)
	}
	for literal, column := range overrides {
		mapping[literal] = column
	}
	return nil
}

func writeRun(dir string, run *batch.RunResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, row := range run.Rows {
		name := filepath.Join(dir, fmt.Sprintf("message_%04d.txt", row.Index))
		if err := os.WriteFile(name, []byte(row.Result.Message), 0o644); err != nil {
			return err
		}
	}
	report, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "run.json"), report, 0o644)
}
