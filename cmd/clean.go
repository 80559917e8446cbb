package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/varsum/internal/clean"
	"github.com/KaramelBytes/varsum/internal/ingest"
	"github.com/KaramelBytes/varsum/internal/report"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	clLoad       loadFlags
	clPlanFile   string
	clDrop       string
	clPercentage float64
	clCoerce     []string
	clExtract    []string
	clEmpty      string
	clOut        string
	clFormat     string
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Drop missing data, coerce column types and extract date parts",
	Long: `Runs the cleaning steps in order: drop missing data, coerce columns, then
extract date parts. Steps come from --plan (YAML) and/or flags; flag steps are
appended after the plan's. Nothing is written if any step fails.

  --coerce "price,qty:float"       coerce columns to character|integer|float|boolean|datetime
  --extract "ordered:year,month"   add ordered date part columns`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, c, err := clLoad.load(args[0])
		if err != nil {
			return err
		}
		plan, err := buildPlan(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if clEmpty != "" {
			rep, err := clean.EmptyValueReport(ds, splitList(clEmpty))
			if err != nil {
				return err
			}
			if rep.HasEmpty {
				fmt.Fprintf(out, "⚠ Blank values in: %s (rows are removed when these columns are coerced)\n", strings.Join(rep.Columns, ", "))
			} else {
				fmt.Fprintln(out, "✓ No blank values found")
			}
		}

		res, err := clean.Apply(ds, plan, logger)
		if err != nil {
			return err
		}
		for _, s := range res.Steps {
			fmt.Fprintf(out, "✓ %s\n", s)
		}
		if res.DroppedRows > 0 {
			fmt.Fprintf(out, "Removed %d rows\n", res.DroppedRows)
		}
		if len(res.EmptyColumns) > 0 {
			fmt.Fprintf(out, "⚠ Rows with blank values removed from: %s\n", strings.Join(res.EmptyColumns, ", "))
		}

		if clOut != "" {
			opt, err := clLoad.options(c)
			if err != nil {
				return err
			}
			if err := ingest.WriteCSV(clOut, res.Dataset, opt.Delimiter); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote %d rows x %d columns to %s\n", res.Dataset.NumRows(), res.Dataset.NumCols(), clOut)
			return nil
		}
		format := clFormat
		if format == "" {
			format = c.RenderFormat
		}
		f, err := report.ParseFormat(format)
		if err != nil {
			return err
		}
		return report.RenderTable(out, res.Dataset, f)
	},
}

func buildPlan(cmd *cobra.Command) (clean.Plan, error) {
	var plan clean.Plan
	if clPlanFile != "" {
		b, err := os.ReadFile(clPlanFile)
		if err != nil {
			return plan, fmt.Errorf("read plan: %w", err)
		}
		if err := yaml.Unmarshal(b, &plan); err != nil {
			return plan, fmt.Errorf("parse plan: %w", err)
		}
	}
	if clDrop != "" {
		plan.Drop = clDrop
	}
	if cmd.Flags().Changed("percentage") {
		pct := clPercentage
		plan.Percentage = &pct
	}
	for _, spec := range clCoerce {
		cols, target, ok := strings.Cut(spec, ":")
		if !ok || strings.TrimSpace(target) == "" {
			return plan, fmt.Errorf("invalid --coerce %q (want cols:target)", spec)
		}
		plan.Coercions = append(plan.Coercions, clean.Coercion{Columns: splitList(cols), Target: strings.TrimSpace(target)})
	}
	for _, spec := range clExtract {
		col, parts, ok := strings.Cut(spec, ":")
		if !ok || strings.TrimSpace(col) == "" {
			return plan, fmt.Errorf("invalid --extract %q (want column:part,part)", spec)
		}
		plan.Extract = append(plan.Extract, clean.Extraction{Column: strings.TrimSpace(col), Parts: splitList(parts)})
	}
	return plan, nil
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	addLoadFlags(cleanCmd, &clLoad)
	cleanCmd.Flags().StringVar(&clPlanFile, "plan", "", "YAML cleaning plan (drop, percentage, coercions, extract)")
	cleanCmd.Flags().StringVar(&clDrop, "drop", "", "drop strategy: all_cols|all_rows|cols_all_na|rows_all_na|percent_missing")
	cleanCmd.Flags().Float64Var(&clPercentage, "percentage", 0, "missing percentage threshold [0,100] for percent_missing")
	cleanCmd.Flags().StringArrayVar(&clCoerce, "coerce", nil, "coerce columns, as cols:target (repeatable)")
	cleanCmd.Flags().StringArrayVar(&clExtract, "extract", nil, "extract date parts, as column:part,part (repeatable)")
	cleanCmd.Flags().StringVar(&clEmpty, "empty-report", "", "comma-separated character columns to count blank values in")
	cleanCmd.Flags().StringVarP(&clOut, "out", "o", "", "write the cleaned data as CSV to this path")
	cleanCmd.Flags().StringVar(&clFormat, "format", "", "table output format when --out is not set: table|markdown|csv|json")
}
