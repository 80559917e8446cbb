package cmd

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/varsum/internal/chart"
	"github.com/KaramelBytes/varsum/internal/dispatch"
	"github.com/KaramelBytes/varsum/internal/report"
	"github.com/spf13/cobra"
)

var (
	sumLoad       loadFlags
	sumVars       string
	sumOutput     string
	sumPlot       string
	sumAgg        string
	sumOutliers   string
	sumLumpN      int
	sumOtherLabel string
	sumTopN       int
	sumFormat     string
	sumPNG        string
)

var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Summarize up to three variables with a table or plot chosen by their types",
	Long: `Picks a summary for the selected variables from their semantic types
(numeric, character, datetime) and renders it as a table or a plot spec.

Examples:
  varsum summary sales.csv --vars price
  varsum summary sales.csv --vars city,price --agg sum --top 5
  varsum summary sales.csv --vars price,qty,city --output plot --png out.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel := splitList(sumVars)
		ds, c, err := sumLoad.load(args[0])
		if err != nil {
			return err
		}
		f := cmd.Flags()
		raw := dispatch.RawOptions{
			Plot:        sumPlot,
			Aggregation: c.DefaultAggregation,
			Outlier:     c.DefaultOutliers,
			Output:      c.DefaultOutput,
			LumpN:       c.LumpKeepN,
			OtherLabel:  c.LumpOtherLabel,
			TopN:        c.TopN,
		}
		if f.Changed("agg") {
			raw.Aggregation = sumAgg
		}
		if f.Changed("outliers") {
			raw.Outlier = sumOutliers
		}
		if f.Changed("output") {
			raw.Output = sumOutput
		}
		if f.Changed("lump") {
			raw.LumpN = sumLumpN
		}
		if f.Changed("other-label") {
			raw.OtherLabel = sumOtherLabel
		}
		if f.Changed("top") {
			raw.TopN = sumTopN
		}
		if sumPNG != "" {
			raw.Output = dispatch.OutputPlot.String()
		}
		opt, err := raw.Decode(c.Theme())
		if err != nil {
			return err
		}

		res, err := dispatch.NewResolver(logger).Resolve(ds, sel, opt)
		if err != nil {
			return err
		}
		format := sumFormat
		if format == "" {
			format = c.RenderFormat
		}
		rf, err := report.ParseFormat(format)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		copt := chart.Options{WidthIn: c.PlotWidthIn, HeightIn: c.PlotHeightIn, Grid: opt.Theme.Grid}

		// "--png -" streams the image alone so it can be piped.
		if sumPNG == "-" && res.Kind == dispatch.ResultPlot {
			err := chart.WritePNG(out, res.Plot, copt)
			if !errors.Is(err, chart.ErrUnsupported) {
				return err
			}
		}
		if err := report.RenderResult(out, res, rf); err != nil {
			return err
		}

		if sumPNG == "" || res.Kind != dispatch.ResultPlot {
			return nil
		}
		if sumPNG == "-" {
			// Only charts WritePNG cannot draw get this far.
			err = chart.ErrUnsupported
		} else {
			err = chart.Save(res.Plot, sumPNG, copt)
		}
		if err != nil {
			if errors.Is(err, chart.ErrUnsupported) {
				fmt.Fprintf(out, "⚠ %s charts cannot be exported as PNG; the plot description above still applies\n", res.Plot.Kind)
				return nil
			}
			return err
		}
		fmt.Fprintf(out, "✓ Wrote plot to %s\n", sumPNG)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	addLoadFlags(summaryCmd, &sumLoad)
	summaryCmd.Flags().StringVarP(&sumVars, "vars", "v", "", "comma-separated variables to summarize (1 to 3)")
	summaryCmd.Flags().StringVar(&sumOutput, "output", "", "table|plot (default from config)")
	summaryCmd.Flags().StringVar(&sumPlot, "plot", "", "plot subtype: hist|box|vio|bar|pie|2d|3d")
	summaryCmd.Flags().StringVar(&sumAgg, "agg", "", "aggregation: min|mean|median|max|sum (default from config)")
	summaryCmd.Flags().StringVar(&sumOutliers, "outliers", "", "drop outliers before summarizing: <weak|strong>_<lower|upper|both> or none")
	summaryCmd.Flags().IntVar(&sumLumpN, "lump", 0, "categories kept before lumping the rest (default from config)")
	summaryCmd.Flags().StringVar(&sumOtherLabel, "other-label", "", "label for lumped categories (default from config)")
	summaryCmd.Flags().IntVar(&sumTopN, "top", 0, "categories shown when a bar chart is truncated (default from config)")
	summaryCmd.Flags().StringVar(&sumFormat, "format", "", "table format: table|markdown|csv|json (default from config)")
	summaryCmd.Flags().StringVar(&sumPNG, "png", "", "also draw the plot to this PNG file, or '-' for stdout (implies --output plot)")
	_ = summaryCmd.MarkFlagRequired("vars")
}
