package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/varsum/internal/dispatch"
	"github.com/KaramelBytes/varsum/internal/utils"
	"github.com/spf13/cobra"
)

var (
	optLoad    loadFlags
	optVars    string
	optPurpose string
	optJSON    bool
)

var optionsCmd = &cobra.Command{
	Use:   "options <file>",
	Short: "List the plot subtypes or aggregations available for a variable selection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		purpose, err := dispatch.ParsePurpose(optPurpose)
		if err != nil {
			return err
		}
		ds, _, err := optLoad.load(args[0])
		if err != nil {
			return err
		}
		ans, err := dispatch.ClassifyRequest(ds, splitList(optVars), purpose)
		if err != nil {
			return err
		}
		choices := make([]string, 0, len(ans.PlotKinds)+len(ans.Aggregations))
		for _, k := range ans.PlotKinds {
			choices = append(choices, k.String())
		}
		for _, k := range ans.Aggregations {
			choices = append(choices, k.String())
		}

		out := cmd.OutOrStdout()
		if optJSON {
			b, err := utils.PrettyJSON(struct {
				Purpose  string   `json:"purpose"`
				Strategy string   `json:"strategy"`
				Choices  []string `json:"choices"`
			}{ans.Purpose.String(), ans.Strategy.String(), choices})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(b))
			return err
		}
		fmt.Fprintf(out, "Strategy: %s\n", ans.Strategy)
		if len(choices) == 0 {
			fmt.Fprintf(out, "No %s choices for this selection\n", ans.Purpose)
			return nil
		}
		fmt.Fprintf(out, "%s: %s\n", ans.Purpose, strings.Join(choices, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
	addLoadFlags(optionsCmd, &optLoad)
	optionsCmd.Flags().StringVarP(&optVars, "vars", "v", "", "comma-separated variables (1 to 3)")
	optionsCmd.Flags().StringVar(&optPurpose, "purpose", "plot_kind", "plot_kind|aggregation")
	optionsCmd.Flags().BoolVar(&optJSON, "json", false, "print the answer as JSON")
	_ = optionsCmd.MarkFlagRequired("vars")
}
