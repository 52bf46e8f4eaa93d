package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/molisha70-dotcom/Economic/internal/tier"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Print the income-tier parameter table",
	RunE: func(cmd *cobra.Command, args []string) error {
		tb, err := loadTiers(cfg)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIER\tPOTENTIAL_G\tCAPITAL_SHARE\tINFL_TARGET\tCAPEX_MULT\tCURRENT_MULT\tTRADE_ELAST\tTFP_COEFF\tDEFAULT_LAGS")
		for _, t := range tier.All {
			p := tb.Params(t)
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.1f\t%.2f\t%.2f\t%.2f\t%s\t%s\n",
				t, p.PotentialG, p.CapitalShare, p.InflationTarget,
				p.FiscalMultiplier.Capex, p.FiscalMultiplier.Current, p.TradeElasticity,
				formatMap(p.TFPCoeff), formatMap(p.DefaultLags))
		}
		return w.Flush()
	},
}

func formatMap[V int | float64](m map[string]V) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, m[k])
	}
	return strings.Join(parts, ",")
}

func init() {
	rootCmd.AddCommand(tiersCmd)
}
