package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/molisha70-dotcom/Economic/internal/model"
	"github.com/molisha70-dotcom/Economic/internal/simulate"
	"github.com/molisha70-dotcom/Economic/internal/tier"
)

var simulateTrace bool

// simulateInput is the simulate command's JSON input.
type simulateInput struct {
	Profile  model.CountryProfile    `json:"profile"`
	Policies []model.ConsensusPolicy `json:"policies"`
	Horizon  int                     `json:"horizon"`
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [input.json]",
	Short: "Simulate growth paths for a profile and consensus policies",
	Long:  `Reads {"profile": {...}, "policies": [...], "horizon": N} (file argument or stdin) and prints the scenario paths.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		var in simulateInput
		if err := json.Unmarshal(data, &in); err != nil {
			return eris.Wrap(err, "simulate: decode input")
		}
		if in.Horizon == 0 {
			in.Horizon = cfg.Forecast.DefaultHorizon
		}

		tiers, err := loadTiers(cfg)
		if err != nil {
			return err
		}
		fillTierParams(&in.Profile, tiers)

		paths := simulate.Run(in.Profile, in.Policies, in.Horizon)
		if !simulateTrace {
			paths.Trace = nil
		}
		return writeJSON(cmd.OutOrStdout(), paths)
	},
}

// fillTierParams resolves the profile's tier against tb when the input
// carries no parameter bundle of its own.
func fillTierParams(p *model.CountryProfile, tb tier.Table) {
	if p.TierParams.PotentialG != 0 || p.TierParams.TFPCoeff != nil {
		return
	}
	t, params := tb.Resolve(p.IncomeTier, p.GDPPerCapita, "")
	p.IncomeTier = t.String()
	p.TierParams = params
}

func init() {
	simulateCmd.Flags().BoolVar(&simulateTrace, "trace", false, "include the structured trace")
	rootCmd.AddCommand(simulateCmd)
}
