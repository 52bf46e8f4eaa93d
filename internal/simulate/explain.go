package simulate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/molisha70-dotcom/Economic/internal/model"
)

// Explain renders a trace as the line-oriented rationale attached to a
// forecast.
func Explain(tr *model.Trace) string {
	if tr == nil {
		return ""
	}
	p := tr.Params
	var b strings.Builder

	fmt.Fprintf(&b, "[Tier] %s potential_g=%.2f capital_share=%.2f inflation_target=%.2f capex_mult=%.2f current_mult=%.2f trade_elasticity=%.2f\n",
		tr.Tier, p.PotentialG, p.CapitalShare, p.InflationTarget,
		p.FiscalMultiplier.Capex, p.FiscalMultiplier.Current, p.TradeElasticity)
	fmt.Fprintf(&b, "[TFP] %s\n", formatCoeffs(p.TFPCoeff))

	for _, a := range tr.Adjustments {
		in := "missing"
		if a.Input != nil {
			in = fmt.Sprintf("%.3f", *a.Input)
		}
		fmt.Fprintf(&b, "[Adjust] %s input=%s value=%+.3f\n", a.Name, in, a.Value)
	}

	for _, pt := range tr.Policies {
		fmt.Fprintf(&b, "[Policy] %s lever=[%s] lag=%d (%s) intensity=%.2f tfp_pp=%.3f demand_imp=%.3f\n",
			pt.Title, strings.Join(pt.Lever, ","), pt.Lag, pt.LagSource,
			pt.Intensity, pt.PotentialPP, pt.DemandImpulse)
	}

	fmt.Fprintf(&b, "[Band] ±%.1f horizon=%d", tr.Band, tr.Horizon)
	return b.String()
}

func formatCoeffs(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%.2f", k, m[k]))
	}
	return strings.Join(parts, " ")
}
