package tier

import (
	"maps"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/molisha70-dotcom/Economic/internal/model"
)

// Table maps each tier to its parameter bundle.
type Table map[Tier]model.TierParams

var defaultLags = map[string]int{"infra": 2, "ports": 2, "education": 3, "regulation": 1}

var defaultTable = Table{
	High: {
		PotentialG:       2.0,
		CapitalShare:     0.35,
		InflationTarget:  2.0,
		FiscalMultiplier: model.FiscalMultiplier{Capex: 0.8, Current: 0.4},
		TradeElasticity:  0.2,
		TFPCoeff: map[string]float64{
			"logistics": 0.15, "automation": 0.25, "education": 0.15, "regulation": 0.25,
			"governance": 0.2, "energy": 0.1, "infrastructure": 0.1, "trade": 0.15,
			"industry": 0.15, "finance": 0.1, "security": 0.1,
		},
		DefaultLags: defaultLags,
	},
	Middle: {
		PotentialG:       4.0,
		CapitalShare:     0.35,
		InflationTarget:  4.0,
		FiscalMultiplier: model.FiscalMultiplier{Capex: 1.0, Current: 0.5},
		TradeElasticity:  0.3,
		TFPCoeff: map[string]float64{
			"logistics": 0.2, "automation": 0.3, "education": 0.2, "regulation": 0.3,
			"governance": 0.2, "energy": 0.15, "infrastructure": 0.15, "trade": 0.2,
			"industry": 0.2, "finance": 0.1, "security": 0.1,
		},
		DefaultLags: defaultLags,
	},
	Low: {
		PotentialG:       5.5,
		CapitalShare:     0.35,
		InflationTarget:  5.0,
		FiscalMultiplier: model.FiscalMultiplier{Capex: 1.2, Current: 0.6},
		TradeElasticity:  0.35,
		TFPCoeff: map[string]float64{
			"logistics": 0.25, "automation": 0.2, "education": 0.25, "regulation": 0.25,
			"governance": 0.2, "energy": 0.2, "infrastructure": 0.2, "trade": 0.25,
			"industry": 0.25, "finance": 0.1, "security": 0.1,
		},
		DefaultLags: defaultLags,
	},
}

// Defaults returns a copy of the built-in tier table.
func Defaults() Table {
	out := make(Table, len(defaultTable))
	for t, p := range defaultTable {
		out[t] = cloneParams(p)
	}
	return out
}

// Params returns a copy of the bundle for t. Unknown tiers get Middle.
func (tb Table) Params(t Tier) model.TierParams {
	p, ok := tb[t]
	if !ok {
		p = tb[Middle]
	}
	return cloneParams(p)
}

func cloneParams(p model.TierParams) model.TierParams {
	p.TFPCoeff = maps.Clone(p.TFPCoeff)
	p.DefaultLags = maps.Clone(p.DefaultLags)
	return p
}

// LoadFile reads a YAML tier file and overlays it on the built-in table.
// Top-level keys are tier labels; a tier absent from the file keeps its
// built-in bundle, and missing map entries inherit the built-in values.
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tier: read file %s", path)
	}

	var raw map[string]model.TierParams
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "tier: parse file")
	}

	tb := Defaults()
	for label, p := range raw {
		t, ok := ParseLabel(label)
		if !ok {
			return nil, eris.Errorf("tier: empty tier label in %s", path)
		}
		base := tb[t]
		if p.PotentialG == 0 {
			p.PotentialG = base.PotentialG
		}
		if p.CapitalShare == 0 {
			p.CapitalShare = base.CapitalShare
		}
		if p.InflationTarget == 0 {
			p.InflationTarget = base.InflationTarget
		}
		if p.FiscalMultiplier == (model.FiscalMultiplier{}) {
			p.FiscalMultiplier = base.FiscalMultiplier
		}
		if p.TradeElasticity == 0 {
			p.TradeElasticity = base.TradeElasticity
		}
		p.TFPCoeff = overlay(base.TFPCoeff, p.TFPCoeff)
		p.DefaultLags = overlay(base.DefaultLags, p.DefaultLags)
		tb[t] = p
	}
	return tb, nil
}

func overlay[V any](base, top map[string]V) map[string]V {
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]V, len(top))
	}
	maps.Copy(out, top)
	return out
}
