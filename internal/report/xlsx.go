package report

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/molisha70-dotcom/Economic/internal/forecast"
)

// Sheet names written by Workbook.
const (
	SheetScenarios = "Scenarios"
	SheetPolicies  = "Policies"
	SheetProfile   = "Profile"
)

// Workbook builds a workbook with one sheet each for the scenario paths,
// the consensus policies and the profile used.
func Workbook(res *forecast.Result) (*xlsx.File, error) {
	if res == nil {
		return nil, eris.New("report: nil result")
	}
	f := xlsx.NewFile()

	scen, err := f.AddSheet(SheetScenarios)
	if err != nil {
		return nil, eris.Wrap(err, "report: add scenarios sheet")
	}
	addStrings(scen, "year", "base", "low", "high", "cpi")
	for i := 0; i < res.Horizon; i++ {
		row := scen.AddRow()
		row.AddCell().SetInt(i + 1)
		for _, path := range [][]float64{res.Scenarios.Base, res.Scenarios.Low, res.Scenarios.High, res.Scenarios.CPI} {
			cell := row.AddCell()
			if i < len(path) {
				cell.SetFloat(path[i])
			}
		}
	}

	pol, err := f.AddSheet(SheetPolicies)
	if err != nil {
		return nil, eris.Wrap(err, "report: add policies sheet")
	}
	addStrings(pol, "title", "lever", "direction", "lag_years", "scale_value", "scale_unit", "confidence", "score", "providers")
	for _, p := range res.Policies.Policies {
		row := pol.AddRow()
		row.AddCell().SetString(p.Title)
		row.AddCell().SetString(strings.Join(p.Lever, "/"))
		row.AddCell().SetString(strings.Join(p.Direction, "/"))
		lag := row.AddCell()
		if p.LagYears != nil {
			lag.SetInt(*p.LagYears)
		}
		val, unit := row.AddCell(), row.AddCell()
		if p.Scale != nil {
			val.SetFloat(p.Scale.Value)
			unit.SetString(string(p.Scale.Unit))
		}
		row.AddCell().SetString(string(p.Confidence))
		row.AddCell().SetFloat(p.Score)
		row.AddCell().SetString(strings.Join(p.Providers, ","))
	}

	prof, err := f.AddSheet(SheetProfile)
	if err != nil {
		return nil, eris.Wrap(err, "report: add profile sheet")
	}
	pr := res.Profile
	addStrings(prof, "field", "value")
	addStrings(prof, "display_name", pr.DisplayName)
	addStrings(prof, "iso3", pr.ISO3)
	addStrings(prof, "income_tier", pr.IncomeTier)
	addFloat(prof, "baseline_gdp_usd", &pr.BaselineGDPUSD)
	addFloat(prof, "potential_g", &pr.TierParams.PotentialG)
	addFloat(prof, "inflation_recent", pr.InflationRecent)
	addFloat(prof, "openness_ratio", pr.OpennessRatio)
	addFloat(prof, "investment_rate", pr.InvestmentRate)
	addFloat(prof, "labor_growth", pr.LaborGrowth)
	addFloat(prof, "debt_to_gdp", pr.DebtToGDP)
	addFloat(prof, "gdp_per_capita", pr.GDPPerCapita)
	addFloat(prof, "fx_lcu_per_usd", pr.FXLCUPerUSD)

	return f, nil
}

// WriteXLSX writes the workbook for res to w.
func WriteXLSX(w io.Writer, res *forecast.Result) error {
	f, err := Workbook(res)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "report: write xlsx")
	}
	return nil
}

// SaveXLSX writes the workbook for res to path.
func SaveXLSX(path string, res *forecast.Result) error {
	f, err := Workbook(res)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save xlsx %s", path)
	}
	return nil
}

func addStrings(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// addFloat writes a field/value row; a nil value leaves the cell empty.
func addFloat(sheet *xlsx.Sheet, field string, v *float64) {
	row := sheet.AddRow()
	row.AddCell().SetString(field)
	cell := row.AddCell()
	if v != nil {
		cell.SetFloat(*v)
	}
}
