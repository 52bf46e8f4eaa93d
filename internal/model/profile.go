package model

// Income tier keys.
const (
	TierHigh   = "high_income"
	TierMiddle = "middle_income"
	TierLow    = "low_income"
)

// FiscalMultiplier holds demand multipliers for capital and current spending.
type FiscalMultiplier struct {
	Capex   float64 `json:"capex" yaml:"capex"`
	Current float64 `json:"current" yaml:"current"`
}

// TierParams is the macro-parameter bundle bound to an income tier.
type TierParams struct {
	PotentialG       float64            `json:"potential_g" yaml:"potential_g"`
	CapitalShare     float64            `json:"capital_share" yaml:"capital_share"`
	InflationTarget  float64            `json:"inflation_target" yaml:"inflation_target"`
	FiscalMultiplier FiscalMultiplier   `json:"fiscal_multiplier" yaml:"fiscal_multiplier"`
	TradeElasticity  float64            `json:"trade_elasticity" yaml:"trade_elasticity"`
	TFPCoeff         map[string]float64 `json:"tfp_coeff" yaml:"tfp_coeff"`
	DefaultLags      map[string]int     `json:"default_lags" yaml:"default_lags"`
}

// CountryProfile is the resolved macro profile fed to the simulator.
// Nil macro fields mean the input is missing.
type CountryProfile struct {
	DisplayName     string     `json:"display_name"`
	ISO3            string     `json:"iso3,omitempty"`
	BaselineGDPUSD  float64    `json:"baseline_gdp_usd"`
	IncomeTier      string     `json:"income_tier"`
	InflationRecent *float64   `json:"inflation_recent"`
	OpennessRatio   *float64   `json:"openness_ratio"`
	InvestmentRate  *float64   `json:"investment_rate"`
	LaborGrowth     *float64   `json:"labor_growth"`
	DebtToGDP       *float64   `json:"debt_to_gdp"`
	GDPPerCapita    *float64   `json:"gdp_per_capita,omitempty"`
	FXLCUPerUSD     *float64   `json:"fx_lcu_per_usd,omitempty"`
	TierParams      TierParams `json:"tier_params"`
}
