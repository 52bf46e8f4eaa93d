package model

// ScenarioPaths holds the simulated annual growth trajectories (percent).
type ScenarioPaths struct {
	Base    []float64 `json:"base"`
	Low     []float64 `json:"low"`
	High    []float64 `json:"high"`
	CPI     []float64 `json:"cpi,omitempty"`
	Explain string    `json:"explain"`
	Trace   *Trace    `json:"trace,omitempty"`
}

// Trace is the structured audit of one simulation run.
type Trace struct {
	Tier        string        `json:"tier"`
	Params      TierParams    `json:"params"`
	Horizon     int           `json:"horizon"`
	Adjustments []AdjustTerm  `json:"adjustments"`
	Policies    []PolicyTrace `json:"policies"`
	Band        float64       `json:"band"`
}

// AdjustTerm is one macro adjustment applied to potential growth.
type AdjustTerm struct {
	Name  string   `json:"name"`
	Input *float64 `json:"input"`
	Value float64  `json:"value"`
}

// PolicyTrace records how one consensus policy entered the simulation.
type PolicyTrace struct {
	Title         string   `json:"title"`
	Lever         []string `json:"lever"`
	Lag           int      `json:"lag"`
	LagSource     string   `json:"lag_source"`
	Intensity     float64  `json:"intensity"`
	PotentialPP   float64  `json:"potential_pp"`
	DemandImpulse float64  `json:"demand_impulse"`
}
