package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/molisha70-dotcom/Economic/internal/forecast"
	"github.com/molisha70-dotcom/Economic/internal/model"
)

func sampleResult(policyCount int) *forecast.Result {
	policies := []model.ConsensusPolicy{{
		Title:      "Port and rail investment",
		Lever:      []string{"infrastructure", "logistics"},
		Direction:  []string{"supply+"},
		LagYears:   model.IntPtr(1),
		Scale:      &model.Scale{Value: 2, Unit: model.UnitPctGDP},
		Confidence: model.ConfidenceA,
		Score:      0.675,
		Providers:  []string{"openai", "claude"},
	}}
	for i := 1; i < policyCount; i++ {
		policies = append(policies, model.ConsensusPolicy{Title: "Extra", Lever: []string{"regulation"}, Confidence: model.ConfidenceB})
	}
	return &forecast.Result{
		Horizon: 3,
		Scenarios: model.ScenarioPaths{
			Base: []float64{2.04, 2.1, 2.2},
			Low:  []float64{1.5, 1.6, 1.7},
			High: []float64{2.5, 2.6, 2.7},
			CPI:  []float64{3.0, 2.6, 2.4},
		},
		Profile: model.CountryProfile{
			DisplayName:     "Viet Nam",
			ISO3:            "VNM",
			BaselineGDPUSD:  4.3e11,
			IncomeTier:      model.TierMiddle,
			InflationRecent: model.Float64Ptr(3.2),
			InvestmentRate:  model.Float64Ptr(0.33),
			TierParams:      model.TierParams{PotentialG: 4.5},
		},
		Policies: model.ConsensusSet{HorizonYears: 5, Policies: policies},
	}
}

func TestSummary(t *testing.T) {
	got := Summary(sampleResult(1))
	lines := strings.Split(got, "\n")

	assert.Equal(t, "**【予測結果】Viet Nam / 3年**", lines[0])
	assert.Equal(t, "潜在成長の基準: 4.5%（ティア: middle_income）", lines[1])
	assert.Equal(t, "直近インフレ: 3.2% ／ 投資率: 0.33 ／ 開放度: ?", lines[2])
	assert.Contains(t, got, "・BASE：2.0%, 2.1%, 2.2%")
	assert.Contains(t, got, "・LOW：1.5%, 1.6%, 1.7%")
	assert.Contains(t, got, "・HIGH：2.5%, 2.6%, 2.7%")
	assert.Contains(t, got, "・Port and rail investment｜infrastructure/logistics｜lag=1 （規模: 2 %GDP）")
	assert.NotContains(t, got, "more")
}

func TestSummary_CollapsesLongPolicyList(t *testing.T) {
	got := Summary(sampleResult(11))
	assert.Equal(t, MaxListedPolicies, strings.Count(got, "\n・")-3)
	assert.True(t, strings.HasSuffix(got, "...and 3 more"))
	assert.Contains(t, got, "・Extra｜regulation｜lag=None")
}

func TestSummary_Unknown(t *testing.T) {
	assert.Empty(t, Summary(nil))
	assert.Contains(t, Summary(&forecast.Result{Horizon: 5}), "【予測結果】Unknown / 5年")
}

func TestTruncateExplain(t *testing.T) {
	assert.Equal(t, "abc", TruncateExplain("abc", 0))
	assert.Equal(t, "abc", TruncateExplain("abc", 5))
	assert.Equal(t, "日本", TruncateExplain("日本経済", 2))
}

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecast.xlsx")
	require.NoError(t, SaveXLSX(path, sampleResult(2)))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 3)

	scen := f.Sheet[SheetScenarios]
	require.NotNil(t, scen)
	require.Len(t, scen.Rows, 4)
	assert.Equal(t, "year", scen.Rows[0].Cells[0].String())
	year, err := scen.Rows[3].Cells[0].Int()
	require.NoError(t, err)
	assert.Equal(t, 3, year)
	high, err := scen.Rows[1].Cells[3].Float()
	require.NoError(t, err)
	assert.InDelta(t, 2.5, high, 1e-9)

	pol := f.Sheet[SheetPolicies]
	require.Len(t, pol.Rows, 3)
	assert.Equal(t, "Port and rail investment", pol.Rows[1].Cells[0].String())
	assert.Equal(t, "%GDP", pol.Rows[1].Cells[5].String())
	assert.Equal(t, "openai,claude", pol.Rows[1].Cells[8].String())

	prof := f.Sheet[SheetProfile]
	assert.Equal(t, "VNM", prof.Rows[2].Cells[1].String())
	assert.Equal(t, "middle_income", prof.Rows[3].Cells[1].String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleResult(1)))
	assert.NotZero(t, buf.Len())

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	assert.NotNil(t, f.Sheet[SheetProfile])

	assert.Error(t, WriteXLSX(&buf, nil))
}
