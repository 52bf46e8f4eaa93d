package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molisha70-dotcom/Economic/internal/model"
)

func TestLocal_Japanese(t *testing.T) {
	res, err := Local{}.Extract(context.Background(), "港湾と鉄道の整備に年1.5兆円、職業訓練の拡充、FTA締結で輸出促進")
	require.NoError(t, err)

	assert.Equal(t, LocalName, res.Provider)
	assert.Equal(t, DefaultHorizon, res.HorizonYears)

	var titles []string
	for _, p := range res.Policies {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"インフラ投資", "教育投資", "通商・貿易"}, titles)

	infra := res.Policies[0]
	assert.Equal(t, []string{"infrastructure"}, infra.Lever)
	require.NotNil(t, infra.LagYears)
	assert.Equal(t, 1, *infra.LagYears)
	require.NotNil(t, infra.Scale)
	assert.Equal(t, model.UnitLCU, infra.Scale.Unit)
	assert.InDelta(t, 1.5e12, infra.Scale.Value, 1)
}

func TestLocal_English(t *testing.T) {
	res := Local{}.extract("Cut tariffs and expand exports; subsidies for semiconductor plants")
	require.Len(t, res.Policies, 2)
	assert.Equal(t, "Industrial and tax policy", res.Policies[0].Title)
	assert.Equal(t, "Trade opening", res.Policies[1].Title)
	assert.Equal(t, []string{"external+"}, res.Policies[1].Direction)
	assert.Equal(t, 0, *res.Policies[1].LagYears)
}

func TestLocal_AlwaysReturnsSomething(t *testing.T) {
	for _, text := range []string{"", "   ", "何もない文章", "nothing relevant"} {
		res := Local{}.extract(text)
		require.Len(t, res.Policies, 1, text)
		assert.Equal(t, model.ConfidenceD, res.Policies[0].Confidence)
		assert.Equal(t, []string{"regulation"}, res.Policies[0].Lever)
	}
	assert.Equal(t, "一般的な成長施策", Local{}.extract("何もない文章").Policies[0].Title)
	assert.Equal(t, "General growth measures", Local{}.extract("nothing").Policies[0].Title)
}

func TestGuessScale(t *testing.T) {
	tests := []struct {
		in   string
		want *model.Scale
	}{
		{"年2兆円", &model.Scale{Value: 2e12, Unit: model.UnitLCU}},
		{"500億円", &model.Scale{Value: 5e10, Unit: model.UnitLCU}},
		{"30億ドル", &model.Scale{Value: 3e9, Unit: model.UnitUSD}},
		{"$2.5 billion for roads", &model.Scale{Value: 2.5e9, Unit: model.UnitUSD}},
		{"$400", &model.Scale{Value: 400, Unit: model.UnitUSD}},
		{"spending of 1.2% of GDP", &model.Scale{Value: 1.2, Unit: model.UnitPctGDP}},
		{"GDP比2％", &model.Scale{Value: 2, Unit: model.UnitPctGDP}},
		{"raise wages 3%", &model.Scale{Value: 3, Unit: model.UnitUnknown}},
		{"no numbers", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, guessScale(tt.in))
		})
	}
}
