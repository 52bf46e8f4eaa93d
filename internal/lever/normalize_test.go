package lever

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_CanonicalUnchanged(t *testing.T) {
	for _, v := range Vocabulary {
		assert.Equal(t, v, Normalize(v), v)
	}
}

func TestNormalize_CaseAndSpace(t *testing.T) {
	assert.Equal(t, "trade", Normalize("  Trade "))
	assert.Equal(t, "infrastructure", Normalize("INFRASTRUCTURE"))
}

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   "))
}

func TestNormalize_Japanese(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"インフラ投資", Infrastructure},
		{"港湾整備", Infrastructure},
		{"鉄道", Infrastructure},
		{"物流", Logistics},
		{"職業訓練", Education},
		{"規制改革", Regulation},
		{"ガバナンス", Governance},
		{"半導体補助金", Industry},
		{"減税", Industry},
		{"関税引き下げ", Trade},
		{"輸出振興", Trade},
		{"再エネ", Energy},
		{"金融緩和", Finance},
		{"防衛", Security},
		{"自動化", Automation},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestNormalize_English(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"port investment", Infrastructure},
		{"export promotion", Trade},
		{"import tariffs", Trade},
		{"supply chain", Logistics},
		{"human capital", Education},
		{"deregulation", Regulation},
		{"anti-corruption", Governance},
		{"tax cut", Industry},
		{"tax credit", Industry},
		{"semiconductor", Industry},
		{"bank lending", Finance},
		{"power grid", Infrastructure},
		{"renewable power", Energy},
		{"robotics", Automation},
		{"defense spending", Security},
		{"seaport expansion", Infrastructure},
		{"Ports and railways", Infrastructure},
		{"transport corridors", Infrastructure},
		{"education support", Education},
		{"financial support", Finance},
		{"industrial support", Industry},
		{"upskilling", Education},
		{"cybersecurity", Security},
		{"subsidies", Industry},
		{"women's economic empowerment", "women's economic empowerment"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestNormalize_NoMatchLowercased(t *testing.T) {
	assert.Equal(t, "tourism", Normalize("Tourism"))
	assert.Equal(t, "ai", Normalize("AI"))
}

func TestNormalize_KeywordInsideWord(t *testing.T) {
	tests := []struct {
		in       string
		notLever string
	}{
		{"support", Infrastructure},
		{"opportunity", Infrastructure},
		{"passport", Infrastructure},
		{"empowerment", Energy},
		{"syntax", Industry},
		{"embankment", Finance},
		{"trailhead", Infrastructure},
	}
	for _, tt := range tests {
		got := Normalize(tt.in)
		assert.NotEqual(t, tt.notLever, got, tt.in)
		assert.Equal(t, tt.in, got, tt.in)
	}
}

func TestNormalize_KeywordAfterPunctuation(t *testing.T) {
	assert.Equal(t, Infrastructure, Normalize("air/port links"))
	assert.Equal(t, Trade, Normalize("free-trade"))
	assert.Equal(t, "2port", Normalize("2port"))
}

func TestNormalize_Deterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.Equal(t, Trade, Normalize("FTA"))
	}
}

func TestNormalizeAll(t *testing.T) {
	got := NormalizeAll([]string{"Port", "", "rail", "trade", "  ", "Tourism"})
	assert.Equal(t, []string{"infrastructure", "trade", "tourism"}, got)
}

func TestNormalizeAll_Nil(t *testing.T) {
	assert.Empty(t, NormalizeAll(nil))
}

func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical("finance"))
	assert.False(t, IsCanonical("Finance"))
	assert.False(t, IsCanonical("tourism"))
}
