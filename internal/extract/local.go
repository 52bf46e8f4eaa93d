package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/molisha70-dotcom/Economic/internal/lever"
	"github.com/molisha70-dotcom/Economic/internal/model"
)

// LocalName identifies the keyword extractor.
const LocalName = "local_rules_v1"

type topic struct {
	titleJA   string
	titleEN   string
	lever     string
	direction []string
	keywords  []string
}

var topics = []topic{
	{"インフラ投資", "Infrastructure investment", lever.Infrastructure, []string{"demand+", "supply+"},
		[]string{"インフラ", "港", "空港", "道路", "鉄道", "送電", "電力網", "グリッド", "物流", "ロジ",
			"infrastructure", "seaport", "harbo", "airport", "roads", "highway", "railway", "railroad", "grid", "logistics"}},
	{"教育投資", "Education and skills", lever.Education, []string{"supply+"},
		[]string{"教育", "学校", "人材", "職業訓練", "リスキリング", "education", "school", "training", "reskilling", "skills"}},
	{"規制改革", "Regulatory reform", lever.Regulation, []string{"supply+"},
		[]string{"規制緩和", "規制改革", "ガバナンス", "手続", "ビジネス環境", "起業",
			"deregulation", "regulatory", "red tape", "governance", "business environment", "startup"}},
	{"産業・税制", "Industrial and tax policy", lever.Industry, []string{"supply+", "demand+"},
		[]string{"半導体", "産業政策", "製造業", "減税", "税額控除", "補助金",
			"semiconductor", "industrial policy", "manufacturing", "tax cut", "tax credit", "subsid"}},
	{"通商・貿易", "Trade opening", lever.Trade, []string{"external+"},
		[]string{"貿易", "通商", "fta", "輸出", "輸入", "trade", "export", "import", "tariff"}},
	{"エネルギー転換", "Energy transition", lever.Energy, []string{"supply+"},
		[]string{"再エネ", "エネルギー", "発電", "renewable", "energy", "solar", "power plant"}},
	{"自動化・デジタル化", "Automation and digitalisation", lever.Automation, []string{"supply+"},
		[]string{"自動化", "ロボット", "デジタル", "automation", "robot", "digital"}},
}

var lagKeywords = []string{"整備", "建設", "infra", "infrastructure", "港", "鉄道", "送電", "電力", "construction", "build"}

// Local extracts policies by keyword matching. It needs no API key and
// always returns at least one policy; unmatched text yields one weak
// generic policy.
type Local struct{}

// Name implements Provider.
func (Local) Name() string { return LocalName }

// Extract implements Provider.
func (l Local) Extract(_ context.Context, text string) (model.ExtractionResult, error) {
	return l.extract(text), nil
}

func (Local) extract(text string) model.ExtractionResult {
	t := strings.TrimSpace(text)
	lower := strings.ToLower(t)
	ja := hasJapanese(t)
	scale := guessScale(t)
	lag := 0
	if containsAny(lower, lagKeywords) {
		lag = 1
	}

	var items []model.PolicyItem
	for _, tp := range topics {
		if !containsAny(lower, tp.keywords) {
			continue
		}
		items = append(items, model.PolicyItem{
			Title:      pick(ja, tp.titleJA, tp.titleEN),
			Lever:      []string{tp.lever},
			Direction:  tp.direction,
			Scale:      scale,
			LagYears:   model.IntPtr(lag),
			Confidence: model.ConfidenceB,
		})
	}
	if len(items) == 0 {
		items = append(items, model.PolicyItem{
			Title:      pick(ja, "一般的な成長施策", "General growth measures"),
			Lever:      []string{lever.Regulation},
			Direction:  []string{"supply+"},
			Scale:      scale,
			LagYears:   model.IntPtr(lag),
			Confidence: model.ConfidenceD,
		})
	}
	return model.ExtractionResult{Provider: LocalName, HorizonYears: DefaultHorizon, Policies: items}
}

var (
	reTrillion = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*兆`)
	reOku      = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*億`)
	reDollar   = regexp.MustCompile(`(?i)\$\s*([0-9]+(?:\.[0-9]+)?)\s*(trillion|billion|bn|million|m)?\b`)
	rePercent  = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*(?:%|％)`)
)

var dollarMultipliers = map[string]float64{
	"":         1,
	"trillion": 1e12,
	"billion":  1e9,
	"bn":       1e9,
	"million":  1e6,
	"m":        1e6,
}

// guessScale reads a rough magnitude from the text: yen amounts (兆, 億)
// as LCU, dollar amounts as USD, and percentages as %GDP when the text
// mentions GDP. Nil when nothing is found.
func guessScale(text string) *model.Scale {
	if m := reTrillion.FindStringSubmatch(text); m != nil {
		return amountScale(text, m[1], 1e12)
	}
	if m := reOku.FindStringSubmatch(text); m != nil {
		return amountScale(text, m[1], 1e8)
	}
	if m := reDollar.FindStringSubmatch(text); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return &model.Scale{Value: v * dollarMultipliers[strings.ToLower(m[2])], Unit: model.UnitUSD}
	}
	if m := rePercent.FindStringSubmatch(text); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		unit := model.UnitUnknown
		if strings.Contains(strings.ToLower(text), "gdp") {
			unit = model.UnitPctGDP
		}
		return &model.Scale{Value: v, Unit: unit}
	}
	return nil
}

// amountScale treats a 兆/億 amount as local currency unless it is quoted
// in dollars (ドル).
func amountScale(text, num string, mult float64) *model.Scale {
	v, _ := strconv.ParseFloat(num, 64)
	unit := model.UnitLCU
	if strings.Contains(text, "ドル") {
		unit = model.UnitUSD
	}
	return &model.Scale{Value: v * mult, Unit: unit}
}

func containsAny(s string, kws []string) bool {
	for _, k := range kws {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func hasJapanese(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}

func pick(ja bool, jaText, enText string) string {
	if ja {
		return jaText
	}
	return enText
}
