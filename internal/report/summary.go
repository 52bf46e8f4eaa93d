// Package report renders forecast results as a chat-style text summary and
// as an XLSX workbook.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/molisha70-dotcom/Economic/internal/forecast"
	"github.com/molisha70-dotcom/Economic/internal/model"
)

// MaxListedPolicies is how many policies the summary lists before
// collapsing the rest into "...and N more".
const MaxListedPolicies = 8

// Summary renders the headline message for a forecast result.
func Summary(res *forecast.Result) string {
	if res == nil {
		return ""
	}
	prof := res.Profile
	name := prof.DisplayName
	if name == "" {
		name = "Unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**【予測結果】%s / %d年**\n", name, res.Horizon)
	fmt.Fprintf(&b, "潜在成長の基準: %.1f%%（ティア: %s）\n", prof.TierParams.PotentialG, prof.IncomeTier)
	fmt.Fprintf(&b, "直近インフレ: %s%% ／ 投資率: %s ／ 開放度: %s\n",
		orQuestion(prof.InflationRecent), orQuestion(prof.InvestmentRate), orQuestion(prof.OpennessRatio))
	b.WriteString("\n")

	for _, s := range []struct {
		name string
		path []float64
	}{
		{"BASE", res.Scenarios.Base},
		{"LOW", res.Scenarios.Low},
		{"HIGH", res.Scenarios.High},
	} {
		fmt.Fprintf(&b, "・%s：%s\n", s.name, formatPath(s.path))
	}
	b.WriteString("\n")

	b.WriteString("— 抽出された政策（要約） —\n")
	policies := res.Policies.Policies
	for i, p := range policies {
		if i == MaxListedPolicies {
			break
		}
		b.WriteString(policyLine(p))
		b.WriteString("\n")
	}
	if n := len(policies) - MaxListedPolicies; n > 0 {
		fmt.Fprintf(&b, "...and %d more\n", n)
	}
	return strings.TrimRight(b.String(), "\n")
}

func policyLine(p model.ConsensusPolicy) string {
	title := p.Title
	if title == "" {
		title = "(no title)"
	}
	lag := "None"
	if p.LagYears != nil {
		lag = strconv.Itoa(*p.LagYears)
	}
	line := fmt.Sprintf("・%s｜%s｜lag=%s", title, strings.Join(p.Lever, "/"), lag)
	if p.Scale != nil {
		line += fmt.Sprintf(" （規模: %s %s）", strconv.FormatFloat(p.Scale.Value, 'g', -1, 64), p.Scale.Unit)
	}
	return line
}

func formatPath(path []float64) string {
	parts := make([]string, len(path))
	for i, v := range path {
		parts[i] = fmt.Sprintf("%.1f%%", v)
	}
	return strings.Join(parts, ", ")
}

func orQuestion(v *float64) string {
	if v == nil {
		return "?"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// TruncateExplain cuts explain text to at most limit runes, for chat
// surfaces with message size limits. A non-positive limit returns s as is.
func TruncateExplain(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
