// Package lever maps free-form policy lever tokens onto the canonical
// eleven-category vocabulary used by the ensemble and the simulator.
package lever

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical lever names.
const (
	Infrastructure = "infrastructure"
	Logistics      = "logistics"
	Education      = "education"
	Regulation     = "regulation"
	Governance     = "governance"
	Trade          = "trade"
	Industry       = "industry"
	Finance        = "finance"
	Energy         = "energy"
	Security       = "security"
	Automation     = "automation"
)

// Vocabulary lists every canonical lever.
var Vocabulary = []string{
	Infrastructure, Logistics, Education, Regulation, Governance,
	Trade, Industry, Finance, Energy, Security, Automation,
}

var canonical = func() map[string]bool {
	m := make(map[string]bool, len(Vocabulary))
	for _, v := range Vocabulary {
		m[v] = true
	}
	return m
}()

// rule binds a canonical lever to the substrings that select it.
type rule struct {
	lever    string
	keywords []string
}

// rules is evaluated top to bottom; the first rule with a matching keyword
// wins. Japanese keywords match anywhere in the token. ASCII keywords match
// only at the start of a word, so "port" does not fire on "support" and
// "power" does not fire on "empowerment". Order matters: trade precedes
// infrastructure for "export", trade precedes industry so that 関税 is not
// caught by 税, and the fiscal phrases precede finance so that "tax credit"
// stays with industry.
var rules = []rule{
	{Automation, []string{"自動化", "ロボット", "デジタル", "automation", "robot", "digital", "dx"}},
	{Logistics, []string{"物流", "ロジ", "logistics", "freight", "shipping", "supply chain"}},
	{Trade, []string{"貿易", "輸出", "輸入", "fta", "通商", "関税", "trade", "export", "import", "tariff"}},
	{Infrastructure, []string{"インフラ", "道路", "港", "鉄道", "送電", "電力網", "空港", "infrastructure", "infra", "port", "seaport", "rail", "road", "bridge", "airport", "grid", "transport"}},
	{Energy, []string{"エネルギー", "再エネ", "発電", "原発", "energy", "power", "renewable", "solar", "nuclear"}},
	{Education, []string{"教育", "人材", "訓練", "リスキリング", "education", "human capital", "reskilling", "upskill", "training", "retrain", "skill", "school"}},
	{Governance, []string{"ガバナンス", "行政", "汚職", "governance", "corruption", "transparency", "public administration"}},
	{Regulation, []string{"規制", "手続", "ビジネス環境", "regulation", "deregulation", "business", "permit", "licens"}},
	{Industry, []string{"税額控除", "tax credit", "tax incentive", "tax break"}},
	{Finance, []string{"金融", "銀行", "融資", "finance", "financial", "microfinance", "bank", "credit", "capital market"}},
	{Security, []string{"安全保障", "防衛", "治安", "security", "cyber", "defense", "defence"}},
	{Industry, []string{"半導体", "製造", "産業", "税", "減税", "補助", "industry", "industrial", "semiconductor", "manufacturing", "tax", "subsid"}},
}

// Normalize returns the canonical lever for token, or the lowercased,
// trimmed token when no rule matches. Canonical tokens map to themselves.
func Normalize(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" || canonical[t] {
		return t
	}
	for _, r := range rules {
		for _, kw := range r.keywords {
			if matches(t, kw) {
				return r.lever
			}
		}
	}
	return t
}

// matches reports whether kw occurs in t. An ASCII keyword must start a
// word: the rune before it, if any, is not a letter or digit.
func matches(t, kw string) bool {
	if !isASCII(kw) {
		return strings.Contains(t, kw)
	}
	for from := 0; from < len(t); {
		i := strings.Index(t[from:], kw)
		if i < 0 {
			return false
		}
		i += from
		if i == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(t[:i])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		from = i + 1
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// NormalizeAll normalizes each token, dropping empties and duplicates while
// keeping first-seen order.
func NormalizeAll(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		n := Normalize(tok)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// IsCanonical reports whether token is one of the eleven canonical levers.
func IsCanonical(token string) bool {
	return canonical[token]
}
