package extract

import "strings"

// schema is the JSON shape every LLM provider is asked to produce.
const schema = `{
  "horizon_years": "integer >= 1, default 5",
  "policies": [{
    "title": "string",
    "lever": ["infrastructure|logistics|education|regulation|governance|trade|industry|finance|energy|security|automation"],
    "scale": {"value": "number or null", "unit": "USD|LCU|%GDP|qty|unknown"},
    "direction": ["demand+|supply+|inflation+|inflation-|external+"],
    "lag_years": "integer >= 0 or null",
    "confidence": "S|A|B|C|D"
  }]
}`

const instructions = `You turn economic policy text into structured JSON.
Follow the schema exactly. Use null or "unknown" for anything the text does not state.
Emit one policy per distinct measure. Respond with JSON only, no prose.

Schema:
` + schema

// Instructions returns the system prompt shared by all LLM providers.
func Instructions() string { return instructions }

// Prompt returns the single-message prompt for providers without a
// separate system role.
func Prompt(text string) string {
	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\nPolicy text:\n")
	b.WriteString(strings.TrimSpace(text))
	b.WriteString("\n")
	return b.String()
}

// UserMessage wraps the policy text for providers that take the
// instructions as a system prompt.
func UserMessage(text string) string {
	return "Policy text:\n" + strings.TrimSpace(text)
}
