package extract

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/molisha70-dotcom/Economic/internal/lever"
	"github.com/molisha70-dotcom/Economic/internal/model"
)

// DefaultHorizon is used when an extraction omits horizon_years.
const DefaultHorizon = 5

// cleanJSON strips markdown fences and surrounding prose from an LLM reply.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

// Parse coerces a provider reply into an ExtractionResult. Missing fields
// take schema defaults (horizon 5, confidence B, unit unknown); policies
// without a title are skipped. Only a reply that is not a JSON object at all
// is an error.
func Parse(provider, text string) (model.ExtractionResult, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return model.ExtractionResult{}, eris.Wrapf(err, "extract: %s reply is not a JSON object", provider)
	}
	return Coerce(provider, raw), nil
}

// Coerce applies the schema defaults to a decoded object.
func Coerce(provider string, raw map[string]any) model.ExtractionResult {
	if provider == "" {
		provider, _ = raw["_model_name"].(string)
	}
	res := model.ExtractionResult{
		Provider:     provider,
		HorizonYears: DefaultHorizon,
		Policies:     []model.PolicyItem{},
	}
	if h, ok := toInt(raw["horizon_years"]); ok && h >= 1 {
		res.HorizonYears = h
	}

	items, _ := raw["policies"].([]any)
	for i, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			zap.L().Debug("extract: skipping non-object policy", zap.String("provider", provider), zap.Int("index", i))
			continue
		}
		p, ok := coercePolicy(obj)
		if !ok {
			zap.L().Debug("extract: skipping policy without title", zap.String("provider", provider), zap.Int("index", i))
			continue
		}
		res.Policies = append(res.Policies, p)
	}
	return res
}

func coercePolicy(obj map[string]any) (model.PolicyItem, bool) {
	title := strings.TrimSpace(toString(obj["title"]))
	if title == "" {
		return model.PolicyItem{}, false
	}
	p := model.PolicyItem{
		Title:      title,
		Lever:      lever.NormalizeAll(toStrings(obj["lever"])),
		Direction:  directions(toStrings(obj["direction"])),
		Confidence: model.ParseConfidence(toString(obj["confidence"])),
	}
	if lag, ok := toInt(obj["lag_years"]); ok && lag >= 0 {
		p.LagYears = model.IntPtr(lag)
	}
	if sc, ok := obj["scale"].(map[string]any); ok {
		if v, ok := toFloat64(sc["value"]); ok {
			p.Scale = &model.Scale{Value: v, Unit: model.ParseUnit(toString(sc["unit"]))}
		}
	}
	return p, true
}

var directionSet = func() map[string]bool {
	m := make(map[string]bool, len(model.Directions))
	for _, d := range model.Directions {
		m[d] = true
	}
	return m
}()

// directions keeps vocabulary tags only, deduplicated.
func directions(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, d := range in {
		d = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(d), " ", ""))
		if directionSet[d] && !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

// toStrings accepts a list or a single string.
func toStrings(v any) []string {
	switch s := v.(type) {
	case string:
		return []string{s}
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

func toFloat64(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(n), ",", ""), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toInt(v any) (int, bool) {
	f, ok := toFloat64(v)
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}
