package digest

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"daily-brief/internal/domain/entity"
)

// Rule is one named, pure scoring function. A ranker sums its rules.
type Rule struct {
	Name  string
	Score func(entity.Item) float64
}

// Tokens holds the lowercase allowlists used by the default rules.
type Tokens struct {
	Vendor       []string
	Press        []string
	TitleSignals []string
}

// DefaultTokens returns the built-in allowlists.
func DefaultTokens() Tokens {
	return Tokens{
		Vendor:       []string{"sap", "oracle", "microsoft", "boomi", "mulesoft", "workato", "partnerlinq"},
		Press:        []string{"infoworld", "register", "gartner", "idc"},
		TitleSignals: []string{"ga", "generally available", "roadmap", "security", "cve", "patch", "partnership", "acquires", "announces"},
	}
}

// Merge returns t with every non-empty list of o substituted in.
func (t Tokens) Merge(o Tokens) Tokens {
	if len(o.Vendor) > 0 {
		t.Vendor = o.Vendor
	}
	if len(o.Press) > 0 {
		t.Press = o.Press
	}
	if len(o.TitleSignals) > 0 {
		t.TitleSignals = o.TitleSignals
	}
	return t
}

const (
	vendorBonus      = 3.0
	pressBonus       = 2.0
	titleSignalBonus = 1.0
	recencyMax       = 2.0
	recencyDecayHrs  = 12.0
)

// VendorRule adds a bonus when the source names a tracked vendor.
func VendorRule(tokens []string) Rule {
	return Rule{Name: "vendor", Score: containsRule(tokens, vendorBonus, sourceText)}
}

// PressRule adds a bonus when the source is a tracked trade publication.
// It is independent of VendorRule; a source can earn both.
func PressRule(tokens []string) Rule {
	return Rule{Name: "press", Score: containsRule(tokens, pressBonus, sourceText)}
}

// TitleSignalRule adds a bonus when the title carries an announcement keyword.
func TitleSignalRule(tokens []string) Rule {
	return Rule{Name: "title_signal", Score: containsRule(tokens, titleSignalBonus, titleText)}
}

// RecencyRule decays linearly from 2 at publication to 0 after 24 hours.
// Items without a timestamp score 0.
func RecencyRule(now time.Time) Rule {
	return Rule{Name: "recency", Score: func(it entity.Item) float64 {
		if !it.HasPublished() {
			return 0
		}
		hours := now.Sub(it.Published).Hours()
		return math.Max(0, recencyMax-hours/recencyDecayHrs)
	}}
}

// DefaultRules returns the standard rule set in evaluation order.
func DefaultRules(now time.Time, t Tokens) []Rule {
	return []Rule{
		VendorRule(t.Vendor),
		PressRule(t.Press),
		RecencyRule(now),
		TitleSignalRule(t.TitleSignals),
	}
}

func sourceText(it entity.Item) string { return strings.ToLower(it.Source) }
func titleText(it entity.Item) string  { return strings.ToLower(it.Title) }

func containsRule(tokens []string, bonus float64, field func(entity.Item) string) func(entity.Item) float64 {
	lowered := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			lowered = append(lowered, t)
		}
	}
	return func(it entity.Item) float64 {
		text := field(it)
		for _, t := range lowered {
			if strings.Contains(text, t) {
				return bonus
			}
		}
		return 0
	}
}

// RuleScore is one rule's contribution to an item's score.
type RuleScore struct {
	Rule  string
	Score float64
}

// Ranker orders items by the sum of its rules.
type Ranker struct {
	rules []Rule
}

// NewRanker creates a ranker over the given rules.
func NewRanker(rules ...Rule) *Ranker {
	return &Ranker{rules: rules}
}

// Score returns the composite score of it.
func (r *Ranker) Score(it entity.Item) float64 {
	var total float64
	for _, rule := range r.rules {
		total += rule.Score(it)
	}
	return total
}

// Breakdown returns every rule's contribution, in rule order.
func (r *Ranker) Breakdown(it entity.Item) []RuleScore {
	out := make([]RuleScore, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, RuleScore{Rule: rule.Name, Score: rule.Score(it)})
	}
	return out
}

// Rank returns a new slice ordered by descending score. Ties keep input order.
func (r *Ranker) Rank(items []entity.Item) []entity.Item {
	type scored struct {
		item  entity.Item
		score float64
	}
	buf := make([]scored, len(items))
	for i, it := range items {
		buf[i] = scored{item: it, score: r.Score(it)}
	}
	slices.SortStableFunc(buf, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})
	out := make([]entity.Item, len(buf))
	for i, s := range buf {
		out[i] = s.item
	}
	return out
}
