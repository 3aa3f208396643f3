package reconcile

// Confidence is an adapter's assessment of one extracted field. Stored
// values carry ConfidenceDefault; only a strictly higher candidate
// confidence may replace a populated stored value under RuleFillIfEmpty.
type Confidence int

const (
	// ConfidenceDefault is the baseline for extracted and stored values.
	ConfidenceDefault Confidence = iota
	// ConfidenceHigh marks a field the adapter extracted from an
	// authoritative location (e.g. structured data rather than heuristics).
	ConfidenceHigh
)

// Rule selects the merge behavior for one event field.
type Rule int

const (
	// RuleFillIfEmpty takes the candidate value only when the stored value
	// is empty, unless the candidate asserts higher confidence.
	RuleFillIfEmpty Rule = iota
	// RulePreferRicher takes the candidate value when it carries more
	// content than the stored one (longer text). Used for descriptions so a
	// richer description is never replaced by a shorter, newer one.
	RulePreferRicher
	// RulePreferExisting never replaces a populated stored value.
	RulePreferExisting
	// RuleUnion merges set-valued fields by union.
	RuleUnion
)

// Policy maps event field names to merge rules. Fields without an entry
// follow RuleFillIfEmpty.
type Policy map[string]Rule

// DefaultPolicy returns the merge policy the engine ships with.
func DefaultPolicy() Policy {
	return Policy{
		"title":       RulePreferExisting,
		"description": RulePreferRicher,
		"start_time":  RuleFillIfEmpty,
		"end_time":    RuleFillIfEmpty,
		"price":       RuleFillIfEmpty,
		"ticket_url":  RuleFillIfEmpty,
		"image_url":   RuleFillIfEmpty,
		"tags":        RuleUnion,
	}
}

func (p Policy) rule(field string) Rule {
	if rule, ok := p[field]; ok {
		return rule
	}
	return RuleFillIfEmpty
}

// wins reports whether a candidate's string value should replace the stored
// one under the policy. An empty candidate value never wins: populated
// fields are never downgraded.
func (p Policy) wins(field, stored, candidate string, confidence Confidence) bool {
	if candidate == "" {
		return false
	}
	if stored == "" {
		return true
	}
	switch p.rule(field) {
	case RulePreferExisting:
		return false
	case RulePreferRicher:
		if len(candidate) > len(stored) {
			return true
		}
		return confidence > ConfidenceDefault && len(candidate) >= len(stored)
	default:
		return confidence > ConfidenceDefault
	}
}
