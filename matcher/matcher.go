package matcher

import (
	"strings"

	"github.com/depaudit/depaudit/requirement"
)

// Consistent reports whether a declared requirement and a single catalogue
// bound can describe the same version simultaneously. Both sides are
// directional constraints on an unknown shared version; the decision is an
// explicit table over the operator pairs. Pairings outside the table
// ("!=" on the declared side against a directional bound, or two "!=")
// are treated as inconsistent.
func Consistent(declared, bound requirement.Requirement) bool {
	cmp := declared.Version.Compare(bound.Version)

	switch declared.Op {
	case requirement.OpEqual:
		switch bound.Op {
		case requirement.OpGreaterEqual:
			return cmp >= 0
		case requirement.OpGreater:
			return cmp > 0
		case requirement.OpLessEqual:
			return cmp <= 0
		case requirement.OpLess:
			return cmp < 0
		case requirement.OpEqual:
			return cmp == 0
		case requirement.OpNotEqual:
			return cmp != 0
		}
	case requirement.OpGreaterEqual:
		switch bound.Op {
		case requirement.OpGreater, requirement.OpGreaterEqual:
			// both unbounded upward
			return true
		case requirement.OpLessEqual:
			return cmp <= 0
		case requirement.OpLess:
			return cmp < 0
		}
	case requirement.OpGreater:
		switch bound.Op {
		case requirement.OpGreater, requirement.OpGreaterEqual:
			return true
		case requirement.OpLess, requirement.OpLessEqual:
			return cmp < 0
		}
	case requirement.OpLessEqual:
		switch bound.Op {
		case requirement.OpLess, requirement.OpLessEqual:
			// both unbounded downward
			return true
		case requirement.OpGreaterEqual:
			return cmp >= 0
		case requirement.OpGreater:
			return cmp > 0
		}
	case requirement.OpLess:
		switch bound.Op {
		case requirement.OpLess, requirement.OpLessEqual:
			return true
		case requirement.OpGreater, requirement.OpGreaterEqual:
			return cmp > 0
		}
	}
	return false
}

// IntersectsRange reports whether the declared requirement is consistent
// with both edges of a vulnerable interval.
func IntersectsRange(declared requirement.Requirement, r requirement.BoundedRange) bool {
	return Consistent(declared, r.Lower) && Consistent(declared, r.Upper)
}

// MatchesRecord reports whether the declared requirement falls inside any
// of the record's vulnerable intervals. Names are joined case-insensitively.
func MatchesRecord(declared requirement.Requirement, record requirement.VulnerabilityRecord) bool {
	if !strings.EqualFold(declared.Name, record.Name) {
		return false
	}
	for _, r := range record.Ranges {
		if IntersectsRange(declared, r) {
			return true
		}
	}
	return false
}

// Match pairs a declared requirement with a catalogue record whose
// vulnerable window overlaps it.
type Match struct {
	Requirement requirement.Requirement
	Record      requirement.VulnerabilityRecord
}

// FindVulnerabilities cross-products declared requirements against
// catalogue records, preserving input order on both sides. Duplicate
// declared requirements are each tested independently; de-duplication is
// the caller's policy.
func FindVulnerabilities(declared []requirement.Requirement, records []requirement.VulnerabilityRecord) []Match {
	var matches []Match
	for _, req := range declared {
		for _, record := range records {
			if MatchesRecord(req, record) {
				matches = append(matches, Match{Requirement: req, Record: record})
			}
		}
	}
	return matches
}
