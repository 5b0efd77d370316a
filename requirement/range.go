package requirement

import (
	"regexp"
	"strings"

	"golang.org/x/xerrors"
)

var specRegexp = regexp.MustCompile(`^(==|!=|<=|>=|<|>)\s*(\d+(?:\.\d+)*)$`)

// BoundedRange is one contiguous vulnerable interval: a conjunction of a
// lower and an upper constraint. A spec with a single bound gets the
// neutral "> 0" upper edge, which admits any positive version.
type BoundedRange struct {
	Lower Requirement
	Upper Requirement
}

// ParseSpec parses a catalogue spec string such as ">=1.0,<2.0" into a
// BoundedRange for the named package. A spec is a comma-joined conjunction
// of at most two "<operator><version>" tokens.
func ParseSpec(name, spec string) (BoundedRange, error) {
	parts := strings.Split(spec, ",")
	if len(parts) > 2 {
		return BoundedRange{}, xerrors.Errorf("version spec %q for %q has more than two bounds", spec, name)
	}

	name = strings.ToLower(name)
	bounds := make([]Requirement, 0, 2)
	for _, part := range parts {
		m := specRegexp.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return BoundedRange{}, xerrors.Errorf("malformed version spec %q for %q", spec, name)
		}
		op, err := ParseOperator(m[1])
		if err != nil {
			return BoundedRange{}, xerrors.Errorf("version spec %q for %q: %w", spec, name, err)
		}
		version, err := ParseVersion(m[2])
		if err != nil {
			return BoundedRange{}, xerrors.Errorf("version spec %q for %q: %w", spec, name, err)
		}
		bounds = append(bounds, Requirement{Name: name, Op: op, Version: version})
	}

	r := BoundedRange{
		Lower: bounds[0],
		Upper: Requirement{Name: name, Op: OpGreater, Version: AnyVersion()},
	}
	if len(bounds) == 2 {
		r.Upper = bounds[1]
	}
	return r, nil
}

// VulnerabilityRecord is a single catalogue entry. Its ranges are
// OR-connected: the package is vulnerable when the declared requirement
// intersects any one of them.
type VulnerabilityRecord struct {
	Name     string
	ID       string
	Advisory string
	CVE      string
	Ranges   []BoundedRange
}
