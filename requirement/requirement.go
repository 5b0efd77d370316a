package requirement

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/xerrors"
)

type Operator string

const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
)

// name is matched lazily so that trailing whitespace before the operator
// is not swallowed into it.
var lineRegexp = regexp.MustCompile(`^(.+?)\s*(==|!=|<=|>=|<|>)\s*(\d+(?:\.\d+)*)`)

func ParseOperator(s string) (Operator, error) {
	switch op := Operator(s); op {
	case OpEqual, OpNotEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return op, nil
	}
	return "", xerrors.Errorf("unknown comparison operator %q", s)
}

// Requirement is a single constraint on an installed package: a lowercased
// package name, a comparison operator and a version. It is a value object
// and must not be mutated after construction.
type Requirement struct {
	Name    string
	Op      Operator
	Version Version
}

func (r Requirement) String() string {
	return fmt.Sprintf("%s%s%s", r.Name, r.Op, r.Version)
}

// ParseLine parses one requirements-file line. A line with no operator or
// version degrades to a bare name with the always-true constraint "> 0".
// Blank lines and comments are skipped (ok is false).
func ParseLine(line string) (Requirement, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Requirement{}, false
	}

	if m := lineRegexp.FindStringSubmatch(line); m != nil {
		if version, err := ParseVersion(m[3]); err == nil {
			op, err := ParseOperator(m[2])
			if err == nil {
				return Requirement{
					Name:    strings.ToLower(strings.TrimSpace(m[1])),
					Op:      op,
					Version: version,
				}, true
			}
		}
	}

	return Requirement{
		Name:    strings.ToLower(line),
		Op:      OpGreater,
		Version: AnyVersion(),
	}, true
}

// ParseLines parses a batch of requirement lines, skipping the blank ones.
func ParseLines(lines []string) []Requirement {
	reqs := make([]Requirement, 0, len(lines))
	for _, line := range lines {
		if req, ok := ParseLine(line); ok {
			reqs = append(reqs, req)
		}
	}
	return reqs
}
