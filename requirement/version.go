package requirement

import (
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// Version is a dot-separated sequence of non-negative integers.
// Comparison is component-wise with zero padding on the right, so
// "1.9" sorts before "1.10".
type Version []int

// AnyVersion is the neutral lower edge used when a constraint has no
// explicit bound. Any positive version satisfies "> 0".
func AnyVersion() Version {
	return Version{0}
}

func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, xerrors.New("empty version string")
	}

	parts := strings.Split(s, ".")
	v := make(Version, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, xerrors.Errorf("invalid version component %q in %q", part, s)
		}
		v = append(v, n)
	}
	return v, nil
}

// Compare returns -1, 0 or 1 if v is smaller, equal or larger than other.
func (v Version) Compare(other Version) int {
	n := len(v)
	if len(other) > n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		var a, b int
		if i < len(v) {
			a = v[i]
		}
		if i < len(other) {
			b = other[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}
