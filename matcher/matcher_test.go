package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depaudit/depaudit/matcher"
	"github.com/depaudit/depaudit/requirement"
)

func req(t *testing.T, line string) requirement.Requirement {
	t.Helper()
	r, ok := requirement.ParseLine(line)
	require.True(t, ok, line)
	return r
}

func bound(t *testing.T, spec string) requirement.Requirement {
	t.Helper()
	r, err := requirement.ParseSpec("pkg", spec)
	require.NoError(t, err, spec)
	return r.Lower
}

func TestConsistent(t *testing.T) {
	testCases := []struct {
		name     string
		declared string
		bound    string
		want     bool
	}{
		{
			name:     "pinned above inclusive lower edge",
			declared: "pkg==2.0",
			bound:    ">=1.0",
			want:     true,
		},
		{
			name:     "pinned on inclusive lower edge",
			declared: "pkg==1.0",
			bound:    ">=1.0",
			want:     true,
		},
		{
			name:     "pinned on exclusive lower edge",
			declared: "pkg==1.0",
			bound:    ">1.0",
			want:     false,
		},
		{
			name:     "pinned below exclusive upper edge",
			declared: "pkg==1.11.0",
			bound:    "<1.11.9",
			want:     true,
		},
		{
			name:     "pinned on exclusive upper edge",
			declared: "pkg==1.11.9",
			bound:    "<1.11.9",
			want:     false,
		},
		{
			name:     "pinned against equality",
			declared: "pkg==1.5",
			bound:    "==1.5",
			want:     true,
		},
		{
			name:     "pinned against exclusion",
			declared: "pkg==1.5",
			bound:    "!=1.5",
			want:     false,
		},
		{
			name:     "pinned against exclusion of another version",
			declared: "pkg==1.5",
			bound:    "!=1.6",
			want:     true,
		},
		{
			name:     "both unbounded upward always overlap",
			declared: "pkg>=9.0",
			bound:    ">1.0",
			want:     true,
		},
		{
			name:     "both unbounded downward always overlap",
			declared: "pkg<0.1",
			bound:    "<=5.0",
			want:     true,
		},
		{
			name:     "lower edge below upper bound",
			declared: "pkg>=1.0",
			bound:    "<=2.0",
			want:     true,
		},
		{
			name:     "lower edge above upper bound",
			declared: "pkg>=3.0",
			bound:    "<=2.0",
			want:     false,
		},
		{
			name:     "upper edge above lower bound",
			declared: "pkg<=2.0",
			bound:    ">=1.0",
			want:     true,
		},
		{
			name:     "touching inclusive edges",
			declared: "pkg<=1.0",
			bound:    ">=1.0",
			want:     true,
		},
		{
			name:     "touching inclusive and exclusive edges",
			declared: "pkg<=1.0",
			bound:    ">1.0",
			want:     false,
		},
		{
			name:     "strict greater against strict less",
			declared: "pkg>1.0",
			bound:    "<2.0",
			want:     true,
		},
		{
			name:     "strict greater meeting strict less",
			declared: "pkg>2.0",
			bound:    "<2.0",
			want:     false,
		},
		{
			name:     "declared exclusion against directional bound is conservative",
			declared: "pkg!=1.0",
			bound:    ">=0.5",
			want:     false,
		},
		{
			name:     "numeric edge comparison",
			declared: "pkg==1.10",
			bound:    ">=1.9",
			want:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := matcher.Consistent(req(t, tc.declared), bound(t, tc.bound))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIntersectsRange(t *testing.T) {
	r, err := requirement.ParseSpec("pkg", ">=1.0,<2.0")
	require.NoError(t, err)

	testCases := []struct {
		name     string
		declared string
		want     bool
	}{
		{
			name:     "inside",
			declared: "pkg==1.5",
			want:     true,
		},
		{
			name:     "on the exclusive upper edge",
			declared: "pkg==2.0",
			want:     false,
		},
		{
			name:     "below the lower edge",
			declared: "pkg==0.5",
			want:     false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, matcher.IntersectsRange(req(t, tc.declared), r))
		})
	}
}

func TestMatchesRecord(t *testing.T) {
	first, err := requirement.ParseSpec("pkg", "<1.0")
	require.NoError(t, err)
	second, err := requirement.ParseSpec("pkg", ">=2.0,<3.0")
	require.NoError(t, err)

	record := requirement.VulnerabilityRecord{
		Name:     "pkg",
		ID:       "pyup.io-1",
		Advisory: "something bad",
		Ranges:   []requirement.BoundedRange{first, second},
	}

	testCases := []struct {
		name     string
		declared string
		want     bool
	}{
		{
			name:     "matches the second range only",
			declared: "pkg==2.5",
			want:     true,
		},
		{
			name:     "matches the first range only",
			declared: "pkg==0.9",
			want:     true,
		},
		{
			name:     "in the gap between ranges",
			declared: "pkg==1.5",
			want:     false,
		},
		{
			name:     "name is joined case-insensitively",
			declared: "Pkg==2.5",
			want:     true,
		},
		{
			name:     "different package never matches",
			declared: "other==2.5",
			want:     false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, matcher.MatchesRecord(req(t, tc.declared), record))
		})
	}
}

func TestFindVulnerabilities(t *testing.T) {
	vulnerableRange, err := requirement.ParseSpec("django", "<1.11.9")
	require.NoError(t, err)

	records := []requirement.VulnerabilityRecord{
		{
			Name:     "django",
			ID:       "pyup.io-1",
			Advisory: "CVE-X",
			Ranges:   []requirement.BoundedRange{vulnerableRange},
		},
	}

	t.Run("declared version inside the vulnerable window", func(t *testing.T) {
		matches := matcher.FindVulnerabilities(requirement.ParseLines([]string{"django==1.11.0"}), records)
		require.Len(t, matches, 1)
		assert.Equal(t, "CVE-X", matches[0].Record.Advisory)
		assert.Equal(t, "django", matches[0].Requirement.Name)
	})

	t.Run("declared version outside the vulnerable window", func(t *testing.T) {
		matches := matcher.FindVulnerabilities(requirement.ParseLines([]string{"django==2.0.0"}), records)
		assert.Empty(t, matches)
	})

	t.Run("declared name is case-insensitive", func(t *testing.T) {
		matches := matcher.FindVulnerabilities(requirement.ParseLines([]string{"Django==1.11.0"}), records)
		assert.Len(t, matches, 1)
	})

	t.Run("duplicate declared requirements are each tested", func(t *testing.T) {
		matches := matcher.FindVulnerabilities(
			requirement.ParseLines([]string{"django==1.11.0", "django<1.5"}), records)
		assert.Len(t, matches, 2)
	})

	t.Run("bare name flags any catalogued package", func(t *testing.T) {
		matches := matcher.FindVulnerabilities(requirement.ParseLines([]string{"django"}), records)
		assert.Len(t, matches, 1)
	})
}
