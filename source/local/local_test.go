package local_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depaudit/depaudit/source/local"
)

func TestConfig_FetchRequirementLines(t *testing.T) {
	testCases := []struct {
		name  string
		files map[string]string
		want  []string
	}{
		{
			name: "top-level requirements file",
			files: map[string]string{
				"/project/requirements.txt": "Flask==2.0.1\n\nrequests\n",
				"/project/setup.py":         "from setuptools import setup\n",
			},
			want: []string{"Flask==2.0.1", "requests"},
		},
		{
			name: "requirements directory is recursed one level for .txt files",
			files: map[string]string{
				"/project/requirements/base.txt":       "django==1.11.0\n",
				"/project/requirements/dev.txt":        "pytest>=6.0\n",
				"/project/requirements/notes.md":       "not a manifest\n",
				"/project/requirements/nested/far.txt": "too-deep==1.0\n",
			},
			want: []string{"django==1.11.0", "pytest>=6.0"},
		},
		{
			name: "name variants containing requirements",
			files: map[string]string{
				"/project/dev-requirements.txt": "tox==3.24.0\n",
				"/project/Pipfile":              "[packages]\n",
			},
			want: []string{"tox==3.24.0"},
		},
		{
			name: "no manifests",
			files: map[string]string{
				"/project/main.go": "package main\n",
			},
			want: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			appFs := afero.NewMemMapFs()
			for path, content := range tc.files {
				require.NoError(t, afero.WriteFile(appFs, path, []byte(content), 0644))
			}

			c := local.NewConfig("/project", local.WithAppFs(appFs))
			got, err := c.FetchRequirementLines(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConfig_FetchRequirementLines_MissingDir(t *testing.T) {
	c := local.NewConfig("/missing", local.WithAppFs(afero.NewMemMapFs()))
	_, err := c.FetchRequirementLines(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to search requirement files")
}
