package config_test

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depaudit/depaudit/config"
)

func TestLoad(t *testing.T) {
	testCases := []struct {
		name          string
		path          string
		content       string
		want          config.Config
		expectedError string
	}{
		{
			name: "happy path",
			path: "testdata/depaudit.yaml",
			want: config.Config{
				CatalogueURL: "https://example.com/insecure_full.json",
				CacheTTL:     "12h",
				Ignore:       []string{"pyup.io-35796", "pyup.io-36368"},
			},
		},
		{
			name:          "missing file",
			path:          "testdata/missing.yaml",
			expectedError: "unable to read config",
		},
		{
			name:          "broken YAML",
			path:          "/broken.yaml",
			content:       "catalogue_url: [\n",
			expectedError: "failed to parse config",
		},
		{
			name:          "invalid TTL",
			path:          "/ttl.yaml",
			content:       "cache_ttl: soon\n",
			expectedError: "invalid cache_ttl",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fs := afero.NewOsFs()
			if tc.content != "" {
				fs = afero.NewMemMapFs()
				require.NoError(t, afero.WriteFile(fs, tc.path, []byte(tc.content), 0644))
			}

			got, err := config.Load(fs, tc.path)
			if tc.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConfig_ParsedCacheTTL(t *testing.T) {
	assert.Equal(t, 12*time.Hour, config.Config{CacheTTL: "12h"}.ParsedCacheTTL())
	assert.Equal(t, time.Duration(0), config.Config{}.ParsedCacheTTL())
}

func TestConfig_Ignored(t *testing.T) {
	cfg := config.Config{Ignore: []string{"pyup.io-1"}}
	assert.True(t, cfg.Ignored("pyup.io-1"))
	assert.False(t, cfg.Ignored("pyup.io-2"))
}
