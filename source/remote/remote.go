package remote

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"

	"github.com/depaudit/depaudit/source"
	"github.com/depaudit/depaudit/source/local"
	"github.com/depaudit/depaudit/utils"
)

// Config downloads any go-getter source (git::, an archive URL, a plain
// path) to a temporary directory and scans it like a local project.
type Config struct {
	src string
}

func NewConfig(src string) Config {
	return Config{src: src}
}

func (c Config) FetchRequirementLines(ctx context.Context) ([]string, error) {
	dir, err := utils.DownloadToTempDir(ctx, c.src)
	if err != nil {
		return nil, xerrors.Errorf("failed to download %s: %w", c.src, err)
	}
	defer os.RemoveAll(dir)

	root, err := projectRoot(dir)
	if err != nil {
		return nil, err
	}

	lc := local.NewConfig(root)
	return lc.FetchRequirementLines(ctx)
}

// projectRoot descends into a single wrapping directory, which is how
// repository archives unpack (e.g. "repo-main/").
func projectRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", xerrors.Errorf("unable to read %s: %w", dir, err)
	}

	if len(entries) == 1 && entries[0].IsDir() && !source.NameMatches(entries[0].Name()) {
		return filepath.Join(dir, entries[0].Name()), nil
	}
	return dir, nil
}
