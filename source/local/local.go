package local

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/depaudit/depaudit/source"
)

type options struct {
	appFs afero.Fs
}

type option func(*options)

func WithAppFs(fs afero.Fs) option {
	return func(opts *options) {
		opts.appFs = fs
	}
}

// Config walks a directory for requirements manifests: files whose name
// contains "requirements" at the top level, plus the .txt files one level
// inside matching directories.
type Config struct {
	dir string
	options
}

func NewConfig(dir string, opts ...option) Config {
	o := &options{
		appFs: afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return Config{
		dir:     dir,
		options: *o,
	}
}

func (c Config) FetchRequirementLines(_ context.Context) ([]string, error) {
	files, err := c.searchRequirementFiles()
	if err != nil {
		return nil, xerrors.Errorf("failed to search requirement files: %w", err)
	}

	var lines []string
	for _, file := range files {
		b, err := afero.ReadFile(c.appFs, file)
		if err != nil {
			return nil, xerrors.Errorf("unable to read %s: %w", file, err)
		}
		lines = append(lines, source.SplitLines(string(b))...)
	}
	return lines, nil
}

func (c Config) searchRequirementFiles() ([]string, error) {
	entries, err := afero.ReadDir(c.appFs, c.dir)
	if err != nil {
		return nil, xerrors.Errorf("unable to read %s: %w", c.dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !source.NameMatches(entry.Name()) {
			continue
		}
		if !entry.IsDir() {
			files = append(files, filepath.Join(c.dir, entry.Name()))
			continue
		}

		subEntries, err := afero.ReadDir(c.appFs, filepath.Join(c.dir, entry.Name()))
		if err != nil {
			return nil, xerrors.Errorf("unable to read %s: %w", entry.Name(), err)
		}
		for _, sub := range subEntries {
			if !sub.IsDir() && strings.HasSuffix(sub.Name(), ".txt") {
				files = append(files, filepath.Join(c.dir, entry.Name(), sub.Name()))
			}
		}
	}
	return files, nil
}
