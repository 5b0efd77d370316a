package utils

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

func WriteJSON(fs afero.Fs, dir, fileName string, data interface{}) error {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return xerrors.Errorf("failed to create %s: %w", dir, err)
	}

	f, err := fs.Create(filepath.Join(dir, fileName))
	if err != nil {
		return xerrors.Errorf("unable to open a file: %w", err)
	}
	defer f.Close()

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return xerrors.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err = f.Write(b); err != nil {
		return xerrors.Errorf("failed to save a file: %w", err)
	}
	return nil
}
