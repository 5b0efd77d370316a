package utils

import (
	"context"
	"os"

	getter "github.com/hashicorp/go-getter"
	"golang.org/x/xerrors"
)

func DownloadToTempDir(ctx context.Context, src string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "depaudit")
	if err != nil {
		return "", xerrors.Errorf("failed to create a temp dir: %w", err)
	}

	// go-getter doesn't allow destination to exist. It needs to be removed once.
	if err = os.RemoveAll(tmpDir); err != nil {
		return "", xerrors.Errorf("failed to remove %s: %w", tmpDir, err)
	}

	if err = download(ctx, src, tmpDir, getter.ClientModeDir); err != nil {
		return "", xerrors.Errorf("download error: %w", err)
	}

	return tmpDir, nil
}

func download(ctx context.Context, src, dst string, mode getter.ClientMode) error {
	pwd, err := os.Getwd()
	if err != nil {
		return xerrors.Errorf("unable to get the current dir: %w", err)
	}

	client := &getter.Client{
		Ctx:     ctx,
		Src:     src,
		Dst:     dst,
		Pwd:     pwd,
		Getters: getter.Getters,
		Mode:    mode,
	}

	if err = client.Get(); err != nil {
		return xerrors.Errorf("failed to download: %w", err)
	}

	return nil
}
