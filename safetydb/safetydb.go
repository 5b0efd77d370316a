package safetydb

import (
	"encoding/json"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/depaudit/depaudit/utils"
)

const (
	vulndbURL = "https://raw.githubusercontent.com/pyupio/safety-db/master/data/insecure_full.json"
	cacheFile = "insecure_full.json.gz"
	retry     = 5

	defaultCacheTTL = 24 * time.Hour
)

type options struct {
	url      string
	cacheDir string
	cacheTTL time.Duration
	retry    int
	appFs    afero.Fs
}

type Option func(*options)

func WithURL(url string) Option {
	return func(opts *options) {
		opts.url = url
	}
}

func WithCacheDir(dir string) Option {
	return func(opts *options) {
		opts.cacheDir = dir
	}
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(opts *options) {
		opts.cacheTTL = ttl
	}
}

func WithRetry(retry int) Option {
	return func(opts *options) {
		opts.retry = retry
	}
}

func WithAppFs(fs afero.Fs) Option {
	return func(opts *options) {
		opts.appFs = fs
	}
}

// Client loads the safety-db catalogue, serving a gzip-compressed on-disk
// cache while it is fresh and fetching from upstream otherwise.
type Client struct {
	options
}

func NewClient(opts ...Option) Client {
	o := &options{
		url:      vulndbURL,
		cacheDir: filepath.Join(utils.CacheDir(), "safety-db"),
		cacheTTL: defaultCacheTTL,
		retry:    retry,
		appFs:    afero.NewOsFs(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return Client{options: *o}
}

func (c Client) Load() (AdvisoryDB, error) {
	b, ok := c.loadCache()
	if !ok {
		log.Println("Fetching Python Safety Database...")
		var err error
		b, err = utils.FetchURL(c.url, "", c.retry)
		if err != nil {
			return nil, xerrors.Errorf("failed to fetch python-safetydb: %w", err)
		}

		if err := c.saveCache(b); err != nil {
			// a broken cache dir must not fail the scan
			log.Printf("failed to cache python-safetydb: %s", err)
		}
	}

	advisoryDB := AdvisoryDB{}
	if err := json.Unmarshal(b, &advisoryDB); err != nil {
		return nil, xerrors.Errorf("failed to decode python-safetydb response: %w", err)
	}
	return advisoryDB, nil
}

func (c Client) loadCache() ([]byte, bool) {
	path := filepath.Join(c.cacheDir, cacheFile)
	fi, err := c.appFs.Stat(path)
	if err != nil || time.Since(fi.ModTime()) > c.cacheTTL {
		return nil, false
	}

	f, err := c.appFs.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, false
	}
	defer zr.Close()

	b, err := io.ReadAll(zr)
	if err != nil {
		return nil, false
	}

	log.Println("Using cached Python Safety Database")
	return b, true
}

func (c Client) saveCache(b []byte) error {
	if err := c.appFs.MkdirAll(c.cacheDir, 0755); err != nil {
		return xerrors.Errorf("failed to create cache dir: %w", err)
	}

	f, err := c.appFs.Create(filepath.Join(c.cacheDir, cacheFile))
	if err != nil {
		return xerrors.Errorf("unable to open the cache file: %w", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if _, err = zw.Write(b); err != nil {
		return xerrors.Errorf("failed to write the cache file: %w", err)
	}
	if err = zw.Close(); err != nil {
		return xerrors.Errorf("failed to flush the cache file: %w", err)
	}
	return nil
}
