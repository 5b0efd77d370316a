package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	githubql "github.com/shurcooL/githubv4"
	"github.com/spf13/afero"
	"golang.org/x/oauth2"
	"golang.org/x/xerrors"

	"github.com/depaudit/depaudit/config"
	"github.com/depaudit/depaudit/matcher"
	"github.com/depaudit/depaudit/requirement"
	"github.com/depaudit/depaudit/safetydb"
	"github.com/depaudit/depaudit/source"
	"github.com/depaudit/depaudit/source/github"
	"github.com/depaudit/depaudit/source/local"
	"github.com/depaudit/depaudit/source/remote"
	"github.com/depaudit/depaudit/utils"
)

var (
	repo         = flag.String("repo", "", "GitHub repository URL to scan (uses GITHUB_TOKEN if set)")
	dir          = flag.String("dir", "", "local project directory to scan")
	src          = flag.String("src", "", "go-getter source to scan (git::, archive URL, ...)")
	configPath   = flag.String("config", "", "path to a YAML config file")
	catalogueURL = flag.String("catalogue-url", "", "override the safety-db catalogue URL")
	output       = flag.String("output", "", "write a JSON report to this file")
	quiet        = flag.Bool("quiet", false, "suppress per-match output, keep the exit code")
)

type reportEntry struct {
	Package    string `json:"package"`
	Constraint string `json:"constraint"`
	AdvisoryID string `json:"advisory_id"`
	CVE        string `json:"cve,omitempty"`
	Advisory   string `json:"advisory"`
}

func main() {
	vulnerable, err := run()
	if err != nil {
		log.Fatal(err)
	}
	if vulnerable {
		os.Exit(1)
	}
}

func run() (bool, error) {
	flag.Parse()
	ctx := context.Background()

	var cfg config.Config
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(afero.NewOsFs(), *configPath); err != nil {
			return false, err
		}
	}

	fetcher, err := newFetcher(ctx)
	if err != nil {
		return false, err
	}

	lines, err := fetcher.FetchRequirementLines(ctx)
	if err != nil {
		return false, xerrors.Errorf("failed to fetch requirement lines: %w", err)
	}
	reqs := requirement.ParseLines(lines)
	if len(reqs) == 0 {
		log.Println("no requirements found")
		return false, nil
	}
	log.Printf("found %d declared requirements", len(reqs))

	db, err := newCatalogueClient(cfg).Load()
	if err != nil {
		return false, xerrors.Errorf("failed to load the vulnerability catalogue: %w", err)
	}
	records := safetydb.Records(db)

	matches := matcher.FindVulnerabilities(reqs, records)

	lines, report := renderMatches(matches, cfg)
	printMatches(os.Stdout, lines, *quiet)

	if *output != "" {
		reportDir, reportFile := filepath.Split(*output)
		if reportDir == "" {
			reportDir = "."
		}
		if err := utils.WriteJSON(afero.NewOsFs(), reportDir, reportFile, report); err != nil {
			return false, xerrors.Errorf("failed to write the report: %w", err)
		}
	}

	if len(report) == 0 {
		log.Println("no known vulnerabilities found")
		return false, nil
	}
	return true, nil
}

// renderMatches formats one line per finding, dropping ignored advisories.
// The same requirement may come from several manifest files; identical
// findings are collapsed.
func renderMatches(matches []matcher.Match, cfg config.Config) ([]string, []reportEntry) {
	var lines []string
	var report []reportEntry
	for _, m := range matches {
		if cfg.Ignored(m.Record.ID) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s (%s)", m.Requirement, m.Record.Advisory, m.Record.ID))
		report = append(report, reportEntry{
			Package:    m.Record.Name,
			Constraint: m.Requirement.String(),
			AdvisoryID: m.Record.ID,
			CVE:        m.Record.CVE,
			Advisory:   m.Record.Advisory,
		})
	}
	return lo.Uniq(lines), lo.Uniq(report)
}

func printMatches(w io.Writer, lines []string, quiet bool) {
	if quiet {
		return
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

func newFetcher(ctx context.Context) (source.Fetcher, error) {
	switch {
	case *repo != "":
		httpClient := http.DefaultClient
		if githubToken := os.Getenv("GITHUB_TOKEN"); githubToken != "" {
			ts := oauth2.StaticTokenSource(
				&oauth2.Token{AccessToken: githubToken},
			)
			httpClient = oauth2.NewClient(ctx, ts)
		}
		gc, err := github.NewConfig(*repo, githubql.NewClient(httpClient))
		if err != nil {
			return nil, err
		}
		return gc, nil
	case *src != "":
		return remote.NewConfig(*src), nil
	case *dir != "":
		if ok, err := utils.Exists(*dir); err != nil || !ok {
			return nil, xerrors.Errorf("directory %s does not exist", *dir)
		}
		return local.NewConfig(*dir), nil
	}
	return nil, xerrors.New("one of -repo, -dir or -src must be specified")
}

func newCatalogueClient(cfg config.Config) safetydb.Client {
	var opts []safetydb.Option
	if url := resolveCatalogueURL(*catalogueURL, cfg); url != "" {
		opts = append(opts, safetydb.WithURL(url))
	}
	if ttl := cfg.ParsedCacheTTL(); ttl > 0 {
		opts = append(opts, safetydb.WithCacheTTL(ttl))
	}
	return safetydb.NewClient(opts...)
}

// resolveCatalogueURL picks the catalogue URL: flag, then environment,
// then config file.
func resolveCatalogueURL(flagValue string, cfg config.Config) string {
	return firstNonEmpty(flagValue, utils.LookupEnv("DEPAUDIT_CATALOGUE_URL", ""), cfg.CatalogueURL)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
