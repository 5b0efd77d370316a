package safetydb

import (
	"encoding/json"
	"log"
	"strings"

	"golang.org/x/xerrors"
)

// AdvisoryDB is the pyup.io safety-db document: package name to its raw
// advisories. Keys are lowercased on decode so the join against declared
// requirements is case-insensitive.
type AdvisoryDB map[string][]RawAdvisory

type RawAdvisory struct {
	ID       string   `json:"id"`
	Advisory string   `json:"advisory"`
	Cve      string   `json:"cve"`
	Specs    []string `json:"specs"`
	Version  string   `json:"v"`
}

func (ad AdvisoryDB) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return xerrors.Errorf("failed to decode advisory database: %w", err)
	}
	for k, v := range obj {
		// "$meta" carries the timestamp of the upstream dump, not advisories
		if strings.HasPrefix(k, "$") {
			continue
		}
		var raw []RawAdvisory
		if err := json.Unmarshal(v, &raw); err != nil {
			// one broken package entry must not take down the catalogue
			log.Printf("skip advisories for %q: %s", k, err)
			continue
		}
		ad[strings.ToLower(k)] = raw
	}
	return nil
}
