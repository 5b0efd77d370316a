package safetydb

import (
	"log"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/depaudit/depaudit/requirement"
)

// Records converts the raw catalogue into vulnerability records for the
// matching engine. An advisory whose specs cannot be parsed is dropped
// with a log line; the rest of the catalogue stays usable. Output is
// sorted by package name so repeated runs report in the same order.
func Records(db AdvisoryDB) []requirement.VulnerabilityRecord {
	names := maps.Keys(db)
	slices.Sort(names)

	var records []requirement.VulnerabilityRecord
	for _, name := range names {
		for _, adv := range db[name] {
			record := requirement.VulnerabilityRecord{
				Name:     name,
				ID:       adv.ID,
				Advisory: adv.Advisory,
				CVE:      adv.Cve,
			}

			ok := true
			for _, spec := range adv.Specs {
				r, err := requirement.ParseSpec(name, spec)
				if err != nil {
					log.Printf("skip advisory %s: %s", adv.ID, err)
					ok = false
					break
				}
				record.Ranges = append(record.Ranges, r)
			}
			if !ok || len(record.Ranges) == 0 {
				continue
			}

			records = append(records, record)
		}
	}
	return records
}
