package enrollment

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// RosterEntry is one row of an external_id roster, typically sourced from
// a CSV bulk-enrollment import.
type RosterEntry struct {
	ExternalID string
	Name       string
}

// DuplicateCandidate flags a new roster row that closely matches an
// existing one, for manual review before import.
type DuplicateCandidate struct {
	New      RosterEntry
	Existing RosterEntry
	Distance int
}

// fuzzyExternalIDDistance is the maximum Levenshtein distance between two
// external IDs for them to be flagged as likely duplicates (e.g. a
// transposed digit or a stray trailing character from CSV export).
const fuzzyExternalIDDistance = 2

// FindFuzzyDuplicates compares each row of incoming against the existing
// roster and reports near-duplicate external_ids, so a bulk CSV import can
// surface them for manual confirmation rather than silently creating
// near-identical students.
func FindFuzzyDuplicates(existing []RosterEntry, incoming []RosterEntry) []DuplicateCandidate {
	var candidates []DuplicateCandidate
	for _, in := range incoming {
		inID := strings.ToUpper(strings.TrimSpace(in.ExternalID))
		for _, ex := range existing {
			exID := strings.ToUpper(strings.TrimSpace(ex.ExternalID))
			if inID == exID {
				continue // exact match is a conflict, not a fuzzy duplicate
			}
			dist := levenshtein.ComputeDistance(inID, exID)
			if dist <= fuzzyExternalIDDistance {
				candidates = append(candidates, DuplicateCandidate{New: in, Existing: ex, Distance: dist})
			}
		}
	}
	return candidates
}
