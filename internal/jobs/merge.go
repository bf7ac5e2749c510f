package jobs

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Merge concatenates the per-source lists in the given order and keeps only the
// first record seen for each identity key. The relative order of kept records is
// preserved. The result is never nil.
func Merge(lists ...[]Record) []Record {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	lower := cases.Lower(language.Und)
	seen := make(map[IdentityKey]struct{}, total)
	out := make([]Record, 0, total)
	for _, l := range lists {
		for _, r := range l {
			k := keyOf(lower, r)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}
