package galaxy

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"starmap-server/internal/system"
)

type searchEntry struct {
	full string
	base string
}

var normalizedSuffix = " " + normalize(system.NameSuffix)

func newSearchEntry(name string) searchEntry {
	full := normalize(name)
	return searchEntry{
		full: full,
		base: strings.TrimSuffix(full, normalizedSuffix),
	}
}

// normalize folds case, strips diacritics and collapses whitespace.
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(cases.Fold().String(stripped)), " ")
}

const (
	matchExact = iota
	matchPrefix
	matchSubstring
	noMatch
)

func (e searchEntry) match(query string) int {
	switch {
	case e.full == query || e.base == query:
		return matchExact
	case strings.HasPrefix(e.full, query):
		return matchPrefix
	case strings.Contains(e.full, query):
		return matchSubstring
	default:
		return noMatch
	}
}

// SearchName finds a system by name ignoring case, diacritics and the
// " System" suffix. Exact matches win over prefix matches, which win over
// substring matches; ties go to the earliest inserted system.
func (g *Galaxy) SearchName(query string) (system.System, bool) {
	q := normalize(query)
	if q == "" {
		return system.System{}, false
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	best, bestRank := -1, noMatch
	for i, entry := range g.names {
		rank := entry.match(q)
		if rank < bestRank {
			best, bestRank = i, rank
			if rank == matchExact {
				break
			}
		}
	}

	if best < 0 {
		return system.System{}, false
	}
	return g.systems[best].Clone(), true
}
