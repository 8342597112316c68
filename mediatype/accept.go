package mediatype

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Any is the "*/*" media type, used when a request carries no Accept header.
var Any = MediaType{typ: Wildcard, subtype: Wildcard}

// ParseAccept parses a comma separated Accept header into media types ordered by descending
// quality. Entries of equal quality keep the order in which they appear in the header. Malformed
// entries, entries with an invalid quality and entries with a quality of zero are left out. An
// empty header is treated as "*/*".
func ParseAccept(header string) []MediaType {
	if strings.TrimSpace(header) == "" {
		return []MediaType{Any}
	}

	type entry struct {
		mt MediaType
		q  float64
	}

	entries := lo.FilterMap(splitList(header), func(raw string, _ int) (entry, bool) {
		mt, err := Parse(raw)
		if err != nil {
			return entry{}, false
		}

		q, err := mt.Quality()
		if err != nil || q == 0 {
			return entry{}, false
		}

		return entry{mt, q}, true
	})

	slices.SortStableFunc(entries, func(a, b entry) int {
		switch {
		case a.q > b.q:
			return -1
		case a.q < b.q:
			return 1
		default:
			return 0
		}
	})

	return lo.Map(entries, func(e entry, _ int) MediaType { return e.mt })
}

// splitList splits a header on commas that are not inside a quoted-string.
func splitList(header string) []string {
	var (
		parts  []string
		start  int
		quoted bool
	)

	for i := 0; i < len(header); i++ {
		switch header[i] {
		case '\\':
			if quoted {
				i++
			}
		case '"':
			quoted = !quoted
		case ',':
			if !quoted {
				parts = append(parts, header[start:i])
				start = i + 1
			}
		}
	}

	parts = append(parts, header[start:])

	return slices.DeleteFunc(parts, func(s string) bool { return strings.TrimSpace(s) == "" })
}
