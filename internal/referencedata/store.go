// Package referencedata holds the static jurisdiction tables: postcode area to
// local authority. A Store is built once at start-up, injected where needed,
// and never mutated, so it is safe for concurrent reads without locking.
package referencedata

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// fullPostcode matches an unspaced UK postcode such as "SW1A2AA".
var fullPostcode = regexp.MustCompile(`^[A-Z]{1,2}[0-9][0-9A-Z]?[0-9][A-Z]{2}$`)

// Store answers authority lookups by postcode.
type Store struct {
	areas map[string]JurisdictionArea
}

// NewStore indexes authority records by area code. An area code claimed by
// two authorities is rejected.
func NewStore(records []AuthorityRecord) (*Store, error) {
	areas := make(map[string]JurisdictionArea)
	for i, rec := range records {
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			return nil, fmt.Errorf("authority record %d: name is required", i)
		}
		jurisdiction := JurisdictionEngland
		if rec.Jurisdiction != "" {
			j, ok := ParseJurisdiction(rec.Jurisdiction)
			if !ok {
				return nil, fmt.Errorf("authority %q: unknown jurisdiction %q", name, rec.Jurisdiction)
			}
			jurisdiction = j
		}
		authority := Authority{
			Name:         name,
			Website:      strings.TrimSpace(rec.Website),
			Jurisdiction: jurisdiction,
		}
		for _, raw := range rec.PostcodeAreas {
			code := AreaCode(raw)
			if code == "" {
				continue
			}
			if existing, ok := areas[code]; ok && existing.Authority.Name != name {
				return nil, fmt.Errorf("postcode area %s claimed by %q and %q", code, existing.Authority.Name, name)
			}
			areas[code] = JurisdictionArea{AreaCode: code, Authority: authority}
		}
	}
	return &Store{areas: areas}, nil
}

// LookupAuthority resolves a free-text postcode to its authority. A miss is an
// expected outcome (outside the mapped region) and is reported through the
// boolean, never as an error.
func (s *Store) LookupAuthority(postcode string) (JurisdictionArea, bool) {
	code := AreaCode(postcode)
	if code == "" || s == nil {
		return JurisdictionArea{}, false
	}
	area, ok := s.areas[code]
	return area, ok
}

// AreaCodes lists every mapped area code in sorted order.
func (s *Store) AreaCodes() []string {
	codes := make([]string, 0, len(s.areas))
	for code := range s.areas {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Len reports the number of mapped area codes.
func (s *Store) Len() int {
	return len(s.areas)
}

// AreaCode derives the area code from a free-text postcode: the leading
// alphanumeric run before the first whitespace, uppercased
// ("SW1A 2AA" -> "SW1A", "m1 5ab" -> "M1"). An unspaced full postcode drops
// its three-character inward code ("LS287HF" -> "LS28").
func AreaCode(postcode string) string {
	s := strings.ToUpper(strings.TrimSpace(postcode))
	if s == "" {
		return ""
	}
	if idx := strings.IndexFunc(s, unicode.IsSpace); idx != -1 {
		s = s[:idx]
	} else if fullPostcode.MatchString(s) {
		s = s[:len(s)-3]
	}
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	if end != -1 {
		s = s[:end]
	}
	return s
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
