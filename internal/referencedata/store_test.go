package referencedata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type StoreSuite struct {
	suite.Suite
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	store, err := NewStore([]AuthorityRecord{
		{Name: "Westminster City Council", Website: "https://westminster.example", PostcodeAreas: []string{"SW1A", "W1"}},
		{Name: "Manchester City Council", Website: "https://manchester.example", PostcodeAreas: []string{"m1", " M2 "}},
		{Name: "City of Edinburgh Council", PostcodeAreas: []string{"EH1"}, Jurisdiction: "Scotland"},
	})
	s.Require().NoError(err)
	s.store = store
}

// TestLookupAuthority verifies case-insensitive lookups and graceful misses.
func (s *StoreSuite) TestLookupAuthority() {
	s.Run("upper and lower case postcodes resolve to the same record", func() {
		upper, ok := s.store.LookupAuthority("SW1A 2AA")
		s.Require().True(ok)
		lower, ok := s.store.LookupAuthority("sw1a 9xx")
		s.Require().True(ok)

		s.Equal(upper, lower)
		s.Equal("Westminster City Council", upper.Authority.Name)
		s.Equal("SW1A", upper.AreaCode)
	})

	s.Run("short outward codes resolve", func() {
		area, ok := s.store.LookupAuthority("M1 5AB")
		s.Require().True(ok)
		s.Equal("Manchester City Council", area.Authority.Name)
		s.Equal(JurisdictionEngland, area.Authority.Jurisdiction)
	})

	s.Run("unmapped area is a miss, not an error", func() {
		_, ok := s.store.LookupAuthority("ZZ99 9ZZ")
		s.False(ok)
	})

	s.Run("empty input is a miss", func() {
		_, ok := s.store.LookupAuthority("   ")
		s.False(ok)
	})

	s.Run("jurisdiction comes from the record", func() {
		area, ok := s.store.LookupAuthority("eh1 1yz")
		s.Require().True(ok)
		s.Equal(JurisdictionScotland, area.Authority.Jurisdiction)
	})

	s.Run("nil store misses", func() {
		var store *Store
		_, ok := store.LookupAuthority("SW1A 2AA")
		s.False(ok)
	})
}

// TestNewStore verifies load-time invariants on the reference table.
func (s *StoreSuite) TestNewStore() {
	s.Run("rejects an area claimed by two authorities", func() {
		_, err := NewStore([]AuthorityRecord{
			{Name: "A", PostcodeAreas: []string{"M1"}},
			{Name: "B", PostcodeAreas: []string{"m1"}},
		})
		s.Require().Error(err)
		s.Contains(err.Error(), "M1")
	})

	s.Run("rejects unknown jurisdictions", func() {
		_, err := NewStore([]AuthorityRecord{{Name: "A", PostcodeAreas: []string{"M1"}, Jurisdiction: "atlantis"}})
		s.Require().Error(err)
	})

	s.Run("rejects nameless records", func() {
		_, err := NewStore([]AuthorityRecord{{PostcodeAreas: []string{"M1"}}})
		s.Require().Error(err)
	})

	s.Run("lists area codes sorted", func() {
		s.Equal([]string{"EH1", "M1", "M2", "SW1A", "W1"}, s.store.AreaCodes())
		s.Equal(5, s.store.Len())
	})
}

func TestAreaCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SW1A 2AA", "SW1A"},
		{"M1 5AB", "M1"},
		{"  ls28 7hf ", "LS28"},
		{"LS287HF", "LS28"},
		{"SW1A2AA", "SW1A"},
		{"M15AB", "M1"},
		{"SW1A", "SW1A"},
		{"EH1\t1YZ", "EH1"},
		{"B1-1AA", "B1"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := AreaCode(tt.in); got != tt.want {
				t.Errorf("AreaCode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadJSON(t *testing.T) {
	t.Run("default table loads", func(t *testing.T) {
		store, err := Default()
		if err != nil {
			t.Fatalf("load default table: %v", err)
		}
		area, ok := store.LookupAuthority("M1 1AE")
		if !ok || area.Authority.Name != "Manchester City Council" {
			t.Fatalf("expected Manchester for M1, got %+v (found=%v)", area, ok)
		}
		if _, ok := store.LookupAuthority("ZZ99 9ZZ"); ok {
			t.Fatalf("expected ZZ99 to be unmapped")
		}
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		_, err := LoadJSON(strings.NewReader(`[{"name":"A","postcode_areas":["M1"],"colour":"red"}]`))
		if err == nil {
			t.Fatalf("expected error for unknown field")
		}
	})
}
