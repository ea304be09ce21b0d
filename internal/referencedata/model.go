package referencedata

// Jurisdiction names a legal system with its own statutory thresholds.
type Jurisdiction string

const (
	JurisdictionEngland  Jurisdiction = "england"
	JurisdictionWales    Jurisdiction = "wales"
	JurisdictionScotland Jurisdiction = "scotland"
)

// ParseJurisdiction normalizes a jurisdiction identifier. The boolean is false
// for anything outside the supported set.
func ParseJurisdiction(s string) (Jurisdiction, bool) {
	switch Jurisdiction(normalizeKey(s)) {
	case JurisdictionEngland:
		return JurisdictionEngland, true
	case JurisdictionWales:
		return JurisdictionWales, true
	case JurisdictionScotland:
		return JurisdictionScotland, true
	}
	return "", false
}

// Authority is a local housing authority.
type Authority struct {
	Name         string
	Website      string
	Jurisdiction Jurisdiction
}

// JurisdictionArea maps one postcode area code to its owning authority.
// Many areas share one authority.
type JurisdictionArea struct {
	AreaCode  string
	Authority Authority
}

// AuthorityRecord is one entry of the reference data file.
type AuthorityRecord struct {
	Name          string   `json:"name"`
	Website       string   `json:"website"`
	PostcodeAreas []string `json:"postcode_areas"`
	Jurisdiction  string   `json:"jurisdiction,omitempty"`
}
