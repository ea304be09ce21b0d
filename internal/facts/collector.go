package facts

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"letwise/internal/referencedata"
	dErrors "letwise/pkg/domain-errors"
)

// Raw input keys accepted from forms and the CLI.
const (
	InputPostcode         = "postcode"
	InputJurisdiction     = "jurisdiction"
	InputOccupants        = "occupants"
	InputHouseholds       = "households"
	InputStoreys          = "storeys"
	InputPropertyCategory = "property_category"
	InputSharedFacilities = "shared_facilities"
	InputRentFrequency    = "rent_frequency"
	InputRentAmount       = "rent_amount"
	InputArrearsAmount    = "arrears_amount"
	InputLatePayments     = "late_payments"
	InputClaimAmount      = "claim_amount"
)

// requiredInputs gates submission per topic. Postcode and property category
// refine an HMO report but the tier is decided on the counts alone.
var requiredInputs = map[Topic][]string{
	TopicHMO:     {InputOccupants, InputHouseholds},
	TopicArrears: {InputRentFrequency, InputRentAmount, InputArrearsAmount},
	TopicDebt:    {InputClaimAmount},
}

var categoryAliases = map[string]PropertyCategory{
	"house":              PropertyHouse,
	"flat":               PropertyFlat,
	"apartment":          PropertyFlat,
	"converted":          PropertyConverted,
	"converted_building": PropertyConverted,
	"purpose_built":      PropertyPurposeBuilt,
	"bedsit":             PropertyBedsit,
}

var frequencyAliases = map[string]RentFrequency{
	"weekly":      RentWeekly,
	"fortnightly": RentFortnightly,
	"monthly":     RentMonthly,
	"pcm":         RentMonthly,
}

// Issue is an advisory, field-level problem with the submitted form.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Form is normalized input that may not be complete yet.
type Form struct {
	Topic  Topic
	Issues []Issue
	draft  TenancyFacts
}

// SupportedTopic reports whether a topic has a collection recipe.
func SupportedTopic(t Topic) bool {
	_, ok := requiredInputs[t]
	return ok
}

// Collect normalizes raw form values. It never fails: problems are recorded
// as Issues and IsComplete reports whether the form may be submitted.
// Postcodes are uppercased, counts that do not parse become 0, and negative
// numbers are clamped to 0 before anything is stored.
func Collect(topic Topic, values map[string]string) Form {
	form := Form{Topic: topic}
	get := func(key string) string { return strings.TrimSpace(values[key]) }

	required, ok := requiredInputs[topic]
	if !ok {
		form.addIssue("topic", fmt.Sprintf("unsupported topic %q", topic))
	}
	for _, key := range required {
		if get(key) == "" {
			form.addIssue(key, "is required")
		}
	}

	d := TenancyFacts{Topic: topic}
	d.Postcode = strings.ToUpper(strings.Join(strings.Fields(get(InputPostcode)), " "))
	d.AreaCode = referencedata.AreaCode(d.Postcode)

	if raw := get(InputJurisdiction); raw != "" {
		if j, ok := referencedata.ParseJurisdiction(raw); ok {
			d.Jurisdiction = j
		} else {
			form.addIssue(InputJurisdiction, fmt.Sprintf("unsupported jurisdiction %q", raw))
		}
	}

	d.Occupants = parseCount(get(InputOccupants))
	d.Households = parseCount(get(InputHouseholds))
	d.Storeys = parseCount(get(InputStoreys))
	d.LatePayments = parseCount(get(InputLatePayments))
	d.SharedFacilities = parseFlag(get(InputSharedFacilities))

	if raw := get(InputPropertyCategory); raw != "" {
		if c, ok := categoryAliases[enumKey(raw)]; ok {
			d.PropertyCategory = c
		} else {
			form.addIssue(InputPropertyCategory, fmt.Sprintf("unknown property category %q", raw))
		}
	}
	if raw := get(InputRentFrequency); raw != "" {
		if f, ok := frequencyAliases[enumKey(raw)]; ok {
			d.RentFrequency = f
		} else {
			form.addIssue(InputRentFrequency, fmt.Sprintf("unknown rent frequency %q", raw))
		}
	}

	d.RentPence = parsePence(get(InputRentAmount))
	d.ArrearsPence = parsePence(get(InputArrearsAmount))
	d.ClaimPence = parsePence(get(InputClaimAmount))

	if d.Households > d.Occupants {
		form.addIssue(InputHouseholds, "cannot exceed the number of occupants")
	}
	if topic == TopicArrears && get(InputRentAmount) != "" && d.RentPence == 0 {
		form.addIssue(InputRentAmount, "must be a positive amount")
	}
	if topic == TopicDebt && get(InputClaimAmount) != "" && d.ClaimPence == 0 {
		form.addIssue(InputClaimAmount, "must be a positive amount")
	}

	form.draft = d
	return form
}

// IsComplete is the single predicate gating submission.
func IsComplete(f Form) bool {
	return SupportedTopic(f.Topic) && len(f.Issues) == 0
}

// Facts builds the immutable snapshot. Incomplete forms are a validation error.
func (f Form) Facts() (TenancyFacts, error) {
	if !IsComplete(f) {
		return TenancyFacts{}, dErrors.New(dErrors.CodeValidation, "form is incomplete")
	}
	return f.draft, nil
}

// Draft exposes the normalized values regardless of completeness, for echoing
// back to the form.
func (f Form) Draft() TenancyFacts {
	return f.draft
}

func (f *Form) addIssue(field, msg string) {
	f.Issues = append(f.Issues, Issue{Field: field, Message: msg})
}

func enumKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// parseCount parses a non-negative integer; anything else is 0.
func parseCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1", "y":
		return true
	}
	return false
}

// parsePence reads a pounds amount such as "£3,000.00" or "1500" into pence.
// Unparseable or negative amounts are 0.
func parsePence(s string) int64 {
	s = strings.NewReplacer("£", "", ",", "", " ", "").Replace(s)
	s = strings.TrimPrefix(strings.ToUpper(s), "GBP")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) || v > 1e12 {
		return 0
	}
	return int64(math.Round(v * 100))
}
