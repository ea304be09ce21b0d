package document

import (
	"fmt"
	"strconv"

	"letwise/internal/facts"
	"letwise/internal/referencedata"
	"letwise/internal/rules"
)

// tierCopy is the wording for one classification tier.
type tierCopy struct {
	label   string
	summary string
}

// topicTemplate holds the fixed narrative for one topic. Everything except
// the input echo, the matched rules and the authority is static text.
type topicTemplate struct {
	inputs func(f facts.TenancyFacts) []Pair
	tiers  map[rules.Tier]tierCopy
	about  []string
	// authoritySteps adds the local authority contact to the next steps.
	authoritySteps bool
	nextSteps      []string
	riskHeading    string
	risks          []string
}

var categoryLabels = map[facts.PropertyCategory]string{
	facts.PropertyHouse:        "House",
	facts.PropertyFlat:         "Flat",
	facts.PropertyConverted:    "Converted building",
	facts.PropertyPurposeBuilt: "Purpose-built block",
	facts.PropertyBedsit:       "Bedsit",
}

var frequencyLabels = map[facts.RentFrequency]string{
	facts.RentWeekly:      "Weekly",
	facts.RentFortnightly: "Fortnightly",
	facts.RentMonthly:     "Monthly",
}

var jurisdictionLabels = map[referencedata.Jurisdiction]string{
	referencedata.JurisdictionEngland:  "England",
	referencedata.JurisdictionWales:    "Wales",
	referencedata.JurisdictionScotland: "Scotland",
}

var modeNotices = map[Mode]string{
	ModePreview: "PREVIEW. This is a sample of your report. Purchase the full document to remove this notice.",
	ModePaid:    "Full report. Keep a copy with your tenancy records.",
}

var reasonText = map[rules.Reason]string{
	rules.ReasonNoRuleMatched: "None of the thresholds in this check were met by the details you gave.",
	rules.ReasonNoEvidence:    "You did not give any details that could meet a threshold, so the lowest outcome applies.",
}

var templates = map[facts.Topic]topicTemplate{
	facts.TopicHMO: {
		inputs: func(f facts.TenancyFacts) []Pair {
			return []Pair{
				{Label: "Postcode", Value: orDash(f.Postcode)},
				{Label: "Property type", Value: labelOr(categoryLabels, f.PropertyCategory)},
				{Label: "Occupants", Value: strconv.Itoa(f.Occupants)},
				{Label: "Households", Value: strconv.Itoa(f.Households)},
				{Label: "Storeys", Value: countOrDash(f.Storeys)},
				{Label: "Shared kitchen, bathroom or toilet", Value: yesNo(f.SharedFacilities)},
			}
		},
		tiers: map[rules.Tier]tierCopy{
			"HIGH": {
				label:   "Mandatory HMO licence required",
				summary: "Your property meets the mandatory HMO licensing threshold. You must hold a licence from the local housing authority before letting it in this way.",
			},
			"MEDIUM": {
				label:   "Licence may be required",
				summary: "Your property is likely to be an HMO. It does not meet the mandatory threshold, but many councils run additional licensing schemes that cover it.",
			},
			"LOW": {
				label:   "No HMO licence indicated",
				summary: "Based on the details you gave, your property does not need an HMO licence. Selective licensing schemes may still apply in some areas.",
			},
		},
		about: []string{
			"A house in multiple occupation (HMO) is a property let to three or more people who form more than one household and share facilities such as a kitchen, bathroom or toilet.",
			"A household is a single person or members of the same family living together, including couples and close relatives.",
		},
		authoritySteps: true,
		nextSteps: []string{
			"Check the licensing schemes published by the authority for your area.",
			"Apply before the property is occupied in a way that needs a licence.",
			"Keep fire safety, gas and electrical certificates ready for inspection.",
		},
		riskHeading: "Penalties",
		risks: []string{
			"Operating an unlicensed HMO is a criminal offence. Councils can issue civil penalties of up to £30,000 per offence or prosecute, with unlimited fines.",
			"Tenants can apply for a rent repayment order of up to 12 months' rent, and a section 21 notice cannot be served while a required licence is missing.",
		},
	},
	facts.TopicArrears: {
		inputs: func(f facts.TenancyFacts) []Pair {
			return []Pair{
				{Label: "Rent frequency", Value: labelOr(frequencyLabels, f.RentFrequency)},
				{Label: "Rent per period", Value: pounds(f.RentPence)},
				{Label: "Arrears", Value: pounds(f.ArrearsPence)},
				{Label: "Late payments in the last year", Value: strconv.Itoa(f.LatePayments)},
			}
		},
		tiers: map[rules.Tier]tierCopy{
			"MANDATORY": {
				label:   "Mandatory ground available",
				summary: "The arrears meet Ground 8. If they still meet it at the hearing, the court must order possession.",
			},
			"DISCRETIONARY": {
				label:   "Discretionary ground available",
				summary: "Discretionary grounds apply. The court will decide whether it is reasonable to order possession.",
			},
			"NONE": {
				label:   "No arrears ground indicated",
				summary: "The details you gave do not support a rent arrears ground for possession.",
			},
		},
		about: []string{
			"Possession grounds for assured tenancies are set out in Schedule 2 to the Housing Act 1988. Ground 8 is mandatory; Grounds 10 and 11 are discretionary.",
			"Arrears are counted in whole rent periods. Part-periods do not count towards Ground 8.",
		},
		nextSteps: []string{
			"Serve a section 8 notice naming every ground you rely on.",
			"Keep a rent statement showing each payment due and received.",
			"Check the arrears again on the day of the hearing.",
		},
		riskHeading: "Risks",
		risks: []string{
			"If the arrears fall below the Ground 8 threshold by the hearing, the mandatory ground fails and the court may adjourn or dismiss the claim.",
		},
	},
	facts.TopicDebt: {
		inputs: func(f facts.TenancyFacts) []Pair {
			return []Pair{
				{Label: "Claim value", Value: pounds(f.ClaimPence)},
			}
		},
		tiers: map[rules.Tier]tierCopy{
			"SMALL_CLAIMS":       {label: "Small claims track", summary: "Your claim is likely to be allocated to the small claims track. Legal costs are not usually recoverable."},
			"FAST_TRACK":         {label: "Fast track", summary: "Your claim is likely to be allocated to the fast track, with fixed recoverable costs."},
			"INTERMEDIATE_TRACK": {label: "Intermediate track", summary: "Your claim is likely to be allocated to the intermediate track."},
			"MULTI_TRACK":        {label: "Multi-track", summary: "Your claim is likely to be allocated to the multi-track. Consider taking legal advice."},
		},
		about: []string{
			"The county court allocates defended money claims to a track based mainly on value. The judge can allocate differently if the claim is complex.",
		},
		nextSteps: []string{
			"Send a letter before claim and allow 30 days for a reply.",
			"Issue the claim online or on form N1 with the court fee.",
		},
		riskHeading: "Costs",
		risks: []string{
			"Court fees rise with the claim value and are only recovered if you win and the defendant can pay.",
		},
	},
}

func labelOr[K comparable](labels map[K]string, key K) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return orDash(fmt.Sprint(key))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func countOrDash(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// pounds formats pence as "£1,234.56".
func pounds(pence int64) string {
	whole := strconv.FormatInt(pence/100, 10)
	for i := len(whole) - 3; i > 0; i -= 3 {
		whole = whole[:i] + "," + whole[i:]
	}
	return fmt.Sprintf("£%s.%02d", whole, pence%100)
}
