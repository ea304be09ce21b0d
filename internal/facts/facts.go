// Package facts turns raw form input into an immutable TenancyFacts snapshot.
//
// Rules never read struct fields directly. They go through Number and Text
// with a Field name, so a rule set is plain data and a new topic needs no new
// evaluator code.
package facts

import (
	"letwise/internal/referencedata"
)

// Topic selects which facts are collected and which rule sets apply.
type Topic string

const (
	TopicHMO     Topic = "hmo"
	TopicArrears Topic = "arrears"
	TopicDebt    Topic = "debt"
)

// PropertyCategory enumerates the property types the checkers distinguish.
type PropertyCategory string

const (
	PropertyHouse        PropertyCategory = "house"
	PropertyFlat         PropertyCategory = "flat"
	PropertyConverted    PropertyCategory = "converted"
	PropertyPurposeBuilt PropertyCategory = "purpose_built"
	PropertyBedsit       PropertyCategory = "bedsit"
)

// RentFrequency is how often rent falls due.
type RentFrequency string

const (
	RentWeekly      RentFrequency = "weekly"
	RentFortnightly RentFrequency = "fortnightly"
	RentMonthly     RentFrequency = "monthly"
)

// Field names a fact that rules may test.
type Field string

const (
	FieldOccupants        Field = "occupants"
	FieldHouseholds       Field = "households"
	FieldStoreys          Field = "storeys"
	FieldSharedFacilities Field = "shared_facilities"
	FieldPropertyCategory Field = "property_category"
	FieldRentFrequency    Field = "rent_frequency"
	FieldArrearsWeeks     Field = "arrears_weeks"
	FieldArrearsMonths    Field = "arrears_months"
	FieldArrearsPounds    Field = "arrears_pounds"
	FieldLatePayments     Field = "late_payments"
	FieldClaimPounds      Field = "claim_pounds"
)

// FieldKind says whether a field is read with Number or Text.
type FieldKind int

const (
	KindNumber FieldKind = iota + 1
	KindText
)

var fieldKinds = map[Field]FieldKind{
	FieldOccupants:        KindNumber,
	FieldHouseholds:       KindNumber,
	FieldStoreys:          KindNumber,
	FieldSharedFacilities: KindNumber,
	FieldPropertyCategory: KindText,
	FieldRentFrequency:    KindText,
	FieldArrearsWeeks:     KindNumber,
	FieldArrearsMonths:    KindNumber,
	FieldArrearsPounds:    KindNumber,
	FieldLatePayments:     KindNumber,
	FieldClaimPounds:      KindNumber,
}

// KindOf reports the kind of a field, or false for an unknown field.
func KindOf(f Field) (FieldKind, bool) {
	k, ok := fieldKinds[f]
	return k, ok
}

// TenancyFacts is the snapshot of user input for one evaluation. It is
// created once by Form.Facts, passed by value, and never mutated.
//
// Invariants:
//   - all counts and amounts are non-negative
//   - Households <= Occupants
type TenancyFacts struct {
	Topic        Topic
	Jurisdiction referencedata.Jurisdiction
	Postcode     string
	AreaCode     string

	Occupants        int
	Households       int
	Storeys          int
	PropertyCategory PropertyCategory
	SharedFacilities bool

	RentFrequency RentFrequency
	RentPence     int64
	ArrearsPence  int64
	LatePayments  int

	ClaimPence int64
}

// WithJurisdiction returns a copy carrying the resolved jurisdiction.
func (f TenancyFacts) WithJurisdiction(j referencedata.Jurisdiction) TenancyFacts {
	f.Jurisdiction = j
	return f
}

// Number reads a numeric field. Booleans read as 0 or 1.
func (f TenancyFacts) Number(field Field) (int64, bool) {
	switch field {
	case FieldOccupants:
		return int64(f.Occupants), true
	case FieldHouseholds:
		return int64(f.Households), true
	case FieldStoreys:
		return int64(f.Storeys), true
	case FieldSharedFacilities:
		if f.SharedFacilities {
			return 1, true
		}
		return 0, true
	case FieldArrearsWeeks:
		return f.ArrearsWeeks(), true
	case FieldArrearsMonths:
		return f.ArrearsMonths(), true
	case FieldArrearsPounds:
		return f.ArrearsPence / 100, true
	case FieldLatePayments:
		return int64(f.LatePayments), true
	case FieldClaimPounds:
		return f.ClaimPence / 100, true
	}
	return 0, false
}

// Text reads an enumerated field.
func (f TenancyFacts) Text(field Field) (string, bool) {
	switch field {
	case FieldPropertyCategory:
		return string(f.PropertyCategory), true
	case FieldRentFrequency:
		return string(f.RentFrequency), true
	}
	return "", false
}

// ArrearsWeeks is the number of whole weeks' rent unpaid for weekly and
// fortnightly tenancies. Monthly tenancies count in months instead.
func (f TenancyFacts) ArrearsWeeks() int64 {
	if f.RentPence <= 0 {
		return 0
	}
	switch f.RentFrequency {
	case RentWeekly:
		return f.ArrearsPence / f.RentPence
	case RentFortnightly:
		return f.ArrearsPence * 2 / f.RentPence
	}
	return 0
}

// ArrearsMonths is the number of whole months' rent unpaid for monthly tenancies.
func (f TenancyFacts) ArrearsMonths() int64 {
	if f.RentPence <= 0 || f.RentFrequency != RentMonthly {
		return 0
	}
	return f.ArrearsPence / f.RentPence
}
