package wizard

import (
	"net/url"
	"strings"

	"letwise/internal/facts"
	"letwise/internal/referencedata"
)

// Products offered through the wizard.
const (
	ProductHMOCheck         = "hmo_check"
	ProductEvictionNotice   = "eviction_notice"
	ProductMoneyClaim       = "money_claim"
	ProductTenancyAgreement = "tenancy_agreement"
)

// Defaults applied by ParseParams when a parameter is absent.
const (
	DefaultProduct      = ProductHMOCheck
	DefaultJurisdiction = string(referencedata.JurisdictionEngland)
	DefaultSource       = "direct"
)

// productTopics maps a product to the checker topic it starts. Products
// without a checker have no entry.
var productTopics = map[string]facts.Topic{
	ProductHMOCheck:       facts.TopicHMO,
	ProductEvictionNotice: facts.TopicArrears,
	ProductMoneyClaim:     facts.TopicDebt,
}

// DefaultTopic is the checker topic a product starts, if any.
func DefaultTopic(product string) (facts.Topic, bool) {
	t, ok := productTopics[product]
	return t, ok
}

// ParseParams reads a wizard link's query. Absent or blank parameters take
// the documented defaults; present values are kept as given since the
// identifiers are opaque to the link itself.
func ParseParams(q url.Values) Link {
	get := func(key string) string { return strings.TrimSpace(q.Get(key)) }

	l := Link{
		Product:      get(ParamProduct),
		Jurisdiction: get(ParamJurisdiction),
		Topic:        get(ParamTopic),
		Source:       get(ParamSource),
	}
	if l.Product == "" {
		l.Product = DefaultProduct
	}
	if l.Jurisdiction == "" {
		l.Jurisdiction = DefaultJurisdiction
	}
	if l.Topic == "" {
		if t, ok := DefaultTopic(l.Product); ok {
			l.Topic = string(t)
		}
	}
	if l.Source == "" {
		l.Source = DefaultSource
	}
	return l
}
