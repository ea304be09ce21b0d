// Package wizard builds and parses the links that enter the fact-collection
// flow with a product, jurisdiction, topic and referral source preset.
package wizard

import (
	"net/url"
	"strings"
)

// Query parameter names. No other parameters are part of a wizard link.
const (
	ParamProduct      = "product"
	ParamJurisdiction = "jurisdiction"
	ParamTopic        = "topic"
	ParamSource       = "src"
)

// DefaultEntryPath is where the wizard is mounted.
const DefaultEntryPath = "/wizard"

// Link is the addressing tuple of a wizard entry.
type Link struct {
	Product      string `json:"product,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	Topic        string `json:"topic,omitempty"`
	Source       string `json:"src,omitempty"`
}

// Router renders links against a configurable entry path.
type Router struct {
	entryPath string
}

// NewRouter returns a router for entryPath, which gains a leading slash if it
// lacks one. An empty path falls back to DefaultEntryPath.
func NewRouter(entryPath string) *Router {
	entryPath = strings.TrimSpace(entryPath)
	if entryPath == "" {
		entryPath = DefaultEntryPath
	}
	if !strings.HasPrefix(entryPath, "/") {
		entryPath = "/" + entryPath
	}
	return &Router{entryPath: entryPath}
}

// EntryPath is the path links point at.
func (r *Router) EntryPath() string { return r.entryPath }

// Link renders l as "<entry>?product=..&jurisdiction=..&topic=..&src=..".
// Values are percent-encoded as given. Fields that are empty or only
// whitespace are left out, so a link with no fields is just the entry path.
func (r *Router) Link(l Link) string {
	var b strings.Builder
	b.WriteString(r.entryPath)
	sep := byte('?')
	for _, kv := range [...][2]string{
		{ParamProduct, l.Product},
		{ParamJurisdiction, l.Jurisdiction},
		{ParamTopic, l.Topic},
		{ParamSource, l.Source},
	} {
		v := kv[1]
		if strings.TrimSpace(v) == "" {
			continue
		}
		b.WriteByte(sep)
		b.WriteString(kv[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
		sep = '&'
	}
	return b.String()
}

var defaultRouter = NewRouter(DefaultEntryPath)

// BuildLink renders a link against DefaultEntryPath.
func BuildLink(product, jurisdiction, topic, source string) string {
	return defaultRouter.Link(Link{Product: product, Jurisdiction: jurisdiction, Topic: topic, Source: source})
}
