package wizard

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLink(t *testing.T) {
	t.Run("all four parameters are present", func(t *testing.T) {
		raw := BuildLink("money_claim", "england", "debt", "guide")

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, DefaultEntryPath, u.Path)

		q := u.Query()
		assert.Len(t, q, 4)
		assert.Equal(t, "money_claim", q.Get(ParamProduct))
		assert.Equal(t, "england", q.Get(ParamJurisdiction))
		assert.Equal(t, "debt", q.Get(ParamTopic))
		assert.Equal(t, "guide", q.Get(ParamSource))
	})

	t.Run("values are percent-encoded", func(t *testing.T) {
		raw := BuildLink("hmo check", "england", "hmo", "blog&x=1/é")

		assert.NotContains(t, raw, " ")
		assert.NotContains(t, raw, "x=1")

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "hmo check", u.Query().Get(ParamProduct))
		assert.Equal(t, "blog&x=1/é", u.Query().Get(ParamSource))
		assert.Len(t, u.Query(), 4)
	})

	t.Run("surrounding whitespace survives the round trip", func(t *testing.T) {
		raw := BuildLink(" x ", "england", "hmo", "\tnewsletter ")

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, " x ", u.Query().Get(ParamProduct))
		assert.Equal(t, "\tnewsletter ", u.Query().Get(ParamSource))
		assert.NotContains(t, raw, " ")
	})

	t.Run("empty fields are omitted", func(t *testing.T) {
		raw := BuildLink("tenancy_agreement", "", " ", "")
		assert.Equal(t, "/wizard?product=tenancy_agreement", raw)
		assert.Equal(t, "/wizard", BuildLink("", "", "", ""))
	})

	t.Run("pure function of its inputs", func(t *testing.T) {
		assert.Equal(t, BuildLink("a", "b", "c", "d"), BuildLink("a", "b", "c", "d"))
	})
}

func TestRouterEntryPath(t *testing.T) {
	assert.Equal(t, "/start", NewRouter("start").EntryPath())
	assert.Equal(t, DefaultEntryPath, NewRouter("").EntryPath())

	link := NewRouter("/tools/wizard").Link(Link{Product: ProductEvictionNotice, Source: "footer"})
	assert.True(t, strings.HasPrefix(link, "/tools/wizard?"))
}

func TestParseParams(t *testing.T) {
	t.Run("absent parameters take defaults", func(t *testing.T) {
		l := ParseParams(url.Values{})
		assert.Equal(t, Link{Product: ProductHMOCheck, Jurisdiction: "england", Topic: "hmo", Source: "direct"}, l)
	})

	t.Run("topic follows the product", func(t *testing.T) {
		l := ParseParams(url.Values{ParamProduct: {ProductMoneyClaim}})
		assert.Equal(t, "debt", l.Topic)
	})

	t.Run("product without a checker has no topic", func(t *testing.T) {
		l := ParseParams(url.Values{ParamProduct: {ProductTenancyAgreement}})
		assert.Empty(t, l.Topic)
	})

	t.Run("round trip", func(t *testing.T) {
		want := Link{Product: ProductEvictionNotice, Jurisdiction: "wales", Topic: "arrears", Source: "guide"}
		u, err := url.Parse(NewRouter("").Link(want))
		require.NoError(t, err)
		assert.Equal(t, want, ParseParams(u.Query()))
	})
}
