package document

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"letwise/internal/facts"
	"letwise/internal/referencedata"
	"letwise/internal/rules"
)

type RenderSuite struct {
	suite.Suite
	renderer *Renderer
	registry *rules.Registry
	now      time.Time
}

func TestRenderSuite(t *testing.T) {
	suite.Run(t, new(RenderSuite))
}

func (s *RenderSuite) SetupSuite() {
	registry, err := rules.DefaultRegistry()
	s.Require().NoError(err)
	s.registry = registry
	s.renderer = NewRenderer()
	s.now = time.Date(2024, 5, 6, 14, 0, 0, 0, time.UTC)
}

func (s *RenderSuite) hmoInput(occupants, households int, found bool) RenderInput {
	rs, err := s.registry.Lookup(referencedata.JurisdictionEngland, facts.TopicHMO)
	s.Require().NoError(err)
	f := facts.TenancyFacts{
		Topic:            facts.TopicHMO,
		Jurisdiction:     referencedata.JurisdictionEngland,
		Postcode:         "M1 5AB",
		AreaCode:         "M1",
		Occupants:        occupants,
		Households:       households,
		PropertyCategory: facts.PropertyHouse,
		SharedFacilities: true,
	}
	in := RenderInput{
		Facts:       f,
		Result:      rules.Evaluate(f, rs),
		RuleSet:     rs,
		AreaFound:   found,
		Mode:        ModePaid,
		GeneratedAt: s.now,
	}
	if found {
		in.Area = referencedata.JurisdictionArea{
			AreaCode:  "M1",
			Authority: referencedata.Authority{Name: "Manchester City Council", Website: "https://www.manchester.gov.uk", Jurisdiction: referencedata.JurisdictionEngland},
		}
	}
	return in
}

func allText(blocks []Block) string {
	var b strings.Builder
	for _, block := range blocks {
		b.WriteString(block.Text)
		for _, p := range block.Pairs {
			b.WriteString(p.Label + ": " + p.Value + "\n")
		}
		for _, item := range block.Items {
			b.WriteString(item + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Narrative
// =============================================================================
// Justification: the report must name the outcome and the threshold that
// produced it; these are the statements a landlord acts on.

func (s *RenderSuite) TestMandatoryLicenceReport() {
	blocks, err := s.renderer.Render(s.hmoInput(5, 2, true))
	s.Require().NoError(err)

	s.Equal(KindTitle, blocks[0].Kind)
	s.Equal(KindNotice, blocks[1].Kind)

	text := allText(blocks)
	s.Contains(text, "Outcome: Mandatory HMO licence required")
	s.Contains(text, "5 or more occupants")
	s.Contains(text, "[deciding rule]")
	s.Contains(text, "Local authority: Manchester City Council")
	s.Contains(text, "Generated 6 May 2024 14:00 UTC")
}

func (s *RenderSuite) TestLowestTierExplainsDefault() {
	blocks, err := s.renderer.Render(s.hmoInput(2, 1, true))
	s.Require().NoError(err)

	text := allText(blocks)
	s.Contains(text, "Outcome: No HMO licence indicated")
	s.Contains(text, reasonText[rules.ReasonNoRuleMatched])
	s.NotContains(text, "[deciding rule]")
}

func (s *RenderSuite) TestAuthorityFallback() {
	in := s.hmoInput(5, 2, false)
	in.Facts.Postcode = "ZZ9 9ZZ"
	in.Facts.AreaCode = "ZZ9"

	blocks, err := s.renderer.Render(in)
	s.Require().NoError(err)
	text := allText(blocks)
	s.Contains(text, "Contact your local authority")
	s.Contains(text, "We could not match postcode area ZZ9 to a local authority")
}

func (s *RenderSuite) TestAuthorityFallbackDoesNotEchoLongInput() {
	in := s.hmoInput(5, 2, false)
	in.Facts.Postcode = strings.Repeat("W", 90)
	in.Facts.AreaCode = in.Facts.Postcode

	blocks, err := s.renderer.Render(in)
	s.Require().NoError(err)

	var fallback string
	for _, b := range blocks {
		if strings.HasPrefix(b.Text, "We could not match") {
			fallback = b.Text
		}
	}
	s.Require().NotEmpty(fallback)
	s.Contains(fallback, "We could not match your postcode")
	s.NotContains(fallback, "WWWWW")
}

func (s *RenderSuite) TestAdvisoryRulesAreFlagged() {
	blocks, err := s.renderer.Render(s.hmoInput(3, 2, true))
	s.Require().NoError(err)
	s.Contains(allText(blocks), "guidance threshold, not set in law")
}

func (s *RenderSuite) TestModeNotice() {
	in := s.hmoInput(5, 2, true)
	in.Mode = ModePreview
	blocks, err := s.renderer.Render(in)
	s.Require().NoError(err)
	s.Contains(blocks[1].Text, "PREVIEW")

	in.Mode = "draft"
	_, err = s.renderer.Render(in)
	s.Error(err)
}

func (s *RenderSuite) TestMismatchedResultIsRejected() {
	in := s.hmoInput(5, 2, true)
	in.Result.RuleSetID = "arrears-england"
	_, err := s.renderer.Render(in)
	s.ErrorContains(err, "cannot render")
}

func (s *RenderSuite) TestRenderIsPure() {
	in := s.hmoInput(5, 2, true)
	first, err := s.renderer.Render(in)
	s.Require().NoError(err)
	for i := 0; i < 10; i++ {
		again, err := s.renderer.Render(in)
		s.Require().NoError(err)
		s.Equal(first, again)
	}
}

func TestPounds(t *testing.T) {
	cases := map[int64]string{
		0:         "£0.00",
		5:         "£0.05",
		123456:    "£1,234.56",
		100000000: "£1,000,000.00",
	}
	for pence, want := range cases {
		assert.Equal(t, want, pounds(pence))
	}
}

func TestEveryTemplateCoversItsTiers(t *testing.T) {
	registry, err := rules.DefaultRegistry()
	require.NoError(t, err)

	for _, rs := range registry.All() {
		tmpl, ok := templates[rs.Topic]
		require.True(t, ok, rs.ID)
		for _, tier := range rs.Tiers {
			_, ok := tmpl.tiers[tier]
			assert.True(t, ok, "%s: tier %s has no wording", rs.ID, tier)
		}
	}
}
