package document

import (
	"fmt"
	"time"
	"unicode/utf8"

	"letwise/internal/facts"
	"letwise/internal/referencedata"
	"letwise/internal/rules"
)

const generatedLayout = "2 January 2006 15:04 MST"

// RenderInput is everything a document says. GeneratedAt is injected so the
// same input always renders the same blocks.
type RenderInput struct {
	Facts       facts.TenancyFacts
	Result      rules.ClassificationResult
	RuleSet     rules.RuleSet
	Area        referencedata.JurisdictionArea
	AreaFound   bool
	Mode        Mode
	GeneratedAt time.Time
}

// Renderer maps a classification to content blocks. It has no state beyond
// its templates and is safe for concurrent use.
type Renderer struct {
	templates map[facts.Topic]topicTemplate
}

func NewRenderer() *Renderer {
	return &Renderer{templates: templates}
}

// Render builds the fixed narrative for the input's topic. It only fails on
// inputs that cannot belong together.
func (r *Renderer) Render(in RenderInput) ([]Block, error) {
	tmpl, ok := r.templates[in.RuleSet.Topic]
	if !ok {
		return nil, fmt.Errorf("no document template for topic %q", in.RuleSet.Topic)
	}
	if in.Result.RuleSetID != in.RuleSet.ID {
		return nil, fmt.Errorf("result from rule set %q cannot render with %q", in.Result.RuleSetID, in.RuleSet.ID)
	}
	notice, ok := modeNotices[in.Mode]
	if !ok {
		return nil, fmt.Errorf("unknown document mode %q", in.Mode)
	}

	tier, ok := tmpl.tiers[in.Result.Tier]
	if !ok {
		tier = tierCopy{label: string(in.Result.Tier)}
	}

	blocks := []Block{
		Title(in.RuleSet.Title),
		Notice(notice),
		Heading("Your details"),
		KeyValue(append([]Pair{{Label: "Jurisdiction", Value: labelOr(jurisdictionLabels, in.Facts.Jurisdiction)}}, tmpl.inputs(in.Facts)...)...),
		Heading("Result"),
		KeyValue(
			Pair{Label: "Outcome", Value: tier.label},
			Pair{Label: "Rules applied", Value: fmt.Sprintf("%s (version %s)", in.RuleSet.ID, in.RuleSet.Version)},
		),
	}
	if tier.summary != "" {
		blocks = append(blocks, Paragraph(tier.summary))
	}

	blocks = append(blocks, Heading("Why"))
	if matches := in.Result.Matches(); len(matches) > 0 {
		items := make([]string, 0, len(matches))
		for _, m := range matches {
			items = append(items, matchLine(m, m.RuleID == in.Result.DecidingRule))
		}
		blocks = append(blocks, BulletList(items...))
	} else {
		blocks = append(blocks, Paragraph(reasonText[in.Result.Reason]))
	}

	blocks = append(blocks, Heading("About this check"))
	for _, p := range tmpl.about {
		blocks = append(blocks, Paragraph(p))
	}

	blocks = append(blocks, Heading("Next steps"))
	if tmpl.authoritySteps {
		blocks = append(blocks, authorityBlocks(in)...)
	}
	blocks = append(blocks, BulletList(tmpl.nextSteps...))

	blocks = append(blocks, Heading(tmpl.riskHeading))
	for _, p := range tmpl.risks {
		blocks = append(blocks, Paragraph(p))
	}

	blocks = append(blocks,
		Divider(),
		Paragraph(fmt.Sprintf("Generated %s. This report is guidance based on the details you gave and is not legal advice.",
			in.GeneratedAt.UTC().Format(generatedLayout))),
	)
	return blocks, nil
}

func matchLine(m rules.RuleEvaluation, deciding bool) string {
	line := fmt.Sprintf("%s: %s", m.Name, m.Description)
	if m.Advisory {
		line += " (guidance threshold, not set in law)"
	}
	if deciding {
		line += " [deciding rule]"
	}
	return line
}

// maxOutwardCode is the longest outward code a UK postcode can have.
const maxOutwardCode = 4

// areaPhrase names the postcode area without echoing arbitrary input.
func areaPhrase(code string) string {
	if code == "" || utf8.RuneCountInString(code) > maxOutwardCode {
		return "your postcode"
	}
	return "postcode area " + code
}

func authorityBlocks(in RenderInput) []Block {
	if !in.AreaFound {
		return []Block{Paragraph(fmt.Sprintf(
			"We could not match %s to a local authority. Contact your local authority to confirm which licensing schemes apply.",
			areaPhrase(in.Facts.AreaCode)))}
	}
	pairs := []Pair{{Label: "Local authority", Value: in.Area.Authority.Name}}
	if in.Area.Authority.Website != "" {
		pairs = append(pairs, Pair{Label: "Website", Value: in.Area.Authority.Website})
	}
	return []Block{
		Paragraph(fmt.Sprintf("Postcode area %s is covered by %s.", in.Area.AreaCode, in.Area.Authority.Name)),
		KeyValue(pairs...),
	}
}
