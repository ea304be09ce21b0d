package pdf

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letwise/internal/document"
	"letwise/internal/facts"
	"letwise/internal/referencedata"
	"letwise/internal/rules"
)

func sampleBlocks() []document.Block {
	return []document.Block{
		document.Title("HMO Licensing Check"),
		document.Notice("PREVIEW. Sample only."),
		document.KeyValue(document.Pair{Label: "Claim value", Value: "£12,500.00"}),
		document.Divider(),
		document.Paragraph("Generated for testing."),
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	assembler, err := document.NewAssembler(New())
	require.NoError(t, err)

	meta := document.Meta{
		Title:        "HMO Licensing Check",
		DocumentKind: "HMOLicensingReport",
		Mode:         document.ModePreview,
		GeneratedAt:  time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Serial:       "7",
	}

	first, err := assembler.Assemble(context.Background(), sampleBlocks(), meta)
	require.NoError(t, err)
	second, err := assembler.Assemble(context.Background(), sampleBlocks(), meta)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(first.Bytes, []byte("%PDF-")))
	assert.Equal(t, first.Bytes, second.Bytes)
	assert.Equal(t, ContentType, first.ContentType)
	assert.Equal(t, "HMOLicensingReport-preview-7.pdf", first.Filename)
	assert.Equal(t, 1, first.Pages)
}

func TestEncodeHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	layout, err := document.Pack(sampleBlocks(), document.A4, New())
	require.NoError(t, err)

	_, err = New().Encode(ctx, layout, document.Meta{Mode: document.ModePaid})
	assert.ErrorIs(t, err, context.Canceled)
}

// hostileBlocks renders a real HMO report for a postcode far wider than the
// page, followed by all-capitals text in every bold style.
func hostileBlocks(t *testing.T) []document.Block {
	t.Helper()
	form := facts.Collect(facts.TopicHMO, map[string]string{
		facts.InputPostcode:   strings.Repeat("W", 90),
		facts.InputOccupants:  "5",
		facts.InputHouseholds: "2",
	})
	f, err := form.Facts()
	require.NoError(t, err)
	f = f.WithJurisdiction(referencedata.JurisdictionEngland)

	registry, err := rules.DefaultRegistry()
	require.NoError(t, err)
	rs, err := registry.Lookup(referencedata.JurisdictionEngland, facts.TopicHMO)
	require.NoError(t, err)

	blocks, err := document.NewRenderer().Render(document.RenderInput{
		Facts:       f,
		Result:      rules.Evaluate(f, rs),
		RuleSet:     rs,
		Mode:        document.ModePreview,
		GeneratedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	caps := strings.Repeat("MANDATORY HMO LICENCE WWW ", 8)
	return append(blocks,
		document.Title(caps),
		document.Heading(caps),
		document.Notice(caps),
		document.KeyValue(document.Pair{Label: "AUTHORITY", Value: caps}),
		document.BulletList(caps),
	)
}

func TestLinesFitThePageWithHelveticaMetrics(t *testing.T) {
	enc := New()
	layout, err := document.Pack(hostileBlocks(t), document.A4, enc)
	require.NoError(t, err)

	limit := document.A4.Width - document.A4.Margin + 0.001
	for _, page := range layout.Pages {
		for _, line := range page.Lines {
			if line.Rule {
				continue
			}
			right := line.X + enc.Measure(line.Text, line.Size, line.Bold)
			assert.LessOrEqual(t, right, limit, "page %d: %q", page.Number, line.Text)
		}
	}

	_, err = enc.Encode(context.Background(), layout, document.Meta{
		DocumentKind: strings.Repeat("HMOLicensingReport", 10),
		Mode:         document.ModePreview,
	})
	assert.NoError(t, err)
}

func TestMeasureUsesFontMetrics(t *testing.T) {
	enc := New()
	assert.Greater(t, enc.Measure("WWWW", 10, false), enc.Measure("iiii", 10, false))
	assert.Greater(t, enc.Measure("WWWW", 10, true), enc.Measure("WWWW", 10, false))
	assert.InDelta(t, 2*enc.Measure("WW", 10, false), enc.Measure("WW", 20, false), 0.001)
}
