package preview

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letwise/internal/document"
)

func TestEncodeFirstPage(t *testing.T) {
	blocks := []document.Block{
		document.Title("Money Claim Track Allocation"),
		document.Notice("PREVIEW. Sample only."),
		document.Paragraph("Claims up to £10,000 are normally allocated to the small claims track."),
	}
	meta := document.Meta{
		DocumentKind: "MoneyClaimTrackReport",
		Mode:         document.ModePreview,
		GeneratedAt:  time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}

	assembler, err := document.NewAssembler(New(WithScale(0.5)))
	require.NoError(t, err)

	first, err := assembler.Assemble(context.Background(), blocks, meta)
	require.NoError(t, err)
	second, err := assembler.Assemble(context.Background(), blocks, meta)
	require.NoError(t, err)
	assert.Equal(t, first.Bytes, second.Bytes)
	assert.Equal(t, "MoneyClaimTrackReport-preview-20240301T093000Z.png", first.Filename)

	img, err := png.Decode(bytes.NewReader(first.Bytes))
	require.NoError(t, err)
	assert.Equal(t, 298, img.Bounds().Dx())
	assert.Equal(t, 421, img.Bounds().Dy())
}

func TestEncodePageOutOfRange(t *testing.T) {
	layout, err := document.Pack([]document.Block{document.Paragraph("one page")}, document.A4, New())
	require.NoError(t, err)

	_, err = New(WithPage(3)).Encode(context.Background(), layout, document.Meta{Mode: document.ModePaid})
	assert.ErrorContains(t, err, "out of range")
}

func TestLinesFitThePageWithGoFontMetrics(t *testing.T) {
	caps := strings.Repeat("MANDATORY HMO LICENCE WWW ", 8)
	blocks := []document.Block{
		document.Title(caps),
		document.Heading(caps),
		document.Notice(caps),
		document.Paragraph(strings.Repeat("W", 90)),
		document.KeyValue(document.Pair{Label: "Postcode", Value: strings.Repeat("W", 90)}),
		document.BulletList(caps, strings.Repeat("M", 120)),
	}

	enc := New()
	layout, err := document.Pack(blocks, document.A4, enc)
	require.NoError(t, err)

	limit := document.A4.Width - document.A4.Margin + 0.001
	for _, page := range layout.Pages {
		for _, line := range page.Lines {
			right := line.X + enc.Measure(line.Text, line.Size, line.Bold)
			assert.LessOrEqual(t, right, limit, "page %d: %q", page.Number, line.Text)
		}
	}
	assert.Greater(t, enc.Measure("WWWW", 10, false), enc.Measure("iiii", 10, false))
}
