package document

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textEncoder writes each line's text; enough to check what reached the
// encoder without a binary format.
type textEncoder struct{ fail error }

func (textEncoder) ContentType() string { return "text/plain" }

// Measure gives every rune half an em, which keeps page arithmetic in the
// tests simple.
func (textEncoder) Measure(text string, size float64, _ bool) float64 {
	return halfEm.Measure(text, size, false)
}
func (textEncoder) Extension() string   { return "txt" }

func (e textEncoder) Encode(_ context.Context, layout Layout, meta Meta) ([]byte, error) {
	if e.fail != nil {
		return nil, e.fail
	}
	var b strings.Builder
	for _, p := range layout.Pages {
		for _, l := range p.Lines {
			b.WriteString(l.Text + "\n")
		}
		b.WriteString(meta.Watermark(p.Number, layout.PageCount()) + "\n")
	}
	return []byte(b.String()), nil
}

type fixedEm float64

func (f fixedEm) Measure(text string, size float64, _ bool) float64 {
	return float64(len([]rune(text))) * size * float64(f)
}

const halfEm = fixedEm(0.5)

func manyParagraphs(n int) []Block {
	blocks := make([]Block, 0, n)
	for i := 0; i < n; i++ {
		blocks = append(blocks, Paragraph(strings.Repeat("word ", 60)))
	}
	return blocks
}

// assertInsideCanvas checks every line with the measurer that laid it out.
func assertInsideCanvas(t *testing.T, layout Layout, m Measurer) {
	t.Helper()
	size := layout.Size
	for _, page := range layout.Pages {
		for _, line := range page.Lines {
			assert.GreaterOrEqual(t, line.X, size.Margin)
			assert.LessOrEqual(t, line.Y, size.Height-size.Margin-size.Footer)
			if line.Rule {
				assert.LessOrEqual(t, line.X+line.Width, size.Width-size.Margin+0.001)
				continue
			}
			right := line.X + m.Measure(line.Text, line.Size, line.Bold)
			assert.LessOrEqual(t, right, size.Width-size.Margin+0.001, "page %d: %q", page.Number, line.Text)
		}
	}
}

func TestPackKeepsLinesInsideCanvas(t *testing.T) {
	wide := strings.Repeat("W", 90)
	blocks := []Block{
		Title(strings.ToUpper("houses in multiple occupation licensing check for " + wide)),
		Notice("PREVIEW. " + strings.Repeat("WIDE CAPITALS ", 12)),
		KeyValue(Pair{Label: "Postcode", Value: wide}, Pair{Label: "Area", Value: "W W W " + wide}),
		BulletList(wide, "Mandatory licence: "+wide),
		Paragraph("We could not match " + wide + " to a local authority."),
		Divider(),
	}
	blocks = append(blocks, manyParagraphs(30)...)

	for name, m := range map[string]Measurer{"worst case": WorstCase, "half em": halfEm, "wide glyphs": fixedEm(1.1)} {
		t.Run(name, func(t *testing.T) {
			layout, err := Pack(blocks, A4, m)
			require.NoError(t, err)
			require.Greater(t, layout.PageCount(), 1)
			assertInsideCanvas(t, layout, m)
		})
	}
}

func TestPackNilMeasurerIsWorstCase(t *testing.T) {
	blocks := []Block{Paragraph(strings.Repeat("W", 200))}
	withNil, err := Pack(blocks, A4, nil)
	require.NoError(t, err)
	worst, err := Pack(blocks, A4, WorstCase)
	require.NoError(t, err)
	assert.Equal(t, worst, withNil)
}

func TestPackPageCountIsMinimalForEqualBlocks(t *testing.T) {
	// every paragraph wraps to 4 lines: 4*14 + 6 after = 62pt
	blocks := manyParagraphs(20)
	layout, err := Pack(blocks, A4, halfEm)
	require.NoError(t, err)

	perPage := int((A4.ContentHeight() + styles[KindParagraph].SpaceAfter) / 62)
	want := (len(blocks) + perPage - 1) / perPage
	assert.Equal(t, want, layout.PageCount())
	for i, page := range layout.Pages {
		assert.Equal(t, i+1, page.Number)
	}
}

func TestPackNeverSplitsABlock(t *testing.T) {
	blocks := append(manyParagraphs(10), BulletList(strings.Split(strings.Repeat("item ", 12), " ")[:12]...))
	layout, err := Pack(blocks, A4, halfEm)
	require.NoError(t, err)

	bulletsPerPage := map[int]int{}
	for _, page := range layout.Pages {
		for _, line := range page.Lines {
			if line.Kind == KindBulletList {
				bulletsPerPage[page.Number]++
			}
		}
	}
	assert.Equal(t, map[int]int{2: 12}, bulletsPerPage)
}

func TestPackErrors(t *testing.T) {
	t.Run("block taller than a page", func(t *testing.T) {
		huge := Paragraph(strings.Repeat("overflowing text ", 2000))
		_, err := Pack([]Block{Title("x"), huge}, A4, halfEm)
		assert.True(t, errors.Is(err, ErrBlockTooTall))
	})

	t.Run("unknown block kind", func(t *testing.T) {
		_, err := Pack([]Block{{Kind: "image"}}, A4, halfEm)
		assert.ErrorContains(t, err, "unknown block kind")
	})

	t.Run("page without content area", func(t *testing.T) {
		_, err := Pack([]Block{Title("x")}, PageSize{Width: 100, Height: 100, Margin: 60}, halfEm)
		assert.Error(t, err)
	})
}

func TestWrap(t *testing.T) {
	runes := func(s string) float64 { return float64(len([]rune(s))) }

	assert.Equal(t, []string{"aaa bb", "cccc"}, wrap("aaa bb cccc", 6, runes))
	assert.Equal(t, []string{"abcdef", "gh"}, wrap("abcdefgh", 6, runes))
	assert.Equal(t, []string{"ab", "cdefgh", "ij k"}, wrap("ab cdefghij k", 6, runes))
	assert.Equal(t, []string{"££", "££"}, wrap("££££", 2, runes), "splits between runes, not bytes")
	assert.Empty(t, wrap("   ", 6, runes))
}

func TestWrapTakesOneRuneWhenNothingFits(t *testing.T) {
	wide := func(s string) float64 { return float64(len([]rune(s))) * 10 }
	assert.Equal(t, []string{"a", "b"}, wrap("ab", 5, wide))
}

func TestFit(t *testing.T) {
	assert.Equal(t, "short", Fit("short", 100, 10, false, halfEm))
	got := Fit(strings.Repeat("x", 40)+" | Page 1 of 2", 100, 10, false, halfEm)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, halfEm.Measure(got, 10, false), 100.0)
}

func TestAssemble(t *testing.T) {
	meta := Meta{
		Title:        "Test",
		DocumentKind: "HMOLicensingReport",
		Mode:         ModePaid,
		GeneratedAt:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("deterministic output and filename", func(t *testing.T) {
		assembler, err := NewAssembler(textEncoder{})
		require.NoError(t, err)

		first, err := assembler.Assemble(context.Background(), manyParagraphs(12), meta)
		require.NoError(t, err)
		second, err := assembler.Assemble(context.Background(), manyParagraphs(12), meta)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, "HMOLicensingReport-paid-20240102T030405Z.txt", first.Filename)
		assert.Contains(t, string(first.Bytes), "Page 1 of 2")
		assert.Equal(t, 2, first.Pages)
	})

	t.Run("encoder failure returns no document", func(t *testing.T) {
		assembler, err := NewAssembler(textEncoder{fail: errors.New("disk full")})
		require.NoError(t, err)

		doc, err := assembler.Assemble(context.Background(), manyParagraphs(1), meta)
		assert.Nil(t, doc)
		assert.ErrorContains(t, err, "disk full")
	})

	t.Run("nil encoder", func(t *testing.T) {
		_, err := NewAssembler(nil)
		assert.Error(t, err)
	})
}

func TestFilenameSerial(t *testing.T) {
	meta := Meta{DocumentKind: "MoneyClaimTrackReport", Mode: ModePreview, Serial: "42"}
	assert.Equal(t, "MoneyClaimTrackReport-preview-42.pdf", Filename(meta, ".pdf"))
}
