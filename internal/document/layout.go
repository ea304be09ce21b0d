package document

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// ErrBlockTooTall is returned when a single block cannot fit on an empty page.
var ErrBlockTooTall = errors.New("block taller than the page content area")

// PageSize is a page canvas in points.
type PageSize struct {
	Width  float64
	Height float64
	Margin float64
	// Footer is reserved at the bottom of every page for the footer line.
	Footer float64
}

// A4 is the default page size.
var A4 = PageSize{Width: 595.28, Height: 841.89, Margin: 56, Footer: 24}

// ContentWidth is the usable line width.
func (p PageSize) ContentWidth() float64 { return p.Width - 2*p.Margin }

// ContentHeight is the usable height above the footer.
func (p PageSize) ContentHeight() float64 { return p.Height - 2*p.Margin - p.Footer }

func (p PageSize) validate() error {
	if p.ContentWidth() <= 0 || p.ContentHeight() <= 0 {
		return fmt.Errorf("page %vx%v leaves no content area", p.Width, p.Height)
	}
	return nil
}

// Measurer reports the advance width, in points, of text set at size. Lines
// are wrapped with the measurer of the encoder that draws them.
type Measurer interface {
	Measure(text string, size float64, bold bool) float64
}

// worstCaseEm bounds the advance of any glyph in the fonts the encoders use.
const worstCaseEm = 1.25

type worstCase struct{}

func (worstCase) Measure(text string, size float64, _ bool) float64 {
	return float64(utf8.RuneCountInString(text)) * size * worstCaseEm
}

// WorstCase measures every rune as wider than any real glyph. It is the
// fallback for encoders without font metrics.
var WorstCase Measurer = worstCase{}

// Style is how one block kind is set.
type Style struct {
	Size        float64
	Bold        bool
	LineHeight  float64
	SpaceBefore float64
	SpaceAfter  float64
	Indent      float64
}

var styles = map[Kind]Style{
	KindTitle:      {Size: 20, Bold: true, LineHeight: 26, SpaceAfter: 10},
	KindHeading:    {Size: 13, Bold: true, LineHeight: 18, SpaceBefore: 10, SpaceAfter: 4},
	KindParagraph:  {Size: 10, LineHeight: 14, SpaceAfter: 6},
	KindKeyValue:   {Size: 10, LineHeight: 14, SpaceAfter: 6},
	KindBulletList: {Size: 10, LineHeight: 14, SpaceAfter: 6, Indent: 12},
	KindDivider:    {Size: 1, LineHeight: 1, SpaceBefore: 6, SpaceAfter: 6},
	KindNotice:     {Size: 11, Bold: true, LineHeight: 15, SpaceAfter: 8},
}

// StyleOf returns the style of a block kind.
func StyleOf(k Kind) (Style, bool) {
	s, ok := styles[k]
	return s, ok
}

// Line is one positioned run of text. Y is the baseline measured from the top
// of the page. A divider is a Line with Rule set and no text.
type Line struct {
	Kind  Kind
	X     float64
	Y     float64
	Width float64
	Size  float64
	Bold  bool
	Rule  bool
	Text  string
}

// Page is one laid-out page, numbered from 1.
type Page struct {
	Number int
	Lines  []Line
}

// Layout is the packed document.
type Layout struct {
	Size  PageSize
	Pages []Page
}

// PageCount is the number of pages.
func (l Layout) PageCount() int { return len(l.Pages) }

type measured struct {
	kind   Kind
	style  Style
	lines  []string
	height float64
}

// Pack lays blocks onto pages greedily, in order. Lines are wrapped so that
// no line measured by m extends past the right margin. A block is never split
// across pages: if it does not fit in the space left, it starts the next
// page. Space before a block is dropped at the top of a page. A nil m uses
// WorstCase.
func Pack(blocks []Block, size PageSize, m Measurer) (Layout, error) {
	if err := size.validate(); err != nil {
		return Layout{}, err
	}
	if m == nil {
		m = WorstCase
	}
	out := Layout{Size: size}
	if len(blocks) == 0 {
		return out, nil
	}

	contentHeight := size.ContentHeight()
	page := Page{Number: 1}
	cursor := 0.0

	for i, b := range blocks {
		mb, err := measure(b, size.ContentWidth(), m)
		if err != nil {
			return Layout{}, fmt.Errorf("block %d: %w", i, err)
		}
		if mb.height > contentHeight {
			return Layout{}, fmt.Errorf("block %d (%s): %w", i, b.Kind, ErrBlockTooTall)
		}

		before := mb.style.SpaceBefore
		if cursor == 0 {
			before = 0
		}
		if cursor+before+mb.height > contentHeight {
			out.Pages = append(out.Pages, page)
			page = Page{Number: page.Number + 1}
			cursor, before = 0, 0
		}
		cursor += before
		page.Lines = append(page.Lines, place(mb, size, cursor)...)
		cursor += mb.height + mb.style.SpaceAfter
	}
	out.Pages = append(out.Pages, page)
	return out, nil
}

func place(m measured, size PageSize, top float64) []Line {
	x := size.Margin + m.style.Indent
	width := size.ContentWidth() - m.style.Indent
	if m.kind == KindDivider {
		return []Line{{Kind: m.kind, X: size.Margin, Y: size.Margin + top, Width: size.ContentWidth(), Size: m.style.Size, Rule: true}}
	}
	lines := make([]Line, 0, len(m.lines))
	for i, text := range m.lines {
		baseline := size.Margin + top + float64(i)*m.style.LineHeight + m.style.Size
		lines = append(lines, Line{
			Kind:  m.kind,
			X:     x,
			Y:     math.Round(baseline*100) / 100,
			Width: width,
			Size:  m.style.Size,
			Bold:  m.style.Bold,
			Text:  text,
		})
	}
	return lines
}

// measure wraps a block to the content width and computes its height
// excluding SpaceBefore and SpaceAfter.
func measure(b Block, contentWidth float64, m Measurer) (measured, error) {
	style, ok := styles[b.Kind]
	if !ok {
		return measured{}, fmt.Errorf("unknown block kind %q", b.Kind)
	}
	width := func(text string) float64 { return m.Measure(text, style.Size, style.Bold) }
	limit := contentWidth - style.Indent

	var lines []string
	switch b.Kind {
	case KindDivider:
		return measured{kind: b.Kind, style: style, height: style.LineHeight}, nil
	case KindKeyValue:
		for _, p := range b.Pairs {
			lines = append(lines, wrap(p.Label+": "+p.Value, limit, width)...)
		}
	case KindBulletList:
		const bullet, hang = "- ", "  "
		itemLimit := limit - max(width(bullet), width(hang))
		for _, item := range b.Items {
			for i, l := range wrap(item, itemLimit, width) {
				if i == 0 {
					lines = append(lines, bullet+l)
				} else {
					lines = append(lines, hang+l)
				}
			}
		}
	default:
		lines = wrap(b.Text, limit, width)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return measured{
		kind:   b.Kind,
		style:  style,
		lines:  lines,
		height: float64(len(lines)) * style.LineHeight,
	}, nil
}

// wrap breaks text into lines no wider than limit, at spaces where possible.
// Words wider than a line are split between runes; a line always takes at
// least one rune.
func wrap(text string, limit float64, width func(string) float64) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		if width(word) > limit {
			if current != "" {
				lines = append(lines, current)
			}
			var chunks []string
			chunks, word = splitWord(word, limit, width)
			lines = append(lines, chunks...)
			current = word
			continue
		}
		switch {
		case current == "":
			current = word
		case width(current+" "+word) <= limit:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// splitWord cuts a word into full-width chunks and returns the remainder.
func splitWord(word string, limit float64, width func(string) float64) ([]string, string) {
	var chunks []string
	for width(word) > limit {
		cut := 0
		for i, r := range word {
			next := i + utf8.RuneLen(r)
			if cut > 0 && width(word[:next]) > limit {
				break
			}
			cut = next
		}
		chunks = append(chunks, word[:cut])
		word = word[cut:]
	}
	return chunks, word
}

// Fit shortens text with a trailing "..." until it measures no wider than
// limit. Encoders use it for the footer, which is drawn outside Pack.
func Fit(text string, limit, size float64, bold bool, m Measurer) string {
	if m == nil {
		m = WorstCase
	}
	if m.Measure(text, size, bold) <= limit {
		return text
	}
	const ellipsis = "..."
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := strings.TrimRight(string(runes[:n]), " ") + ellipsis
		if m.Measure(candidate, size, bold) <= limit {
			return candidate
		}
	}
	return ""
}
