// Package preview rasterizes one laid-out page to PNG for in-browser
// previews. It uses the Go fonts compiled into golang.org/x/image, so output
// does not depend on fonts installed on the host.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"letwise/internal/document"
)

const ContentType = "image/png"

var (
	regularFont = mustParse(goregular.TTF)
	boldFont    = mustParse(gobold.TTF)
)

func mustParse(ttf []byte) *truetype.Font {
	f, err := truetype.Parse(ttf)
	if err != nil {
		panic(fmt.Sprintf("parse embedded font: %v", err))
	}
	return f
}

// Encoder renders a single page. Page numbers start at 1. It measures text
// with the faces it draws with.
type Encoder struct {
	page  int
	scale float64

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithPage selects the page to rasterize.
func WithPage(page int) Option {
	return func(e *Encoder) {
		if page > 0 {
			e.page = page
		}
	}
}

// WithScale sets pixels per point.
func WithScale(scale float64) Option {
	return func(e *Encoder) {
		if scale > 0 {
			e.scale = scale
		}
	}
}

func New(opts ...Option) *Encoder {
	e := &Encoder{page: 1, scale: 1, faces: make(map[faceKey]font.Face)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Encoder) ContentType() string { return ContentType }
func (e *Encoder) Extension() string   { return "png" }

type faceKey struct {
	bold bool
	size float64
}

// face returns the face for pt at the encoder's scale. Faces are not safe for
// concurrent use, so callers hold e.mu.
func (e *Encoder) face(bold bool, pt float64) font.Face {
	key := faceKey{bold: bold, size: pt}
	if f, ok := e.faces[key]; ok {
		return f
	}
	src := regularFont
	if bold {
		src = boldFont
	}
	f := truetype.NewFace(src, &truetype.Options{Size: pt * e.scale, DPI: 72, Hinting: font.HintingNone})
	e.faces[key] = f
	return f
}

// Measure is the drawn width of text in points.
func (e *Encoder) Measure(text string, size float64, bold bool) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.measure(text, size, bold)
}

func (e *Encoder) measure(text string, size float64, bold bool) float64 {
	return float64(font.MeasureString(e.face(bold, size), text)) / 64 / e.scale
}

// lockedMeasurer lets Fit measure while Encode already holds e.mu.
type lockedMeasurer struct{ e *Encoder }

func (m lockedMeasurer) Measure(text string, size float64, bold bool) float64 {
	return m.e.measure(text, size, bold)
}

const footerSize = 8

func (e *Encoder) Encode(ctx context.Context, layout document.Layout, meta document.Meta) ([]byte, error) {
	pages := layout.PageCount()
	if e.page > max(pages, 1) {
		return nil, fmt.Errorf("page %d out of range, document has %d", e.page, pages)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	size := layout.Size
	dc := gg.NewContext(int(math.Ceil(size.Width*e.scale)), int(math.Ceil(size.Height*e.scale)))
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.Scale(e.scale, e.scale)

	e.mu.Lock()
	defer e.mu.Unlock()

	if pages > 0 {
		for _, line := range layout.Pages[e.page-1].Lines {
			if line.Rule {
				dc.SetRGB(0.63, 0.63, 0.63)
				dc.SetLineWidth(0.5)
				dc.DrawLine(line.X, line.Y, line.X+line.Width, line.Y)
				dc.Stroke()
				continue
			}
			if line.Kind == document.KindNotice && meta.Mode == document.ModePreview {
				dc.SetRGB(0.67, 0.12, 0.12)
			} else {
				dc.SetRGB(0, 0, 0)
			}
			dc.SetFontFace(e.face(line.Bold, line.Size))
			dc.DrawString(line.Text, line.X, line.Y)
		}
	}

	dc.SetRGB(0.43, 0.43, 0.43)
	footer := document.Fit(meta.Watermark(e.page, max(pages, 1)), size.ContentWidth(), footerSize, false, lockedMeasurer{e})
	dc.SetFontFace(e.face(false, footerSize))
	dc.DrawString(footer, size.Margin, size.Height-size.Margin+size.Footer/2)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
