// Package pdf encodes laid-out documents as PDF using the core Helvetica
// fonts, so no font files are needed at runtime.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/go-pdf/fpdf"

	"letwise/internal/document"
)

const (
	ContentType = "application/pdf"
	family      = "Helvetica"
)

// Encoder writes PDF bytes. Creation and modification dates come from
// Meta.GeneratedAt and the catalog is sorted, so output is byte-stable.
// It measures text with the same Helvetica metrics it draws with.
type Encoder struct {
	author string

	mu      sync.Mutex
	metrics *fpdf.Fpdf
	tr      func(string) string
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithAuthor sets the PDF author field.
func WithAuthor(author string) Option {
	return func(e *Encoder) {
		e.author = author
	}
}

func New(opts ...Option) *Encoder {
	metrics := fpdf.New("P", "pt", "A4", "")
	e := &Encoder{
		author:  "letwise",
		metrics: metrics,
		tr:      metrics.UnicodeTranslatorFromDescriptor(""),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Encoder) ContentType() string { return ContentType }
func (e *Encoder) Extension() string   { return "pdf" }

// Measure is the width of text as drawn: translated to cp1252 and set in
// Helvetica or Helvetica-Bold.
func (e *Encoder) Measure(text string, size float64, bold bool) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.metrics.SetFont(family, fontStyle(bold), size)
	return e.metrics.GetStringWidth(e.tr(text))
}

func fontStyle(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}

func (e *Encoder) Encode(ctx context.Context, layout document.Layout, meta document.Meta) ([]byte, error) {
	size := layout.Size
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	doc.SetCreationDate(meta.GeneratedAt.UTC())
	doc.SetModificationDate(meta.GeneratedAt.UTC())
	doc.SetCatalogSort(true)
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(size.Margin, size.Margin, size.Margin)
	doc.SetTitle(meta.Title, true)
	doc.SetAuthor(e.author, true)
	doc.SetCreator("letwise", true)

	tr := doc.UnicodeTranslatorFromDescriptor("")
	pages := layout.PageCount()
	if pages == 0 {
		doc.AddPage()
		e.drawFooter(doc, tr, size, meta.Watermark(1, 1))
	}

	for _, page := range layout.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc.AddPage()
		for _, line := range page.Lines {
			if line.Rule {
				doc.SetDrawColor(160, 160, 160)
				doc.SetLineWidth(0.5)
				doc.Line(line.X, line.Y, line.X+line.Width, line.Y)
				continue
			}
			if line.Kind == document.KindNotice && meta.Mode == document.ModePreview {
				doc.SetTextColor(170, 30, 30)
			} else {
				doc.SetTextColor(0, 0, 0)
			}
			doc.SetFont(family, fontStyle(line.Bold), line.Size)
			doc.Text(line.X, line.Y, tr(line.Text))
		}
		e.drawFooter(doc, tr, size, meta.Watermark(page.Number, pages))
	}

	if doc.Err() {
		return nil, fmt.Errorf("build pdf: %w", doc.Error())
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

const footerSize = 8

func (e *Encoder) drawFooter(doc *fpdf.Fpdf, tr func(string) string, size document.PageSize, text string) {
	text = document.Fit(text, size.ContentWidth(), footerSize, false, e)
	doc.SetTextColor(110, 110, 110)
	doc.SetFont(family, "", footerSize)
	doc.Text(size.Margin, size.Height-size.Margin+size.Footer/2, tr(text))
}
