package document

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Meta is document-level information the encoders stamp on every page.
type Meta struct {
	Title        string
	DocumentKind string
	Mode         Mode
	GeneratedAt  time.Time
	// Serial makes the filename unique. When empty the generation time is used.
	Serial string
}

// Watermark is the footer text for a page.
func (m Meta) Watermark(page, pages int) string {
	label := "Full report"
	if m.Mode == ModePreview {
		label = "PREVIEW - not for use"
	}
	return fmt.Sprintf("%s  |  %s  |  Page %d of %d", m.DocumentKind, label, page, pages)
}

// Encoder writes a laid-out document to bytes. Implementations must be
// deterministic: the same layout and meta produce the same bytes. An encoder
// that also implements Measurer has lines wrapped with its own font metrics;
// any other is laid out with WorstCase.
type Encoder interface {
	ContentType() string
	Extension() string
	Encode(ctx context.Context, layout Layout, meta Meta) ([]byte, error)
}

// RenderedDocument is the finished artifact. It is not modified after
// Assemble returns.
type RenderedDocument struct {
	Filename    string
	ContentType string
	Pages       int
	Bytes       []byte
}

// Assembler packs blocks and hands the pages to its encoder.
type Assembler struct {
	encoder  Encoder
	size     PageSize
	measurer Measurer
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithPageSize overrides the A4 default.
func WithPageSize(size PageSize) AssemblerOption {
	return func(a *Assembler) {
		a.size = size
	}
}

func NewAssembler(encoder Encoder, opts ...AssemblerOption) (*Assembler, error) {
	if encoder == nil {
		return nil, fmt.Errorf("encoder is required")
	}
	a := &Assembler{encoder: encoder, size: A4, measurer: WorstCase}
	if m, ok := encoder.(Measurer); ok {
		a.measurer = m
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.size.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Assemble lays out blocks and encodes them. Nothing is returned unless every
// step succeeds.
func (a *Assembler) Assemble(ctx context.Context, blocks []Block, meta Meta) (*RenderedDocument, error) {
	layout, err := Pack(blocks, a.size, a.measurer)
	if err != nil {
		return nil, fmt.Errorf("layout document: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := a.encoder.Encode(ctx, layout, meta)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return &RenderedDocument{
		Filename:    Filename(meta, a.encoder.Extension()),
		ContentType: a.encoder.ContentType(),
		Pages:       layout.PageCount(),
		Bytes:       data,
	}, nil
}

const serialLayout = "20060102T150405Z"

// Filename is "<DocumentKind>-<mode>-<serial>.<ext>".
func Filename(meta Meta, ext string) string {
	serial := meta.Serial
	if serial == "" {
		serial = meta.GeneratedAt.UTC().Format(serialLayout)
	}
	kind := meta.DocumentKind
	if kind == "" {
		kind = "Document"
	}
	return fmt.Sprintf("%s-%s-%s.%s", kind, meta.Mode, serial, strings.TrimPrefix(ext, "."))
}
