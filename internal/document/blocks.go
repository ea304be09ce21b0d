// Package document turns a classification into content blocks and packs those
// blocks onto fixed-size pages.
//
// Rendering (what to say) and assembly (where it goes) are separate steps:
// Renderer.Render produces an ordered []Block with no positions, Layout packs
// it onto pages, and an Encoder writes the pages to bytes.
package document

import "fmt"

// Kind is the closed set of content block types.
type Kind string

const (
	KindTitle      Kind = "title"
	KindHeading    Kind = "heading"
	KindParagraph  Kind = "paragraph"
	KindKeyValue   Kind = "key_value"
	KindBulletList Kind = "bullet_list"
	KindDivider    Kind = "divider"
	KindNotice     Kind = "notice"
)

// Pair is one label/value row of a KeyValue block.
type Pair struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Block is one unit of document content. Which fields are read depends on
// Kind: Text for title, heading, paragraph and notice; Pairs for key_value;
// Items for bullet_list. Dividers carry nothing.
type Block struct {
	Kind  Kind     `json:"kind"`
	Text  string   `json:"text,omitempty"`
	Pairs []Pair   `json:"pairs,omitempty"`
	Items []string `json:"items,omitempty"`
}

func Title(text string) Block     { return Block{Kind: KindTitle, Text: text} }
func Heading(text string) Block   { return Block{Kind: KindHeading, Text: text} }
func Paragraph(text string) Block { return Block{Kind: KindParagraph, Text: text} }
func Notice(text string) Block    { return Block{Kind: KindNotice, Text: text} }
func Divider() Block              { return Block{Kind: KindDivider} }

func KeyValue(pairs ...Pair) Block {
	return Block{Kind: KindKeyValue, Pairs: pairs}
}

func BulletList(items ...string) Block {
	return Block{Kind: KindBulletList, Items: items}
}

// Mode distinguishes a free preview from a paid document. It is stamped into
// both the content and the filename.
type Mode string

const (
	ModePreview Mode = "preview"
	ModePaid    Mode = "paid"
)

// ParseMode accepts "preview" and "paid".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePreview, ModePaid:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown document mode %q", s)
}
