package layout

import (
	"image"

	"github.com/matzehuels/workcard/pkg/render/text"
)

// Align is the horizontal alignment of a text block.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// RowKind identifies an icon row in the info block.
type RowKind int

const (
	RowTimestamp RowKind = iota
	RowViews
	RowPopularity
)

// Block is a wrapped text block positioned on the canvas.
type Block struct {
	Lines      []string
	Role       Role
	Size       int // font size in points
	X, Y       int // top-left corner of the block
	Width      int // width budget the lines were wrapped to
	Align      Align
	LineHeight int
	Ascent     int
	Spacing    int // pixels between consecutive lines

	widths []int
}

// Empty reports whether the block has no lines.
func (b Block) Empty() bool { return len(b.Lines) == 0 }

// Height is the measured height of the block.
func (b Block) Height() int {
	return text.BlockHeight(len(b.Lines), b.LineHeight, b.Spacing)
}

// Baseline returns the y coordinate of line i's baseline.
func (b Block) Baseline(i int) int {
	return b.Y + i*(b.LineHeight+b.Spacing) + b.Ascent
}

// LineX returns the x coordinate where line i starts, honoring alignment.
func (b Block) LineX(i int) int {
	if b.Align == AlignCenter && i < len(b.widths) {
		return b.X + max(0, (b.Width-b.widths[i])/2)
	}
	return b.X
}

// LineWidth returns the measured width of line i.
func (b Block) LineWidth(i int) int {
	if i < len(b.widths) {
		return b.widths[i]
	}
	return 0
}

// Row is one icon-prefixed line group in the info block.
type Row struct {
	Kind RowKind
	Icon image.Rectangle
	Text Block
}

// Plan is the complete geometry of one card. It is created per render and
// discarded afterwards.
type Plan struct {
	Width   int
	Height  int
	Padding int
	Scale   float64
	Sizes   [NumRoles]int

	CoverHeight     int
	AuthorBarHeight int
	InfoHeight      int

	LineSpacing  int
	BlockSpacing int

	// Author bar
	Avatar image.Rectangle
	CTA    image.Rectangle // empty when no call-to-action is shown
	Author Block
	Media  Block

	// Info block
	Divider    image.Rectangle
	Title      Block
	Categories Block
	Rows       []Row
}

// CoverRect is the cover section.
func (p Plan) CoverRect() image.Rectangle {
	return image.Rect(0, 0, p.Width, p.CoverHeight)
}

// AuthorBarRect is the author bar section.
func (p Plan) AuthorBarRect() image.Rectangle {
	return image.Rect(0, p.CoverHeight, p.Width, p.CoverHeight+p.AuthorBarHeight)
}

// InfoRect is the info section.
func (p Plan) InfoRect() image.Rectangle {
	return image.Rect(0, p.CoverHeight+p.AuthorBarHeight, p.Width, p.Height)
}

func lineWidths(lines []string, m text.Measurer) []int {
	w := make([]int, len(lines))
	for i, l := range lines {
		w[i] = m.Width(l)
	}
	return w
}
