package layout

import (
	"image"
	"math"

	"github.com/matzehuels/workcard/pkg/fonts"
	"github.com/matzehuels/workcard/pkg/render/text"
)

const (
	// BaseWidth is the card width at which every role renders at its base size.
	BaseWidth = 900

	// MinCoverRatio and MaxCoverRatio bound cover height as a fraction of width.
	MinCoverRatio = 0.4
	MaxCoverRatio = 0.8

	// fallbackAspect (height/width) is used for covers that report no size.
	fallbackAspect = 2.0 / 3.0
)

// Role is a typographic role on the card.
type Role int

const (
	RoleTitle Role = iota
	RoleSubtitle
	RoleBody
	RoleCaption
	NumRoles
)

var (
	baseSizes  = [NumRoles]float64{42, 28, 24, 18}
	floorSizes = [NumRoles]int{20, 16, 14, 12}
)

// Bounds limits the card width.
type Bounds struct {
	MinWidth int
	MaxWidth int
}

// CardWidth clamps the cover width into b.
func CardWidth(coverWidth int, b Bounds) int {
	return min(max(coverWidth, b.MinWidth), b.MaxWidth)
}

// CoverHeight scales the cover to width and clamps the result into
// [MinCoverRatio*width, MaxCoverRatio*width].
func CoverHeight(width int, cover image.Point) int {
	aspect := fallbackAspect
	if cover.X > 0 && cover.Y > 0 {
		aspect = float64(cover.Y) / float64(cover.X)
	}
	h := int(math.Round(float64(width) * aspect))
	lo := int(math.Round(float64(width) * MinCoverRatio))
	hi := int(math.Round(float64(width) * MaxCoverRatio))
	return min(max(h, lo), hi)
}

// FontSize returns the size in points for role at the given card width.
func FontSize(role Role, width int) int {
	scaled := int(math.Round(baseSizes[role] * float64(width) / BaseWidth))
	return max(floorSizes[role], scaled)
}

// Padding returns the padding for a card width.
func Padding(width int, ratio float64) int {
	return int(math.Round(float64(width) * ratio))
}

// Content is the text a card displays, already formatted.
type Content struct {
	Title         string
	Author        string
	MediaCategory string
	Categories    string
	Timestamp     string
	Views         string
	Popularity    string
}

// Planner computes plans. It holds only immutable configuration and may be
// shared between goroutines.
type Planner struct {
	Bounds       Bounds
	PaddingRatio float64
	Font         *fonts.Font

	// CallToAction reserves a square at the right of the author bar.
	CallToAction bool
}

// Plan computes the geometry for one card.
func (p Planner) Plan(cover image.Point, c Content) Plan {
	coverWidth := cover.X
	if coverWidth <= 0 {
		coverWidth = p.Bounds.MinWidth
	}
	width := CardWidth(coverWidth, p.Bounds)
	scale := float64(width) / BaseWidth

	pl := Plan{
		Width:       width,
		Scale:       scale,
		Padding:     Padding(width, p.PaddingRatio),
		CoverHeight: CoverHeight(width, cover),
	}
	for r := Role(0); r < NumRoles; r++ {
		pl.Sizes[r] = FontSize(r, width)
	}
	pl.LineSpacing = max(4, int(math.Round(8*scale)))
	pl.BlockSpacing = max(4, pl.Padding/2)

	pl.AuthorBarHeight = p.planAuthorBar(&pl, c)
	pl.InfoHeight = p.planInfo(&pl, c)
	pl.Height = pl.CoverHeight + pl.AuthorBarHeight + pl.InfoHeight
	return pl
}

func (p Planner) metrics(pl *Plan, r Role) *fonts.Metrics {
	return p.Font.Metrics(float64(pl.Sizes[r]))
}

func (p Planner) block(pl *Plan, r Role, s string, x, y, width int, align Align) Block {
	m := p.metrics(pl, r)
	lines := text.Wrap(s, m, width)
	return Block{
		Lines:      lines,
		Role:       r,
		Size:       pl.Sizes[r],
		X:          x,
		Y:          y,
		Width:      width,
		Align:      align,
		LineHeight: m.LineHeight(),
		Ascent:     m.Ascent(),
		Spacing:    pl.LineSpacing,
		widths:     lineWidths(lines, m),
	}
}

// planAuthorBar lays out avatar, name, media category, and the optional
// call-to-action square, returning the bar's height.
func (p Planner) planAuthorBar(pl *Plan, c Content) int {
	top := pl.CoverHeight
	pad := pl.Padding
	avatar := max(40, int(math.Round(72*pl.Scale)))
	gap := max(8, pad/2)

	textX := pad + avatar + gap
	textW := pl.Width - textX - pad
	if p.CallToAction {
		textW -= avatar + gap
	}
	textW = max(textW, 1)

	author := p.block(pl, RoleSubtitle, c.Author, textX, 0, textW, AlignLeft)
	media := p.block(pl, RoleCaption, c.MediaCategory, textX, 0, textW, AlignLeft)

	nameH := author.Height()
	if !media.Empty() {
		if nameH > 0 {
			nameH += pl.LineSpacing
		}
		nameH += media.Height()
	}
	content := max(avatar, nameH)

	author.Y = top + pad + (content-nameH)/2
	media.Y = author.Y + author.Height()
	if !author.Empty() {
		media.Y += pl.LineSpacing
	}
	pl.Author, pl.Media = author, media

	avatarY := top + pad + (content-avatar)/2
	pl.Avatar = image.Rect(pad, avatarY, pad+avatar, avatarY+avatar)
	if p.CallToAction {
		x := pl.Width - pad - avatar
		pl.CTA = image.Rect(x, avatarY, x+avatar, avatarY+avatar)
	}
	return pad + content + pad
}

// planInfo lays out the divider, title, categories, and stat rows, returning
// the info section's height.
func (p Planner) planInfo(pl *Plan, c Content) int {
	top := pl.CoverHeight + pl.AuthorBarHeight
	pad := pl.Padding
	inner := max(pl.Width-2*pad, 1)

	pl.Divider = image.Rect(2*pad, top, max(pl.Width-2*pad, 2*pad+1), top+1)
	y := top + 1 + pad

	pl.Title = p.block(pl, RoleTitle, c.Title, pad, y, inner, AlignCenter)
	if !pl.Title.Empty() {
		y += pl.Title.Height() + pl.BlockSpacing
	}

	pl.Categories = p.block(pl, RoleBody, c.Categories, pad, y, inner, AlignLeft)
	if !pl.Categories.Empty() {
		y += pl.Categories.Height() + pl.BlockSpacing
	}

	icon := p.metrics(pl, RoleBody).LineHeight()
	gap := max(6, pad/3)
	pl.Rows = pl.Rows[:0]
	for _, r := range []struct {
		kind RowKind
		text string
	}{
		{RowTimestamp, c.Timestamp},
		{RowViews, c.Views},
		{RowPopularity, c.Popularity},
	} {
		tb := p.block(pl, RoleBody, r.text, pad+icon+gap, y, max(inner-icon-gap, 1), AlignLeft)
		if tb.Empty() {
			continue
		}
		h := max(icon, tb.Height())
		tb.Y = y + (h-tb.Height())/2
		iy := y + (h-icon)/2
		pl.Rows = append(pl.Rows, Row{
			Kind: r.kind,
			Icon: image.Rect(pad, iy, pad+icon, iy+icon),
			Text: tb,
		})
		y += h + pl.BlockSpacing
	}

	// The last block's trailing spacing becomes part of the bottom padding.
	return y + pad - top
}
