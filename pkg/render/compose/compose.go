// Package compose draws the layers of a card onto one canvas and applies the
// rounded-corner mask.
//
// Layers are painted bottom to top with [gg]: background and pattern, cover,
// author bar, divider, info block. The finished canvas is converted to
// straight-alpha NRGBA before the mask and border are applied, so the
// transparent corners never carry premultiplied color.
package compose

import (
	"image"
	"image/color"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/workcard/pkg/fonts"
	"github.com/matzehuels/workcard/pkg/render/effects"
	"github.com/matzehuels/workcard/pkg/render/layout"
	"github.com/matzehuels/workcard/pkg/theme"
)

var (
	barColor     = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	titleColor   = color.NRGBA{0x1c, 0x28, 0x33, 0xff}
	bodyColor    = color.NRGBA{0x4d, 0x56, 0x56, 0xff}
	captionColor = color.NRGBA{0x7f, 0x8c, 0x8d, 0xff}
)

const (
	patternOpacity = 0.07
	dividerOpacity = 0.45
	borderOpacity  = 0.55
)

// Layers is everything a card is drawn from.
type Layers struct {
	Plan  layout.Plan
	Theme theme.Theme
	Font  *fonts.Font

	// Cover is the effect-processed cover. It is fitted to the cover section
	// if its size differs.
	Cover image.Image

	// Avatar is drawn inside a circle. A nil avatar is replaced by a disc
	// showing the author's initial.
	Avatar image.Image

	// DetailURL is encoded into the call-to-action QR code when the plan
	// reserves room for one.
	DetailURL string
}

// Compose paints l and masks the result with corners of the given radius.
func Compose(l Layers, radius int) *image.NRGBA {
	pl := l.Plan
	dc := gg.NewContext(pl.Width, pl.Height)

	dc.SetColor(l.Theme.Secondary)
	dc.Clear()
	drawPattern(dc, pl.InfoRect(), l.Theme, pl.Scale)

	drawCover(dc, pl, l.Cover)
	drawAuthorBar(dc, l)
	drawInfo(dc, l)

	img := imaging.Clone(dc.Image())
	Mask(img, radius, withAlpha(l.Theme.Primary, borderOpacity))
	return img
}

func drawCover(dc *gg.Context, pl layout.Plan, cover image.Image) {
	if cover == nil {
		return
	}
	if cover.Bounds().Size() != image.Pt(pl.Width, pl.CoverHeight) {
		cover = effects.Fit(cover, pl.Width, pl.CoverHeight)
	}
	dc.DrawImage(cover, 0, 0)
}

func drawAuthorBar(dc *gg.Context, l Layers) {
	pl := l.Plan
	bar := pl.AuthorBarRect()
	dc.SetColor(barColor)
	dc.DrawRectangle(0, float64(bar.Min.Y), float64(bar.Dx()), float64(bar.Dy()))
	dc.Fill()

	drawAvatar(dc, l)
	drawBlock(dc, l.Font, pl.Author, titleColor)
	drawBlock(dc, l.Font, pl.Media, captionColor)

	if !pl.CTA.Empty() && l.DetailURL != "" {
		if qr := qrImage(l.DetailURL, pl.CTA.Dx()); qr != nil {
			dc.DrawImage(qr, pl.CTA.Min.X, pl.CTA.Min.Y)
		}
	}
}

func drawAvatar(dc *gg.Context, l Layers) {
	r := l.Plan.Avatar
	size := r.Dx()
	cx, cy := float64(r.Min.X)+float64(size)/2, float64(r.Min.Y)+float64(size)/2
	radius := float64(size) / 2

	if l.Avatar != nil {
		dc.Push()
		dc.DrawCircle(cx, cy, radius)
		dc.Clip()
		dc.DrawImage(imaging.Fill(l.Avatar, size, size, imaging.Center, imaging.Lanczos), r.Min.X, r.Min.Y)
		dc.ResetClip()
		dc.Pop()
	} else {
		dc.SetColor(l.Theme.Accent)
		dc.DrawCircle(cx, cy, radius)
		dc.Fill()
		dc.SetFontFace(l.Font.NewFace(float64(max(12, size/2))))
		dc.SetColor(barColor)
		dc.DrawStringAnchored(initial(l.Plan.Author), cx, cy, 0.5, 0.35)
	}

	dc.SetColor(withAlpha(l.Theme.Primary, 0.25))
	dc.SetLineWidth(max(1, l.Plan.Scale*1.5))
	dc.DrawCircle(cx, cy, radius-0.5)
	dc.Stroke()
}

// initial is the upper-cased first letter of the author's name.
func initial(b layout.Block) string {
	if b.Empty() {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(b.Lines[0]))
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

func drawInfo(dc *gg.Context, l Layers) {
	pl := l.Plan
	d := pl.Divider
	dc.SetColor(withAlpha(l.Theme.Accent, dividerOpacity))
	dc.DrawRectangle(float64(d.Min.X), float64(d.Min.Y), float64(d.Dx()), float64(d.Dy()))
	dc.Fill()

	drawBlock(dc, l.Font, pl.Title, titleColor)
	drawBlock(dc, l.Font, pl.Categories, l.Theme.Primary)

	for _, row := range pl.Rows {
		drawIcon(dc, row.Kind, row.Icon, l.Theme.Accent)
		drawBlock(dc, l.Font, row.Text, bodyColor)
	}
}

func drawBlock(dc *gg.Context, f *fonts.Font, b layout.Block, c color.Color) {
	if b.Empty() {
		return
	}
	dc.SetFontFace(f.NewFace(float64(b.Size)))
	dc.SetColor(c)
	for i, line := range b.Lines {
		dc.DrawString(line, float64(b.LineX(i)), float64(b.Baseline(i)))
	}
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(min(max(a, 0), 1)*255 + 0.5)
	return c
}
