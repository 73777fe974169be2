package compose

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/matzehuels/workcard/pkg/render/layout"
	"github.com/matzehuels/workcard/pkg/theme"
)

// drawPattern paints the theme's pattern faintly over r.
func drawPattern(dc *gg.Context, r image.Rectangle, th theme.Theme, scale float64) {
	if th.Pattern == theme.PatternNone || r.Empty() {
		return
	}
	step := math.Max(14, math.Round(28*scale))
	x0, y0 := float64(r.Min.X), float64(r.Min.Y)
	x1, y1 := float64(r.Max.X), float64(r.Max.Y)

	// Pop restores everything but the clip mask.
	dc.Push()
	defer dc.Pop()
	defer dc.ResetClip()
	dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	dc.Clip()
	dc.SetColor(withAlpha(th.Primary, patternOpacity))
	dc.SetLineWidth(math.Max(1, scale))

	switch th.Pattern {
	case theme.PatternDots:
		dot := math.Max(1.5, 2.5*scale)
		for y := y0 + step/2; y < y1; y += step {
			for x := x0 + step/2; x < x1; x += step {
				dc.DrawCircle(x, y, dot)
			}
		}
		dc.Fill()
	case theme.PatternStripes:
		h := y1 - y0
		for x := x0 - h; x < x1; x += step {
			dc.DrawLine(x, y1, x+h, y0)
		}
		dc.Stroke()
	case theme.PatternGrid:
		for x := x0 + step; x < x1; x += step {
			dc.DrawLine(x, y0, x, y1)
		}
		for y := y0 + step; y < y1; y += step {
			dc.DrawLine(x0, y, x1, y)
		}
		dc.Stroke()
	case theme.PatternWaves:
		amp := step / 4
		for y := y0 + step/2; y < y1+amp; y += step {
			dc.NewSubPath()
			dc.MoveTo(x0, y)
			for x := x0; x < x1; x += step {
				dc.QuadraticTo(x+step/4, y-amp, x+step/2, y)
				dc.QuadraticTo(x+3*step/4, y+amp, x+step, y)
			}
		}
		dc.Stroke()
	}
}

// drawIcon draws the glyph for a stat row inside r.
func drawIcon(dc *gg.Context, kind layout.RowKind, r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	s := float64(r.Dx())
	cx := float64(r.Min.X) + s/2
	cy := float64(r.Min.Y) + s/2

	dc.Push()
	defer dc.Pop()
	dc.SetColor(c)
	dc.SetLineWidth(math.Max(1.5, s/11))
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	switch kind {
	case layout.RowTimestamp:
		rad := s * 0.4
		dc.DrawCircle(cx, cy, rad)
		dc.Stroke()
		dc.DrawLine(cx, cy, cx, cy-rad*0.6)
		dc.DrawLine(cx, cy, cx+rad*0.45, cy+rad*0.2)
		dc.Stroke()
	case layout.RowViews:
		dc.MoveTo(cx-s*0.45, cy)
		dc.QuadraticTo(cx, cy-s*0.5, cx+s*0.45, cy)
		dc.QuadraticTo(cx, cy+s*0.5, cx-s*0.45, cy)
		dc.ClosePath()
		dc.Stroke()
		dc.DrawCircle(cx, cy, s*0.13)
		dc.Fill()
	case layout.RowPopularity:
		top, bottom := float64(r.Min.Y)+s*0.06, float64(r.Min.Y)+s*0.94
		dc.MoveTo(cx, top)
		dc.CubicTo(cx+s*0.2, top+s*0.25, cx+s*0.42, bottom-s*0.4, cx+s*0.32, bottom-s*0.15)
		dc.CubicTo(cx+s*0.22, bottom, cx-s*0.22, bottom, cx-s*0.32, bottom-s*0.15)
		dc.CubicTo(cx-s*0.4, bottom-s*0.35, cx-s*0.2, cy, cx-s*0.08, top+s*0.3)
		dc.CubicTo(cx-s*0.02, top+s*0.18, cx-s*0.02, top+s*0.08, cx, top)
		dc.ClosePath()
		dc.Fill()
	}
}

// qrImage renders url as a size×size QR code without a quiet zone, or nil if
// url cannot be encoded.
func qrImage(url string, size int) image.Image {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil || size <= 0 {
		return nil
	}
	q.DisableBorder = true
	img := q.Image(size)
	if img.Bounds().Dx() != size {
		return imaging.Resize(img, size, size, imaging.NearestNeighbor)
	}
	return img
}
