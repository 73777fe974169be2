package compose

import (
	"image"
	"image/color"
	"math"
)

// MinRadius is the smallest positive corner radius. Below it the outermost
// corner pixel keeps partial coverage.
const MinRadius = 4

// EffectiveRadius clamps a requested radius to what the canvas can hold.
func EffectiveRadius(radius int, size image.Point) int {
	if radius <= 0 {
		return 0
	}
	radius = max(radius, MinRadius)
	return min(radius, size.X/2, size.Y/2)
}

// Mask multiplies img's alpha by a rounded rectangle covering its bounds and
// blends a 1px border of color border along the same outline. A radius of 0
// leaves alpha untouched.
func Mask(img *image.NRGBA, radius int, border color.NRGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	r := EffectiveRadius(radius, b.Size())
	fr := float64(r)
	band := max(r, 2)
	ba := uint32(border.A)

	for y := 0; y < h; y++ {
		fy := float64(y) + 0.5
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		full := y < band || y >= h-band || w <= 2*band
		for x := 0; x < w; x++ {
			if !full && x == band {
				x = w - band // skip the interior of the row
			}
			fx := float64(x) + 0.5

			// Inward distance from the outline and its coverage.
			var inside, cover float64
			ccx, ccy, corner := cornerCenter(fx, fy, fr, float64(w), float64(h))
			if corner {
				d := math.Hypot(fx-ccx, fy-ccy)
				inside = fr - d
				cover = clamp01(fr + 0.5 - d)
			} else {
				inside = min(fx, fy, float64(w)-fx, float64(h)-fy)
				cover = 1
			}

			i := 4 * x
			if ba > 0 {
				if a := uint32(clamp01(1.5-inside)*float64(ba) + 0.5); a > 0 {
					row[i] = blend(row[i], border.R, a)
					row[i+1] = blend(row[i+1], border.G, a)
					row[i+2] = blend(row[i+2], border.B, a)
				}
			}
			if cover < 1 {
				row[i+3] = uint8(float64(row[i+3])*cover + 0.5)
			}
		}
	}
}

// cornerCenter reports whether (x, y) lies in one of the four corner squares
// of side r, and the center of that corner's arc.
func cornerCenter(x, y, r, w, h float64) (float64, float64, bool) {
	if r <= 0 {
		return 0, 0, false
	}
	var cx, cy float64
	switch {
	case x < r:
		cx = r
	case x > w-r:
		cx = w - r
	default:
		return 0, 0, false
	}
	switch {
	case y < r:
		cy = r
	case y > h-r:
		cy = h - r
	default:
		return 0, 0, false
	}
	return cx, cy, true
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

func blend(dst, src uint8, a uint32) uint8 {
	return uint8((uint32(dst)*(255-a) + uint32(src)*a + 127) / 255)
}
