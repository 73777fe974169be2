// Package effects runs the cover image through a fixed sequence of
// adjustments and overlays.
//
// Stages, in order:
//
//  1. Enhance: contrast, saturation and brightness boosts.
//  2. Sharpen (optional): an unsharp pass; source alpha is restored after it.
//  3. Gradient: a black ramp over the lower part of the cover.
//  4. Tint: a flat wash of the theme's primary color.
//  5. Vignette (optional): a radial darkening read from a lookup table,
//     applied over the gradient so corners stay within both ceilings.
//
// Every overlay is composited source-atop, so the alpha channel of the
// result equals the alpha channel of the input. The result is straight-alpha
// NRGBA.
package effects

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/workcard/pkg/theme"
)

const (
	Contrast   = 1.10
	Saturation = 1.15
	Brightness = 1.03

	SharpenSigma = 0.8

	// GradientStart is the fraction of the height where the ramp begins.
	GradientStart = 0.35
	GradientMax   = 0.55

	TintOpacity = 0.12

	VignetteMax = 0.35
	// VignetteSlope scales normalized distance from the center into alpha.
	VignetteSlope = 0.5

	vignetteSteps = 1024
)

// Options toggles the optional stages.
type Options struct {
	Sharpen  bool
	Vignette bool
}

// DefaultOptions enables every stage.
func DefaultOptions() Options {
	return Options{Sharpen: true, Vignette: true}
}

// Fit scales and center-crops src to exactly w×h.
func Fit(src image.Image, w, h int) *image.NRGBA {
	return imaging.Fill(src, w, h, imaging.Center, imaging.Lanczos)
}

// Apply runs the pipeline over src and returns a new image. src is not
// modified.
func Apply(src image.Image, th theme.Theme, opts Options) *image.NRGBA {
	img := enhance(src)
	if opts.Sharpen {
		img = sharpen(img)
	}
	gradient(img)
	tint(img, th.Primary, TintOpacity)
	if opts.Vignette {
		vignette(img)
	}
	return img
}

// imaging expresses adjustments as percentages around zero.
func percent(f float64) float64 { return (f - 1) * 100 }

func enhance(src image.Image) *image.NRGBA {
	img := imaging.AdjustContrast(src, percent(Contrast))
	img = imaging.AdjustSaturation(img, percent(Saturation))
	return imaging.AdjustBrightness(img, percent(Brightness))
}

func sharpen(img *image.NRGBA) *image.NRGBA {
	out := imaging.Sharpen(img, SharpenSigma)
	// imaging sharpens all four channels.
	for y := 0; y < img.Rect.Dy(); y++ {
		si := y * img.Stride
		di := y * out.Stride
		for x := 0; x < img.Rect.Dx(); x++ {
			out.Pix[di+4*x+3] = img.Pix[si+4*x+3]
		}
	}
	return out
}

// alpha8 converts an opacity in [0,1] to 0..255.
func alpha8(a float64) uint32 {
	return uint32(math.Round(min(max(a, 0), 1) * 255))
}

// darken blends black over one channel value at opacity a/255.
func darken(c uint8, a uint32) uint8 {
	return uint8((uint32(c)*(255-a) + 127) / 255)
}

func gradient(img *image.NRGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if h == 0 {
		return
	}
	start := GradientStart * float64(h)
	span := float64(h) - start
	for y := 0; y < h; y++ {
		t := (float64(y) + 0.5 - start) / span
		if t <= 0 {
			continue
		}
		a := alpha8(GradientMax * min(t, 1))
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for i := 0; i < len(row); i += 4 {
			row[i] = darken(row[i], a)
			row[i+1] = darken(row[i+1], a)
			row[i+2] = darken(row[i+2], a)
		}
	}
}

// vignetteLUT maps a quantized squared normalized distance to an opacity.
var vignetteLUT = func() [vignetteSteps]uint32 {
	var lut [vignetteSteps]uint32
	for i := range lut {
		d := math.Sqrt(float64(i) / (vignetteSteps - 1))
		lut[i] = alpha8(min(VignetteMax, VignetteSlope*d))
	}
	return lut
}()

func vignette(img *image.NRGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}
	cx, cy := float64(w)/2, float64(h)/2
	dmax2 := cx*cx + cy*cy

	// Squared distances are separable. Precompute both axes in LUT units.
	dx2 := make([]float64, w)
	for x := range dx2 {
		d := float64(x) + 0.5 - cx
		dx2[x] = d * d / dmax2 * (vignetteSteps - 1)
	}
	for y := 0; y < h; y++ {
		d := float64(y) + 0.5 - cy
		dy2 := d * d / dmax2 * (vignetteSteps - 1)
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for x := 0; x < w; x++ {
			idx := min(int(dx2[x]+dy2+0.5), vignetteSteps-1)
			a := vignetteLUT[idx]
			if a == 0 {
				continue
			}
			i := 4 * x
			row[i] = darken(row[i], a)
			row[i+1] = darken(row[i+1], a)
			row[i+2] = darken(row[i+2], a)
		}
	}
}

func tint(img *image.NRGBA, c color.NRGBA, opacity float64) {
	a := alpha8(opacity * float64(c.A) / 255)
	if a == 0 {
		return
	}
	r, g, b := uint32(c.R)*a, uint32(c.G)*a, uint32(c.B)*a
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for i := 0; i < len(row); i += 4 {
			row[i] = uint8((uint32(row[i])*(255-a) + r + 127) / 255)
			row[i+1] = uint8((uint32(row[i+1])*(255-a) + g + 127) / 255)
			row[i+2] = uint8((uint32(row[i+2])*(255-a) + b + 127) / 255)
		}
	}
}
