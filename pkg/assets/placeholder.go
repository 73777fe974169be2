package assets

import (
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Placeholder dimensions and colors.
const (
	PlaceholderWidth   = 900
	PlaceholderHeight  = 600
	PlaceholderCaption = "image unavailable"
)

var (
	PlaceholderColor = color.NRGBA{0xD5, 0xD8, 0xDC, 0xff}
	captionColor     = color.NRGBA{0x7F, 0x8C, 0x8D, 0xff}
)

var (
	placeholderOnce sync.Once
	placeholderImg  *image.NRGBA
)

// Placeholder returns the shared substitute bitmap. Callers must treat it as
// read-only.
func Placeholder() *image.NRGBA {
	placeholderOnce.Do(func() {
		dc := gg.NewContext(PlaceholderWidth, PlaceholderHeight)
		dc.SetColor(PlaceholderColor)
		dc.Clear()
		dc.SetFontFace(basicfont.Face7x13)
		dc.SetColor(captionColor)
		dc.DrawStringAnchored(PlaceholderCaption, PlaceholderWidth/2, PlaceholderHeight/2, 0.5, 0.5)
		placeholderImg = imaging.Clone(dc.Image())
	})
	return placeholderImg
}
