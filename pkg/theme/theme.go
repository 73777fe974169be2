// Package theme maps category labels to card color themes.
//
// The set of themes is closed: every [Variant] is declared here and [All]
// enumerates them, so tests and the CLI can exhaust the table. Lookups are
// total. [Resolve] never fails and falls back to [Default] for labels it
// does not know.
package theme

import (
	"fmt"
	"image/color"
	"strings"
)

// Variant identifies one theme.
type Variant int

const (
	Default Variant = iota
	Game
	Anime
	Film
	Art
	Comic
	Featured
	Other
)

// Pattern is the decorative pattern drawn behind the info block.
type Pattern int

const (
	PatternNone Pattern = iota
	PatternDots
	PatternStripes
	PatternGrid
	PatternWaves
)

func (p Pattern) String() string {
	switch p {
	case PatternDots:
		return "dots"
	case PatternStripes:
		return "stripes"
	case PatternGrid:
		return "grid"
	case PatternWaves:
		return "waves"
	default:
		return "none"
	}
}

// Theme is the palette and pattern for one card. Values are immutable; the
// table hands out copies.
type Theme struct {
	Variant   Variant
	Name      string
	Primary   color.NRGBA
	Secondary color.NRGBA
	Accent    color.NRGBA
	Pattern   Pattern
}

func rgb(hex uint32) color.NRGBA {
	return color.NRGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: 0xff}
}

var themes = [...]Theme{
	Default:  {Default, "default", rgb(0x34495E), rgb(0xECF0F1), rgb(0x3498DB), PatternNone},
	Game:     {Game, "game", rgb(0x1B4F72), rgb(0xD6EAF8), rgb(0x2E86C1), PatternGrid},
	Anime:    {Anime, "anime", rgb(0xC0392B), rgb(0xFADBD8), rgb(0xEC407A), PatternDots},
	Film:     {Film, "film", rgb(0x212F3D), rgb(0xE5E8E8), rgb(0xF1C40F), PatternStripes},
	Art:      {Art, "art", rgb(0x7D3C98), rgb(0xEBDEF0), rgb(0xAF7AC5), PatternWaves},
	Comic:    {Comic, "comic", rgb(0xD35400), rgb(0xFDEBD0), rgb(0xF39C12), PatternDots},
	Featured: {Featured, "featured", rgb(0xB7950B), rgb(0xFCF3CF), rgb(0xD4AC0D), PatternStripes},
	Other:    {Other, "other", rgb(0x117A65), rgb(0xD1F2EB), rgb(0x1ABC9C), PatternGrid},
}

// labels maps normalized category labels, in both the site's Chinese and
// plain English spellings, to variants.
var labels = map[string]Variant{
	"游戏":        Game,
	"game":      Game,
	"games":     Game,
	"二次元":       Anime,
	"anime":     Anime,
	"影视":        Film,
	"film":      Film,
	"movie":     Film,
	"文创":        Art,
	"文创,潮流,艺术":  Art,
	"art":       Art,
	"动画漫画":      Comic,
	"comic":     Comic,
	"animation": Comic,
	"精选":        Featured,
	"featured":  Featured,
	"其他":        Other,
	"other":     Other,
}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(themes) {
		return fmt.Sprintf("Variant(%d)", int(v))
	}
	return themes[v].Name
}

// All returns every theme in variant order.
func All() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes[:])
	return out
}

// ForVariant returns the theme for v, or the default theme for a value
// outside the enumeration.
func ForVariant(v Variant) Theme {
	if v < 0 || int(v) >= len(themes) {
		return themes[Default]
	}
	return themes[v]
}

// Resolve returns the theme for a category label. Matching ignores case and
// surrounding whitespace; unknown and empty labels get the default theme.
func Resolve(label string) Theme {
	if v, ok := labels[normalize(label)]; ok {
		return themes[v]
	}
	return themes[Default]
}

// ParseVariant maps a variant selector ("anime", "film", ...) to a Variant.
// The empty selector is valid and reports ok=false so callers fall back to
// category resolution.
func ParseVariant(selector string) (Variant, bool, error) {
	s := normalize(selector)
	if s == "" {
		return Default, false, nil
	}
	for _, t := range themes {
		if t.Name == s {
			return t.Variant, true, nil
		}
	}
	return Default, false, fmt.Errorf("unknown theme variant %q", selector)
}

// Select applies the optional variant selector, falling back to the
// category label when the selector is empty.
func Select(selector, category string) (Theme, error) {
	v, ok, err := ParseVariant(selector)
	if err != nil {
		return Theme{}, err
	}
	if ok {
		return ForVariant(v), nil
	}
	return Resolve(category), nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Hex formats c as #rrggbb.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
