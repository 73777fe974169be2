// Package fonts loads the card typeface and caches its metrics.
//
// A [Font] is parsed once, when the renderer is constructed, and is safe for
// concurrent use afterwards. Two kinds of faces come out of it:
//
//   - [Font.Metrics] returns a shared, lock-guarded measuring face for a size.
//     Entries are created on first request and then only read, so every
//     render in the process measures text against the same cached glyph
//     data.
//   - [Font.NewFace] returns a fresh face for drawing. font.Face values are
//     not safe for concurrent use, so each render draws with its own.
//
// Both kinds are built with identical options, so a string measured through
// Metrics has exactly the width it is drawn with.
package fonts

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/matzehuels/workcard/pkg/errors"
)

// Font is a parsed TrueType font with a metric cache keyed by size.
type Font struct {
	name string
	id   string
	ttf  *truetype.Font

	mu      sync.RWMutex
	metrics map[float64]*Metrics
}

// Load reads and parses the font file at path. A missing, unreadable, or
// unparsable file is a FONT_LOAD error.
func Load(path string) (*Font, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeFontLoad, "font path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontLoad, err, "read font %s", path)
	}
	return Parse(filepath.Base(path), data)
}

// Parse parses TrueType data. name is only used for logging.
func Parse(name string, data []byte) (*Font, error) {
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontLoad, err, "parse font %s", name)
	}
	sum := sha256.Sum256(data)
	return &Font{
		name:    name,
		id:      hex.EncodeToString(sum[:8]),
		ttf:     ttf,
		metrics: make(map[float64]*Metrics),
	}, nil
}

// Name returns the font's file name.
func (f *Font) Name() string { return f.name }

// ID returns a short content hash identifying the font data.
func (f *Font) ID() string { return f.id }

// NewFace returns a new face at size points. The caller owns it exclusively.
func (f *Font) NewFace(size float64) font.Face {
	return truetype.NewFace(f.ttf, faceOptions(size))
}

// Metrics returns the cached measuring face for size, creating it on first use.
func (f *Font) Metrics(size float64) *Metrics {
	f.mu.RLock()
	m, ok := f.metrics[size]
	f.mu.RUnlock()
	if ok {
		return m
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.metrics[size]; ok {
		return m
	}
	m = newMetrics(f.NewFace(size), size)
	f.metrics[size] = m
	return m
}

// CachedSizes reports how many sizes have a cached measuring face.
func (f *Font) CachedSizes() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.metrics)
}

func faceOptions(size float64) *truetype.Options {
	return &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}
}

// Metrics measures text at one size. It is safe for concurrent use.
type Metrics struct {
	size    float64
	ascent  int
	descent int

	mu   sync.Mutex
	face font.Face
}

func newMetrics(face font.Face, size float64) *Metrics {
	fm := face.Metrics()
	return &Metrics{
		size:    size,
		ascent:  fm.Ascent.Ceil(),
		descent: fm.Descent.Ceil(),
		face:    face,
	}
}

// Size returns the point size the metrics were built for.
func (m *Metrics) Size() float64 { return m.size }

// Ascent is the distance in pixels from the top of a line to its baseline.
func (m *Metrics) Ascent() int { return m.ascent }

// Descent is the distance in pixels from the baseline to the bottom of a line.
func (m *Metrics) Descent() int { return m.descent }

// LineHeight is the height in pixels of one line of text, without spacing.
func (m *Metrics) LineHeight() int { return m.ascent + m.descent }

// Width returns the advance width of s in whole pixels, rounded up.
func (m *Metrics) Width(s string) int {
	if s == "" {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return font.MeasureString(m.face, s).Ceil()
}
