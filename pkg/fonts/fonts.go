// Package fonts provides the font faces used for raster rendering.
//
// The Go fonts ship as TTF byte slices inside golang.org/x/image, so raster
// output needs no system fonts. Parsed fonts are cached after first use.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the family name used in vector outputs for the same fonts.
const FontFamily = "Go, sans-serif"

var (
	regular, bold *truetype.Font
	parseErr      error
	parseOnce     sync.Once
)

func load() error {
	parseOnce.Do(func() {
		if regular, parseErr = truetype.Parse(goregular.TTF); parseErr != nil {
			parseErr = fmt.Errorf("parse regular font: %w", parseErr)
			return
		}
		if bold, parseErr = truetype.Parse(gobold.TTF); parseErr != nil {
			parseErr = fmt.Errorf("parse bold font: %w", parseErr)
		}
	})
	return parseErr
}

// Face returns a regular face at size points.
func Face(size float64) (font.Face, error) {
	if err := load(); err != nil {
		return nil, err
	}
	return newFace(regular, size), nil
}

// BoldFace returns a bold face at size points.
func BoldFace(size float64) (font.Face, error) {
	if err := load(); err != nil {
		return nil, err
	}
	return newFace(bold, size), nil
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
