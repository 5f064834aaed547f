package images

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// placeholderSVG is the glyph shown for records whose image reference no
// longer resolves.
const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300" viewBox="0 0 400 300">
  <rect width="400" height="300" fill="#e9ecf1"/>
  <polygon points="200,70 120,120 280,120" fill="#9aa5b1"/>
  <rect x="140" y="120" width="120" height="90" fill="#b6bfc9"/>
  <rect x="186" y="160" width="28" height="50" fill="#7d8894"/>
  <rect x="152" y="138" width="22" height="22" fill="#e9ecf1"/>
  <rect x="226" y="138" width="22" height="22" fill="#e9ecf1"/>
  <rect x="196" y="52" width="8" height="26" fill="#7d8894"/>
  <polygon points="204,52 204,68 228,60" fill="#7d8894"/>
</svg>`

const (
	placeholderWidth  = 400
	placeholderHeight = 300
)

type placeholderCache struct {
	once sync.Once
	data []byte
	err  error
}

// Placeholder returns the placeholder PNG. It is rendered once and
// reused; the output is immutable.
func (g *Gateway) Placeholder() ([]byte, error) {
	g.placeholder.once.Do(func() {
		g.placeholder.data, g.placeholder.err = renderSVGToPNG(
			[]byte(placeholderSVG), placeholderWidth, placeholderHeight)
	})
	return g.placeholder.data, g.placeholder.err
}

// renderSVGToPNG rasterizes an SVG byte slice into a PNG with the given
// target dimensions.
func renderSVGToPNG(svgData []byte, targetWidth, targetHeight int) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(targetWidth), float64(targetHeight))

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(targetWidth, targetHeight, dst, dst.Bounds())
	dasher := rasterx.NewDasher(targetWidth, targetHeight, scanner)
	icon.Draw(dasher, 1.0)

	var buf bytes.Buffer
	buf.Grow(targetWidth * targetHeight)
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode rendered SVG as PNG: %w", err)
	}
	return buf.Bytes(), nil
}
