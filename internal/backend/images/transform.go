package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// coverResize scales the image to exactly width x height with
// crop-to-fill semantics: the source is center-cropped to the target
// aspect ratio and then scaled, never letterboxed. The result is JPEG
// encoded at the given quality.
func coverResize(data []byte, width, height, quality int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	sourceWidth := bounds.Dx()
	sourceHeight := bounds.Dy()
	if sourceWidth <= 0 || sourceHeight <= 0 {
		return nil, fmt.Errorf("decoded %s image has empty bounds", format)
	}

	cropRect := coverCropRect(bounds, width, height)

	target := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(target, target.Bounds(), img, cropRect, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, target, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}

// coverCropRect returns the centered source rectangle with the target
// aspect ratio. The part of the source outside this rectangle is
// sacrificed.
func coverCropRect(bounds image.Rectangle, targetWidth, targetHeight int) image.Rectangle {
	sourceWidth := bounds.Dx()
	sourceHeight := bounds.Dy()

	sourceAspect := float64(sourceWidth) / float64(sourceHeight)
	targetAspect := float64(targetWidth) / float64(targetHeight)

	cropWidth := sourceWidth
	cropHeight := sourceHeight
	if sourceAspect > targetAspect {
		// Source is wider than the target: trim the sides.
		cropWidth = int(float64(sourceHeight) * targetAspect)
	} else if sourceAspect < targetAspect {
		// Source is taller than the target: trim top and bottom.
		cropHeight = int(float64(sourceWidth) / targetAspect)
	}
	if cropWidth < 1 {
		cropWidth = 1
	}
	if cropHeight < 1 {
		cropHeight = 1
	}

	x0 := bounds.Min.X + (sourceWidth-cropWidth)/2
	y0 := bounds.Min.Y + (sourceHeight-cropHeight)/2
	return image.Rect(x0, y0, x0+cropWidth, y0+cropHeight)
}
