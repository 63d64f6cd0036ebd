// Package imageloader decodes raster images for placement on the canvas
// and converts bitmaps to and from the data URLs embedded in project
// files.
package imageloader

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/tiff"
)

const pngDataURLPrefix = "data:image/png;base64,"

// Bitmap is a decoded image plus its pixel dimensions, which become the
// CanvasImage's unscaled local size.
type Bitmap struct {
	Image  image.Image
	Width  int
	Height int
}

// Load decodes image bytes (PNG, JPEG, GIF or TIFF), applying EXIF
// orientation so the decoded pixels match what the user saw in their
// viewer.
func Load(data []byte) (*Bitmap, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	bounds := img.Bounds()
	return &Bitmap{
		Image:  img,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// EncodeDataURL serializes a bitmap as a PNG data URL for embedding in a
// project file.
func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encoding bitmap: %w", err)
	}
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL decodes an embedded image data URL. Any image/* media
// type the decoders understand is accepted, not just PNG.
func DecodeDataURL(url string) (*Bitmap, error) {
	idx := strings.Index(url, ";base64,")
	if !strings.HasPrefix(url, "data:image/") || idx < 0 {
		return nil, fmt.Errorf("not an image data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(url[idx+len(";base64,"):])
	if err != nil {
		return nil, fmt.Errorf("decoding data URL: %w", err)
	}
	return Load(raw)
}
