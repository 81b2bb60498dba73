package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/voc-tools-mcp/internal/voc"
)

// CropResult contains the cropped image data
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`

	// Region is the source rectangle, in image coordinates, the crop was taken from.
	Region Region `json:"region"`
}

// Region is a half-open pixel rectangle in JSON-friendly form.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Crop extracts a rectangular region from an image, scaling it when scale
// is positive and not 1.
func Crop(img image.Image, r image.Rectangle, scale float64) (*CropResult, error) {
	bounds := img.Bounds()

	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, bounds)
	}
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region %v: empty", r)
	}

	cropped := imaging.Crop(img, r)

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	encoded, err := encodePNG(cropped)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
		Region:      Region{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y},
	}, nil
}

// ShapeBounds returns the smallest rectangle covering every pixel of the
// shape. Circles use center plus or minus radius. A shape without geometry
// has empty bounds.
func ShapeBounds(s voc.Shape) image.Rectangle {
	if c, ok := s.Geometry.(voc.Circle); ok {
		return image.Rect(c.CX-c.R, c.CY-c.R, c.CX+c.R+1, c.CY+c.R+1)
	}

	pts := s.Points()
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// CropShape crops the pixels under one annotated object. The shape bounds
// are clipped to the image first; a shape lying wholly outside the image is
// an error.
func CropShape(img image.Image, s voc.Shape, scale float64) (*CropResult, error) {
	if s.Geometry == nil {
		return nil, fmt.Errorf("shape %q has no geometry", s.Label)
	}

	r := ShapeBounds(s).Intersect(img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("%s %q lies outside image bounds %v", s.Kind(), s.Label, img.Bounds())
	}
	return Crop(img, r, scale)
}

func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
