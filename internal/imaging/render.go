package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/voc-tools-mcp/internal/config"
	"github.com/ironsheep/voc-tools-mcp/internal/voc"
)

// RenderOptions controls annotation previews.
type RenderOptions struct {
	// Desaturate is the saturation change applied to the image before
	// drawing. -1 gives grayscale and 0 leaves colors alone.
	Desaturate float64

	// LineWidth is the outline brush size in pixels.
	LineWidth int

	// Saturation and Value feed LabelColor.
	Saturation float64
	Value      float64
}

// PreviewOptions converts the preview section of the configuration.
func PreviewOptions(cfg config.PreviewConfig) RenderOptions {
	return RenderOptions{
		Desaturate: cfg.Desaturate,
		LineWidth:  cfg.LineWidth,
		Saturation: cfg.Saturation,
		Value:      cfg.Value,
	}
}

// RenderResult contains a rendered preview
type RenderResult struct {
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	ImageBase64 string            `json:"image_base64"`
	MimeType    string            `json:"mime_type"`
	Objects     int               `json:"objects"`
	Palette     map[string]string `json:"palette"`
}

// Render draws every shape of doc over a copy of img.
//
// Boxes and polygons are outlined, circles are traced, lines are stroked
// and points are marked with a small cross. A shape's FillColor, when set,
// is blended into boxes and circles before the outline is drawn. Parts of
// shapes outside the image are clipped.
func Render(img image.Image, doc *voc.Document, opts RenderOptions) *image.NRGBA {
	src := img
	if opts.Desaturate != 0 {
		src = adjust.Saturation(img, opts.Desaturate)
	}
	out := imaging.Clone(src)

	width := opts.LineWidth
	if width < 1 {
		width = 1
	}

	for _, s := range doc.Shapes {
		if s.FillColor != nil {
			fillShape(out, s, s.FillColor)
		}

		var c color.Color = s.LineColor
		if c == nil {
			c = LabelColor(s.Label, opts.Saturation, opts.Value)
		}
		b := brush{img: out, c: color.NRGBAModel.Convert(c).(color.NRGBA), size: width}

		switch g := s.Geometry.(type) {
		case voc.Keypoint:
			arm := 2 + width
			b.line(g.X1-arm, g.Y1, g.X1+arm, g.Y1)
			b.line(g.X1, g.Y1-arm, g.X1, g.Y1+arm)
		case voc.Line:
			b.line(g.X1, g.Y1, g.X2, g.Y2)
		case voc.BndBox, voc.Polygon:
			b.closedPath(s.Points())
		case voc.Circle:
			b.circle(g.CX, g.CY, g.R)
		}
	}
	return out
}

// RenderPNG renders doc over img and returns the preview as base64 PNG.
func RenderPNG(img image.Image, doc *voc.Document, opts RenderOptions) (*RenderResult, error) {
	out := Render(img, doc, opts)

	encoded, err := encodePNG(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	labels := make([]string, len(doc.Shapes))
	for i, s := range doc.Shapes {
		labels[i] = s.Label
	}

	return &RenderResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
		Objects:     len(doc.Shapes),
		Palette:     LabelPalette(labels, opts.Saturation, opts.Value),
	}, nil
}

// SaveImage writes img to path. The format follows the file extension.
func SaveImage(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

func fillShape(dst draw.Image, s voc.Shape, fill color.Color) {
	u := image.NewUniform(fill)
	switch g := s.Geometry.(type) {
	case voc.BndBox:
		draw.Draw(dst, ShapeBounds(s), u, image.Point{}, draw.Over)
	case voc.Circle:
		// Only rows inside the image are visited.
		rows := ShapeBounds(s).Intersect(dst.Bounds())
		r := float64(g.R)
		for y := rows.Min.Y; y < rows.Max.Y; y++ {
			dy := float64(y - g.CY)
			half := int(math.Sqrt(math.Max(0, r*r-dy*dy)))
			row := image.Rect(g.CX-half, y, g.CX+half+1, y+1)
			draw.Draw(dst, row, u, image.Point{}, draw.Over)
		}
	}
}

// brush plots square dots of a fixed size, clipped to the image bounds.
type brush struct {
	img  *image.NRGBA
	c    color.NRGBA
	size int
}

func (b brush) dot(x, y int) {
	lo := -(b.size - 1) / 2
	hi := b.size / 2
	r := image.Rect(x+lo, y+lo, x+hi+1, y+hi+1).Intersect(b.img.Bounds())
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			b.img.SetNRGBA(px, py, b.c)
		}
	}
}

// reach is the area where a dot can still touch the image.
func (b brush) reach() image.Rectangle {
	return b.img.Bounds().Inset(-b.size)
}

// line draws a segment with Bresenham's algorithm. The segment is clipped
// to the image first, so the work is bounded by the image size.
func (b brush) line(x0, y0, x1, y1 int) {
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, b.reach())
	if !ok {
		return
	}
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		b.dot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (b brush) closedPath(pts []voc.Point) {
	switch len(pts) {
	case 0:
		return
	case 1:
		b.dot(pts[0].X, pts[0].Y)
		return
	}
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		b.line(p.X, p.Y, q.X, q.Y)
	}
}

// circle traces a circle outline. Circles small enough to cost no more
// than the image's perimeter use the midpoint algorithm; larger ones are
// sampled once per row and column of the visible area.
func (b brush) circle(cx, cy, r int) {
	if r <= 0 {
		b.dot(cx, cy)
		return
	}
	reach := b.reach()
	area := image.Rect(cx-r, cy-r, cx+r+1, cy+r+1).Intersect(reach)
	if area.Empty() {
		return
	}
	if r > reach.Dx()+reach.Dy() {
		b.sampledCircle(cx, cy, r, area)
		return
	}

	x, y := r, 0
	d := 1 - r
	for x >= y {
		b.dot(cx+x, cy+y)
		b.dot(cx+y, cy+x)
		b.dot(cx-y, cy+x)
		b.dot(cx-x, cy+y)
		b.dot(cx-x, cy-y)
		b.dot(cx-y, cy-x)
		b.dot(cx+y, cy-x)
		b.dot(cx+x, cy-y)
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

func (b brush) sampledCircle(cx, cy, r int, area image.Rectangle) {
	fr := float64(r)
	offset := func(d int) int {
		fd := float64(d)
		return int(math.Round(math.Sqrt(math.Max(0, fr*fr-fd*fd))))
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		dx := offset(y - cy)
		b.dot(cx-dx, y)
		b.dot(cx+dx, y)
	}
	for x := area.Min.X; x < area.Max.X; x++ {
		dy := offset(x - cx)
		b.dot(x, cy-dy)
		b.dot(x, cy+dy)
	}
}

// clipSegment clips a segment to r with the Liang-Barsky algorithm. It
// reports false when no part of the segment lies inside r.
func clipSegment(x0, y0, x1, y1 int, r image.Rectangle) (int, int, int, int, bool) {
	if image.Pt(x0, y0).In(r) && image.Pt(x1, y1).In(r) {
		return x0, y0, x1, y1, true
	}

	fx, fy := float64(x0), float64(y0)
	dx, dy := float64(x1)-fx, float64(y1)-fy
	minX, maxX := float64(r.Min.X), float64(r.Max.X-1)
	minY, maxY := float64(r.Min.Y), float64(r.Max.Y-1)

	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, fx - minX},
		{dx, maxX - fx},
		{-dy, fy - minY},
		{dy, maxY - fy},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}

	at := func(t float64) (int, int) {
		return int(math.Round(fx + t*dx)), int(math.Round(fy + t*dy))
	}
	ax, ay := at(t0)
	bx, by := at(t1)
	return ax, ay, bx, by, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
