package imaging

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/ironsheep/voc-tools-mcp/internal/config"
	"github.com/ironsheep/voc-tools-mcp/internal/voc"
)

var red = color.NRGBA{255, 0, 0, 255}

func renderDoc(shapes ...voc.Shape) *voc.Document {
	return &voc.Document{
		Folder:   "images",
		Filename: "white.png",
		Size:     voc.ImageSize{Height: 100, Width: 100, Depth: 3},
		Shapes:   shapes,
	}
}

func plainOptions(width int) RenderOptions {
	return RenderOptions{LineWidth: width, Saturation: 0.75, Value: 0.95}
}

func TestRender_DrawsEveryKind(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)

	tests := []struct {
		name   string
		shape  voc.Shape
		onLine image.Point
		inside image.Point
	}{
		{"box", voc.NewBndBox("b", 10, 20, 60, 70, false), image.Pt(10, 45), image.Pt(35, 45)},
		{"circle", voc.NewCircle("c", 50, 50, 20, false), image.Pt(70, 50), image.Pt(50, 50)},
		{"line", voc.NewLine("l", 0, 0, 99, 99, false), image.Pt(40, 40), image.Pt(40, 60)},
		{"polygon", voc.NewPolygon("p", []voc.Point{{X: 10, Y: 10}, {X: 90, Y: 10}, {X: 50, Y: 90}}, false), image.Pt(50, 10), image.Pt(50, 40)},
		{"point", voc.NewKeypoint("k", 50, 50, false), image.Pt(52, 50), image.Pt(60, 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.shape
			s.LineColor = red
			out := Render(img, renderDoc(s), plainOptions(1))

			if got := out.NRGBAAt(tt.onLine.X, tt.onLine.Y); got != red {
				t.Errorf("pixel %v on outline: got %v, want red", tt.onLine, got)
			}
			if got := out.NRGBAAt(tt.inside.X, tt.inside.Y); got != (color.NRGBA{255, 255, 255, 255}) {
				t.Errorf("pixel %v off outline: got %v, want white", tt.inside, got)
			}
		})
	}
}

func TestRender_DoesNotModifyInput(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)
	s := voc.NewBndBox("b", 2, 2, 10, 10, false)
	s.LineColor = red

	Render(img, renderDoc(s), plainOptions(1))

	if got := img.RGBAAt(2, 2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("input image was modified: %v", got)
	}
}

func TestRender_LineWidth(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)
	s := voc.NewBndBox("b", 20, 20, 80, 80, false)
	s.LineColor = red

	thin := Render(img, renderDoc(s), plainOptions(1))
	thick := Render(img, renderDoc(s), plainOptions(3))

	if thin.NRGBAAt(21, 50) == red {
		t.Error("width 1 outline should not cover the neighbouring column")
	}
	if thick.NRGBAAt(21, 50) != red || thick.NRGBAAt(19, 50) != red {
		t.Error("width 3 outline should cover one column each side")
	}
}

func TestRender_FillColor(t *testing.T) {
	img := createInMemoryImage(50, 50, color.White)
	s := voc.NewCircle("c", 25, 25, 10, false)
	s.LineColor = red
	s.FillColor = color.NRGBA{0, 0, 255, 255}

	out := Render(img, renderDoc(s), plainOptions(1))

	if got := out.NRGBAAt(25, 25); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("circle center should be filled, got %v", got)
	}
	if got := out.NRGBAAt(2, 2); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("outside the circle should stay white, got %v", got)
	}
}

func TestRender_LabelColor(t *testing.T) {
	img := createInMemoryImage(50, 50, color.White)
	opts := plainOptions(1)

	out := Render(img, renderDoc(voc.NewBndBox("dog", 5, 5, 40, 40, false)), opts)

	want := color.NRGBAModel.Convert(LabelColor("dog", opts.Saturation, opts.Value)).(color.NRGBA)
	if got := out.NRGBAAt(5, 20); got != want {
		t.Errorf("outline color: got %v, want label color %v", got, want)
	}
}

func TestRender_Desaturate(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{255, 0, 0, 255})
	opts := plainOptions(1)
	opts.Desaturate = -1

	out := Render(img, renderDoc(), opts)

	c := out.NRGBAAt(5, 5)
	if c.R != c.G || c.G != c.B {
		t.Errorf("fully desaturated pixel should be gray, got %v", c)
	}
}

func TestRender_ClipsOutsideShapes(t *testing.T) {
	img := createInMemoryImage(30, 30, color.White)
	shapes := []voc.Shape{
		voc.NewBndBox("big", -10, -10, 100, 100, false),
		voc.NewCircle("away", 500, 500, 50, false),
		voc.NewLine("across", -50, 15, 80, 15, false),
		{Label: "empty"},
	}

	out := Render(img, renderDoc(shapes...), plainOptions(5))
	if out.Bounds() != img.Bounds() {
		t.Errorf("bounds changed: got %v", out.Bounds())
	}
}

func TestRender_HugeCoordinatesStayCheap(t *testing.T) {
	img := createInMemoryImage(50, 50, color.White)
	const far = 2_000_000_000

	ring := voc.NewCircle("ring", 25, far+10, far, false)
	filled := voc.NewCircle("disc", 25, 25, far, false)
	filled.FillColor = color.NRGBA{0, 0, 255, 255}

	tests := []struct {
		name  string
		shape voc.Shape
		drawn image.Point
	}{
		{"line", voc.NewLine("l", 10, 0, 10, far, false), image.Pt(10, 25)},
		{"box", voc.NewBndBox("b", 5, 5, far, far, false), image.Pt(5, 30)},
		{"circle through image", ring, image.Pt(25, 10)},
		{"circle around image", voc.NewCircle("c", 25, 25, far, false), image.Pt(-1, -1)},
		{"filled circle", filled, image.Pt(-1, -1)},
		{"point", voc.NewKeypoint("k", far, -far, false), image.Pt(-1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.shape
			s.LineColor = red

			start := time.Now()
			out := Render(img, renderDoc(s), plainOptions(3))
			if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
				t.Errorf("render took %v", elapsed)
			}

			if tt.drawn.X >= 0 {
				if got := out.NRGBAAt(tt.drawn.X, tt.drawn.Y); got != red {
					t.Errorf("pixel %v: got %v, want red", tt.drawn, got)
				}
			}
		})
	}

	t.Run("fill covers image", func(t *testing.T) {
		out := Render(img, renderDoc(filled), plainOptions(1))
		if got := out.NRGBAAt(0, 49); got != filled.FillColor {
			t.Errorf("corner pixel: got %v, want fill", got)
		}
	})
}

func TestClipSegment(t *testing.T) {
	r := image.Rect(0, 0, 10, 10)
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           [4]int
		ok             bool
	}{
		{"inside", 1, 1, 8, 8, [4]int{1, 1, 8, 8}, true},
		{"vertical through", 3, -100, 3, 100, [4]int{3, 0, 3, 9}, true},
		{"diagonal through", -5, -5, 20, 20, [4]int{0, 0, 9, 9}, true},
		{"outside", 20, 0, 30, 9, [4]int{}, false},
		{"misses corner", -5, 3, 3, -5, [4]int{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x0, y0, x1, y1, ok := clipSegment(tt.x0, tt.y0, tt.x1, tt.y1, r)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if ok && [4]int{x0, y0, x1, y1} != tt.want {
				t.Errorf("got %v, want %v", [4]int{x0, y0, x1, y1}, tt.want)
			}
		})
	}
}

func TestRenderPNG(t *testing.T) {
	img := createInMemoryImage(40, 30, color.White)
	doc := renderDoc(
		voc.NewBndBox("dog", 2, 2, 20, 20, false),
		voc.NewBndBox("dog", 5, 5, 25, 25, false),
		voc.NewCircle("ball", 30, 15, 5, true),
	)

	result, err := RenderPNG(img, doc, PreviewOptions(config.DefaultConfig().Preview))
	if err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}
	if result.Width != 40 || result.Height != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", result.Width, result.Height)
	}
	if result.Objects != 3 {
		t.Errorf("Objects: got %d, want 3", result.Objects)
	}
	if len(result.Palette) != 2 {
		t.Errorf("Palette: got %d labels, want 2", len(result.Palette))
	}
	decodeResult(t, result.ImageBase64)
}

func TestSaveImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	if err := SaveImage(createInMemoryImage(8, 8, color.White), path); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if _, err := NewImageCache().Load(path); err != nil {
		t.Errorf("saved preview should load back: %v", err)
	}

	if err := SaveImage(createInMemoryImage(8, 8, color.White), filepath.Join(t.TempDir(), "x.unknown")); err == nil {
		t.Error("SaveImage should fail for an unsupported extension")
	}
}

func TestLabelColor(t *testing.T) {
	a := LabelColor("dog", 0.75, 0.95)
	b := LabelColor("dog", 0.75, 0.95)
	if a != b {
		t.Errorf("LabelColor is not stable: %v vs %v", a, b)
	}
	if a.Hex() == LabelColor("cat", 0.75, 0.95).Hex() && a.Hex() == LabelColor("bird", 0.75, 0.95).Hex() {
		t.Error("distinct labels should not all share one color")
	}
	if h, s, v := a.Hsv(); s < 0.74 || s > 0.76 || v < 0.94 || v > 0.96 || h < 0 || h >= 360 {
		t.Errorf("unexpected HSV (%g, %g, %g)", h, s, v)
	}
}
