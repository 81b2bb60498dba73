package voc

import (
	"fmt"
	"image/color"
)

// Kind identifies a shape type. Its value is the XML tag the shape is stored under.
type Kind string

const (
	KindPoint   Kind = "point"
	KindLine    Kind = "line"
	KindBndBox  Kind = "bndbox"
	KindPolygon Kind = "polygon"
	KindCircle  Kind = "circle"
)

// Valid reports whether k is one of the five known shape kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPoint, KindLine, KindBndBox, KindPolygon, KindCircle:
		return true
	}
	return false
}

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Geometry is the kind-specific part of a shape. The set of implementations
// is closed: Keypoint, Line, BndBox, Polygon and Circle.
type Geometry interface {
	Kind() Kind
	Points() []Point
	geometry()
}

// Keypoint is a single marked location.
type Keypoint struct {
	X1, Y1 int
}

func (Keypoint) Kind() Kind { return KindPoint }

func (g Keypoint) Points() []Point {
	return []Point{{g.X1, g.Y1}}
}

func (Keypoint) geometry() {}

// Line is a segment between two points.
type Line struct {
	X1, Y1 int
	X2, Y2 int
}

func (Line) Kind() Kind { return KindLine }

func (g Line) Points() []Point {
	return []Point{{g.X1, g.Y1}, {g.X2, g.Y2}}
}

func (Line) geometry() {}

// BndBox is an axis-aligned bounding box. XMin <= XMax and YMin <= YMax is
// expected but not enforced.
type BndBox struct {
	XMin, YMin int
	XMax, YMax int
}

func (BndBox) Kind() Kind { return KindBndBox }

// Points returns the four corners clockwise from top-left, with y growing downward.
func (g BndBox) Points() []Point {
	return []Point{
		{g.XMin, g.YMin},
		{g.XMax, g.YMin},
		{g.XMax, g.YMax},
		{g.XMin, g.YMax},
	}
}

func (BndBox) geometry() {}

// Polygon is an ordered vertex list.
type Polygon struct {
	Vertices []Point
}

func (Polygon) Kind() Kind { return KindPolygon }

func (g Polygon) Points() []Point {
	return clonePoints(g.Vertices)
}

func (Polygon) geometry() {}

// Circle is a center and radius.
type Circle struct {
	CX, CY int
	R      int
}

func (Circle) Kind() Kind { return KindCircle }

// Points returns the center followed by (R, R). The second pair is not a
// location; annotation tools read the radius back out of it.
func (g Circle) Points() []Point {
	return []Point{{g.CX, g.CY}, {g.R, g.R}}
}

func (Circle) geometry() {}

// Shape is one annotated object on an image.
type Shape struct {
	Label     string
	Geometry  Geometry
	Difficult bool

	// LineColor and FillColor belong to the caller. Decoding leaves them nil
	// and encoding ignores them.
	LineColor color.Color
	FillColor color.Color
}

// Kind returns the shape's kind, or "" when Geometry is nil.
func (s Shape) Kind() Kind {
	if s.Geometry == nil {
		return ""
	}
	return s.Geometry.Kind()
}

// Points returns the shape's flattened coordinate list.
func (s Shape) Points() []Point {
	if s.Geometry == nil {
		return nil
	}
	return s.Geometry.Points()
}

// NewBndBox returns a labelled bounding box shape.
func NewBndBox(label string, xmin, ymin, xmax, ymax int, difficult bool) Shape {
	return Shape{Label: label, Geometry: BndBox{xmin, ymin, xmax, ymax}, Difficult: difficult}
}

// NewCircle returns a labelled circle shape.
func NewCircle(label string, cx, cy, r int, difficult bool) Shape {
	return Shape{Label: label, Geometry: Circle{cx, cy, r}, Difficult: difficult}
}

// NewKeypoint returns a labelled point shape.
func NewKeypoint(label string, x, y int, difficult bool) Shape {
	return Shape{Label: label, Geometry: Keypoint{x, y}, Difficult: difficult}
}

// NewLine returns a labelled line shape.
func NewLine(label string, x1, y1, x2, y2 int, difficult bool) Shape {
	return Shape{Label: label, Geometry: Line{x1, y1, x2, y2}, Difficult: difficult}
}

// NewPolygon returns a labelled polygon shape. The vertex slice is copied.
func NewPolygon(label string, vertices []Point, difficult bool) Shape {
	return Shape{Label: label, Geometry: Polygon{Vertices: clonePoints(vertices)}, Difficult: difficult}
}

// ShapeFromPoints builds a shape from a kind and a flattened point list,
// reversing Shape.Points.
//
// Expected point counts:
//   - point: 1
//   - line: 2
//   - bndbox: 4 corners as returned by BndBox.Points, or 2 opposite corners
//   - polygon: any
//   - circle: 2, the center and (r, r)
func ShapeFromPoints(label string, kind Kind, pts []Point, difficult bool) (Shape, error) {
	var g Geometry
	switch kind {
	case KindPoint:
		if len(pts) != 1 {
			return Shape{}, pointCountError(kind, len(pts), "1")
		}
		g = Keypoint{pts[0].X, pts[0].Y}
	case KindLine:
		if len(pts) != 2 {
			return Shape{}, pointCountError(kind, len(pts), "2")
		}
		g = Line{pts[0].X, pts[0].Y, pts[1].X, pts[1].Y}
	case KindBndBox:
		switch len(pts) {
		case 4:
			g = BndBox{pts[0].X, pts[0].Y, pts[2].X, pts[2].Y}
		case 2:
			g = BndBox{pts[0].X, pts[0].Y, pts[1].X, pts[1].Y}
		default:
			return Shape{}, pointCountError(kind, len(pts), "2 or 4")
		}
	case KindPolygon:
		g = Polygon{Vertices: clonePoints(pts)}
	case KindCircle:
		if len(pts) != 2 {
			return Shape{}, pointCountError(kind, len(pts), "2")
		}
		g = Circle{pts[0].X, pts[0].Y, pts[1].X}
	default:
		return Shape{}, fmt.Errorf("%w: unknown shape kind %q", ErrMalformedGeometry, kind)
	}
	return Shape{Label: label, Geometry: g, Difficult: difficult}, nil
}

func pointCountError(kind Kind, got int, want string) error {
	return fmt.Errorf("%w: %s needs %s points, got %d", ErrMalformedGeometry, kind, want, got)
}

func clonePoints(pts []Point) []Point {
	out := make([]Point, len(pts))
	copy(out, pts)
	return out
}
