package voc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Input-side element layout. Leaf values stay as text so each field can be
// checked for presence and parsed on its own terms.
type xmlAnnotationIn struct {
	XMLName  xml.Name      `xml:"annotation"`
	Verified string        `xml:"verified,attr"`
	Folder   []string      `xml:"folder"`
	Filename []string      `xml:"filename"`
	Path     []string      `xml:"path"`
	Source   xmlSource     `xml:"source"`
	Size     xmlSize       `xml:"size"`
	Objects  []xmlObjectIn `xml:"object"`
}

// Repeated children are kept apart so that only the first of each is read.
type xmlObjectIn struct {
	Name      []string    `xml:"name"`
	Difficult []string    `xml:"difficult"`
	Point     []xmlLeaves `xml:"point"`
	Line      []xmlLeaves `xml:"line"`
	BndBox    []xmlLeaves `xml:"bndbox"`
	Polygon   []xmlLeaves `xml:"polygon"`
	Circle    []xmlLeaves `xml:"circle"`
}

// first returns the first element of ss, or "" when there is none.
func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}

// firstLeaves returns the first shape element of its kind, or nil.
func firstLeaves(ls []xmlLeaves) *xmlLeaves {
	if len(ls) == 0 {
		return nil
	}
	return &ls[0]
}

// xmlLeaves captures every child of a shape element in document order.
type xmlLeaves struct {
	Children []xmlLeaf `xml:",any"`
}

type xmlLeaf struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

// find returns the text of the first child named tag.
func (l *xmlLeaves) find(tag string) (string, bool) {
	for _, c := range l.Children {
		if c.XMLName.Local == tag {
			return c.Text, true
		}
	}
	return "", false
}

// intValue reads the first child named tag as a decimal integer.
func (l *xmlLeaves) intValue(tag string) (int, error) {
	text, ok := l.find(tag)
	if !ok {
		return 0, fmt.Errorf("%w: missing <%s>", ErrMalformedGeometry, tag)
	}
	return parseInt(tag, text)
}

// ints reads several integer children in order.
func (l *xmlLeaves) ints(tags ...string) ([]int, error) {
	vals := make([]int, len(tags))
	for i, tag := range tags {
		v, err := l.intValue(tag)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

type shapeDecoder struct {
	kind   Kind
	elem   func(*xmlObjectIn) *xmlLeaves
	decode func(*xmlLeaves) (Geometry, error)
}

// shapeDecoders is probed in order; the first element present on an object
// decides its kind.
var shapeDecoders = []shapeDecoder{
	{KindPoint, func(o *xmlObjectIn) *xmlLeaves { return firstLeaves(o.Point) }, decodeKeypoint},
	{KindLine, func(o *xmlObjectIn) *xmlLeaves { return firstLeaves(o.Line) }, decodeLine},
	{KindBndBox, func(o *xmlObjectIn) *xmlLeaves { return firstLeaves(o.BndBox) }, decodeBndBox},
	{KindPolygon, func(o *xmlObjectIn) *xmlLeaves { return firstLeaves(o.Polygon) }, decodePolygon},
	{KindCircle, func(o *xmlObjectIn) *xmlLeaves { return firstLeaves(o.Circle) }, decodeCircle},
}

// Decode parses an annotation file.
//
// Objects are returned in document order. An object without any recognized
// shape element is skipped. Any other problem fails the whole decode; see the
// package documentation for the error kinds.
func Decode(data []byte) (*Document, error) {
	return DecodeReader(bytes.NewReader(data))
}

// DecodeReader parses an annotation file read from r.
func DecodeReader(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	var raw xmlAnnotationIn
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}

	doc := &Document{
		Folder:   first(raw.Folder),
		Filename: first(raw.Filename),
		Path:     first(raw.Path),
		Database: raw.Source.Database,
		Size:     parseSize(raw.Size),
		Verified: raw.Verified == verifiedYes,
		Shapes:   make([]Shape, 0, len(raw.Objects)),
	}

	for i := range raw.Objects {
		shape, ok, err := decodeObject(&raw.Objects[i])
		if err != nil {
			return nil, &ObjectError{Index: i, Element: elementOf(err), Err: err}
		}
		if ok {
			doc.Shapes = append(doc.Shapes, shape)
		}
	}
	return doc, nil
}

// expectEOF fails unless only whitespace, comments and processing
// instructions follow the root element.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrParse, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("%w: unexpected <%s> after </annotation>", ErrParse, t.Name.Local)
		case xml.EndElement:
			return fmt.Errorf("%w: unexpected </%s> after </annotation>", ErrParse, t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return fmt.Errorf("%w: unexpected text after </annotation>", ErrParse)
			}
		}
	}
}

// elementError ties a failure to the child element it came from.
type elementError struct {
	element string
	err     error
}

func (e *elementError) Error() string { return e.err.Error() }
func (e *elementError) Unwrap() error { return e.err }

func elementOf(err error) string {
	if e, ok := err.(*elementError); ok {
		return e.element
	}
	return ""
}

func decodeObject(obj *xmlObjectIn) (Shape, bool, error) {
	for _, d := range shapeDecoders {
		leaves := d.elem(obj)
		if leaves == nil {
			continue
		}

		if len(obj.Name) == 0 {
			return Shape{}, false, &elementError{"name", ErrMissingRequiredElement}
		}
		if len(obj.Difficult) == 0 {
			return Shape{}, false, &elementError{"difficult", ErrMissingRequiredElement}
		}
		difficult, err := parseDifficult(obj.Difficult[0])
		if err != nil {
			return Shape{}, false, &elementError{"difficult", err}
		}

		g, err := d.decode(leaves)
		if err != nil {
			return Shape{}, false, &elementError{string(d.kind), err}
		}
		return Shape{Label: obj.Name[0], Geometry: g, Difficult: difficult}, true, nil
	}
	return Shape{}, false, nil
}

func decodeKeypoint(l *xmlLeaves) (Geometry, error) {
	v, err := l.ints("x1", "y1")
	if err != nil {
		return nil, err
	}
	return Keypoint{v[0], v[1]}, nil
}

func decodeLine(l *xmlLeaves) (Geometry, error) {
	v, err := l.ints("x1", "y1", "x2", "y2")
	if err != nil {
		return nil, err
	}
	return Line{v[0], v[1], v[2], v[3]}, nil
}

func decodeBndBox(l *xmlLeaves) (Geometry, error) {
	v, err := l.ints("xmin", "ymin", "xmax", "ymax")
	if err != nil {
		return nil, err
	}
	return BndBox{v[0], v[1], v[2], v[3]}, nil
}

// decodePolygon reads x1,y1 .. xN,yN where N is half the child count.
func decodePolygon(l *xmlLeaves) (Geometry, error) {
	if len(l.Children)%2 != 0 {
		return nil, fmt.Errorf("%w: polygon has %d coordinate elements, want an even count",
			ErrMalformedGeometry, len(l.Children))
	}
	n := len(l.Children) / 2
	vertices := make([]Point, 0, n)
	for i := 1; i <= n; i++ {
		idx := strconv.Itoa(i)
		v, err := l.ints("x"+idx, "y"+idx)
		if err != nil {
			return nil, err
		}
		vertices = append(vertices, Point{v[0], v[1]})
	}
	return Polygon{Vertices: vertices}, nil
}

func decodeCircle(l *xmlLeaves) (Geometry, error) {
	v, err := l.ints("cx", "cy", "r")
	if err != nil {
		return nil, err
	}
	return Circle{v[0], v[1], v[2]}, nil
}

func parseInt(tag, text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: <%s> is not an integer: %q", ErrMalformedGeometry, tag, text)
	}
	return v, nil
}

// parseDifficult reads <difficult> as an integer truth value. The "True" and
// "False" literals written by Encode are accepted as well.
func parseDifficult(text string) (bool, error) {
	t := strings.TrimSpace(text)
	switch strings.ToLower(t) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	v, err := parseInt("difficult", t)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// parseSize reads <size> leniently. The values are informational, so
// unparsable entries are left at zero instead of failing the decode.
func parseSize(s xmlSize) ImageSize {
	atoi := func(text string) int {
		v, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return 0
		}
		return v
	}
	return ImageSize{
		Height: atoi(s.Height),
		Width:  atoi(s.Width),
		Depth:  atoi(s.Depth),
	}
}
