package voc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

const (
	poseUnspecified = "Unspecified"
	segmentedNone   = "0"
	verifiedYes     = "yes"
)

// Output-side element layout. Field order is element order.
type xmlAnnotationOut struct {
	XMLName   xml.Name       `xml:"annotation"`
	Verified  string         `xml:"verified,attr,omitempty"`
	Folder    string         `xml:"folder"`
	Filename  string         `xml:"filename"`
	Path      string         `xml:"path,omitempty"`
	Source    xmlSource      `xml:"source"`
	Size      xmlSize        `xml:"size"`
	Segmented string         `xml:"segmented"`
	Objects   []xmlObjectOut `xml:"object"`
}

type xmlSource struct {
	Database string `xml:"database"`
}

type xmlSize struct {
	Width  string `xml:"width"`
	Height string `xml:"height"`
	Depth  string `xml:"depth"`
}

type xmlObjectOut struct {
	Name      string        `xml:"name"`
	Pose      string        `xml:"pose"`
	Truncated string        `xml:"truncated"`
	Difficult string        `xml:"difficult"`
	BndBox    *xmlBndBoxOut `xml:"bndbox,omitempty"`
	Circle    *xmlCircleOut `xml:"circle,omitempty"`
}

type xmlBndBoxOut struct {
	XMin int `xml:"xmin"`
	YMin int `xml:"ymin"`
	XMax int `xml:"xmax"`
	YMax int `xml:"ymax"`
}

type xmlCircleOut struct {
	CX int `xml:"cx"`
	CY int `xml:"cy"`
	R  int `xml:"r"`
}

// Encode renders doc as an annotation file.
//
// The output is tab-indented, one element per line, UTF-8 without an XML
// declaration, and ends with a newline. Identical documents produce identical
// bytes.
//
// Encode fails with ErrMissingField when Folder, Filename, Size.Height or
// Size.Width is unset, and with ErrUnsupportedShape when a shape is not a
// BndBox or Circle. No output is produced on failure.
func Encode(doc *Document) ([]byte, error) {
	root, err := buildTree(doc)
	if err != nil {
		return nil, err
	}

	out, err := xml.MarshalIndent(root, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal annotation: %w", err)
	}
	return append(out, '\n'), nil
}

// EncodeTo writes the encoded document to w. Nothing is written if encoding fails.
func EncodeTo(w io.Writer, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write annotation: %w", err)
	}
	return nil
}

func buildTree(doc *Document) (*xmlAnnotationOut, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrMissingField)
	}
	switch {
	case doc.Folder == "":
		return nil, fmt.Errorf("%w: folder", ErrMissingField)
	case doc.Filename == "":
		return nil, fmt.Errorf("%w: filename", ErrMissingField)
	case doc.Size.Height == 0 || doc.Size.Width == 0:
		return nil, fmt.Errorf("%w: image size", ErrMissingField)
	}

	root := &xmlAnnotationOut{
		Folder:    doc.Folder,
		Filename:  doc.Filename,
		Path:      doc.Path,
		Source:    xmlSource{Database: doc.Database},
		Size:      sizeElement(doc.Size),
		Segmented: segmentedNone,
		Objects:   make([]xmlObjectOut, 0, len(doc.Shapes)),
	}
	if doc.Verified {
		root.Verified = verifiedYes
	}
	if root.Source.Database == "" {
		root.Source.Database = DefaultDatabase
	}

	for i, s := range doc.Shapes {
		obj, err := objectElement(s, doc.Size)
		if err != nil {
			return nil, &ObjectError{Index: i, Err: err}
		}
		root.Objects = append(root.Objects, obj)
	}
	return root, nil
}

func sizeElement(size ImageSize) xmlSize {
	depth := "1"
	if size.Depth != 0 {
		depth = strconv.Itoa(size.Depth)
	}
	return xmlSize{
		Width:  strconv.Itoa(size.Width),
		Height: strconv.Itoa(size.Height),
		Depth:  depth,
	}
}

func objectElement(s Shape, size ImageSize) (xmlObjectOut, error) {
	obj := xmlObjectOut{
		Name:      s.Label,
		Pose:      poseUnspecified,
		Difficult: difficultText(s.Difficult),
	}

	switch g := s.Geometry.(type) {
	case BndBox:
		obj.Truncated = flagText(touchesEdge(g.YMin, g.YMax, size.Height) || touchesEdge(g.XMin, g.XMax, size.Width))
		obj.BndBox = &xmlBndBoxOut{XMin: g.XMin, YMin: g.YMin, XMax: g.XMax, YMax: g.YMax}
	case Circle:
		obj.Truncated = flagText(touchesEdge(g.CY-g.R, g.CY+g.R, size.Height) || touchesEdge(g.CX-g.R, g.CX+g.R, size.Width))
		obj.Circle = &xmlCircleOut{CX: g.CX, CY: g.CY, R: g.R}
	case nil:
		return obj, fmt.Errorf("%w: shape has no geometry", ErrUnsupportedShape)
	default:
		return obj, fmt.Errorf("%w: %s", ErrUnsupportedShape, g.Kind())
	}
	return obj, nil
}

// touchesEdge reports whether the span [lo, hi] sits on the first pixel
// (coordinate 1) or ends exactly at limit.
func touchesEdge(lo, hi, limit int) bool {
	return hi == limit || lo == 1
}

func flagText(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// difficultText is the emitted form of <difficult>. Annotation tools expect
// the capitalized literals here, unlike <truncated>.
func difficultText(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
