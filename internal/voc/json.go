package voc

import (
	"encoding/json"
	"fmt"
)

// shapeJSON is the wire form of a Shape outside of XML: the flattened point
// list plus the kind tag.
type shapeJSON struct {
	Label     string   `json:"label"`
	Kind      Kind     `json:"kind"`
	Points    [][2]int `json:"points"`
	Difficult bool     `json:"difficult"`
}

// MarshalJSON encodes the shape as {"label","kind","points","difficult"}.
// The caller-owned color slots are not serialized.
func (s Shape) MarshalJSON() ([]byte, error) {
	pts := s.Points()
	out := shapeJSON{
		Label:     s.Label,
		Kind:      s.Kind(),
		Points:    make([][2]int, len(pts)),
		Difficult: s.Difficult,
	}
	for i, p := range pts {
		out.Points[i] = [2]int{p.X, p.Y}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON via ShapeFromPoints.
func (s *Shape) UnmarshalJSON(data []byte) error {
	var in shapeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if !in.Kind.Valid() {
		return fmt.Errorf("%w: unknown shape kind %q", ErrMalformedGeometry, in.Kind)
	}

	pts := make([]Point, len(in.Points))
	for i, p := range in.Points {
		pts[i] = Point{X: p[0], Y: p[1]}
	}
	shape, err := ShapeFromPoints(in.Label, in.Kind, pts, in.Difficult)
	if err != nil {
		return err
	}
	*s = shape
	return nil
}
