// Package voc reads and writes PASCAL-VOC style annotation files.
//
// An annotation file describes one image (folder, filename, size) and an
// ordered list of labelled shapes drawn on it. This package converts between
// that XML layout and the in-memory Document type.
//
// # Shape Kinds
//
// Five shape kinds are recognized, each stored under its own child element of
// an <object> node:
//
//   - point:   x1, y1
//   - line:    x1, y1, x2, y2
//   - bndbox:  xmin, ymin, xmax, ymax
//   - polygon: x1, y1, x2, y2, ... xN, yN
//   - circle:  cx, cy, r
//
// Decoding understands all five. Encoding only writes bndbox and circle;
// the remaining kinds can be read but not written.
//
// # Points
//
// Shape.Points flattens a shape to the coordinate list used by annotation
// tools. A bndbox becomes its four corners clockwise from top-left. A circle
// becomes two pairs, the center followed by (r, r). ShapeFromPoints reverses
// the mapping.
//
// # Errors
//
// Encode and Decode are all-or-nothing. A failed call returns no document and
// no partial output. Failures wrap one of the package sentinels so callers can
// branch with errors.Is:
//
//   - ErrMissingField: folder, filename or image size missing on encode
//   - ErrParse: input is not well-formed XML
//   - ErrMissingRequiredElement: an object with a shape lacks name or difficult
//   - ErrMalformedGeometry: odd polygon child count or non-integer number
//   - ErrUnsupportedShape: encoding a point, line or polygon
//   - ErrNotAnnotationFile: Load called on a path without the .xml suffix
//
// # Thread Safety
//
// Encode and Decode keep no state between calls and may run concurrently.
package voc
