// Package imaging connects annotation documents to the images they describe.
//
// It loads images (with caching), derives the metadata a new annotation needs
// from an image file, crops out the pixels under a single annotated object,
// and renders annotation overlays for visual review.
//
// # Coordinate System
//
// Annotation coordinates are integer pixel positions with (0,0) at the
// top-left corner, X increasing rightward and Y increasing downward. Box
// corners are inclusive: a box with xmin == xmax covers one column. The
// image.Rectangle values returned by ShapeBounds follow Go's half-open
// convention, so their Max is one past the last covered pixel.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining functions are
// stateless and never modify their input images; Render always draws into a
// fresh copy.
//
// # Colors
//
// Each label gets a stable outline color from LabelColor, so the same class
// is drawn the same way in every preview. A shape's LineColor, when set,
// takes precedence.
package imaging
