package imaging

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/voc-tools-mcp/internal/voc"
)

// ImageCache provides thread-safe caching of loaded images to avoid redundant disk reads.
//
// Images are keyed by the exact path string given to Load. Cached images stay
// in memory until Evict or Clear removes them.
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/data/images/dog.jpg")
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the cached image for path, reading it from disk on first use.
//
// Supported formats are those of github.com/disintegration/imaging: JPEG,
// PNG, GIF, BMP and TIFF. JPEG files are rotated according to their EXIF
// orientation tag so that annotation coordinates match what viewers display.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a single image from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// SizeOf returns the annotation size record for img. Depth is 1 for
// grayscale images and 3 otherwise; an alpha channel does not count.
//
// Images loaded through ImageCache are EXIF-oriented, and a rotated image
// comes back as NRGBA whatever its stored model. DescribeImage reads the
// depth from the file instead.
func SizeOf(img image.Image) voc.ImageSize {
	b := img.Bounds()
	return voc.ImageSize{Height: b.Dy(), Width: b.Dx(), Depth: depthOf(img.ColorModel())}
}

func depthOf(m color.Model) int {
	switch m {
	case color.GrayModel, color.Gray16Model:
		return 1
	}
	return 3
}

// storedDepth reads the color model from the file header, before any
// orientation is applied.
func storedDepth(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, fmt.Errorf("failed to read image header: %w", err)
	}
	return depthOf(cfg.ColorModel), nil
}

// ImageDescription is the image metadata an annotation document records.
type ImageDescription struct {
	// Folder is the name of the directory holding the image, not its full path.
	Folder   string        `json:"folder"`
	Filename string        `json:"filename"`
	Path     string        `json:"path"`
	Size     voc.ImageSize `json:"size"`
}

// DescribeImage loads the image at path and returns its annotation metadata.
func DescribeImage(cache *ImageCache, path string) (*ImageDescription, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image path: %w", err)
	}

	img, err := cache.Load(abs)
	if err != nil {
		return nil, err
	}
	size := SizeOf(img)
	if depth, err := storedDepth(abs); err == nil {
		size.Depth = depth
	}

	return &ImageDescription{
		Folder:   filepath.Base(filepath.Dir(abs)),
		Filename: filepath.Base(abs),
		Path:     abs,
		Size:     size,
	}, nil
}

// NewDocument returns an annotation document with no shapes for the
// described image.
func NewDocument(desc *ImageDescription, database string, verified bool) *voc.Document {
	return &voc.Document{
		Folder:   desc.Folder,
		Filename: desc.Filename,
		Path:     desc.Path,
		Database: database,
		Size:     desc.Size,
		Verified: verified,
		Shapes:   []voc.Shape{},
	}
}
