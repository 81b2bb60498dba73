package voc

// DefaultDatabase is written to <source><database> when a document leaves it empty.
const DefaultDatabase = "Unknown"

// FileExt is the suffix annotation files carry.
const FileExt = ".xml"

// ImageSize holds image dimensions in (height, width, depth) order.
// A zero Depth means the depth was not given; it is written as 1.
type ImageSize struct {
	Height int `json:"height"`
	Width  int `json:"width"`
	Depth  int `json:"depth,omitempty"`
}

// Document is the in-memory form of one annotation file.
type Document struct {
	Folder   string `json:"folder"`
	Filename string `json:"filename"`

	// Path is the local image path. Empty means absent and no <path> is written.
	Path string `json:"path,omitempty"`

	// Database is the <source><database> text. Empty encodes as DefaultDatabase.
	Database string `json:"database,omitempty"`

	Size     ImageSize `json:"size"`
	Verified bool      `json:"verified"`
	Shapes   []Shape   `json:"shapes"`
}
