package imaging

import (
	"hash/fnv"

	"github.com/lucasb-eyer/go-colorful"
)

// LabelColor returns the outline color for a label. The hue is derived from
// an FNV-1a hash of the label, so a label maps to the same color on every
// run. Saturation and value are in [0, 1].
func LabelColor(label string, saturation, value float64) colorful.Color {
	h := fnv.New32a()
	h.Write([]byte(label))
	hue := float64(h.Sum32() % 360)
	return colorful.Hsv(hue, saturation, value).Clamped()
}

// LabelPalette maps each distinct label to its LabelColor in hex form.
func LabelPalette(labels []string, saturation, value float64) map[string]string {
	out := make(map[string]string, len(labels))
	for _, l := range labels {
		if _, ok := out[l]; !ok {
			out[l] = LabelColor(l, saturation, value).Hex()
		}
	}
	return out
}
