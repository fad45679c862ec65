package render

import (
	"bytes"
	"encoding/xml"

	"github.com/matzehuels/boardview/pkg/core/module"
)

// Colors of one module type.
type Colors struct {
	Fill   string
	Stroke string
	Text   string
}

// Colors used for edges and the background.
const (
	EdgeColor       = "#546e7a"
	BackgroundColor = "#fafafa"
	ContainerFill   = "#ffffff"
)

var palette = map[module.Type]Colors{
	module.TypePCB:       {Fill: "#c8e6c9", Stroke: "#2e7d32", Text: "#1b5e20"},
	module.TypeSystem:    {Fill: "#bbdefb", Stroke: "#1565c0", Text: "#0d47a1"},
	module.TypeComponent: {Fill: "#ffe0b2", Stroke: "#ef6c00", Text: "#e65100"},
}

// ColorsFor returns the colors of the module type named typ. Unknown types
// are drawn as components.
func ColorsFor(typ string) Colors {
	if c, ok := palette[module.Type(typ)]; ok {
		return c
	}
	return palette[module.TypeComponent]
}

const (
	fontHeightRatio = 0.5
	fontWidthRatio  = 0.9
	fontCharWidth   = 0.6
	fontSizeMin     = 8.0
	fontSizeMax     = 16.0
)

// FontSize returns the label size that fits text of n characters into a box
// of the given width and height.
func FontSize(w, h float64, n int) float64 {
	n = max(1, n)
	byHeight := h * fontHeightRatio
	byWidth := (w * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// TruncateLabel shortens label so it fits width at the given font size.
func TruncateLabel(label string, w, size float64) string {
	maxChars := max(3, int(w*fontWidthRatio/(size*fontCharWidth)))
	r := []rune(label)
	if len(r) <= maxChars {
		return label
	}
	return string(r[:maxChars-2]) + ".."
}

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
