package layout

// Config holds the fixed dimensions used by automatic placement and the
// container cascade. All values are in world units.
type Config struct {
	// Top-level (root) boxes and the gap between grid cells.
	NodeWidth  float64 `toml:"node_width" json:"node_width" validate:"gt=0"`
	NodeHeight float64 `toml:"node_height" json:"node_height" validate:"gt=0"`
	Spacing    float64 `toml:"spacing" json:"spacing" validate:"gte=0"`

	// Nested boxes inside an expanded container.
	ChildWidth   float64 `toml:"child_width" json:"child_width" validate:"gt=0"`
	ChildHeight  float64 `toml:"child_height" json:"child_height" validate:"gt=0"`
	ChildSpacing float64 `toml:"child_spacing" json:"child_spacing" validate:"gte=0"`

	// Container chrome.
	Padding     float64 `toml:"padding" json:"padding" validate:"gte=0"`
	TitleHeight float64 `toml:"title_height" json:"title_height" validate:"gte=0"`

	// Smallest footprint of an expanded container, whatever its child count.
	MinContainerWidth  float64 `toml:"min_container_width" json:"min_container_width" validate:"gt=0"`
	MinContainerHeight float64 `toml:"min_container_height" json:"min_container_height" validate:"gt=0"`

	// Top-left of the top-level grid.
	OriginX float64 `toml:"origin_x" json:"origin_x"`
	OriginY float64 `toml:"origin_y" json:"origin_y"`

	// Fallback position for a nested module whose parent box is missing.
	DefaultX float64 `toml:"default_x" json:"default_x"`
	DefaultY float64 `toml:"default_y" json:"default_y"`
}

// DefaultConfig returns the dimensions used when no configuration is given.
func DefaultConfig() Config {
	return Config{
		NodeWidth:          180,
		NodeHeight:         80,
		Spacing:            60,
		ChildWidth:         140,
		ChildHeight:        60,
		ChildSpacing:       20,
		Padding:            20,
		TitleHeight:        30,
		MinContainerWidth:  240,
		MinContainerHeight: 160,
		DefaultX:           50,
		DefaultY:           50,
	}
}
