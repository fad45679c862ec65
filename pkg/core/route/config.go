package route

// Resolution selects how a connection target is matched to a visible module.
type Resolution string

const (
	// ByName looks an absolute target up by path and otherwise matches its
	// final segment against the names of visible modules, first in visible
	// order. Two visible modules with the same name are indistinguishable.
	ByName Resolution = "name"

	// ByAncestry interprets relative targets against the declaring module's
	// path and attributes the target to its nearest visible ancestor-or-self.
	// Targets that name no module fall back to [ByName].
	ByAncestry Resolution = "ancestry"
)

// Config controls target resolution and edge weights.
type Config struct {
	Resolution Resolution `toml:"resolution" json:"resolution" validate:"omitempty,oneof=name ancestry"`

	// Thickness = min(MaxThickness, BaseThickness + (count-1)*ThicknessStep).
	BaseThickness float64 `toml:"base_thickness" json:"base_thickness" validate:"gt=0"`
	ThicknessStep float64 `toml:"thickness_step" json:"thickness_step" validate:"gte=0"`
	MaxThickness  float64 `toml:"max_thickness" json:"max_thickness" validate:"gtefield=BaseThickness"`
}

// DefaultConfig returns name resolution with 2px base edges growing by 1px
// per aggregated connection up to 8px.
func DefaultConfig() Config {
	return Config{
		Resolution:    ByName,
		BaseThickness: 2,
		ThicknessStep: 1,
		MaxThickness:  8,
	}
}

// Thickness returns the edge weight for count aggregated connections.
func (c Config) Thickness(count int) float64 {
	if count < 1 {
		count = 1
	}
	return min(c.MaxThickness, c.BaseThickness+float64(count-1)*c.ThicknessStep)
}
