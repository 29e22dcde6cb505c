// Package landmarks lists well-known on-screen locations suited to reading
// calibration points: stable, visually distinctive, and present on any
// desktop session.
package landmarks

// Landmark is a hint for the calibration flow, not a coordinate: the caller
// reads the actual position in both spaces with a pixel-position overlay.
type Landmark struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Region      string `json:"region"`
}

var catalog = []Landmark{
	{
		ID:          "start_button",
		Description: "Start button (bottom-left corner of taskbar)",
		Region:      "bottom-left",
	},
	{
		ID:          "datetime",
		Description: "Date/time display (bottom-right corner of taskbar)",
		Region:      "bottom-right",
	},
	{
		ID:          "minimize",
		Description: "Minimize button of any open window (upper-right area, leftmost of min/max/close)",
		Region:      "upper-right",
	},
}

// All returns the landmark hints in a stable order.
func All() []Landmark {
	out := make([]Landmark, len(catalog))
	copy(out, catalog)
	return out
}
