package core

// Color represents a foreground color for a screen cell.
type Color uint8

// Colors used by the playfield renderer. The platform layer maps them to
// terminal colors.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)

// ComboColors is the rotation of colors assigned to new combos.
var ComboColors = []Color{ColorCyan, ColorMagenta, ColorYellow, ColorGreen}
