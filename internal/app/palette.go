package app

// DefaultPalette is the token color for each participant id. Colors belong to the
// presentation layer; the engine only knows ids.
var DefaultPalette = []string{
	"#FF0000", // red
	"#0000FF", // blue
	"#00FF00", // green
	"#FF00FF", // magenta
	"#00FFFF", // cyan
	"#FFFF00", // yellow
	"#000000", // black
	"#888888", // gray
	"#6200EE", // purple
	"#03DAC5", // teal
}

// ColorFor returns the color for a participant id, cycling when the palette is short
func ColorFor(palette []string, id int) string {
	if len(palette) == 0 || id < 0 {
		return ""
	}
	return palette[id%len(palette)]
}

// PaletteFor maps every participant id of a game to its color
func PaletteFor(palette []string, participants int) map[int]string {
	colors := make(map[int]string, participants)
	for id := 0; id < participants; id++ {
		colors[id] = ColorFor(palette, id)
	}
	return colors
}
