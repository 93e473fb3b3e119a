package charts

import "image/color"

var (
	colorPrimary    = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff} // blue
	colorSecondary  = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff} // orange
	colorTertiary   = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff} // green
	colorQuaternary = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff} // red
	colorHighlight  = color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff} // purple
	colorGray       = color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}

	profileColors = []color.Color{
		colorPrimary, colorTertiary, colorSecondary, colorQuaternary, colorHighlight, colorGray,
	}

	// One shade per fault count in the static figure, light to dark green.
	faultColors = []color.Color{
		color.RGBA{R: 0xd5, G: 0xf5, B: 0xe3, A: 0xff}, // f=0
		color.RGBA{R: 0xab, G: 0xeb, B: 0xc6, A: 0xff}, // f=1
		color.RGBA{R: 0x82, G: 0xe0, B: 0xaa, A: 0xff}, // f=2
		color.RGBA{R: 0x58, G: 0xd6, B: 0x8d, A: 0xff}, // f=3
		color.RGBA{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff}, // f=4
		color.RGBA{R: 0x1d, G: 0x83, B: 0x48, A: 0xff}, // f=5
	}
)

func profileColor(i int) color.Color {
	return profileColors[i%len(profileColors)]
}

// lighten fades a color towards white, used for the connecting lines in the
// 3D view so the scatter glyphs stay readable on top of them.
func lighten(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	f := func(v uint32) uint8 {
		return uint8((v>>8)/2 + 128)
	}
	return color.RGBA{R: f(r), G: f(g), B: f(b), A: 0xff}
}
