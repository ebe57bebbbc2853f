package tui

import (
	"fmt"
	"io"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"                 _     _               _       _   ",
	"   __ _ _ __ ___| |__ (_)___  ___ _ __(_)_ __ | |_ ",
	"  / _` | '__/ __| '_ \\| / __|/ __| '__| | '_ \\| __|",
	" | (_| | | | (__| | | | \\__ \\ (__| |  | | |_) | |_ ",
	"  \\__,_|_|  \\___|_| |_|_|___/\\___|_|  |_| .__/ \\__|",
	"                                        |_|        ",
}

// Gradient endpoints of the banner (indigo to rose).
var (
	gradientFrom, _ = colorful.Hex("#818cf8")
	gradientTo, _   = colorful.Hex("#fb7185")
)

// PrintBanner writes the ASCII art banner and the version to w.
// Colors are dropped when w is not a color capable terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)

	fmt.Fprintln(w)
	for i, line := range bannerLines {
		t := float64(i) / float64(len(bannerLines)-1)
		hex := gradientFrom.BlendLuv(gradientTo, t).Clamped().Hex()
		fmt.Fprintln(w, out.String(line).Foreground(out.Color(hex)))
	}
	fmt.Fprintln(w, out.String("  version "+version).Faint())
	fmt.Fprintln(w)
}
