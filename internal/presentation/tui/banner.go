package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`  ___  ___  __ _ _   _  ___ _ __ | |_ `, "#818cf8"},
	{` / __|/ _ \/ _' | | | |/ _ \ '_ \| __|`, "#a78bfa"},
	{` \__ \  __/ (_| | |_| |  __/ | | | |_ `, "#c084fc"},
	{` |___/\___|\__, |\__,_|\___|_| |_|\__|`, "#e879f9"},
	{`              |_|                     `, "#f472b6"},
}

// PrintBanner writes the ASCII art banner and version to w, colored for the terminal profile of w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(out.Color(line.color)))
	}
	if version != "" {
		fmt.Fprintln(w, out.String("  "+version).Faint())
	}
	fmt.Fprintln(w)
}
