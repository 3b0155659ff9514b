// Package ansi emits SGR escape codes embedded directly into table cell
// strings. Spec §1 scopes the ANSI SGR *parser* out as an external
// collaborator, but §4.3 requires pollers to embed color codes into cell
// text (e.g. PodPoller's red/gray status coloring), so this package owns
// only the encode side.
package ansi

import "fmt"

const (
	reset = "\x1b[0m"
	fgRed = "31"
	fgGray = "90"
)

// Wrap returns s surrounded by the SGR code for color and a reset.
func Wrap(s string, sgrCode string) string {
	return fmt.Sprintf("\x1b[%sm%s%s", sgrCode, s, reset)
}

// Red renders a foreground-red cell (spec §4.3: "red for BackOff|Err|Unknown").
func Red(s string) string { return Wrap(s, fgRed) }

// Gray renders a dimmed foreground-gray cell (spec §4.3: "gray for
// Completed|Evicted").
func Gray(s string) string { return Wrap(s, fgGray) }

// 6-entry bright/dim FG palette for log-line prefixes (spec §4.4).
var Palette = [6]struct{ Bright, Dim string }{
	{Bright: "91", Dim: "31"}, // red
	{Bright: "92", Dim: "32"}, // green
	{Bright: "93", Dim: "33"}, // yellow
	{Bright: "94", Dim: "34"}, // blue
	{Bright: "95", Dim: "35"}, // magenta
	{Bright: "96", Dim: "36"}, // cyan
}
