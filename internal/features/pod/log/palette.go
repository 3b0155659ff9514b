// Prefix and color-palette derivation for log lines, grounded on the
// original source's log_stream.rs (PREFIX_COLOR_LIST, log_prefix_color,
// log_prefix). Uses FNV-1a rather than the original's DefaultHasher, per
// spec §9's explicit "use a stable byte-hash (e.g. FNV-1a)" design note.
package log

import (
	"fmt"
	"hash/fnv"

	"github.com/kubetui/kubetui/internal/ansi"
)

// PrefixType selects which identifiers appear in a log line's bracketed
// prefix (spec §4.4).
type PrefixType int

const (
	PrefixOnlyContainer PrefixType = iota
	PrefixPodAndContainer
	PrefixAll
)

// paletteIndex hashes key with FNV-1a, appending the sentinel byte 0xFF so
// renamed pods/containers don't collide with a predecessor's color
// (spec §9 Log palette hashing).
func paletteIndex(key string) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	_, _ = h.Write([]byte{0xFF})
	return int(h.Sum64() % uint64(len(ansi.Palette)))
}

// Prefix builds the bracketed, colorized prefix prepended to every log
// line for one container stream (spec §4.4).
func Prefix(prefixType PrefixType, namespace, pod, container string) string {
	switch prefixType {
	case PrefixOnlyContainer:
		idx := paletteIndex(container)
		c := ansi.Palette[idx].Dim
		return fmt.Sprintf("%s%s%s ", ansi.Wrap("[", c), ansi.Wrap(container, c), ansi.Wrap("]", c))
	case PrefixAll:
		idx := paletteIndex(pod)
		bright := ansi.Palette[idx].Bright
		dim := ansi.Palette[idx].Dim
		content := fmt.Sprintf("%s %s %s", namespace, ansi.Wrap(pod, bright), ansi.Wrap(container, dim))
		return fmt.Sprintf("%s%s%s ", ansi.Wrap("[", bright), content, ansi.Wrap("]", bright))
	default: // PrefixPodAndContainer
		idx := paletteIndex(pod)
		bright := ansi.Palette[idx].Bright
		dim := ansi.Palette[idx].Dim
		content := fmt.Sprintf("%s %s", ansi.Wrap(pod, bright), ansi.Wrap(container, dim))
		return fmt.Sprintf("%s%s%s ", ansi.Wrap("[", bright), content, ansi.Wrap("]", bright))
	}
}

// StartedLine/FinishedLine mark stream lifecycle boundaries
// (spec §4.4: "Emit a synthetic + <prefix> line to mark stream start").
func StartedLine(prefix string) string  { return ansi.Wrap("+", "92") + " " + prefix }
func FinishedLine(prefix string) string { return ansi.Wrap("-", "91") + " " + prefix }
