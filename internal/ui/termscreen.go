package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// TermScreen is the concrete Screen: it owns the raw-mode terminal, tracks
// its current size, and paints each Frame by cursor-positioning to its
// Rect and writing its Lines literally (spec §1 excludes the byte-level
// SGR/glyph rendering pipeline itself, so TermScreen never parses or
// re-encodes color — cell strings already carry ansi-package escape codes
// from the pollers that built them).
type TermScreen struct {
	fd     int
	out    *bufio.Writer
	width  int
	height int
	oldState *term.State
}

// NewTermScreen puts fd (typically os.Stdout's) into raw mode and queries
// its current size.
func NewTermScreen(f *os.File) (*TermScreen, error) {
	fd := int(f.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("ui: enter raw mode: %w", err)
	}
	w, h, err := term.GetSize(fd)
	if err != nil {
		_ = term.Restore(fd, oldState)
		return nil, fmt.Errorf("ui: get terminal size: %w", err)
	}
	return &TermScreen{fd: fd, out: bufio.NewWriter(f), width: w, height: h, oldState: oldState}, nil
}

// Close restores the terminal's prior mode (spec §4.1 shutdown: "restores
// the terminal before the process exits").
func (s *TermScreen) Close() error {
	return term.Restore(s.fd, s.oldState)
}

func (s *TermScreen) Size() (int, int) { return s.width, s.height }

// EnableMouse turns on xterm's SGR (1006) mouse-report mode, the protocol
// internal/ui's input decoder expects (spec §1 excludes the byte-level
// parser, not the mode that makes the terminal emit it).
func (s *TermScreen) EnableMouse() error {
	_, err := io.WriteString(s.out, "\x1b[?1000h\x1b[?1006h")
	if err != nil {
		return err
	}
	return s.out.Flush()
}

// DisableMouse turns mouse reporting back off, called on shutdown before
// Close restores the terminal's prior mode.
func (s *TermScreen) DisableMouse() error {
	_, err := io.WriteString(s.out, "\x1b[?1000l\x1b[?1006l")
	if err != nil {
		return err
	}
	return s.out.Flush()
}

// Resync re-reads the terminal size, called on a resize notification from
// the input task (spec §4.1).
func (s *TermScreen) Resync() error {
	w, h, err := term.GetSize(s.fd)
	if err != nil {
		return err
	}
	s.width, s.height = w, h
	return nil
}

// BeginFrame clears the screen and homes the cursor before a widget tree's
// Render pass writes its Frames.
func (s *TermScreen) BeginFrame() {
	io.WriteString(s.out, "\x1b[2J\x1b[H")
}

// EndFrame flushes the buffered escape/text sequences to the terminal.
func (s *TermScreen) EndFrame() error {
	return s.out.Flush()
}

// Draw paints f at its Rect: the title on the first row followed by f.Lines,
// each clipped to the Rect's width and truncated to its height.
func (s *TermScreen) Draw(f Frame) {
	moveTo(s.out, f.Rect.X, f.Rect.Y)
	io.WriteString(s.out, f.Title)

	maxLines := f.Rect.Height - 1
	for i, line := range f.Lines {
		if i >= maxLines {
			break
		}
		moveTo(s.out, f.Rect.X, f.Rect.Y+1+i)
		io.WriteString(s.out, clip(line, f.Rect.Width))
	}

	if f.Cursor != nil {
		moveTo(s.out, f.Cursor.X, f.Cursor.Y)
	}
}

func moveTo(w *bufio.Writer, x, y int) {
	fmt.Fprintf(w, "\x1b[%d;%dH", y+1, x+1)
}

func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width])
	}
	return s
}
