// Raw-terminal input decoding: turns the byte stream read from a raw-mode
// stdin into KeyEvent/MouseEvent values. Spec §1 scopes "terminal raw-mode
// setup" and "the ANSI SGR escape parser" out as external collaborators,
// but input decoding is neither: SGR there names the output-side styling
// codes TermScreen never touches either, and nothing in the dependency set
// (go.mod) already decodes terminal input, so this is grounded directly in
// the xterm CSI/SGR-mouse (1006) wire format rather than a library.
package ui

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/kubetui/kubetui/internal/bus"
)

// Reader decodes a raw-mode terminal's byte stream into bus.Message values
// carrying KeyEvent/MouseEvent payloads.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 256)}
}

// Run reads and decodes events until the stream errs (typically because the
// underlying fd was closed by shutdown) or send returns an error. A
// blocking Read on a raw-mode fd can't be interrupted by a context alone;
// callers rely on closing the terminal to unblock it.
func (rd *Reader) Run(send func(bus.Message) error) error {
	for {
		msg, err := rd.next()
		if err != nil {
			return err
		}
		if msg == nil {
			continue
		}
		if err := send(*msg); err != nil {
			return err
		}
	}
}

func (rd *Reader) next() (*bus.Message, error) {
	r, _, err := rd.r.ReadRune()
	if err != nil {
		return nil, err
	}

	switch r {
	case 0x1b:
		return rd.decodeEscape()
	case '\r', '\n':
		return keyMsg(KeyEvent{Name: "Enter"}), nil
	case 0x7f, 0x08:
		return keyMsg(KeyEvent{Name: "Backspace"}), nil
	case '\t':
		return keyMsg(KeyEvent{Name: "Tab"}), nil
	}

	if r > 0 && r < 0x20 {
		return keyMsg(KeyEvent{Rune: 'a' + r - 1, Ctrl: true}), nil
	}
	return keyMsg(KeyEvent{Rune: r}), nil
}

// decodeEscape handles a lone Esc (nothing else already buffered from the
// same read) and CSI sequences (arrows, navigation keys, SGR mouse
// reports). Raw mode delivers a whole escape sequence from a single kernel
// read, so "nothing buffered yet" reliably means the user pressed bare Esc.
func (rd *Reader) decodeEscape() (*bus.Message, error) {
	if rd.r.Buffered() == 0 {
		return keyMsg(KeyEvent{Name: "Esc"}), nil
	}

	intro, err := rd.r.ReadByte()
	if err != nil {
		return nil, err
	}
	if intro == 'Z' {
		return keyMsg(KeyEvent{Name: "BackTab"}), nil
	}
	if intro != '[' && intro != 'O' {
		return nil, nil
	}

	b, err := rd.r.ReadByte()
	if err != nil {
		return nil, err
	}
	if intro == '[' && b == '<' {
		return rd.decodeSGRMouse()
	}

	var params []byte
	for (b >= '0' && b <= '9') || b == ';' {
		params = append(params, b)
		if b, err = rd.r.ReadByte(); err != nil {
			return nil, err
		}
	}

	name := csiKeyName(b, string(params))
	if name == "" {
		return nil, nil
	}
	return keyMsg(KeyEvent{Name: name}), nil
}

func csiKeyName(final byte, params string) string {
	switch final {
	case 'A':
		return "Up"
	case 'B':
		return "Down"
	case 'C':
		return "Right"
	case 'D':
		return "Left"
	case 'H':
		return "Home"
	case 'F':
		return "End"
	case 'Z':
		return "BackTab"
	case '~':
		switch params {
		case "2":
			return "Insert"
		case "3":
			return "Delete"
		case "5":
			return "PageUp"
		case "6":
			return "PageDown"
		}
	}
	return ""
}

// decodeSGRMouse reads the "<Cb;Cx;Cy(M|m)" tail of an xterm SGR (1006)
// mouse report: Cb's wheel bit (0x40) and motion bit (0x20) distinguish
// scroll/drag from a plain click; the final byte (M press, m release)
// distinguishes button down from up.
func (rd *Reader) decodeSGRMouse() (*bus.Message, error) {
	var buf []byte
	for {
		b, err := rd.r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == 'M' || b == 'm' {
			ev, ok := parseSGRMouse(string(buf), b == 'm')
			if !ok {
				return nil, nil
			}
			m := bus.UserInput(ev)
			return &m, nil
		}
		buf = append(buf, b)
	}
}

func parseSGRMouse(params string, release bool) (MouseEvent, bool) {
	parts := strings.SplitN(params, ";", 3)
	if len(parts) != 3 {
		return MouseEvent{}, false
	}
	cb, err1 := strconv.Atoi(parts[0])
	cx, err2 := strconv.Atoi(parts[1])
	cy, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return MouseEvent{}, false
	}

	ev := MouseEvent{X: cx - 1, Y: cy - 1, Button: MouseButtonLeft}
	switch {
	case cb&0x40 != 0:
		if cb&1 != 0 {
			ev.Kind = MouseScrollDown
		} else {
			ev.Kind = MouseScrollUp
		}
	case cb&0x20 != 0:
		ev.Kind = MouseMoved
	case release:
		ev.Kind = MouseUp
	default:
		ev.Kind = MouseDown
	}
	return ev, true
}

func keyMsg(ev KeyEvent) *bus.Message {
	m := bus.UserInput(ev)
	return &m
}
