// Package clipboard writes text to the host clipboard.
//
// Two writers are available: System uses the platform clipboard utilities
// (pbcopy, xclip, wl-copy, ...) and OSC52 emits an OSC 52 escape sequence so
// the terminal itself sets the clipboard, which also works over SSH.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	sysclip "github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// Writer names accepted by New.
const (
	KindSystem = "system"
	KindOSC52  = "osc52"
)

// ErrEmpty is returned by Copy when there is nothing to copy. Callers treat it as a no-op.
var ErrEmpty = errors.New("clipboard: nothing to copy")

// Writer writes text to a clipboard.
type Writer interface {
	WriteText(text string) error
}

// ClipboardError wraps a failed clipboard write.
type ClipboardError struct {
	Writer string
	Err    error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("clipboard (%s): %v", e.Writer, e.Err)
}

func (e *ClipboardError) Unwrap() error {
	return e.Err
}

// Copy writes text using w. Empty text is not written and yields ErrEmpty.
func Copy(w Writer, text string) error {
	if text == "" {
		return ErrEmpty
	}
	if err := w.WriteText(text); err != nil {
		var ce *ClipboardError
		if errors.As(err, &ce) {
			return err
		}
		return &ClipboardError{Writer: fmt.Sprintf("%T", w), Err: err}
	}
	return nil
}

// New returns the writer named by kind. OSC52 sequences are written to out.
// An empty kind selects System, falling back to OSC52 when no platform
// clipboard utility is installed.
func New(kind string, out io.Writer) (Writer, error) {
	switch kind {
	case "", KindSystem:
		if sysclip.Unsupported {
			return &OSC52{Out: out}, nil
		}
		return System{}, nil
	case KindOSC52:
		return &OSC52{Out: out}, nil
	default:
		return nil, fmt.Errorf("unknown clipboard %q (want %q or %q)", kind, KindSystem, KindOSC52)
	}
}

// System writes through the platform clipboard utilities.
type System struct{}

func (System) WriteText(text string) error {
	if err := sysclip.WriteAll(text); err != nil {
		return &ClipboardError{Writer: KindSystem, Err: err}
	}
	return nil
}

// OSC52 writes an OSC 52 sequence to Out. Inside tmux or screen the sequence
// is wrapped in the multiplexer's passthrough escape.
type OSC52 struct {
	Out io.Writer
}

func (o *OSC52) WriteText(text string) error {
	out := o.Out
	if out == nil {
		out = os.Stderr
	}
	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(os.Getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(out); err != nil {
		return &ClipboardError{Writer: KindOSC52, Err: err}
	}
	return nil
}
