package copier

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"

	"github.com/obegron/jtable/internal/errors"
)

// Clipboard receives the selected text.
type Clipboard interface {
	Name() string
	Available() bool
	WriteAll(text string) error
}

// Selection is the process-wide text selection. It holds at most one
// selected range, which Copy hands to the clipboard.
type Selection struct {
	clipboard Clipboard
	text      string
	active    bool
}

// NewSelection creates a selection that copies into cb.
func NewSelection(cb Clipboard) *Selection {
	return &Selection{clipboard: cb}
}

// Supported reports whether the clipboard can be written.
func (s *Selection) Supported() bool {
	return s.clipboard != nil && s.clipboard.Available()
}

// Clear drops the current selection.
func (s *Selection) Clear() {
	s.text = ""
	s.active = false
}

// SelectContents selects the text of every row in c, without styling.
func (s *Selection) SelectContents(c Container) error {
	text, err := c.Contents()
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrSelectionFailed, err)
	}
	s.text = ansi.Strip(text)
	s.active = true
	return nil
}

// SelectNode selects c as a single unit.
func (s *Selection) SelectNode(c Container) {
	s.text = ansi.Strip(c.Node())
	s.active = true
}

// Selected returns the selected text and whether anything is selected.
func (s *Selection) Selected() (string, bool) {
	return s.text, s.active
}

// Copy writes the selection to the clipboard.
func (s *Selection) Copy() error {
	if !s.active {
		return fmt.Errorf("%w: nothing selected", errors.ErrCopyFailed)
	}
	if err := s.clipboard.WriteAll(s.text); err != nil {
		return fmt.Errorf("%w: %s clipboard: %v", errors.ErrCopyFailed, s.clipboard.Name(), err)
	}
	return nil
}

// System is the desktop clipboard reached through xclip, xsel, wl-copy,
// pbcopy or the Windows API.
type System struct{}

func (System) Name() string { return "system" }

// Available is false when no clipboard utility was found at startup.
func (System) Available() bool { return !clipboard.Unsupported }

func (System) WriteAll(text string) error { return clipboard.WriteAll(text) }

// OSC52 sets the clipboard of the terminal emulator with an escape sequence,
// which also works over SSH.
type OSC52 struct {
	Out    io.Writer
	TTY    bool
	Tmux   bool
	Screen bool
}

// NewOSC52 targets the terminal attached to f, detecting tmux and screen
// from the environment.
func NewOSC52(f *os.File) *OSC52 {
	o := &OSC52{}
	if f != nil {
		o.Out = f
		o.TTY = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	o.Tmux = os.Getenv("TMUX") != ""
	o.Screen = strings.HasPrefix(os.Getenv("TERM"), "screen") && !o.Tmux
	return o
}

func (o *OSC52) Name() string { return "osc52" }

func (o *OSC52) Available() bool { return o.Out != nil && o.TTY }

func (o *OSC52) WriteAll(text string) error {
	seq := osc52.New(text)
	switch {
	case o.Tmux:
		seq = seq.Tmux()
	case o.Screen:
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(o.Out)
	return err
}

// Disabled never accepts text.
type Disabled struct{}

func (Disabled) Name() string              { return "none" }
func (Disabled) Available() bool           { return false }
func (Disabled) WriteAll(text string) error { return errors.ErrClipboardUnsupport }

// ClipboardFor resolves a clipboard by name. "auto" prefers the system
// clipboard and falls back to OSC 52 when the terminal on tty supports it.
func ClipboardFor(name string, tty *os.File) (Clipboard, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		if (System{}).Available() {
			return System{}, nil
		}
		if o := NewOSC52(tty); o.Available() {
			return o, nil
		}
		return System{}, nil
	case "system":
		return System{}, nil
	case "osc52":
		return NewOSC52(tty), nil
	case "none":
		return Disabled{}, nil
	}
	return nil, fmt.Errorf("unknown clipboard %q (use auto, system, osc52 or none)", name)
}
