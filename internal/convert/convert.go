// Package convert turns raw JSON text into classified display lines.
package convert

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/obegron/jtable/internal/classify"
	"github.com/obegron/jtable/internal/errors"
	"github.com/obegron/jtable/internal/pretty"
)

var log = commonlog.GetLogger("jtable.convert")

// Mode selects how value tokens are located in each line.
type Mode int

const (
	// Structural uses the value positions recorded while printing.
	Structural Mode = iota
	// Line re-scans every printed line with classify.Classify.
	Line
	// Compat re-scans every printed line with classify.ClassifyCompat.
	Compat
)

func (m Mode) String() string {
	switch m {
	case Line:
		return "line"
	case Compat:
		return "compat"
	}
	return "structural"
}

// ParseMode maps a configuration name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "structural":
		return Structural, nil
	case "line":
		return Line, nil
	case "compat":
		return Compat, nil
	}
	return Structural, fmt.Errorf("unknown classifier mode %q (use structural, line or compat)", name)
}

// Options configures one conversion.
type Options struct {
	Mode    Mode
	Numbers pretty.Numbers
}

// Convert pretty-prints raw and classifies every resulting line.
func Convert(raw string, opts Options) ([]classify.Token, error) {
	lines, err := pretty.Lines(raw, pretty.Options{Numbers: opts.Numbers})
	if err != nil {
		return nil, err
	}

	tokens := make([]classify.Token, len(lines))
	for i, l := range lines {
		switch opts.Mode {
		case Line:
			tokens[i] = classify.Classify(l.Text)
		case Compat:
			tokens[i] = classify.ClassifyCompat(l.Text)
		default:
			tokens[i] = l.Token()
		}
	}
	return tokens, nil
}

// Session holds the lines currently on display and the outcome of the last
// conversion.
type Session struct {
	Options Options

	lines []classify.Token
	err   error
}

// NewSession creates an empty session.
func NewSession(opts Options) *Session {
	return &Session{Options: opts}
}

// Convert replaces the displayed lines with the conversion of raw. On failure
// the previous lines are dropped so no stale table stays next to the error.
func (s *Session) Convert(raw string) error {
	tokens, err := Convert(raw, s.Options)
	if err != nil {
		log.Debugf("conversion failed: %v", err)
		s.lines = nil
		s.err = err
		return err
	}
	log.Debugf("converted %d lines using %s classification", len(tokens), s.Options.Mode)
	s.lines = tokens
	s.err = nil
	return nil
}

// Lines returns the displayed lines.
func (s *Session) Lines() []classify.Token {
	return s.lines
}

// Err returns the error of the last conversion, if any.
func (s *Session) Err() error {
	return s.err
}

// Message returns the user-facing text for the last error, or "".
func (s *Session) Message() string {
	if s.err == nil {
		return ""
	}
	return errors.UserFriendlyError(s.err)
}

// HasTable reports whether there is anything to copy.
func (s *Session) HasTable() bool {
	return len(s.lines) > 0
}
