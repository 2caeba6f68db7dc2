// Package classify splits one pretty-printed JSON line into the text before
// its scalar value, the value itself and the text after it, and tags the
// value as numeric, string or other for highlighting.
package classify

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Kind is the highlighting class of a value token.
type Kind int

const (
	Other Kind = iota
	Numeric
	String
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case String:
		return "string"
	}
	return "other"
}

// Token is a classified line. Prefix+Value+Suffix is always the original line;
// lines without a value carry the whole text in Prefix.
type Token struct {
	Prefix string
	Value  string
	Suffix string
	Kind   Kind
}

// Text reassembles the original line.
func (t Token) Text() string {
	return t.Prefix + t.Value + t.Suffix
}

// Verbatim returns line as an unstyled token.
func Verbatim(line string) Token {
	return Token{Prefix: line}
}

var jsonNumber = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?$`)

// IsNumeric reports whether s is a finite number in JSON number syntax.
// NaN and Infinity are not numeric.
func IsNumeric(s string) bool {
	if !jsonNumber.MatchString(s) {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRangeErr(err) {
		return false
	}
	return !math.IsInf(f, 0)
}

func isRangeErr(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}

// IsQuoted reports whether s is wrapped in one pair of matching double or
// single quotes.
func IsQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return (first == '"' || first == '\'') && first == last
}

// KindOf classifies a trimmed value token.
func KindOf(value string) Kind {
	switch {
	case IsNumeric(value):
		return Numeric
	case IsQuoted(value):
		return String
	}
	return Other
}

// Split builds a token from a value occupying line[start:end]. An empty or
// out of range span yields a verbatim token.
func Split(line string, start, end int) Token {
	if start < 0 || end > len(line) || start >= end {
		return Verbatim(line)
	}
	value := line[start:end]
	return Token{
		Prefix: line[:start],
		Value:  value,
		Suffix: line[end:],
		Kind:   KindOf(value),
	}
}

// Classify locates the scalar value after the key separator of line and
// splits the line at that position. Colons inside quoted keys are skipped and
// separators introducing an object or array are ignored.
func Classify(line string) Token {
	start, end, ok := ValueSpan(line)
	if !ok {
		return Verbatim(line)
	}
	return Split(line, start, end)
}

// ValueSpan returns the byte range of the scalar value following the first
// key separator of line. The value runs to the end of the line with one
// trailing comma removed.
func ValueSpan(line string) (start, end int, ok bool) {
	sep := separator(line)
	if sep < 0 {
		return 0, 0, false
	}
	start = sep + 1
	for start < len(line) && isSpace(line[start]) {
		start++
	}
	end = len(line)
	for end > start && isSpace(line[end-1]) {
		end--
	}
	if end > start && line[end-1] == ',' {
		end--
		for end > start && isSpace(line[end-1]) {
			end--
		}
	}
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

func separator(line string) int {
	inString := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case ':':
			if !opensStructure(line[i+1:]) {
				return i
			}
		}
	}
	return -1
}

func opensStructure(rest string) bool {
	rest = strings.TrimLeft(rest, " \t")
	return rest != "" && isBracket(rest[0])
}

func isBracket(c byte) bool {
	return c == '[' || c == ']' || c == '{' || c == '}'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// ClassifyCompat reproduces the line-local matching of the web converter:
// the first colon not directly followed by a bracket, the value up to the
// next comma, and a split at the first textual occurrence of that value.
// A value that also appears earlier in the line (for example inside the key)
// splits at the wrong place; Classify does not have this problem.
func ClassifyCompat(line string) Token {
	sep := -1
	for i := 0; i < len(line); i++ {
		if line[i] == ':' && (i+1 == len(line) || !isBracket(line[i+1])) {
			sep = i
			break
		}
	}
	if sep < 0 {
		return Verbatim(line)
	}

	rest := strings.TrimLeftFunc(line[sep+1:], unicode.IsSpace)
	if comma := strings.IndexByte(rest, ','); comma >= 0 {
		rest = rest[:comma]
	}
	value := strings.TrimSpace(rest)
	if value == "" {
		return Verbatim(line)
	}

	kind := KindOf(value)
	at := strings.Index(line, value)
	if kind == Other || at < 0 {
		return Verbatim(line)
	}
	return Token{
		Prefix: line[:at],
		Value:  value,
		Suffix: line[at+len(value):],
		Kind:   kind,
	}
}
