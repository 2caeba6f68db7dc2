// Package pretty parses a JSON document and lays it out one key/value pair,
// array element or bracket per line with two-space indentation.
//
// Lines additionally reports where each object member's scalar value sits in
// its line, so callers can highlight values without re-scanning the text:
//
//	lines, err := pretty.Lines(raw, pretty.Options{})
//	if err != nil {
//		return err
//	}
//	for _, l := range lines {
//		tok := l.Token()
//		fmt.Println(tok.Prefix, tok.Value, tok.Suffix)
//	}
package pretty

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/obegron/jtable/internal/classify"
	"github.com/obegron/jtable/internal/errors"
)

// Indent is the fixed indentation unit.
const Indent = "  "

// Numbers selects how number tokens are re-serialized.
type Numbers int

const (
	// NumbersCanonical prints numbers in their shortest float64 form the way
	// a browser's JSON.stringify does.
	NumbersCanonical Numbers = iota
	// NumbersPreserve keeps the number text exactly as written in the input.
	NumbersPreserve
)

// ParseNumbers maps a configuration name to a Numbers mode.
func ParseNumbers(name string) (Numbers, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "canonical":
		return NumbersCanonical, nil
	case "preserve":
		return NumbersPreserve, nil
	}
	return NumbersCanonical, fmt.Errorf("unknown number mode %q (use canonical or preserve)", name)
}

// Options controls re-serialization.
type Options struct {
	Numbers Numbers
}

// Span is a half-open byte range within a line.
type Span struct {
	Start int
	End   int
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Line is one line of pretty-printed output. Value is set for object members
// whose value is a scalar; it is empty for brackets, array elements and
// members opening a nested container.
type Line struct {
	Text  string
	Value Span
	Kind  classify.Kind
}

// Token converts the line into a classified token.
func (l Line) Token() classify.Token {
	if l.Value.Empty() {
		return classify.Verbatim(l.Text)
	}
	tok := classify.Split(l.Text, l.Value.Start, l.Value.End)
	tok.Kind = l.Kind
	return tok
}

// Format pretty-prints raw and returns the output lines.
func Format(raw string) ([]string, error) {
	lines, err := Lines(raw, Options{})
	if err != nil {
		return nil, err
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out, nil
}

// Lines pretty-prints raw and returns the output lines with value spans.
// Malformed input yields a parsing *errors.AppError and no lines.
func Lines(raw string, opts Options) ([]Line, error) {
	root, err := parse(raw)
	if err != nil {
		return nil, err
	}
	p := printer{opts: opts}
	p.value(0, nil, root, true)
	return p.lines, nil
}

type nodeKind int

const (
	kindObject nodeKind = iota
	kindArray
	kindString
	kindNumber
	kindLiteral
)

type node struct {
	kind   nodeKind
	text   string
	keys   []string
	values []*node
}

type parser struct {
	dec *json.Decoder
}

func parse(raw string) (*node, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	p := parser{dec: dec}

	tok, err := dec.Token()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return nil, parseError(err)
	}
	root, err := p.value(tok)
	if err != nil {
		return nil, parseError(err)
	}

	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		if err == nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("unexpected data at offset %d", dec.InputOffset()),
				errors.ErrTrailingData,
			)
		}
		return nil, parseError(err)
	}
	return root, nil
}

func parseError(err error) error {
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxErr.Offset, syntaxErr.Error()),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError("failed to decode JSON", fmt.Errorf("%w: %v", errors.ErrInvalidJSON, err))
}

func (p *parser) next() (json.Token, error) {
	tok, err := p.dec.Token()
	if stderrors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return tok, err
}

func (p *parser) value(tok json.Token) (*node, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return p.object()
		case '[':
			return p.array()
		}
		return nil, fmt.Errorf("unexpected %q", rune(v))
	case string:
		return &node{kind: kindString, text: v}, nil
	case json.Number:
		return &node{kind: kindNumber, text: v.String()}, nil
	case bool:
		return &node{kind: kindLiteral, text: strconv.FormatBool(v)}, nil
	case nil:
		return &node{kind: kindLiteral, text: "null"}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// object keeps the first position and the last value of a repeated key.
func (p *parser) object() (*node, error) {
	n := &node{kind: kindObject}
	seen := make(map[string]int)
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return n, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		tok, err = p.next()
		if err != nil {
			return nil, err
		}
		child, err := p.value(tok)
		if err != nil {
			return nil, err
		}
		if i, dup := seen[key]; dup {
			n.values[i] = child
			continue
		}
		seen[key] = len(n.keys)
		n.keys = append(n.keys, key)
		n.values = append(n.values, child)
	}
}

func (p *parser) array() (*node, error) {
	n := &node{kind: kindArray}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return n, nil
		}
		child, err := p.value(tok)
		if err != nil {
			return nil, err
		}
		n.values = append(n.values, child)
	}
}

type printer struct {
	opts  Options
	lines []Line
}

func (p *printer) add(text string, value Span, kind classify.Kind) {
	p.lines = append(p.lines, Line{Text: text, Value: value, Kind: kind})
}

func (p *printer) value(depth int, key *string, n *node, last bool) {
	pad := strings.Repeat(Indent, depth)
	head := pad
	if key != nil {
		head += quote(*key) + ": "
	}
	comma := ""
	if !last {
		comma = ","
	}

	switch n.kind {
	case kindObject, kindArray:
		opener, closer := "{", "}"
		if n.kind == kindArray {
			opener, closer = "[", "]"
		}
		if len(n.values) == 0 {
			p.add(head+opener+closer+comma, Span{}, classify.Other)
			return
		}
		p.add(head+opener, Span{}, classify.Other)
		for i, child := range n.values {
			var childKey *string
			if n.kind == kindObject {
				childKey = &n.keys[i]
			}
			p.value(depth+1, childKey, child, i == len(n.values)-1)
		}
		p.add(pad+closer+comma, Span{}, classify.Other)
	default:
		text := p.scalar(n)
		var span Span
		if key != nil {
			span = Span{Start: len(head), End: len(head) + len(text)}
		}
		p.add(head+text+comma, span, classify.KindOf(text))
	}
}

func (p *printer) scalar(n *node) string {
	switch n.kind {
	case kindString:
		return quote(n.text)
	case kindNumber:
		if p.opts.Numbers == NumbersPreserve {
			return n.text
		}
		return canonicalNumber(n.text)
	}
	return n.text
}

// canonicalNumber formats a JSON number literal the way ECMAScript's
// Number#toString does. Values beyond float64 range become null.
func canonicalNumber(lit string) string {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !isRangeErr(err) {
		return lit
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "null"
	}
	if f == 0 {
		return "0"
	}
	format := byte('f')
	if abs := math.Abs(f); abs < 1e-6 || abs >= 1e21 {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		s = strings.Replace(s, "e-0", "e-", 1)
	}
	return s
}

func isRangeErr(err error) bool {
	var numErr *strconv.NumError
	return stderrors.As(err, &numErr) && numErr.Err == strconv.ErrRange
}

const hex = "0123456789abcdef"

// quote escapes s as a JSON string literal, escaping only quotes,
// backslashes and control characters.
func quote(s string) string {
	var buf bytes.Buffer
	buf.Grow(len(s) + 2)
	buf.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if c < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hex[c>>4])
				buf.WriteByte(hex[c&0xf])
				continue
			}
			buf.WriteByte(c)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}
