// Package render turns classified lines into a one-column table, either for
// the terminal or as HTML.
package render

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/obegron/jtable/internal/classify"
	"github.com/obegron/jtable/internal/errors"
)

// Format is an output format.
type Format int

const (
	FormatTable Format = iota
	FormatHTML
	FormatPlain
)

func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatPlain:
		return "plain"
	}
	return "table"
}

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "table":
		return FormatTable, nil
	case "html":
		return FormatHTML, nil
	case "plain", "text":
		return FormatPlain, nil
	}
	return FormatTable, fmt.Errorf("%w %q (use table, html or plain)", errors.ErrUnknownFormat, name)
}

// HTML class names applied to highlighted values.
const (
	ClassNumeric = "numType"
	ClassString  = "strType"
	ClassTable   = "jt-table"
)

// Stylesheet is emitted ahead of HTML output.
const Stylesheet = `<style>
.jt-table {
	border-collapse: collapse;
	width: 100%;
	background-color: #303446;
	color: #c6d0f5;
}
.jt-table td {
	white-space: pre;
	font-family: Monaco, monospace;
	padding: 0 8px;
}
.numType { color: #ef9f76; }
.strType { color: #a6d189; }
</style>`

// Palette holds the styles for highlighted values.
type Palette struct {
	Numeric lipgloss.Style
	String  lipgloss.Style
}

// DefaultPalette returns the standard colors bound to r.
func DefaultPalette(r *lipgloss.Renderer) Palette {
	return NewPalette(r, "#ef9f76", "#a6d189")
}

// NewPalette builds a palette from two colors given as hex or ANSI numbers.
func NewPalette(r *lipgloss.Renderer, numeric, str string) Palette {
	if r == nil {
		r = lipgloss.NewRenderer(os.Stdout)
	}
	return Palette{
		Numeric: r.NewStyle().Foreground(lipgloss.Color(numeric)),
		String:  r.NewStyle().Foreground(lipgloss.Color(str)),
	}
}

// NoColorPalette leaves values unstyled.
func NoColorPalette() Palette {
	return Palette{Numeric: lipgloss.NewStyle(), String: lipgloss.NewStyle()}
}

func (p Palette) style(kind classify.Kind) (lipgloss.Style, bool) {
	switch kind {
	case classify.Numeric:
		return p.Numeric, true
	case classify.String:
		return p.String, true
	}
	return lipgloss.Style{}, false
}

// Renderer renders classified lines.
type Renderer struct {
	Format  Format
	Palette Palette
	Borders bool
}

// Table is a rendered table. It satisfies copier.Container.
type Table struct {
	format Format
	tokens []classify.Token
	node   string
}

// Render lays out tokens, one per row.
func (r *Renderer) Render(tokens []classify.Token) (*Table, error) {
	t := &Table{format: r.Format, tokens: tokens}

	switch r.Format {
	case FormatPlain:
		rows := make([]string, len(tokens))
		for i, tok := range tokens {
			rows[i] = r.styled(tok)
		}
		t.node = strings.Join(rows, "\n")
		return t, nil
	case FormatHTML, FormatTable:
		var buf bytes.Buffer
		table := r.newTable(&buf)
		for _, tok := range tokens {
			cell := r.styled(tok)
			if r.Format == FormatHTML {
				cell = markup(tok)
			}
			if err := table.Append([]string{cell}); err != nil {
				return nil, errors.NewRenderError("failed to add row", err)
			}
		}
		if err := table.Render(); err != nil {
			return nil, errors.NewRenderError("failed to render table", err)
		}
		t.node = strings.TrimRight(buf.String(), "\n")
		return t, nil
	}
	return nil, errors.NewRenderError(r.Format.String(), errors.ErrUnknownFormat)
}

func (r *Renderer) newTable(buf *bytes.Buffer) *tablewriter.Table {
	common := []tablewriter.Option{
		tablewriter.WithTrimSpace(tw.Off),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	}
	if r.Format == FormatHTML {
		cfg := renderer.HTMLConfig{
			TableClass:    ClassTable,
			EscapeContent: false,
		}
		return tablewriter.NewTable(buf, append(common, tablewriter.WithRenderer(renderer.NewHTML(cfg)))...)
	}

	border := tw.Off
	if r.Borders {
		border = tw.On
	}
	return tablewriter.NewTable(buf, append(common,
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: border, Right: border, Top: border, Bottom: border},
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.Off, BetweenRows: tw.Off},
			},
		}),
	)...)
}

func (r *Renderer) styled(tok classify.Token) string {
	style, ok := r.Palette.style(tok.Kind)
	if !ok || tok.Value == "" {
		return tok.Text()
	}
	return tok.Prefix + style.Render(tok.Value) + tok.Suffix
}

func markup(tok classify.Token) string {
	class := ""
	switch tok.Kind {
	case classify.Numeric:
		class = ClassNumeric
	case classify.String:
		class = ClassString
	}
	if class == "" || tok.Value == "" {
		return html.EscapeString(tok.Text())
	}
	return fmt.Sprintf(`%s<span class="%s">%s</span>%s`,
		html.EscapeString(tok.Prefix), class, html.EscapeString(tok.Value), html.EscapeString(tok.Suffix))
}

// Rows returns the number of rendered lines.
func (t *Table) Rows() int {
	return len(t.tokens)
}

// String returns the complete output for printing, including the
// stylesheet for HTML.
func (t *Table) String() string {
	if t.format == FormatHTML {
		return Stylesheet + "\n" + t.node
	}
	return t.node
}

// Contents returns the text of every row, one per line.
func (t *Table) Contents() (string, error) {
	if len(t.tokens) == 0 {
		return "", fmt.Errorf("table has no rows")
	}
	lines := make([]string, len(t.tokens))
	for i, tok := range t.tokens {
		lines[i] = tok.Text()
	}
	return strings.Join(lines, "\n"), nil
}

// Node returns the rendered table as one block.
func (t *Table) Node() string {
	return t.node
}
