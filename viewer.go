package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/tliron/commonlog"

	"github.com/obegron/jtable/internal/config"
	"github.com/obegron/jtable/internal/convert"
	"github.com/obegron/jtable/internal/copier"
	"github.com/obegron/jtable/internal/errors"
	"github.com/obegron/jtable/internal/render"
)

// sampleDocument pre-fills the editor when no input is given.
const sampleDocument = `{"title":"Basic Marks: bar","subtitle":"Tutorial Examples","tracks":[{"layout":"linear","width":800,"height":180,"data":{"url":"https://resgen.io/api/v1/tileset_info/?d=UvVPeLHuRDiYA3qwFlm7xQ","type":"multivec","row":"sample","column":"position","value":"peak","categories":["sample 1"],"binSize":5},"mark":"bar","x":{"field":"start","type":"genomic","axis":"bottom"},"xe":{"field":"end","type":"genomic"},"y":{"field":"peak","type":"quantitative","axis":"right"},"size":{"value":5}}]}`

const (
	editorHeight = 8
	scrollStep   = 5
)

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e78284"))
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#303446")).
			Background(lipgloss.Color("#a6d189")).
			Padding(0, 1)
	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#e78284")).
			Padding(1, 3)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c6d0f5")).
			Background(lipgloss.Color("#414559")).
			Padding(0, 1)
)

type focus int

const (
	focusEditor focus = iota
	focusTable
)

// flashExpiredMsg hides the copy confirmation of the given generation.
type flashExpiredMsg struct {
	generation uint64
}

// alerts collects notifier messages raised during a copy.
type alerts struct {
	pending []string
}

func (a *alerts) Alert(message string) {
	a.pending = append(a.pending, message)
}

type model struct {
	editor   textarea.Model
	viewport viewport.Model
	focus    focus

	session  *convert.Session
	renderer *render.Renderer
	table    *render.Table
	errMsg   string

	controller *copier.Controller
	flash      *copier.Flash
	alerts     *alerts
	now        func() time.Time

	content      []string
	contentWidth int
	xOffset      int
	width        int
	height       int
	ready        bool
}

func newModel(session *convert.Session, r *render.Renderer, cb copier.Clipboard, raw string) model {
	editor := textarea.New()
	editor.Placeholder = "Paste JSON here"
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.SetHeight(editorHeight)
	editor.SetValue(raw)
	editor.Focus()

	notes := &alerts{}
	return model{
		editor:     editor,
		session:    session,
		renderer:   r,
		controller: copier.NewController(copier.NewSelection(cb), notes),
		flash:      copier.NewFlash(),
		alerts:     notes,
		now:        time.Now,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case flashExpiredMsg:
		m.flash.Expire(msg.generation)
		return m, nil

	case tea.KeyMsg:
		// An alert blocks until dismissed.
		if len(m.alerts.pending) > 0 {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			m.alerts.pending = m.alerts.pending[1:]
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+r":
			m.convert()
			return m, nil
		case "ctrl+y":
			return m.copy()
		case "tab":
			m.toggleFocus()
			return m, nil
		}

		if m.focus == focusEditor {
			m.editor, cmd = m.editor.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "y":
			return m.copy()
		case "h", "left":
			if m.xOffset > 0 {
				m.xOffset = max(m.xOffset-scrollStep, 0)
				m.updateViewportContent()
			}
		case "l", "right":
			maxScroll := m.contentWidth - m.width
			if maxScroll > 0 && m.xOffset < maxScroll {
				m.xOffset = min(m.xOffset+scrollStep, maxScroll)
				m.updateViewportContent()
			}
		case "g", "home":
			m.viewport.GotoTop()
			m.xOffset = 0
			m.updateViewportContent()
		case "G", "end":
			m.viewport.GotoBottom()
		case "0":
			m.xOffset = 0
			m.updateViewportContent()
		case "$":
			maxScroll := m.contentWidth - m.width
			if maxScroll > 0 {
				m.xOffset = maxScroll
				m.updateViewportContent()
			}
		default:
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(msg.Width)

		// editor, error line, status bar
		tableHeight := max(msg.Height-editorHeight-2, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, tableHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = tableHeight
		}
		m.updateViewportContent()
		return m, nil
	}

	if m.focus == focusEditor {
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) toggleFocus() {
	if m.focus == focusEditor {
		m.focus = focusTable
		m.editor.Blur()
		return
	}
	m.focus = focusEditor
	m.editor.Focus()
}

// convert re-renders the table from the editor text. The editor text itself
// is left untouched.
func (m *model) convert() {
	m.table = nil
	m.content = nil
	m.contentWidth = 0
	m.xOffset = 0

	if err := m.session.Convert(m.editor.Value()); err != nil {
		m.errMsg = m.session.Message()
		m.updateViewportContent()
		return
	}

	table, err := m.renderer.Render(m.session.Lines())
	if err != nil {
		log.Errorf("render failed: %v", err)
		m.errMsg = errors.UserFriendlyError(err)
		m.updateViewportContent()
		return
	}

	m.errMsg = ""
	m.table = table
	m.content = strings.Split(table.Node(), "\n")
	m.contentWidth = contentWidth(table.Node())
	m.viewport.GotoTop()
	m.updateViewportContent()
}

func (m model) container() copier.Container {
	if m.table == nil {
		return nil
	}
	return m.table
}

func (m model) copy() (model, tea.Cmd) {
	result := m.controller.Copy(m.container())
	if !result.OK() {
		return m, nil
	}
	gen := m.flash.Show(m.now())
	return m, tea.Tick(m.flash.Duration, func(time.Time) tea.Msg {
		return flashExpiredMsg{generation: gen}
	})
}

func (m *model) updateViewportContent() {
	if !m.ready {
		return
	}
	visibleLines := make([]string, len(m.content))
	for i, line := range m.content {
		visibleLines[i] = sliceLine(line, m.xOffset, m.width)
	}
	m.viewport.SetContent(strings.Join(visibleLines, "\n"))
}

// sliceLine returns the columns [offset, offset+width) of line, keeping its
// styling intact.
func sliceLine(line string, offset, width int) string {
	if offset == 0 && lipgloss.Width(line) <= width {
		return line
	}
	return ansi.Cut(line, offset, offset+width)
}

func (m model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if len(m.alerts.pending) > 0 {
		box := alertStyle.Render(m.alerts.pending[0] + "\n\npress any key")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	errLine := ""
	if m.errMsg != "" {
		errLine = errorStyle.Render(m.errMsg)
	}

	var status string
	if m.flash.Visible(m.now()) {
		status = bannerStyle.Render(copiedMessage)
	} else {
		status = statusBarStyle.Render(m.statusText())
	}

	return m.editor.View() + "\n" + errLine + "\n" + m.viewport.View() + "\n" + status
}

func (m model) statusText() string {
	if m.focus == focusEditor {
		return "ctrl+r: convert | ctrl+y: copy | tab: table | esc: quit"
	}
	return fmt.Sprintf(
		"↑↓/kj: vertical | ←→/hl: horizontal | g/G: top/bottom | 0/$: left/right | y: copy | tab: editor | q: quit | Line: %d/%d | Col: %d/%d",
		m.viewport.YOffset+1,
		len(m.content),
		m.xOffset+1,
		m.contentWidth,
	)
}

// newViewer builds the interactive model. When the input came from the user
// it is converted right away. Without a log file, logging is switched off so
// nothing is painted over the alternate screen.
func newViewer(cfg *config.Config, cb copier.Clipboard, raw string, provided bool) (model, error) {
	opts, err := cfg.ConvertOptions()
	if err != nil {
		return model{}, errors.NewConfigError("invalid option", err)
	}
	r, err := newRenderer(cfg, os.Stdout)
	if err != nil {
		return model{}, err
	}
	// HTML markup is meaningless in a terminal.
	if r.Format == render.FormatHTML {
		r.Format = render.FormatTable
	}

	if cfg.Log.File == "" {
		commonlog.Configure(-4, nil)
	}

	m := newModel(convert.NewSession(opts), r, cb, raw)
	if provided {
		m.convert()
		m.toggleFocus()
	}
	return m, nil
}

// runViewer starts the interactive app.
func runViewer(cfg *config.Config, cb copier.Clipboard, raw string, provided bool) error {
	m, err := newViewer(cfg, cb, raw, provided)
	if err != nil {
		return err
	}

	options := []tea.ProgramOption{tea.WithAltScreen()}
	if !isTerminal(os.Stdin) {
		options = append(options, tea.WithInputTTY())
	}
	if _, err := tea.NewProgram(m, options...).Run(); err != nil {
		return errors.NewOutputError("interactive viewer failed", err)
	}
	return nil
}
