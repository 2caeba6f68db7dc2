package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"golang.org/x/term"

	"github.com/obegron/jtable/internal/config"
	"github.com/obegron/jtable/internal/convert"
	"github.com/obegron/jtable/internal/copier"
	"github.com/obegron/jtable/internal/errors"
	"github.com/obegron/jtable/internal/render"
)

// Version information
const Version = "0.2.0"

const copiedMessage = "Copied text!"

var log = commonlog.GetLogger("jtable")

// CLI defines the command-line interface
type CLI struct {
	File        string `arg:"" optional:"" help:"JSON file to convert. Use - or omit to read stdin."`
	Format      string `help:"Output format: table, html or plain." short:"f"`
	Mode        string `help:"Value classification: structural, line or compat." short:"m"`
	Numbers     string `help:"Number output: canonical or preserve." short:"n"`
	Clipboard   string `help:"Clipboard backend: auto, system, osc52 or none."`
	Copy        bool   `help:"Copy the table text to the clipboard after printing it." short:"c"`
	NoColor     bool   `help:"Disable value highlighting."`
	NoBorders   bool   `help:"Draw the table without borders."`
	Interactive bool   `help:"Open the interactive editor." short:"i"`
	Config      string `help:"Path to a config file. Defaults to the nearest .jtable.yml." type:"path"`
	LogFile     string `help:"Write diagnostic logs to this file." type:"path"`
	Verbose     int    `help:"Increase log verbosity." short:"v" type:"counter"`
	Version     bool   `help:"Show version information."`
}

func (c *CLI) overrides() config.Overrides {
	return config.Overrides{
		Format:     c.Format,
		Classifier: c.Mode,
		Numbers:    c.Numbers,
		Clipboard:  c.Clipboard,
		NoColor:    c.NoColor,
		NoBorders:  c.NoBorders,
		Verbosity:  c.Verbose,
		LogFile:    c.LogFile,
	}
}

// env carries the process streams so run can be exercised in tests.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// piped is true when stdin carries data rather than a terminal.
	piped bool
	// terminal is true when stdout is attached to a terminal.
	terminal bool
	// width is the terminal width, 0 when unknown.
	width int

	clipboard copier.Clipboard
	viewer    func(cfg *config.Config, raw string, provided bool) error
}

func main() {
	var cli CLI
	parser := kong.Must(&cli,
		kong.Name("jtable"),
		kong.Description("Pretty-print JSON into a copyable table with highlighted values"),
		kong.UsageOnError(),
	)

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		parser.FatalIfErrorf(err)
	}

	if cli.Version {
		fmt.Printf("jtable version %s\n", Version)
		return
	}

	cfg, err := config.Load(cli.Config, cli.overrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
	configureLogging(cfg)

	clipboard, err := copier.ClipboardFor(cfg.Clipboard, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(errors.NewConfigError("clipboard", err)))
		os.Exit(1)
	}

	e := &env{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		piped:     !isTerminal(os.Stdin),
		terminal:  isTerminal(os.Stdout),
		width:     terminalWidth(),
		clipboard: clipboard,
		viewer: func(cfg *config.Config, raw string, provided bool) error {
			return runViewer(cfg, clipboard, raw, provided)
		},
	}

	if err := run(&cli, cfg, e); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		if stderrors.Is(err, errors.ErrNoInput) {
			fmt.Fprintf(os.Stderr, "\nFor help, run: jtable --help\n")
		}
		os.Exit(1)
	}
}

func configureLogging(cfg *config.Config) {
	if cfg.Log.File != "" {
		path := cfg.Log.File
		commonlog.Configure(cfg.Log.Verbosity, &path)
		return
	}
	// Without a file, notices and up go to stderr; -v adds info and debug.
	// The viewer turns this off while it owns the terminal.
	commonlog.Configure(cfg.Log.Verbosity, nil)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return width
}

func contentWidth(content string) int {
	maxWidth := 0
	for _, line := range strings.Split(content, "\n") {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// run executes the main program logic
func run(cli *CLI, cfg *config.Config, e *env) error {
	raw, err := readInput(cli.File, e.stdin, e.piped)
	provided := err == nil
	if err != nil && !stderrors.Is(err, errors.ErrNoInput) {
		return err
	}

	if cli.Interactive || (!provided && e.terminal) {
		if e.viewer == nil {
			return errors.NewInputError("interactive mode needs a terminal", errors.ErrNoInput)
		}
		if !provided {
			raw = sampleDocument
		}
		log.Debugf("starting interactive viewer (input provided: %t)", provided)
		return e.viewer(cfg, raw, provided)
	}
	if !provided {
		return err
	}

	table, err := renderTable(cfg, raw, e.stdout)
	if err != nil {
		return err
	}

	// Tables wider than the terminal open in the scrolling viewer.
	if e.terminal && e.viewer != nil && !cli.Copy && e.width > 0 &&
		!strings.EqualFold(cfg.Format, "html") && contentWidth(table.Node()) > e.width {
		log.Debugf("table wider than terminal (%d columns), starting viewer", e.width)
		return e.viewer(cfg, raw, true)
	}

	if _, err := fmt.Fprintln(e.stdout, table.String()); err != nil {
		return errors.NewOutputError("failed to write table", err)
	}

	if cli.Copy {
		return copyTable(table, e.clipboard, e.stderr)
	}
	return nil
}

// readInput reads JSON from the named file, or from stdin when path is
// empty or "-".
func readInput(path string, stdin io.Reader, piped bool) (string, error) {
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", errors.NewInputError(fmt.Sprintf("failed to read %s", path), err)
		}
		return string(data), nil
	}

	if !piped && path != "-" {
		return "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read stdin", err)
	}
	if strings.TrimSpace(string(data)) == "" && path != "-" {
		return "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}
	return string(data), nil
}

// renderTable converts raw and lays it out for out.
func renderTable(cfg *config.Config, raw string, out io.Writer) (*render.Table, error) {
	opts, err := cfg.ConvertOptions()
	if err != nil {
		return nil, errors.NewConfigError("invalid option", err)
	}
	session := convert.NewSession(opts)
	if err := session.Convert(raw); err != nil {
		return nil, err
	}

	r, err := newRenderer(cfg, out)
	if err != nil {
		return nil, err
	}
	return r.Render(session.Lines())
}

func newRenderer(cfg *config.Config, out io.Writer) (*render.Renderer, error) {
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return nil, errors.NewConfigError("invalid format", err)
	}
	palette := render.NoColorPalette()
	if cfg.Table.Color {
		palette = render.NewPalette(lipgloss.NewRenderer(out), cfg.Palette.Numeric, cfg.Palette.String)
	}
	return &render.Renderer{Format: format, Palette: palette, Borders: cfg.Table.Borders}, nil
}

// copyTable runs a single copy of table and reports the outcome on stderr.
func copyTable(table *render.Table, cb copier.Clipboard, stderr io.Writer) error {
	var container copier.Container
	if table != nil {
		container = table
	}
	controller := copier.NewController(copier.NewSelection(cb), nil)
	result := controller.Copy(container)
	if !result.OK() {
		return result.Err()
	}
	fmt.Fprintln(stderr, copiedMessage)
	return nil
}
