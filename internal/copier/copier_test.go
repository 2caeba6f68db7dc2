package copier

import (
	"bytes"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obegron/jtable/internal/errors"
)

type fakeContainer struct {
	contents string
	node     string
	err      error
}

func (c fakeContainer) Contents() (string, error) { return c.contents, c.err }
func (c fakeContainer) Node() string              { return c.node }

type fakeSurface struct {
	supported  bool
	selectErr  error
	selectPan  bool
	copyErr    error
	calls      []string
	selected   string
	hasContent bool
}

func (s *fakeSurface) Supported() bool { return s.supported }

func (s *fakeSurface) Clear() {
	s.calls = append(s.calls, "clear")
	s.selected = ""
	s.hasContent = false
}

func (s *fakeSurface) SelectContents(c Container) error {
	s.calls = append(s.calls, "select-contents")
	if s.selectPan {
		panic("range not supported")
	}
	if s.selectErr != nil {
		return s.selectErr
	}
	s.selected, _ = c.Contents()
	s.hasContent = true
	return nil
}

func (s *fakeSurface) SelectNode(c Container) {
	s.calls = append(s.calls, "select-node")
	s.selected = c.Node()
	s.hasContent = true
}

func (s *fakeSurface) Copy() error {
	s.calls = append(s.calls, "copy:"+s.selected)
	return s.copyErr
}

type recorder struct {
	alerts []string
}

func (r *recorder) Alert(message string) { r.alerts = append(r.alerts, message) }

func TestController_NoTableIsNoOp(t *testing.T) {
	surface := &fakeSurface{supported: true}
	c := NewController(surface, nil)
	var states []State
	c.OnTransition(func(s State) { states = append(states, s) })

	assert.Equal(t, ResultNoTable, c.Copy(nil))
	assert.Empty(t, surface.calls)
	assert.Empty(t, states)
	assert.ErrorIs(t, ResultNoTable.Err(), errors.ErrNoTable)
}

func TestController_UnsupportedBeforeClearing(t *testing.T) {
	surface := &fakeSurface{supported: false}
	notes := &recorder{}
	c := NewController(surface, notes)

	result := c.Copy(fakeContainer{contents: "x"})
	assert.Equal(t, ResultUnsupported, result)
	assert.Empty(t, surface.calls)
	assert.Empty(t, notes.alerts)
	assert.False(t, result.OK())
	assert.ErrorIs(t, result.Err(), errors.ErrClipboardUnsupport)

	assert.Equal(t, ResultUnsupported, NewController(nil, nil).Copy(fakeContainer{}))
}

func TestController_Success(t *testing.T) {
	surface := &fakeSurface{supported: true}
	notes := &recorder{}
	c := NewController(surface, notes)
	var states []State
	c.OnTransition(func(s State) { states = append(states, s) })

	result := c.Copy(fakeContainer{contents: "{\n}", node: "<table>"})
	assert.Equal(t, ResultCopied, result)
	assert.True(t, result.OK())
	assert.NoError(t, result.Err())
	assert.Equal(t, []string{"clear", "select-contents", "copy:{\n}", "clear"}, surface.calls)
	assert.Equal(t, []State{Clearing, Selecting, Copying, Done, Idle}, states)
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, notes.alerts)
	assert.False(t, surface.hasContent)
}

func TestController_FallsBackToNodeSelection(t *testing.T) {
	tests := []struct {
		name    string
		surface *fakeSurface
	}{
		{"error", &fakeSurface{supported: true, selectErr: stderrors.New("detached")}},
		{"panic", &fakeSurface{supported: true, selectPan: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(tt.surface, nil)
			result := c.Copy(fakeContainer{contents: "rows", node: "<table>rows</table>"})
			assert.Equal(t, ResultCopied, result)
			assert.Equal(t, []string{"clear", "select-contents", "select-node", "copy:<table>rows</table>", "clear"}, tt.surface.calls)
		})
	}
}

func TestController_CopyFailureAlertsAndClears(t *testing.T) {
	surface := &fakeSurface{supported: true, copyErr: stderrors.New("execCommand returned false")}
	notes := &recorder{}
	c := NewController(surface, notes)

	result := c.Copy(fakeContainer{contents: "a"})
	assert.Equal(t, ResultFailed, result)
	assert.Equal(t, []string{"Failed to copy the table."}, notes.alerts)
	assert.Equal(t, "clear", surface.calls[len(surface.calls)-1])
	assert.ErrorIs(t, result.Err(), errors.ErrCopyFailed)
	assert.Equal(t, errors.MsgCopyFailed, errors.UserFriendlyError(result.Err()))
}

func TestController_RepeatedCopiesClearEachTime(t *testing.T) {
	surface := &fakeSurface{supported: true}
	c := NewController(surface, NotifierFunc(func(string) { t.Fatal("unexpected alert") }))

	require.Equal(t, ResultCopied, c.Copy(fakeContainer{contents: "one"}))
	require.Equal(t, ResultCopied, c.Copy(fakeContainer{contents: "two"}))
	assert.Equal(t, []string{
		"clear", "select-contents", "copy:one", "clear",
		"clear", "select-contents", "copy:two", "clear",
	}, surface.calls)
}

type memClipboard struct {
	available bool
	err       error
	written   []string
}

func (m *memClipboard) Name() string    { return "memory" }
func (m *memClipboard) Available() bool { return m.available }
func (m *memClipboard) WriteAll(text string) error {
	if m.err != nil {
		return m.err
	}
	m.written = append(m.written, text)
	return nil
}

func TestSelection_WithController(t *testing.T) {
	cb := &memClipboard{available: true}
	sel := NewSelection(cb)
	c := NewController(sel, nil)

	result := c.Copy(fakeContainer{contents: "\x1b[32m\"a\"\x1b[0m: 1", node: "node"})
	require.Equal(t, ResultCopied, result)
	assert.Equal(t, []string{`"a": 1`}, cb.written)

	text, active := sel.Selected()
	assert.Empty(t, text)
	assert.False(t, active)
}

func TestSelection_NodeFallbackAndErrors(t *testing.T) {
	cb := &memClipboard{available: true}
	sel := NewSelection(cb)

	err := sel.SelectContents(fakeContainer{err: stderrors.New("render failed")})
	assert.ErrorIs(t, err, errors.ErrSelectionFailed)

	assert.ErrorIs(t, sel.Copy(), errors.ErrCopyFailed, "copy with empty selection")

	sel.SelectNode(fakeContainer{node: "<table></table>"})
	require.NoError(t, sel.Copy())
	assert.Equal(t, []string{"<table></table>"}, cb.written)

	cb.err = stderrors.New("xclip missing")
	assert.ErrorIs(t, sel.Copy(), errors.ErrCopyFailed)

	assert.False(t, NewSelection(&memClipboard{}).Supported())
	assert.False(t, NewSelection(nil).Supported())
}

func TestOSC52_WritesEscapeSequence(t *testing.T) {
	var buf bytes.Buffer
	o := &OSC52{Out: &buf, TTY: true}
	require.True(t, o.Available())
	require.NoError(t, o.WriteAll("hi"))
	assert.Contains(t, buf.String(), "\x1b]52;c;aGk=")

	buf.Reset()
	o.Tmux = true
	require.NoError(t, o.WriteAll("hi"))
	assert.Contains(t, buf.String(), "\x1bPtmux;")

	assert.False(t, (&OSC52{Out: &buf}).Available())
}

func TestClipboardFor(t *testing.T) {
	cb, err := ClipboardFor("none", nil)
	require.NoError(t, err)
	assert.False(t, cb.Available())
	assert.ErrorIs(t, cb.WriteAll("x"), errors.ErrClipboardUnsupport)

	cb, err = ClipboardFor("system", nil)
	require.NoError(t, err)
	assert.Equal(t, "system", cb.Name())

	cb, err = ClipboardFor("OSC52", nil)
	require.NoError(t, err)
	assert.Equal(t, "osc52", cb.Name())
	assert.False(t, cb.Available())

	cb, err = ClipboardFor("auto", nil)
	require.NoError(t, err)
	assert.NotNil(t, cb)

	_, err = ClipboardFor("pasteboard", nil)
	assert.Error(t, err)
}

func TestFlash(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f := NewFlash()
	assert.False(t, f.Visible(now))

	first := f.Show(now)
	assert.True(t, f.Visible(now.Add(2*time.Second)))
	assert.False(t, f.Visible(now.Add(ConfirmationDuration)))

	second := f.Show(now.Add(2 * time.Second))
	assert.False(t, f.Expire(first), "stale timer must not hide the newer confirmation")
	assert.True(t, f.Visible(now.Add(4*time.Second)))

	assert.True(t, f.Expire(second))
	assert.False(t, f.Visible(now.Add(4*time.Second)))
	assert.False(t, f.Expire(second))
}

func TestStateAndResultStrings(t *testing.T) {
	assert.Equal(t, "selecting", Selecting.String())
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "unsupported", ResultUnsupported.String())
	assert.Equal(t, "no table", ResultNoTable.String())
}
