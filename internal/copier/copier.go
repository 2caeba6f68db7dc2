// Package copier copies a rendered table to the clipboard by selecting the
// whole table, running the copy command and releasing the selection again.
//
// The selection and copy command are reached through Surface so the sequence
// can run against the system clipboard, a terminal, or a test fake.
package copier

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/obegron/jtable/internal/errors"
)

var log = commonlog.GetLogger("jtable.copier")

// Container is a rendered table that can be selected.
type Container interface {
	// Contents returns all text inside the container.
	Contents() (string, error)
	// Node returns the container itself as one unit, markup included.
	Node() string
}

// Surface is the platform's selection and copy capability.
type Surface interface {
	Supported() bool
	Clear()
	SelectContents(c Container) error
	SelectNode(c Container)
	Copy() error
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	Alert(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Alert calls f.
func (f NotifierFunc) Alert(message string) {
	f(message)
}

// State is a step of one copy invocation.
type State int

const (
	Idle State = iota
	Clearing
	Selecting
	Copying
	Done
)

func (s State) String() string {
	switch s {
	case Clearing:
		return "clearing"
	case Selecting:
		return "selecting"
	case Copying:
		return "copying"
	case Done:
		return "done"
	}
	return "idle"
}

// Result is the outcome of one copy invocation.
type Result int

const (
	ResultCopied Result = iota
	ResultFailed
	ResultUnsupported
	ResultNoTable
)

func (r Result) String() string {
	switch r {
	case ResultCopied:
		return "copied"
	case ResultFailed:
		return "failed"
	case ResultUnsupported:
		return "unsupported"
	}
	return "no table"
}

// OK reports whether the table reached the clipboard.
func (r Result) OK() bool {
	return r == ResultCopied
}

// Err converts a non-successful result into an application error.
func (r Result) Err() error {
	switch r {
	case ResultFailed:
		return errors.NewCopyError("copy command failed", errors.ErrCopyFailed)
	case ResultUnsupported:
		return errors.NewCopyError("clipboard is unavailable", errors.ErrClipboardUnsupport)
	case ResultNoTable:
		return errors.NewCopyError("nothing to copy", errors.ErrNoTable)
	}
	return nil
}

// Controller runs the clear, select, copy, clear sequence.
type Controller struct {
	surface  Surface
	notifier Notifier
	observer func(State)
	state    State
}

// NewController creates a controller. notifier may be nil.
func NewController(surface Surface, notifier Notifier) *Controller {
	return &Controller{surface: surface, notifier: notifier}
}

// OnTransition registers fn to be called on every state change.
func (c *Controller) OnTransition(fn func(State)) {
	c.observer = fn
}

// State returns the current state; Idle outside of Copy.
func (c *Controller) State() State {
	return c.state
}

func (c *Controller) enter(s State) {
	c.state = s
	if c.observer != nil {
		c.observer(s)
	}
}

// Copy puts the contents of container on the clipboard. A nil container is a
// no-op and an unsupported surface is reported before anything is touched.
// Failures alert the notifier; there is no retry.
func (c *Controller) Copy(container Container) Result {
	if container == nil {
		log.Debug("copy requested without a rendered table")
		return ResultNoTable
	}
	if c.surface == nil || !c.surface.Supported() {
		log.Warning("selection or copy command unavailable, copy disabled")
		return ResultUnsupported
	}

	c.enter(Clearing)
	c.surface.Clear()
	defer func() {
		c.surface.Clear()
		c.enter(Idle)
	}()

	c.enter(Selecting)
	if err := selectContents(c.surface, container); err != nil {
		log.Debugf("content selection failed, selecting the container node: %v", err)
		c.surface.SelectNode(container)
	}

	c.enter(Copying)
	err := c.surface.Copy()
	c.enter(Done)
	if err != nil {
		log.Errorf("copy failed: %v", err)
		if c.notifier != nil {
			c.notifier.Alert(errors.MsgCopyFailed)
		}
		return ResultFailed
	}
	log.Debug("table copied")
	return ResultCopied
}

func selectContents(s Surface, c Container) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errors.ErrSelectionFailed, r)
		}
	}()
	return s.SelectContents(c)
}
