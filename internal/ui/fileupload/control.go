// Package fileupload implements the upload control: a drop-zone that reports
// the user's file selection through a callback and renders either an empty
// prompt or a summary of the selected files.
//
// The control owns no selection state. The host passes the current files in
// Props on every render and applies the changes it receives in OnSelectionChange.
package fileupload

import (
	"path"
	"strings"

	"github.com/markdave123-py/docdrop/internal/models"
)

// AcceptedFormats is the picker's accept hint. It is not enforced.
const AcceptedFormats = ".html,.htm,.pdf,.docx"

// Accepts reports whether name carries one of the AcceptedFormats extensions.
func Accepts(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return false
	}
	for _, a := range strings.Split(AcceptedFormats, ",") {
		if ext == a {
			return true
		}
	}
	return false
}

type Props struct {
	Label             string
	OnSelectionChange func(files []models.File)
	Files             []models.File
	Disabled          bool
	Multiple          bool
}

// Picker is the platform file-selection surface behind the control.
type Picker interface {
	Open()
	// Reset clears the picker's value so picking the same file again is still a change.
	Reset()
}

// Target is the element a click lands on.
type Target int

const (
	TargetContainer Target = iota
	TargetClear
)

// Event is a click travelling from its target up to the container.
type Event struct {
	Target  Target
	stopped bool
}

func (e *Event) StopPropagation()         { e.stopped = true }
func (e *Event) PropagationStopped() bool { return e.stopped }

type Control struct {
	props  Props
	picker Picker
}

func New(props Props, picker Picker) *Control {
	return &Control{props: props, picker: picker}
}

// ClearVisible reports whether the clear control is rendered.
func (c *Control) ClearVisible() bool {
	return len(c.props.Files) > 0 && !c.props.Disabled
}

// Click dispatches a click on target. A click on the clear control runs the
// clear handler first; unless it stops propagation the click then reaches the
// container, which opens the picker when the control is enabled. When the clear
// control is not rendered, the click lands on the container.
func (c *Control) Click(target Target) *Event {
	ev := &Event{Target: target}
	if target == TargetClear && c.ClearVisible() {
		c.Clear(ev)
	}
	if !ev.PropagationStopped() {
		c.containerClick()
	}
	return ev
}

func (c *Control) containerClick() {
	if c.props.Disabled || c.picker == nil {
		return
	}
	c.picker.Open()
}

// Change handles the picker's change notification. The list is reported in
// picker order and replaces the previous selection. A disabled picker emits
// no changes.
func (c *Control) Change(list FileList) {
	if c.props.Disabled {
		return
	}
	c.notify(ToSlice(list))
}

// Clear reports an empty selection and resets the picker. It stops ev from
// reaching the container so the picker is not opened.
func (c *Control) Clear(ev *Event) {
	if ev != nil {
		ev.StopPropagation()
	}
	c.notify([]models.File{})
	if c.picker != nil {
		c.picker.Reset()
	}
}

func (c *Control) notify(files []models.File) {
	if c.props.OnSelectionChange != nil {
		c.props.OnSelectionChange(files)
	}
}
