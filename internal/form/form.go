// Package form holds the create/update form state shared by the web and
// terminal front ends. It never talks to the API; submission is handed to the
// parent through OnSubmit.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/itemdesk/internal/model"
)

// ErrRequired is returned by Submit when a required field is blank.
var ErrRequired = errors.New("required field missing")

// Mode tells whether the form creates a new item or edits an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Form is a draft bound to an optional initial record.
type Form struct {
	initial  *model.Item
	draft    model.Draft
	OnSubmit func(model.Draft) error
}

// New returns a form in edit mode when initial is non-nil, create mode
// otherwise.
func New(initial *model.Item) *Form {
	f := &Form{}
	f.Reseed(initial)
	return f
}

// Reseed replaces the initial record and resets the draft from it. Passing a
// record equal to the current one keeps the draft as edited.
func (f *Form) Reseed(initial *model.Item) {
	if sameRecord(f.initial, initial) {
		return
	}
	if initial == nil {
		f.initial = nil
		f.draft = model.Draft{}
		return
	}
	clone := initial.Clone()
	f.initial = &clone
	f.draft = clone.Draft()
}

func sameRecord(a, b *model.Item) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Draft() == b.Draft()
}

// Mode reports whether the form is creating or editing.
func (f *Form) Mode() Mode {
	if f.initial != nil {
		return ModeEdit
	}
	return ModeCreate
}

// ID returns the id of the edited record, or 0 in create mode.
func (f *Form) ID() int64 {
	if f.initial == nil {
		return 0
	}
	return f.initial.ID
}

// Draft returns a copy of the current draft.
func (f *Form) Draft() model.Draft {
	return f.draft
}

// Item returns the draft applied to the edited record's id.
func (f *Form) Item() model.Item {
	return f.draft.Apply(f.ID())
}

func (f *Form) SetTitle(v string) { f.draft.Title = v }
func (f *Form) SetText(v string)  { f.draft.Text = v }

// SetDraft replaces the draft. An out-of-range status is ignored.
func (f *Form) SetDraft(d model.Draft) {
	f.draft.Title = d.Title
	f.draft.Text = d.Text
	f.SetStatus(d.Status)
}

// SetStatus sets the status, ignoring values outside 0..2.
func (f *Form) SetStatus(s model.Status) {
	if s.Valid() {
		f.draft.Status = s
	}
}

// SetStatusString sets the status from a select value such as "1".
func (f *Form) SetStatusString(v string) error {
	s, err := model.ParseStatus(v)
	if err != nil {
		return err
	}
	f.draft.Status = s
	return nil
}

// ButtonLabel returns the submit label for the current mode.
func (f *Form) ButtonLabel() string {
	if f.Mode() == ModeEdit {
		return "Update"
	}
	return "Add"
}

// Submit hands a copy of the draft to OnSubmit. Only a create form requires
// title and text; an edit is sent as typed.
func (f *Form) Submit() error {
	if f.Mode() == ModeCreate {
		if missing := f.draft.Missing(); len(missing) > 0 {
			return fmt.Errorf("%w: %s", ErrRequired, strings.Join(missing, ", "))
		}
	}
	if f.OnSubmit == nil {
		return nil
	}
	return f.OnSubmit(f.draft)
}

// Reset clears the draft in create mode, or restores it from the initial
// record in edit mode.
func (f *Form) Reset() {
	if f.initial == nil {
		f.draft = model.Draft{}
		return
	}
	f.draft = f.initial.Draft()
}
