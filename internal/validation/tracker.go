// Package validation tracks field validity and gates the submit affordance.
package validation

import (
	"sync"

	"github.com/and161185/shop-account/internal/form"
	"github.com/and161185/shop-account/internal/model"
)

// Affordance is the submit control the tracker enables or disables.
type Affordance interface {
	SetEnabled(enabled bool)
}

// Tracker observes input events on a fixed set of fields.
type Tracker struct {
	mu         sync.Mutex
	fields     []*form.Field
	valid      map[string]bool
	affordance Affordance
}

// New evaluates every field once and applies the resulting submit state.
func New(fields []*form.Field, a Affordance) *Tracker {
	t := &Tracker{fields: fields, valid: make(map[string]bool, len(fields)), affordance: a}
	for _, f := range fields {
		t.mark(f)
	}
	t.apply()
	return t
}

// OnInput handles one input event: only the edited field is re-checked,
// all fields are swept for blanks.
func (t *Tracker) OnInput(name, value string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	f := t.find(name)
	if f == nil {
		return t.enabledLocked()
	}
	f.Value = value
	t.mark(f)
	return t.applyLocked()
}

// Refresh re-checks a field whose value changed without an input event.
func (t *Tracker) Refresh(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f := t.find(name); f != nil {
		t.mark(f)
	}
	return t.applyLocked()
}

// State returns a snapshot of per-field and whole-form validity.
func (t *Tracker) State() model.ValidationState {
	t.mu.Lock()
	defer t.mu.Unlock()
	fields := make(map[string]bool, len(t.valid))
	for k, v := range t.valid {
		fields[k] = v
	}
	return model.ValidationState{Fields: fields, Filled: t.filled(), Valid: t.allValid()}
}

// SubmitEnabled reports the derived whole-form flag.
func (t *Tracker) SubmitEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabledLocked()
}

func (t *Tracker) find(name string) *form.Field {
	for _, f := range t.fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (t *Tracker) mark(f *form.Field) {
	ok := f.Valid()
	f.Invalid = !ok
	t.valid[f.Name] = ok
}

func (t *Tracker) filled() bool {
	for _, f := range t.fields {
		if f.Value == "" {
			return false
		}
	}
	return true
}

func (t *Tracker) allValid() bool {
	for _, ok := range t.valid {
		if !ok {
			return false
		}
	}
	return true
}

func (t *Tracker) enabledLocked() bool { return t.filled() && t.allValid() }

func (t *Tracker) apply() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.applyLocked()
}

func (t *Tracker) applyLocked() bool {
	on := t.enabledLocked()
	if t.affordance != nil {
		t.affordance.SetEnabled(on)
	}
	return on
}
