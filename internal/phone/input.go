package phone

import (
	"github.com/and161185/shop-account/internal/form"
	"github.com/and161185/shop-account/internal/model"
)

// Input binds a phone form field to the currently selected country.
// The canonical value is recomputed from the field's current value on every
// edit, on every country change and right before submit.
type Input struct {
	field    *form.Field
	dialCode string
}

// NewInput binds field to dialCode and normalizes the initial value.
func NewInput(field *form.Field, dialCode string) (*Input, error) {
	in := &Input{field: field, dialCode: dialCode}
	if err := in.Refresh(); err != nil {
		return nil, err
	}
	return in, nil
}

// DialCode returns the selected country dial code.
func (in *Input) DialCode() string { return in.dialCode }

// Name is the bound field name.
func (in *Input) Name() string { return in.field.Name }

// SetDialCode switches country and re-normalizes the current value.
func (in *Input) SetDialCode(code string) error {
	if _, err := Normalize("", code); err != nil {
		return err
	}
	in.dialCode = code
	return in.Refresh()
}

// Refresh re-normalizes the field value in place.
func (in *Input) Refresh() error {
	v, err := NormalizeRecord(model.PhoneRecord{Raw: in.field.Value, DialCode: in.dialCode})
	if err != nil {
		return err
	}
	in.field.Value = v
	return nil
}
