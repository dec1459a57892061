package form

import (
	"net/url"
	"regexp"
	"unicode/utf8"

	"github.com/and161185/shop-account/internal/model"
)

// Input types with their own native validity rule.
const (
	TypeText     = "text"
	TypeEmail    = "email"
	TypeTel      = "tel"
	TypePassword = "password"
)

// Same rule browsers apply to <input type="email">.
var reEmail = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// Constraint is the declarative native validity of a field.
type Constraint struct {
	Type      string
	Required  bool
	Pattern   *regexp.Regexp // anchored by the caller
	MinLength int
	MaxLength int
}

// Check reports whether value satisfies the constraint.
// An empty optional value is valid, as in HTML constraint validation.
func (c Constraint) Check(value string) bool {
	if value == "" {
		return !c.Required
	}
	n := utf8.RuneCountInString(value)
	if c.MinLength > 0 && n < c.MinLength {
		return false
	}
	if c.MaxLength > 0 && n > c.MaxLength {
		return false
	}
	if c.Type == TypeEmail && !reEmail.MatchString(value) {
		return false
	}
	if c.Pattern != nil && !c.Pattern.MatchString(value) {
		return false
	}
	return true
}

// Field is a single named form input.
type Field struct {
	Name       string
	Value      string
	Constraint Constraint
	// Invalid mirrors aria-invalid; set by the validation tracker.
	Invalid bool
}

// Valid evaluates the field's native validity.
func (f *Field) Valid() bool { return f.Constraint.Check(f.Value) }

// Model is an ordered set of fields plus the first-party submit target.
type Model struct {
	Action string
	Method string
	fields []*Field
}

// New builds a model; field order is submission order.
func New(action, method string, fields ...*Field) *Model {
	if method == "" {
		method = "post"
	}
	return &Model{Action: action, Method: method, fields: fields}
}

// Fields returns the fields in declaration order.
func (m *Model) Fields() []*Field { return m.fields }

// Field looks a field up by name.
func (m *Model) Field(name string) (*Field, bool) {
	for _, f := range m.fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Set assigns a value; unknown names are ignored.
func (m *Model) Set(name, value string) bool {
	f, ok := m.Field(name)
	if ok {
		f.Value = value
	}
	return ok
}

// CheckValidity reports whether every field passes its native validity.
func (m *Model) CheckValidity() bool {
	for _, f := range m.fields {
		if !f.Valid() {
			return false
		}
	}
	return true
}

// Pairs returns the submitted entries in field order.
func (m *Model) Pairs() []Pair {
	out := make([]Pair, 0, len(m.fields))
	for _, f := range m.fields {
		out = append(out, Pair{Name: f.Name, Value: f.Value})
	}
	return out
}

// Values returns the entries as url.Values for a first-party POST.
func (m *Model) Values() url.Values {
	v := url.Values{}
	for _, f := range m.fields {
		v.Add(f.Name, f.Value)
	}
	return v
}

// Object serializes the model with ToObject.
func (m *Model) Object() model.FormPayload { return ToObject(m.Pairs()) }
