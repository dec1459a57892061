package form

import (
	"net/url"
	"regexp"
	"testing"

	"github.com/and161185/shop-account/internal/model"
	"github.com/stretchr/testify/require"
)

func TestToObject_Nested(t *testing.T) {
	t.Parallel()

	got := ToObject([]Pair{
		{Name: "form_type", Value: "customer_login"},
		{Name: "customer[email]", Value: "a@b.co"},
		{Name: "customer[address][city]", Value: "Sydney"},
		{Name: "customer[address][zip]", Value: "2000"},
	})
	want := model.FormPayload{
		"form_type": "customer_login",
		"customer": model.FormPayload{
			"email": "a@b.co",
			"address": model.FormPayload{
				"city": "Sydney",
				"zip":  "2000",
			},
		},
	}
	require.Equal(t, want, got)
}

func TestToObject_LastWriteWins(t *testing.T) {
	t.Parallel()

	got := ToObject([]Pair{
		{Name: "customer[phone]", Value: "1"},
		{Name: "customer[phone]", Value: "2"},
	})
	require.Equal(t, "2", got["customer"].(model.FormPayload)["phone"])
}

func TestToObject_LeafCollisions(t *testing.T) {
	t.Parallel()

	// existing leaf blocks a deeper path
	got := ToObject([]Pair{{Name: "a", Value: "x"}, {Name: "a[b]", Value: "y"}})
	require.Equal(t, model.FormPayload{"a": "x"}, got)

	// leaf replaces an existing map
	got = ToObject([]Pair{{Name: "a[b]", Value: "y"}, {Name: "a", Value: "x"}})
	require.Equal(t, model.FormPayload{"a": "x"}, got)

	// empty leaf does not block
	got = ToObject([]Pair{{Name: "a", Value: ""}, {Name: "a[b]", Value: "y"}})
	require.Equal(t, model.FormPayload{"a": model.FormPayload{"b": "y"}}, got)
}

func TestToObject_Flatten_Roundtrip(t *testing.T) {
	t.Parallel()

	in := []Pair{
		{Name: "customer[acceptsMarketing]", Value: "on"},
		{Name: "customer[address][city]", Value: "Perth"},
		{Name: "customer[email]", Value: "x@y.z"},
		{Name: "customer[firstName]", Value: "Ann"},
		{Name: "return_to", Value: "/account"},
	}
	require.Equal(t, in, Flatten(ToObject(in)))
}

func TestPairsFromValues_Sorted(t *testing.T) {
	t.Parallel()

	v := url.Values{}
	v.Add("z", "1")
	v.Add("a[b]", "2")
	v.Add("a[b]", "3")
	require.Equal(t, []Pair{
		{Name: "a[b]", Value: "2"},
		{Name: "a[b]", Value: "3"},
		{Name: "z", Value: "1"},
	}, PairsFromValues(v))
}

func TestConstraint_Check(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		c    Constraint
		v    string
		want bool
	}{
		{"optional empty", Constraint{}, "", true},
		{"required empty", Constraint{Required: true}, "", false},
		{"email ok", Constraint{Type: TypeEmail}, "ann@example.com", true},
		{"email bad", Constraint{Type: TypeEmail}, "ann@", false},
		{"min length", Constraint{MinLength: 5}, "abcd", false},
		{"max length", Constraint{MaxLength: 3}, "abcd", false},
		{"pattern ok", Constraint{Pattern: regexp.MustCompile(`^\+\d+$`)}, "+61412345678", true},
		{"pattern bad", Constraint{Pattern: regexp.MustCompile(`^\+\d+$`)}, "0412 345", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.c.Check(tc.v))
		})
	}
}

func TestModel_Basics(t *testing.T) {
	t.Parallel()

	m := New("/account/login", "",
		&Field{Name: "customer[email]", Constraint: Constraint{Type: TypeEmail, Required: true}},
		&Field{Name: "customer[password]", Constraint: Constraint{Required: true}},
	)
	require.Equal(t, "post", m.Method)
	require.False(t, m.CheckValidity())

	require.True(t, m.Set("customer[email]", "ann@example.com"))
	require.True(t, m.Set("customer[password]", "secret"))
	require.False(t, m.Set("nope", "x"))
	require.True(t, m.CheckValidity())

	require.Equal(t, "ann@example.com", m.Values().Get("customer[email]"))
	obj := m.Object()
	require.Equal(t, "secret", obj["customer"].(model.FormPayload)["password"])
}
