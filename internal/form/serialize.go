// Package form holds the account form model: ordered fields, native validity
// constraints and the bracket-notation serializer.
package form

import (
	"net/url"
	"sort"
	"strings"

	"github.com/and161185/shop-account/internal/model"
)

// Pair is a single submitted (name, value) entry.
type Pair struct {
	Name  string
	Value string
}

// splitName turns customer[address][city] into [customer address city].
func splitName(name string) []string {
	parts := strings.Split(name, "[")
	for i, p := range parts {
		parts[i] = strings.Replace(p, "]", "", 1)
	}
	return parts
}

// ToObject builds a nested payload from bracket-notation pairs.
// Every bracketed segment becomes one nesting level; duplicate full paths are last-write-wins.
func ToObject(pairs []Pair) model.FormPayload {
	out := model.FormPayload{}
	for _, p := range pairs {
		keys := splitName(p.Name)
		obj := out
		dropped := false
		for _, k := range keys[:len(keys)-1] {
			switch cur := obj[k].(type) {
			case model.FormPayload:
				obj = cur
			case string:
				if cur != "" {
					// an existing leaf wins over a deeper path
					dropped = true
				} else {
					next := model.FormPayload{}
					obj[k] = next
					obj = next
				}
			default:
				next := model.FormPayload{}
				obj[k] = next
				obj = next
			}
			if dropped {
				break
			}
		}
		if dropped {
			continue
		}
		obj[keys[len(keys)-1]] = p.Value
	}
	return out
}

// Flatten is the inverse of ToObject; pairs come back sorted by name.
func Flatten(p model.FormPayload) []Pair {
	var out []Pair
	var walk func(prefix string, m model.FormPayload)
	walk = func(prefix string, m model.FormPayload) {
		for k, v := range m {
			name := k
			if prefix != "" {
				name = prefix + "[" + k + "]"
			}
			switch t := v.(type) {
			case model.FormPayload:
				walk(name, t)
			case string:
				out = append(out, Pair{Name: name, Value: t})
			}
		}
	}
	walk("", p)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PairsFromValues converts url.Values to pairs with keys sorted for determinism.
func PairsFromValues(v url.Values) []Pair {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []Pair
	for _, k := range keys {
		for _, val := range v[k] {
			out = append(out, Pair{Name: k, Value: val})
		}
	}
	return out
}
