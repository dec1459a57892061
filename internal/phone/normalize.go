// Package phone converts locale-ambiguous phone input into +<dialcode><digits>.
package phone

import (
	"strings"

	"github.com/and161185/shop-account/internal/errs"
	"github.com/and161185/shop-account/internal/model"
)

func digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize returns the canonical form of raw for the selected dial code.
// Numbers already in E.164 for a different country are not detected;
// the selected country is trusted.
func Normalize(raw, dialCode string) (string, error) {
	code := digits(dialCode)
	if code == "" {
		return "", errs.ErrInvalidDialCode
	}
	raw = strings.TrimLeft(raw, " \t")
	if raw == "" {
		return "", nil
	}
	switch {
	case strings.HasPrefix(raw, "+"+code):
		return "+" + digits(raw), nil
	case raw[0] == '0':
		d := digits(raw)
		return "+" + code + d[1:], nil
	default:
		return "+" + code + digits(raw), nil
	}
}

// NormalizeRecord is Normalize over a PhoneRecord.
func NormalizeRecord(r model.PhoneRecord) (string, error) {
	return Normalize(r.Raw, r.DialCode)
}
