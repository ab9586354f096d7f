package zone

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"mealorder/internal/pkg/errs"
)

const PrefixLength = 3

// DefaultPostalCodePattern matches a normalized Canadian postal code, e.g. "V6B1A1".
var DefaultPostalCodePattern = regexp.MustCompile(`^[A-Z][0-9][A-Z][0-9][A-Z][0-9]$`)

var prefixPattern = regexp.MustCompile(`^[A-Z][0-9][A-Z]$`)

type PostalCode struct {
	value string
}

// NormalizePostalCode strips all whitespace and upper-cases the rest.
func NormalizePostalCode(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// ParsePostalCode normalizes raw and checks it against pattern
// (DefaultPostalCodePattern when nil).
func ParsePostalCode(raw string, pattern *regexp.Regexp) (PostalCode, error) {
	if pattern == nil {
		pattern = DefaultPostalCodePattern
	}

	normalized := NormalizePostalCode(raw)
	if normalized == "" {
		return PostalCode{}, errs.NewValueIsRequiredError("postalCode")
	}
	if !pattern.MatchString(normalized) || len(normalized) < PrefixLength {
		return PostalCode{}, errs.NewValueIsInvalidErrorWithCause(
			"postalCode",
			fmt.Errorf("%q does not match %s", normalized, pattern.String()),
		)
	}
	return PostalCode{value: normalized}, nil
}

func (p PostalCode) String() string {
	return p.value
}

func (p PostalCode) Prefix() string {
	return p.value[:PrefixLength]
}

// Formatted renders the code with the conventional space, e.g. "V6B 1A1".
func (p PostalCode) Formatted() string {
	if len(p.value) != 6 {
		return p.value
	}
	return p.value[:3] + " " + p.value[3:]
}

func (p PostalCode) IsZero() bool {
	return p.value == ""
}

func validatePrefix(prefix string) error {
	if !prefixPattern.MatchString(prefix) {
		return errs.NewValueIsInvalidErrorWithCause("prefix", fmt.Errorf("%q is not a forward sortation area", prefix))
	}
	return nil
}
