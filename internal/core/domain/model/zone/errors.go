package zone

import (
	"errors"
	"fmt"
	"strings"

	"mealorder/internal/core/domain/model/kernel"
)

var (
	ErrNotServiceable       = errors.New("postal code is not serviceable")
	ErrPrefixAlreadyClaimed = errors.New("prefix is already claimed by an active zone")
)

// NotServiceableError lists nearby prefixes that are served, if any.
type NotServiceableError struct {
	PostalCode  string
	Prefix      string
	Suggestions []string
}

func (e *NotServiceableError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%s: %s", ErrNotServiceable, e.PostalCode)
	}
	return fmt.Sprintf("%s: %s (nearby: %s)", ErrNotServiceable, e.PostalCode, strings.Join(e.Suggestions, ", "))
}

func (e *NotServiceableError) Unwrap() error {
	return ErrNotServiceable
}

type PrefixConflictError struct {
	Prefix      string
	OwnerZoneID kernel.UUID
}

func (e *PrefixConflictError) Error() string {
	return fmt.Sprintf("%s: %s (zone %s)", ErrPrefixAlreadyClaimed, e.Prefix, e.OwnerZoneID)
}

func (e *PrefixConflictError) Unwrap() error {
	return ErrPrefixAlreadyClaimed
}
