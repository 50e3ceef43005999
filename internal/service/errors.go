package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced entity is absent, tombstoned
// when a live one was required, or outside the caller's tenant in contexts
// where revealing more would leak cross-tenant information.
var ErrNotFound = errors.New("not found")

// TenantIsolationError reports an attempted cross-tenant reference. It is
// always fatal to the operation and never silently corrected. The message
// names only the entity kind, never the foreign tenant's data.
type TenantIsolationError struct {
	Entity string
}

func (e *TenantIsolationError) Error() string {
	return fmt.Sprintf("tenant isolation violation: %s belongs to a different gym", e.Entity)
}

// BusinessRuleError reports a recoverable rule violation, carrying the rule
// name and the blocking row so callers can present an actionable message.
type BusinessRuleError struct {
	Rule       string
	Detail     string
	BlockingID uint
}

func (e *BusinessRuleError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("business rule violated (%s): %s", e.Rule, e.Detail)
	}
	return fmt.Sprintf("business rule violated (%s)", e.Rule)
}

// DuplicateIdentityError reports a phone/email collision. RestorableID is
// non-zero when the colliding row is tombstoned, so the caller can offer a
// restore instead of a hard failure.
type DuplicateIdentityError struct {
	Field        string
	RestorableID uint
}

func (e *DuplicateIdentityError) Error() string {
	if e.RestorableID != 0 {
		return fmt.Sprintf("duplicate %s belongs to a deleted member (id %d) that can be restored", e.Field, e.RestorableID)
	}
	return fmt.Sprintf("duplicate %s already in use by a live member", e.Field)
}

// InvalidEnumError reports a value outside an enumerated column's value set.
// Rejected before any write, never coerced.
type InvalidEnumError struct {
	Field string
	Value string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid value %q for %s", e.Value, e.Field)
}

// InvalidTransitionError reports a disallowed status transition.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s status transition %s -> %s", e.Entity, e.From, e.To)
}
