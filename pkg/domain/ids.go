// Package domain defines the typed identifiers shared across the order
// workflow engine. Distinct UUID-backed types keep order, template, and
// operator identifiers from being swapped at call sites; the compiler
// enforces the distinction.
package domain

import (
	"github.com/google/uuid"

	dErrors "order-gateway/pkg/domain-errors"
)

// OrderID identifies a single activation order.
type OrderID uuid.UUID

// OperatorID identifies the telecom/energy operator an offer belongs to.
type OperatorID uuid.UUID

// TemplateID is the stable code of an activation template. Unlike the UUID
// identifiers it is a canonical string (e.g. "mobile-sim") because templates
// are declared in configuration, not minted at runtime.
type TemplateID string

func (id OrderID) String() string    { return uuid.UUID(id).String() }
func (id OperatorID) String() string { return uuid.UUID(id).String() }
func (id TemplateID) String() string { return string(id) }

// IsZero reports whether the ID is the nil UUID.
func (id OrderID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id OperatorID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// NewOrderID mints a fresh order identifier.
func NewOrderID() OrderID { return OrderID(uuid.New()) }

// ParseOrderID parses and validates an order ID from its string form.
// IDs must be valid, non-empty, non-nil UUIDs.
func ParseOrderID(s string) (OrderID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return OrderID{}, err
	}
	return OrderID(u), nil
}

// ParseOperatorID parses and validates an operator ID from its string form.
func ParseOperatorID(s string) (OperatorID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return OperatorID{}, err
	}
	return OperatorID(u), nil
}

// Text marshalling so the UUID-backed types serialize as canonical strings
// in JSON payloads and the YAML template catalog.

func (id OrderID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *OrderID) UnmarshalText(b []byte) error {
	parsed, err := ParseOrderID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id OperatorID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *OperatorID) UnmarshalText(b []byte) error {
	parsed, err := ParseOperatorID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// UnmarshalYAML lets the template catalog loader read operator ids as plain
// strings (yaml.v3 does not consult encoding.TextUnmarshaler).
func (id *OperatorID) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return id.UnmarshalText([]byte(s))
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}
