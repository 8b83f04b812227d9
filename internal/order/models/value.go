package models

import "time"

// ValueKind tags the closed variant of a normalized field value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindBool
	KindDate
)

// Value is a normalized field value. Submitted field maps are untyped
// string bags; the validation engine converts each entry to a Value using
// the template's declared field type. The variant is closed on purpose:
// anything else in a submission is a template authoring error.
type Value struct {
	Kind ValueKind `json:"kind"`
	Str  string    `json:"str,omitempty"`
	Bool bool      `json:"bool,omitempty"`
	Date time.Time `json:"date,omitempty"`
}

func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func DateValue(t time.Time) Value { return Value{Kind: KindDate, Date: t} }

// Display renders the value for denormalized views and audit payloads.
func (v Value) Display() string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindDate:
		return v.Date.Format("2006-01-02")
	default:
		return v.Str
	}
}
