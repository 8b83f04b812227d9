// Package template holds the activation template registry: which dynamic
// fields and document slots an offer category requires, and which transition
// table governs orders created under it. The registry is built once at boot
// and never mutated, so concurrent readers need no locking.
package template

import (
	"strings"

	"order-gateway/internal/order/workflow"
	id "order-gateway/pkg/domain"
)

// FieldType is the declared input type of a dynamic field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldDate     FieldType = "date"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
)

// FieldDescriptor declares one dynamic form field. Keys are case-sensitive
// as declared, but the validation engine reconciles submitted names
// case-insensitively because upstream forms do not preserve casing.
type FieldDescriptor struct {
	Key      string    `yaml:"key" json:"key"`
	Label    string    `yaml:"label" json:"label"`
	Type     FieldType `yaml:"type" json:"type"`
	Required bool      `yaml:"required" json:"required"`
	Options  []string  `yaml:"options,omitempty" json:"options,omitempty"`
}

// DocumentSlot declares one required or optional file attachment.
type DocumentSlot struct {
	Key               string   `yaml:"key" json:"key"`
	Label             string   `yaml:"label" json:"label"`
	Required          bool     `yaml:"required" json:"required"`
	AcceptedMimeTypes []string `yaml:"accepted_mime_types,omitempty" json:"accepted_mime_types,omitempty"`
}

// Definition is one activation template. Immutable at runtime.
type Definition struct {
	ID         id.TemplateID     `yaml:"id" json:"id"`
	Title      string            `yaml:"title" json:"title"`
	OperatorID id.OperatorID     `yaml:"operator_id" json:"operator_id"`
	Fields     []FieldDescriptor `yaml:"fields" json:"fields"`
	Documents  []DocumentSlot    `yaml:"documents" json:"documents"`
	Table      workflow.TableID  `yaml:"table" json:"table"`
}

// Field resolves a descriptor by submitted key, case-insensitively. The
// returned key is the declared (case-sensitive) one.
func (d Definition) Field(submitted string) (FieldDescriptor, bool) {
	for _, f := range d.Fields {
		if strings.EqualFold(f.Key, submitted) {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Document resolves a document slot by key, case-insensitively; slots and
// fields arrive from the same forms.
func (d Definition) Document(submitted string) (DocumentSlot, bool) {
	for _, s := range d.Documents {
		if strings.EqualFold(s.Key, submitted) {
			return s, true
		}
	}
	return DocumentSlot{}, false
}
