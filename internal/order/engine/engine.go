// Package engine implements submission validation: given a template and the
// raw field/document bags a dealer submitted, it either produces the
// normalized field map an Order is built from, or the full ordered list of
// field errors. It is a pure function over its inputs plus the read-only
// template registry; the request clock arrives through the context so two
// identical calls produce identical results.
package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"order-gateway/internal/order/models"
	"order-gateway/internal/template"
	"order-gateway/internal/validation"
	id "order-gateway/pkg/domain"
	dErrors "order-gateway/pkg/domain-errors"
	"order-gateway/pkg/requestcontext"
)

const dateLayout = "2006-01-02"

// Engine validates submissions against the template registry.
type Engine struct {
	registry *template.Registry
}

func New(registry *template.Registry) *Engine {
	return &Engine{registry: registry}
}

// ValidateSubmission validates and normalizes a raw submission. All field
// and document failures are aggregated; the only fail-fast case is an
// unknown template. Submitted keys are matched case-insensitively against
// the template's declared descriptors; undeclared keys are ignored.
func (e *Engine) ValidateSubmission(
	ctx context.Context,
	templateID id.TemplateID,
	rawFields map[string]string,
	documents map[string]models.FileRef,
) (map[string]models.Value, error) {
	def, err := e.registry.Get(templateID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var errs []dErrors.FieldError
	normalized := make(map[string]models.Value, len(def.Fields))

	for _, field := range def.Fields {
		raw, _ := lookupFold(rawFields, field.Key)
		raw = strings.TrimSpace(raw)

		if raw == "" {
			if field.Required {
				errs = append(errs, dErrors.FieldError{
					Field:   field.Key,
					Message: field.Label + " is required",
				})
			}
			continue
		}

		if msg := businessValidator(field.Key, raw); msg != "" {
			errs = append(errs, dErrors.FieldError{Field: field.Key, Message: msg})
			continue
		}

		value, msg := normalize(field, raw)
		if msg != "" {
			errs = append(errs, dErrors.FieldError{Field: field.Key, Message: msg})
			continue
		}
		normalized[field.Key] = value
	}

	if msg := checkDocumentValidity(def, normalized, now); msg != "" {
		errs = append(errs, dErrors.FieldError{Field: "document_release_date", Message: msg})
	}

	for _, slot := range def.Documents {
		ref, ok := lookupFold(documents, slot.Key)
		if !ok {
			if slot.Required {
				errs = append(errs, dErrors.FieldError{
					Field:   slot.Key,
					Message: slot.Label + " attachment is required",
				})
			}
			continue
		}
		if len(slot.AcceptedMimeTypes) > 0 && ref.MimeType != "" && !slices.Contains(slot.AcceptedMimeTypes, ref.MimeType) {
			errs = append(errs, dErrors.FieldError{
				Field:   slot.Key,
				Message: fmt.Sprintf("%s must be one of: %s", slot.Label, strings.Join(slot.AcceptedMimeTypes, ", ")),
			})
		}
	}

	if len(errs) > 0 {
		return nil, dErrors.NewValidation(errs)
	}
	return normalized, nil
}

// businessValidator dispatches a field validator by normalized key. The
// dispatch is by field name, not declared type: templates reuse these keys
// across categories and the portal relies on the shared semantics.
func businessValidator(key, raw string) string {
	var err error
	switch strings.ToLower(key) {
	case "fiscal_code":
		err = validation.FiscalCode(raw)
	case "iban":
		err = validation.IBAN(raw)
	case "pod":
		err = validation.POD(raw)
	case "pdr":
		err = validation.PDR(raw)
	case "mobile_number":
		err = validation.Mobile(raw)
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// checkDocumentValidity runs the release-date window check once the three
// involved fields are individually well-formed.
func checkDocumentValidity(def template.Definition, normalized map[string]models.Value, now time.Time) string {
	release, ok := dateField(normalized, "document_release_date")
	if !ok {
		return ""
	}
	birth, ok := dateField(normalized, "birth_date")
	if !ok {
		return ""
	}
	docType, ok := normalized[declaredKey(def, "document_type")]
	if !ok {
		return ""
	}
	if err := validation.DocumentReleaseDate(release, validation.DocumentType(docType.Str), birth, now); err != nil {
		return err.Error()
	}
	return ""
}

func normalize(field template.FieldDescriptor, raw string) (models.Value, string) {
	switch field.Type {
	case template.FieldDate:
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return models.Value{}, field.Label + " must be a date in YYYY-MM-DD format"
		}
		return models.DateValue(t), ""
	case template.FieldCheckbox:
		return models.BoolValue(parseCheckbox(raw)), ""
	case template.FieldSelect:
		if len(field.Options) > 0 && !slices.Contains(field.Options, raw) {
			return models.Value{}, fmt.Sprintf("%s must be one of: %s", field.Label, strings.Join(field.Options, ", "))
		}
		return models.StringValue(raw), ""
	default:
		return models.StringValue(normalizeText(field.Key, raw)), ""
	}
}

// normalizeText trims, collapses internal whitespace on name fields, and
// upper-cases the fiscal code.
func normalizeText(key, raw string) string {
	v := strings.TrimSpace(raw)
	switch strings.ToLower(key) {
	case "fiscal_code":
		return strings.ToUpper(v)
	case "first_name", "last_name":
		return strings.Join(strings.Fields(v), " ")
	default:
		return v
	}
}

// parseCheckbox accepts the common form encodings for a checked box.
func parseCheckbox(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "1", "yes":
		return true
	default:
		return false
	}
}

func dateField(normalized map[string]models.Value, key string) (time.Time, bool) {
	for k, v := range normalized {
		if strings.EqualFold(k, key) && v.Kind == models.KindDate {
			return v.Date, true
		}
	}
	return time.Time{}, false
}

func declaredKey(def template.Definition, submitted string) string {
	if f, ok := def.Field(submitted); ok {
		return f.Key
	}
	return submitted
}

// lookupFold resolves a descriptor key against a submitted bag
// case-insensitively. An exact match wins; otherwise the lexicographically
// smallest fold-equal key is chosen, so a bag carrying several case
// variants of one key resolves the same way on every call regardless of
// map iteration order.
func lookupFold[V any](m map[string]V, key string) (V, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	var match string
	found := false
	for k := range m {
		if strings.EqualFold(k, key) && (!found || k < match) {
			match = k
			found = true
		}
	}
	if !found {
		var zero V
		return zero, false
	}
	return m[match], true
}
