package template

import (
	"github.com/google/uuid"

	"order-gateway/internal/order/workflow"
	id "order-gateway/pkg/domain"
)

// Stable operator identifiers for the built-in catalog. Deployments that
// manage operators elsewhere replace the catalog via TEMPLATE_FILE.
var (
	operatorTelcoPrime = id.OperatorID(uuid.MustParse("6f1c2a58-9d34-4b7a-8a14-3d2f5be70001"))
	operatorFiberNet   = id.OperatorID(uuid.MustParse("6f1c2a58-9d34-4b7a-8a14-3d2f5be70002"))
	operatorVoltEnergy = id.OperatorID(uuid.MustParse("6f1c2a58-9d34-4b7a-8a14-3d2f5be70003"))
)

var identityDocumentTypes = []string{"identity-card", "passport", "driving-license"}

// Catalog returns the built-in activation templates so the process boots
// without an external template source.
func Catalog() []Definition {
	return []Definition{
		{
			ID:         "mobile-sim",
			Title:      "Mobile SIM activation",
			OperatorID: operatorTelcoPrime,
			Table:      workflow.TableMobile,
			Fields: []FieldDescriptor{
				{Key: "first_name", Label: "First name", Type: FieldText, Required: true},
				{Key: "last_name", Label: "Last name", Type: FieldText, Required: true},
				{Key: "fiscal_code", Label: "Fiscal code", Type: FieldText, Required: true},
				{Key: "mobile_number", Label: "Mobile number", Type: FieldText, Required: true},
				{Key: "birth_date", Label: "Birth date", Type: FieldDate, Required: true},
				{Key: "document_type", Label: "Document type", Type: FieldSelect, Required: true, Options: identityDocumentTypes},
				{Key: "document_release_date", Label: "Document release date", Type: FieldDate, Required: true},
				{Key: "portability", Label: "Number portability", Type: FieldCheckbox, Required: false},
				{Key: "iban", Label: "IBAN", Type: FieldText, Required: false},
			},
			Documents: []DocumentSlot{
				{Key: "identity_document", Label: "Identity document", Required: true, AcceptedMimeTypes: []string{"image/jpeg", "image/png", "application/pdf"}},
				{Key: "signed_contract", Label: "Signed contract", Required: true, AcceptedMimeTypes: []string{"application/pdf"}},
			},
		},
		{
			ID:         "prepaid-sim",
			Title:      "Prepaid SIM activation",
			OperatorID: operatorTelcoPrime,
			Table:      workflow.TableGeneric,
			Fields: []FieldDescriptor{
				{Key: "first_name", Label: "First name", Type: FieldText, Required: true},
				{Key: "last_name", Label: "Last name", Type: FieldText, Required: true},
				{Key: "fiscal_code", Label: "Fiscal code", Type: FieldText, Required: true},
				{Key: "mobile_number", Label: "Mobile number", Type: FieldText, Required: false},
			},
			Documents: []DocumentSlot{
				{Key: "identity_document", Label: "Identity document", Required: true, AcceptedMimeTypes: []string{"image/jpeg", "image/png", "application/pdf"}},
			},
		},
		{
			ID:         "landline-fiber",
			Title:      "Fiber landline activation",
			OperatorID: operatorFiberNet,
			Table:      workflow.TableFiber,
			Fields: []FieldDescriptor{
				{Key: "first_name", Label: "First name", Type: FieldText, Required: true},
				{Key: "last_name", Label: "Last name", Type: FieldText, Required: true},
				{Key: "fiscal_code", Label: "Fiscal code", Type: FieldText, Required: true},
				{Key: "installation_address", Label: "Installation address", Type: FieldText, Required: true},
				{Key: "migration_code", Label: "Migration code", Type: FieldText, Required: false},
				{Key: "mobile_number", Label: "Contact mobile number", Type: FieldText, Required: true},
			},
			Documents: []DocumentSlot{
				{Key: "identity_document", Label: "Identity document", Required: true, AcceptedMimeTypes: []string{"image/jpeg", "image/png", "application/pdf"}},
				{Key: "signed_contract", Label: "Signed contract", Required: true, AcceptedMimeTypes: []string{"application/pdf"}},
			},
		},
		{
			ID:         "energy-electricity",
			Title:      "Electricity supply switch",
			OperatorID: operatorVoltEnergy,
			Table:      workflow.TableElectricity,
			Fields: []FieldDescriptor{
				{Key: "first_name", Label: "First name", Type: FieldText, Required: true},
				{Key: "last_name", Label: "Last name", Type: FieldText, Required: true},
				{Key: "fiscal_code", Label: "Fiscal code", Type: FieldText, Required: true},
				{Key: "pod", Label: "POD", Type: FieldText, Required: true},
				{Key: "iban", Label: "IBAN", Type: FieldText, Required: true},
				{Key: "resident", Label: "Supply at residence", Type: FieldCheckbox, Required: false},
			},
			Documents: []DocumentSlot{
				{Key: "identity_document", Label: "Identity document", Required: true, AcceptedMimeTypes: []string{"image/jpeg", "image/png", "application/pdf"}},
				{Key: "recent_bill", Label: "Recent bill", Required: true, AcceptedMimeTypes: []string{"application/pdf"}},
			},
		},
		{
			ID:         "energy-gas",
			Title:      "Gas supply switch",
			OperatorID: operatorVoltEnergy,
			Table:      workflow.TableGas,
			Fields: []FieldDescriptor{
				{Key: "first_name", Label: "First name", Type: FieldText, Required: true},
				{Key: "last_name", Label: "Last name", Type: FieldText, Required: true},
				{Key: "fiscal_code", Label: "Fiscal code", Type: FieldText, Required: true},
				{Key: "pdr", Label: "PDR", Type: FieldText, Required: true},
				{Key: "iban", Label: "IBAN", Type: FieldText, Required: true},
			},
			Documents: []DocumentSlot{
				{Key: "identity_document", Label: "Identity document", Required: true, AcceptedMimeTypes: []string{"image/jpeg", "image/png", "application/pdf"}},
				{Key: "recent_bill", Label: "Recent bill", Required: false, AcceptedMimeTypes: []string{"application/pdf"}},
			},
		},
	}
}
