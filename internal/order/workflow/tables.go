package workflow

import (
	"order-gateway/internal/order/models"
)

// Notification template ids handed to the dispatcher collaborator. The
// engine only ever names them; rendering and delivery live elsewhere.
const (
	NotifyActivated     = "order-activated"
	NotifyRejected      = "order-rejected"
	NotifyDocsRequest   = "order-docs-request"
	NotifyCancelled     = "order-cancelled"
	NotifyNotAcquirable = "order-not-acquirable"
	NotifyTicketUpdate  = "order-ticket-update"
)

// tables holds every registered transition table. Read-only after init.
var tables = map[TableID]Table{
	// Simple offer categories share the plain activate/hold/reject
	// lifecycle.
	TableGeneric: {
		ID: TableGeneric,
		Rules: []Rule{
			{From: []models.State{models.StateOpen}, To: models.StateProcessing},
			{From: []models.State{models.StateProcessing}, To: models.StateActivated, Notification: NotifyActivated},
			{From: []models.State{models.StateProcessing}, To: models.StateOnHold, RequiresNote: true},
			{From: []models.State{models.StateProcessing, models.StateOnHold}, To: models.StateRejected, RequiresNote: true, Notification: NotifyRejected},
			{From: []models.State{models.StateOnHold}, To: models.StateProcessing},
		},
	},

	// SIM activations can park on the dealer for missing documents. The
	// detour into AWAITING_INTEGRATION requires a note here; the energy
	// tables deliberately do not (see the electricity table below).
	TableMobile: {
		ID: TableMobile,
		Rules: []Rule{
			{From: []models.State{models.StateOpen}, To: models.StateProcessing},
			{From: []models.State{models.StateProcessing}, To: models.StateActivated, Notification: NotifyActivated},
			{From: []models.State{models.StateProcessing}, To: models.StateOnHold, RequiresNote: true},
			{From: []models.State{models.StateProcessing}, To: models.StateAwaitingIntegration, RequiresNote: true, Notification: NotifyDocsRequest},
			{From: []models.State{models.StateAwaitingIntegration}, To: models.StateAwaitingIntegration, RequiresNote: true, Notification: NotifyDocsRequest},
			{From: []models.State{models.StateAwaitingIntegration, models.StateOnHold}, To: models.StateProcessing},
			{From: []models.State{models.StateProcessing, models.StateOnHold, models.StateAwaitingIntegration}, To: models.StateRejected, RequiresNote: true, Notification: NotifyRejected},
		},
	},

	// Fiber/landline activations route provisioning failures through a
	// ticket and line-reset flow.
	TableFiber: {
		ID: TableFiber,
		Rules: []Rule{
			{From: []models.State{models.StateOpen}, To: models.StateProcessing},
			{From: []models.State{models.StateProcessing}, To: models.StateActivated, Notification: NotifyActivated},
			{From: []models.State{models.StateProcessing}, To: models.StateTicketOpen, RequiresNote: true, Notification: NotifyTicketUpdate},
			{From: []models.State{models.StateTicketOpen}, To: models.StateTicketOpen, RequiresNote: true},
			{From: []models.State{models.StateTicketOpen}, To: models.StateResetInProgress},
			{From: []models.State{models.StateTicketOpen}, To: models.StateProcessing},
			{From: []models.State{models.StateResetInProgress}, To: models.StateResetInProgress},
			{From: []models.State{models.StateResetInProgress}, To: models.StateResetExecuted, Notification: NotifyTicketUpdate},
			{From: []models.State{models.StateProcessing, models.StateTicketOpen}, To: models.StateRejected, RequiresNote: true, Notification: NotifyRejected},
		},
	},

	// Electricity supply switches. Note the AWAITING_INTEGRATION rules do
	// not require a note, unlike the structurally identical rules in the
	// mobile table; the back office relies on this observed behavior, so it
	// is preserved rather than normalized.
	TableElectricity: {
		ID: TableElectricity,
		Rules: []Rule{
			{From: []models.State{models.StateOpen}, To: models.StateProcessing},
			{From: []models.State{models.StateProcessing}, To: models.StateActivated, Notification: NotifyActivated},
			{From: []models.State{models.StateProcessing}, To: models.StateAwaitingIntegration, Notification: NotifyDocsRequest},
			{From: []models.State{models.StateAwaitingIntegration}, To: models.StateAwaitingIntegration, Notification: NotifyDocsRequest},
			{From: []models.State{models.StateAwaitingIntegration}, To: models.StateProcessing},
			{From: []models.State{models.StateProcessing, models.StateAwaitingIntegration}, To: models.StateClientNotAcquirable, RequiresNote: true, Notification: NotifyNotAcquirable},
			{From: []models.State{models.StateProcessing}, To: models.StateRejected, RequiresNote: true, Notification: NotifyRejected},
		},
	},

	// Gas supply switches mirror electricity but cannot bounce back out of
	// AWAITING_INTEGRATION into PROCESSING; the distributor answer is final.
	TableGas: {
		ID: TableGas,
		Rules: []Rule{
			{From: []models.State{models.StateOpen}, To: models.StateProcessing},
			{From: []models.State{models.StateProcessing}, To: models.StateActivated, Notification: NotifyActivated},
			{From: []models.State{models.StateProcessing}, To: models.StateAwaitingIntegration, Notification: NotifyDocsRequest},
			{From: []models.State{models.StateAwaitingIntegration}, To: models.StateAwaitingIntegration, Notification: NotifyDocsRequest},
			{From: []models.State{models.StateAwaitingIntegration}, To: models.StateActivated, Notification: NotifyActivated},
			{From: []models.State{models.StateProcessing, models.StateAwaitingIntegration}, To: models.StateClientNotAcquirable, RequiresNote: true, Notification: NotifyNotAcquirable},
			{From: []models.State{models.StateProcessing}, To: models.StateRejected, RequiresNote: true, Notification: NotifyRejected},
		},
	},
}

// TableByID resolves a registered transition table.
func TableByID(id TableID) (Table, bool) {
	t, ok := tables[id]
	return t, ok
}

// TableIDs lists the registered table ids; template loaders use it to
// validate referential integrity at boot.
func TableIDs() []TableID {
	out := make([]TableID, 0, len(tables))
	for id := range tables {
		out = append(out, id)
	}
	return out
}
