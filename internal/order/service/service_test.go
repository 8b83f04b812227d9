package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"order-gateway/internal/notification"
	"order-gateway/internal/order/models"
	"order-gateway/internal/order/store"
	"order-gateway/internal/order/workflow"
	"order-gateway/internal/template"
	id "order-gateway/pkg/domain"
	dErrors "order-gateway/pkg/domain-errors"
	"order-gateway/pkg/platform/audit"
	auditmemory "order-gateway/pkg/platform/audit/store/memory"
	"order-gateway/pkg/testutil"
)

// =============================================================================
// Order Service Test Suite
// =============================================================================

type ServiceSuite struct {
	suite.Suite
	service    *Service
	store      *store.Memory
	audit      *auditmemory.Store
	dispatcher *notification.Memory
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	registry, err := template.Default()
	s.Require().NoError(err)

	s.store = store.NewMemory()
	s.audit = auditmemory.New()
	s.dispatcher = notification.NewMemory()

	s.service = New(registry, s.store,
		WithAuditPublisher(s.audit),
		WithDispatcher(s.dispatcher),
	)
}

func (s *ServiceSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *ServiceSuite) validMobileSubmission() (map[string]string, map[string]models.FileRef) {
	fields := map[string]string{
		"first_name":            "Mario",
		"last_name":             "Rossi",
		"fiscal_code":           "RSSMRA80A01H501U",
		"mobile_number":         "3331234567",
		"birth_date":            "1980-01-01",
		"document_type":         "identity-card",
		"document_release_date": "2020-03-10",
	}
	documents := map[string]models.FileRef{
		"identity_document": {Key: "doc-1", MimeType: "application/pdf"},
		"signed_contract":   {Key: "doc-2", MimeType: "application/pdf"},
	}
	return fields, documents
}

func (s *ServiceSuite) submitMobileOrder() *models.Order {
	fields, documents := s.validMobileSubmission()
	order, err := s.service.Submit(testutil.Ctx(), "mobile-sim", fields, documents)
	s.Require().NoError(err)
	return order
}

// =============================================================================
// Submission
// =============================================================================

func (s *ServiceSuite) TestSubmit() {
	s.Run("valid submission creates an open order", func() {
		order := s.submitMobileOrder()

		s.False(order.ID.IsZero())
		s.Equal(models.StateOpen, order.State)
		s.Equal(id.TemplateID("mobile-sim"), order.TemplateID)
		s.Equal(testutil.FixedClock, order.CreatedAt)
		s.Empty(order.History)

		persisted, err := s.service.Get(testutil.Ctx(), order.ID)
		s.Require().NoError(err)
		s.Equal(order.ID, persisted.ID)
	})

	s.Run("denormalizes offer title and operator from the template", func() {
		order := s.submitMobileOrder()

		s.NotEmpty(order.OfferTitle)
		s.False(order.OperatorID.IsZero())
	})

	s.Run("rejected submission persists nothing", func() {
		fields, documents := s.validMobileSubmission()
		fields["fiscal_code"] = "NOTVALID"

		_, err := s.service.Submit(testutil.Ctx(), "mobile-sim", fields, documents)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		orders, err := s.service.List(testutil.Ctx(), store.ListFilter{})
		s.Require().NoError(err)
		s.Empty(orders)
	})

	s.Run("unknown template is not found", func() {
		_, err := s.service.Submit(testutil.Ctx(), "satellite-tv", nil, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("submission is audited", func() {
		order := s.submitMobileOrder()

		events := s.audit.ByAction(audit.ActionOrderSubmitted)
		s.Require().Len(events, 1)
		s.Equal(order.ID, events[0].OrderID)
		s.Equal("test-operator", events[0].Actor)
		s.Equal("test-request", events[0].RequestID)
	})
}

// =============================================================================
// Transitions
// =============================================================================

func (s *ServiceSuite) TestTransition() {
	s.Run("legal transition advances state and appends history", func() {
		order := s.submitMobileOrder()

		updated, _, err := s.service.Transition(testutil.Ctx(), order.ID, models.StateProcessing, "")
		s.Require().NoError(err)
		s.Equal(models.StateProcessing, updated.State)
		s.Equal(1, updated.Version)
		s.Require().Len(updated.History, 1)
		s.Equal("test-operator", updated.History[0].Actor)
		s.Equal(testutil.FixedClock, updated.History[0].At)
	})

	s.Run("illegal transition is rejected and audited", func() {
		order := s.submitMobileOrder()

		_, _, err := s.service.Transition(testutil.Ctx(), order.ID, models.StateActivated, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeIllegalTransition))

		events := s.audit.ByAction(audit.ActionTransitionRejected)
		s.Require().Len(events, 1)
		s.Equal(int(models.StateOpen), events[0].FromState)
		s.Equal(int(models.StateActivated), events[0].ToState)
		s.NotEmpty(events[0].Reason)

		fresh, err := s.service.Get(testutil.Ctx(), order.ID)
		s.Require().NoError(err)
		s.Equal(models.StateOpen, fresh.State)
	})

	s.Run("note-requiring transition without a note is rejected", func() {
		order := s.submitMobileOrder()
		_, _, err := s.service.Transition(testutil.Ctx(), order.ID, models.StateProcessing, "")
		s.Require().NoError(err)

		_, _, err = s.service.Transition(testutil.Ctx(), order.ID, models.StateOnHold, "")
		s.True(dErrors.HasCode(err, dErrors.CodeNoteRequired))

		_, _, err = s.service.Transition(testutil.Ctx(), order.ID, models.StateOnHold, "missing document scan")
		s.NoError(err)
	})

	s.Run("unknown order is not found", func() {
		_, _, err := s.service.Transition(testutil.Ctx(), id.NewOrderID(), models.StateProcessing, "")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("terminal order cannot move again", func() {
		order := s.submitMobileOrder()

		_, _, err := s.service.Transition(testutil.Ctx(), order.ID, models.StateCancelled, "customer withdrew")
		s.Require().NoError(err)

		_, _, err = s.service.Transition(testutil.Ctx(), order.ID, models.StateProcessing, "")
		s.True(dErrors.HasCode(err, dErrors.CodeIllegalTransition))
	})
}

// =============================================================================
// Notifications
// =============================================================================

func (s *ServiceSuite) TestNotifications() {
	s.Run("cancellation dispatches the cancellation notification", func() {
		order := s.submitMobileOrder()

		_, notified, err := s.service.Transition(testutil.Ctx(), order.ID, models.StateCancelled, "customer withdrew")
		s.Require().NoError(err)
		s.Equal(workflow.NotifyCancelled, notified)

		requests := s.dispatcher.Requests()
		s.Require().Len(requests, 1)
		s.Equal(workflow.NotifyCancelled, requests[0].TemplateID)
		s.Equal(order.ID, requests[0].OrderID)
		s.Equal(notification.RecipientCustomer, requests[0].Recipient)
		s.Equal("customer withdrew", requests[0].Context["note"])

		queued := s.audit.ByAction(audit.ActionNotificationQueued)
		s.Require().Len(queued, 1)
		s.Equal(workflow.NotifyCancelled, queued[0].Reason)
	})

	s.Run("silent transitions dispatch nothing", func() {
		order := s.submitMobileOrder()
		before := len(s.dispatcher.Requests())

		_, _, err := s.service.Transition(testutil.Ctx(), order.ID, models.StateProcessing, "")
		s.Require().NoError(err)
		s.Len(s.dispatcher.Requests(), before)
	})

	s.Run("ticket updates address the dealer, not the customer", func() {
		fields := map[string]string{
			"first_name":           "Mario",
			"last_name":            "Rossi",
			"fiscal_code":          "RSSMRA80A01H501U",
			"installation_address": "Via Roma 1, Milano",
			"mobile_number":        "3331234567",
		}
		documents := map[string]models.FileRef{
			"identity_document": {Key: "doc-1", MimeType: "application/pdf"},
			"signed_contract":   {Key: "doc-2", MimeType: "application/pdf"},
		}
		order, err := s.service.Submit(testutil.Ctx(), "landline-fiber", fields, documents)
		s.Require().NoError(err)

		before := len(s.dispatcher.Requests())
		_, _, err = s.service.Transition(testutil.Ctx(), order.ID, models.StateProcessing, "")
		s.Require().NoError(err)
		_, notified, err := s.service.Transition(testutil.Ctx(), order.ID, models.StateTicketOpen, "provisioning failed at cabinet")
		s.Require().NoError(err)
		s.Equal(workflow.NotifyTicketUpdate, notified)

		requests := s.dispatcher.Requests()
		s.Require().Len(requests, before+1)
		s.Equal(notification.RecipientDealer, requests[before].Recipient)
	})

	s.Run("activation dispatches after the state is persisted", func() {
		order := s.submitMobileOrder()
		before := len(s.dispatcher.Requests())

		_, _, err := s.service.Transition(testutil.Ctx(), order.ID, models.StateProcessing, "")
		s.Require().NoError(err)
		updated, _, err := s.service.Transition(testutil.Ctx(), order.ID, models.StateActivated, "")
		s.Require().NoError(err)
		s.Equal(models.StateActivated, updated.State)

		requests := s.dispatcher.Requests()
		s.Require().Len(requests, before+1)
		s.Equal(workflow.NotifyActivated, requests[before].TemplateID)
	})
}

// =============================================================================
// Listing
// =============================================================================

func (s *ServiceSuite) TestList() {
	mobile := s.submitMobileOrder()

	_, _, err := s.service.Transition(testutil.Ctx(), mobile.ID, models.StateProcessing, "")
	s.Require().NoError(err)

	state := models.StateProcessing
	orders, err := s.service.List(testutil.Ctx(), store.ListFilter{State: &state})
	s.Require().NoError(err)
	s.Require().Len(orders, 1)
	s.Equal(mobile.ID, orders[0].ID)
}
