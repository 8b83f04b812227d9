package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"order-gateway/internal/order/models"
	dErrors "order-gateway/pkg/domain-errors"
)

// =============================================================================
// State Machine Test Suite
// =============================================================================
// Justification for unit tests: transition legality, mandatory notes, and
// notification side-effects are pure decisions over data tables; exercising
// every branch through HTTP would need a full order per case.

type MachineSuite struct {
	suite.Suite
	now time.Time
}

func TestMachineSuite(t *testing.T) {
	suite.Run(t, new(MachineSuite))
}

func (s *MachineSuite) SetupTest() {
	s.now = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
}

func (s *MachineSuite) table(id TableID) Table {
	t, ok := TableByID(id)
	s.Require().True(ok, "table %s must be registered", id)
	return t
}

func (s *MachineSuite) newOrder(state models.State) *models.Order {
	return &models.Order{State: state, TemplateID: "mobile-sim"}
}

func (s *MachineSuite) TestDecide() {
	generic := s.table(TableGeneric)

	s.Run("legal transition without note", func() {
		d, err := Decide(generic, models.StateOpen, models.StateProcessing, "")
		s.Require().NoError(err)
		s.Equal(models.StateProcessing, d.To)
		s.Empty(d.Notification)
	})

	s.Run("illegal transition", func() {
		_, err := Decide(generic, models.StateOpen, models.StateOnHold, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeIllegalTransition))
	})

	s.Run("unknown target state", func() {
		_, err := Decide(generic, models.StateOpen, models.State(99), "")
		s.True(dErrors.HasCode(err, dErrors.CodeIllegalTransition))
	})

	s.Run("note required and missing", func() {
		_, err := Decide(generic, models.StateProcessing, models.StateRejected, "  ")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNoteRequired))
	})

	s.Run("note required and present", func() {
		d, err := Decide(generic, models.StateProcessing, models.StateRejected, "missing signature")
		s.Require().NoError(err)
		s.Equal(models.StateRejected, d.To)
		s.Equal(NotifyRejected, d.Notification)
	})

	s.Run("activation carries its notification", func() {
		d, err := Decide(generic, models.StateProcessing, models.StateActivated, "")
		s.Require().NoError(err)
		s.Equal(NotifyActivated, d.Notification)
	})

	s.Run("terminal states have no outgoing transitions", func() {
		for _, terminal := range []models.State{models.StateActivated, models.StateRejected, models.StateCancelled} {
			_, err := Decide(generic, terminal, models.StateProcessing, "note")
			s.True(dErrors.HasCode(err, dErrors.CodeIllegalTransition), "from %s", terminal)
		}
	})
}

func (s *MachineSuite) TestCancelOverride() {
	generic := s.table(TableGeneric)

	s.Run("legal from any non-terminal state even when absent from the table", func() {
		for _, from := range []models.State{models.StateOpen, models.StateProcessing, models.StateOnHold} {
			d, err := Decide(generic, from, models.StateCancelled, "dealer withdrew")
			s.Require().NoError(err, "from %s", from)
			s.Equal(models.StateCancelled, d.To)
			s.Equal(NotifyCancelled, d.Notification)
		}
	})

	s.Run("always requires a note", func() {
		_, err := Decide(generic, models.StateOpen, models.StateCancelled, "")
		s.True(dErrors.HasCode(err, dErrors.CodeNoteRequired))
	})

	s.Run("illegal from terminal states", func() {
		_, err := Decide(generic, models.StateActivated, models.StateCancelled, "note")
		s.True(dErrors.HasCode(err, dErrors.CodeIllegalTransition))
	})

	s.Run("checked before the template table", func() {
		// No table declares a rule into CANCELLED; the override must still win.
		for _, id := range []TableID{TableGeneric, TableMobile, TableFiber, TableElectricity, TableGas} {
			d, err := Decide(s.table(id), models.StateProcessing, models.StateCancelled, "ops request")
			s.Require().NoError(err, "table %s", id)
			s.Equal(NotifyCancelled, d.Notification)
		}
	})
}

func (s *MachineSuite) TestNoteAsymmetryBetweenTables() {
	// The mobile table demands a note to park an order on missing documents;
	// the energy tables accept the same transition without one. Observed
	// behavior, intentionally preserved.
	mobile := s.table(TableMobile)
	electricity := s.table(TableElectricity)

	_, err := Decide(mobile, models.StateProcessing, models.StateAwaitingIntegration, "")
	s.True(dErrors.HasCode(err, dErrors.CodeNoteRequired))

	d, err := Decide(electricity, models.StateProcessing, models.StateAwaitingIntegration, "")
	s.Require().NoError(err)
	s.Equal(NotifyDocsRequest, d.Notification)
}

func (s *MachineSuite) TestApply() {
	generic := s.table(TableGeneric)

	s.Run("appends exactly one history entry per transition", func() {
		order := s.newOrder(models.StateOpen)

		entry, notification, err := ApplyTransition(generic, order, models.StateProcessing, "", "master-1", s.now)
		s.Require().NoError(err)
		s.Empty(notification)
		s.Equal(models.StateProcessing, order.State)
		s.Require().Len(order.History, 1)
		s.Equal(models.StateOpen, entry.From)
		s.Equal(models.StateProcessing, entry.To)
		s.Equal("master-1", entry.Actor)
		s.Equal(s.now, entry.At)
	})

	s.Run("history is append-only across a full lifecycle", func() {
		order := s.newOrder(models.StateOpen)
		steps := []struct {
			to   models.State
			note string
		}{
			{models.StateProcessing, ""},
			{models.StateOnHold, "waiting on document"},
			{models.StateProcessing, ""},
			{models.StateActivated, ""},
		}

		for _, step := range steps {
			_, _, err := ApplyTransition(generic, order, step.to, step.note, "master-1", s.now)
			s.Require().NoError(err)
		}
		s.Require().Len(order.History, len(steps))

		first := order.History[0]
		s.Equal(models.StateOpen, first.From)
		s.Equal(models.StateProcessing, first.To)
		s.Equal(s.now, first.At)
	})

	s.Run("failed decisions leave the order untouched", func() {
		order := s.newOrder(models.StateOpen)
		_, _, err := ApplyTransition(generic, order, models.StateActivated, "", "master-1", s.now)
		s.Require().Error(err)
		s.Equal(models.StateOpen, order.State)
		s.Empty(order.History)
	})
}

func (s *MachineSuite) TestFiberResetFlow() {
	fiber := s.table(TableFiber)
	order := s.newOrder(models.StateOpen)

	for _, step := range []struct {
		to   models.State
		note string
	}{
		{models.StateProcessing, ""},
		{models.StateTicketOpen, "no signal at cabinet"},
		{models.StateResetInProgress, ""},
		{models.StateResetExecuted, ""},
	} {
		_, _, err := ApplyTransition(fiber, order, step.to, step.note, "master-2", s.now)
		s.Require().NoError(err, "to %s", step.to)
	}

	s.Equal(models.StateResetExecuted, order.State)
	s.True(order.State.Terminal())

	_, err := Decide(fiber, order.State, models.StateProcessing, "note")
	s.True(dErrors.HasCode(err, dErrors.CodeIllegalTransition))
}

func (s *MachineSuite) TestSelfLoops() {
	fiber := s.table(TableFiber)

	s.Run("ticket updates loop with a note", func() {
		d, err := Decide(fiber, models.StateTicketOpen, models.StateTicketOpen, "customer rescheduled")
		s.Require().NoError(err)
		s.Equal(models.StateTicketOpen, d.To)
	})

	s.Run("awaiting integration loops renotify on the energy tables", func() {
		electricity := s.table(TableElectricity)
		d, err := Decide(electricity, models.StateAwaitingIntegration, models.StateAwaitingIntegration, "")
		s.Require().NoError(err)
		s.Equal(NotifyDocsRequest, d.Notification)
	})
}
