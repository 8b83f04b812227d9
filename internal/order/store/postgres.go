package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"order-gateway/internal/order/models"
	id "order-gateway/pkg/domain"
	"order-gateway/pkg/platform/sentinel"
)

// Postgres persists orders in PostgreSQL. Field values and document refs
// are jsonb; history rows live in their own table with a per-order sequence
// assigned here, so the append order of accepted transitions is durable.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Schema returns the DDL the store expects. Deployments run it through
// their migration tooling; the integration suite applies it directly.
func Schema() string {
	return `
CREATE TABLE IF NOT EXISTS orders (
    id          UUID PRIMARY KEY,
    template_id TEXT        NOT NULL,
    state       INTEGER     NOT NULL,
    fields      JSONB       NOT NULL DEFAULT '{}',
    documents   JSONB       NOT NULL DEFAULT '{}',
    offer_title TEXT        NOT NULL DEFAULT '',
    operator_id UUID        NOT NULL,
    version     INTEGER     NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS orders_state_idx ON orders (state);
CREATE INDEX IF NOT EXISTS orders_template_idx ON orders (template_id);

CREATE TABLE IF NOT EXISTS order_history (
    order_id   UUID        NOT NULL REFERENCES orders (id),
    seq        INTEGER     NOT NULL,
    from_state INTEGER     NOT NULL,
    to_state   INTEGER     NOT NULL,
    actor      TEXT        NOT NULL,
    note       TEXT        NOT NULL DEFAULT '',
    at         TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (order_id, seq)
);

CREATE TABLE IF NOT EXISTS audit_outbox (
    id         UUID        PRIMARY KEY,
    action     TEXT        NOT NULL,
    payload    JSONB       NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);`
}

func (s *Postgres) Create(ctx context.Context, order *models.Order) error {
	fields, err := json.Marshal(order.Fields)
	if err != nil {
		return fmt.Errorf("marshal order fields: %w", err)
	}
	documents, err := json.Marshal(order.Documents)
	if err != nil {
		return fmt.Errorf("marshal order documents: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO orders (id, template_id, state, fields, documents, offer_title, operator_id, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(order.ID), string(order.TemplateID), int(order.State), fields, documents,
		order.OfferTitle, uuid.UUID(order.OperatorID), order.Version, order.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, orderID id.OrderID) (*models.Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, template_id, state, fields, documents, offer_title, operator_id, version, created_at
		 FROM orders WHERE id = $1`,
		uuid.UUID(orderID),
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	history, err := s.loadHistory(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.History = history
	return order, nil
}

func (s *Postgres) List(ctx context.Context, filter ListFilter) ([]*models.Order, error) {
	query := `SELECT id, template_id, state, fields, documents, offer_title, operator_id, version, created_at
	          FROM orders WHERE 1=1`
	var args []any
	if filter.State != nil {
		args = append(args, int(*filter.State))
		query += fmt.Sprintf(" AND state = $%d", len(args))
	}
	if filter.TemplateID != "" {
		args = append(args, string(filter.TemplateID))
		query += fmt.Sprintf(" AND template_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

// ApplyTransition commits an accepted transition in one transaction: the
// conditional UPDATE carries the optimistic version check, and the history
// row gets the next per-order sequence number. Zero rows updated means the
// snapshot is stale.
func (s *Postgres) ApplyTransition(ctx context.Context, orderID id.OrderID, expectedVersion int, newState models.State, entry models.HistoryEntry) (*models.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transition tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET state = $1, version = version + 1
		 WHERE id = $2 AND version = $3`,
		int(newState), uuid.UUID(orderID), expectedVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("update order state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update order state: %w", err)
	}
	if affected == 0 {
		// Distinguish a stale snapshot from a missing order.
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, uuid.UUID(orderID),
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check order existence: %w", err)
		}
		if !exists {
			return nil, sentinel.ErrNotFound
		}
		return nil, sentinel.ErrConflict
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_history (order_id, seq, from_state, to_state, actor, note, at)
		 VALUES ($1, (SELECT COALESCE(MAX(seq), 0) + 1 FROM order_history WHERE order_id = $1), $2, $3, $4, $5, $6)`,
		uuid.UUID(orderID), int(entry.From), int(entry.To), entry.Actor, entry.Note, entry.At,
	)
	if err != nil {
		return nil, fmt.Errorf("append history entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transition tx: %w", err)
	}
	return s.Get(ctx, orderID)
}

func (s *Postgres) loadHistory(ctx context.Context, orderID id.OrderID) ([]models.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, from_state, to_state, actor, note, at
		 FROM order_history WHERE order_id = $1 ORDER BY seq`,
		uuid.UUID(orderID),
	)
	if err != nil {
		return nil, fmt.Errorf("load order history: %w", err)
	}
	defer rows.Close()

	var history []models.HistoryEntry
	for rows.Next() {
		var entry models.HistoryEntry
		var from, to int
		if err := rows.Scan(&entry.Seq, &from, &to, &entry.Actor, &entry.Note, &entry.At); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entry.From = models.State(from)
		entry.To = models.State(to)
		history = append(history, entry)
	}
	return history, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		orderUUID    uuid.UUID
		templateID   string
		state        int
		fieldsRaw    []byte
		documentsRaw []byte
		operatorUUID uuid.UUID
		order        models.Order
	)
	err := row.Scan(&orderUUID, &templateID, &state, &fieldsRaw, &documentsRaw,
		&order.OfferTitle, &operatorUUID, &order.Version, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := json.Unmarshal(fieldsRaw, &order.Fields); err != nil {
		return nil, fmt.Errorf("unmarshal order fields: %w", err)
	}
	if err := json.Unmarshal(documentsRaw, &order.Documents); err != nil {
		return nil, fmt.Errorf("unmarshal order documents: %w", err)
	}

	order.ID = id.OrderID(orderUUID)
	order.TemplateID = id.TemplateID(templateID)
	order.State = models.State(state)
	order.OperatorID = id.OperatorID(operatorUUID)
	return &order, nil
}
