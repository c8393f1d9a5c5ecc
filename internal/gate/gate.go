// Package gate decides whether a restock request executes immediately or is
// queued for human approval, and durably records the gated ones.
package gate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/domain"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	ledgerTable      = "pending_actions"
	defaultThreshold = 100
)

// Gate applies the auto-approval threshold policy. The policy is a pure
// function of the request's own amount, so no cross-request lock is needed;
// concurrent ledger appends rely on the store's all-or-nothing insert.
type Gate struct {
	store     warehouse.Store
	threshold int
	now       func() time.Time
}

func New(store warehouse.Store, threshold int) *Gate {
	if threshold <= 0 {
		threshold = defaultThreshold
	}
	return &Gate{
		store:     store,
		threshold: threshold,
		now:       time.Now,
	}
}

// Threshold returns the configured auto-approval limit.
func (g *Gate) Threshold() int { return g.threshold }

// Submit evaluates one restock request. Amounts at or below the threshold are
// auto-approved with no durable record; larger amounts append exactly one
// PENDING row to the ledger. A request resubmitted with the same RequestID
// returns the original decision instead of a duplicate row.
func (g *Gate) Submit(ctx context.Context, req domain.RestockRequest) (domain.Decision, error) {
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return domain.Decision{}, fmt.Errorf("%w: sku must not be empty", domain.ErrInvalidRequest)
	}
	if req.Amount <= 0 {
		return domain.Decision{}, fmt.Errorf("%w: amount must be a positive integer, got %d", domain.ErrInvalidRequest, req.Amount)
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	if req.Amount <= g.threshold {
		// Deliberately fire-and-forget: the auto-approved path leaves no ledger
		// row, only a log line carrying the request id.
		log.Info().
			Str("sku", sku).
			Int("amount", req.Amount).
			Str("request_id", requestID).
			Msg("restock auto-approved")
		return domain.Decision{
			Status:    domain.StatusAutoApproved,
			SKU:       sku,
			Amount:    req.Amount,
			RequestID: requestID,
		}, nil
	}

	pending := domain.Decision{
		Status:    domain.StatusPendingApproval,
		SKU:       sku,
		Amount:    req.Amount,
		RequestID: requestID,
	}

	// A caller-supplied request id means this may be a retry. The read here is
	// a fast path; the insert below ignores conflicts on request_id, so two
	// concurrent retries still leave a single ledger row.
	if req.RequestID != "" {
		existing, err := g.findByRequestID(ctx, req.RequestID)
		if err != nil {
			return domain.Decision{}, err
		}
		if existing != nil {
			log.Info().
				Str("sku", sku).
				Str("request_id", requestID).
				Msg("restock already pending, returning prior decision")
			return pending, nil
		}
	}

	action := domain.PendingAction{
		ActionType: domain.ActionTypeRestock,
		SKU:        sku,
		Amount:     req.Amount,
		Status:     domain.PendingStatus,
		RequestID:  requestID,
		CreatedAt:  g.now().UTC(),
	}

	err := g.store.InsertRowsIgnoringConflicts(ctx, ledgerTable, []string{"request_id"},
		[]string{"action_type", "sku", "amount", "status", "request_id", "created_at"},
		[][]interface{}{{action.ActionType, action.SKU, action.Amount, action.Status, action.RequestID, action.CreatedAt}},
	)
	if err != nil {
		return domain.Decision{}, &domain.LedgerWriteError{Table: g.store.Qualify(ledgerTable), Err: err}
	}

	log.Info().
		Str("sku", sku).
		Int("amount", req.Amount).
		Str("request_id", requestID).
		Msg("restock queued for approval")

	return pending, nil
}

// Pending lists ledger rows still awaiting resolution, newest first.
func (g *Gate) Pending(ctx context.Context) ([]domain.PendingAction, error) {
	query := fmt.Sprintf(`
		SELECT action_type, sku, amount, status, request_id, created_at
		FROM %s
		WHERE status = $1
		ORDER BY created_at DESC
	`, g.store.Qualify(ledgerTable))

	var actions []domain.PendingAction
	if err := g.store.Select(ctx, &actions, query, domain.PendingStatus); err != nil {
		return nil, &domain.QueryError{Table: g.store.Qualify(ledgerTable), Err: err}
	}
	return actions, nil
}

func (g *Gate) findByRequestID(ctx context.Context, requestID string) (*domain.PendingAction, error) {
	query := fmt.Sprintf(`
		SELECT action_type, sku, amount, status, request_id, created_at
		FROM %s
		WHERE request_id = $1
		LIMIT 1
	`, g.store.Qualify(ledgerTable))

	var action domain.PendingAction
	err := g.store.Get(ctx, &action, query, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.QueryError{Table: g.store.Qualify(ledgerTable), Err: err}
	}
	return &action, nil
}
