package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/domain"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse/warehousetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(store *warehousetest.FakeStore) *Gate {
	g := New(store, 100)
	g.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return g
}

func TestSubmitAutoApprovesAtOrBelowThreshold(t *testing.T) {
	store := warehousetest.New()
	g := newTestGate(store)

	for _, amount := range []int{1, 50, 100} {
		decision, err := g.Submit(context.Background(), domain.RestockRequest{SKU: "SKU1", Amount: amount})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAutoApproved, decision.Status)
		assert.Equal(t, "SKU1", decision.SKU)
		assert.Equal(t, amount, decision.Amount)
		assert.NotEmpty(t, decision.RequestID)
	}

	assert.Empty(t, store.Inserts, "auto-approved requests must write zero ledger rows")
}

func TestSubmitQueuesAboveThreshold(t *testing.T) {
	store := warehousetest.New()
	g := newTestGate(store)

	decision, err := g.Submit(context.Background(), domain.RestockRequest{SKU: "SKU1", Amount: 101})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingApproval, decision.Status)

	require.Len(t, store.Inserts, 1)
	insert := store.Inserts[0]
	assert.Equal(t, "pending_actions", insert.Table)
	require.Len(t, insert.Rows, 1)

	row := insert.Rows[0]
	assert.Equal(t, domain.ActionTypeRestock, row[0])
	assert.Equal(t, "SKU1", row[1])
	assert.Equal(t, 101, row[2])
	assert.Equal(t, domain.PendingStatus, row[3])
	assert.Equal(t, decision.RequestID, row[4])
}

func TestSubmitRejectsMalformedInput(t *testing.T) {
	store := warehousetest.New()
	g := newTestGate(store)

	cases := []domain.RestockRequest{
		{SKU: "", Amount: 50},
		{SKU: "   ", Amount: 50},
		{SKU: "SKU1", Amount: 0},
		{SKU: "SKU1", Amount: -5},
	}

	for _, req := range cases {
		_, err := g.Submit(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	}

	assert.Empty(t, store.Inserts, "invalid requests must perform no side effect")
}

func TestSubmitDedupesRetriedRequestID(t *testing.T) {
	store := warehousetest.New()
	g := newTestGate(store)

	first, err := g.Submit(context.Background(), domain.RestockRequest{
		SKU: "SKU1", Amount: 500, RequestID: "req-1",
	})
	require.NoError(t, err)
	require.Len(t, store.Inserts, 1)

	// Simulate the retried call finding the row the first call wrote.
	store.GetFn = func(dest interface{}, query string, args ...interface{}) error {
		action := dest.(*domain.PendingAction)
		*action = domain.PendingAction{
			ActionType: domain.ActionTypeRestock,
			SKU:        "SKU1",
			Amount:     500,
			Status:     domain.PendingStatus,
			RequestID:  "req-1",
		}
		return nil
	}

	second, err := g.Submit(context.Background(), domain.RestockRequest{
		SKU: "SKU1", Amount: 500, RequestID: "req-1",
	})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, store.Inserts, 1, "retried request must not append a second row")
}

func TestSubmitConcurrentRetriesLeaveOneRow(t *testing.T) {
	store := warehousetest.New()
	g := newTestGate(store)

	// No GetFn stub: both calls miss the ledger read, modelling two retries
	// racing past the fast-path check. The conflict-ignoring insert must still
	// collapse them onto a single row.
	for i := 0; i < 2; i++ {
		decision, err := g.Submit(context.Background(), domain.RestockRequest{
			SKU: "SKU1", Amount: 500, RequestID: "req-race",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPendingApproval, decision.Status)
	}

	require.Len(t, store.Inserts, 1)
	require.Len(t, store.Inserts[0].Rows, 1)
	assert.Equal(t, "req-race", store.Inserts[0].Rows[0][4])
}

func TestSubmitSurfacesLedgerWriteFailure(t *testing.T) {
	store := warehousetest.New()
	store.InsertErr = errors.New("connection reset")
	g := newTestGate(store)

	_, err := g.Submit(context.Background(), domain.RestockRequest{SKU: "SKU1", Amount: 500})
	require.Error(t, err)

	var ledgerErr *domain.LedgerWriteError
	require.ErrorAs(t, err, &ledgerErr)
	assert.Contains(t, ledgerErr.Error(), "pending_actions")
}

func TestThresholdDefault(t *testing.T) {
	g := New(warehousetest.New(), 0)
	assert.Equal(t, 100, g.Threshold())
}
