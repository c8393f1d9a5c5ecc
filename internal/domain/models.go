package domain

import "time"

// DemandObservation is one day of picks for a SKU, the raw input to forecasting.
type DemandObservation struct {
	Date  time.Time `json:"date" db:"date"`
	SKU   string    `json:"sku" db:"sku"`
	Picks int       `json:"picks" db:"picks"`
}

// ForecastRecord is one projected day of demand for a SKU. The demand_forecast
// table is fully replaced on every refresh; rows from different runs never mix.
type ForecastRecord struct {
	Date            time.Time `json:"date" db:"date"`
	SKU             string    `json:"sku" db:"sku"`
	PredictedDemand float64   `json:"predicted_demand" db:"predicted_demand"`
}

// CrossSellPair records how often two SKUs co-occur in orders. The relationship
// is undirected: a lookup for either member returns the other.
type CrossSellPair struct {
	SKUA      string `json:"sku_a" db:"sku_a"`
	SKUB      string `json:"sku_b" db:"sku_b"`
	PairCount int    `json:"pair_count" db:"pair_count"`
}

// CrossSellSuggestion is a ranked lookup result: the complementary SKU and its count.
type CrossSellSuggestion struct {
	SKU       string `json:"sku" db:"suggested_sku"`
	PairCount int    `json:"pair_count" db:"pair_count"`
}

// RestockRequest is the unit of work submitted to the action gate. It is never
// persisted itself. RequestID lets retried submissions be told apart from new
// ones; the gate assigns one when the caller leaves it empty.
type RestockRequest struct {
	SKU       string `json:"sku"`
	Amount    int    `json:"amount"`
	RequestID string `json:"request_id,omitempty"`
}

// DecisionStatus is the outcome of gating a restock request.
type DecisionStatus string

const (
	StatusAutoApproved    DecisionStatus = "AUTO_APPROVED"
	StatusPendingApproval DecisionStatus = "PENDING_APPROVAL"
)

// Decision is the synchronous answer to a restock submission.
type Decision struct {
	Status    DecisionStatus `json:"status"`
	SKU       string         `json:"sku"`
	Amount    int            `json:"amount"`
	RequestID string         `json:"request_id"`
}

// ActionTypeRestock is the only action type the gate currently produces.
const ActionTypeRestock = "RESTOCK"

// PendingStatus is the lifecycle state written to the ledger. Resolution to
// APPROVED or REJECTED happens in an external ops process, never here.
const PendingStatus = "PENDING"

// PendingAction is a durable, append-only ledger row awaiting human approval.
// This subsystem never mutates or deletes it after creation.
type PendingAction struct {
	ActionType string    `json:"action_type" db:"action_type"`
	SKU        string    `json:"sku" db:"sku"`
	Amount     int       `json:"amount" db:"amount"`
	Status     string    `json:"status" db:"status"`
	RequestID  string    `json:"request_id" db:"request_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PriceRecommendation is one pricing-run output row. The price_recommendation
// table accumulates across runs; readers wanting "latest per product" must
// select on last_updated.
type PriceRecommendation struct {
	ProductID        string    `json:"product_id" db:"product_id"`
	RecommendedPrice float64   `json:"recommended_price" db:"recommended_price"`
	ConfidenceScore  float64   `json:"confidence_score" db:"confidence_score"`
	LastUpdated      time.Time `json:"last_updated" db:"last_updated"`
	Reason           string    `json:"reason" db:"reason"`
}

// SalesAggregate is the 30-day read model over sales_history that feeds pricing.
type SalesAggregate struct {
	ProductID string  `json:"product_id" db:"product_id"`
	AvgPrice  float64 `json:"avg_price" db:"avg_price"`
	AvgSold   float64 `json:"avg_sold" db:"avg_sold"`
	AvgStock  float64 `json:"avg_stock" db:"avg_stock"`
	Category  string  `json:"category" db:"category"`
}
