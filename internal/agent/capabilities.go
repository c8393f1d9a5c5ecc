package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/crosssell"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/domain"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/forecast"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/gate"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/pricing"
)

// CoreServices bundles the operations exposed to the reasoning model.
type CoreServices struct {
	Gate      *gate.Gate
	Forecast  *forecast.Lookup
	CrossSell *crosssell.Ranker
	Pricing   *pricing.Runner
}

// NewCoreRegistry registers the warehouse capabilities. Each renders a short
// human-readable string; forecast values are truncated to whole units for
// display while the stored records keep full precision.
func NewCoreRegistry(s CoreServices) *Registry {
	r := NewRegistry()

	mustRegister(r, Capability{
		Name:        "forecast_summary",
		Description: "Total 7-day demand forecast for the busiest SKUs. No input required.",
		Run: func(ctx context.Context, _ string) (string, error) {
			totals, err := s.Forecast.Summary(ctx)
			if err != nil {
				return "", err
			}
			if len(totals) == 0 {
				return "No forecast data found for the next 7 days.", nil
			}
			lines := make([]string, len(totals))
			for i, t := range totals {
				lines[i] = fmt.Sprintf("SKU %s: %d units expected", t.SKU, int(t.Total))
			}
			return "7-day demand forecast:\n" + strings.Join(lines, "\n"), nil
		},
	})

	mustRegister(r, Capability{
		Name:        "forecast_lookup",
		Description: "Next 7-day demand forecast for one SKU. Input: the SKU id.",
		Run: func(ctx context.Context, input string) (string, error) {
			sku := strings.TrimSpace(input)
			points, err := s.Forecast.Series(ctx, sku)
			if err != nil {
				return "", err
			}
			if len(points) == 0 {
				return fmt.Sprintf("No forecast available for %s.", sku), nil
			}
			parts := make([]string, len(points))
			for i, p := range points {
				parts[i] = fmt.Sprintf("%s: %d", p.Date.Format("2006-01-02"), int(p.Value))
			}
			return fmt.Sprintf("Forecast for %s: %s", sku, strings.Join(parts, " | ")), nil
		},
	})

	mustRegister(r, Capability{
		Name:        "restock",
		Description: "Place a restock order. Input: '<SKU> <amount>'. Small amounts execute immediately; large ones are queued for approval.",
		Run: func(ctx context.Context, input string) (string, error) {
			req, ok := parseRestockInput(input)
			if !ok {
				return "Usage: restock <SKU> <amount>", nil
			}
			decision, err := s.Gate.Submit(ctx, req)
			if err != nil {
				return "", err
			}
			if decision.Status == domain.StatusAutoApproved {
				return fmt.Sprintf("Auto-approved restock for %s, quantity %d.", decision.SKU, decision.Amount), nil
			}
			return fmt.Sprintf("Restock for %s (%d) is pending approval.", decision.SKU, decision.Amount), nil
		},
	})

	mustRegister(r, Capability{
		Name:        "cross_sell",
		Description: "Suggest complementary SKUs often bought together with one SKU. Input: the SKU id.",
		Run: func(ctx context.Context, input string) (string, error) {
			sku := strings.TrimSpace(input)
			suggestions, err := s.CrossSell.TopCrossSells(ctx, sku, crosssell.DefaultTopN)
			if err != nil {
				return "", err
			}
			if len(suggestions) == 0 {
				return fmt.Sprintf("No cross-sell data for %s.", sku), nil
			}
			skus := make([]string, len(suggestions))
			for i, sug := range suggestions {
				skus[i] = sug.SKU
			}
			return fmt.Sprintf("Cross-sell for %s: %s", sku, strings.Join(skus, ", ")), nil
		},
	})

	mustRegister(r, Capability{
		Name:        "price_lookup",
		Description: "Latest recommended price for a product. Input: the product id.",
		Run: func(ctx context.Context, input string) (string, error) {
			productID := strings.TrimSpace(input)
			rec, err := s.Pricing.Latest(ctx, productID)
			if err != nil {
				return "", err
			}
			if rec == nil {
				return fmt.Sprintf("No price recommendation for %s yet.", productID), nil
			}
			return fmt.Sprintf("Recommended price for %s: %.2f (confidence %.2f; %s)",
				rec.ProductID, rec.RecommendedPrice, rec.ConfidenceScore, rec.Reason), nil
		},
	})

	mustRegister(r, Capability{
		Name:        "pending_actions",
		Description: "List restock orders waiting for human approval. No input required.",
		Run: func(ctx context.Context, _ string) (string, error) {
			actions, err := s.Gate.Pending(ctx)
			if err != nil {
				return "", err
			}
			if len(actions) == 0 {
				return "No actions are pending approval.", nil
			}
			lines := make([]string, len(actions))
			for i, a := range actions {
				lines[i] = fmt.Sprintf("%s %s x%d (since %s)",
					a.ActionType, a.SKU, a.Amount, a.CreatedAt.Format("2006-01-02"))
			}
			return "Pending approval:\n" + strings.Join(lines, "\n"), nil
		},
	})

	return r
}

// parseRestockInput accepts "<SKU> <amount>" with an optional leading
// "restock" word, matching how the model tends to phrase the payload.
func parseRestockInput(input string) (domain.RestockRequest, bool) {
	fields := strings.Fields(input)
	if len(fields) > 0 && strings.EqualFold(fields[0], "restock") {
		fields = fields[1:]
	}
	if len(fields) != 2 {
		return domain.RestockRequest{}, false
	}
	amount, err := strconv.Atoi(fields[1])
	if err != nil {
		return domain.RestockRequest{}, false
	}
	return domain.RestockRequest{SKU: fields[0], Amount: amount}, true
}

func mustRegister(r *Registry, c Capability) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}
