package executor

import (
	"context"
	"fmt"
	"strings"

	"saas-agent/internal/client/shopify"
	"saas-agent/internal/model"
)

// orderStatuses 可直接作为 status 参数的过滤值，其余按 financial_status 处理
var orderStatuses = map[string]bool{"open": true, "closed": true, "cancelled": true, "any": true}

func (e *Executor) fetchOrders(ctx context.Context, req Request, s ShopifyAPI) model.Result {
	action := req.Intent.Action
	p := model.ParamsOf[model.FetchOrderParams](req.Intent)
	q := shopify.OrderQuery{
		Limit:        min(e.limit(p.LimitOr(50)), shopify.MaxPageSize),
		Status:       strings.ToLower(p.Status),
		CreatedAtMin: p.CreatedAtMin,
		CreatedAtMax: p.CreatedAtMax,
	}
	if f := strings.ToLower(strings.TrimSpace(p.Filter)); f != "" {
		if orderStatuses[f] {
			q.Status = f
		} else {
			q.FinancialStatus = f
		}
	}
	orders, err := s.Orders(ctx, q)
	if err != nil {
		return vendorFailed(action, "Failed to fetch Shopify orders.", err)
	}
	if len(orders) == 0 {
		label := q.FinancialStatus
		if label == "" && q.Status != "" && q.Status != "any" {
			label = q.Status
		}
		if label != "" {
			return done(action, fmt.Sprintf("No %s orders found.", label), orders)
		}
		return done(action, "No orders found.", orders)
	}
	return done(action, formatOrders(orders), orders)
}

func formatOrders(orders []model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d orders:\n", len(orders))
	for _, o := range orders {
		name := strings.TrimSpace(o.Customer.FirstName + " " + o.Customer.LastName)
		if name == "" {
			name = "Guest"
		}
		currency := o.Currency
		if currency == "" {
			currency = "USD"
		}
		status := o.FinancialStatus
		if status == "" {
			status = "unknown"
		}
		fmt.Fprintf(&b, "\nOrder #%d (%s)\n   %s | %s %s", o.OrderNumber, status, name, o.TotalPrice, currency)
	}
	return b.String()
}
