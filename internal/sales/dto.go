package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlySalesRow is one (vendor, month, year) bucket of aggregated sales.
// TotalSales sums cost-of-goods; TotalOrders sums item_count*quantity.
type MonthlySalesRow struct {
	VendorID    uuid.UUID       `json:"vendor_id"`
	VendorName  string          `json:"vendor_name"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalOrders int64           `json:"total_orders"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
}

// MonthSummary is one month block on the dashboard cards.
type MonthSummary struct {
	Month       string          `json:"month"`
	Label       string          `json:"label"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalOrders int64           `json:"total_orders"`
}

// DashboardResponse carries the selected month and the month before it.
type DashboardResponse struct {
	CurrentMonth  MonthSummary `json:"current_month"`
	PreviousMonth MonthSummary `json:"previous_month"`
}

// ChartPoint is one bar in the trailing-months sales chart. Months without
// activity are present with zero totals.
type ChartPoint struct {
	Month       string          `json:"month"`
	Label       string          `json:"label"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalOrders int64           `json:"total_orders"`
}
