package deals

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pulseautomarket/desking-backend/internal/desking"
	"github.com/pulseautomarket/desking-backend/pkg/db/models"
	"github.com/pulseautomarket/desking-backend/pkg/enums"
	"github.com/pulseautomarket/desking-backend/pkg/types"
)

// CreateDealInput carries everything needed to open a deal.
type CreateDealInput struct {
	DealerID    uuid.UUID
	VehicleID   uuid.UUID
	Customer    types.Customer
	TradeIn     *types.TradeIn
	State       string
	ZipCode     string
	Rebates     decimal.Decimal
	Discount    decimal.Decimal
	Salesperson *string
	Notes       *string
}

// UpdateDealInput is the closed set of partial fields staff may adjust
// outside the dedicated term/product operations. Nil means leave unchanged.
type UpdateDealInput struct {
	VehiclePrice   *decimal.Decimal
	Rebates        *decimal.Decimal
	DealerDiscount *decimal.Decimal
	TradeIn        *types.TradeIn
	RemoveTradeIn  bool
	Salesperson    *string
	FIManager      *string
	Notes          *string
}

// ListFilters narrows a deal listing.
type ListFilters struct {
	Status   *enums.DealStatus
	DealType *enums.DealType
}

// DealList is one page of deals plus the cursor for the next page.
type DealList struct {
	Deals      []models.Deal `json:"deals"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

// DealProposal is the customer-facing snapshot of a structured deal.
type DealProposal struct {
	Deal         *models.Deal       `json:"deal"`
	Vehicle      *models.Vehicle    `json:"vehicle,omitempty"`
	CustomerName string             `json:"customer_name"`
	PaymentGrid  []desking.GridRow  `json:"payment_grid,omitempty"`
	LeaseDetails *types.LeaseDetails `json:"lease_details,omitempty"`
	Selected     types.FIProducts   `json:"selected_products"`
}

// FICategoryStats is the rollup of one product category across a dealer's
// deals. PenetrationRate is the share of deals carrying the category, as a
// percentage rounded to one decimal.
type FICategoryStats struct {
	Count           int64           `json:"count"`
	Revenue         decimal.Decimal `json:"revenue"`
	Profit          decimal.Decimal `json:"profit"`
	PenetrationRate decimal.Decimal `json:"penetration_rate"`
}

// DealerStats aggregates desking activity for one dealer.
type DealerStats struct {
	TotalDeals     int64                               `json:"total_deals"`
	PendingDeals   int64                               `json:"pending_deals"`
	ActiveDeals    int64                               `json:"active_deals"`
	CompletedDeals int64                               `json:"completed_deals"`
	CancelledDeals int64                               `json:"cancelled_deals"`
	FinanceDeals   int64                               `json:"finance_deals"`
	LeaseDeals     int64                               `json:"lease_deals"`
	CashDeals      int64                               `json:"cash_deals"`
	FIProductStats map[enums.FICategory]FICategoryStats `json:"fi_product_stats"`
	TotalFIRevenue decimal.Decimal                     `json:"total_fi_revenue"`
	TotalProfit    decimal.Decimal                     `json:"total_profit"`
	AverageProfit  decimal.Decimal                     `json:"average_profit"`
}
