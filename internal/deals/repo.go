package deals

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pulseautomarket/desking-backend/pkg/db/models"
	"github.com/pulseautomarket/desking-backend/pkg/enums"
	"github.com/pulseautomarket/desking-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a deals repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, deal *models.Deal) (*models.Deal, error) {
	if err := r.db.WithContext(ctx).Create(deal).Error; err != nil {
		return nil, err
	}
	return deal, nil
}

func (r *repository) FindByID(ctx context.Context, dealerID, dealID uuid.UUID) (*models.Deal, error) {
	var deal models.Deal
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("dealer_id = ? AND id = ?", dealerID, dealID).
		First(&deal).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

// Save writes the whole deal document. The deal is the sole owner of its
// embedded sub-entities, so a full save keeps the record consistent.
func (r *repository) Save(ctx context.Context, deal *models.Deal) error {
	return r.db.WithContext(ctx).Omit("Vehicle").Save(deal).Error
}

func (r *repository) List(ctx context.Context, dealerID uuid.UUID, params pagination.Params, filters ListFilters) (*DealList, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Deal{}).
		Where("dealer_id = ?", dealerID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DealType != nil {
		query = query.Where("deal_type = ?", *filters.DealType)
	}
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.Deal
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &DealList{}
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &cursor
	}
	list.Deals = rows
	return list, nil
}

func (r *repository) Stats(ctx context.Context, dealerID uuid.UUID) (*DealerStats, error) {
	type statsRow struct {
		TotalDeals     int64
		PendingDeals   int64
		ActiveDeals    int64
		CompletedDeals int64
		CancelledDeals int64
		FinanceDeals   int64
		LeaseDeals     int64
		CashDeals      int64
		TotalFIRevenue decimal.Decimal
		TotalProfit    decimal.Decimal
	}

	var row statsRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_deals,
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending_deals,
			COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0) AS active_deals,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_deals,
			COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0) AS cancelled_deals,
			COALESCE(SUM(CASE WHEN deal_type = 'finance' THEN 1 ELSE 0 END), 0) AS finance_deals,
			COALESCE(SUM(CASE WHEN deal_type = 'lease' THEN 1 ELSE 0 END), 0) AS lease_deals,
			COALESCE(SUM(CASE WHEN deal_type = 'cash' THEN 1 ELSE 0 END), 0) AS cash_deals,
			COALESCE(SUM(total_fi_products), 0) AS total_fi_revenue,
			COALESCE(SUM(dealer_profit), 0) AS total_profit
		FROM deals
		WHERE dealer_id = ?
	`, dealerID).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	categoryStats, err := r.fiCategoryStats(ctx, dealerID, row.TotalDeals)
	if err != nil {
		return nil, err
	}

	stats := &DealerStats{
		TotalDeals:     row.TotalDeals,
		PendingDeals:   row.PendingDeals,
		ActiveDeals:    row.ActiveDeals,
		CompletedDeals: row.CompletedDeals,
		CancelledDeals: row.CancelledDeals,
		FinanceDeals:   row.FinanceDeals,
		LeaseDeals:     row.LeaseDeals,
		CashDeals:      row.CashDeals,
		FIProductStats: categoryStats,
		TotalFIRevenue: row.TotalFIRevenue.Round(2),
		TotalProfit:    row.TotalProfit.Round(2),
		AverageProfit:  decimal.Zero.Round(2),
	}
	if row.TotalDeals > 0 {
		stats.AverageProfit = row.TotalProfit.Div(decimal.NewFromInt(row.TotalDeals)).Round(2)
	}
	return stats, nil
}

// fiCategoryStats folds the elected products of every deal into per-category
// count, revenue, profit and penetration rate. The election lives inside the
// serialized product columns, so the rollup happens here rather than in SQL.
func (r *repository) fiCategoryStats(ctx context.Context, dealerID uuid.UUID, totalDeals int64) (map[enums.FICategory]FICategoryStats, error) {
	var rows []models.Deal
	err := r.db.WithContext(ctx).
		Select("vsc_options", "selected_vsc_id", "gap_option", "include_gap").
		Where("dealer_id = ?", dealerID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	byCategory := map[enums.FICategory]FICategoryStats{}
	for i := range rows {
		for _, product := range rows[i].SelectedProducts() {
			entry := byCategory[product.Category]
			entry.Count++
			entry.Revenue = entry.Revenue.Add(product.CustomerPrice)
			entry.Profit = entry.Profit.Add(product.Margin())
			byCategory[product.Category] = entry
		}
	}

	for category, entry := range byCategory {
		entry.Revenue = entry.Revenue.Round(2)
		entry.Profit = entry.Profit.Round(2)
		if totalDeals > 0 {
			entry.PenetrationRate = decimal.NewFromInt(entry.Count).
				Mul(decimal.NewFromInt(100)).
				Div(decimal.NewFromInt(totalDeals)).
				Round(1)
		}
		byCategory[category] = entry
	}
	return byCategory, nil
}
