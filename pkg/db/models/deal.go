package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pulseautomarket/desking-backend/pkg/enums"
	"github.com/pulseautomarket/desking-backend/pkg/types"
)

// Deal is the document-shaped desking record: one row per deal, with the
// attached sub-entities serialized in place. The deal is the sole owner of
// its trade-in, tax snapshot, terms, and generated F&I menu; they have no
// independent lifecycle.
type Deal struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	DealNumber string           `gorm:"column:deal_number;not null;uniqueIndex"`
	Status     enums.DealStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	DealType   enums.DealType   `gorm:"column:deal_type;type:text;not null;default:'cash'"`
	DealerID   uuid.UUID        `gorm:"column:dealer_id;type:uuid;not null;index"`

	VehicleID uuid.UUID `gorm:"column:vehicle_id;type:uuid;not null"`
	Vehicle   *Vehicle  `gorm:"foreignKey:VehicleID"`

	Customer types.Customer `gorm:"column:customer;type:jsonb;serializer:json"`
	TradeIn  *types.TradeIn `gorm:"column:trade_in;type:jsonb;serializer:json"`
	TaxInfo  types.TaxInfo  `gorm:"column:tax_info;type:jsonb;serializer:json"`

	VehiclePrice   decimal.Decimal `gorm:"column:vehicle_price;type:numeric(12,2);not null"`
	Rebates        decimal.Decimal `gorm:"column:rebates;type:numeric(12,2);not null;default:0"`
	DealerDiscount decimal.Decimal `gorm:"column:dealer_discount;type:numeric(12,2);not null;default:0"`

	FinanceTerms *types.FinanceTerms `gorm:"column:finance_terms;type:jsonb;serializer:json"`
	LeaseTerms   *types.LeaseTerms   `gorm:"column:lease_terms;type:jsonb;serializer:json"`
	LeaseDetails *types.LeaseDetails `gorm:"column:lease_details;type:jsonb;serializer:json"`

	VSCOptions    types.FIProducts `gorm:"column:vsc_options;type:jsonb;serializer:json"`
	GAPOption     *types.FIProduct `gorm:"column:gap_option;type:jsonb;serializer:json"`
	SelectedVSCID *string          `gorm:"column:selected_vsc_id"`
	IncludeGAP    bool             `gorm:"column:include_gap;not null;default:false"`

	SalesTaxAmount      decimal.Decimal `gorm:"column:sales_tax_amount;type:numeric(12,2);not null;default:0"`
	TotalVehiclePrice   decimal.Decimal `gorm:"column:total_vehicle_price;type:numeric(12,2);not null;default:0"`
	TotalFeesTaxes      decimal.Decimal `gorm:"column:total_fees_taxes;type:numeric(12,2);not null;default:0"`
	TotalFIProducts     decimal.Decimal `gorm:"column:total_fi_products;type:numeric(12,2);not null;default:0"`
	TotalDealAmount     decimal.Decimal `gorm:"column:total_deal_amount;type:numeric(12,2);not null;default:0"`
	MonthlyPayment      decimal.Decimal `gorm:"column:monthly_payment;type:numeric(12,2);not null;default:0"`
	TotalAmountFinanced decimal.Decimal `gorm:"column:total_amount_financed;type:numeric(12,2);not null;default:0"`
	TotalInterest       decimal.Decimal `gorm:"column:total_interest;type:numeric(12,2);not null;default:0"`
	TotalCost           decimal.Decimal `gorm:"column:total_cost;type:numeric(12,2);not null;default:0"`
	DealerProfit        decimal.Decimal `gorm:"column:dealer_profit;type:numeric(12,2);not null;default:0"`

	Salesperson *string `gorm:"column:salesperson"`
	FIManager   *string `gorm:"column:fi_manager"`
	Notes       *string `gorm:"column:notes"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SelectedVSC returns the chosen service contract from the generated menu,
// or nil when none is selected.
func (d *Deal) SelectedVSC() *types.FIProduct {
	if d.SelectedVSCID == nil {
		return nil
	}
	return d.VSCOptions.FindByID(*d.SelectedVSCID)
}

// SelectedProducts returns every F&I product currently elected on the deal.
func (d *Deal) SelectedProducts() types.FIProducts {
	var selected types.FIProducts
	if vsc := d.SelectedVSC(); vsc != nil {
		selected = append(selected, *vsc)
	}
	if d.IncludeGAP && d.GAPOption != nil {
		selected = append(selected, *d.GAPOption)
	}
	return selected
}
