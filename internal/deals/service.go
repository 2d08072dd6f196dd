package deals

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/pulseautomarket/desking-backend/internal/desking"
	"github.com/pulseautomarket/desking-backend/pkg/db/models"
	"github.com/pulseautomarket/desking-backend/pkg/enums"
	pkgerrors "github.com/pulseautomarket/desking-backend/pkg/errors"
	"github.com/pulseautomarket/desking-backend/pkg/metrics"
	"github.com/pulseautomarket/desking-backend/pkg/pagination"
	"github.com/pulseautomarket/desking-backend/pkg/types"
)

// Service defines the desking operations exposed to the API layer.
type Service interface {
	CreateDeal(ctx context.Context, input CreateDealInput) (*models.Deal, error)
	GetDeal(ctx context.Context, dealerID, dealID uuid.UUID) (*models.Deal, error)
	ListDeals(ctx context.Context, dealerID uuid.UUID, params pagination.Params, filters ListFilters) (*DealList, error)
	AttachFinance(ctx context.Context, dealerID, dealID uuid.UUID, terms types.FinanceTerms) (*models.Deal, error)
	AttachLease(ctx context.Context, dealerID, dealID uuid.UUID, terms types.LeaseTerms) (*models.Deal, error)
	ClearTerms(ctx context.Context, dealerID, dealID uuid.UUID) (*models.Deal, error)
	SelectFIProducts(ctx context.Context, dealerID, dealID uuid.UUID, vscID *string, includeGAP bool) (*models.Deal, error)
	UpdateDeal(ctx context.Context, dealerID, dealID uuid.UUID, input UpdateDealInput) (*models.Deal, error)
	UpdateStatus(ctx context.Context, dealerID, dealID uuid.UUID, status enums.DealStatus) (*models.Deal, error)
	Proposal(ctx context.Context, dealerID, dealID uuid.UUID) (*DealProposal, error)
	DealerStats(ctx context.Context, dealerID uuid.UUID) (*DealerStats, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	vehicles VehicleSource
	agg      *Aggregator
	pricer   *desking.Pricer
	taxes    desking.TaxTable
	metrics  *metrics.DeskingMetrics
}

// NewService builds a desking service with the required dependencies.
// metrics may be nil when observability is not wired (tests).
func NewService(repo Repository, tx txRunner, vehicles VehicleSource, agg *Aggregator, pricer *desking.Pricer, taxes desking.TaxTable, deskingMetrics *metrics.DeskingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("deals repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if vehicles == nil {
		return nil, fmt.Errorf("vehicle source required")
	}
	if agg == nil {
		return nil, fmt.Errorf("aggregator required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("pricer required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		vehicles: vehicles,
		agg:      agg,
		pricer:   pricer,
		taxes:    taxes,
		metrics:  deskingMetrics,
	}, nil
}

func (s *service) CreateDeal(ctx context.Context, input CreateDealInput) (*models.Deal, error) {
	var verr error
	if input.DealerID == uuid.Nil {
		verr = multierr.Append(verr, fmt.Errorf("dealer id required"))
	}
	if input.VehicleID == uuid.Nil {
		verr = multierr.Append(verr, fmt.Errorf("vehicle id required"))
	}
	if strings.TrimSpace(input.Customer.FirstName) == "" && strings.TrimSpace(input.Customer.LastName) == "" {
		verr = multierr.Append(verr, fmt.Errorf("customer name required"))
	}
	if input.Rebates.IsNegative() {
		verr = multierr.Append(verr, fmt.Errorf("rebates must not be negative"))
	}
	if input.Discount.IsNegative() {
		verr = multierr.Append(verr, fmt.Errorf("discount must not be negative"))
	}
	if verr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, verr, "invalid deal input")
	}

	vehicle, err := s.vehicles.FindByID(ctx, input.VehicleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}

	// The F&I menu is generated once at creation. Re-quoting the VSC table on
	// every mutation would silently reprice the menu the customer saw.
	menu, err := s.pricer.BuildMenu(vehicleProfile(vehicle), vehicle.SellingPrice)
	if err != nil {
		return nil, err
	}

	deal := &models.Deal{
		ID:             uuid.New(),
		DealNumber:     newDealNumber(),
		Status:         enums.DealStatusPending,
		DealType:       enums.DealTypeCash,
		DealerID:       input.DealerID,
		VehicleID:      vehicle.ID,
		Customer:       input.Customer,
		TradeIn:        input.TradeIn,
		TaxInfo:        s.taxes.Resolve(input.State, input.ZipCode),
		VehiclePrice:   vehicle.SellingPrice,
		Rebates:        input.Rebates.Round(2),
		DealerDiscount: input.Discount.Round(2),
		VSCOptions:     menu.VSCOptions,
		GAPOption:      &menu.GAPOption,
		Salesperson:    input.Salesperson,
		Notes:          input.Notes,
	}

	if err := s.recalculate(deal); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, deal)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create deal")
	}
	created.Vehicle = vehicle
	return created, nil
}

func (s *service) GetDeal(ctx context.Context, dealerID, dealID uuid.UUID) (*models.Deal, error) {
	if dealerID == uuid.Nil || dealID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer id and deal id required")
	}
	deal, err := s.repo.FindByID(ctx, dealerID, dealID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deal")
	}
	return deal, nil
}

func (s *service) ListDeals(ctx context.Context, dealerID uuid.UUID, params pagination.Params, filters ListFilters) (*DealList, error) {
	if dealerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer id required")
	}
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status filter %q", *filters.Status))
	}
	if filters.DealType != nil && !filters.DealType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid deal type filter %q", *filters.DealType))
	}

	list, err := s.repo.List(ctx, dealerID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deals")
	}
	return list, nil
}

func (s *service) AttachFinance(ctx context.Context, dealerID, dealID uuid.UUID, terms types.FinanceTerms) (*models.Deal, error) {
	if terms.TermMonths <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "finance term months must be positive")
	}
	if terms.DownPayment.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "down payment must not be negative")
	}
	if terms.PaymentFrequency == "" {
		terms.PaymentFrequency = enums.PaymentFrequencyMonthly
	}
	if !terms.PaymentFrequency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment frequency %q", terms.PaymentFrequency))
	}

	return s.mutate(ctx, dealerID, dealID, func(deal *models.Deal) error {
		deal.FinanceTerms = &terms
		deal.LeaseTerms = nil
		return nil
	})
}

func (s *service) AttachLease(ctx context.Context, dealerID, dealID uuid.UUID, terms types.LeaseTerms) (*models.Deal, error) {
	return s.mutate(ctx, dealerID, dealID, func(deal *models.Deal) error {
		deal.LeaseTerms = &terms
		deal.FinanceTerms = nil
		return nil
	})
}

// ClearTerms reverts the deal to a cash structure.
func (s *service) ClearTerms(ctx context.Context, dealerID, dealID uuid.UUID) (*models.Deal, error) {
	return s.mutate(ctx, dealerID, dealID, func(deal *models.Deal) error {
		deal.FinanceTerms = nil
		deal.LeaseTerms = nil
		return nil
	})
}

func (s *service) SelectFIProducts(ctx context.Context, dealerID, dealID uuid.UUID, vscID *string, includeGAP bool) (*models.Deal, error) {
	return s.mutate(ctx, dealerID, dealID, func(deal *models.Deal) error {
		if vscID != nil && deal.VSCOptions.FindByID(*vscID) == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("vsc option %q is not on this deal's menu", *vscID))
		}
		deal.SelectedVSCID = vscID
		deal.IncludeGAP = includeGAP
		return nil
	})
}

func (s *service) UpdateDeal(ctx context.Context, dealerID, dealID uuid.UUID, input UpdateDealInput) (*models.Deal, error) {
	if input.VehiclePrice != nil && input.VehiclePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle price must not be negative")
	}
	if input.Rebates != nil && input.Rebates.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rebates must not be negative")
	}
	if input.DealerDiscount != nil && input.DealerDiscount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer discount must not be negative")
	}
	if input.TradeIn != nil && input.RemoveTradeIn {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot both replace and remove the trade-in")
	}

	return s.mutate(ctx, dealerID, dealID, func(deal *models.Deal) error {
		if input.VehiclePrice != nil {
			deal.VehiclePrice = input.VehiclePrice.Round(2)
		}
		if input.Rebates != nil {
			deal.Rebates = input.Rebates.Round(2)
		}
		if input.DealerDiscount != nil {
			deal.DealerDiscount = input.DealerDiscount.Round(2)
		}
		if input.TradeIn != nil {
			deal.TradeIn = input.TradeIn
		}
		if input.RemoveTradeIn {
			deal.TradeIn = nil
		}
		if input.Salesperson != nil {
			deal.Salesperson = input.Salesperson
		}
		if input.FIManager != nil {
			deal.FIManager = input.FIManager
		}
		if input.Notes != nil {
			deal.Notes = input.Notes
		}
		return nil
	})
}

func (s *service) UpdateStatus(ctx context.Context, dealerID, dealID uuid.UUID, status enums.DealStatus) (*models.Deal, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid deal status %q", status))
	}

	var updated *models.Deal
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		deal, err := repo.FindByID(ctx, dealerID, dealID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deal")
		}
		if deal.Status == status {
			updated = deal
			return nil
		}
		if !deal.Status.CanTransitionTo(status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot transition deal from %s to %s", deal.Status, status))
		}
		deal.Status = status
		if err := repo.Save(ctx, deal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save deal")
		}
		updated = deal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Proposal(ctx context.Context, dealerID, dealID uuid.UUID) (*DealProposal, error) {
	deal, err := s.GetDeal(ctx, dealerID, dealID)
	if err != nil {
		return nil, err
	}

	proposal := &DealProposal{
		Deal:         deal,
		Vehicle:      deal.Vehicle,
		CustomerName: deal.Customer.FullName(),
		LeaseDetails: deal.LeaseDetails,
		Selected:     deal.SelectedProducts(),
	}

	if deal.DealType == enums.DealTypeFinance && deal.TotalAmountFinanced.GreaterThan(decimal.Zero) {
		grid, err := desking.PaymentGrid(deal.TotalAmountFinanced)
		if err != nil {
			return nil, err
		}
		proposal.PaymentGrid = grid
	}
	return proposal, nil
}

func (s *service) DealerStats(ctx context.Context, dealerID uuid.UUID) (*DealerStats, error) {
	if dealerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer id required")
	}
	stats, err := s.repo.Stats(ctx, dealerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate dealer stats")
	}
	return stats, nil
}

// mutate loads the deal, applies the change, recalculates and saves, all in
// one transaction. Terminal deals reject every mutation.
func (s *service) mutate(ctx context.Context, dealerID, dealID uuid.UUID, apply func(*models.Deal) error) (*models.Deal, error) {
	if dealerID == uuid.Nil || dealID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer id and deal id required")
	}

	var updated *models.Deal
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		deal, err := repo.FindByID(ctx, dealerID, dealID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deal")
		}
		if deal.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("deal is %s and can no longer be modified", deal.Status))
		}

		if err := apply(deal); err != nil {
			return err
		}
		if err := s.recalculate(deal); err != nil {
			return err
		}
		if deal.Status == enums.DealStatusPending {
			deal.Status = enums.DealStatusInProgress
		}

		if err := repo.Save(ctx, deal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save deal")
		}
		updated = deal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) recalculate(deal *models.Deal) error {
	started := time.Now()
	if err := s.agg.Recalculate(deal); err != nil {
		s.metrics.IncFailure(deal.DealType.String())
		return err
	}
	s.metrics.ObserveCalculation(deal.DealType.String(), time.Since(started))
	return nil
}

func vehicleProfile(vehicle *models.Vehicle) desking.VehicleProfile {
	return desking.VehicleProfile{
		Year:    vehicle.Year,
		Mileage: vehicle.Mileage,
		Value:   vehicle.SellingPrice,
	}
}

func newDealNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return "DEAL-" + suffix
}
