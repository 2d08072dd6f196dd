package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pulseautomarket/desking-backend/api/middleware"
	"github.com/pulseautomarket/desking-backend/api/responses"
	"github.com/pulseautomarket/desking-backend/api/validators"
	"github.com/pulseautomarket/desking-backend/internal/deals"
	"github.com/pulseautomarket/desking-backend/pkg/enums"
	pkgerrors "github.com/pulseautomarket/desking-backend/pkg/errors"
	"github.com/pulseautomarket/desking-backend/pkg/logger"
	"github.com/pulseautomarket/desking-backend/pkg/pagination"
	"github.com/pulseautomarket/desking-backend/pkg/types"
)

func dealerIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.DealerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing dealer scope")
	}
	dealerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid dealer scope")
	}
	return dealerID, nil
}

func dealIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "dealID"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "deal id is required")
	}
	dealID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid deal id")
	}
	return dealID, nil
}

type createDealRequest struct {
	VehicleID   string          `json:"vehicle_id" validate:"required,uuid"`
	Customer    types.Customer  `json:"customer" validate:"required"`
	TradeIn     *types.TradeIn  `json:"trade_in,omitempty"`
	State       string          `json:"state,omitempty"`
	ZipCode     string          `json:"zip_code,omitempty"`
	Rebates     decimal.Decimal `json:"rebates"`
	Discount    decimal.Decimal `json:"discount"`
	Salesperson *string         `json:"salesperson,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
}

// DealCreate opens a new deal against an inventory vehicle.
func DealCreate(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID, err := dealerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createDealRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicleID, err := uuid.Parse(req.VehicleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vehicle id"))
			return
		}

		deal, err := svc.CreateDeal(r.Context(), deals.CreateDealInput{
			DealerID:    dealerID,
			VehicleID:   vehicleID,
			Customer:    req.Customer,
			TradeIn:     req.TradeIn,
			State:       req.State,
			ZipCode:     req.ZipCode,
			Rebates:     req.Rebates,
			Discount:    req.Discount,
			Salesperson: req.Salesperson,
			Notes:       req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, deal)
	}
}

// DealDetail returns one deal scoped to the authenticated dealer.
func DealDetail(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID, err := dealerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealID, err := dealIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deal, err := svc.GetDeal(r.Context(), dealerID, dealID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deal)
	}
}

// DealList returns a cursor-paginated page of the dealer's deals.
func DealList(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID, err := dealerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		var filters deals.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.DealStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("deal_type")); raw != "" {
			dealType := enums.DealType(raw)
			if !dealType.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid deal type filter"))
				return
			}
			filters.DealType = &dealType
		}

		list, err := svc.ListDeals(r.Context(), dealerID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type attachFinanceRequest struct {
	InterestRate     float64         `json:"interest_rate" validate:"min=0,max=100"`
	TermMonths       int             `json:"term_months" validate:"required,min=1,max=120"`
	DownPayment      decimal.Decimal `json:"down_payment"`
	PaymentFrequency string          `json:"payment_frequency,omitempty"`
}

// DealAttachFinance structures the deal as financed and recalculates it.
func DealAttachFinance(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID, err := dealerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealID, err := dealIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req attachFinanceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		terms := types.FinanceTerms{
			InterestRate: req.InterestRate,
			TermMonths:   req.TermMonths,
			DownPayment:  req.DownPayment,
		}
		if req.PaymentFrequency != "" {
			frequency, err := enums.ParsePaymentFrequency(req.PaymentFrequency)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment frequency"))
				return
			}
			terms.PaymentFrequency = frequency
		}

		deal, err := svc.AttachFinance(r.Context(), dealerID, dealID, terms)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deal)
	}
}

// DealAttachLease structures the deal as leased and recalculates it.
func DealAttachLease(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID, err := dealerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealID, err := dealIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var terms types.LeaseTerms
		if err := validators.DecodeJSONBody(r, &terms); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deal, err := svc.AttachLease(r.Context(), dealerID, dealID, terms)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deal)
	}
}

// DealClearTerms reverts the deal to a cash structure.
func DealClearTerms(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID, err := dealerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealID, err := dealIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deal, err := svc.ClearTerms(r.Context(), dealerID, dealID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deal)
	}
}

type selectProductsRequest struct {
	VSCProductID *string `json:"vsc_product_id,omitempty"`
	IncludeGAP   bool    `json:"include_gap"`
}

// DealSelectProducts toggles the customer's F&I menu selections.
func DealSelectProducts(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID, err := dealerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealID, err := dealIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req selectProductsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deal, err := svc.SelectFIProducts(r.Context(), dealerID, dealID, req.VSCProductID, req.IncludeGAP)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deal)
	}
}

type updateDealRequest struct {
	VehiclePrice   *decimal.Decimal `json:"vehicle_price,omitempty"`
	Rebates        *decimal.Decimal `json:"rebates,omitempty"`
	DealerDiscount *decimal.Decimal `json:"dealer_discount,omitempty"`
	TradeIn        *types.TradeIn   `json:"trade_in,omitempty"`
	RemoveTradeIn  bool             `json:"remove_trade_in"`
	Salesperson    *string          `json:"salesperson,omitempty"`
	FIManager      *string          `json:"fi_manager,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

// DealUpdate applies a partial update to the deal's pricing and staff fields.
func DealUpdate(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID, err := dealerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealID, err := dealIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateDealRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deal, err := svc.UpdateDeal(r.Context(), dealerID, dealID, deals.UpdateDealInput{
			VehiclePrice:   req.VehiclePrice,
			Rebates:        req.Rebates,
			DealerDiscount: req.DealerDiscount,
			TradeIn:        req.TradeIn,
			RemoveTradeIn:  req.RemoveTradeIn,
			Salesperson:    req.Salesperson,
			FIManager:      req.FIManager,
			Notes:          req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deal)
	}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// DealUpdateStatus runs an explicit lifecycle transition.
func DealUpdateStatus(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID, err := dealerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealID, err := dealIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := enums.DealStatus(req.Status)
		if !status.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid deal status"))
			return
		}

		deal, err := svc.UpdateStatus(r.Context(), dealerID, dealID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deal)
	}
}

// DealProposal returns the customer-facing proposal snapshot.
func DealProposal(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID, err := dealerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dealID, err := dealIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		proposal, err := svc.Proposal(r.Context(), dealerID, dealID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, proposal)
	}
}

// DealerStats aggregates deal activity for the authenticated dealer.
func DealerStats(svc deals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID, err := dealerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.DealerStats(r.Context(), dealerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
