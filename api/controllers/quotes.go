package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pulseautomarket/desking-backend/api/responses"
	"github.com/pulseautomarket/desking-backend/api/validators"
	"github.com/pulseautomarket/desking-backend/internal/desking"
	"github.com/pulseautomarket/desking-backend/pkg/enums"
	pkgerrors "github.com/pulseautomarket/desking-backend/pkg/errors"
	"github.com/pulseautomarket/desking-backend/pkg/logger"
	"github.com/pulseautomarket/desking-backend/pkg/types"
)

// TaxQuote resolves the jurisdiction snapshot used to structure a deal.
func TaxQuote(taxes desking.TaxTable, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := strings.TrimSpace(r.URL.Query().Get("state"))
		zip := strings.TrimSpace(r.URL.Query().Get("zip"))
		responses.WriteSuccess(w, taxes.Resolve(state, zip))
	}
}

type paymentQuoteRequest struct {
	Principal        decimal.Decimal `json:"principal" validate:"required"`
	InterestRate     float64         `json:"interest_rate" validate:"min=0,max=100"`
	TermMonths       int             `json:"term_months" validate:"omitempty,min=1,max=120"`
	PaymentFrequency string          `json:"payment_frequency,omitempty"`
}

type paymentQuoteResponse struct {
	Payment       decimal.Decimal        `json:"payment"`
	TotalInterest decimal.Decimal        `json:"total_interest"`
	TotalCost     decimal.Decimal        `json:"total_cost"`
	Frequency     enums.PaymentFrequency `json:"payment_frequency"`
}

// PaymentQuote prices a standalone amortized payment without touching a deal.
// An omitted term falls back to the configured default.
func PaymentQuote(defaultTermMonths int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentQuoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		frequency := enums.PaymentFrequencyMonthly
		if req.PaymentFrequency != "" {
			parsed, err := enums.ParsePaymentFrequency(req.PaymentFrequency)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment frequency"))
				return
			}
			frequency = parsed
		}

		termMonths := req.TermMonths
		if termMonths <= 0 {
			termMonths = defaultTermMonths
		}

		result, err := desking.ComputePayment(req.Principal, req.InterestRate, termMonths, frequency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, paymentQuoteResponse{
			Payment:       result.Payment,
			TotalInterest: result.TotalInterest,
			TotalCost:     result.TotalCost,
			Frequency:     frequency,
		})
	}
}

type leaseQuoteResponse struct {
	MonthlyPayment decimal.Decimal    `json:"monthly_payment"`
	Details        types.LeaseDetails `json:"details"`
}

// LeaseQuote prices a standalone lease payment from the supplied terms.
func LeaseQuote(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var terms types.LeaseTerms
		if err := validators.DecodeJSONBody(r, &terms); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, details, err := desking.ComputeLease(terms)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, leaseQuoteResponse{
			MonthlyPayment: payment,
			Details:        details,
		})
	}
}

type gridQuoteRequest struct {
	Principal decimal.Decimal `json:"principal" validate:"required"`
}

// GridQuote returns the term-by-rate monthly payment matrix for a principal.
func GridQuote(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gridQuoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grid, err := desking.PaymentGrid(req.Principal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"grid": grid})
	}
}

type fiMenuQuoteRequest struct {
	Year         int             `json:"year" validate:"required,min=1980"`
	Mileage      int             `json:"mileage" validate:"min=0"`
	VehicleValue decimal.Decimal `json:"vehicle_value" validate:"required"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
}

// FIMenuQuote builds a full VSC and GAP menu for an arbitrary vehicle profile.
func FIMenuQuote(pricer *desking.Pricer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pricer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricer unavailable"))
			return
		}

		var req fiMenuQuoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile := desking.VehicleProfile{
			Year:    req.Year,
			Mileage: req.Mileage,
			Value:   req.VehicleValue,
		}
		loanAmount := req.LoanAmount
		if loanAmount.IsZero() {
			loanAmount = req.VehicleValue
		}

		menu, err := pricer.BuildMenu(profile, loanAmount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, menu)
	}
}
