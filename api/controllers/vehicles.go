package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pulseautomarket/desking-backend/api/responses"
	"github.com/pulseautomarket/desking-backend/api/validators"
	"github.com/pulseautomarket/desking-backend/internal/vehicles"
	"github.com/pulseautomarket/desking-backend/pkg/enums"
	pkgerrors "github.com/pulseautomarket/desking-backend/pkg/errors"
	"github.com/pulseautomarket/desking-backend/pkg/logger"
	"github.com/pulseautomarket/desking-backend/pkg/pagination"
)

type createVehicleRequest struct {
	VIN          string           `json:"vin" validate:"required,len=17"`
	Year         int              `json:"year" validate:"required,min=1980"`
	Make         string           `json:"make" validate:"required"`
	Model        string           `json:"model" validate:"required"`
	Trim         *string          `json:"trim,omitempty"`
	Condition    string           `json:"condition,omitempty"`
	Mileage      int              `json:"mileage" validate:"min=0"`
	MSRP         decimal.Decimal  `json:"msrp"`
	InvoicePrice *decimal.Decimal `json:"invoice_price,omitempty"`
	SellingPrice decimal.Decimal  `json:"selling_price" validate:"required"`
	Features     []string         `json:"features,omitempty"`
}

// VehicleCreate adds a unit to inventory.
func VehicleCreate(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createVehicleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.Create(r.Context(), vehicles.CreateVehicleInput{
			VIN:          req.VIN,
			Year:         req.Year,
			Make:         req.Make,
			Model:        req.Model,
			Trim:         req.Trim,
			Condition:    enums.VehicleCondition(req.Condition),
			Mileage:      req.Mileage,
			MSRP:         req.MSRP,
			InvoicePrice: req.InvoicePrice,
			SellingPrice: req.SellingPrice,
			Features:     req.Features,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vehicle)
	}
}

// VehicleDetail fetches one vehicle by id, or by VIN via ?vin= on the list route.
func VehicleDetail(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(chi.URLParam(r, "vehicleID"))
		id, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vehicle id"))
			return
		}

		vehicle, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicle)
	}
}

// VehicleList pages through inventory; a vin query short-circuits to a lookup.
func VehicleList(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if vin := strings.TrimSpace(r.URL.Query().Get("vin")); vin != "" {
			vehicle, err := svc.GetByVIN(r.Context(), vin)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, vehicle)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type updatePriceRequest struct {
	SellingPrice decimal.Decimal `json:"selling_price" validate:"required"`
}

// VehicleUpdatePrice adjusts the advertised selling price.
func VehicleUpdatePrice(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(chi.URLParam(r, "vehicleID"))
		id, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vehicle id"))
			return
		}

		var req updatePriceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.UpdateSellingPrice(r.Context(), id, req.SellingPrice)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicle)
	}
}
