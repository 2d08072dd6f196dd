package vehicles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/pulseautomarket/desking-backend/pkg/db"
	"github.com/pulseautomarket/desking-backend/pkg/db/models"
	"github.com/pulseautomarket/desking-backend/pkg/enums"
	pkgerrors "github.com/pulseautomarket/desking-backend/pkg/errors"
	"github.com/pulseautomarket/desking-backend/pkg/pagination"
)

// Service defines inventory operations exposed to the API layer.
type Service interface {
	Create(ctx context.Context, input CreateVehicleInput) (*models.Vehicle, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	GetByVIN(ctx context.Context, vin string) (*models.Vehicle, error)
	UpdateSellingPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*models.Vehicle, error)
	List(ctx context.Context, params pagination.Params) (*VehicleList, error)
}

// CreateVehicleInput carries the attributes for a new inventory record.
type CreateVehicleInput struct {
	VIN          string
	Year         int
	Make         string
	Model        string
	Trim         *string
	Condition    enums.VehicleCondition
	Mileage      int
	MSRP         decimal.Decimal
	InvoicePrice *decimal.Decimal
	SellingPrice decimal.Decimal
	Features     []string
}

type service struct {
	repo Repository
}

// NewService builds a vehicles service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicles repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateVehicleInput) (*models.Vehicle, error) {
	vin := strings.ToUpper(strings.TrimSpace(input.VIN))

	var verr error
	if len(vin) != 17 {
		verr = multierr.Append(verr, fmt.Errorf("vin must be 17 characters, got %d", len(vin)))
	}
	if input.Year < 1980 || input.Year > time.Now().Year()+1 {
		verr = multierr.Append(verr, fmt.Errorf("year %d out of range", input.Year))
	}
	if strings.TrimSpace(input.Make) == "" {
		verr = multierr.Append(verr, fmt.Errorf("make required"))
	}
	if strings.TrimSpace(input.Model) == "" {
		verr = multierr.Append(verr, fmt.Errorf("model required"))
	}
	if input.Mileage < 0 {
		verr = multierr.Append(verr, fmt.Errorf("mileage must not be negative"))
	}
	if input.SellingPrice.IsNegative() || input.MSRP.IsNegative() {
		verr = multierr.Append(verr, fmt.Errorf("prices must not be negative"))
	}
	if input.Condition != "" && !input.Condition.IsValid() {
		verr = multierr.Append(verr, fmt.Errorf("invalid condition %q", input.Condition))
	}
	if verr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, verr, "invalid vehicle input")
	}

	condition := input.Condition
	if condition == "" {
		condition = enums.VehicleConditionUsed
	}

	vehicle := &models.Vehicle{
		ID:           uuid.New(),
		VIN:          vin,
		Year:         input.Year,
		Make:         strings.TrimSpace(input.Make),
		Model:        strings.TrimSpace(input.Model),
		Trim:         input.Trim,
		Condition:    condition,
		Mileage:      input.Mileage,
		MSRP:         input.MSRP.Round(2),
		InvoicePrice: input.InvoicePrice,
		SellingPrice: input.SellingPrice.Round(2),
		Features:     pq.StringArray(input.Features),
	}

	created, err := s.repo.Create(ctx, vehicle)
	if err != nil {
		if db.IsUniqueViolation(err, "vin") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("vehicle with vin %s already exists", vin))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vehicle")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id required")
	}
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	return vehicle, nil
}

func (s *service) GetByVIN(ctx context.Context, vin string) (*models.Vehicle, error) {
	if strings.TrimSpace(vin) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vin required")
	}
	vehicle, err := s.repo.FindByVIN(ctx, vin)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	return vehicle, nil
}

// UpdateSellingPrice is the one sanctioned price-update path for inventory
// already attached to deals. Existing deals keep their price snapshot until
// staff explicitly update them.
func (s *service) UpdateSellingPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*models.Vehicle, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id required")
	}
	if price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "selling price must not be negative")
	}

	vehicle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSellingPrice(ctx, id, price.Round(2)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update selling price")
	}
	vehicle.SellingPrice = price.Round(2)
	return vehicle, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*VehicleList, error) {
	list, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles")
	}
	return list, nil
}
