package deals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulseautomarket/desking-backend/pkg/db/models"
	"github.com/pulseautomarket/desking-backend/pkg/pagination"
)

// Repository defines persistence operations for the deals table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, deal *models.Deal) (*models.Deal, error)
	FindByID(ctx context.Context, dealerID, dealID uuid.UUID) (*models.Deal, error)
	Save(ctx context.Context, deal *models.Deal) error
	List(ctx context.Context, dealerID uuid.UUID, params pagination.Params, filters ListFilters) (*DealList, error)
	Stats(ctx context.Context, dealerID uuid.UUID) (*DealerStats, error)
}

// VehicleSource looks up inventory for deal creation and menu pricing.
type VehicleSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
