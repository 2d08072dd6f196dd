package vehicles

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pulseautomarket/desking-backend/pkg/db/models"
	"github.com/pulseautomarket/desking-backend/pkg/pagination"
)

// Repository defines persistence operations for the vehicles table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	FindByVIN(ctx context.Context, vin string) (*models.Vehicle, error)
	UpdateSellingPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error
	List(ctx context.Context, params pagination.Params) (*VehicleList, error)
}

// VehicleList is one page of inventory plus the cursor for the next page.
type VehicleList struct {
	Vehicles   []models.Vehicle `json:"vehicles"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a vehicles repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if err := r.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *repository) FindByVIN(ctx context.Context, vin string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).Where("vin = ?", strings.ToUpper(strings.TrimSpace(vin))).First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *repository) UpdateSellingPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", id).
		Update("selling_price", price).Error
}

func (r *repository) List(ctx context.Context, params pagination.Params) (*VehicleList, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Vehicle{})
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.Vehicle
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &VehicleList{}
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &cursor
	}
	list.Vehicles = rows
	return list, nil
}
