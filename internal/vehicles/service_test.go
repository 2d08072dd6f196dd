package vehicles

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	pkgerrors "github.com/pulseautomarket/desking-backend/pkg/errors"
	"github.com/pulseautomarket/desking-backend/pkg/pagination"
)

func setupVehiclesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = gdb.Exec(`
		CREATE TABLE IF NOT EXISTS vehicles (
			id TEXT PRIMARY KEY,
			vin TEXT NOT NULL UNIQUE,
			year INTEGER NOT NULL,
			make TEXT NOT NULL,
			model TEXT NOT NULL,
			trim TEXT,
			condition TEXT NOT NULL,
			mileage INTEGER NOT NULL DEFAULT 0,
			msrp NUMERIC NOT NULL,
			invoice_price NUMERIC,
			selling_price NUMERIC NOT NULL,
			features TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`).Error
	require.NoError(t, err)

	return gdb
}

func newVehiclesService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(setupVehiclesTestDB(t)))
	require.NoError(t, err)
	return svc
}

func codeOf(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	return appErr.Code()
}

func testVIN(seq int) string {
	// 17 characters, unique per call within a run.
	return fmt.Sprintf("1HGCM82633A%06d", seq)
}

func validInput(seq int) CreateVehicleInput {
	return CreateVehicleInput{
		VIN:          testVIN(seq),
		Year:         2024,
		Make:         "Honda",
		Model:        "Accord",
		Mileage:      12000,
		MSRP:         decimal.NewFromInt(32000),
		SellingPrice: decimal.NewFromInt(29500),
	}
}

func TestCreateVehicle(t *testing.T) {
	svc := newVehiclesService(t)

	input := validInput(100)
	input.VIN = "  1hgcm82633a000100 "

	vehicle, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, vehicle.ID)
	require.Equal(t, "1HGCM82633A000100", vehicle.VIN, "vin should be normalized to upper case")
	require.Equal(t, "used", vehicle.Condition.String(), "condition defaults to used")
	require.True(t, vehicle.SellingPrice.Equal(decimal.NewFromInt(29500)))
}

func TestCreateVehicleValidation(t *testing.T) {
	svc := newVehiclesService(t)

	cases := []struct {
		name   string
		mutate func(*CreateVehicleInput)
	}{
		{"short vin", func(in *CreateVehicleInput) { in.VIN = "ABC123" }},
		{"year too old", func(in *CreateVehicleInput) { in.Year = 1979 }},
		{"missing make", func(in *CreateVehicleInput) { in.Make = " " }},
		{"missing model", func(in *CreateVehicleInput) { in.Model = "" }},
		{"negative mileage", func(in *CreateVehicleInput) { in.Mileage = -1 }},
		{"negative price", func(in *CreateVehicleInput) { in.SellingPrice = decimal.NewFromInt(-5) }},
		{"bad condition", func(in *CreateVehicleInput) { in.Condition = "totaled" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput(200)
			tc.mutate(&input)
			_, err := svc.Create(context.Background(), input)
			require.Error(t, err)
			require.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))
		})
	}
}

func TestCreateVehicleDuplicateVIN(t *testing.T) {
	svc := newVehiclesService(t)

	_, err := svc.Create(context.Background(), validInput(300))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validInput(300))
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeConflict, codeOf(t, err))
}

func TestGetByVIN(t *testing.T) {
	svc := newVehiclesService(t)

	created, err := svc.Create(context.Background(), validInput(400))
	require.NoError(t, err)

	found, err := svc.GetByVIN(context.Background(), "  "+created.VIN+" ")
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)

	_, err = svc.GetByVIN(context.Background(), testVIN(999999))
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))
}

func TestGetVehicleNotFound(t *testing.T) {
	svc := newVehiclesService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))
}

func TestUpdateSellingPrice(t *testing.T) {
	svc := newVehiclesService(t)

	created, err := svc.Create(context.Background(), validInput(500))
	require.NoError(t, err)

	updated, err := svc.UpdateSellingPrice(context.Background(), created.ID, decimal.NewFromFloat(28250.505))
	require.NoError(t, err)
	require.Equal(t, "28250.51", updated.SellingPrice.StringFixed(2))

	reloaded, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "28250.51", reloaded.SellingPrice.StringFixed(2))

	_, err = svc.UpdateSellingPrice(context.Background(), created.ID, decimal.NewFromInt(-1))
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))

	_, err = svc.UpdateSellingPrice(context.Background(), uuid.New(), decimal.NewFromInt(1000))
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))
}

func TestListVehiclesPagination(t *testing.T) {
	svc := newVehiclesService(t)

	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), validInput(600+i))
		require.NoError(t, err)
	}

	seen := map[string]bool{}
	cursor := ""
	pages := 0
	for {
		page, err := svc.List(context.Background(), pagination.Params{Limit: 2, Cursor: cursor})
		require.NoError(t, err)
		for _, v := range page.Vehicles {
			require.False(t, seen[v.VIN], "vehicle %s returned twice", v.VIN)
			seen[v.VIN] = true
		}
		pages++
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}
	require.GreaterOrEqual(t, len(seen), 5)
	require.GreaterOrEqual(t, pages, 3)
}
