package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gp-dashboard/internal/storage"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetMaterialRows(ctx context.Context, category storage.MaterialCategory, date time.Time) ([]*storage.MaterialRow, error) {
	args := m.Called(ctx, category, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.MaterialRow), args.Error(1)
}

func (m *MockStorage) ApplyMaterialChanges(ctx context.Context, category storage.MaterialCategory, date time.Time, changes storage.MaterialChanges) error {
	args := m.Called(ctx, category, date, changes)
	return args.Error(0)
}

type MockEstimator struct {
	mock.Mock
}

func (m *MockEstimator) Estimate(ctx context.Context, co string, asOf time.Time) (int, error) {
	args := m.Called(ctx, co, asOf)
	return args.Int(0), args.Error(1)
}

var runDate = time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)

func demandOf(bco, buname string, kg float64) storage.MaterialDemand {
	return storage.MaterialDemand{BCO: bco, BUName: buname, PlanKG: decimal.NewFromFloat(kg)}
}

// capturedChanges pulls the change-set out of the mock call for inspection.
func capturedChanges(m *MockStorage) storage.MaterialChanges {
	for _, call := range m.Calls {
		if call.Method == "ApplyMaterialChanges" {
			return call.Arguments.Get(3).(storage.MaterialChanges)
		}
	}
	return storage.MaterialChanges{}
}

func TestReconcile_NewMaterialInserted(t *testing.T) {
	mockStorage := new(MockStorage)
	mockEstimator := new(MockEstimator)

	mockStorage.On("GetMaterialRows", mock.Anything, storage.CategoryRaw, runDate).
		Return([]*storage.MaterialRow{}, nil)
	mockEstimator.On("Estimate", mock.Anything, "M1", runDate).Return(8, nil)
	mockStorage.On("ApplyMaterialChanges", mock.Anything, storage.CategoryRaw, runDate, mock.Anything).
		Return(nil)

	r := New(mockStorage, mockEstimator)

	result, err := r.Reconcile(context.Background(), storage.CategoryRaw, runDate,
		[]storage.MaterialDemand{demandOf("M1", "정선 목심", 50)})

	assert.NoError(t, err)
	assert.Equal(t, Result{Inserted: 1}, result)

	changes := capturedChanges(mockStorage)
	assert.Len(t, changes.Inserts, 1)
	assert.Equal(t, "M1", changes.Inserts[0].CO)
	assert.Equal(t, "정선 목심", changes.Inserts[0].UName)
	assert.Equal(t, 8, changes.Inserts[0].Stock)
	assert.Equal(t, 50, changes.Inserts[0].OrderQty)
	assert.Empty(t, changes.Updates)
	assert.Empty(t, changes.Deletes)
}

// For an existing key only order_qty_after moves; the manual fields are not
// part of the update at all, and the stock estimator is never consulted.
func TestReconcile_ExistingMaterialUpdatedByPK(t *testing.T) {
	mockStorage := new(MockStorage)
	mockEstimator := new(MockEstimator)

	existing := []*storage.MaterialRow{
		{PK: 7, CO: "M1", UName: "정선 목심", Stock: 8, OrderQty: 50, OrderQtyAfter: 50, PreproQty: 12, IpgoQty: 3},
	}
	mockStorage.On("GetMaterialRows", mock.Anything, storage.CategoryRaw, runDate).
		Return(existing, nil)
	mockStorage.On("ApplyMaterialChanges", mock.Anything, storage.CategoryRaw, runDate, mock.Anything).
		Return(nil)

	r := New(mockStorage, mockEstimator)

	result, err := r.Reconcile(context.Background(), storage.CategoryRaw, runDate,
		[]storage.MaterialDemand{demandOf("M1", "정선 목심", 40)})

	assert.NoError(t, err)
	assert.Equal(t, Result{Updated: 1}, result)

	changes := capturedChanges(mockStorage)
	assert.Equal(t, []storage.MaterialUpdate{{PK: 7, OrderQtyAfter: 40}}, changes.Updates)
	assert.Empty(t, changes.Inserts)
	assert.Empty(t, changes.Deletes)
	mockEstimator.AssertNotCalled(t, "Estimate", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_StaleKeyDeleted(t *testing.T) {
	mockStorage := new(MockStorage)
	mockEstimator := new(MockEstimator)

	existing := []*storage.MaterialRow{
		{PK: 7, CO: "M1", UName: "정선 목심", OrderQtyAfter: 50},
		{PK: 8, CO: "M2", UName: "정선 등심", OrderQtyAfter: 20},
	}
	mockStorage.On("GetMaterialRows", mock.Anything, storage.CategoryRaw, runDate).
		Return(existing, nil)
	mockStorage.On("ApplyMaterialChanges", mock.Anything, storage.CategoryRaw, runDate, mock.Anything).
		Return(nil)

	r := New(mockStorage, mockEstimator)

	result, err := r.Reconcile(context.Background(), storage.CategoryRaw, runDate,
		[]storage.MaterialDemand{demandOf("M1", "정선 목심", 50)})

	assert.NoError(t, err)
	assert.Equal(t, Result{Deleted: 1}, result)

	changes := capturedChanges(mockStorage)
	assert.Equal(t, []storage.MaterialKey{{CO: "M2", UName: "정선 등심"}}, changes.Deletes)
	assert.Empty(t, changes.Updates) // M1 already at 50: no-op skipped
}

// Second run on unchanged inputs applies nothing at all.
func TestReconcile_Idempotent(t *testing.T) {
	mockStorage := new(MockStorage)
	mockEstimator := new(MockEstimator)

	existing := []*storage.MaterialRow{
		{PK: 7, CO: "M1", UName: "정선 목심", Stock: 8, OrderQty: 50, OrderQtyAfter: 50},
	}
	mockStorage.On("GetMaterialRows", mock.Anything, storage.CategoryRaw, runDate).
		Return(existing, nil)

	r := New(mockStorage, mockEstimator)

	result, err := r.Reconcile(context.Background(), storage.CategoryRaw, runDate,
		[]storage.MaterialDemand{demandOf("M1", "정선 목심", 50)})

	assert.NoError(t, err)
	assert.Equal(t, Result{}, result)
	mockStorage.AssertNotCalled(t, "ApplyMaterialChanges", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Same material name under a new code while the old code disappears: the
// delete and the insert travel in one change-set, delete first.
func TestReconcile_KeySwapDeleteAndInsertTogether(t *testing.T) {
	mockStorage := new(MockStorage)
	mockEstimator := new(MockEstimator)

	existing := []*storage.MaterialRow{
		{PK: 7, CO: "M1", UName: "정선 목심", OrderQtyAfter: 50},
	}
	mockStorage.On("GetMaterialRows", mock.Anything, storage.CategoryRaw, runDate).
		Return(existing, nil)
	mockEstimator.On("Estimate", mock.Anything, "M9", runDate).Return(0, nil)
	mockStorage.On("ApplyMaterialChanges", mock.Anything, storage.CategoryRaw, runDate, mock.Anything).
		Return(nil)

	r := New(mockStorage, mockEstimator)

	result, err := r.Reconcile(context.Background(), storage.CategoryRaw, runDate,
		[]storage.MaterialDemand{demandOf("M9", "정선 목심", 50)})

	assert.NoError(t, err)
	assert.Equal(t, Result{Inserted: 1, Deleted: 1}, result)

	changes := capturedChanges(mockStorage)
	assert.Equal(t, []storage.MaterialKey{{CO: "M1", UName: "정선 목심"}}, changes.Deletes)
	assert.Len(t, changes.Inserts, 1)
	assert.Equal(t, "M9", changes.Inserts[0].CO)
}

func TestReconcile_DemandRounded(t *testing.T) {
	mockStorage := new(MockStorage)
	mockEstimator := new(MockEstimator)

	mockStorage.On("GetMaterialRows", mock.Anything, storage.CategorySauce, runDate).
		Return([]*storage.MaterialRow{}, nil)
	mockEstimator.On("Estimate", mock.Anything, "S1", runDate).Return(0, nil)
	mockStorage.On("ApplyMaterialChanges", mock.Anything, storage.CategorySauce, runDate, mock.Anything).
		Return(nil)

	r := New(mockStorage, mockEstimator)

	_, err := r.Reconcile(context.Background(), storage.CategorySauce, runDate,
		[]storage.MaterialDemand{demandOf("S1", "간장소스", 12.6)})

	assert.NoError(t, err)
	changes := capturedChanges(mockStorage)
	assert.Equal(t, 13, changes.Inserts[0].OrderQty)
}

func TestReconcile_StockFailureAbortsBeforeApply(t *testing.T) {
	mockStorage := new(MockStorage)
	mockEstimator := new(MockEstimator)

	mockStorage.On("GetMaterialRows", mock.Anything, storage.CategoryRaw, runDate).
		Return([]*storage.MaterialRow{}, nil)
	mockEstimator.On("Estimate", mock.Anything, "M1", runDate).
		Return(0, errors.New("connection refused"))

	r := New(mockStorage, mockEstimator)

	_, err := r.Reconcile(context.Background(), storage.CategoryRaw, runDate,
		[]storage.MaterialDemand{demandOf("M1", "정선 목심", 50)})

	assert.Error(t, err)
	mockStorage.AssertNotCalled(t, "ApplyMaterialChanges", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
