package stock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLedgerStorage struct {
	mock.Mock
}

func (m *MockLedgerStorage) StockGroupNets(ctx context.Context, co string, asOf time.Time) ([]int, error) {
	args := m.Called(ctx, co, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

var asOf = time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)

func TestEstimate_OnlyPositiveGroupsCount(t *testing.T) {
	mockStorage := new(MockLedgerStorage)
	mockStorage.On("StockGroupNets", mock.Anything, "M1", asOf).Return([]int{5, -3, 2}, nil)

	e := New(mockStorage)

	total, err := e.Estimate(context.Background(), "M1", asOf)

	assert.NoError(t, err)
	assert.Equal(t, 7, total)
}

// A negative group is excluded, not netted against the positive one: the
// result is 5, never 2.
func TestEstimate_NegativeGroupDoesNotOffset(t *testing.T) {
	mockStorage := new(MockLedgerStorage)
	mockStorage.On("StockGroupNets", mock.Anything, "M1", asOf).Return([]int{5, -3}, nil)

	e := New(mockStorage)

	total, err := e.Estimate(context.Background(), "M1", asOf)

	assert.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestEstimate_ZeroGroupsExcluded(t *testing.T) {
	mockStorage := new(MockLedgerStorage)
	mockStorage.On("StockGroupNets", mock.Anything, "M1", asOf).Return([]int{0, 0, 4}, nil)

	e := New(mockStorage)

	total, err := e.Estimate(context.Background(), "M1", asOf)

	assert.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestEstimate_NoLedgerRowsIsZero(t *testing.T) {
	mockStorage := new(MockLedgerStorage)
	mockStorage.On("StockGroupNets", mock.Anything, "M1", asOf).Return([]int{}, nil)

	e := New(mockStorage)

	total, err := e.Estimate(context.Background(), "M1", asOf)

	assert.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestEstimate_QueryFailureSurfaces(t *testing.T) {
	mockStorage := new(MockLedgerStorage)
	mockStorage.On("StockGroupNets", mock.Anything, "M1", asOf).
		Return(nil, errors.New("connection refused"))

	e := New(mockStorage)

	_, err := e.Estimate(context.Background(), "M1", asOf)

	assert.Error(t, err)
}
