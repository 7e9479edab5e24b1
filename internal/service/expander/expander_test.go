package expander

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gp-dashboard/internal/storage"
)

type MockRecipeStorage struct {
	mock.Mock
}

func (m *MockRecipeStorage) RecipeLinks(ctx context.Context, coList []string, keyword string, bcoList []string) ([]*storage.RecipeLink, error) {
	args := m.Called(ctx, coList, keyword, bcoList)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.RecipeLink), args.Error(1)
}

func orderRow(co string, plan int, pkg float64) *storage.OrderRow {
	return &storage.OrderRow{CO: co, ProductionPlan: plan, PKG: pkg}
}

func kg(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestExpand_SingleProductSingleMaterial(t *testing.T) {
	mockStorage := new(MockRecipeStorage)

	links := []*storage.RecipeLink{
		{CO: "A", BCO: "M1", BUName: "정선 목심", SA: 50},
	}
	mockStorage.On("RecipeLinks", mock.Anything, []string{"A"}, "(정선)", []string(nil)).
		Return(links, nil)

	e := New(mockStorage)

	demand, err := e.Expand(context.Background(), []*storage.OrderRow{orderRow("A", 100, 1.0)}, Filter{Keyword: "(정선)"})

	assert.NoError(t, err)
	assert.Len(t, demand, 1)
	assert.Equal(t, "M1", demand[0].BCO)
	assert.Equal(t, "정선 목심", demand[0].BUName)
	assert.True(t, demand[0].PlanKG.Equal(kg("50")), "expected 50kg, got %s", demand[0].PlanKG)
}

// Two products sharing one material sum into a single aggregate.
func TestExpand_SharedMaterialSums(t *testing.T) {
	mockStorage := new(MockRecipeStorage)

	links := []*storage.RecipeLink{
		{CO: "A", BCO: "M1", BUName: "정선 목심", SA: 50},
		{CO: "B", BCO: "M1", BUName: "정선 목심", SA: 100},
	}
	mockStorage.On("RecipeLinks", mock.Anything, []string{"A", "B"}, "(정선)", []string(nil)).
		Return(links, nil)

	e := New(mockStorage)

	orders := []*storage.OrderRow{
		orderRow("A", 100, 1.0), // 100 * 1.0 * 0.5  = 50
		orderRow("B", 10, 0.5),  // 10  * 0.5 * 1.0  = 5
	}

	demand, err := e.Expand(context.Background(), orders, Filter{Keyword: "(정선)"})

	assert.NoError(t, err)
	assert.Len(t, demand, 1)
	assert.True(t, demand[0].PlanKG.Equal(kg("55")))
}

// A product with no matching recipe link contributes nothing; that is a
// normal outcome, not an error.
func TestExpand_ProductWithoutRecipeDropped(t *testing.T) {
	mockStorage := new(MockRecipeStorage)

	links := []*storage.RecipeLink{
		{CO: "A", BCO: "M1", BUName: "정선 목심", SA: 50},
	}
	mockStorage.On("RecipeLinks", mock.Anything, []string{"A", "Z"}, "(정선)", []string(nil)).
		Return(links, nil)

	e := New(mockStorage)

	orders := []*storage.OrderRow{
		orderRow("A", 100, 1.0),
		orderRow("Z", 500, 2.0),
	}

	demand, err := e.Expand(context.Background(), orders, Filter{Keyword: "(정선)"})

	assert.NoError(t, err)
	assert.Len(t, demand, 1)
	assert.Equal(t, "M1", demand[0].BCO)
}

func TestExpand_ZeroPlanDropped(t *testing.T) {
	mockStorage := new(MockRecipeStorage)

	links := []*storage.RecipeLink{
		{CO: "A", BCO: "M1", BUName: "정선 목심", SA: 50},
	}
	mockStorage.On("RecipeLinks", mock.Anything, []string{"A"}, "(정선)", []string(nil)).
		Return(links, nil)

	e := New(mockStorage)

	demand, err := e.Expand(context.Background(), []*storage.OrderRow{orderRow("A", 0, 1.0)}, Filter{Keyword: "(정선)"})

	assert.NoError(t, err)
	assert.Empty(t, demand)
}

func TestExpand_ExplicitMaterialCodesPassedThrough(t *testing.T) {
	mockStorage := new(MockRecipeStorage)

	vege := []string{"720192", "700122", "720094"}
	links := []*storage.RecipeLink{
		{CO: "A", BCO: "720192", BUName: "양파", SA: 10},
	}
	mockStorage.On("RecipeLinks", mock.Anything, []string{"A"}, "", vege).
		Return(links, nil)

	e := New(mockStorage)

	demand, err := e.Expand(context.Background(), []*storage.OrderRow{orderRow("A", 100, 2.0)}, Filter{BCOs: vege})

	assert.NoError(t, err)
	assert.Len(t, demand, 1)
	assert.True(t, demand[0].PlanKG.Equal(kg("20"))) // 100 * 2.0 * 0.1
}

func TestExpand_DuplicateAndPaddedProductCodes(t *testing.T) {
	mockStorage := new(MockRecipeStorage)

	links := []*storage.RecipeLink{
		{CO: "A", BCO: "M1", BUName: "정선 목심", SA: 50},
	}
	// The same code, once padded, must be collapsed before the recipe query.
	mockStorage.On("RecipeLinks", mock.Anything, []string{"A"}, "(정선)", []string(nil)).
		Return(links, nil)

	e := New(mockStorage)

	orders := []*storage.OrderRow{
		orderRow("A", 100, 1.0),
		orderRow(" A ", 100, 1.0),
	}

	demand, err := e.Expand(context.Background(), orders, Filter{Keyword: "(정선)"})

	assert.NoError(t, err)
	assert.Len(t, demand, 1)
	assert.True(t, demand[0].PlanKG.Equal(kg("100")))
	mockStorage.AssertExpectations(t)
}

func TestExpand_EmptyInputsAreEmptyNotError(t *testing.T) {
	mockStorage := new(MockRecipeStorage)

	e := New(mockStorage)

	demand, err := e.Expand(context.Background(), nil, Filter{Keyword: "(정선)"})
	assert.NoError(t, err)
	assert.Empty(t, demand)

	mockStorage.On("RecipeLinks", mock.Anything, []string{"A"}, "(정선)", []string(nil)).
		Return([]*storage.RecipeLink{}, nil)

	demand, err = e.Expand(context.Background(), []*storage.OrderRow{orderRow("A", 100, 1.0)}, Filter{Keyword: "(정선)"})
	assert.NoError(t, err)
	assert.Empty(t, demand)
}

func TestExpand_QueryFailureSurfaces(t *testing.T) {
	mockStorage := new(MockRecipeStorage)
	mockStorage.On("RecipeLinks", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	e := New(mockStorage)

	_, err := e.Expand(context.Background(), []*storage.OrderRow{orderRow("A", 100, 1.0)}, Filter{Keyword: "(정선)"})

	assert.Error(t, err)
}
