package order

import (
	"context"
	"testing"
	"time"

	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/order"
	"crm-service/internal/domain/product"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCustomerRepo struct {
	customers map[int64]*customer.Customer
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id int64) (*customer.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) Create(context.Context, *customer.Customer) error { return nil }
func (r *stubCustomerRepo) Update(context.Context, *customer.Customer) error { return nil }
func (r *stubCustomerRepo) Delete(context.Context, int64) error              { return nil }
func (r *stubCustomerRepo) List(context.Context, *customer.ListFilters) ([]customer.Customer, int64, error) {
	return nil, 0, nil
}
func (r *stubCustomerRepo) ListAll(context.Context) ([]customer.Customer, error) { return nil, nil }
func (r *stubCustomerRepo) Recent(context.Context, int) ([]customer.Customer, error) {
	return nil, nil
}
func (r *stubCustomerRepo) Count(context.Context) (int64, error) { return 0, nil }
func (r *stubCustomerRepo) ExistsByEmail(context.Context, string, int64) (bool, error) {
	return false, nil
}

type stubProductRepo struct {
	products map[int64]*product.Product
}

func (r *stubProductRepo) FindByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) Create(context.Context, *product.Product) error     { return nil }
func (r *stubProductRepo) ListAll(context.Context) ([]product.Product, error) { return nil, nil }

type stubOrderRepo struct {
	createCalls int
	lastOrder   *order.Order
	lastItems   []order.Item
}

func (r *stubOrderRepo) Create(_ context.Context, o *order.Order, items []order.Item) error {
	r.createCalls++
	o.ID = int64(r.createCalls)
	r.lastOrder = o
	r.lastItems = items
	return nil
}

func (r *stubOrderRepo) FindByID(context.Context, int64) (*order.Info, error) {
	return nil, xerrors.ErrNotFound
}
func (r *stubOrderRepo) Items(context.Context, int64) ([]order.ItemInfo, error) { return nil, nil }
func (r *stubOrderRepo) List(context.Context, *order.ListFilters) ([]order.Info, int64, error) {
	return nil, 0, nil
}
func (r *stubOrderRepo) ListByCustomer(context.Context, int64, int, int) ([]order.Order, int64, error) {
	return nil, 0, nil
}
func (r *stubOrderRepo) RecentByCustomer(context.Context, int64, int) ([]order.Order, error) {
	return nil, nil
}
func (r *stubOrderRepo) CountByCustomer(context.Context, int64) (int64, error) { return 0, nil }
func (r *stubOrderRepo) SumRevenue(context.Context, int64, *time.Time, *time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (r *stubOrderRepo) Recent(context.Context, int) ([]order.Info, error) { return nil, nil }
func (r *stubOrderRepo) Count(context.Context) (int64, error)              { return 0, nil }
func (r *stubOrderRepo) SumTotal(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func newTestService() (*OrderService, *stubOrderRepo, *stubProductRepo) {
	orderRepo := &stubOrderRepo{}
	productRepo := &stubProductRepo{products: map[int64]*product.Product{
		1: {ID: 1, Name: "Product Alpha", BasePrice: decimal.RequireFromString("29.99")},
		2: {ID: 2, Name: "Product Beta", BasePrice: decimal.RequireFromString("59.99")},
	}}
	customerRepo := &stubCustomerRepo{customers: map[int64]*customer.Customer{
		7: {ID: 7, FirstName: "Anna", LastName: "Berger"},
	}}
	svc := NewOrderService(orderRepo, customerRepo, productRepo, zap.NewNop())
	return svc, orderRepo, productRepo
}

func TestCreateComputesExactTotal(t *testing.T) {
	svc, repo, _ := newTestService()

	o, err := svc.Create(context.Background(), &order.CreateRequest{
		CustomerID: 7,
		Status:     order.StatusOpen,
		Lines: []order.LineInput{
			{ProductID: "1", Quantity: "2"},
			{ProductID: "2", Quantity: "1"},
		},
	})
	require.NoError(t, err)

	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("119.97")),
		"got total %s", o.TotalAmount)
	require.Len(t, repo.lastItems, 2)
	assert.True(t, repo.lastItems[0].UnitPrice.Equal(decimal.RequireFromString("29.99")))
	assert.Equal(t, 2, repo.lastItems[0].Quantity)
}

func TestCreateSkipsInvalidLines(t *testing.T) {
	svc, repo, _ := newTestService()

	o, err := svc.Create(context.Background(), &order.CreateRequest{
		CustomerID: 7,
		Lines: []order.LineInput{
			{ProductID: "not-a-number", Quantity: "1"},
			{ProductID: "1", Quantity: "zero"},
			{ProductID: "1", Quantity: "0"},
			{ProductID: "1", Quantity: "-2"},
			{ProductID: "999", Quantity: "1"},
			{ProductID: "2", Quantity: "3"},
		},
	})
	require.NoError(t, err)

	require.Len(t, repo.lastItems, 1)
	assert.Equal(t, int64(2), repo.lastItems[0].ProductID)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("179.97")),
		"got total %s", o.TotalAmount)
}

func TestCreateRejectsOrderWithoutValidLines(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.Create(context.Background(), &order.CreateRequest{
		CustomerID: 7,
		Lines: []order.LineInput{
			{ProductID: "999", Quantity: "1"},
			{ProductID: "1", Quantity: "0"},
		},
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	assert.Zero(t, repo.createCalls, "nothing may be written")
}

func TestCreateUnknownCustomer(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.Create(context.Background(), &order.CreateRequest{
		CustomerID: 404,
		Lines:      []order.LineInput{{ProductID: "1", Quantity: "1"}},
	})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
	assert.Zero(t, repo.createCalls)
}

func TestCreateInvalidStatusFallsBackToOpen(t *testing.T) {
	svc, repo, _ := newTestService()

	o, err := svc.Create(context.Background(), &order.CreateRequest{
		CustomerID: 7,
		Status:     "Shipped",
		Lines:      []order.LineInput{{ProductID: "1", Quantity: "1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, order.StatusOpen, o.Status)
	assert.Equal(t, order.StatusOpen, repo.lastOrder.Status)
}

func TestCreateFreezesUnitPrice(t *testing.T) {
	svc, repo, products := newTestService()

	_, err := svc.Create(context.Background(), &order.CreateRequest{
		CustomerID: 7,
		Lines:      []order.LineInput{{ProductID: "1", Quantity: "1"}},
	})
	require.NoError(t, err)

	// A later catalogue price change must not touch the stored item price.
	products.products[1].BasePrice = decimal.RequireFromString("99.99")
	assert.True(t, repo.lastItems[0].UnitPrice.Equal(decimal.RequireFromString("29.99")))
}
