package customer

import (
	"context"
	"testing"
	"time"

	"crm-service/internal/domain/contact"
	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/order"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCustomerRepo struct {
	customers   map[int64]*customer.Customer
	emails      map[string]int64
	nextID      int64
	lastFilters *customer.ListFilters
	listResult  []customer.Customer
	listTotal   int64
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{
		customers: map[int64]*customer.Customer{},
		emails:    map[string]int64{},
	}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *customer.Customer) error {
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now().UTC()
	r.customers[c.ID] = c
	if c.Email.Valid {
		r.emails[c.Email.String] = c.ID
	}
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id int64) (*customer.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *customer.Customer) error {
	if _, ok := r.customers[c.ID]; !ok {
		return xerrors.ErrNotFound
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.customers[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) List(_ context.Context, filters *customer.ListFilters) ([]customer.Customer, int64, error) {
	r.lastFilters = filters
	return r.listResult, r.listTotal, nil
}

func (r *stubCustomerRepo) ListAll(context.Context) ([]customer.Customer, error) { return nil, nil }
func (r *stubCustomerRepo) Recent(context.Context, int) ([]customer.Customer, error) {
	return nil, nil
}
func (r *stubCustomerRepo) Count(context.Context) (int64, error) { return 0, nil }

func (r *stubCustomerRepo) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	id, ok := r.emails[email]
	return ok && id != excludeID, nil
}

type stubOrderRepo struct {
	revenue      decimal.Decimal
	revenueCalls []struct{ from, to *time.Time }
	orderCount   int64
}

func (r *stubOrderRepo) SumRevenue(_ context.Context, _ int64, from, to *time.Time) (decimal.Decimal, error) {
	r.revenueCalls = append(r.revenueCalls, struct{ from, to *time.Time }{from, to})
	return r.revenue, nil
}

func (r *stubOrderRepo) Create(context.Context, *order.Order, []order.Item) error { return nil }
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
func (r *stubOrderRepo) CountByCustomer(context.Context, int64) (int64, error) {
	return r.orderCount, nil
}
func (r *stubOrderRepo) Recent(context.Context, int) ([]order.Info, error) { return nil, nil }
func (r *stubOrderRepo) Count(context.Context) (int64, error)              { return 0, nil }
func (r *stubOrderRepo) SumTotal(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type stubContactRepo struct {
	lastContact *time.Time
}

func (r *stubContactRepo) LastContactTime(context.Context, int64) (*time.Time, error) {
	return r.lastContact, nil
}

func (r *stubContactRepo) Create(context.Context, *contact.Contact) error { return nil }
func (r *stubContactRepo) FindByID(context.Context, int64) (*contact.Info, error) {
	return nil, xerrors.ErrNotFound
}
func (r *stubContactRepo) List(context.Context, *contact.ListFilters) ([]contact.Info, int64, error) {
	return nil, 0, nil
}
func (r *stubContactRepo) ListByCustomer(context.Context, int64, int, int) ([]contact.Info, int64, error) {
	return nil, 0, nil
}
func (r *stubContactRepo) RecentByCustomer(context.Context, int64, int) ([]contact.Info, error) {
	return nil, nil
}
func (r *stubContactRepo) CountByCustomer(context.Context, int64) (int64, error) { return 0, nil }
func (r *stubContactRepo) Recent(context.Context, int) ([]contact.Info, error)   { return nil, nil }
func (r *stubContactRepo) Count(context.Context) (int64, error)                  { return 0, nil }

func newTestService() (*CustomerService, *stubCustomerRepo, *stubOrderRepo, *stubContactRepo) {
	customerRepo := newStubCustomerRepo()
	orderRepo := &stubOrderRepo{revenue: decimal.Zero}
	contactRepo := &stubContactRepo{}
	svc := NewCustomerService(customerRepo, orderRepo, contactRepo, zap.NewNop())
	return svc, customerRepo, orderRepo, contactRepo
}

func TestCreateRequiresNames(t *testing.T) {
	svc, _, _, _ := newTestService()

	for _, form := range []*customer.Form{
		{FirstName: "", LastName: "Berger"},
		{FirstName: "Anna", LastName: ""},
		{FirstName: "   ", LastName: "Berger"},
	} {
		_, err := svc.Create(context.Background(), form)
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	}
}

func TestCreateTrimsFields(t *testing.T) {
	svc, _, _, _ := newTestService()

	c, err := svc.Create(context.Background(), &customer.Form{
		FirstName: "  Anna ",
		LastName:  " Berger ",
		Email:     " anna@example.com ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Anna", c.FirstName)
	assert.Equal(t, "Berger, Anna", c.FullName())
	assert.Equal(t, "anna@example.com", c.Email.String)
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Create(context.Background(), &customer.Form{
		FirstName: "Anna", LastName: "Berger", Email: "anna@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &customer.Form{
		FirstName: "Max", LastName: "Huber", Email: "anna@example.com",
	})
	assert.ErrorIs(t, err, xerrors.ErrDuplicateEntry)
}

func TestUpdateKeepsOwnEmail(t *testing.T) {
	svc, _, _, _ := newTestService()

	c, err := svc.Create(context.Background(), &customer.Form{
		FirstName: "Anna", LastName: "Berger", Email: "anna@example.com",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), c.ID, &customer.Form{
		FirstName: "Anna", LastName: "Wagner", Email: "anna@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Wagner", updated.LastName)
}

func TestListNormalizesFilters(t *testing.T) {
	svc, repo, _, _ := newTestService()

	_, _, err := svc.List(context.Background(), &customer.ListFilters{
		SortBy: "favourite_color",
		Page:   -4,
	})
	require.NoError(t, err)
	assert.Equal(t, customer.SortByName, repo.lastFilters.SortBy)
	assert.Equal(t, 1, repo.lastFilters.Page)
	assert.Equal(t, PerPage, repo.lastFilters.PageSize)
}

func TestListOutOfRangePageIsEmptyNotError(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.listResult = nil
	repo.listTotal = 5

	items, page, err := svc.List(context.Background(), &customer.ListFilters{Page: 999})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 999, page.Number)
	assert.Equal(t, int64(5), page.TotalItems)
	assert.Equal(t, 1, page.TotalPages)
}

func TestRevenueInRangeUnknownCustomer(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.RevenueInRange(context.Background(), 404, nil, nil)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestRevenueInRangePassesBounds(t *testing.T) {
	svc, _, orderRepo, _ := newTestService()
	c, err := svc.Create(context.Background(), &customer.Form{FirstName: "Anna", LastName: "Berger"})
	require.NoError(t, err)

	orderRepo.revenue = decimal.RequireFromString("119.97")
	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC)

	rev, err := svc.RevenueInRange(context.Background(), c.ID, &from, &to)
	require.NoError(t, err)
	assert.True(t, rev.Equal(decimal.RequireFromString("119.97")))

	require.Len(t, orderRepo.revenueCalls, 1)
	assert.Equal(t, &from, orderRepo.revenueCalls[0].from)
	assert.Equal(t, &to, orderRepo.revenueCalls[0].to)
}

func TestDetailQueriesPreviousCalendarYear(t *testing.T) {
	svc, _, orderRepo, contactRepo := newTestService()
	c, err := svc.Create(context.Background(), &customer.Form{FirstName: "Anna", LastName: "Berger"})
	require.NoError(t, err)

	lastContact := time.Now().UTC().AddDate(0, 0, -3)
	contactRepo.lastContact = &lastContact
	orderRepo.revenue = decimal.RequireFromString("1500.00")
	orderRepo.orderCount = 4

	detail, err := svc.Detail(context.Background(), c.ID, nil, nil)
	require.NoError(t, err)

	// Unbounded total first, then the previous calendar year.
	require.GreaterOrEqual(t, len(orderRepo.revenueCalls), 2)
	assert.Nil(t, orderRepo.revenueCalls[0].from)
	assert.Nil(t, orderRepo.revenueCalls[0].to)

	wantYear := time.Now().UTC().Year() - 1
	yearCall := orderRepo.revenueCalls[1]
	require.NotNil(t, yearCall.from)
	require.NotNil(t, yearCall.to)
	assert.Equal(t, wantYear, yearCall.from.Year())
	assert.Equal(t, time.January, yearCall.from.Month())
	assert.Equal(t, wantYear, yearCall.to.Year())
	assert.Equal(t, time.December, yearCall.to.Month())

	// 25 (revenue 1500) + 15 (4 orders) + 30 (contacted 3 days ago)
	assert.Equal(t, 70, detail.Score.Score)
	assert.Nil(t, detail.FilteredRevenue)
}
