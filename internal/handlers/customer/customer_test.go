package customer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"crm-service/internal/domain/contact"
	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/order"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/view"
	service "crm-service/internal/service/customer"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCustomerRepo struct {
	customers map[int64]*customer.Customer
}

func (r *stubCustomerRepo) Create(_ context.Context, c *customer.Customer) error {
	c.ID = int64(len(r.customers) + 1)
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id int64) (*customer.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return c, nil
}

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

type stubOrderRepo struct {
	revenue  decimal.Decimal
	lastFrom *time.Time
	lastTo   *time.Time
}

func (r *stubOrderRepo) SumRevenue(_ context.Context, _ int64, from, to *time.Time) (decimal.Decimal, error) {
	r.lastFrom, r.lastTo = from, to
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
func (r *stubOrderRepo) CountByCustomer(context.Context, int64) (int64, error) { return 0, nil }
func (r *stubOrderRepo) Recent(context.Context, int) ([]order.Info, error)     { return nil, nil }
func (r *stubOrderRepo) Count(context.Context) (int64, error)                  { return 0, nil }
func (r *stubOrderRepo) SumTotal(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type stubContactRepo struct{}

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
func (r *stubContactRepo) LastContactTime(context.Context, int64) (*time.Time, error) {
	return nil, nil
}
func (r *stubContactRepo) Recent(context.Context, int) ([]contact.Info, error) { return nil, nil }
func (r *stubContactRepo) Count(context.Context) (int64, error)                { return 0, nil }

func newTestRouter() (*gin.Engine, *stubOrderRepo) {
	gin.SetMode(gin.TestMode)

	anna := &customer.Customer{ID: 7, FirstName: "Anna", LastName: "Berger", CreatedAt: time.Now().UTC()}
	customerRepo := &stubCustomerRepo{customers: map[int64]*customer.Customer{7: anna}}
	orderRepo := &stubOrderRepo{revenue: decimal.Zero}

	svc := service.NewCustomerService(customerRepo, orderRepo, &stubContactRepo{}, zap.NewNop())
	h := NewCustomerHandler(svc)

	r := gin.New()
	r.SetHTMLTemplate(view.Must(time.UTC))
	r.GET("/customers/:id", h.Detail)
	r.GET("/customers/:id/revenue", h.Revenue)
	r.GET("/customers/new", h.NewForm)
	r.POST("/customers/new", h.Create)
	return r, orderRepo
}

func TestRevenueEndpoint(t *testing.T) {
	r, orderRepo := newTestRouter()
	orderRepo.revenue = decimal.RequireFromString("119.97")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/customers/7/revenue?from=2025-01-01&to=2025-12-31", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	dec := json.NewDecoder(w.Body)
	dec.UseNumber()
	var body map[string]any
	require.NoError(t, dec.Decode(&body))

	assert.Equal(t, json.Number("119.97"), body["revenue"])
	assert.Equal(t, "Berger, Anna", body["customer_name"])
	assert.Equal(t, "2025-01-01", body["date_from"])
	assert.Equal(t, "2025-12-31", body["date_to"])

	// The to date must cover its whole day.
	require.NotNil(t, orderRepo.lastTo)
	assert.Equal(t, 23, orderRepo.lastTo.Hour())
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), *orderRepo.lastFrom)
}

func TestRevenueEndpointMissingDates(t *testing.T) {
	r, _ := newTestRouter()

	for _, path := range []string{
		"/customers/7/revenue",
		"/customers/7/revenue?from=2025-01-01",
		"/customers/7/revenue?to=2025-12-31",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), "required")
	}
}

func TestRevenueEndpointMalformedDates(t *testing.T) {
	r, _ := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/customers/7/revenue?from=01.01.2025&to=2025-12-31", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid date format")
}

func TestRevenueEndpointUnknownCustomer(t *testing.T) {
	r, _ := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/customers/999/revenue?from=2025-01-01&to=2025-12-31", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDetailIgnoresMalformedDates(t *testing.T) {
	r, _ := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/customers/7?from=bad&to=2025-01-01", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Berger, Anna")
}

func TestDetailUnknownCustomer(t *testing.T) {
	r, _ := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/customers/999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateReRendersOnMissingName(t *testing.T) {
	r, _ := newTestRouter()

	form := url.Values{"first_name": {"Anna"}}
	req := httptest.NewRequest(http.MethodPost, "/customers/new", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "First and last name are required!")
	// Submitted values survive the re-render.
	assert.Contains(t, w.Body.String(), `value="Anna"`)
}

func TestCreateRedirectsOnSuccess(t *testing.T) {
	r, _ := newTestRouter()

	form := url.Values{"first_name": {"Max"}, "last_name": {"Huber"}}
	req := httptest.NewRequest(http.MethodPost, "/customers/new", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/customers/")
}
