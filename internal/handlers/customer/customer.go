package customer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"crm-service/internal/domain/customer"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/view"
	service "crm-service/internal/service/customer"

	"github.com/gin-gonic/gin"
)

// dateLayout is the ISO date accepted by the from/to query parameters.
const dateLayout = "2006-01-02"

type CustomerHandler struct {
	customerService *service.CustomerService
}

func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List renders the paginated, searchable customer list.
func (h *CustomerHandler) List(c *gin.Context) {
	filters := &customer.ListFilters{
		Search: c.Query("q"),
		SortBy: c.DefaultQuery("sort", customer.SortByName),
		Page:   queryInt(c, "page", 1),
	}

	customers, page, err := h.customerService.List(c.Request.Context(), filters)
	if err != nil {
		view.ServerError(c)
		return
	}

	view.HTML(c, http.StatusOK, "customers/list", gin.H{
		"Title":     "Customers",
		"Customers": customers,
		"Page":      page,
		"Query":     filters.Search,
		"Sort":      filters.SortBy,
	})
}

// Detail renders the customer page with KPIs, score and recent activity.
// Malformed from/to dates are ignored rather than failing the request.
func (h *CustomerHandler) Detail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		view.NotFound(c)
		return
	}

	dateFrom := c.Query("from")
	dateTo := c.Query("to")
	var from, to *time.Time
	if dateFrom != "" && dateTo != "" {
		if f, t, err := parseRange(dateFrom, dateTo); err == nil {
			from, to = f, t
		}
	}

	detail, err := h.customerService.Detail(c.Request.Context(), id, from, to)
	if err != nil {
		h.renderError(c, err)
		return
	}

	view.HTML(c, http.StatusOK, "customers/detail", gin.H{
		"Title":    detail.Customer.FullName(),
		"Detail":   detail,
		"DateFrom": dateFrom,
		"DateTo":   dateTo,
	})
}

// Revenue is the JSON endpoint for date-filtered revenue lookups.
func (h *CustomerHandler) Revenue(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}

	dateFrom := c.Query("from")
	dateTo := c.Query("to")
	if dateFrom == "" || dateTo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to dates are required"})
		return
	}

	from, to, err := parseRange(dateFrom, dateTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format (expected YYYY-MM-DD)"})
		return
	}

	cust, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}

	revenue, err := h.customerService.RevenueInRange(c.Request.Context(), id, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute revenue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer_id":   id,
		"customer_name": cust.FullName(),
		"date_from":     dateFrom,
		"date_to":       dateTo,
		"revenue":       json.Number(revenue.StringFixed(2)),
	})
}

// Orders renders the paginated order sub-list of one customer.
func (h *CustomerHandler) Orders(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		view.NotFound(c)
		return
	}

	cust, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	orders, page, err := h.customerService.Orders(c.Request.Context(), id, queryInt(c, "page", 1))
	if err != nil {
		h.renderError(c, err)
		return
	}

	view.HTML(c, http.StatusOK, "customers/orders", gin.H{
		"Title":    cust.FullName() + " — Orders",
		"Customer": cust,
		"Orders":   orders,
		"Page":     page,
	})
}

// Contacts renders the paginated contact sub-list of one customer.
func (h *CustomerHandler) Contacts(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		view.NotFound(c)
		return
	}

	cust, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	contacts, page, err := h.customerService.Contacts(c.Request.Context(), id, queryInt(c, "page", 1))
	if err != nil {
		h.renderError(c, err)
		return
	}

	view.HTML(c, http.StatusOK, "customers/contacts", gin.H{
		"Title":    cust.FullName() + " — Contacts",
		"Customer": cust,
		"Contacts": contacts,
		"Page":     page,
	})
}

// NewForm renders the empty customer form.
func (h *CustomerHandler) NewForm(c *gin.Context) {
	view.HTML(c, http.StatusOK, "customers/new", gin.H{
		"Title": "New Customer",
		"Form":  &customer.Form{},
	})
}

// Create handles the customer form submission. Validation failures re-render
// the form with an inline message and the submitted values.
func (h *CustomerHandler) Create(c *gin.Context) {
	form := bindForm(c)

	created, err := h.customerService.Create(c.Request.Context(), form)
	if err != nil {
		view.HTML(c, http.StatusOK, "customers/new", gin.H{
			"Title": "New Customer",
			"Form":  form,
			"Error": formMessage(err),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/customers/%d", created.ID))
}

// EditForm renders the edit form pre-filled with the customer's data.
func (h *CustomerHandler) EditForm(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		view.NotFound(c)
		return
	}

	cust, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	view.HTML(c, http.StatusOK, "customers/edit", gin.H{
		"Title":    "Edit " + cust.FullName(),
		"Customer": cust,
		"Form": &customer.Form{
			FirstName: cust.FirstName,
			LastName:  cust.LastName,
			Email:     cust.Email.String,
			Phone:     cust.Phone.String,
		},
	})
}

// Edit handles the edit form submission.
func (h *CustomerHandler) Edit(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		view.NotFound(c)
		return
	}

	cust, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	form := bindForm(c)
	if _, err := h.customerService.Update(c.Request.Context(), id, form); err != nil {
		view.HTML(c, http.StatusOK, "customers/edit", gin.H{
			"Title":    "Edit " + cust.FullName(),
			"Customer": cust,
			"Form":     form,
			"Error":    formMessage(err),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/customers/%d", id))
}

// Delete removes the customer with all owned orders and contacts.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		view.NotFound(c)
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.renderError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/customers")
}

func (h *CustomerHandler) renderError(c *gin.Context, err error) {
	if errors.Is(err, xerrors.ErrNotFound) {
		view.NotFound(c)
		return
	}
	view.ServerError(c)
}

func bindForm(c *gin.Context) *customer.Form {
	return &customer.Form{
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
		Email:     c.PostForm("email"),
		Phone:     c.PostForm("phone"),
	}
}

func formMessage(err error) string {
	switch {
	case errors.Is(err, xerrors.ErrInvalidInput):
		return "First and last name are required!"
	case errors.Is(err, xerrors.ErrDuplicateEntry):
		return "A customer with this email address already exists!"
	default:
		return "Failed to save the customer. Please try again."
	}
}

// parseRange parses the inclusive [from, to] dates; to covers its whole day.
func parseRange(dateFrom, dateTo string) (*time.Time, *time.Time, error) {
	from, err := time.ParseInLocation(dateLayout, dateFrom, time.UTC)
	if err != nil {
		return nil, nil, err
	}
	to, err := time.ParseInLocation(dateLayout, dateTo, time.UTC)
	if err != nil {
		return nil, nil, err
	}
	to = to.Add(24*time.Hour - time.Second)
	return &from, &to, nil
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
