package order

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"crm-service/internal/domain/order"
	"crm-service/internal/domain/product"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/view"
	customersvc "crm-service/internal/service/customer"
	service "crm-service/internal/service/order"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService    *service.OrderService
	customerService *customersvc.CustomerService
	productRepo     product.Repository
}

func NewOrderHandler(orderService *service.OrderService, customerService *customersvc.CustomerService, productRepo product.Repository) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		customerService: customerService,
		productRepo:     productRepo,
	}
}

// List renders the searchable global order list.
func (h *OrderHandler) List(c *gin.Context) {
	filters := &order.ListFilters{
		Search: c.Query("q"),
		Page:   queryInt(c, "page", 1),
	}

	orders, page, err := h.orderService.List(c.Request.Context(), filters)
	if err != nil {
		view.ServerError(c)
		return
	}

	view.HTML(c, http.StatusOK, "orders/list", gin.H{
		"Title":  "Orders",
		"Orders": orders,
		"Page":   page,
		"Query":  filters.Search,
	})
}

// Detail renders one order with its line items.
func (h *OrderHandler) Detail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		view.NotFound(c)
		return
	}

	o, items, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			view.NotFound(c)
			return
		}
		view.ServerError(c)
		return
	}

	view.HTML(c, http.StatusOK, "orders/detail", gin.H{
		"Title": fmt.Sprintf("Order #%d", o.ID),
		"Order": o,
		"Items": items,
	})
}

// NewForm renders the order form, optionally preselecting ?customer_id=.
func (h *OrderHandler) NewForm(c *gin.Context) {
	h.renderForm(c, queryInt64(c, "customer_id"), "")
}

// Create handles the order form submission. Invalid line entries are
// skipped individually; an order without a single valid line is rejected.
func (h *OrderHandler) Create(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.PostForm("customer_id"), 10, 64)
	if err != nil || customerID <= 0 {
		h.renderForm(c, 0, "Please choose a customer!")
		return
	}

	productIDs := c.PostFormArray("product_id")
	quantities := c.PostFormArray("quantity")
	lines := make([]order.LineInput, 0, len(productIDs))
	for i, pid := range productIDs {
		qty := ""
		if i < len(quantities) {
			qty = quantities[i]
		}
		lines = append(lines, order.LineInput{ProductID: pid, Quantity: qty})
	}

	created, err := h.orderService.Create(c.Request.Context(), &order.CreateRequest{
		CustomerID: customerID,
		Status:     c.DefaultPostForm("status", order.StatusOpen),
		Lines:      lines,
	})
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			h.renderForm(c, 0, "Please choose a customer!")
		case errors.Is(err, xerrors.ErrInvalidInput):
			h.renderForm(c, customerID, "Please add at least one line item!")
		default:
			h.renderForm(c, customerID, "Failed to create the order. Please try again.")
		}
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/orders/%d", created.ID))
}

func (h *OrderHandler) renderForm(c *gin.Context, selectedCustomerID int64, errMsg string) {
	customers, err := h.customerService.ListAll(c.Request.Context())
	if err != nil {
		view.ServerError(c)
		return
	}
	products, err := h.productRepo.ListAll(c.Request.Context())
	if err != nil {
		view.ServerError(c)
		return
	}

	view.HTML(c, http.StatusOK, "orders/new", gin.H{
		"Title":              "New Order",
		"Customers":          customers,
		"Products":           products,
		"Statuses":           order.Statuses,
		"SelectedCustomerID": selectedCustomerID,
		"Error":              errMsg,
	})
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

func queryInt64(c *gin.Context, key string) int64 {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
