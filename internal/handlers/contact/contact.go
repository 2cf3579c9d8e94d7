package contact

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"crm-service/internal/domain/contact"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/view"
	service "crm-service/internal/service/contact"
	customersvc "crm-service/internal/service/customer"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactService  *service.ContactService
	customerService *customersvc.CustomerService
}

func NewContactHandler(contactService *service.ContactService, customerService *customersvc.CustomerService) *ContactHandler {
	return &ContactHandler{
		contactService:  contactService,
		customerService: customerService,
	}
}

// List renders the global contact list with the channel filter.
func (h *ContactHandler) List(c *gin.Context) {
	filters := &contact.ListFilters{
		Channel: c.Query("channel"),
		Page:    queryInt(c, "page", 1),
	}

	contacts, page, err := h.contactService.List(c.Request.Context(), filters)
	if err != nil {
		view.ServerError(c)
		return
	}

	view.HTML(c, http.StatusOK, "contacts/list", gin.H{
		"Title":    "Contacts",
		"Contacts": contacts,
		"Page":     page,
		"Channel":  filters.Channel,
		"Channels": contact.Channels,
	})
}

// Detail renders one contact event.
func (h *ContactHandler) Detail(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		view.NotFound(c)
		return
	}

	ct, err := h.contactService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			view.NotFound(c)
			return
		}
		view.ServerError(c)
		return
	}

	view.HTML(c, http.StatusOK, "contacts/detail", gin.H{
		"Title":   "Contact",
		"Contact": ct,
	})
}

// NewForm renders the contact form, optionally preselecting ?customer_id=.
func (h *ContactHandler) NewForm(c *gin.Context) {
	h.renderForm(c, queryInt64(c, "customer_id"), "")
}

// Create handles the contact form submission.
func (h *ContactHandler) Create(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.PostForm("customer_id"), 10, 64)
	if err != nil || customerID <= 0 {
		h.renderForm(c, 0, "Please choose a customer!")
		return
	}

	req := &contact.CreateRequest{
		CustomerID: customerID,
		UserID:     postInt64(c, "user_id"),
		Channel:    c.PostForm("channel"),
		Subject:    c.PostForm("subject"),
		Notes:      c.PostForm("notes"),
		Date:       c.PostForm("contact_date"),
		Time:       c.PostForm("contact_time"),
	}

	created, err := h.contactService.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrNotFound):
			h.renderForm(c, 0, "Please choose a customer!")
		case errors.Is(err, xerrors.ErrInvalidInput):
			h.renderForm(c, customerID, "Please choose a valid contact channel!")
		default:
			h.renderForm(c, customerID, "Failed to create the contact. Please try again.")
		}
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/contacts/%d", created.ID))
}

func (h *ContactHandler) renderForm(c *gin.Context, selectedCustomerID int64, errMsg string) {
	customers, err := h.customerService.ListAll(c.Request.Context())
	if err != nil {
		view.ServerError(c)
		return
	}
	users, err := h.contactService.ListUsers(c.Request.Context())
	if err != nil {
		view.ServerError(c)
		return
	}

	view.HTML(c, http.StatusOK, "contacts/new", gin.H{
		"Title":              "New Contact",
		"Customers":          customers,
		"Users":              users,
		"Channels":           contact.Channels,
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

func postInt64(c *gin.Context, key string) int64 {
	v, err := strconv.ParseInt(c.PostForm(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
