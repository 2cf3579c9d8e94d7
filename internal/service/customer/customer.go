package customer

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"crm-service/internal/domain/contact"
	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/order"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/pagination"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PerPage is the customer list page size.
const PerPage = 25

// recentLimit caps the order/contact sub-lists on the detail page.
const recentLimit = 10

type CustomerService struct {
	customerRepo customer.Repository
	orderRepo    order.Repository
	contactRepo  contact.Repository
	logger       *zap.Logger
}

func NewCustomerService(customerRepo customer.Repository, orderRepo order.Repository, contactRepo contact.Repository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		contactRepo:  contactRepo,
		logger:       logger,
	}
}

// Create validates the form and inserts a new customer.
func (s *CustomerService) Create(ctx context.Context, form *customer.Form) (*customer.Customer, error) {
	c, err := s.buildFromForm(ctx, form, 0)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create customer", zap.Error(err))
		return nil, err
	}

	s.logger.Info("customer created",
		zap.Int64("customer_id", c.ID),
		zap.String("name", c.FullName()),
	)
	return c, nil
}

// Update validates the form and overwrites the customer's editable fields.
func (s *CustomerService) Update(ctx context.Context, id int64, form *customer.Form) (*customer.Customer, error) {
	existing, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c, err := s.buildFromForm(ctx, form, id)
	if err != nil {
		return nil, err
	}
	c.ID = id
	c.CreatedAt = existing.CreatedAt

	if err := s.customerRepo.Update(ctx, c); err != nil {
		s.logger.Error("failed to update customer", zap.Int64("customer_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("customer updated", zap.Int64("customer_id", id))
	return c, nil
}

func (s *CustomerService) buildFromForm(ctx context.Context, form *customer.Form, excludeID int64) (*customer.Customer, error) {
	firstName := strings.TrimSpace(form.FirstName)
	lastName := strings.TrimSpace(form.LastName)
	email := strings.TrimSpace(form.Email)
	phone := strings.TrimSpace(form.Phone)

	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("first and last name are required: %w", xerrors.ErrInvalidInput)
	}

	if email != "" {
		taken, err := s.customerRepo.ExistsByEmail(ctx, email, excludeID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("email %s already in use: %w", email, xerrors.ErrDuplicateEntry)
		}
	}

	return &customer.Customer{
		FirstName: firstName,
		LastName:  lastName,
		Email:     sql.NullString{String: email, Valid: email != ""},
		Phone:     sql.NullString{String: phone, Valid: phone != ""},
	}, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*customer.Customer, error) {
	return s.customerRepo.FindByID(ctx, id)
}

// Delete removes the customer and, through the store's cascades, all of the
// customer's orders, order items and contacts.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("customer deleted", zap.Int64("customer_id", id))
	return nil
}

// List returns one page of customers plus pagination metadata.
func (s *CustomerService) List(ctx context.Context, filters *customer.ListFilters) ([]customer.Customer, pagination.Page, error) {
	if filters.SortBy != customer.SortByLastContact {
		filters.SortBy = customer.SortByName
	}
	filters.Page = pagination.Clamp(filters.Page)
	filters.PageSize = PerPage

	items, total, err := s.customerRepo.List(ctx, filters)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return items, pagination.New(filters.Page, filters.PageSize, total), nil
}

func (s *CustomerService) ListAll(ctx context.Context) ([]customer.Customer, error) {
	return s.customerRepo.ListAll(ctx)
}

// RevenueInRange sums the customer's order totals over [from, to], both
// bounds inclusive, nil meaning unbounded. Zero when nothing matches.
func (s *CustomerService) RevenueInRange(ctx context.Context, customerID int64, from, to *time.Time) (decimal.Decimal, error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return decimal.Zero, err
	}
	return s.orderRepo.SumRevenue(ctx, customerID, from, to)
}

// Detail bundles everything the customer detail page shows.
type Detail struct {
	Customer        *customer.Customer
	TotalRevenue    decimal.Decimal
	LastYearRevenue decimal.Decimal
	FilteredRevenue *decimal.Decimal
	OrderCount      int64
	ContactCount    int64
	Score           customer.ScoreCard
	RecentOrders    []order.Order
	RecentContacts  []contact.Info
}

// Detail assembles the KPI block for one customer. from/to bound the
// optional filtered revenue figure; when either is nil it is omitted.
func (s *CustomerService) Detail(ctx context.Context, id int64, from, to *time.Time) (*Detail, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	total, err := s.orderRepo.SumRevenue(ctx, id, nil, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	yearStart := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(now.Year()-1, time.December, 31, 23, 59, 59, 0, time.UTC)
	lastYear, err := s.orderRepo.SumRevenue(ctx, id, &yearStart, &yearEnd)
	if err != nil {
		return nil, err
	}

	var filtered *decimal.Decimal
	if from != nil && to != nil {
		v, err := s.orderRepo.SumRevenue(ctx, id, from, to)
		if err != nil {
			return nil, err
		}
		filtered = &v
	}

	orderCount, err := s.orderRepo.CountByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	contactCount, err := s.contactRepo.CountByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	lastContact, err := s.contactRepo.LastContactTime(ctx, id)
	if err != nil {
		return nil, err
	}

	recentOrders, err := s.orderRepo.RecentByCustomer(ctx, id, recentLimit)
	if err != nil {
		return nil, err
	}
	recentContacts, err := s.contactRepo.RecentByCustomer(ctx, id, recentLimit)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Customer:        c,
		TotalRevenue:    total,
		LastYearRevenue: lastYear,
		FilteredRevenue: filtered,
		OrderCount:      orderCount,
		ContactCount:    contactCount,
		Score:           BuildScoreCard(total, orderCount, lastContact, now),
		RecentOrders:    recentOrders,
		RecentContacts:  recentContacts,
	}, nil
}

// Orders returns one page of the customer's orders for the sub-list view.
func (s *CustomerService) Orders(ctx context.Context, id int64, page int) ([]order.Order, pagination.Page, error) {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		return nil, pagination.Page{}, err
	}
	page = pagination.Clamp(page)
	items, total, err := s.orderRepo.ListByCustomer(ctx, id, PerPage, pagination.Offset(page, PerPage))
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return items, pagination.New(page, PerPage, total), nil
}

// Contacts returns one page of the customer's contacts for the sub-list view.
func (s *CustomerService) Contacts(ctx context.Context, id int64, page int) ([]contact.Info, pagination.Page, error) {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		return nil, pagination.Page{}, err
	}
	page = pagination.Clamp(page)
	items, total, err := s.contactRepo.ListByCustomer(ctx, id, PerPage, pagination.Offset(page, PerPage))
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return items, pagination.New(page, PerPage, total), nil
}
