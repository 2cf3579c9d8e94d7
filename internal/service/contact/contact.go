package contact

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"crm-service/internal/domain/contact"
	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/user"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/pagination"

	"go.uber.org/zap"
)

// PerPage is the contact list page size.
const PerPage = 50

// timestampLayout matches the date + time form fields.
const timestampLayout = "2006-01-02 15:04"

type ContactService struct {
	contactRepo  contact.Repository
	customerRepo customer.Repository
	userRepo     user.Repository
	logger       *zap.Logger
}

func NewContactService(contactRepo contact.Repository, customerRepo customer.Repository, userRepo user.Repository, logger *zap.Logger) *ContactService {
	return &ContactService{
		contactRepo:  contactRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// Create records a contact event. The customer must exist and the channel
// must be one of the known set; an explicit timestamp that fails to parse
// falls back to the current time instead of rejecting the request.
func (s *ContactService) Create(ctx context.Context, req *contact.CreateRequest) (*contact.Contact, error) {
	cust, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	if !contact.ValidChannel(req.Channel) {
		return nil, fmt.Errorf("unknown contact channel %q: %w", req.Channel, xerrors.ErrInvalidInput)
	}

	when := time.Now().UTC()
	if req.Date != "" && req.Time != "" {
		if parsed, err := time.ParseInLocation(timestampLayout, req.Date+" "+req.Time, time.UTC); err == nil {
			when = parsed
		}
	}

	subject := strings.TrimSpace(req.Subject)
	notes := strings.TrimSpace(req.Notes)
	c := &contact.Contact{
		CustomerID:  req.CustomerID,
		UserID:      sql.NullInt64{Int64: req.UserID, Valid: req.UserID != 0},
		Channel:     req.Channel,
		Subject:     sql.NullString{String: subject, Valid: subject != ""},
		Notes:       sql.NullString{String: notes, Valid: notes != ""},
		ContactTime: when,
	}
	if err := s.contactRepo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create contact", zap.Int64("customer_id", req.CustomerID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("contact created",
		zap.Int64("contact_id", c.ID),
		zap.String("customer", cust.FullName()),
		zap.String("channel", c.Channel),
	)
	return c, nil
}

func (s *ContactService) Get(ctx context.Context, id int64) (*contact.Info, error) {
	return s.contactRepo.FindByID(ctx, id)
}

// List returns one page of contacts, newest first. A channel filter outside
// the known set is silently ignored rather than rejected.
func (s *ContactService) List(ctx context.Context, filters *contact.ListFilters) ([]contact.Info, pagination.Page, error) {
	if !contact.ValidChannel(filters.Channel) {
		filters.Channel = ""
	}
	filters.Page = pagination.Clamp(filters.Page)
	filters.PageSize = PerPage

	items, total, err := s.contactRepo.List(ctx, filters)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return items, pagination.New(filters.Page, filters.PageSize, total), nil
}

func (s *ContactService) ListUsers(ctx context.Context) ([]user.User, error) {
	return s.userRepo.ListAll(ctx)
}
