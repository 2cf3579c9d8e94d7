package dashboard

import (
	"context"

	"crm-service/internal/domain/contact"
	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/order"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// recentLimit is how many rows each dashboard panel shows.
const recentLimit = 10

type Overview struct {
	RecentCustomers []customer.Customer
	RecentOrders    []order.Info
	RecentContacts  []contact.Info
	TotalCustomers  int64
	TotalOrders     int64
	TotalContacts   int64
	TotalRevenue    decimal.Decimal
}

type DashboardService struct {
	customerRepo customer.Repository
	orderRepo    order.Repository
	contactRepo  contact.Repository
	logger       *zap.Logger
}

func NewDashboardService(customerRepo customer.Repository, orderRepo order.Repository, contactRepo contact.Repository, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		contactRepo:  contactRepo,
		logger:       logger,
	}
}

// Overview collects the most recent activity and the aggregate counters.
func (s *DashboardService) Overview(ctx context.Context) (*Overview, error) {
	recentCustomers, err := s.customerRepo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	recentOrders, err := s.orderRepo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	recentContacts, err := s.contactRepo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	totalCustomers, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalContacts, err := s.contactRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalRevenue, err := s.orderRepo.SumTotal(ctx)
	if err != nil {
		return nil, err
	}

	return &Overview{
		RecentCustomers: recentCustomers,
		RecentOrders:    recentOrders,
		RecentContacts:  recentContacts,
		TotalCustomers:  totalCustomers,
		TotalOrders:     totalOrders,
		TotalContacts:   totalContacts,
		TotalRevenue:    totalRevenue,
	}, nil
}
