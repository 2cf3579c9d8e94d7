package order

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/order"
	"crm-service/internal/domain/product"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/pagination"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PerPage is the order list page size.
const PerPage = 50

type OrderService struct {
	orderRepo    order.Repository
	customerRepo customer.Repository
	productRepo  product.Repository
	logger       *zap.Logger
}

func NewOrderService(orderRepo order.Repository, customerRepo customer.Repository, productRepo product.Repository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// Create builds an order from the raw form lines. Lines that fail to parse,
// have a non-positive quantity, or reference an unknown product are skipped
// one by one; an order with no surviving lines is rejected with nothing
// written. Unit prices are frozen copies of the product's current base
// price, and the total is the exact decimal sum of the line subtotals.
func (s *OrderService) Create(ctx context.Context, req *order.CreateRequest) (*order.Order, error) {
	cust, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if !order.ValidStatus(status) {
		status = order.StatusOpen
	}

	var items []order.Item
	total := decimal.Zero
	for _, line := range req.Lines {
		productID, err := strconv.ParseInt(strings.TrimSpace(line.ProductID), 10, 64)
		if err != nil {
			continue
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(line.Quantity))
		if err != nil || quantity <= 0 {
			continue
		}
		p, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			continue
		}

		item := order.Item{
			ProductID: p.ID,
			Quantity:  quantity,
			UnitPrice: p.BasePrice,
		}
		items = append(items, item)
		total = total.Add(item.Subtotal())
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("order needs at least one valid line item: %w", xerrors.ErrInvalidInput)
	}

	o := &order.Order{
		CustomerID:  req.CustomerID,
		OrderDate:   time.Now().UTC(),
		Status:      status,
		TotalAmount: total.Round(2),
	}
	if err := s.orderRepo.Create(ctx, o, items); err != nil {
		s.logger.Error("failed to create order", zap.Int64("customer_id", req.CustomerID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.String("customer", cust.FullName()),
		zap.String("total", o.TotalAmount.StringFixed(2)),
		zap.Int("items", len(items)),
	)
	return o, nil
}

// Get returns the order with its customer and its items with product info.
func (s *OrderService) Get(ctx context.Context, id int64) (*order.Info, []order.ItemInfo, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.orderRepo.Items(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return o, items, nil
}

// List returns one page of orders matching the filter, newest first.
func (s *OrderService) List(ctx context.Context, filters *order.ListFilters) ([]order.Info, pagination.Page, error) {
	filters.Page = pagination.Clamp(filters.Page)
	filters.PageSize = PerPage

	items, total, err := s.orderRepo.List(ctx, filters)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return items, pagination.New(filters.Page, filters.PageSize, total), nil
}
