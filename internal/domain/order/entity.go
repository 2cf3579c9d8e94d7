package order

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses.
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"
)

var Statuses = []string{StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled}

func ValidStatus(s string) bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

type Order struct {
	ID          int64           `json:"id" db:"id"`
	CustomerID  int64           `json:"customer_id" db:"customer_id"`
	OrderDate   time.Time       `json:"order_date" db:"order_date"`
	Status      string          `json:"status" db:"status"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
}

// Info is an order row joined with its customer for list and detail views.
type Info struct {
	Order
	CustomerFirstName string `json:"customer_first_name" db:"first_name"`
	CustomerLastName  string `json:"customer_last_name" db:"last_name"`
	ItemCount         int    `json:"item_count" db:"item_count"`
}

func (o Info) CustomerName() string {
	return o.CustomerLastName + ", " + o.CustomerFirstName
}

type Item struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   int64           `json:"order_id" db:"order_id"`
	ProductID int64           `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// Subtotal is quantity times the unit price frozen at order time.
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemInfo is an order item joined with its product for the detail view.
type ItemInfo struct {
	Item
	ProductName string         `json:"product_name" db:"product_name"`
	ProductSKU  sql.NullString `json:"product_sku,omitempty" db:"product_sku"`
}
