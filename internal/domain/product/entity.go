package product

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        int64           `json:"id" db:"id"`
	SKU       sql.NullString  `json:"sku,omitempty" db:"sku"`
	Name      string          `json:"name" db:"name"`
	BasePrice decimal.Decimal `json:"base_price" db:"base_price"`
}
