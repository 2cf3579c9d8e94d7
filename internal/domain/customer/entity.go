package customer

import (
	"database/sql"
	"time"
)

type Customer struct {
	ID        int64          `json:"id" db:"id"`
	FirstName string         `json:"first_name" db:"first_name"`
	LastName  string         `json:"last_name" db:"last_name"`
	Email     sql.NullString `json:"email,omitempty" db:"email"`
	Phone     sql.NullString `json:"phone,omitempty" db:"phone"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`

	// Populated by list queries via the contacts subquery join.
	LastContact sql.NullTime `json:"last_contact,omitempty" db:"last_contact"`
}

// FullName renders the customer as "Last, First" the way every view shows it.
func (c Customer) FullName() string {
	return c.LastName + ", " + c.FirstName
}

// ScoreCard is the derived customer quality score (0-100) with its
// rating band and the three sub-scores it was built from.
type ScoreCard struct {
	Score        int    `json:"score"`
	Rating       string `json:"rating"`
	Label        string `json:"label"`
	Color        string `json:"color"`
	RevenueScore int    `json:"revenue_score"`
	OrderScore   int    `json:"order_score"`
	ContactScore int    `json:"contact_score"`
}
