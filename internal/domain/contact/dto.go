package contact

// CreateRequest carries the contact form fields. Date and Time are the raw
// form values; an unparseable pair falls back to the current timestamp.
type CreateRequest struct {
	CustomerID int64
	UserID     int64
	Channel    string
	Subject    string
	Notes      string
	Date       string
	Time       string
}

type ListFilters struct {
	Channel  string `form:"channel"`
	Page     int    `form:"page"`
	PageSize int    `form:"-"`
}
