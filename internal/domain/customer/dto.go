package customer

// Sort keys accepted by the customer list.
const (
	SortByName        = "name"
	SortByLastContact = "last_contact"
)

type Form struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Email     string `form:"email"`
	Phone     string `form:"phone"`
}

type ListFilters struct {
	Search   string `form:"q"`
	SortBy   string `form:"sort"`
	Page     int    `form:"page"`
	PageSize int    `form:"-"`
}
