package order

// LineInput is one (product, quantity) pair exactly as it arrived from the
// order form. Values stay strings here; entries that fail to parse are
// skipped individually during creation.
type LineInput struct {
	ProductID string
	Quantity  string
}

type CreateRequest struct {
	CustomerID int64
	Status     string
	Lines      []LineInput
}

type ListFilters struct {
	Search   string `form:"q"`
	Page     int    `form:"page"`
	PageSize int    `form:"-"`
}
