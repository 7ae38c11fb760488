package domain

// PaginationParams is the page window a client requested for a listing.
// Pages are 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset converts the 1-based page into a row offset for LIMIT/OFFSET
// queries. Pages below 1 map to offset 0.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
