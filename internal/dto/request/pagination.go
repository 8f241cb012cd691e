package request

// PaginatedRequest pages a listing. PerPage 0 asks for every row.
type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=0"`
}

func (p PaginatedRequest) Offset() int {
	if p.Page < 1 || p.PerPage < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// Limit is 0 when the whole listing is requested.
func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return 0
	}
	return p.PerPage
}
