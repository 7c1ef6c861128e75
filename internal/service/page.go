// Package service holds the business logic: validation, entitlement checks,
// and orchestration over the repository interfaces. Services accept plain
// values and return domain errors; nothing in here knows about HTTP.
package service

// Pagination limits applied to every list operation.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is the caller's page/limit pair before normalization.
type PageRequest struct {
	Page  int
	Limit int
}

// normalize clamps the request to sane values and returns limit and offset.
func (p PageRequest) normalize() (limit, offset int) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit = p.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return limit, (page - 1) * limit
}

// PageMeta describes the returned page. Pages is ceil(total/limit), so
// requesting page == Pages yields the remainder.
type PageMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func pageMeta(req PageRequest, limit, total int) PageMeta {
	page := req.Page
	if page < 1 {
		page = 1
	}
	return PageMeta{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: (total + limit - 1) / limit,
	}
}
