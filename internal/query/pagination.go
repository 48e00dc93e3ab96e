package query

// Pagination is reported alongside every listed page
type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
}

// Paginate computes the page descriptor: pages = ceil(total / limit)
func Paginate(total int, q Query) Pagination {
	limit := q.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	return Pagination{
		Current: q.Page,
		Pages:   (total + limit - 1) / limit,
	}
}

// Window slices an in-memory result set the way a store applies skip/limit
func Window[T any](items []T, q Query) []T {
	if q.Skip < 0 || q.Skip >= len(items) || q.Limit < 1 {
		return []T{}
	}
	end := len(items)
	if q.Limit < end-q.Skip {
		end = q.Skip + q.Limit
	}
	return items[q.Skip:end]
}
