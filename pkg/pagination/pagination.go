package pagination

// DefaultLimit is the standard page size when a limit is not provided.
const DefaultLimit = 10

// MaxLimit caps how many records any listing can request.
const MaxLimit = 100

// Params holds page/limit pagination inputs from controllers or clients.
type Params struct {
	Page  int
	Limit int
}

// Metadata describes a result window within a filtered set.
type Metadata struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Normalize enforces the minimum page and the default/maximum limits.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Window returns the zero-indexed [start, end) slice bounds for a set of
// total records. Out-of-range pages collapse to an empty window.
func (p Params) Window(total int) (int, int) {
	start := (p.Page - 1) * p.Limit
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}

// MetadataFor derives the pagination metadata for a filtered total.
func MetadataFor(total int, p Params) Metadata {
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Metadata{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
		HasNext:    p.Page*p.Limit < total,
		HasPrev:    p.Page > 1,
	}
}
