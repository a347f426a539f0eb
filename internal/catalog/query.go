package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/carlothq/carlot-backend/pkg/pagination"
)

// Sort directions accepted by List.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListQuery carries every filter, sort and paging knob for a List call.
// All filters are conjunctive; each zero value means "not supplied".
type ListQuery struct {
	Brands       []string
	VehicleTypes []string
	MinPrice     *float64
	MaxPrice     *float64
	MinRating    *float64
	Search       string
	SortBy       string
	SortOrder    string
	Page         pagination.Params
}

// ParseListQuery builds a ListQuery from URL query parameters, following the
// wire contract: comma-separated brand/vehicleType lists, numeric bounds, and
// page/limit with engine defaults.
func ParseListQuery(values url.Values, defaults pagination.Params) ListQuery {
	q := ListQuery{
		Brands:       splitCSV(values.Get("brand")),
		VehicleTypes: splitCSV(values.Get("vehicleType")),
		MinPrice:     parseFloat(values.Get("minPrice")),
		MaxPrice:     parseFloat(values.Get("maxPrice")),
		MinRating:    parseFloat(values.Get("minRating")),
		Search:       strings.TrimSpace(values.Get("search")),
		SortBy:       strings.TrimSpace(values.Get("sortBy")),
		SortOrder:    strings.ToLower(strings.TrimSpace(values.Get("sortOrder"))),
		Page:         defaults,
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.Page.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		q.Page.Limit = limit
	}
	return q
}

// Values renders the query back into URL parameters, the inverse of
// ParseListQuery. Used by the HTTP client.
func (q ListQuery) Values() url.Values {
	values := url.Values{}
	if len(q.Brands) > 0 {
		values.Set("brand", strings.Join(q.Brands, ","))
	}
	if len(q.VehicleTypes) > 0 {
		values.Set("vehicleType", strings.Join(q.VehicleTypes, ","))
	}
	if q.MinPrice != nil {
		values.Set("minPrice", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		values.Set("maxPrice", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	if q.MinRating != nil {
		values.Set("minRating", strconv.FormatFloat(*q.MinRating, 'f', -1, 64))
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.SortBy != "" {
		values.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		values.Set("sortOrder", q.SortOrder)
	}
	if q.Page.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page.Page))
	}
	if q.Page.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Page.Limit))
	}
	return values
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func parseFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}
