package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlothq/carlot-backend/pkg/pagination"
)

func TestParseListQuery(t *testing.T) {
	values, err := url.ParseQuery("page=3&limit=5&brand=BMW,%20Audi&vehicleType=Electric&minPrice=1000&maxPrice=50000&minRating=4.5&search=sedan&sortBy=price&sortOrder=ASC")
	require.NoError(t, err)

	q := ParseListQuery(values, pagination.Params{Page: 1, Limit: 10})

	assert.Equal(t, []string{"BMW", "Audi"}, q.Brands)
	assert.Equal(t, []string{"Electric"}, q.VehicleTypes)
	require.NotNil(t, q.MinPrice)
	assert.Equal(t, 1000.0, *q.MinPrice)
	require.NotNil(t, q.MaxPrice)
	assert.Equal(t, 50000.0, *q.MaxPrice)
	require.NotNil(t, q.MinRating)
	assert.Equal(t, 4.5, *q.MinRating)
	assert.Equal(t, "sedan", q.Search)
	assert.Equal(t, "price", q.SortBy)
	assert.Equal(t, "asc", q.SortOrder)
	assert.Equal(t, 3, q.Page.Page)
	assert.Equal(t, 5, q.Page.Limit)
}

func TestParseListQueryDefaults(t *testing.T) {
	q := ParseListQuery(url.Values{}, pagination.Params{Page: 1, Limit: 10})

	assert.Nil(t, q.Brands)
	assert.Nil(t, q.MinPrice)
	assert.Equal(t, 1, q.Page.Page)
	assert.Equal(t, 10, q.Page.Limit)
}

func TestParseListQueryIgnoresGarbageNumbers(t *testing.T) {
	values := url.Values{}
	values.Set("page", "banana")
	values.Set("limit", "-3")
	values.Set("minRating", "not-a-number")

	q := ParseListQuery(values, pagination.Params{Page: 1, Limit: 10})

	assert.Equal(t, 1, q.Page.Page)
	assert.Equal(t, 10, q.Page.Limit)
	assert.Nil(t, q.MinRating)
}

func TestListQueryValuesRoundTrip(t *testing.T) {
	minPrice, maxPrice, minRating := 1000.0, 50000.0, 4.0
	original := ListQuery{
		Brands:       []string{"BMW", "Audi"},
		VehicleTypes: []string{"Petrol", "Hybrid"},
		MinPrice:     &minPrice,
		MaxPrice:     &maxPrice,
		MinRating:    &minRating,
		Search:       "sunroof",
		SortBy:       "price",
		SortOrder:    "asc",
		Page:         pagination.Params{Page: 2, Limit: 20},
	}

	parsed := ParseListQuery(original.Values(), pagination.Params{Page: 1, Limit: 10})
	assert.Equal(t, original, parsed)
}
