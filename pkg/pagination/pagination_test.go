package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		page, size int
		want       Page
	}{
		{1, 10, Page{Offset: 0, Limit: 10}},
		{3, 20, Page{Offset: 40, Limit: 20}},
		{0, 10, Page{Offset: 0, Limit: 10}},
		{-2, 10, Page{Offset: 0, Limit: 10}},
		{1, 0, Page{Offset: 0, Limit: MaxPageSize}},
		{2, 500, Page{Offset: MaxPageSize, Limit: MaxPageSize}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Calculate(tc.page, tc.size), "page=%d size=%d", tc.page, tc.size)
	}
}

func TestFromQuery(t *testing.T) {
	assert.Equal(t, Page{Offset: 0, Limit: MaxPageSize}, FromQuery("", ""))
	assert.Equal(t, Page{Offset: 5, Limit: 5}, FromQuery("2", "5"))
	assert.Equal(t, Page{Offset: 0, Limit: MaxPageSize}, FromQuery("abc", "1;DROP"))
}
