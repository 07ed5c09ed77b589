package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/stockdesk/server/internal/pkg/response"
)

func TestFromContextClampsValues(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := map[string]Query{
		"/":                   {Page: 1, Size: 10},
		"/?page=3&size=25":    {Page: 3, Size: 25},
		"/?page=-1&size=0":    {Page: 1, Size: 10},
		"/?page=two&size=500": {Page: 1, Size: MaxSize},
	}
	for target, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", target, nil)
		assert.Equal(t, want, FromContext(c), target)
	}
}

func TestSlice(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}

	page, meta := Slice(rows, Query{Page: 2, Size: 2})
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, response.Pagination{Total: 5, CurrentPage: 2, TotalPage: 3, Size: 2, HasNextPage: true}, meta)

	page, meta = Slice(rows, Query{Page: 9, Size: 2})
	assert.Empty(t, page)
	assert.False(t, meta.HasNextPage)

	page, meta = Slice([]int(nil), Query{})
	assert.Empty(t, page)
	assert.Equal(t, 0, meta.TotalPage)
}
