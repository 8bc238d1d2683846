package pagination_test

import (
	"testing"

	"github.com/cardswipe/cardswipe/internal/utils/pagination"

	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, pagination.DefaultLimit, pagination.ClampLimit(""))
	assert.Equal(t, pagination.DefaultLimit, pagination.ClampLimit("garbage"))
	assert.Equal(t, 5, pagination.ClampLimit("5"))
	assert.Equal(t, 1, pagination.ClampLimit("0"))
	assert.Equal(t, 1, pagination.ClampLimit("-3"))
	assert.Equal(t, pagination.MaxLimit, pagination.ClampLimit("100"))
}

func TestClampOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.ClampOffset(""))
	assert.Equal(t, 0, pagination.ClampOffset("-1"))
	assert.Equal(t, 12, pagination.ClampOffset("12"))
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, pagination.Page(items, 0, 2))
	assert.Equal(t, []int{4, 5}, pagination.Page(items, 3, 10))
	assert.Empty(t, pagination.Page(items, 5, 2))
	assert.Empty(t, pagination.Page(items, 99, 2))
}
