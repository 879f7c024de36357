package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQueryNormalized(t *testing.T) {
	tests := []struct {
		name     string
		in       ListQuery
		page     int
		pageSize int
	}{
		{"zero values", ListQuery{}, 1, DefaultPageSize},
		{"negative page", ListQuery{Page: -3, PageSize: 20}, 1, 20},
		{"in range", ListQuery{Page: 4, PageSize: 50}, 4, 50},
		{"oversized", ListQuery{Page: 1, PageSize: 1000}, 1, MaxPageSize},
		{"at the cap", ListQuery{Page: 1, PageSize: MaxPageSize}, 1, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.in.Normalized()
			assert.Equal(t, tt.page, out.Page)
			assert.Equal(t, tt.pageSize, out.PageSize)
		})
	}
}
