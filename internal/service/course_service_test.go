package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		size     int
		wantPage int
		wantSize int
	}{
		{name: "defaults", page: 0, size: 0, wantPage: 1, wantSize: 10},
		{name: "negative page", page: -5, size: 20, wantPage: 1, wantSize: 20},
		{name: "size capped at 100", page: 2, size: 500, wantPage: 2, wantSize: 100},
		{name: "valid values pass through", page: 3, size: 25, wantPage: 3, wantSize: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := NormalizePage(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, pageCount(0, 10))
	assert.Equal(t, 1, pageCount(1, 10))
	assert.Equal(t, 1, pageCount(10, 10))
	assert.Equal(t, 2, pageCount(11, 10))
	assert.Equal(t, 5, pageCount(41, 10))
}
