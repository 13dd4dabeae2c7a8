// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoers/courtrecord/pkg/pagination"
)

/*
TestFromRequest checks query-string parsing and the unset-limit sentinel.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, -1},
		{"explicit", "?page=3&limit=10", 3, 10},
		{"negative_folded", "?page=-2&limit=-5", 2, 5},
		{"garbage_ignored", "?page=abc&limit=xyz", 1, -1},
		{"zero_limit_kept", "?limit=0", 1, 0},
		// A supplied -1 is a folded 1, not the unset sentinel.
		{"minus_one_limit_folded", "?limit=-1", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/evidence"+tt.query, nil)
			p := pagination.FromRequest(r)

			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}

/*
TestClamp checks the window clamping rules against collection boundaries.
*/
func TestClamp(t *testing.T) {
	tests := []struct {
		name       string
		params     pagination.Params
		totalItems int
		want       pagination.Window
	}{
		{
			name:       "unset_limit_spans_collection",
			params:     pagination.Params{Page: 1, Limit: -1},
			totalItems: 7,
			want:       pagination.Window{Page: 1, Limit: 7, Skip: 0, TotalItems: 7, TotalPages: 1, CurrentItems: 7},
		},
		{
			name:       "zero_limit_forced_to_one",
			params:     pagination.Params{Page: 1, Limit: 0},
			totalItems: 3,
			want:       pagination.Window{Page: 1, Limit: 1, Skip: 0, TotalItems: 3, TotalPages: 3, CurrentItems: 1},
		},
		{
			name:       "page_beyond_last_clamps_down",
			params:     pagination.Params{Page: 99, Limit: 2},
			totalItems: 5,
			want:       pagination.Window{Page: 3, Limit: 2, Skip: 4, TotalItems: 5, TotalPages: 3, CurrentItems: 2},
		},
		{
			name:       "empty_collection_keeps_page_one",
			params:     pagination.Params{Page: 4, Limit: -1},
			totalItems: 0,
			want:       pagination.Window{Page: 1, Limit: 1, Skip: 0, TotalItems: 0, TotalPages: 0, CurrentItems: 0},
		},
		{
			name:       "middle_page",
			params:     pagination.Params{Page: 2, Limit: 2},
			totalItems: 6,
			want:       pagination.Window{Page: 2, Limit: 2, Skip: 2, TotalItems: 6, TotalPages: 3, CurrentItems: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagination.Clamp(tt.params, tt.totalItems))
		})
	}
}

/*
TestNewBlock checks boundary behavior of the navigation links.
*/
func TestNewBlock(t *testing.T) {
	base := "http://localhost:8080/evidence"

	t.Run("first_page", func(t *testing.T) {
		w := pagination.Clamp(pagination.Params{Page: 1, Limit: 2}, 6)
		block := pagination.NewBlock(w, base)

		assert.Nil(t, block.Links.Previous)
		require.NotNil(t, block.Links.Next)
		assert.Equal(t, 2, block.Links.Next.Page)
		assert.Equal(t, "http://localhost:8080/evidence?page=2&limit=2", block.Links.Next.Href)
		assert.Equal(t, 1, block.Links.First.Page)
		assert.Equal(t, 3, block.Links.Last.Page)
	})

	t.Run("last_page", func(t *testing.T) {
		w := pagination.Clamp(pagination.Params{Page: 3, Limit: 2}, 6)
		block := pagination.NewBlock(w, base)

		assert.Nil(t, block.Links.Next)
		require.NotNil(t, block.Links.Previous)
		assert.Equal(t, 2, block.Links.Previous.Page)
	})

	t.Run("single_page", func(t *testing.T) {
		w := pagination.Clamp(pagination.Params{Page: 1, Limit: -1}, 4)
		block := pagination.NewBlock(w, base)

		assert.Nil(t, block.Links.Previous)
		assert.Nil(t, block.Links.Next)
		assert.Equal(t, 4, block.CurrentItems)
		assert.Equal(t, 4, block.TotalItems)
	})

	t.Run("empty_collection", func(t *testing.T) {
		w := pagination.Clamp(pagination.Params{Page: 1, Limit: -1}, 0)
		block := pagination.NewBlock(w, base)

		assert.Equal(t, 1, block.Links.Last.Page)
		assert.Equal(t, 0, block.TotalPages)
		assert.Equal(t, 0, block.CurrentItems)
	})
}
