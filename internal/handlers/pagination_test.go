package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		maxLimit   int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", url: "/videos", maxLimit: 100, wantLimit: 10, wantOffset: 0},
		{name: "explicit page and limit", url: "/videos?page=3&limit=20", maxLimit: 100, wantLimit: 20, wantOffset: 40},
		{name: "limit clamped to max", url: "/videos?limit=5000", maxLimit: 100, wantLimit: 100, wantOffset: 0},
		{name: "zero page falls back", url: "/videos?page=0", maxLimit: 100, wantLimit: 10, wantOffset: 0},
		{name: "negative limit falls back", url: "/videos?limit=-5", maxLimit: 100, wantLimit: 10, wantOffset: 0},
		{name: "garbage values fall back", url: "/videos?page=abc&limit=xyz", maxLimit: 100, wantLimit: 10, wantOffset: 0},
		{name: "no max leaves limit alone", url: "/videos?limit=500", maxLimit: 0, wantLimit: 500, wantOffset: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			limit, offset := parsePagination(req, tc.maxLimit)
			if limit != tc.wantLimit || offset != tc.wantOffset {
				t.Fatalf("got limit=%d offset=%d want limit=%d offset=%d", limit, offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}
