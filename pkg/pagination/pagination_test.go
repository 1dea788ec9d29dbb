package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	return FromContext(c)
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", DefaultLimit, 0},
		{"explicit", "limit=5&offset=10", 5, 10},
		{"zero limit", "limit=0", DefaultLimit, 0},
		{"negative offset", "offset=-3", DefaultLimit, 0},
		{"capped limit", "limit=5000", MaxLimit, 0},
		{"garbage", "limit=abc&offset=xyz", DefaultLimit, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := paramsFor(t, tc.query)
			if p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
				t.Errorf("got limit=%d offset=%d, want limit=%d offset=%d",
					p.Limit, p.Offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	if got := Slice(items, Params{Limit: 2, Offset: 0}); len(got) != 2 || got[0] != 1 {
		t.Errorf("unexpected first page %v", got)
	}
	if got := Slice(items, Params{Limit: 2, Offset: 4}); len(got) != 1 || got[0] != 5 {
		t.Errorf("unexpected last page %v", got)
	}
	if got := Slice(items, Params{Limit: 2, Offset: 10}); got != nil {
		t.Errorf("expected nil past the end, got %v", got)
	}
}

func TestNewResponse(t *testing.T) {
	r := NewResponse([]int{1, 2}, 10, 2, 0)
	if !r.HasMore {
		t.Error("expected HasMore with remaining items")
	}
	r = NewResponse([]int{1, 2}, 2, 2, 0)
	if r.HasMore {
		t.Error("expected no more items")
	}
}

func TestParamsNavigation(t *testing.T) {
	p := Params{Limit: 20, Offset: 40}
	if !p.HasNext(100) {
		t.Error("expected a next page")
	}
	if p.HasNext(60) {
		t.Error("expected no next page at the end")
	}
	if p.NextOffset() != 60 {
		t.Errorf("expected next offset 60, got %d", p.NextOffset())
	}
}
