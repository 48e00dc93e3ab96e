package query

import (
	"math"
	"net/url"
	"testing"
	"time"
)

func TestBuildPackageFilters(t *testing.T) {
	v := url.Values{}
	v.Set("toLocation", "del")
	v.Set("startDate", "2024-01-01")
	v.Set("endDate", "not-a-date")
	v.Set("color", "blue")
	v.Set("fromLocation", "  ")

	q := Packages.Build(v)

	if len(q.Criteria) != 2 {
		t.Fatalf("criteria = %+v, want 2 entries", q.Criteria)
	}
	c, ok := q.Lookup(FieldToLocation)
	if !ok || c.Op != OpContains || c.Value != "del" {
		t.Fatalf("toLocation criterion = %+v", c)
	}
	c, ok = q.Lookup(FieldStartDate)
	if !ok || c.Op != OpGTE {
		t.Fatalf("startDate criterion = %+v", c)
	}
	if got := c.Value.(time.Time); !got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("startDate value = %v", got)
	}
	if _, ok := q.Lookup(FieldEndDate); ok {
		t.Fatal("unparseable date filter should be dropped")
	}
}

func TestBuildDefaults(t *testing.T) {
	q := Packages.Build(url.Values{})
	if q.Page != 1 || q.Limit != 10 || q.Skip != 0 {
		t.Fatalf("got page=%d limit=%d skip=%d", q.Page, q.Limit, q.Skip)
	}
	if len(q.Sort) != 1 || q.Sort[0].String() != "-createdAt" {
		t.Fatalf("default sort = %v", q.Sort)
	}
}

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name, page, limit string
		wantPage          int
		wantLimit         int
		wantSkip          int
	}{
		{"explicit", "2", "10", 2, 10, 10},
		{"non numeric", "abc", "xyz", 1, 10, 0},
		{"zero and negative", "0", "-5", 1, 10, 0},
		{"limit capped", "1", "1000", 1, 100, 0},
		{"third page of six", "3", "6", 3, 6, 12},
		{"page beyond int", "99999999999999999999", "10", 1, 10, 0},
		{"max int page", "9223372036854775807", "10", (math.MaxInt-10)/10 + 1, 10, (math.MaxInt - 10) / 10 * 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Packages.BuildPage(tt.page, tt.limit)
			if q.Page != tt.wantPage || q.Limit != tt.wantLimit || q.Skip != tt.wantSkip {
				t.Fatalf("got page=%d limit=%d skip=%d", q.Page, q.Limit, q.Skip)
			}
		})
	}
}

func TestBuildSort(t *testing.T) {
	v := url.Values{}
	v.Set("sort", "basePrice, -startDate,password,-")
	q := Packages.Build(v)

	if len(q.Sort) != 2 {
		t.Fatalf("sort = %v", q.Sort)
	}
	if q.Sort[0] != (Sort{Field: FieldBasePrice}) || q.Sort[1] != (Sort{Field: FieldStartDate, Desc: true}) {
		t.Fatalf("sort = %v", q.Sort)
	}

	v.Set("sort", "password")
	if q := Packages.Build(v); len(q.Sort) != 1 || q.Sort[0].String() != "-createdAt" {
		t.Fatalf("unknown-only sort should fall back to default, got %v", q.Sort)
	}
}

func TestBuildEnumFilter(t *testing.T) {
	v := url.Values{}
	v.Set("status", "cancelled")
	if c, ok := Bookings.Build(v).Lookup(FieldStatus); !ok || c.Value != "cancelled" {
		t.Fatalf("status criterion = %+v", c)
	}
	v.Set("status", "pending")
	if _, ok := Bookings.Build(v).Lookup(FieldStatus); ok {
		t.Fatal("unknown enum value should be dropped")
	}
}

func TestWhereDoesNotAlias(t *testing.T) {
	base := Bookings.Build(url.Values{})
	a := base.Where(FieldUser, OpEq, "a")
	b := base.Where(FieldUser, OpEq, "b")
	if len(base.Criteria) != 0 {
		t.Fatal("Where mutated the receiver")
	}
	if a.Criteria[0].Value != "a" || b.Criteria[0].Value != "b" {
		t.Fatalf("a=%v b=%v", a.Criteria, b.Criteria)
	}
}

func TestPaginate(t *testing.T) {
	q := Packages.BuildPage("2", "10")
	if got := Paginate(25, q); got != (Pagination{Current: 2, Pages: 3}) {
		t.Fatalf("Paginate = %+v", got)
	}
	if got := Paginate(0, q); got.Pages != 0 {
		t.Fatalf("empty result pages = %d", got.Pages)
	}
	if got := Paginate(20, q); got.Pages != 2 {
		t.Fatalf("exact multiple pages = %d", got.Pages)
	}
}

func TestWindow(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i + 1
	}
	page := Window(items, Packages.BuildPage("2", "10"))
	if len(page) != 10 || page[0] != 11 || page[9] != 20 {
		t.Fatalf("page 2 = %v", page)
	}
	if last := Window(items, Packages.BuildPage("3", "10")); len(last) != 5 {
		t.Fatalf("page 3 = %v", last)
	}
	if past := Window(items, Packages.BuildPage("9", "10")); len(past) != 0 {
		t.Fatalf("past the end = %v", past)
	}
	if far := Window(items, Packages.BuildPage("9223372036854775807", "10")); len(far) != 0 {
		t.Fatalf("max int page = %v", far)
	}
	if neg := Window(items, Query{Page: 1, Limit: 10, Skip: -20}); len(neg) != 0 {
		t.Fatalf("negative skip = %v", neg)
	}
}

func TestLimitCapAffectsPages(t *testing.T) {
	q := Packages.BuildPage("1", "200")
	if q.Limit != 100 {
		t.Fatalf("limit = %d, want 100", q.Limit)
	}
	if p := Paginate(250, q); p.Pages != 3 {
		t.Fatalf("pages = %d, want 3", p.Pages)
	}
}
