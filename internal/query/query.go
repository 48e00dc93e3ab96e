// Package query turns free-form listing parameters into a normalized,
// store-independent query: match criteria, sort keys and a page window.
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Op is a match operator understood by every store implementation
type Op string

const (
	OpContains Op = "contains" // case-insensitive substring
	OpGTE      Op = "gte"
	OpLTE      Op = "lte"
	OpEq       Op = "eq"
)

// Kind is the type a raw filter value is parsed into
type Kind int

const (
	KindString Kind = iota
	KindDate
)

// Filter maps one query-string parameter onto a logical field
type Filter struct {
	Param   string
	Field   string
	Op      Op
	Kind    Kind
	Allowed []string // accepted values for enum filters, empty means any
}

// Criterion is a single normalized match condition.
// Value is a string, a time.Time or whatever a caller scoped the query with.
type Criterion struct {
	Field string
	Op    Op
	Value any
}

// Sort is one sort key; Desc is set by a leading "-"
type Sort struct {
	Field string
	Desc  bool
}

// String renders the key back into "-field" form
func (s Sort) String() string {
	if s.Desc {
		return "-" + s.Field
	}
	return s.Field
}

// Schema describes what a listing endpoint accepts
type Schema struct {
	Filters      []Filter
	Sorts        []string // sortable logical fields
	DefaultSort  Sort
	DefaultLimit int
	MaxLimit     int
}

// Query is the normalized listing request
type Query struct {
	Criteria []Criterion
	Sort     []Sort
	Page     int
	Limit    int
	Skip     int
}

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Build normalizes raw parameters. It never fails: malformed pagination falls
// back to defaults, unknown or empty filters and unknown sort keys are dropped.
func (s Schema) Build(values url.Values) Query {
	q := Query{}

	for _, f := range s.Filters {
		raw := strings.TrimSpace(values.Get(f.Param))
		if raw == "" {
			continue
		}
		if len(f.Allowed) > 0 && !contains(f.Allowed, raw) {
			continue
		}
		switch f.Kind {
		case KindDate:
			t, err := ParseDate(raw)
			if err != nil {
				continue
			}
			q.Criteria = append(q.Criteria, Criterion{Field: f.Field, Op: f.Op, Value: t})
		default:
			q.Criteria = append(q.Criteria, Criterion{Field: f.Field, Op: f.Op, Value: raw})
		}
	}

	q.Sort = s.parseSort(values.Get("sort"))

	limitDefault := s.DefaultLimit
	if limitDefault <= 0 {
		limitDefault = defaultLimit
	}
	limitMax := s.MaxLimit
	if limitMax <= 0 {
		limitMax = maxLimit
	}
	q.Page = positiveInt(values.Get("page"), defaultPage)
	q.Limit = positiveInt(values.Get("limit"), limitDefault)
	if q.Limit > limitMax {
		q.Limit = limitMax
	}
	// keep Skip+Limit within int
	if maxPage := (math.MaxInt-q.Limit)/q.Limit + 1; q.Page > maxPage {
		q.Page = maxPage
	}
	q.Skip = (q.Page - 1) * q.Limit
	return q
}

// BuildPage is Build for callers that only page, such as admin listings
func (s Schema) BuildPage(page, limit string) Query {
	v := url.Values{}
	v.Set("page", page)
	v.Set("limit", limit)
	return s.Build(v)
}

func (s Schema) parseSort(raw string) []Sort {
	var keys []Sort
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key := Sort{Field: part}
		if strings.HasPrefix(part, "-") {
			key = Sort{Field: part[1:], Desc: true}
		}
		if contains(s.Sorts, key.Field) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 && s.DefaultSort.Field != "" {
		keys = []Sort{s.DefaultSort}
	}
	return keys
}

// Where returns a copy of q with an extra criterion, used to scope a query
// server-side (for example to the requesting user)
func (q Query) Where(field string, op Op, value any) Query {
	out := q
	out.Criteria = append(append([]Criterion(nil), q.Criteria...), Criterion{Field: field, Op: op, Value: value})
	return out
}

// Lookup returns the first criterion on field
func (q Query) Lookup(field string) (Criterion, bool) {
	for _, c := range q.Criteria {
		if c.Field == field {
			return c, true
		}
	}
	return Criterion{}, false
}

// ParseSort parses a single "-field" key without schema checks
func ParseSort(s string) Sort {
	if strings.HasPrefix(s, "-") {
		return Sort{Field: s[1:], Desc: true}
	}
	return Sort{Field: s}
}

// ParseDate accepts YYYY-MM-DD or RFC3339
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
