package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/query"
)

// fieldFunc resolves a logical query field on a record
type fieldFunc[T any] func(rec T, field string) any

func packageField(p models.Package, field string) any {
	switch field {
	case query.FieldFromLocation:
		return p.FromLocation
	case query.FieldToLocation:
		return p.ToLocation
	case query.FieldStartDate:
		return p.StartDate
	case query.FieldEndDate:
		return p.EndDate
	case query.FieldBasePrice:
		return p.BasePrice
	case query.FieldCreatedAt:
		return p.CreatedAt
	}
	return nil
}

func bookingField(b models.Booking, field string) any {
	switch field {
	case query.FieldStatus:
		return string(b.Status)
	case query.FieldBookingDate:
		return b.BookingDate
	case query.FieldTotalPrice:
		return b.TotalPrice
	case query.FieldUser:
		return b.UserID
	case query.FieldPackage:
		return b.PackageID
	}
	return nil
}

func userField(u models.User, field string) any {
	switch field {
	case query.FieldName:
		return u.Name
	case query.FieldEmail:
		return u.Email
	case query.FieldRole:
		return u.Role
	case query.FieldCreatedAt:
		return u.CreatedAt
	}
	return nil
}

func matches[T any](rec T, criteria []query.Criterion, get fieldFunc[T]) bool {
	for _, c := range criteria {
		if !matchOne(get(rec, c.Field), c) {
			return false
		}
	}
	return true
}

func matchOne(v any, c query.Criterion) bool {
	switch c.Op {
	case query.OpContains:
		s, ok1 := v.(string)
		sub, ok2 := c.Value.(string)
		return ok1 && ok2 && strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	case query.OpEq:
		return equal(v, c.Value)
	case query.OpGTE:
		cmp := compare(v, c.Value)
		return cmp >= 0 && cmp != incomparable
	case query.OpLTE:
		cmp := compare(v, c.Value)
		return cmp <= 0
	}
	return false
}

func equal(a, b any) bool {
	switch x := a.(type) {
	case uuid.UUID:
		switch y := b.(type) {
		case uuid.UUID:
			return x == y
		case string:
			return x.String() == y
		}
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	}
	return a == b
}

const incomparable = 2

func compare(a, b any) int {
	switch x := a.(type) {
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return incomparable
		}
		return x.Compare(y)
	case float64:
		y, ok := b.(float64)
		if !ok {
			return incomparable
		}
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case string:
		y, ok := b.(string)
		if !ok {
			return incomparable
		}
		return strings.Compare(x, y)
	}
	return incomparable
}

func sortRecords[T any](recs []T, keys []query.Sort, get fieldFunc[T]) {
	sort.SliceStable(recs, func(i, j int) bool {
		for _, k := range keys {
			c := compare(get(recs[i], k.Field), get(recs[j], k.Field))
			if c == 0 || c == incomparable {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// list filters, sorts and pages a snapshot of records
func list[T any](recs []T, q query.Query, get fieldFunc[T]) ([]T, int) {
	filtered := make([]T, 0, len(recs))
	for _, r := range recs {
		if matches(r, q.Criteria, get) {
			filtered = append(filtered, r)
		}
	}
	sortRecords(filtered, q.Sort, get)
	return query.Window(filtered, q), len(filtered)
}
