package postgres

import (
	"fmt"
	"strings"

	"TRAVELPACK_BACK-END/internal/query"
)

var packageColumns = map[string]string{
	query.FieldFromLocation: "from_location",
	query.FieldToLocation:   "to_location",
	query.FieldStartDate:    "start_date",
	query.FieldEndDate:      "end_date",
	query.FieldBasePrice:    "base_price",
	query.FieldCreatedAt:    "created_at",
}

var bookingColumns = map[string]string{
	query.FieldStatus:      "status",
	query.FieldBookingDate: "booking_date",
	query.FieldTotalPrice:  "total_price",
	query.FieldUser:        "user_id",
	query.FieldPackage:     "package_id",
}

var userColumns = map[string]string{
	query.FieldName:      "name",
	query.FieldEmail:     "email",
	query.FieldRole:      "role",
	query.FieldCreatedAt: "created_at",
}

// whereClause renders criteria as a WHERE clause with positional args.
// Fields without a column are ignored.
func whereClause(criteria []query.Criterion, columns map[string]string) (string, []any) {
	var (
		parts []string
		args  []any
	)
	for _, c := range criteria {
		col, ok := columns[c.Field]
		if !ok {
			continue
		}
		var op string
		value := c.Value
		switch c.Op {
		case query.OpContains:
			op = "ILIKE"
			value = "%" + escapeLike(fmt.Sprint(c.Value)) + "%"
		case query.OpGTE:
			op = ">="
		case query.OpLTE:
			op = "<="
		case query.OpEq:
			op = "="
		default:
			continue
		}
		args = append(args, value)
		parts = append(parts, fmt.Sprintf("%s %s $%d", col, op, len(args)))
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

// orderClause renders sort keys; id is appended so paging is deterministic
func orderClause(keys []query.Sort, columns map[string]string) string {
	var parts []string
	for _, k := range keys {
		col, ok := columns[k.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

func pageClause(q query.Query, nargs int) (string, []any) {
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", nargs+1, nargs+2), []any{q.Limit, q.Skip}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
