package mongodb

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"TRAVELPACK_BACK-END/internal/query"
)

// fields lists the logical query fields each collection can match or sort on;
// document keys use the same names.
var (
	packageFields = set(query.FieldFromLocation, query.FieldToLocation, query.FieldStartDate,
		query.FieldEndDate, query.FieldBasePrice, query.FieldCreatedAt)
	bookingFields = set(query.FieldStatus, query.FieldBookingDate, query.FieldTotalPrice,
		query.FieldUser, query.FieldPackage)
	userFields = set(query.FieldName, query.FieldEmail, query.FieldRole, query.FieldCreatedAt)
)

func set(fields ...string) map[string]bool {
	m := make(map[string]bool, len(fields))
	for _, f := range fields {
		m[f] = true
	}
	return m
}

// filterDoc renders criteria as a match document. Several criteria on one
// field merge their operators.
func filterDoc(criteria []query.Criterion, allowed map[string]bool) bson.M {
	filter := bson.M{}
	for _, c := range criteria {
		if !allowed[c.Field] {
			continue
		}
		ops, _ := filter[c.Field].(bson.M)
		if ops == nil {
			ops = bson.M{}
		}
		switch c.Op {
		case query.OpContains:
			ops["$regex"] = regexp.QuoteMeta(fmt.Sprint(c.Value))
			ops["$options"] = "i"
		case query.OpGTE:
			ops["$gte"] = c.Value
		case query.OpLTE:
			ops["$lte"] = c.Value
		case query.OpEq:
			ops["$eq"] = c.Value
		default:
			continue
		}
		filter[c.Field] = ops
	}
	return filter
}

func sortDoc(keys []query.Sort, allowed map[string]bool) bson.D {
	doc := bson.D{}
	for _, k := range keys {
		if !allowed[k.Field] {
			continue
		}
		dir := 1
		if k.Desc {
			dir = -1
		}
		doc = append(doc, bson.E{Key: k.Field, Value: dir})
	}
	return append(doc, bson.E{Key: "_id", Value: 1})
}

func findOptions(q query.Query, allowed map[string]bool) *options.FindOptions {
	return options.Find().
		SetSort(sortDoc(q.Sort, allowed)).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit))
}
