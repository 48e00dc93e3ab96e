package mongodb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/query"
	"TRAVELPACK_BACK-END/internal/report"
)

func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	_, err := s.bookings.InsertOne(ctx, b)
	return translate(err)
}

func (s *Store) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	if err := s.bookings.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	var b models.Booking
	err := s.bookings.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&b)
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) ListBookings(ctx context.Context, q query.Query) ([]models.Booking, int, error) {
	filter := filterDoc(q.Criteria, bookingFields)

	total, err := s.bookings.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translate(err)
	}
	cur, err := s.bookings.Find(ctx, filter, findOptions(q, bookingFields))
	if err != nil {
		return nil, 0, translate(err)
	}
	out := []models.Booking{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, int(total), nil
}

func (s *Store) BookingsByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	cur, err := s.bookings.Find(ctx, bson.M{"user": userID},
		options.Find().SetSort(bson.D{{Key: "bookingDate", Value: -1}}))
	if err != nil {
		return nil, translate(err)
	}
	out := []models.Booking{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CountBookingsByPackage(ctx context.Context, packageID uuid.UUID) (int, error) {
	n, err := s.bookings.CountDocuments(ctx, bson.M{"package": packageID})
	return int(n), translate(err)
}

func (s *Store) BookingStatsByPackage(ctx context.Context, includeCancelled bool) ([]models.PackageBookingStats, error) {
	match := bson.M{}
	if !includeCancelled {
		match["status"] = bson.M{"$ne": models.BookingCancelled}
	}
	pipeline := bson.A{
		bson.M{"$match": match},
		bson.M{"$group": bson.M{
			"_id":          "$package",
			"count":        bson.M{"$sum": 1},
			"totalRevenue": bson.M{"$sum": "$totalPrice"},
		}},
		bson.M{"$lookup": bson.M{
			"from":         "packages",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "packageDetails",
		}},
		bson.M{"$unwind": "$packageDetails"},
		bson.M{"$project": bson.M{
			"count":        1,
			"totalRevenue": 1,
			"fromLocation": "$packageDetails.fromLocation",
			"toLocation":   "$packageDetails.toLocation",
			"startDate":    "$packageDetails.startDate",
			"endDate":      "$packageDetails.endDate",
		}},
		bson.M{"$sort": bson.D{{Key: "count", Value: -1}}},
	}

	cur, err := s.bookings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translate(err)
	}
	var groups []struct {
		ID           uuid.UUID `bson:"_id"`
		Count        int       `bson:"count"`
		TotalRevenue float64   `bson:"totalRevenue"`
		FromLocation string    `bson:"fromLocation"`
		ToLocation   string    `bson:"toLocation"`
		StartDate    time.Time `bson:"startDate"`
		EndDate      time.Time `bson:"endDate"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}

	out := make([]models.PackageBookingStats, 0, len(groups))
	for _, g := range groups {
		p := models.Package{ID: g.ID, FromLocation: g.FromLocation, ToLocation: g.ToLocation, StartDate: g.StartDate, EndDate: g.EndDate}
		out = append(out, report.Row(p, g.Count, g.TotalRevenue))
	}
	report.Order(out)
	return out, nil
}

func (s *Store) CountBookingsByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(userIDs))
	for _, id := range userIDs {
		out[id] = 0
	}
	if len(userIDs) == 0 {
		return out, nil
	}
	cur, err := s.bookings.Aggregate(ctx, bson.A{
		bson.M{"$match": bson.M{"user": bson.M{"$in": userIDs}}},
		bson.M{"$group": bson.M{"_id": "$user", "count": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, translate(err)
	}
	var groups []struct {
		ID    uuid.UUID `bson:"_id"`
		Count int       `bson:"count"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	for _, g := range groups {
		out[g.ID] = g.Count
	}
	return out, nil
}
