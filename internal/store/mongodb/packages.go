package mongodb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/query"
)

func (s *Store) CreatePackage(ctx context.Context, p *models.Package) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := s.packages.InsertOne(ctx, p)
	return translate(err)
}

func (s *Store) GetPackage(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	var p models.Package
	if err := s.packages.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) GetPackages(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Package, error) {
	out := make(map[uuid.UUID]models.Package, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.packages.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, translate(err)
	}
	var pkgs []models.Package
	if err := cur.All(ctx, &pkgs); err != nil {
		return nil, err
	}
	for _, p := range pkgs {
		out[p.ID] = p
	}
	return out, nil
}

func (s *Store) UpdatePackage(ctx context.Context, p *models.Package) error {
	res, err := s.packages.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return translate(mongo.ErrNoDocuments)
	}
	return nil
}

func (s *Store) DeletePackage(ctx context.Context, id uuid.UUID) error {
	res, err := s.packages.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return translate(mongo.ErrNoDocuments)
	}
	return nil
}

func (s *Store) ListPackages(ctx context.Context, q query.Query) ([]models.Package, int, error) {
	filter := filterDoc(q.Criteria, packageFields)

	total, err := s.packages.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translate(err)
	}
	cur, err := s.packages.Find(ctx, filter, findOptions(q, packageFields))
	if err != nil {
		return nil, 0, translate(err)
	}
	pkgs := []models.Package{}
	if err := cur.All(ctx, &pkgs); err != nil {
		return nil, 0, err
	}
	return pkgs, int(total), nil
}

// PackageStats counts all four buckets in one $facet round trip
func (s *Store) PackageStats(ctx context.Context, now time.Time) (models.PackageStats, error) {
	pipeline := bson.A{
		bson.M{"$facet": bson.M{
			"total":     bson.A{bson.M{"$count": "count"}},
			"completed": bson.A{bson.M{"$match": bson.M{"endDate": bson.M{"$lt": now}}}, bson.M{"$count": "count"}},
			"active": bson.A{
				bson.M{"$match": bson.M{"startDate": bson.M{"$lte": now}, "endDate": bson.M{"$gte": now}}},
				bson.M{"$count": "count"},
			},
			"upcoming": bson.A{bson.M{"$match": bson.M{"startDate": bson.M{"$gt": now}}}, bson.M{"$count": "count"}},
		}},
	}
	cur, err := s.packages.Aggregate(ctx, pipeline)
	if err != nil {
		return models.PackageStats{}, translate(err)
	}

	type bucket []struct {
		Count int `bson:"count"`
	}
	var res []struct {
		Total     bucket `bson:"total"`
		Completed bucket `bson:"completed"`
		Active    bucket `bson:"active"`
		Upcoming  bucket `bson:"upcoming"`
	}
	if err := cur.All(ctx, &res); err != nil {
		return models.PackageStats{}, err
	}

	first := func(b bucket) int {
		if len(b) == 0 {
			return 0
		}
		return b[0].Count
	}
	var st models.PackageStats
	if len(res) > 0 {
		st = models.PackageStats{
			Total:     first(res[0].Total),
			Active:    first(res[0].Active),
			Upcoming:  first(res[0].Upcoming),
			Completed: first(res[0].Completed),
		}
	}
	return st, nil
}
