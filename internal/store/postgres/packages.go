package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/query"
)

const packageSelect = `SELECT id, from_location, to_location, start_date, end_date, base_price,
	included_food, included_accommodation, food_price, accommodation_price,
	description, image, created_at, updated_at FROM packages`

func scanPackage(row pgx.Row) (models.Package, error) {
	var p models.Package
	err := row.Scan(&p.ID, &p.FromLocation, &p.ToLocation, &p.StartDate, &p.EndDate, &p.BasePrice,
		&p.IncludedServices.Food, &p.IncludedServices.Accommodation, &p.FoodPrice, &p.AccommodationPrice,
		&p.Description, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) CreatePackage(ctx context.Context, p *models.Package) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO packages (id, from_location, to_location, start_date, end_date, base_price,
		 included_food, included_accommodation, food_price, accommodation_price,
		 description, image, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.FromLocation, p.ToLocation, p.StartDate, p.EndDate, p.BasePrice,
		p.IncludedServices.Food, p.IncludedServices.Accommodation, p.FoodPrice, p.AccommodationPrice,
		p.Description, p.Image, p.CreatedAt, p.UpdatedAt)
	return translate(err)
}

func (s *Store) GetPackage(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	p, err := scanPackage(s.db.QueryRow(ctx, packageSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) GetPackages(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Package, error) {
	out := make(map[uuid.UUID]models.Package, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	rows, err := s.db.Query(ctx, packageSelect+` WHERE id = ANY($1::uuid[])`, uuidStrings(ids))
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (s *Store) UpdatePackage(ctx context.Context, p *models.Package) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	tag, err := s.db.Exec(ctx,
		`UPDATE packages SET from_location = $2, to_location = $3, start_date = $4, end_date = $5,
		 base_price = $6, included_food = $7, included_accommodation = $8, food_price = $9,
		 accommodation_price = $10, description = $11, image = $12, updated_at = $13
		 WHERE id = $1`,
		p.ID, p.FromLocation, p.ToLocation, p.StartDate, p.EndDate,
		p.BasePrice, p.IncludedServices.Food, p.IncludedServices.Accommodation, p.FoodPrice,
		p.AccommodationPrice, p.Description, p.Image, p.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return translate(pgx.ErrNoRows)
	}
	return nil
}

func (s *Store) DeletePackage(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	tag, err := s.db.Exec(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return translate(pgx.ErrNoRows)
	}
	return nil
}

func (s *Store) ListPackages(ctx context.Context, q query.Query) ([]models.Package, int, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	where, args := whereClause(q.Criteria, packageColumns)

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(1) FROM packages`+where, args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	page, pageArgs := pageClause(q, len(args))
	rows, err := s.db.Query(ctx, packageSelect+where+orderClause(q.Sort, packageColumns)+page, append(args, pageArgs...)...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	pkgs := []models.Package{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, 0, err
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, total, rows.Err()
}

func (s *Store) PackageStats(ctx context.Context, now time.Time) (models.PackageStats, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	var st models.PackageStats
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(1),
		        COUNT(1) FILTER (WHERE start_date <= $1 AND end_date >= $1),
		        COUNT(1) FILTER (WHERE start_date > $1),
		        COUNT(1) FILTER (WHERE end_date < $1)
		 FROM packages`, now).Scan(&st.Total, &st.Active, &st.Upcoming, &st.Completed)
	return st, translate(err)
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
