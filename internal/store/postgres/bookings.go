package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/query"
	"TRAVELPACK_BACK-END/internal/report"
)

const bookingSelect = `SELECT id, user_id, package_id, selected_food, selected_accommodation,
	total_price, status, booking_date FROM bookings`

func scanBooking(row pgx.Row) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.UserID, &b.PackageID, &b.SelectedOptions.Food, &b.SelectedOptions.Accommodation,
		&b.TotalPrice, &b.Status, &b.BookingDate)
	return b, err
}

func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO bookings (id, user_id, package_id, selected_food, selected_accommodation,
		 total_price, status, booking_date) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.UserID, b.PackageID, b.SelectedOptions.Food, b.SelectedOptions.Accommodation,
		b.TotalPrice, string(b.Status), b.BookingDate)
	return translate(err)
}

func (s *Store) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	b, err := scanBooking(s.db.QueryRow(ctx, bookingSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	b, err := scanBooking(s.db.QueryRow(ctx,
		`UPDATE bookings SET status = $2 WHERE id = $1
		 RETURNING id, user_id, package_id, selected_food, selected_accommodation, total_price, status, booking_date`,
		id, string(status)))
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) ListBookings(ctx context.Context, q query.Query) ([]models.Booking, int, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	where, args := whereClause(q.Criteria, bookingColumns)

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(1) FROM bookings`+where, args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	page, pageArgs := pageClause(q, len(args))
	rows, err := s.db.Query(ctx, bookingSelect+where+orderClause(q.Sort, bookingColumns)+page, append(args, pageArgs...)...)
	if err != nil {
		return nil, 0, translate(err)
	}
	out, err := collectBookings(rows)
	return out, total, err
}

func (s *Store) BookingsByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	rows, err := s.db.Query(ctx, bookingSelect+` WHERE user_id = $1 ORDER BY booking_date DESC`, userID)
	if err != nil {
		return nil, translate(err)
	}
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]models.Booking, error) {
	defer rows.Close()
	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) CountBookingsByPackage(ctx context.Context, packageID uuid.UUID) (int, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(1) FROM bookings WHERE package_id = $1`, packageID).Scan(&n)
	return n, translate(err)
}

func (s *Store) BookingStatsByPackage(ctx context.Context, includeCancelled bool) ([]models.PackageBookingStats, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	rows, err := s.db.Query(ctx,
		`SELECT p.id, p.from_location, p.to_location, p.start_date, p.end_date,
		        COUNT(b.id), COALESCE(SUM(b.total_price), 0)
		 FROM bookings b
		 JOIN packages p ON p.id = b.package_id
		 WHERE $1 OR b.status <> 'cancelled'
		 GROUP BY p.id`, includeCancelled)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := []models.PackageBookingStats{}
	for rows.Next() {
		var (
			p       models.Package
			count   int
			revenue float64
		)
		if err := rows.Scan(&p.ID, &p.FromLocation, &p.ToLocation, &p.StartDate, &p.EndDate, &count, &revenue); err != nil {
			return nil, err
		}
		out = append(out, report.Row(p, count, revenue))
	}
	if err := rows.Err(); err != nil {
		return nil, err
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
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	rows, err := s.db.Query(ctx,
		`SELECT user_id, COUNT(1) FROM bookings WHERE user_id = ANY($1::uuid[]) GROUP BY user_id`,
		uuidStrings(userIDs))
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id uuid.UUID
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}
