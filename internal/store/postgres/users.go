package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/query"
)

const userSelect = `SELECT id, name, email, password_hash, google_id, role, profile_picture,
	address, created_at, updated_at FROM users`

func scanUser(row pgx.Row) (models.User, error) {
	var (
		u       models.User
		address []byte
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.GoogleID, &u.Role, &u.ProfilePicture,
		&address, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return u, err
	}
	if len(address) > 0 {
		var a models.Address
		if err := json.Unmarshal(address, &a); err != nil {
			return u, err
		}
		u.Address = &a
	}
	return u, nil
}

// addressArg encodes the address for a ::jsonb parameter
func addressArg(a *models.Address) (any, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	addr, err := addressArg(u.Address)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, google_id, role, profile_picture,
		 address, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.GoogleID, u.Role, u.ProfilePicture,
		addr, u.CreatedAt, u.UpdatedAt)
	return translate(err)
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	u, err := scanUser(s.db.QueryRow(ctx, userSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	u, err := scanUser(s.db.QueryRow(ctx, userSelect+` WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) GetUsers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	out := make(map[uuid.UUID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	rows, err := s.db.Query(ctx, userSelect+` WHERE id = ANY($1::uuid[])`, uuidStrings(ids))
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	addr, err := addressArg(u.Address)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET name = $2, email = $3, password_hash = $4, google_id = $5, role = $6,
		 profile_picture = $7, address = $8::jsonb, updated_at = $9 WHERE id = $1`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.GoogleID, u.Role, u.ProfilePicture, addr, u.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return translate(pgx.ErrNoRows)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context, q query.Query) ([]models.User, int, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	where, args := whereClause(q.Criteria, userColumns)

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(1) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	page, pageArgs := pageClause(q, len(args))
	rows, err := s.db.Query(ctx, userSelect+where+orderClause(q.Sort, userColumns)+page, append(args, pageArgs...)...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}
