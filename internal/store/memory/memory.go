// Package memory is an in-process store used for local development and tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/query"
	"TRAVELPACK_BACK-END/internal/report"
	"TRAVELPACK_BACK-END/internal/store"
)

// table keeps records in insertion order
type table[T any] struct {
	rows  map[uuid.UUID]T
	order []uuid.UUID
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[uuid.UUID]T)}
}

func (t *table[T]) put(id uuid.UUID, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) remove(id uuid.UUID) {
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *table[T]) all() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

// Store implements store.Store in memory
type Store struct {
	mu       sync.RWMutex
	packages *table[models.Package]
	bookings *table[models.Booking]
	users    *table[models.User]
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		packages: newTable[models.Package](),
		bookings: newTable[models.Booking](),
		users:    newTable[models.User](),
	}
}

func (s *Store) Ping(ctx context.Context) error  { return ctx.Err() }
func (s *Store) Close(ctx context.Context) error { return nil }

// Packages

func (s *Store) CreatePackage(ctx context.Context, p *models.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, ok := s.packages.rows[p.ID]; ok {
		return store.ErrDuplicate
	}
	s.packages.put(p.ID, *p)
	return nil
}

func (s *Store) GetPackage(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.packages.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) GetPackages(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uuid.UUID]models.Package, len(ids))
	for _, id := range ids {
		if p, ok := s.packages.rows[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *Store) UpdatePackage(ctx context.Context, p *models.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.packages.rows[p.ID]; !ok {
		return store.ErrNotFound
	}
	s.packages.put(p.ID, *p)
	return nil
}

func (s *Store) DeletePackage(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.packages.rows[id]; !ok {
		return store.ErrNotFound
	}
	s.packages.remove(id)
	return nil
}

func (s *Store) ListPackages(ctx context.Context, q query.Query) ([]models.Package, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, total := list(s.packages.all(), q, packageField)
	return page, total, nil
}

func (s *Store) PackageStats(ctx context.Context, now time.Time) (models.PackageStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return report.PackageStats(s.packages.all(), now), nil
}

// Bookings

func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if _, ok := s.bookings.rows[b.ID]; ok {
		return store.ErrDuplicate
	}
	s.bookings.put(b.ID, *b)
	return nil
}

func (s *Store) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	b.Status = status
	s.bookings.put(id, b)
	return &b, nil
}

func (s *Store) ListBookings(ctx context.Context, q query.Query) ([]models.Booking, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, total := list(s.bookings.all(), q, bookingField)
	return page, total, nil
}

func (s *Store) BookingsByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Booking
	for _, b := range s.bookings.all() {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) CountBookingsByPackage(ctx context.Context, packageID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, b := range s.bookings.rows {
		if b.PackageID == packageID {
			n++
		}
	}
	return n, nil
}

func (s *Store) BookingStatsByPackage(ctx context.Context, includeCancelled bool) ([]models.PackageBookingStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return report.BookingStatsByPackage(s.bookings.all(), s.packages.rows, includeCancelled), nil
}

func (s *Store) CountBookingsByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return report.CountByUser(s.bookings.all(), userIDs), nil
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	for _, existing := range s.users.rows {
		if existing.ID == u.ID || strings.EqualFold(existing.Email, u.Email) {
			return store.ErrDuplicate
		}
	}
	s.users.put(u.ID, *u)
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users.rows {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetUsers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uuid.UUID]models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users.rows[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users.rows[u.ID]; !ok {
		return store.ErrNotFound
	}
	for _, existing := range s.users.rows {
		if existing.ID != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return store.ErrDuplicate
		}
	}
	s.users.put(u.ID, *u)
	return nil
}

func (s *Store) ListUsers(ctx context.Context, q query.Query) ([]models.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, total := list(s.users.all(), q, userField)
	return page, total, nil
}
