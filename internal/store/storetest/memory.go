// Package storetest provides in-memory store implementations for tests.
package storetest

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/karigar-app/karigar-backend/internal/models"
	"github.com/karigar-app/karigar-backend/internal/store"
)

// Users is an in-memory store.UserStore.
type Users struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User

	// FailUpdateRating forces UpdateRating to fail with ErrUnavailable, to
	// exercise the best-effort aggregate path.
	FailUpdateRating bool
}

func NewUsers() *Users {
	return &Users{users: make(map[uuid.UUID]models.User)}
}

func (s *Users) Add(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Users) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Users) ListWorkers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		if u.Role == models.RoleWorker {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Users) UpdateAvailability(ctx context.Context, workerID uuid.UUID, status models.AvailabilityStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[workerID]
	if !ok {
		return store.ErrNotFound
	}
	u.AvailabilityStatus = status
	s.users[workerID] = u
	return nil
}

func (s *Users) UpdateRating(ctx context.Context, workerID uuid.UUID, rating float64) error {
	if s.FailUpdateRating {
		return store.ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[workerID]
	if !ok {
		return store.ErrNotFound
	}
	u.Profile.Rating = rating
	s.users[workerID] = u
	return nil
}

// Bookings is an in-memory store.BookingStore.
type Bookings struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]models.Booking
}

func NewBookings() *Bookings {
	return &Bookings{bookings: make(map[uuid.UUID]models.Booking)}
}

func (s *Bookings) Create(ctx context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = *b
	return nil
}

func (s *Bookings) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

func (s *Bookings) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return store.ErrNotFound
	}
	b.Status = status
	s.bookings[id] = b
	return nil
}

func (s *Bookings) UpdatePayment(ctx context.Context, id uuid.UUID, status models.PaymentStatus, method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return store.ErrNotFound
	}
	b.Payment.Status = status
	b.Payment.Method = method
	s.bookings[id] = b
	return nil
}

func (s *Bookings) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]models.Booking, error) {
	return s.list(func(b models.Booking) bool { return b.EmployerID == employerID }), nil
}

func (s *Bookings) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.Booking, error) {
	return s.list(func(b models.Booking) bool { return b.WorkerID == workerID }), nil
}

func (s *Bookings) ListAll(ctx context.Context) ([]models.Booking, error) {
	return s.list(func(models.Booking) bool { return true }), nil
}

func (s *Bookings) list(keep func(models.Booking) bool) []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Len reports how many bookings are persisted.
func (s *Bookings) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// Ratings is an in-memory store.RatingStore.
type Ratings struct {
	mu      sync.Mutex
	ratings []models.Rating
}

func NewRatings() *Ratings {
	return &Ratings{}
}

func (s *Ratings) Create(ctx context.Context, r *models.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings = append(s.ratings, *r)
	return nil
}

func (s *Ratings) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Rating
	for _, r := range s.ratings {
		if r.WorkerID == workerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Ratings) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.ratings {
		if r.BookingID == bookingID {
			return true, nil
		}
	}
	return false, nil
}
