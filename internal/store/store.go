// Package store defines the persistence boundary the lifecycle services
// depend on, so they can be exercised against fakes in tests and against
// Postgres in production.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/karigar-app/karigar-backend/internal/models"
)

var (
	// ErrNotFound means the referenced record does not exist. Callers are
	// expected to surface it as a displayable empty state, not a crash.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable wraps network or driver failures. Callers surface it
	// with a manual-retry affordance; nothing in this codebase auto-retries.
	ErrUnavailable = errors.New("backend unavailable")
)

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListWorkers(ctx context.Context) ([]models.User, error)
	UpdateAvailability(ctx context.Context, workerID uuid.UUID, status models.AvailabilityStatus) error
	UpdateRating(ctx context.Context, workerID uuid.UUID, rating float64) error
}

type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) error
	UpdatePayment(ctx context.Context, id uuid.UUID, status models.PaymentStatus, method string) error

	// List results are newest first. Exactly one of employer/worker filters
	// applies per call site; both nil means all bookings (reporting mode).
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]models.Booking, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
}

type RatingStore interface {
	Create(ctx context.Context, r *models.Rating) error
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.Rating, error)
	ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
}
