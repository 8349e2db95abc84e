// Package rating records employer feedback on completed bookings and keeps
// the worker's displayed average in step with the full rating set.
package rating

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/karigar-app/karigar-backend/internal/models"
	"github.com/karigar-app/karigar-backend/internal/store"
)

var ErrValidation = errors.New("validation error")

type Service struct {
	Ratings  store.RatingStore
	Bookings store.BookingStore
	Users    store.UserStore
}

func NewService(ratings store.RatingStore, bookings store.BookingStore, users store.UserStore) *Service {
	return &Service{Ratings: ratings, Bookings: bookings, Users: users}
}

// Submit persists a rating for a completed booking, then recomputes the
// worker's mean rating best-effort: a failed recompute is logged and
// swallowed, never failing the submission. The stale average self-corrects on
// the next successful submission.
func (s *Service) Submit(ctx context.Context, bookingID, employerID uuid.UUID, value int, review string) (*models.Rating, error) {
	if value < 1 || value > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.EmployerID != employerID {
		return nil, fmt.Errorf("%w: booking does not belong to this employer", ErrValidation)
	}
	if b.Status != models.BookingStatusCompleted {
		return nil, fmt.Errorf("%w: only completed bookings can be rated", ErrValidation)
	}

	// One rating per booking, checked before insert. The unique index on
	// booking_id backs this up at the store level.
	exists, err := s.Ratings.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: booking has already been rated", ErrValidation)
	}

	r := &models.Rating{
		ID:         uuid.New(),
		BookingID:  bookingID,
		WorkerID:   b.WorkerID,
		EmployerID: employerID,
		Rating:     value,
		Review:     strings.TrimSpace(review),
		CreatedAt:  time.Now(),
	}

	if err := s.Ratings.Create(ctx, r); err != nil {
		return nil, err
	}

	if err := s.recomputeWorkerRating(ctx, b.WorkerID); err != nil {
		log.Printf("rating: failed to update worker %s average: %v", b.WorkerID, err)
	}

	return r, nil
}

// ListForWorker returns a worker's ratings, newest first.
func (s *Service) ListForWorker(ctx context.Context, workerID uuid.UUID) ([]models.Rating, error) {
	return s.Ratings.ListByWorker(ctx, workerID)
}

func (s *Service) recomputeWorkerRating(ctx context.Context, workerID uuid.UUID) error {
	ratings, err := s.Ratings.ListByWorker(ctx, workerID)
	if err != nil {
		return err
	}
	if len(ratings) == 0 {
		return nil
	}

	var sum int
	for _, r := range ratings {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(ratings))

	return s.Users.UpdateRating(ctx, workerID, mean)
}
