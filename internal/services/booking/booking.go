// Package booking owns the booking lifecycle: creation, the status state
// machine, and the simulated payment step.
package booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/karigar-app/karigar-backend/internal/models"
	"github.com/karigar-app/karigar-backend/internal/store"
)

// ErrValidation marks caller input that violates a precondition. Surfaced
// immediately with no retry.
var ErrValidation = errors.New("validation error")

type Service struct {
	Bookings store.BookingStore

	// now and rng are injectable for tests; zero values fall back to the
	// clock and math/rand.
	now func() time.Time
	rng func() float64
}

func NewService(bookings store.BookingStore) *Service {
	return &Service{
		Bookings: bookings,
		now:      time.Now,
		rng:      rand.Float64,
	}
}

// CreateParams carries everything an employer submits from the booking form.
// Amount is the worker's hourly rate snapshotted at booking time.
type CreateParams struct {
	WorkerID    uuid.UUID
	EmployerID  uuid.UUID
	Task        string
	Description string
	Date        time.Time
	Address     string
	Latitude    float64
	Longitude   float64
	Amount      int64
}

// Create validates the request and persists a pending booking with a pending
// payment sub-record. Nothing is persisted on a validation failure.
func (s *Service) Create(ctx context.Context, p CreateParams) (*models.Booking, error) {
	task := strings.TrimSpace(p.Task)
	address := strings.TrimSpace(p.Address)

	if task == "" {
		return nil, fmt.Errorf("%w: task is required", ErrValidation)
	}
	if address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrValidation)
	}
	if !p.Date.After(s.now()) {
		return nil, fmt.Errorf("%w: scheduled date must be in the future", ErrValidation)
	}

	b := &models.Booking{
		ID:          uuid.New(),
		WorkerID:    p.WorkerID,
		EmployerID:  p.EmployerID,
		Status:      models.BookingStatusPending,
		Date:        p.Date,
		Task:        task,
		Description: strings.TrimSpace(p.Description),
		Location: models.Location{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Address:   address,
		},
		Payment: models.Payment{
			Amount: p.Amount,
			Status: models.PaymentStatusPending,
		},
		CreatedAt: s.now(),
	}

	if err := s.Bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Transition moves a booking to newStatus, enforcing the transition table:
// pending -> accepted|cancelled, accepted -> completed|cancelled. Completed
// and cancelled are terminal. Illegal moves fail with ErrValidation and leave
// the booking untouched.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, newStatus models.BookingStatus) (*models.Booking, error) {
	switch newStatus {
	case models.BookingStatusAccepted, models.BookingStatusCompleted, models.BookingStatusCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !b.Status.CanTransition(newStatus) {
		return nil, fmt.Errorf("%w: cannot move booking from %s to %s", ErrValidation, b.Status, newStatus)
	}

	if err := s.Bookings.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}

	b.Status = newStatus
	return b, nil
}

// ProcessPayment simulates a payment gateway call with a 90% success rate.
// On success the payment sub-record is marked completed with the method
// recorded and true is returned. On failure nothing is mutated and false is
// returned so the caller can retry.
func (s *Service) ProcessPayment(ctx context.Context, id uuid.UUID, method string) (bool, error) {
	if strings.TrimSpace(method) == "" {
		return false, fmt.Errorf("%w: payment method is required", ErrValidation)
	}

	if _, err := s.Bookings.GetByID(ctx, id); err != nil {
		return false, err
	}

	// Stand-in for a real gateway integration.
	success := s.rng() > 0.1

	if !success {
		return false, nil
	}

	if err := s.Bookings.UpdatePayment(ctx, id, models.PaymentStatusCompleted, method); err != nil {
		return false, err
	}
	return true, nil
}

// List returns bookings for the employer or the worker when exactly one id is
// given, or every booking when both are nil (reporting mode). Results are
// newest first either way.
func (s *Service) List(ctx context.Context, employerID, workerID *uuid.UUID) ([]models.Booking, error) {
	switch {
	case employerID != nil:
		return s.Bookings.ListByEmployer(ctx, *employerID)
	case workerID != nil:
		return s.Bookings.ListByWorker(ctx, *workerID)
	default:
		return s.Bookings.ListAll(ctx)
	}
}
