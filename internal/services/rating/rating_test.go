package rating

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/karigar-app/karigar-backend/internal/models"
	"github.com/karigar-app/karigar-backend/internal/store"
	"github.com/karigar-app/karigar-backend/internal/store/storetest"
)

type fixture struct {
	svc      *Service
	users    *storetest.Users
	bookings *storetest.Bookings
	workerID uuid.UUID
	employer uuid.UUID
}

func setup(t *testing.T) *fixture {
	t.Helper()

	users := storetest.NewUsers()
	bookings := storetest.NewBookings()
	ratings := storetest.NewRatings()

	workerID := uuid.New()
	users.Add(models.User{
		ID:     workerID,
		Email:  "worker@example.com",
		Role:   models.RoleWorker,
		Status: models.StatusApproved,
	})

	return &fixture{
		svc:      NewService(ratings, bookings, users),
		users:    users,
		bookings: bookings,
		workerID: workerID,
		employer: uuid.New(),
	}
}

// completedBooking seeds a completed booking for the fixture's worker and
// employer and returns its id.
func (f *fixture) completedBooking(t *testing.T) uuid.UUID {
	t.Helper()

	b := &models.Booking{
		ID:         uuid.New(),
		WorkerID:   f.workerID,
		EmployerID: f.employer,
		Status:     models.BookingStatusCompleted,
		Task:       "Fix sink",
		CreatedAt:  time.Now(),
	}
	if err := f.bookings.Create(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b.ID
}

func TestSubmitRecomputesMean(t *testing.T) {
	f := setup(t)

	for _, value := range []int{5, 4, 5} {
		id := f.completedBooking(t)
		if _, err := f.svc.Submit(context.Background(), id, f.employer, value, "good work"); err != nil {
			t.Fatalf("submit %d: %v", value, err)
		}
	}

	u, err := f.users.GetByID(context.Background(), f.workerID)
	if err != nil {
		t.Fatalf("get worker: %v", err)
	}
	want := 14.0 / 3.0
	if math.Abs(u.Profile.Rating-want) > 1e-9 {
		t.Errorf("rating = %v, want %v", u.Profile.Rating, want)
	}
}

func TestSubmitSequenceIsCommutative(t *testing.T) {
	f := setup(t)

	for _, value := range []int{5, 3} {
		id := f.completedBooking(t)
		if _, err := f.svc.Submit(context.Background(), id, f.employer, value, ""); err != nil {
			t.Fatalf("submit %d: %v", value, err)
		}
	}

	u, _ := f.users.GetByID(context.Background(), f.workerID)
	if u.Profile.Rating != 4.0 {
		t.Errorf("rating = %v, want 4.0", u.Profile.Rating)
	}
}

func TestSubmitFirstRating(t *testing.T) {
	f := setup(t)

	id := f.completedBooking(t)
	r, err := f.svc.Submit(context.Background(), id, f.employer, 5, "Great work")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if r.WorkerID != f.workerID {
		t.Error("worker id not resolved from the booking")
	}

	u, _ := f.users.GetByID(context.Background(), f.workerID)
	if u.Profile.Rating != 5.0 {
		t.Errorf("rating = %v, want 5.0", u.Profile.Rating)
	}
}

func TestSubmitRejectsDuplicateBooking(t *testing.T) {
	f := setup(t)

	id := f.completedBooking(t)
	if _, err := f.svc.Submit(context.Background(), id, f.employer, 5, ""); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := f.svc.Submit(context.Background(), id, f.employer, 1, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation on duplicate, got %v", err)
	}

	ratings, _ := f.svc.ListForWorker(context.Background(), f.workerID)
	if len(ratings) != 1 {
		t.Errorf("expected 1 rating, got %d", len(ratings))
	}
}

func TestSubmitGuards(t *testing.T) {
	f := setup(t)

	pending := &models.Booking{
		ID:         uuid.New(),
		WorkerID:   f.workerID,
		EmployerID: f.employer,
		Status:     models.BookingStatusPending,
		CreatedAt:  time.Now(),
	}
	if err := f.bookings.Create(context.Background(), pending); err != nil {
		t.Fatalf("seed: %v", err)
	}
	completed := f.completedBooking(t)

	cases := []struct {
		name     string
		booking  uuid.UUID
		employer uuid.UUID
		value    int
		wantErr  error
	}{
		{"value too low", completed, f.employer, 0, ErrValidation},
		{"value too high", completed, f.employer, 6, ErrValidation},
		{"unknown booking", uuid.New(), f.employer, 4, store.ErrNotFound},
		{"wrong employer", completed, uuid.New(), 4, ErrValidation},
		{"not completed", pending.ID, f.employer, 4, ErrValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Submit(context.Background(), tc.booking, tc.employer, tc.value, "")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestAggregateFailureIsNonFatal(t *testing.T) {
	f := setup(t)
	f.users.FailUpdateRating = true

	id := f.completedBooking(t)
	if _, err := f.svc.Submit(context.Background(), id, f.employer, 5, ""); err != nil {
		t.Fatalf("submit should succeed despite aggregate failure, got %v", err)
	}

	// The rating is persisted even though the average write failed.
	ratings, err := f.svc.ListForWorker(context.Background(), f.workerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ratings) != 1 {
		t.Fatalf("expected 1 rating, got %d", len(ratings))
	}

	// The average lags; the next successful submission corrects it.
	f.users.FailUpdateRating = false
	id2 := f.completedBooking(t)
	if _, err := f.svc.Submit(context.Background(), id2, f.employer, 3, ""); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	u, _ := f.users.GetByID(context.Background(), f.workerID)
	if u.Profile.Rating != 4.0 {
		t.Errorf("rating = %v, want 4.0 after self-correction", u.Profile.Rating)
	}
}

func TestListForWorkerNewestFirst(t *testing.T) {
	f := setup(t)

	for _, value := range []int{5, 4} {
		id := f.completedBooking(t)
		if _, err := f.svc.Submit(context.Background(), id, f.employer, value, ""); err != nil {
			t.Fatalf("submit: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	ratings, err := f.svc.ListForWorker(context.Background(), f.workerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ratings) != 2 {
		t.Fatalf("expected 2 ratings, got %d", len(ratings))
	}
	if ratings[0].CreatedAt.Before(ratings[1].CreatedAt) {
		t.Error("expected newest-first ordering")
	}
}
