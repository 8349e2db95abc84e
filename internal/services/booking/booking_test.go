package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/karigar-app/karigar-backend/internal/models"
	"github.com/karigar-app/karigar-backend/internal/store"
	"github.com/karigar-app/karigar-backend/internal/store/storetest"
)

func newTestService() (*Service, *storetest.Bookings) {
	bookings := storetest.NewBookings()
	svc := NewService(bookings)
	return svc, bookings
}

func validParams() CreateParams {
	return CreateParams{
		WorkerID:   uuid.New(),
		EmployerID: uuid.New(),
		Task:       "Fix sink",
		Date:       time.Now().Add(24 * time.Hour),
		Address:    "House 12, Street 4, Karachi",
		Latitude:   24.8607,
		Longitude:  67.0011,
		Amount:     1500,
	}
}

func TestCreatePastDateFails(t *testing.T) {
	svc, bookings := newTestService()

	p := validParams()
	p.Date = time.Now().Add(-time.Hour)

	_, err := svc.Create(context.Background(), p)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if bookings.Len() != 0 {
		t.Fatalf("expected nothing persisted, got %d bookings", bookings.Len())
	}
}

func TestCreateRequiredFields(t *testing.T) {
	svc, bookings := newTestService()

	cases := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"empty task", func(p *CreateParams) { p.Task = "  " }},
		{"empty address", func(p *CreateParams) { p.Address = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)
			if _, err := svc.Create(context.Background(), p); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	if bookings.Len() != 0 {
		t.Fatalf("expected nothing persisted, got %d bookings", bookings.Len())
	}
}

func TestCreateDefaults(t *testing.T) {
	svc, _ := newTestService()

	p := validParams()
	b, err := svc.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if b.ID == uuid.Nil {
		t.Error("expected generated id")
	}
	if b.Status != models.BookingStatusPending {
		t.Errorf("status = %s, want pending", b.Status)
	}
	if b.Payment.Status != models.PaymentStatusPending {
		t.Errorf("payment status = %s, want pending", b.Payment.Status)
	}
	if b.Payment.Amount != 1500 {
		t.Errorf("payment amount = %d, want 1500", b.Payment.Amount)
	}
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from models.BookingStatus
		to   models.BookingStatus
		ok   bool
	}{
		{models.BookingStatusPending, models.BookingStatusAccepted, true},
		{models.BookingStatusPending, models.BookingStatusCancelled, true},
		{models.BookingStatusPending, models.BookingStatusCompleted, false},
		{models.BookingStatusAccepted, models.BookingStatusCompleted, true},
		{models.BookingStatusAccepted, models.BookingStatusCancelled, true},
		{models.BookingStatusAccepted, models.BookingStatusAccepted, false},
		{models.BookingStatusCompleted, models.BookingStatusAccepted, false},
		{models.BookingStatusCompleted, models.BookingStatusCancelled, false},
		{models.BookingStatusCancelled, models.BookingStatusAccepted, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			svc, bookings := newTestService()

			b, err := svc.Create(context.Background(), validParams())
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if tc.from != models.BookingStatusPending {
				if err := bookings.UpdateStatus(context.Background(), b.ID, tc.from); err != nil {
					t.Fatalf("seed status: %v", err)
				}
			}

			_, err = svc.Transition(context.Background(), b.ID, tc.to)
			if tc.ok && err != nil {
				t.Fatalf("expected transition to succeed, got %v", err)
			}
			if !tc.ok {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				got, _ := bookings.GetByID(context.Background(), b.ID)
				if got.Status != tc.from {
					t.Errorf("booking mutated on illegal transition: %s", got.Status)
				}
			}
		})
	}
}

func TestTransitionUnknownBooking(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Transition(context.Background(), uuid.New(), models.BookingStatusAccepted)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransitionVisibleInList(t *testing.T) {
	svc, _ := newTestService()

	p := validParams()
	b, err := svc.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Transition(context.Background(), b.ID, models.BookingStatusAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.Transition(context.Background(), b.ID, models.BookingStatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}

	list, err := svc.List(context.Background(), &p.EmployerID, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("expected the booking in the employer list, got %d entries", len(list))
	}
	if list[0].Status != models.BookingStatusCompleted {
		t.Errorf("status = %s, want completed", list[0].Status)
	}
}

func TestProcessPaymentOutcomes(t *testing.T) {
	svc, bookings := newTestService()

	b, err := svc.Create(context.Background(), validParams())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Failure path: nothing is mutated, caller may retry.
	svc.rng = func() float64 { return 0.05 }
	ok, err := svc.ProcessPayment(context.Background(), b.ID, "card")
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if ok {
		t.Fatal("expected simulated failure")
	}
	got, _ := bookings.GetByID(context.Background(), b.ID)
	if got.Payment.Status != models.PaymentStatusPending || got.Payment.Method != "" {
		t.Errorf("payment mutated on failure: %+v", got.Payment)
	}

	// Success path: status completed, method recorded.
	svc.rng = func() float64 { return 0.9 }
	ok, err = svc.ProcessPayment(context.Background(), b.ID, "card")
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if !ok {
		t.Fatal("expected simulated success")
	}
	got, _ = bookings.GetByID(context.Background(), b.ID)
	if got.Payment.Status != models.PaymentStatusCompleted {
		t.Errorf("payment status = %s, want completed", got.Payment.Status)
	}
	if got.Payment.Method != "card" {
		t.Errorf("payment method = %q, want card", got.Payment.Method)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := newTestService()

	employerID := uuid.New()
	base := time.Now()
	for i := 0; i < 3; i++ {
		p := validParams()
		p.EmployerID = employerID
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		p.Date = base.Add(48 * time.Hour)
		if _, err := svc.Create(context.Background(), p); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	list, err := svc.List(context.Background(), &employerID, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 bookings, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.After(list[i-1].CreatedAt) {
			t.Fatal("expected newest-first ordering")
		}
	}

	all, err := svc.List(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("reporting mode: expected 3 bookings, got %d", len(all))
	}
}

func TestLifecycleEndToEnd(t *testing.T) {
	// Employer books a worker for tomorrow, worker accepts, employer pays,
	// work is completed.
	svc, bookings := newTestService()

	p := validParams()
	p.Task = "Fix sink"
	p.Amount = 1500
	p.Date = time.Now().Add(24 * time.Hour)

	b, err := svc.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Status != models.BookingStatusPending {
		t.Fatalf("status = %s, want pending", b.Status)
	}

	if _, err := svc.Transition(context.Background(), b.ID, models.BookingStatusAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}

	svc.rng = func() float64 { return 0.95 }
	ok, err := svc.ProcessPayment(context.Background(), b.ID, "cash")
	if err != nil || !ok {
		t.Fatalf("payment: ok=%v err=%v", ok, err)
	}

	if _, err := svc.Transition(context.Background(), b.ID, models.BookingStatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, _ := bookings.GetByID(context.Background(), b.ID)
	if got.Status != models.BookingStatusCompleted {
		t.Errorf("status = %s, want completed", got.Status)
	}
	if got.Payment.Status != models.PaymentStatusCompleted {
		t.Errorf("payment status = %s, want completed", got.Payment.Status)
	}
}
