package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/karigar-app/karigar-backend/internal/models"
	"github.com/karigar-app/karigar-backend/internal/store"
	"github.com/karigar-app/karigar-backend/internal/store/storetest"
)

func worker(name string, skills string, availability models.AvailabilityStatus) models.User {
	return models.User{
		ID:                 uuid.New(),
		Email:              name + "@example.com",
		Role:               models.RoleWorker,
		Status:             models.StatusApproved,
		AvailabilityStatus: availability,
		Profile: models.Profile{
			FirstName: name,
			LastName:  "Khan",
			FullName:  name + " Khan",
			Address:   "Gulberg, Lahore",
			Skills:    datatypes.JSON(skills),
		},
		CreatedAt: time.Now(),
	}
}

func seeded() (*Service, *storetest.Users, map[string]models.User) {
	users := storetest.NewUsers()

	ws := map[string]models.User{
		"plumber":     worker("Ahmed", `["Plumber","General Labor"]`, models.AvailabilityAvailable),
		"electrician": worker("Bilal", `["Electrician"]`, ""),
		"offline":     worker("Danish", `["Plumber"]`, models.AvailabilityUnavailable),
	}
	for _, w := range ws {
		users.Add(w)
	}

	employer := models.User{
		ID:     uuid.New(),
		Email:  "employer@example.com",
		Role:   models.RoleEmployer,
		Status: models.StatusApproved,
	}
	users.Add(employer)
	ws["employer"] = employer

	return NewService(users), users, ws
}

func TestListAvailableFiltersUnavailable(t *testing.T) {
	svc, _, ws := seeded()

	got, err := svc.ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 available workers, got %d", len(got))
	}
	for _, w := range got {
		if w.ID == ws["offline"].ID {
			t.Error("unavailable worker leaked into the directory")
		}
		if w.Role != models.RoleWorker {
			t.Errorf("non-worker %s in directory", w.Email)
		}
	}
}

func TestUnsetAvailabilityCountsAsAvailable(t *testing.T) {
	svc, _, ws := seeded()

	got, err := svc.ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	found := false
	for _, w := range got {
		if w.ID == ws["electrician"].ID {
			found = true
		}
	}
	if !found {
		t.Error("worker with unset availability missing from directory")
	}
}

func TestSearchBySkill(t *testing.T) {
	svc, _, ws := seeded()

	got, err := svc.Search(context.Background(), "plumb", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != ws["plumber"].ID {
		t.Fatalf("expected only the available plumber, got %d results", len(got))
	}
}

func TestSearchFreeText(t *testing.T) {
	svc, _, _ := seeded()

	cases := []struct {
		query string
		want  int
	}{
		{"  AHMED ", 1},  // first name, trimmed + case-insensitive
		{"khan", 2},      // last name matches both available workers
		{"lahore", 2},    // address
		{"electric", 1},  // skill substring
		{"nonexistent", 0},
	}

	for _, tc := range cases {
		got, err := svc.Search(context.Background(), "", tc.query)
		if err != nil {
			t.Fatalf("search %q: %v", tc.query, err)
		}
		if len(got) != tc.want {
			t.Errorf("search %q: got %d results, want %d", tc.query, len(got), tc.want)
		}
	}
}

func TestSearchIsSubsetOfAvailable(t *testing.T) {
	svc, _, _ := seeded()

	available, err := svc.ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	availableIDs := make(map[uuid.UUID]bool, len(available))
	for _, w := range available {
		availableIDs[w.ID] = true
	}

	for _, query := range []string{"", "khan", "plumber"} {
		got, err := svc.Search(context.Background(), "plumb", query)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		for _, w := range got {
			if !availableIDs[w.ID] {
				t.Errorf("search result %s not in ListAvailable", w.Email)
			}
		}
	}
}

func TestSearchFiltersAreConjunctive(t *testing.T) {
	svc, _, _ := seeded()

	// Skill matches the plumber, free text matches only the electrician;
	// together they match nobody.
	got, err := svc.Search(context.Background(), "plumber", "bilal")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
}

func TestGetWorker(t *testing.T) {
	svc, _, ws := seeded()

	got, err := svc.GetWorker(context.Background(), ws["plumber"].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != ws["plumber"].ID {
		t.Error("wrong worker returned")
	}

	if _, err := svc.GetWorker(context.Background(), uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}

	// Employers are not directory entries.
	if _, err := svc.GetWorker(context.Background(), ws["employer"].ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for employer id, got %v", err)
	}
}

func TestSetAvailability(t *testing.T) {
	svc, users, ws := seeded()

	if err := svc.SetAvailability(context.Background(), ws["plumber"].ID, models.AvailabilityUnavailable); err != nil {
		t.Fatalf("set availability: %v", err)
	}

	u, err := users.GetByID(context.Background(), ws["plumber"].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.AvailabilityStatus != models.AvailabilityUnavailable {
		t.Errorf("availability = %s, want unavailable", u.AvailabilityStatus)
	}

	got, err := svc.ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, w := range got {
		if w.ID == ws["plumber"].ID {
			t.Error("worker still listed after going unavailable")
		}
	}
}
