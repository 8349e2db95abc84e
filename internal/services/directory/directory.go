// Package directory exposes searchable, availability-filtered read access to
// worker records, plus the worker's own availability toggle.
package directory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/karigar-app/karigar-backend/internal/models"
	"github.com/karigar-app/karigar-backend/internal/store"
)

type Service struct {
	Users store.UserStore
}

func NewService(users store.UserStore) *Service {
	return &Service{Users: users}
}

// ListAvailable returns every worker whose availability is available or
// unset, in store order. No pagination.
func (s *Service) ListAvailable(ctx context.Context) ([]models.User, error) {
	workers, err := s.Users.ListWorkers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.User, 0, len(workers))
	for _, w := range workers {
		if w.IsAvailable() {
			out = append(out, w)
		}
	}
	return out, nil
}

// Search narrows ListAvailable by an optional skill filter and an optional
// free-text query. Both filters are substring matches, case-insensitive, and
// conjunctive when both are supplied.
func (s *Service) Search(ctx context.Context, skillFilter, query string) ([]models.User, error) {
	workers, err := s.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	if skillFilter != "" {
		needle := strings.ToLower(skillFilter)
		filtered := workers[:0]
		for _, w := range workers {
			if skillMatches(w.SkillList(), needle) {
				filtered = append(filtered, w)
			}
		}
		workers = filtered
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q != "" {
		filtered := workers[:0]
		for _, w := range workers {
			if workerMatches(&w, q) {
				filtered = append(filtered, w)
			}
		}
		workers = filtered
	}

	return workers, nil
}

func skillMatches(skills []string, needle string) bool {
	for _, skill := range skills {
		if strings.Contains(strings.ToLower(skill), needle) {
			return true
		}
	}
	return false
}

func workerMatches(w *models.User, q string) bool {
	p := w.Profile
	if strings.Contains(strings.ToLower(p.FullName), q) ||
		strings.Contains(strings.ToLower(p.FirstName), q) ||
		strings.Contains(strings.ToLower(p.LastName), q) ||
		strings.Contains(strings.ToLower(p.Address), q) {
		return true
	}
	if p.Description != "" && strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	return skillMatches(w.SkillList(), q)
}

// GetWorker returns a single worker or store.ErrNotFound. A non-worker id is
// reported as not found as well, so employer screens can show a placeholder.
func (s *Service) GetWorker(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleWorker {
		return nil, store.ErrNotFound
	}
	return u, nil
}

// SetAvailability writes the worker's availability flag. The caller is the
// authenticated worker; no further authorization applies.
func (s *Service) SetAvailability(ctx context.Context, workerID uuid.UUID, status models.AvailabilityStatus) error {
	return s.Users.UpdateAvailability(ctx, workerID, status)
}
