package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"medication-tracker/internal/domain/reminders"
)

type remindersRepo struct {
	mu   sync.RWMutex
	byID map[string]reminders.Reminder
}

func NewRemindersRepo() reminders.Repository {
	return &remindersRepo{
		byID: make(map[string]reminders.Reminder),
	}
}

func (r *remindersRepo) Create(ctx context.Context, rem reminders.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(rem)
}

// CreateBatch: o entra la serie completa o no entra nada.
func (r *remindersRepo) CreateBatch(ctx context.Context, rems []reminders.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rem := range rems {
		if strings.TrimSpace(rem.ID) == "" {
			return errors.New("reminder id required")
		}
		if _, exists := r.byID[rem.ID]; exists {
			return errors.New("reminder already exists")
		}
	}
	for _, rem := range rems {
		r.byID[rem.ID] = rem
	}
	return nil
}

func (r *remindersRepo) createLocked(rem reminders.Reminder) error {
	if strings.TrimSpace(rem.ID) == "" {
		return errors.New("reminder id required")
	}
	if _, exists := r.byID[rem.ID]; exists {
		return errors.New("reminder already exists")
	}
	r.byID[rem.ID] = rem
	return nil
}

func (r *remindersRepo) GetByID(ctx context.Context, id string) (reminders.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rem, ok := r.byID[id]
	if !ok {
		return reminders.Reminder{}, ErrNotFound
	}
	return rem, nil
}

func (r *remindersRepo) ListByUser(ctx context.Context, userID string) ([]reminders.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reminders.Reminder, 0)
	for _, rem := range r.byID {
		if rem.UserID == userID {
			out = append(out, rem)
		}
	}

	// Cronológico: fecha asc, hora asc.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TimeOfDay < out[j].TimeOfDay
	})
	return out, nil
}

func (r *remindersRepo) Update(ctx context.Context, rem reminders.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rem.ID]; !exists {
		return ErrNotFound
	}
	r.byID[rem.ID] = rem
	return nil
}

func (r *remindersRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
