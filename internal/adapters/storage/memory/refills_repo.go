package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"medication-tracker/internal/domain/refills"
)

type refillsRepo struct {
	mu   sync.RWMutex
	byID map[string]refills.Refill
}

func NewRefillsRepo() refills.Repository {
	return &refillsRepo{
		byID: make(map[string]refills.Refill),
	}
}

func (r *refillsRepo) Create(ctx context.Context, ref refills.Refill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(ref)
}

// CreateIfNoneOpen: el check de "ya hay uno abierto" y el insert pasan
// bajo el mismo lock; dos requests simultáneos no pueden duplicar.
func (r *refillsRepo) CreateIfNoneOpen(ctx context.Context, ref refills.Refill) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.MedicationID == ref.MedicationID && existing.Status.IsOpen() {
			return false, nil
		}
	}

	if err := r.createLocked(ref); err != nil {
		return false, err
	}
	return true, nil
}

func (r *refillsRepo) createLocked(ref refills.Refill) error {
	if strings.TrimSpace(ref.ID) == "" {
		return errors.New("refill id required")
	}
	if _, exists := r.byID[ref.ID]; exists {
		return errors.New("refill already exists")
	}
	r.byID[ref.ID] = ref
	return nil
}

func (r *refillsRepo) GetByID(ctx context.Context, id string) (refills.Refill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ref, ok := r.byID[id]
	if !ok {
		return refills.Refill{}, ErrNotFound
	}
	return ref, nil
}

func (r *refillsRepo) ListByUser(ctx context.Context, userID string) ([]refills.Refill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]refills.Refill, 0)
	for _, ref := range r.byID {
		if ref.UserID == userID {
			out = append(out, ref)
		}
	}

	// Más urgente primero: fecha de refill asc, creación desempata.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RefillDate.Equal(out[j].RefillDate) {
			return out[i].RefillDate.Before(out[j].RefillDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *refillsRepo) Update(ctx context.Context, ref refills.Refill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[ref.ID]; !exists {
		return ErrNotFound
	}
	r.byID[ref.ID] = ref
	return nil
}
