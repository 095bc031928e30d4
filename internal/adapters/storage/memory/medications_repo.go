package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"medication-tracker/internal/domain/medications"
)

var (
	ErrNotFound = errors.New("not found")
)

type medicationsRepo struct {
	mu       sync.RWMutex
	byID     map[string]medications.Medication
	slots    map[string]medications.ScheduleSlot
	doseLogs map[string]medications.DoseLog
}

func NewMedicationsRepo() medications.Repository {
	return &medicationsRepo{
		byID:     make(map[string]medications.Medication),
		slots:    make(map[string]medications.ScheduleSlot),
		doseLogs: make(map[string]medications.DoseLog),
	}
}

func (r *medicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("medication id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("medication already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *medicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return medications.Medication{}, ErrNotFound
	}
	return m, nil
}

func (r *medicationsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listByOwnerLocked(ownerUserID, false), nil
}

func (r *medicationsRepo) ListActiveByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listByOwnerLocked(ownerUserID, true), nil
}

func (r *medicationsRepo) listByOwnerLocked(ownerUserID string, onlyActive bool) []medications.Medication {
	out := make([]medications.Medication, 0)
	for _, m := range r.byID {
		if m.OwnerUserID != ownerUserID {
			continue
		}
		if onlyActive && m.Status != medications.StatusActive {
			continue
		}
		out = append(out, m)
	}

	// Orden estable por created_at asc (consistencia en dev/tests)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *medicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[m.ID]; !exists {
		return ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

// ConsumeStock: el floor a 0 y el write ocurren bajo el mismo lock,
// equivalente al UPDATE atómico del adapter postgres.
func (r *medicationsRepo) ConsumeStock(ctx context.Context, id, ownerUserID string, doses int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok || m.OwnerUserID != ownerUserID {
		return 0, ErrNotFound
	}

	m.CurrentStock -= doses
	if m.CurrentStock < 0 {
		m.CurrentStock = 0
	}
	r.byID[id] = m
	return m.CurrentStock, nil
}

func (r *medicationsRepo) AddStock(ctx context.Context, id, ownerUserID string, units int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok || m.OwnerUserID != ownerUserID {
		return 0, ErrNotFound
	}

	m.CurrentStock += units
	r.byID[id] = m
	return m.CurrentStock, nil
}

func (r *medicationsRepo) CreateSlot(ctx context.Context, s medications.ScheduleSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("slot id required")
	}
	if _, exists := r.slots[s.ID]; exists {
		return errors.New("slot already exists")
	}
	r.slots[s.ID] = s
	return nil
}

func (r *medicationsRepo) ListActiveSlots(ctx context.Context, medicationID string) ([]medications.ScheduleSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.ScheduleSlot, 0)
	for _, s := range r.slots {
		if s.MedicationID == medicationID && s.IsActive {
			out = append(out, s)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].TimeSlot < out[j].TimeSlot
	})
	return out, nil
}

func (r *medicationsRepo) DeactivateSlot(ctx context.Context, slotID, medicationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[slotID]
	if !ok || s.MedicationID != medicationID {
		return ErrNotFound
	}
	s.IsActive = false
	r.slots[slotID] = s
	return nil
}

func (r *medicationsRepo) CreateDoseLog(ctx context.Context, l medications.DoseLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		return errors.New("dose log id required")
	}
	r.doseLogs[l.ID] = l
	return nil
}

func (r *medicationsRepo) ListDoseLogs(ctx context.Context, medicationID, date string) ([]medications.DoseLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.DoseLog, 0)
	for _, l := range r.doseLogs {
		if l.MedicationID == medicationID && l.Date == date {
			out = append(out, l)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].TakenAt.Before(out[j].TakenAt)
	})
	return out, nil
}
