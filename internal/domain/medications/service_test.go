package medications

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID     map[string]Medication
	slots    map[string][]ScheduleSlot
	doseLogs []DoseLog
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:  map[string]Medication{},
		slots: map[string][]ScheduleSlot{},
	}
}

func (r *testRepo) Create(ctx context.Context, m Medication) error {
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[m.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medication{}, errRepoNotFound
	}
	return m, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	out := make([]Medication, 0)
	for _, m := range r.byID {
		if m.OwnerUserID == ownerUserID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *testRepo) ListActiveByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	all, _ := r.ListByOwner(ctx, ownerUserID)
	out := make([]Medication, 0)
	for _, m := range all {
		if m.Status == StatusActive {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, m Medication) error {
	if _, ok := r.byID[m.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) ConsumeStock(ctx context.Context, id, ownerUserID string, doses int) (int, error) {
	m, ok := r.byID[id]
	if !ok || m.OwnerUserID != ownerUserID {
		return 0, errRepoNotFound
	}
	m.CurrentStock -= doses
	if m.CurrentStock < 0 {
		m.CurrentStock = 0
	}
	r.byID[id] = m
	return m.CurrentStock, nil
}

func (r *testRepo) AddStock(ctx context.Context, id, ownerUserID string, units int) (int, error) {
	m, ok := r.byID[id]
	if !ok || m.OwnerUserID != ownerUserID {
		return 0, errRepoNotFound
	}
	m.CurrentStock += units
	r.byID[id] = m
	return m.CurrentStock, nil
}

func (r *testRepo) CreateSlot(ctx context.Context, s ScheduleSlot) error {
	r.slots[s.MedicationID] = append(r.slots[s.MedicationID], s)
	return nil
}

func (r *testRepo) ListActiveSlots(ctx context.Context, medicationID string) ([]ScheduleSlot, error) {
	out := make([]ScheduleSlot, 0)
	for _, s := range r.slots[medicationID] {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *testRepo) DeactivateSlot(ctx context.Context, slotID, medicationID string) error {
	for i, s := range r.slots[medicationID] {
		if s.ID == slotID {
			r.slots[medicationID][i].IsActive = false
			return nil
		}
	}
	return errRepoNotFound
}

func (r *testRepo) CreateDoseLog(ctx context.Context, l DoseLog) error {
	r.doseLogs = append(r.doseLogs, l)
	return nil
}

func (r *testRepo) ListDoseLogs(ctx context.Context, medicationID, date string) ([]DoseLog, error) {
	out := make([]DoseLog, 0)
	for _, l := range r.doseLogs {
		if l.MedicationID == medicationID && l.Date == date {
			out = append(out, l)
		}
	}
	return out, nil
}

// spyReprojector registra cada invocación.
type spyReprojector struct {
	calls []string
}

func (s *spyReprojector) Reproject(ctx context.Context, userID string) error {
	s.calls = append(s.calls, userID)
	return nil
}

func newTestService(repo *testRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)
	}
	return svc
}

func mustCreate(t *testing.T, svc *Service, owner string, in CreateInput) Medication {
	t.Helper()
	m, err := svc.Create(context.Background(), owner, in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return m
}

// -------------------------
// Tests
// -------------------------

func TestCreate_DefaultsAndValidation(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	m := mustCreate(t, svc, "user-1", CreateInput{Name: "  Lisinopril  ", Dosage: "10mg", CurrentStock: 30})
	if m.Name != "Lisinopril" {
		t.Fatalf("expected trimmed name, got %q", m.Name)
	}
	if m.Status != StatusActive {
		t.Fatalf("expected active status by default, got %s", m.Status)
	}
	if m.ID == "" || m.CreatedAt.IsZero() {
		t.Fatalf("expected generated id and timestamps")
	}

	if _, err := svc.Create(context.Background(), "user-1", CreateInput{Name: "   "}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "user-1", CreateInput{Name: "X", CurrentStock: -1}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for negative stock, got %v", err)
	}
}

func TestGetOwned_ForeignUserGetsNotFound(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	m := mustCreate(t, svc, "user-1", CreateInput{Name: "Aspirina"})

	if _, err := svc.GetOwned(context.Background(), m.ID, "user-2"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
	if _, err := svc.GetOwned(context.Background(), "nope", "user-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestTakeDose_ConsumesStockAndLogsAndReprojects(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	spy := &spyReprojector{}
	svc.SetReprojector(spy)

	m := mustCreate(t, svc, "user-1", CreateInput{Name: "Metformina", CurrentStock: 10})

	stock, err := svc.TakeDose(context.Background(), m.ID, "user-1", TakeDoseInput{ScheduledTime: "08:00"})
	if err != nil {
		t.Fatalf("TakeDose returned error: %v", err)
	}
	if stock != 9 {
		t.Fatalf("expected stock 9, got %d", stock)
	}

	logs, _ := repo.ListDoseLogs(context.Background(), m.ID, "2025-06-10")
	if len(logs) != 1 {
		t.Fatalf("expected 1 dose log for today, got %d", len(logs))
	}
	if logs[0].ScheduledTime != "08:00" {
		t.Fatalf("expected scheduled time on the log, got %q", logs[0].ScheduledTime)
	}

	if len(spy.calls) != 1 || spy.calls[0] != "user-1" {
		t.Fatalf("expected one reprojection for user-1, got %v", spy.calls)
	}
}

func TestTakeDose_FloorsAtZero(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	m := mustCreate(t, svc, "user-1", CreateInput{Name: "X", CurrentStock: 3})

	stock, err := svc.TakeDose(context.Background(), m.ID, "user-1", TakeDoseInput{Doses: 5})
	if err != nil {
		t.Fatalf("TakeDose returned error: %v", err)
	}
	if stock != 0 {
		t.Fatalf("expected stock floored at 0, got %d", stock)
	}
}

func TestTakeDose_ForeignMedicationGetsNotFound(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	m := mustCreate(t, svc, "user-1", CreateInput{Name: "X", CurrentStock: 3})

	if _, err := svc.TakeDose(context.Background(), m.ID, "user-2", TakeDoseInput{}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(repo.doseLogs) != 0 {
		t.Fatalf("no dose log should be written on failure")
	}
}

func TestUpdate_AllowListedFieldsOnly(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	m := mustCreate(t, svc, "user-1", CreateInput{Name: "Original", CurrentStock: 5})

	name := "Renombrado"
	status := "paused"
	got, err := svc.Update(context.Background(), m.ID, "user-1", UpdateInput{Name: &name, Status: &status})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got.Name != "Renombrado" || got.Status != StatusPaused {
		t.Fatalf("unexpected medication after update: %#v", got)
	}
	if got.CurrentStock != 5 {
		t.Fatalf("untouched field changed: stock %d", got.CurrentStock)
	}

	bad := "archived"
	if _, err := svc.Update(context.Background(), m.ID, "user-1", UpdateInput{Status: &bad}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestAddSlot_ValidatesTimeFormat(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	m := mustCreate(t, svc, "user-1", CreateInput{Name: "X"})

	slot, err := svc.AddSlot(context.Background(), m.ID, "user-1", "08:30")
	if err != nil {
		t.Fatalf("AddSlot returned error: %v", err)
	}
	if !slot.IsActive || slot.TimeSlot != "08:30" {
		t.Fatalf("unexpected slot: %#v", slot)
	}

	for _, bad := range []string{"8:30", "08:60", "25:00", "0830", "mañana"} {
		if _, err := svc.AddSlot(context.Background(), m.ID, "user-1", bad); err != ErrInvalidInput {
			t.Fatalf("%q: expected ErrInvalidInput, got %v", bad, err)
		}
	}
}

func TestRemoveSlot_SoftDeletes(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	m := mustCreate(t, svc, "user-1", CreateInput{Name: "X"})
	slot, _ := svc.AddSlot(context.Background(), m.ID, "user-1", "09:00")

	if err := svc.RemoveSlot(context.Background(), slot.ID, m.ID, "user-1"); err != nil {
		t.Fatalf("RemoveSlot returned error: %v", err)
	}
	slots, _ := svc.ListSlots(context.Background(), m.ID, "user-1")
	if len(slots) != 0 {
		t.Fatalf("expected no active slots, got %d", len(slots))
	}
}

func TestTodaySchedule_ClassifiesAndSorts(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo) // now = 14:30

	m := mustCreate(t, svc, "user-1", CreateInput{Name: "Metformina", Dosage: "500mg", CurrentStock: 20})
	for _, ts := range []string{"20:00", "08:00", "12:00"} {
		if _, err := svc.AddSlot(context.Background(), m.ID, "user-1", ts); err != nil {
			t.Fatalf("AddSlot %s: %v", ts, err)
		}
	}

	// La dosis de las 08:00 ya se tomó hoy.
	if _, err := svc.TakeDose(context.Background(), m.ID, "user-1", TakeDoseInput{ScheduledTime: "08:00"}); err != nil {
		t.Fatalf("TakeDose returned error: %v", err)
	}

	entries, err := svc.TodaySchedule(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("TodaySchedule returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// Orden ascendente por hora.
	if entries[0].TimeSlot != "08:00" || entries[1].TimeSlot != "12:00" || entries[2].TimeSlot != "20:00" {
		t.Fatalf("unexpected order: %s %s %s", entries[0].TimeSlot, entries[1].TimeSlot, entries[2].TimeSlot)
	}

	// 08:00 tomada, 12:00 ya pasó sin tomar, 20:00 todavía no llega.
	if entries[0].Status != SlotCompleted {
		t.Fatalf("expected 08:00 completed, got %s", entries[0].Status)
	}
	if entries[1].Status != SlotPending {
		t.Fatalf("expected 12:00 pending, got %s", entries[1].Status)
	}
	if entries[2].Status != SlotUpcoming {
		t.Fatalf("expected 20:00 upcoming, got %s", entries[2].Status)
	}
}

func TestTodaySchedule_SkipsInactiveMedications(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	m := mustCreate(t, svc, "user-1", CreateInput{Name: "Pausada", CurrentStock: 20})
	if _, err := svc.AddSlot(context.Background(), m.ID, "user-1", "08:00"); err != nil {
		t.Fatalf("AddSlot: %v", err)
	}

	status := "paused"
	if _, err := svc.Update(context.Background(), m.ID, "user-1", UpdateInput{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	entries, err := svc.TodaySchedule(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("TodaySchedule returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty schedule, got %d entries", len(entries))
	}
}
