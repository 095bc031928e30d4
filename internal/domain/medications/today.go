package medications

import (
	"context"
	"sort"
	"strings"
)

// TodaySchedule arma la vista "hoy": cada slot activo de cada medicamento
// activo, cruzado contra los dose logs de la fecha actual.
// Lectura pura: se recalcula en cada llamada, sin cache y sin writes.
func (s *Service) TodaySchedule(ctx context.Context, userID string) ([]ScheduleEntry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}

	now := s.now()
	today := now.Format("2006-01-02")
	nowClock := now.Format("15:04")

	meds, err := s.repo.ListActiveByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]ScheduleEntry, 0)

	for _, m := range meds {
		slots, err := s.repo.ListActiveSlots(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		if len(slots) == 0 {
			continue
		}

		logs, err := s.repo.ListDoseLogs(ctx, m.ID, today)
		if err != nil {
			return nil, err
		}

		taken := make(map[string]struct{}, len(logs))
		for _, l := range logs {
			taken[l.ScheduledTime] = struct{}{}
		}

		for _, slot := range slots {
			entry := ScheduleEntry{
				MedicationID: m.ID,
				Name:         m.Name,
				Dosage:       m.Dosage,
				TimeSlot:     slot.TimeSlot,
			}

			switch {
			case hasLog(taken, slot.TimeSlot):
				entry.Status = SlotCompleted
			case slot.TimeSlot <= nowClock:
				entry.Status = SlotPending
			default:
				entry.Status = SlotUpcoming
			}

			out = append(out, entry)
		}
	}

	// Presentación: ascendente por hora; nombre desempata para orden estable.
	sort.Slice(out, func(i, j int) bool {
		if out[i].TimeSlot != out[j].TimeSlot {
			return out[i].TimeSlot < out[j].TimeSlot
		}
		return out[i].Name < out[j].Name
	})

	return out, nil
}

func hasLog(taken map[string]struct{}, timeSlot string) bool {
	_, ok := taken[timeSlot]
	return ok
}
