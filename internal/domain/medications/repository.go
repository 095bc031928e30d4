package medications

import "context"

type Repository interface {
	Create(ctx context.Context, m Medication) error
	GetByID(ctx context.Context, id string) (Medication, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error)
	ListActiveByOwner(ctx context.Context, ownerUserID string) ([]Medication, error)
	Update(ctx context.Context, m Medication) error

	// ConsumeStock aplica max(current_stock - doses, 0) de forma atómica,
	// scoped a (id, ownerUserID). Devuelve el stock resultante.
	ConsumeStock(ctx context.Context, id, ownerUserID string, doses int) (int, error)

	// AddStock suma unidades al stock (restock). Devuelve el stock resultante.
	AddStock(ctx context.Context, id, ownerUserID string, units int) (int, error)

	CreateSlot(ctx context.Context, s ScheduleSlot) error
	ListActiveSlots(ctx context.Context, medicationID string) ([]ScheduleSlot, error)
	DeactivateSlot(ctx context.Context, slotID, medicationID string) error

	CreateDoseLog(ctx context.Context, l DoseLog) error
	ListDoseLogs(ctx context.Context, medicationID, date string) ([]DoseLog, error)
}
