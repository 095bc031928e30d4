package medications

import "time"

// Medication representa un medicamento registrado por un usuario.
// CurrentStock se mide en dosis; nunca baja de 0 (floor en el decremento).
type Medication struct {
	ID          string
	OwnerUserID string

	Name      string
	Dosage    string // texto libre: "500mg", "2 tablets"
	Frequency string // texto libre: "Twice daily", "As needed"

	CurrentStock     int
	Status           Status
	RefillsRemaining int

	PrescriptionNumber string
	Pharmacy           string

	StartDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleSlot es una hora del día (sin fecha) en la que se repite una dosis.
// Soft delete vía IsActive.
type ScheduleSlot struct {
	ID           string
	MedicationID string

	TimeSlot string // "HH:MM" (24h) — ordena lexicográficamente
	IsActive bool

	CreatedAt time.Time
}

// DoseLog registra que una dosis programada se tomó en una fecha concreta.
type DoseLog struct {
	ID           string
	MedicationID string
	UserID       string

	ScheduledTime string // "HH:MM" del slot que se marcó
	Date          string // "YYYY-MM-DD"
	TakenAt       time.Time
}

// ScheduleEntry es la vista "today": un slot clasificado contra "ahora".
type ScheduleEntry struct {
	MedicationID string
	Name         string
	Dosage       string
	TimeSlot     string
	Status       SlotStatus
}
