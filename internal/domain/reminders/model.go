package reminders

import "time"

// Reminder es una instancia concreta con fecha propia. Un pedido recurrente
// se expande en N reminders independientes que comparten título/tipo/patrón
// pero no guardan link a una "serie": después de crearse, cada uno se edita
// o borra por separado.
type Reminder struct {
	ID     string
	UserID string

	MedicationID  string // opcional
	AppointmentID string // opcional

	Title       string
	Description string

	Date      time.Time // solo la fecha importa (medianoche local)
	TimeOfDay string    // "HH:MM"

	Type Type

	IsCompleted bool

	IsRecurring       bool
	RecurrencePattern string
	EndDate           *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
