package refills

import "time"

// Refill es el registro persistido de una recompra pendiente/en curso.
// Lo crea el motor de proyección o el usuario manualmente.
type Refill struct {
	ID           string
	MedicationID string
	UserID       string

	PrescriptionNumber string
	Pharmacy           string

	RefillDate time.Time // fecha objetivo para recomprar
	DaysLeft   int       // snapshot de días de stock al momento de crearlo

	Priority Priority
	Status   Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Projection es el cálculo fresco por medicamento. Es a la vez el payload
// de respuesta y el log de lo que el motor evaluó (se devuelve siempre,
// haya insertado fila nueva o no).
type Projection struct {
	MedicationID       string
	Name               string
	Dosage             string
	CurrentStock       int
	DaysRemaining      int
	RefillDate         time.Time
	Priority           Priority
	PrescriptionNumber string
	Pharmacy           string
}
