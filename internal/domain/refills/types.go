package refills

// Status define el ciclo de vida de un refill.
// Transiciones válidas: pending -> ordered -> picked_up (sin vuelta atrás).
// @Enum pending, ordered, picked_up
type Status string

const (
	StatusPending  Status = "pending"
	StatusOrdered  Status = "ordered"
	StatusPickedUp Status = "picked_up"
)

// IsOpen indica si el refill sigue en progreso (no terminal).
// Solo puede existir uno abierto por medicamento.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusOrdered
}

// Priority clasifica la urgencia según los días de stock restantes.
// @Enum low, medium, high
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)
