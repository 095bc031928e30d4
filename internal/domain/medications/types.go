package medications

// Status define los estados de un medicamento.
// @Enum active, paused, discontinued
type Status string

const (
	StatusActive       Status = "active"
	StatusPaused       Status = "paused"
	StatusDiscontinued Status = "discontinued"
)

// SlotStatus clasifica un time slot del día de hoy contra los dose logs.
type SlotStatus string

const (
	SlotCompleted SlotStatus = "completed"
	SlotPending   SlotStatus = "pending"
	SlotUpcoming  SlotStatus = "upcoming"
)
