package reminders

// Type clasifica el reminder.
// @Enum medication, appointment, refill, general
type Type string

const (
	TypeMedication  Type = "medication"
	TypeAppointment Type = "appointment"
	TypeRefill      Type = "refill"
	TypeGeneral     Type = "general"
)

func validType(t Type) bool {
	switch t {
	case TypeMedication, TypeAppointment, TypeRefill, TypeGeneral:
		return true
	default:
		return false
	}
}
