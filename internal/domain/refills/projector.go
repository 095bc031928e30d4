package refills

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// projectionHorizonDays: con más de esto de stock no se proyecta refill.
	projectionHorizonDays = 30

	// refillLeadDays: el refill se adelanta estos días antes del agotamiento.
	refillLeadDays = 3

	highPriorityDays   = 3
	mediumPriorityDays = 7
)

// SourceMedication es lo mínimo que el motor necesita saber de un
// medicamento. Definido acá (y no en medications) para evitar ciclos:
// medications implementa MedicationSource importando este paquete.
type SourceMedication struct {
	ID                 string
	Name               string
	Dosage             string
	Frequency          string
	CurrentStock       int
	PrescriptionNumber string
	Pharmacy           string
}

// MedicationSource expone los medicamentos activos de un usuario y sus
// slots activos. Lo implementa medications.Service.
type MedicationSource interface {
	ActiveMedications(ctx context.Context, userID string) ([]SourceMedication, error)
	ActiveSlotCount(ctx context.Context, medicationID string) (int, error)
}

// Project es el motor de proyección de refills (idempotente).
// Por cada medicamento activo con stock > 0 calcula los días de stock
// restantes, clasifica urgencia y materializa un refill pending si el
// medicamento no tiene ya uno abierto. La proyección calculada se incluye
// en el resultado aunque no se haya insertado fila nueva.
func (s *Service) Project(ctx context.Context, userID string) ([]Projection, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}

	meds, err := s.source.ActiveMedications(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	out := make([]Projection, 0)

	for _, m := range meds {
		if m.CurrentStock <= 0 {
			continue
		}

		daily, err := s.dailyDoses(ctx, m)
		if err != nil {
			return nil, err
		}
		if daily <= 0 {
			// sin cadencia no hay proyección posible; no es un error
			continue
		}

		daysRemaining := int(float64(m.CurrentStock) / daily)
		if daysRemaining > projectionHorizonDays {
			continue
		}

		lead := daysRemaining - refillLeadDays
		if lead < 0 {
			lead = 0
		}
		refillDate := today.AddDate(0, 0, lead)

		p := Projection{
			MedicationID:       m.ID,
			Name:               m.Name,
			Dosage:             m.Dosage,
			CurrentStock:       m.CurrentStock,
			DaysRemaining:      daysRemaining,
			RefillDate:         refillDate,
			Priority:           priorityFor(daysRemaining),
			PrescriptionNumber: m.PrescriptionNumber,
			Pharmacy:           m.Pharmacy,
		}
		out = append(out, p)

		r := Refill{
			ID:                 uuid.NewString(),
			MedicationID:       m.ID,
			UserID:             userID,
			PrescriptionNumber: m.PrescriptionNumber,
			Pharmacy:           m.Pharmacy,
			RefillDate:         refillDate,
			DaysLeft:           daysRemaining,
			Priority:           p.Priority,
			Status:             StatusPending,
			CreatedAt:          now,
			UpdatedAt:          now,
		}

		// Si ya hay un refill abierto, el adapter no inserta y seguimos.
		if _, err := s.repo.CreateIfNoneOpen(ctx, r); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Reproject corre la proyección descartando el resultado. Satisface
// medications.Reprojector (se invoca después de cada consumo de stock).
func (s *Service) Reproject(ctx context.Context, userID string) error {
	_, err := s.Project(ctx, userID)
	return err
}

// dailyDoses: cantidad de slots activos; si no hay, se deriva del texto
// de frecuencia. Valores fraccionales son válidos (0.5, 1/7).
func (s *Service) dailyDoses(ctx context.Context, m SourceMedication) (float64, error) {
	n, err := s.source.ActiveSlotCount(ctx, m.ID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return float64(n), nil
	}
	return dosesPerDay(m.Frequency), nil
}

// dosesPerDay mapea el texto libre de frecuencia a dosis/día.
// El orden de los checks importa: "three times" antes que "twice",
// "as needed" y "every other day" antes que todo lo demás.
func dosesPerDay(frequency string) float64 {
	f := strings.ToLower(strings.TrimSpace(frequency))

	switch {
	case strings.Contains(f, "as needed"):
		return 0.5 // estimación conservadora
	case strings.Contains(f, "every other day"):
		return 0.5
	case strings.Contains(f, "three times"):
		return 3
	case strings.Contains(f, "four times"):
		return 4
	case strings.Contains(f, "twice"):
		return 2
	case strings.Contains(f, "once"):
		return 1
	case strings.Contains(f, "weekly"):
		return 1.0 / 7
	default:
		return 1
	}
}

func priorityFor(daysRemaining int) Priority {
	switch {
	case daysRemaining <= highPriorityDays:
		return PriorityHigh
	case daysRemaining <= mediumPriorityDays:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
