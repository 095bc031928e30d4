package medications

import (
	"context"
	"strings"

	"medication-tracker/internal/domain/refills"
)

// Este archivo implementa las interfaces que el motor de refills consume
// (refills.MedicationSource y refills.StockAdjuster). El import va en una
// sola dirección (medications -> refills) para no armar ciclos.

// ActiveMedications expone los medicamentos activos del usuario en la
// forma mínima que el motor de proyección necesita.
func (s *Service) ActiveMedications(ctx context.Context, userID string) ([]refills.SourceMedication, error) {
	meds, err := s.repo.ListActiveByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]refills.SourceMedication, 0, len(meds))
	for _, m := range meds {
		out = append(out, refills.SourceMedication{
			ID:                 m.ID,
			Name:               m.Name,
			Dosage:             m.Dosage,
			Frequency:          m.Frequency,
			CurrentStock:       m.CurrentStock,
			PrescriptionNumber: m.PrescriptionNumber,
			Pharmacy:           m.Pharmacy,
		})
	}
	return out, nil
}

// ActiveSlotCount cuenta los time slots activos de un medicamento.
func (s *Service) ActiveSlotCount(ctx context.Context, medicationID string) (int, error) {
	slots, err := s.repo.ListActiveSlots(ctx, medicationID)
	if err != nil {
		return 0, err
	}
	return len(slots), nil
}

// AddStock suma unidades (restock al retirar un refill).
func (s *Service) AddStock(ctx context.Context, medicationID, userID string, units int) (int, error) {
	medicationID = strings.TrimSpace(medicationID)
	userID = strings.TrimSpace(userID)
	if medicationID == "" || userID == "" || units <= 0 {
		return 0, ErrInvalidInput
	}
	return s.repo.AddStock(ctx, medicationID, userID, units)
}
