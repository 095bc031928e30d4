package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// Reprojector re-evalúa los refills de un usuario después de consumir stock.
// La interfaz vive acá para evitar ciclos de imports (medications <-> refills).
type Reprojector interface {
	Reproject(ctx context.Context, userID string) error
}

type Service struct {
	repo      Repository
	reproject Reprojector
	now       func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// SetReprojector conecta el motor de refills. Se setea desde el router
// porque ambos services se necesitan mutuamente.
func (s *Service) SetReprojector(r Reprojector) {
	s.reproject = r
}

type CreateInput struct {
	Name               string
	Dosage             string
	Frequency          string
	CurrentStock       int
	RefillsRemaining   int
	PrescriptionNumber string
	Pharmacy           string
	StartDate          *time.Time
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Medication, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Medication{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Medication{}, ErrInvalidInput
	}
	if in.CurrentStock < 0 || in.RefillsRemaining < 0 {
		return Medication{}, ErrInvalidInput
	}

	now := s.now()
	m := Medication{
		ID:                 uuid.NewString(),
		OwnerUserID:        ownerUserID,
		Name:               strings.TrimSpace(in.Name),
		Dosage:             strings.TrimSpace(in.Dosage),
		Frequency:          strings.TrimSpace(in.Frequency),
		CurrentStock:       in.CurrentStock,
		Status:             StatusActive,
		RefillsRemaining:   in.RefillsRemaining,
		PrescriptionNumber: strings.TrimSpace(in.PrescriptionNumber),
		Pharmacy:           strings.TrimSpace(in.Pharmacy),
		StartDate:          in.StartDate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// GetOwned devuelve el medicamento solo si pertenece al usuario.
// Un id ajeno se reporta como not found, nunca como forbidden.
func (s *Service) GetOwned(ctx context.Context, id, ownerUserID string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.TrimSpace(ownerUserID) == "" {
		return Medication{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, ErrNotFound
	}
	if m.OwnerUserID != ownerUserID {
		return Medication{}, ErrNotFound
	}
	return m, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerUserID)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	// Set fijo de campos editables (nada de columnas dinámicas).
	Name               *string
	Dosage             *string
	Frequency          *string
	CurrentStock       *int
	Status             *string
	RefillsRemaining   *int
	PrescriptionNumber *string
	Pharmacy           *string
}

func (s *Service) Update(ctx context.Context, id, ownerUserID string, in UpdateInput) (Medication, error) {
	m, err := s.GetOwned(ctx, id, ownerUserID)
	if err != nil {
		return Medication{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Medication{}, ErrInvalidInput
		}
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Dosage != nil {
		m.Dosage = strings.TrimSpace(*in.Dosage)
	}
	if in.Frequency != nil {
		m.Frequency = strings.TrimSpace(*in.Frequency)
	}
	if in.CurrentStock != nil {
		if *in.CurrentStock < 0 {
			return Medication{}, ErrInvalidInput
		}
		m.CurrentStock = *in.CurrentStock
	}
	if in.Status != nil {
		st := Status(strings.TrimSpace(*in.Status))
		switch st {
		case StatusActive, StatusPaused, StatusDiscontinued:
			m.Status = st
		default:
			return Medication{}, ErrInvalidInput
		}
	}
	if in.RefillsRemaining != nil {
		if *in.RefillsRemaining < 0 {
			return Medication{}, ErrInvalidInput
		}
		m.RefillsRemaining = *in.RefillsRemaining
	}
	if in.PrescriptionNumber != nil {
		m.PrescriptionNumber = strings.TrimSpace(*in.PrescriptionNumber)
	}
	if in.Pharmacy != nil {
		m.Pharmacy = strings.TrimSpace(*in.Pharmacy)
	}

	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

type TakeDoseInput struct {
	ScheduledTime string // "HH:MM" del slot marcado; opcional
	Doses         int    // default 1
}

// TakeDose descuenta stock (floor 0), registra el dose log del día y
// dispara la re-proyección de refills del usuario antes de devolver
// el stock resultante.
func (s *Service) TakeDose(ctx context.Context, medicationID, userID string, in TakeDoseInput) (int, error) {
	if _, err := s.GetOwned(ctx, medicationID, userID); err != nil {
		return 0, err
	}
	medicationID = strings.TrimSpace(medicationID)
	userID = strings.TrimSpace(userID)

	doses := in.Doses
	if doses <= 0 {
		doses = 1
	}

	stock, err := s.repo.ConsumeStock(ctx, medicationID, userID, doses)
	if err != nil {
		return 0, err
	}

	now := s.now()
	log := DoseLog{
		ID:            uuid.NewString(),
		MedicationID:  medicationID,
		UserID:        userID,
		ScheduledTime: strings.TrimSpace(in.ScheduledTime),
		Date:          now.Format("2006-01-02"),
		TakenAt:       now,
	}
	if err := s.repo.CreateDoseLog(ctx, log); err != nil {
		return 0, err
	}

	// Re-evaluar refills de TODOS los medicamentos del usuario, no solo este.
	if s.reproject != nil {
		if err := s.reproject.Reproject(ctx, userID); err != nil {
			return 0, err
		}
	}

	return stock, nil
}

func (s *Service) AddSlot(ctx context.Context, medicationID, ownerUserID, timeSlot string) (ScheduleSlot, error) {
	if _, err := s.GetOwned(ctx, medicationID, ownerUserID); err != nil {
		return ScheduleSlot{}, err
	}

	timeSlot = strings.TrimSpace(timeSlot)
	if !validTimeSlot(timeSlot) {
		return ScheduleSlot{}, ErrInvalidInput
	}

	slot := ScheduleSlot{
		ID:           uuid.NewString(),
		MedicationID: medicationID,
		TimeSlot:     timeSlot,
		IsActive:     true,
		CreatedAt:    s.now(),
	}

	if err := s.repo.CreateSlot(ctx, slot); err != nil {
		return ScheduleSlot{}, err
	}
	return slot, nil
}

func (s *Service) ListSlots(ctx context.Context, medicationID, ownerUserID string) ([]ScheduleSlot, error) {
	if _, err := s.GetOwned(ctx, medicationID, ownerUserID); err != nil {
		return nil, err
	}
	return s.repo.ListActiveSlots(ctx, medicationID)
}

// RemoveSlot desactiva el slot (soft delete).
func (s *Service) RemoveSlot(ctx context.Context, slotID, medicationID, ownerUserID string) error {
	if _, err := s.GetOwned(ctx, medicationID, ownerUserID); err != nil {
		return err
	}
	slotID = strings.TrimSpace(slotID)
	if slotID == "" {
		return ErrInvalidInput
	}
	return s.repo.DeactivateSlot(ctx, slotID, medicationID)
}

// validTimeSlot acepta "HH:MM" 24h. El formato importa porque la vista
// today ordena y compara estos strings tal cual.
func validTimeSlot(v string) bool {
	if len(v) != 5 || v[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", v)
	return err == nil
}
