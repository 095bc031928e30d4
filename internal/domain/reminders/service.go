package reminders

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

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Title       string
	Description string

	Date      time.Time
	TimeOfDay string // "HH:MM"

	Type Type

	MedicationID  string
	AppointmentID string

	IsRecurring       bool
	RecurrencePattern string
	EndDate           *time.Time
}

// Create valida y persiste. No recurrente: una instancia. Recurrente:
// expande la serie completa y la inserta en bloque. Siempre devuelve
// las instancias creadas.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) ([]Reminder, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	// Requeridos: título, fecha y hora. Se rechaza antes de computar nada.
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrInvalidInput
	}
	if in.Date.IsZero() {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(in.TimeOfDay) == "" {
		return nil, ErrInvalidInput
	}

	typ := in.Type
	if typ == "" {
		typ = TypeGeneral
	}
	if !validType(typ) {
		return nil, ErrInvalidInput
	}

	now := s.now()
	base := Reminder{
		UserID:            userID,
		MedicationID:      strings.TrimSpace(in.MedicationID),
		AppointmentID:     strings.TrimSpace(in.AppointmentID),
		Title:             strings.TrimSpace(in.Title),
		Description:       strings.TrimSpace(in.Description),
		Date:              in.Date,
		TimeOfDay:         strings.TrimSpace(in.TimeOfDay),
		Type:              typ,
		IsRecurring:       in.IsRecurring,
		RecurrencePattern: strings.TrimSpace(in.RecurrencePattern),
		EndDate:           in.EndDate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if !in.IsRecurring {
		base.ID = uuid.NewString()
		base.RecurrencePattern = ""
		base.EndDate = nil
		if err := s.repo.Create(ctx, base); err != nil {
			return nil, err
		}
		return []Reminder{base}, nil
	}

	rule := ParseRule(base.RecurrencePattern)
	instances := Expand(base, in.Date, rule, in.EndDate)
	for i := range instances {
		instances[i].ID = uuid.NewString()
	}

	if err := s.repo.CreateBatch(ctx, instances); err != nil {
		return nil, err
	}
	return instances, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Reminder, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

// Complete marca/desmarca la instancia.
func (s *Service) Complete(ctx context.Context, id, userID string, completed bool) (Reminder, error) {
	r, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return Reminder{}, err
	}

	r.IsCompleted = completed
	r.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, r); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar. Campos editables fijos.
	Title       *string
	Description *string
	Date        *time.Time
	TimeOfDay   *string
}

func (s *Service) Update(ctx context.Context, id, userID string, in UpdateInput) (Reminder, error) {
	r, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return Reminder{}, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return Reminder{}, ErrInvalidInput
		}
		r.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		r.Description = strings.TrimSpace(*in.Description)
	}
	if in.Date != nil {
		if in.Date.IsZero() {
			return Reminder{}, ErrInvalidInput
		}
		r.Date = *in.Date
	}
	if in.TimeOfDay != nil {
		if strings.TrimSpace(*in.TimeOfDay) == "" {
			return Reminder{}, ErrInvalidInput
		}
		r.TimeOfDay = strings.TrimSpace(*in.TimeOfDay)
	}

	r.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, r); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	r, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, r.ID)
}

func (s *Service) getOwned(ctx context.Context, id, userID string) (Reminder, error) {
	id = strings.TrimSpace(id)
	userID = strings.TrimSpace(userID)
	if id == "" || userID == "" {
		return Reminder{}, ErrInvalidInput
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Reminder{}, ErrNotFound
	}
	if r.UserID != userID {
		return Reminder{}, ErrNotFound
	}
	return r, nil
}
