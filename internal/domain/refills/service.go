package refills

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
	ErrBadState     = errors.New("invalid state")
)

// restockEstimate: unidades que se suman al stock al marcar picked_up.
// Heurística fija por ahora (no se calcula de la cantidad dispensada).
const restockEstimate = 30

// StockAdjuster suma stock al medicamento cuando un refill se retira.
// Lo implementa medications.Service (interfaz acá para evitar ciclos).
type StockAdjuster interface {
	AddStock(ctx context.Context, medicationID, userID string, units int) (int, error)
}

type Service struct {
	repo   Repository
	source MedicationSource
	stock  StockAdjuster
	now    func() time.Time
}

func NewService(repo Repository, source MedicationSource, stock StockAdjuster) *Service {
	return &Service{
		repo:   repo,
		source: source,
		stock:  stock,
		now:    time.Now,
	}
}

// List proyecta primero y recién después lee: el listado siempre refleja
// el stock actual (staleness cero, a costa de recalcular en cada read).
func (s *Service) List(ctx context.Context, userID string) ([]Refill, error) {
	if _, err := s.Project(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

type CreateInput struct {
	MedicationID       string
	PrescriptionNumber string
	Pharmacy           string
	RefillDate         time.Time
	DaysLeft           int
}

// Create registra un refill manual (status pending). Respeta la misma
// regla del motor: máximo un refill abierto por medicamento.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Refill, error) {
	userID = strings.TrimSpace(userID)
	medID := strings.TrimSpace(in.MedicationID)

	if userID == "" || medID == "" {
		return Refill{}, ErrInvalidInput
	}
	if in.RefillDate.IsZero() {
		return Refill{}, ErrInvalidInput
	}
	if in.DaysLeft < 0 {
		return Refill{}, ErrInvalidInput
	}

	now := s.now()
	r := Refill{
		ID:                 uuid.NewString(),
		MedicationID:       medID,
		UserID:             userID,
		PrescriptionNumber: strings.TrimSpace(in.PrescriptionNumber),
		Pharmacy:           strings.TrimSpace(in.Pharmacy),
		RefillDate:         in.RefillDate,
		DaysLeft:           in.DaysLeft,
		Priority:           priorityFor(in.DaysLeft),
		Status:             StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	inserted, err := s.repo.CreateIfNoneOpen(ctx, r)
	if err != nil {
		return Refill{}, err
	}
	if !inserted {
		return Refill{}, ErrBadState
	}
	return r, nil
}

// Order marca el refill como pedido (pending -> ordered).
func (s *Service) Order(ctx context.Context, refillID, userID string) (Refill, error) {
	r, err := s.getOwned(ctx, refillID, userID)
	if err != nil {
		return Refill{}, err
	}

	// Idempotente
	if r.Status == StatusOrdered {
		return r, nil
	}
	if r.Status != StatusPending {
		return Refill{}, ErrBadState
	}

	r.Status = StatusOrdered
	r.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, r); err != nil {
		return Refill{}, err
	}
	return r, nil
}

// Pickup cierra el refill (ordered -> picked_up) y suma el restock
// estimado al stock del medicamento.
func (s *Service) Pickup(ctx context.Context, refillID, userID string) (Refill, error) {
	r, err := s.getOwned(ctx, refillID, userID)
	if err != nil {
		return Refill{}, err
	}

	// Idempotente
	if r.Status == StatusPickedUp {
		return r, nil
	}
	if r.Status != StatusOrdered {
		return Refill{}, ErrBadState
	}

	r.Status = StatusPickedUp
	r.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, r); err != nil {
		return Refill{}, err
	}

	if _, err := s.stock.AddStock(ctx, r.MedicationID, userID, restockEstimate); err != nil {
		return Refill{}, err
	}

	return r, nil
}

func (s *Service) getOwned(ctx context.Context, refillID, userID string) (Refill, error) {
	refillID = strings.TrimSpace(refillID)
	userID = strings.TrimSpace(userID)
	if refillID == "" || userID == "" {
		return Refill{}, ErrInvalidInput
	}

	r, err := s.repo.GetByID(ctx, refillID)
	if err != nil {
		return Refill{}, ErrNotFound
	}
	if r.UserID != userID {
		return Refill{}, ErrNotFound
	}
	return r, nil
}
