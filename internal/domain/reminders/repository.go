package reminders

import "context"

type Repository interface {
	Create(ctx context.Context, r Reminder) error

	// CreateBatch persiste una serie completa. El adapter debe aplicarla
	// entera o no aplicarla (una tx en postgres): reintentar una serie a
	// medias duplicaría reminders.
	CreateBatch(ctx context.Context, rs []Reminder) error

	GetByID(ctx context.Context, id string) (Reminder, error)
	ListByUser(ctx context.Context, userID string) ([]Reminder, error)
	Update(ctx context.Context, r Reminder) error
	Delete(ctx context.Context, id string) error
}
