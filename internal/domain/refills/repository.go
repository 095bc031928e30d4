package refills

import "context"

type Repository interface {
	Create(ctx context.Context, r Refill) error

	// CreateIfNoneOpen inserta el refill solo si el medicamento no tiene ya
	// uno abierto (pending|ordered). El check y el insert ocurren en una
	// sola operación del adapter para cerrar la carrera de duplicados.
	// Devuelve true si insertó.
	CreateIfNoneOpen(ctx context.Context, r Refill) (bool, error)

	GetByID(ctx context.Context, id string) (Refill, error)
	ListByUser(ctx context.Context, userID string) ([]Refill, error)
	Update(ctx context.Context, r Refill) error
}
