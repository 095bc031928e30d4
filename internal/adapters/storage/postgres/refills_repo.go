package postgres

import (
	"context"
	"database/sql"
	"strings"

	"medication-tracker/internal/domain/refills"
)

type RefillsRepo struct {
	db *sql.DB
}

func NewRefillsRepo(db *sql.DB) *RefillsRepo {
	return &RefillsRepo{db: db}
}

const refillColumns = `
	id, medication_id, user_id,
	prescription_number, pharmacy,
	refill_date, days_left,
	priority, status,
	created_at, updated_at
`

func (r *RefillsRepo) Create(ctx context.Context, ref refills.Refill) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refills (`+refillColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, refillArgs(ref)...)
	return err
}

// CreateIfNoneOpen hace el check y el insert en UN statement: dos
// proyecciones simultáneas del mismo usuario no pueden duplicar el
// refill abierto de un medicamento.
func (r *RefillsRepo) CreateIfNoneOpen(ctx context.Context, ref refills.Refill) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO refills (`+refillColumns+`)
		SELECT $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
		WHERE NOT EXISTS (
			SELECT 1 FROM refills
			WHERE medication_id = $2 AND status IN ('pending','ordered')
		)
	`, refillArgs(ref)...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RefillsRepo) GetByID(ctx context.Context, id string) (refills.Refill, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return refills.Refill{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+refillColumns+`
		FROM refills
		WHERE id = $1
	`, id)

	return scanRefill(row)
}

func (r *RefillsRepo) ListByUser(ctx context.Context, userID string) ([]refills.Refill, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+refillColumns+`
		FROM refills
		WHERE user_id = $1
		ORDER BY refill_date ASC, created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]refills.Refill, 0)
	for rows.Next() {
		ref, err := scanRefill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

func (r *RefillsRepo) Update(ctx context.Context, ref refills.Refill) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE refills
		SET
			prescription_number = $2,
			pharmacy = $3,
			refill_date = $4,
			days_left = $5,
			priority = $6,
			status = $7,
			updated_at = $8
		WHERE id = $1
	`,
		ref.ID,
		ref.PrescriptionNumber,
		ref.Pharmacy,
		ref.RefillDate,
		ref.DaysLeft,
		string(ref.Priority),
		string(ref.Status),
		ref.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func refillArgs(ref refills.Refill) []any {
	return []any{
		ref.ID,
		ref.MedicationID,
		ref.UserID,
		ref.PrescriptionNumber,
		ref.Pharmacy,
		ref.RefillDate,
		ref.DaysLeft,
		string(ref.Priority),
		string(ref.Status),
		ref.CreatedAt,
		ref.UpdatedAt,
	}
}

func scanRefill(row rowScanner) (refills.Refill, error) {
	var ref refills.Refill
	var priority, status string

	if err := row.Scan(
		&ref.ID,
		&ref.MedicationID,
		&ref.UserID,
		&ref.PrescriptionNumber,
		&ref.Pharmacy,
		&ref.RefillDate,
		&ref.DaysLeft,
		&priority,
		&status,
		&ref.CreatedAt,
		&ref.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return refills.Refill{}, ErrNotFound
		}
		return refills.Refill{}, err
	}

	ref.Priority = refills.Priority(priority)
	ref.Status = refills.Status(status)
	return ref, nil
}
