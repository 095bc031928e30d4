package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"medication-tracker/internal/domain/medications"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (
			id, owner_user_id,
			name, dosage, frequency,
			current_stock, status, refills_remaining,
			prescription_number, pharmacy, start_date,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		m.ID,
		m.OwnerUserID,
		m.Name,
		m.Dosage,
		m.Frequency,
		m.CurrentStock,
		string(m.Status),
		m.RefillsRemaining,
		m.PrescriptionNumber,
		m.Pharmacy,
		toNullDate(m.StartDate),
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id,
			name, dosage, frequency,
			current_stock, status, refills_remaining,
			prescription_number, pharmacy, start_date,
			created_at, updated_at
		FROM medications
		WHERE id = $1
	`, id)

	return scanMedication(row)
}

func (r *MedicationsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error) {
	return r.listByOwner(ctx, ownerUserID, false)
}

func (r *MedicationsRepo) ListActiveByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error) {
	return r.listByOwner(ctx, ownerUserID, true)
}

func (r *MedicationsRepo) listByOwner(ctx context.Context, ownerUserID string, onlyActive bool) ([]medications.Medication, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	q := `
		SELECT
			id, owner_user_id,
			name, dosage, frequency,
			current_stock, status, refills_remaining,
			prescription_number, pharmacy, start_date,
			created_at, updated_at
		FROM medications
		WHERE owner_user_id = $1
	`
	if onlyActive {
		q += ` AND status = 'active'`
	}
	q += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, q, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET
			name = $2,
			dosage = $3,
			frequency = $4,
			current_stock = $5,
			status = $6,
			refills_remaining = $7,
			prescription_number = $8,
			pharmacy = $9,
			updated_at = $10
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.Dosage,
		m.Frequency,
		m.CurrentStock,
		string(m.Status),
		m.RefillsRemaining,
		m.PrescriptionNumber,
		m.Pharmacy,
		m.UpdatedAt,
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

// ConsumeStock descuenta en un solo UPDATE con floor en 0; el RETURNING
// evita el read-modify-write desde Go.
func (r *MedicationsRepo) ConsumeStock(ctx context.Context, id, ownerUserID string, doses int) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE medications
		SET current_stock = GREATEST(current_stock - $3, 0),
		    updated_at = NOW()
		WHERE id = $1 AND owner_user_id = $2
		RETURNING current_stock
	`, id, ownerUserID, doses)

	var stock int
	if err := row.Scan(&stock); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return stock, nil
}

func (r *MedicationsRepo) AddStock(ctx context.Context, id, ownerUserID string, units int) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE medications
		SET current_stock = current_stock + $3,
		    updated_at = NOW()
		WHERE id = $1 AND owner_user_id = $2
		RETURNING current_stock
	`, id, ownerUserID, units)

	var stock int
	if err := row.Scan(&stock); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return stock, nil
}

func (r *MedicationsRepo) CreateSlot(ctx context.Context, s medications.ScheduleSlot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schedule_slots (
			id, medication_id, time_slot, is_active, created_at
		) VALUES ($1,$2,$3,$4,$5)
	`,
		s.ID,
		s.MedicationID,
		s.TimeSlot,
		s.IsActive,
		s.CreatedAt,
	)
	return err
}

func (r *MedicationsRepo) ListActiveSlots(ctx context.Context, medicationID string) ([]medications.ScheduleSlot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, medication_id, time_slot, is_active, created_at
		FROM schedule_slots
		WHERE medication_id = $1 AND is_active = TRUE
		ORDER BY time_slot ASC
	`, medicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.ScheduleSlot, 0)
	for rows.Next() {
		var s medications.ScheduleSlot
		if err := rows.Scan(&s.ID, &s.MedicationID, &s.TimeSlot, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *MedicationsRepo) DeactivateSlot(ctx context.Context, slotID, medicationID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE schedule_slots
		SET is_active = FALSE
		WHERE id = $1 AND medication_id = $2
	`, slotID, medicationID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) CreateDoseLog(ctx context.Context, l medications.DoseLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dose_logs (
			id, medication_id, user_id, scheduled_time, log_date, taken_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		l.ID,
		l.MedicationID,
		l.UserID,
		l.ScheduledTime,
		l.Date,
		l.TakenAt,
	)
	return err
}

func (r *MedicationsRepo) ListDoseLogs(ctx context.Context, medicationID, date string) ([]medications.DoseLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, medication_id, user_id, scheduled_time, log_date, taken_at
		FROM dose_logs
		WHERE medication_id = $1 AND log_date = $2
		ORDER BY taken_at ASC
	`, medicationID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.DoseLog, 0)
	for rows.Next() {
		var l medications.DoseLog
		if err := rows.Scan(&l.ID, &l.MedicationID, &l.UserID, &l.ScheduledTime, &l.Date, &l.TakenAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedication(row rowScanner) (medications.Medication, error) {
	var m medications.Medication
	var status string
	var sd sql.NullTime

	if err := row.Scan(
		&m.ID,
		&m.OwnerUserID,
		&m.Name,
		&m.Dosage,
		&m.Frequency,
		&m.CurrentStock,
		&status,
		&m.RefillsRemaining,
		&m.PrescriptionNumber,
		&m.Pharmacy,
		&sd,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return medications.Medication{}, ErrNotFound
		}
		return medications.Medication{}, err
	}

	m.Status = medications.Status(status)
	if sd.Valid {
		t := sd.Time
		// start_date es DATE; pgx la mapea a time.Time midnight UTC
		m.StartDate = &t
	}
	return m, nil
}

// start_date es DATE, lo pasamos como NullTime para simplificar
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
