package postgres

import (
	"context"
	"database/sql"
	"strings"

	"medication-tracker/internal/domain/reminders"
)

type RemindersRepo struct {
	db *sql.DB
}

func NewRemindersRepo(db *sql.DB) *RemindersRepo {
	return &RemindersRepo{db: db}
}

const reminderColumns = `
	id, user_id,
	medication_id, appointment_id,
	title, description,
	reminder_date, reminder_time,
	type, is_completed,
	is_recurring, recurrence_pattern, end_date,
	created_at, updated_at
`

const insertReminderSQL = `
	INSERT INTO reminders (` + reminderColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
`

func (r *RemindersRepo) Create(ctx context.Context, rem reminders.Reminder) error {
	_, err := r.db.ExecContext(ctx, insertReminderSQL, reminderArgs(rem)...)
	return err
}

// CreateBatch inserta la serie en una sola transacción: una serie a
// medias no puede quedar persistida (reintentarla duplicaría reminders).
func (r *RemindersRepo) CreateBatch(ctx context.Context, rems []reminders.Reminder) error {
	if len(rems) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertReminderSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rem := range rems {
		if _, err := stmt.ExecContext(ctx, reminderArgs(rem)...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *RemindersRepo) GetByID(ctx context.Context, id string) (reminders.Reminder, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return reminders.Reminder{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE id = $1
	`, id)

	return scanReminder(row)
}

func (r *RemindersRepo) ListByUser(ctx context.Context, userID string) ([]reminders.Reminder, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE user_id = $1
		ORDER BY reminder_date ASC, reminder_time ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reminders.Reminder, 0)
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}

func (r *RemindersRepo) Update(ctx context.Context, rem reminders.Reminder) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reminders
		SET
			title = $2,
			description = $3,
			reminder_date = $4,
			reminder_time = $5,
			is_completed = $6,
			updated_at = $7
		WHERE id = $1
	`,
		rem.ID,
		rem.Title,
		rem.Description,
		rem.Date,
		rem.TimeOfDay,
		rem.IsCompleted,
		rem.UpdatedAt,
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

func (r *RemindersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func reminderArgs(rem reminders.Reminder) []any {
	return []any{
		rem.ID,
		rem.UserID,
		rem.MedicationID,
		rem.AppointmentID,
		rem.Title,
		rem.Description,
		rem.Date,
		rem.TimeOfDay,
		string(rem.Type),
		rem.IsCompleted,
		rem.IsRecurring,
		rem.RecurrencePattern,
		toNullDate(rem.EndDate),
		rem.CreatedAt,
		rem.UpdatedAt,
	}
}

func scanReminder(row rowScanner) (reminders.Reminder, error) {
	var rem reminders.Reminder
	var typ string
	var end sql.NullTime

	if err := row.Scan(
		&rem.ID,
		&rem.UserID,
		&rem.MedicationID,
		&rem.AppointmentID,
		&rem.Title,
		&rem.Description,
		&rem.Date,
		&rem.TimeOfDay,
		&typ,
		&rem.IsCompleted,
		&rem.IsRecurring,
		&rem.RecurrencePattern,
		&end,
		&rem.CreatedAt,
		&rem.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return reminders.Reminder{}, ErrNotFound
		}
		return reminders.Reminder{}, err
	}

	rem.Type = reminders.Type(typ)
	if end.Valid {
		t := end.Time
		rem.EndDate = &t
	}
	return rem, nil
}
