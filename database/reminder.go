package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/insuredesk/insuredesk/internal/apierror"
	"github.com/insuredesk/insuredesk/model"
)

// CreateReminder inserts a new reminder and returns it with its generated id
// and timestamp. Reminders are always created unsent.
func (d Datasource) CreateReminder(ctx context.Context, reminder model.Reminder) (model.Reminder, error) {
	row := d.Conn.QueryRowContext(ctx, `
		INSERT INTO reminders (lead_id, due_date, message, sent)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, sent, created_at
	`, reminder.LeadID, reminder.DueDate, reminder.Message)

	err := row.Scan(&reminder.ID, &reminder.Sent, &reminder.CreatedAt)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "foreign_key_violation":
				return model.Reminder{}, apierror.NewAPIError(apierror.ErrNotFound, "Lead not found", err)
			default:
				return model.Reminder{}, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return model.Reminder{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create reminder", err)
	}

	return reminder, nil
}

func (d Datasource) GetReminderByID(ctx context.Context, id int64) (*model.Reminder, error) {
	reminder := model.Reminder{}

	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, lead_id, due_date, message, sent, created_at
		FROM reminders
		WHERE id = $1
	`, id)

	err := row.Scan(&reminder.ID, &reminder.LeadID, &reminder.DueDate, &reminder.Message, &reminder.Sent, &reminder.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Reminder not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve reminder", err)
	}

	return &reminder, nil
}

func (d Datasource) GetAllReminders(ctx context.Context, limit, offset int) ([]model.Reminder, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, lead_id, due_date, message, sent, created_at
		FROM reminders
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve reminders", err)
	}
	defer rows.Close()

	reminders := []model.Reminder{}

	for rows.Next() {
		reminder := model.Reminder{}
		err = rows.Scan(&reminder.ID, &reminder.LeadID, &reminder.DueDate, &reminder.Message, &reminder.Sent, &reminder.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan reminder data", err)
		}

		reminders = append(reminders, reminder)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over reminders", err)
	}

	return reminders, nil
}

func (d Datasource) UpdateReminder(ctx context.Context, reminder *model.Reminder) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE reminders
		SET due_date = $2, message = $3, sent = $4
		WHERE id = $1
	`, reminder.ID, reminder.DueDate, reminder.Message, reminder.Sent)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update reminder", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to confirm reminder update", err)
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Reminder not found", fmt.Errorf("reminder %d not found", reminder.ID))
	}

	return nil
}

// MarkReminderSent flips the sent flag after a call attempt resolves.
func (d Datasource) MarkReminderSent(ctx context.Context, id int64, sent bool) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE reminders SET sent = $2 WHERE id = $1
	`, id, sent)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update reminder", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to confirm reminder update", err)
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Reminder not found", fmt.Errorf("reminder %d not found", id))
	}

	return nil
}

func (d Datasource) DeleteReminder(ctx context.Context, id int64) error {
	result, err := d.Conn.ExecContext(ctx, `
		DELETE FROM reminders WHERE id = $1
	`, id)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to delete reminder", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to confirm reminder deletion", err)
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Reminder not found", fmt.Errorf("reminder %d not found", id))
	}

	return nil
}
