package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/insuredesk/insuredesk/internal/apierror"
	"github.com/insuredesk/insuredesk/model"
)

func leadCacheKey(id int64) string {
	return fmt.Sprintf("lead:%d", id)
}

// CreateLead inserts a new lead and returns it with its generated id and timestamp.
func (d Datasource) CreateLead(ctx context.Context, lead model.Lead) (model.Lead, error) {
	row := d.Conn.QueryRowContext(ctx, `
		INSERT INTO leads (name, phone, email, policy_id, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, lead.Name, lead.Phone, nullString(lead.Email), nullString(lead.PolicyID), nullString(lead.Notes))

	err := row.Scan(&lead.ID, &lead.CreatedAt)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return model.Lead{}, apierror.NewAPIError(apierror.ErrConflict, "Lead already exists", err)
			default:
				return model.Lead{}, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return model.Lead{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create lead", err)
	}

	return lead, nil
}

// GetLeadByID retrieves a lead, consulting the cache before hitting the database.
func (d Datasource) GetLeadByID(ctx context.Context, id int64) (*model.Lead, error) {
	if d.Cache != nil {
		cached := model.Lead{}
		if err := d.Cache.Get(ctx, leadCacheKey(id), &cached); err == nil && cached.ID != 0 {
			return &cached, nil
		}
	}

	lead := model.Lead{}
	var email, policyID, notes sql.NullString

	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, name, phone, email, policy_id, notes, created_at
		FROM leads
		WHERE id = $1
	`, id)

	err := row.Scan(&lead.ID, &lead.Name, &lead.Phone, &email, &policyID, &notes, &lead.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Lead not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve lead", err)
	}

	lead.Email = email.String
	lead.PolicyID = policyID.String
	lead.Notes = notes.String

	if d.Cache != nil {
		// Cache write failure never fails the read.
		_ = d.Cache.Set(ctx, leadCacheKey(id), lead, 5*time.Minute)
	}

	return &lead, nil
}

func (d Datasource) GetAllLeads(ctx context.Context, limit, offset int) ([]model.Lead, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, name, phone, email, policy_id, notes, created_at
		FROM leads
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve leads", err)
	}
	defer rows.Close()

	leads := []model.Lead{}

	for rows.Next() {
		lead := model.Lead{}
		var email, policyID, notes sql.NullString
		err = rows.Scan(&lead.ID, &lead.Name, &lead.Phone, &email, &policyID, &notes, &lead.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan lead data", err)
		}

		lead.Email = email.String
		lead.PolicyID = policyID.String
		lead.Notes = notes.String

		leads = append(leads, lead)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over leads", err)
	}

	return leads, nil
}

func (d Datasource) UpdateLead(ctx context.Context, lead *model.Lead) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE leads
		SET name = $2, phone = $3, email = $4, policy_id = $5, notes = $6
		WHERE id = $1
	`, lead.ID, lead.Name, lead.Phone, nullString(lead.Email), nullString(lead.PolicyID), nullString(lead.Notes))
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update lead", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to confirm lead update", err)
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Lead not found", fmt.Errorf("lead %d not found", lead.ID))
	}

	if d.Cache != nil {
		_ = d.Cache.Delete(ctx, leadCacheKey(lead.ID))
	}

	return nil
}

func (d Datasource) DeleteLead(ctx context.Context, id int64) error {
	result, err := d.Conn.ExecContext(ctx, `
		DELETE FROM leads WHERE id = $1
	`, id)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "foreign_key_violation" {
			return apierror.NewAPIError(apierror.ErrConflict, "Lead has reminders and cannot be deleted", err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to delete lead", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to confirm lead deletion", err)
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Lead not found", fmt.Errorf("lead %d not found", id))
	}

	if d.Cache != nil {
		_ = d.Cache.Delete(ctx, leadCacheKey(id))
	}

	return nil
}

// nullString maps empty strings to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
