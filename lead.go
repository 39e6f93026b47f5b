/*
Copyright 2025 InsureDesk Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package insuredesk

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/insuredesk/insuredesk/internal/apierror"
	"github.com/insuredesk/insuredesk/internal/files"
	"github.com/insuredesk/insuredesk/internal/notification"
	"github.com/insuredesk/insuredesk/internal/search"
	"github.com/insuredesk/insuredesk/model"
)

// CreateLead creates a new lead record and fans out indexing and webhook
// notifications.
func (i *InsureDesk) CreateLead(ctx context.Context, lead model.Lead) (model.Lead, error) {
	ctx, span := tracer.Start(ctx, "Creating Lead")
	defer span.End()

	if lead.Name == "" || lead.Phone == "" {
		return model.Lead{}, apierror.NewAPIError(apierror.ErrInvalidInput, "Lead name and phone are required", nil)
	}

	created, err := i.datasource.CreateLead(ctx, lead)
	if err != nil {
		return model.Lead{}, err
	}

	i.postLeadActions(&created)
	return created, nil
}

// GetLead retrieves a single lead by ID.
func (i *InsureDesk) GetLead(ctx context.Context, id int64) (*model.Lead, error) {
	return i.datasource.GetLeadByID(ctx, id)
}

// GetAllLeads retrieves a page of leads.
func (i *InsureDesk) GetAllLeads(ctx context.Context, limit, offset int) ([]model.Lead, error) {
	return i.datasource.GetAllLeads(ctx, limit, offset)
}

// UpdateLead applies edits to an existing lead and reindexes it.
func (i *InsureDesk) UpdateLead(ctx context.Context, lead *model.Lead) error {
	ctx, span := tracer.Start(ctx, "Updating Lead")
	defer span.End()

	if lead.Name == "" || lead.Phone == "" {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "Lead name and phone are required", nil)
	}

	if err := i.datasource.UpdateLead(ctx, lead); err != nil {
		return err
	}

	i.postLeadActions(lead)
	return nil
}

// DeleteLead removes a lead. Leads with reminders are protected by the
// foreign key and surface a conflict error.
func (i *InsureDesk) DeleteLead(ctx context.Context, id int64) error {
	return i.datasource.DeleteLead(ctx, id)
}

// ImportLeads parses a bulk CSV or JSON upload and stores each valid row.
// Rows carrying a due date also create an unsent reminder with the default
// composed message. Returns the number of leads and reminders created.
func (i *InsureDesk) ImportLeads(ctx context.Context, reader io.Reader, filename string) (int, int, error) {
	ctx, span := tracer.Start(ctx, "Importing Leads")
	defer span.End()

	reminders := 0
	leads, err := files.ParseLeadUpload(ctx, reader, filename, func(ctx context.Context, row files.LeadRow) error {
		created, err := i.datasource.CreateLead(ctx, row.Lead)
		if err != nil {
			return err
		}
		i.postLeadActions(&created)

		if row.DueDate == nil {
			return nil
		}
		_, err = i.CreateReminder(ctx, model.Reminder{
			LeadID:  created.ID,
			DueDate: *row.DueDate,
			Message: ComposeReminderMessage(&created, *row.DueDate),
		})
		if err != nil {
			return err
		}
		reminders++
		return nil
	})
	return leads, reminders, err
}

// postLeadActions queues search indexing and the lead.created webhook.
func (i *InsureDesk) postLeadActions(lead *model.Lead) {
	go func() {
		err := i.queue.queueIndexData(fmt.Sprintf("%d", lead.ID), search.CollectionLeads, map[string]interface{}{
			"id":         lead.ID,
			"name":       lead.Name,
			"phone":      lead.Phone,
			"email":      lead.Email,
			"policy_id":  lead.PolicyID,
			"notes":      lead.Notes,
			"created_at": lead.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			notification.NotifyError(err)
		}
		err = SendWebhook(NewWebhook{
			Event:   "lead.created",
			Payload: lead,
		})
		if err != nil {
			notification.NotifyError(err)
		}
	}()
}
