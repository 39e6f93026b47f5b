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

	"github.com/insuredesk/insuredesk/internal/apierror"
	"github.com/insuredesk/insuredesk/model"
)

// CreateReminder persists a new reminder. Reminders always start unsent;
// the sent flag only flips after a call is placed.
func (i *InsureDesk) CreateReminder(ctx context.Context, reminder model.Reminder) (model.Reminder, error) {
	ctx, span := tracer.Start(ctx, "Creating Reminder")
	defer span.End()

	if reminder.Message == "" {
		return model.Reminder{}, apierror.NewAPIError(apierror.ErrInvalidInput, "Reminder message is required", nil)
	}
	if reminder.DueDate.IsZero() {
		return model.Reminder{}, apierror.NewAPIError(apierror.ErrInvalidInput, "Reminder due date is required", nil)
	}

	created, err := i.datasource.CreateReminder(ctx, reminder)
	if err != nil {
		return model.Reminder{}, err
	}

	i.queueReminderIndex(created)
	return created, nil
}

// GetReminder retrieves a single reminder by ID.
func (i *InsureDesk) GetReminder(ctx context.Context, id int64) (*model.Reminder, error) {
	return i.datasource.GetReminderByID(ctx, id)
}

// GetAllReminders retrieves a page of reminders.
func (i *InsureDesk) GetAllReminders(ctx context.Context, limit, offset int) ([]model.Reminder, error) {
	return i.datasource.GetAllReminders(ctx, limit, offset)
}

// UpdateReminder applies edits to an existing reminder and reindexes it.
func (i *InsureDesk) UpdateReminder(ctx context.Context, reminder *model.Reminder) error {
	ctx, span := tracer.Start(ctx, "Updating Reminder")
	defer span.End()

	if reminder.Message == "" {
		return apierror.NewAPIError(apierror.ErrInvalidInput, "Reminder message is required", nil)
	}

	if err := i.datasource.UpdateReminder(ctx, reminder); err != nil {
		return err
	}

	i.queueReminderIndex(*reminder)
	return nil
}

// DeleteReminder removes a reminder.
func (i *InsureDesk) DeleteReminder(ctx context.Context, id int64) error {
	return i.datasource.DeleteReminder(ctx, id)
}
