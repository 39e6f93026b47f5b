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

package database

import (
	"context"

	"github.com/insuredesk/insuredesk/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	lead     // Interface for lead-related operations
	reminder // Interface for reminder-related operations
}

// lead defines methods for handling leads.
type lead interface {
	CreateLead(ctx context.Context, lead model.Lead) (model.Lead, error)        // Creates a new lead
	GetLeadByID(ctx context.Context, id int64) (*model.Lead, error)             // Retrieves a lead by ID
	GetAllLeads(ctx context.Context, limit, offset int) ([]model.Lead, error)   // Retrieves all leads
	UpdateLead(ctx context.Context, lead *model.Lead) error                     // Updates a lead
	DeleteLead(ctx context.Context, id int64) error                             // Deletes a lead
}

// reminder defines methods for handling reminders.
type reminder interface {
	CreateReminder(ctx context.Context, reminder model.Reminder) (model.Reminder, error) // Creates a new reminder
	GetReminderByID(ctx context.Context, id int64) (*model.Reminder, error)              // Retrieves a reminder by ID
	GetAllReminders(ctx context.Context, limit, offset int) ([]model.Reminder, error)    // Retrieves all reminders
	UpdateReminder(ctx context.Context, reminder *model.Reminder) error                  // Updates a reminder
	MarkReminderSent(ctx context.Context, id int64, sent bool) error                     // Updates the sent flag of a reminder
	DeleteReminder(ctx context.Context, id int64) error                                  // Deletes a reminder
}
