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
package model

import (
	"time"

	"github.com/insuredesk/insuredesk/model"
)

type CreateReminder struct {
	LeadID  int64     `json:"lead_id"`
	DueDate time.Time `json:"due_date"`
	Message string    `json:"message"`
}

type UpdateReminder struct {
	DueDate time.Time `json:"due_date"`
	Message string    `json:"message"`
	Sent    *bool     `json:"sent"`
}

// ScheduleReminder requests a deferred reminder call, fired days_before
// days ahead of the due date.
type ScheduleReminder struct {
	LeadID        int64     `json:"lead_id"`
	DueDate       time.Time `json:"due_date"`
	DaysBefore    int       `json:"days_before"`
	CustomMessage string    `json:"custom_message"`
	PreferTTS     string    `json:"prefer_tts"`
}

// PlaceCall requests an immediate reminder call run.
type PlaceCall struct {
	LeadID        int64     `json:"lead_id"`
	DueDate       time.Time `json:"due_date"`
	CustomMessage string    `json:"custom_message"`
	PreferTTS     string    `json:"prefer_tts"`
}

func (r *CreateReminder) ToReminder() model.Reminder {
	return model.Reminder{
		LeadID:  r.LeadID,
		DueDate: r.DueDate,
		Message: r.Message,
	}
}
