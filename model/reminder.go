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

import "time"

// Reminder is a premium-due notification tied to a lead. Message always
// holds the compliance-approved text, never the raw caller input. Sent
// flips to true only after the telephony provider confirms call creation.
type Reminder struct {
	ID        int64     `json:"id"`
	LeadID    int64     `json:"lead_id"`
	DueDate   time.Time `json:"due_date"`
	Message   string    `json:"message"`
	Sent      bool      `json:"sent"`
	CreatedAt time.Time `json:"created_at"`
}
