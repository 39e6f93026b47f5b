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
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func (l *CreateLead) ValidateCreateLead() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.Name, validation.Required),
		validation.Field(&l.Phone, validation.Required),
	)
}

func (l *UpdateLead) ValidateUpdateLead() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.Name, validation.Required),
		validation.Field(&l.Phone, validation.Required),
	)
}

func (r *CreateReminder) ValidateCreateReminder() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.LeadID, validation.Required),
		validation.Field(&r.DueDate, validation.Required),
		validation.Field(&r.Message, validation.Required),
	)
}

func (r *UpdateReminder) ValidateUpdateReminder() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Message, validation.Required),
	)
}

func (s *ScheduleReminder) ValidateScheduleReminder() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.LeadID, validation.Required),
		validation.Field(&s.DueDate, validation.Required),
		validation.Field(&s.DaysBefore, validation.Min(0)),
		validation.Field(&s.PreferTTS, validation.In("polly", "gcloud", "say", "")),
	)
}

func (p *PlaceCall) ValidatePlaceCall() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.LeadID, validation.Required),
		validation.Field(&p.DueDate, validation.Required),
		validation.Field(&p.PreferTTS, validation.In("polly", "gcloud", "say", "")),
	)
}
