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

import "github.com/insuredesk/insuredesk/model"

type CreateLead struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	PolicyID string `json:"policy_id"`
	Notes    string `json:"notes"`
}

type UpdateLead struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	PolicyID string `json:"policy_id"`
	Notes    string `json:"notes"`
}

func (l *CreateLead) ToLead() model.Lead {
	return model.Lead{
		Name:     l.Name,
		Phone:    l.Phone,
		Email:    l.Email,
		PolicyID: l.PolicyID,
		Notes:    l.Notes,
	}
}

func (l *UpdateLead) ToLead(id int64) model.Lead {
	return model.Lead{
		ID:       id,
		Name:     l.Name,
		Phone:    l.Phone,
		Email:    l.Email,
		PolicyID: l.PolicyID,
		Notes:    l.Notes,
	}
}
