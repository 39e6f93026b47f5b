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

// OutcomeStatus is the terminal state of one reminder-call run.
type OutcomeStatus string

const (
	// StatusError means a precondition failed. No side effects occurred.
	StatusError OutcomeStatus = "error"
	// StatusBlocked means the compliance reviewer declined the message.
	// No reminder row was persisted and no call was placed.
	StatusBlocked OutcomeStatus = "blocked"
	// StatusCalled means the call was placed and the reminder marked sent.
	StatusCalled OutcomeStatus = "called"
	// StatusFailed means the reminder was persisted but call creation
	// failed. The reminder stays unsent for manual follow-up.
	StatusFailed OutcomeStatus = "failed"
)

// Outcome is the result of one reminder-call run. Every run resolves to
// exactly one of the four statuses; the remaining fields are populated per
// status. Provider and PlayedURL are pointers so a call placed without
// synthesized audio serializes them as null.
type Outcome struct {
	Status    OutcomeStatus `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	CallSID   string        `json:"call_sid,omitempty"`
	Provider  *string       `json:"provider,omitempty"`
	PlayedURL *string       `json:"played_url,omitempty"`
	Error     string        `json:"error,omitempty"`
}

const ReasonLeadNotFound = "lead_not_found"

func ErrorOutcome(reason string) Outcome {
	return Outcome{Status: StatusError, Reason: reason}
}

func BlockedOutcome(reason string) Outcome {
	return Outcome{Status: StatusBlocked, Reason: reason}
}

func CalledOutcome(callSID string, provider, playedURL *string) Outcome {
	return Outcome{Status: StatusCalled, CallSID: callSID, Provider: provider, PlayedURL: playedURL}
}

func FailedOutcome(description string) Outcome {
	return Outcome{Status: StatusFailed, Error: description}
}
