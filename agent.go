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
	"time"

	"go.opentelemetry.io/otel"

	"github.com/insuredesk/insuredesk/internal/apierror"
	"github.com/insuredesk/insuredesk/internal/notification"
	"github.com/insuredesk/insuredesk/internal/search"
	"github.com/insuredesk/insuredesk/model"
)

var tracer = otel.Tracer("Reminder call")

// CallRequest describes one reminder call run. DaysBefore only influences
// when a scheduled run fires; once a run starts it is carried through as
// metadata and not enforced.
type CallRequest struct {
	LeadID        int64     `json:"lead_id"`
	DueDate       time.Time `json:"due_date"`
	DaysBefore    int       `json:"days_before"`
	CustomMessage string    `json:"custom_message,omitempty"`
	PreferTTS     string    `json:"prefer_tts,omitempty"`
}

// ComposeReminderMessage renders the default reminder text for a lead.
func ComposeReminderMessage(lead *model.Lead, dueDate time.Time) string {
	policy := lead.PolicyID
	if policy == "" {
		policy = "your policy"
	}
	return fmt.Sprintf("Hello %s. Reminder: your premium for policy %s is due on %s. Please contact your agent to pay.",
		lead.Name, policy, dueDate.Format("2006-01-02"))
}

// PlaceReminderCall runs one reminder call end to end: resolve the lead,
// compose and review the message, persist the reminder, synthesize audio,
// and place the call. Every run ends in exactly one terminal outcome;
// failures after the reminder row exists leave it unsent.
func (i *InsureDesk) PlaceReminderCall(ctx context.Context, request CallRequest) model.Outcome {
	ctx, span := tracer.Start(ctx, "Placing Reminder Call")
	defer span.End()

	lead, err := i.datasource.GetLeadByID(ctx, request.LeadID)
	if err != nil {
		if apiErr, ok := err.(apierror.APIError); ok && apiErr.Code == apierror.ErrNotFound {
			return model.ErrorOutcome(model.ReasonLeadNotFound)
		}
		notification.NotifyError(err)
		return model.ErrorOutcome("lead_lookup_failed")
	}

	candidate := request.CustomMessage
	if candidate == "" {
		candidate = ComposeReminderMessage(lead, request.DueDate)
	}

	decision := i.reviewer.Review(ctx, candidate)
	if !decision.Approved {
		i.notifyCallEvent("reminder.blocked", map[string]interface{}{
			"lead_id": lead.ID,
			"reason":  decision.Reason,
		})
		return model.BlockedOutcome(decision.Reason)
	}

	reminder, err := i.CreateReminder(ctx, model.Reminder{
		LeadID:  lead.ID,
		DueDate: request.DueDate,
		Message: decision.Message,
	})
	if err != nil {
		notification.NotifyError(err)
		return model.ErrorOutcome("reminder_not_persisted")
	}

	var provider, playedURL *string
	if result := i.speech.Synthesize(ctx, decision.Message, request.PreferTTS); result != nil {
		provider = &result.Provider
		playedURL = &result.AudioURL
	}

	audioURL := ""
	if playedURL != nil {
		audioURL = *playedURL
	}

	callSID, err := i.gateway.PlaceCall(ctx, lead.Phone, decision.Message, audioURL)
	if err != nil {
		i.notifyCallEvent("reminder.failed", map[string]interface{}{
			"lead_id":     lead.ID,
			"reminder_id": reminder.ID,
			"error":       err.Error(),
		})
		return model.FailedOutcome(err.Error())
	}

	// The call went out; a sent-flag write failure is reported but must
	// not turn a placed call into a failed outcome.
	if err := i.datasource.MarkReminderSent(ctx, reminder.ID, true); err != nil {
		notification.NotifyError(err)
	} else {
		reminder.Sent = true
		i.queueReminderIndex(reminder)
	}

	i.notifyCallEvent("reminder.called", map[string]interface{}{
		"lead_id":     lead.ID,
		"reminder_id": reminder.ID,
		"call_sid":    callSID,
	})
	return model.CalledOutcome(callSID, provider, playedURL)
}

// ScheduleReminderCall enqueues a reminder call to fire days_before days
// ahead of the due date. Due dates already inside the window fire
// immediately.
func (i *InsureDesk) ScheduleReminderCall(ctx context.Context, request CallRequest) (time.Time, error) {
	ctx, span := tracer.Start(ctx, "Scheduling Reminder Call")
	defer span.End()

	if _, err := i.datasource.GetLeadByID(ctx, request.LeadID); err != nil {
		return time.Time{}, err
	}

	processAt := request.DueDate.AddDate(0, 0, -request.DaysBefore)
	if now := time.Now(); processAt.Before(now) {
		processAt = now
	}

	if err := i.queue.EnqueueReminderCall(ctx, request, processAt); err != nil {
		return time.Time{}, err
	}

	i.notifyCallEvent("reminder.scheduled", map[string]interface{}{
		"lead_id":    request.LeadID,
		"due_date":   request.DueDate,
		"process_at": processAt,
	})
	return processAt, nil
}

// queueReminderIndex pushes a reminder snapshot to the search index queue.
func (i *InsureDesk) queueReminderIndex(reminder model.Reminder) {
	err := i.queue.queueIndexData(fmt.Sprintf("%d", reminder.ID), search.CollectionReminders, map[string]interface{}{
		"id":         reminder.ID,
		"lead_id":    reminder.LeadID,
		"due_date":   reminder.DueDate.Format(time.RFC3339),
		"message":    reminder.Message,
		"sent":       reminder.Sent,
		"created_at": reminder.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		notification.NotifyError(err)
	}
}

// notifyCallEvent fans a call lifecycle event out to the webhook queue.
func (i *InsureDesk) notifyCallEvent(event string, payload map[string]interface{}) {
	if err := SendWebhook(NewWebhook{Event: event, Payload: payload}); err != nil {
		notification.NotifyError(err)
	}
}
