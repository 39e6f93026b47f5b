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
	"database/sql"
	"log"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"

	"github.com/insuredesk/insuredesk/config"
	"github.com/insuredesk/insuredesk/database"
	"github.com/insuredesk/insuredesk/internal/cache"
	"github.com/insuredesk/insuredesk/internal/compliance"
	"github.com/insuredesk/insuredesk/internal/speech"
	"github.com/insuredesk/insuredesk/internal/telephony"
	"github.com/insuredesk/insuredesk/model"
)

// stubReviewer returns a fixed decision without calling any external API.
type stubReviewer struct {
	decision compliance.Decision
}

func (s stubReviewer) Review(_ context.Context, _ string) compliance.Decision {
	return s.decision
}

// approveUnchanged approves every message exactly as submitted.
type approveUnchanged struct{}

func (approveUnchanged) Review(_ context.Context, message string) compliance.Decision {
	return compliance.Decision{Approved: true, Message: message}
}

// stubProvider is an in-memory TTS provider.
type stubProvider struct {
	name string
	url  string
	err  error
}

func (p stubProvider) Name() string { return p.name }

func (p stubProvider) Synthesize(_ context.Context, _ string) (string, error) {
	return p.url, p.err
}

// stubGateway captures the call it was asked to place.
type stubGateway struct {
	sid      string
	err      error
	to       string
	message  string
	audioURL string
}

func (g *stubGateway) PlaceCall(_ context.Context, to, message, audioURL string) (string, error) {
	g.to = to
	g.message = message
	g.audioURL = audioURL
	if g.err != nil {
		return "", g.err
	}
	return g.sid, nil
}

func newTestService(t *testing.T) (*InsureDesk, sqlmock.Sqlmock) {
	t.Helper()
	mr := miniredis.RunT(t)
	config.MockConfig(&config.Configuration{
		Redis: config.RedisConfig{Dns: mr.Addr()},
	})

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database Connection", err)
	}
	newCache, err := cache.NewCache()
	if err != nil {
		log.Printf("an error '%s' was not expected", err)
	}

	d, err := NewInsureDesk(&database.Datasource{Conn: db, Cache: newCache})
	if err != nil {
		t.Fatalf("Error creating InsureDesk instance: %s", err)
	}
	return d, mock
}

func expectLeadRow(mock sqlmock.Sqlmock, lead model.Lead) {
	rows := sqlmock.NewRows([]string{"id", "name", "phone", "email", "policy_id", "notes", "created_at"}).
		AddRow(lead.ID, lead.Name, lead.Phone, lead.Email, lead.PolicyID, lead.Notes, time.Now())
	mock.ExpectQuery("SELECT id, name, phone, email, policy_id, notes, created_at FROM leads WHERE id =").
		WithArgs(lead.ID).
		WillReturnRows(rows)
}

func expectReminderInsert(mock sqlmock.Sqlmock, reminderID int64, leadID int64, message string) {
	rows := sqlmock.NewRows([]string{"id", "sent", "created_at"}).
		AddRow(reminderID, false, time.Now())
	mock.ExpectQuery("INSERT INTO reminders").
		WithArgs(leadID, sqlmock.AnyArg(), message).
		WillReturnRows(rows)
}

func TestPlaceReminderCallLeadNotFound(t *testing.T) {
	d, mock := newTestService(t)
	d.gateway = &stubGateway{sid: "CA123"}

	mock.ExpectQuery("SELECT id, name, phone, email, policy_id, notes, created_at FROM leads WHERE id =").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	outcome := d.PlaceReminderCall(context.Background(), CallRequest{LeadID: 404, DueDate: time.Now()})

	assert.Equal(t, model.StatusError, outcome.Status)
	assert.Equal(t, model.ReasonLeadNotFound, outcome.Reason)
	assert.Empty(t, outcome.CallSID)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestPlaceReminderCallBlocked(t *testing.T) {
	d, mock := newTestService(t)
	d.reviewer = stubReviewer{decision: compliance.Decision{Approved: false, Reason: "marketing claim"}}
	d.gateway = &stubGateway{sid: "CA123"}

	expectLeadRow(mock, model.Lead{ID: 1, Name: "Jane", Phone: "+15550001111"})

	outcome := d.PlaceReminderCall(context.Background(), CallRequest{LeadID: 1, DueDate: time.Now()})

	assert.Equal(t, model.StatusBlocked, outcome.Status)
	assert.Equal(t, "marketing claim", outcome.Reason)

	// No reminder insert was expected, so an attempted write would fail here.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestPlaceReminderCallPersistsApprovedMessage(t *testing.T) {
	d, mock := newTestService(t)
	// The reviewer edits the candidate; the edited text must be what lands
	// in the reminder row.
	d.reviewer = stubReviewer{decision: compliance.Decision{Approved: true, Message: "edited message"}}
	gateway := &stubGateway{err: &telephony.GatewayError{Description: "twilio call creation failed with status 401"}}
	d.gateway = gateway

	expectLeadRow(mock, model.Lead{ID: 2, Name: "Sam", Phone: "+15550002222"})
	expectReminderInsert(mock, 7, 2, "edited message")

	outcome := d.PlaceReminderCall(context.Background(), CallRequest{
		LeadID:        2,
		DueDate:       time.Now().AddDate(0, 0, 14),
		CustomMessage: "raw input message",
	})

	assert.Equal(t, model.StatusFailed, outcome.Status)
	assert.Contains(t, outcome.Error, "twilio call creation failed")
	assert.Equal(t, "edited message", gateway.message)

	// The sent flag is never flipped on a failed call, so no UPDATE is expected.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestPlaceReminderCallSuccessWithAudio(t *testing.T) {
	d, mock := newTestService(t)
	d.reviewer = approveUnchanged{}
	d.speech = speech.NewCascade(stubProvider{name: "polly", url: "https://bucket.s3.us-east-1.amazonaws.com/tts_abc.mp3"})
	gateway := &stubGateway{sid: "CA999"}
	d.gateway = gateway

	expectLeadRow(mock, model.Lead{ID: 3, Name: "Ava", Phone: "+15550003333", PolicyID: "P1"})
	expectReminderInsert(mock, 11, 3, "pay soon")
	mock.ExpectExec("UPDATE reminders SET sent =").
		WithArgs(int64(11), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	outcome := d.PlaceReminderCall(context.Background(), CallRequest{
		LeadID:        3,
		DueDate:       time.Now().AddDate(0, 0, 30),
		CustomMessage: "pay soon",
		PreferTTS:     "polly",
	})

	assert.Equal(t, model.StatusCalled, outcome.Status)
	assert.Equal(t, "CA999", outcome.CallSID)
	if assert.NotNil(t, outcome.Provider) {
		assert.Equal(t, "polly", *outcome.Provider)
	}
	if assert.NotNil(t, outcome.PlayedURL) {
		assert.Equal(t, "https://bucket.s3.us-east-1.amazonaws.com/tts_abc.mp3", *outcome.PlayedURL)
	}
	assert.Equal(t, "https://bucket.s3.us-east-1.amazonaws.com/tts_abc.mp3", gateway.audioURL)
	assert.Equal(t, "+15550003333", gateway.to)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestPlaceReminderCallNoTTSStillCalled(t *testing.T) {
	d, mock := newTestService(t)
	d.reviewer = approveUnchanged{}
	// No providers configured: the outcome category must not change, only
	// the provider and played_url fields.
	d.speech = speech.NewCascade()
	gateway := &stubGateway{sid: "CA555"}
	d.gateway = gateway

	expectLeadRow(mock, model.Lead{ID: 4, Name: "Max", Phone: "+15550004444"})
	expectReminderInsert(mock, 21, 4, "pay soon")
	mock.ExpectExec("UPDATE reminders SET sent =").
		WithArgs(int64(21), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	outcome := d.PlaceReminderCall(context.Background(), CallRequest{
		LeadID:        4,
		DueDate:       time.Now().AddDate(0, 0, 10),
		CustomMessage: "pay soon",
		PreferTTS:     "polly",
	})

	assert.Equal(t, model.StatusCalled, outcome.Status)
	assert.Nil(t, outcome.Provider)
	assert.Nil(t, outcome.PlayedURL)
	assert.Empty(t, gateway.audioURL)
	assert.Equal(t, "pay soon", gateway.message)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestPlaceReminderCallComposedScenario(t *testing.T) {
	d, mock := newTestService(t)
	d.reviewer = approveUnchanged{}
	d.speech = speech.NewCascade()
	gateway := &stubGateway{sid: "CA321"}
	d.gateway = gateway

	dueDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	wantMessage := "Hello Jane. Reminder: your premium for policy P9 is due on 2025-03-01. Please contact your agent to pay."

	expectLeadRow(mock, model.Lead{ID: 1, Name: "Jane", Phone: "+15550001111", PolicyID: "P9"})
	expectReminderInsert(mock, 31, 1, wantMessage)
	mock.ExpectExec("UPDATE reminders SET sent =").
		WithArgs(int64(31), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	outcome := d.PlaceReminderCall(context.Background(), CallRequest{LeadID: 1, DueDate: dueDate})

	assert.Equal(t, model.StatusCalled, outcome.Status)
	assert.Nil(t, outcome.PlayedURL)
	assert.Equal(t, wantMessage, gateway.message)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestComposeReminderMessage(t *testing.T) {
	dueDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	withPolicy := ComposeReminderMessage(&model.Lead{Name: "Jane", PolicyID: "P9"}, dueDate)
	assert.Equal(t, "Hello Jane. Reminder: your premium for policy P9 is due on 2025-03-01. Please contact your agent to pay.", withPolicy)

	withoutPolicy := ComposeReminderMessage(&model.Lead{Name: "Jane"}, dueDate)
	assert.Equal(t, "Hello Jane. Reminder: your premium for policy your policy is due on 2025-03-01. Please contact your agent to pay.", withoutPolicy)
}
