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
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/insuredesk/insuredesk/internal/apierror"
	"github.com/insuredesk/insuredesk/model"
)

func TestCreateReminder_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	dueDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	reminder := model.Reminder{
		LeadID:  1,
		DueDate: dueDate,
		Message: "Premium due soon",
	}

	rows := sqlmock.NewRows([]string{"id", "sent", "created_at"}).AddRow(int64(5), false, time.Now())
	mock.ExpectQuery("INSERT INTO reminders").
		WithArgs(reminder.LeadID, dueDate, reminder.Message).
		WillReturnRows(rows)

	created, err := ds.CreateReminder(context.Background(), reminder)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
	assert.False(t, created.Sent)
}

func TestCreateReminder_UnknownLead(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("INSERT INTO reminders").
		WithArgs(int64(404), sqlmock.AnyArg(), "Premium due soon").
		WillReturnError(&pq.Error{Code: "23503", Message: "foreign_key_violation"})

	_, err = ds.CreateReminder(context.Background(), model.Reminder{
		LeadID:  404,
		DueDate: time.Now(),
		Message: "Premium due soon",
	})
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestGetReminderByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT id, lead_id, due_date, message, sent, created_at FROM reminders WHERE id =").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err = ds.GetReminderByID(context.Background(), 404)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestGetAllReminders_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	rows := sqlmock.NewRows([]string{"id", "lead_id", "due_date", "message", "sent", "created_at"}).
		AddRow(int64(1), int64(1), time.Now(), "Premium due soon", false, time.Now())
	mock.ExpectQuery("SELECT id, lead_id, due_date, message, sent, created_at FROM reminders ORDER BY id LIMIT").
		WithArgs(50, 0).
		WillReturnRows(rows)

	reminders, err := ds.GetAllReminders(context.Background(), 50, 0)
	assert.NoError(t, err)
	assert.Len(t, reminders, 1)
	assert.False(t, reminders[0].Sent)
}

func TestMarkReminderSent_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE reminders SET sent =").
		WithArgs(int64(5), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = ds.MarkReminderSent(context.Background(), 5, true)
	assert.NoError(t, err)
}

func TestMarkReminderSent_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE reminders SET sent =").
		WithArgs(int64(404), true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = ds.MarkReminderSent(context.Background(), 404, true)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}
