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
	"github.com/brianvoe/gofakeit/v6"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/insuredesk/insuredesk/internal/apierror"
	"github.com/insuredesk/insuredesk/model"
)

func TestCreateLead_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	lead := model.Lead{
		Name:     gofakeit.Name(),
		Phone:    gofakeit.Phone(),
		Email:    gofakeit.Email(),
		PolicyID: "P9",
	}

	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now())
	mock.ExpectQuery("INSERT INTO leads").
		WithArgs(lead.Name, lead.Phone, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	created, err := ds.CreateLead(context.Background(), lead)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Second)
}

func TestGetLeadByID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	rows := sqlmock.NewRows([]string{"id", "name", "phone", "email", "policy_id", "notes", "created_at"}).
		AddRow(int64(1), "Jane", "+15550001111", "jane@example.com", "P9", nil, time.Now())
	mock.ExpectQuery("SELECT id, name, phone, email, policy_id, notes, created_at FROM leads WHERE id =").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	lead, err := ds.GetLeadByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, "Jane", lead.Name)
	assert.Equal(t, "P9", lead.PolicyID)
	assert.Empty(t, lead.Notes)
}

func TestGetLeadByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT id, name, phone, email, policy_id, notes, created_at FROM leads WHERE id =").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err = ds.GetLeadByID(context.Background(), 404)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestGetAllLeads_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	rows := sqlmock.NewRows([]string{"id", "name", "phone", "email", "policy_id", "notes", "created_at"}).
		AddRow(int64(1), "Jane", "+15550001111", nil, nil, nil, time.Now()).
		AddRow(int64(2), "Sam", "+15550002222", nil, nil, nil, time.Now())
	mock.ExpectQuery("SELECT id, name, phone, email, policy_id, notes, created_at FROM leads ORDER BY id LIMIT").
		WithArgs(50, 0).
		WillReturnRows(rows)

	leads, err := ds.GetAllLeads(context.Background(), 50, 0)
	assert.NoError(t, err)
	assert.Len(t, leads, 2)
	assert.Equal(t, "Sam", leads[1].Name)
}

func TestUpdateLead_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE leads").
		WithArgs(int64(404), "Jane", "+15550001111", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = ds.UpdateLead(context.Background(), &model.Lead{ID: 404, Name: "Jane", Phone: "+15550001111"})
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestDeleteLead_WithReminders(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("DELETE FROM leads").
		WithArgs(int64(1)).
		WillReturnError(&pq.Error{Code: "23503", Message: "foreign_key_violation"})

	err = ds.DeleteLead(context.Background(), 1)
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrConflict, apiErr.Code)
}
