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

package files

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func collectRows(t *testing.T, input, filename string) ([]LeadRow, int, error) {
	t.Helper()
	var rows []LeadRow
	total, err := ParseLeadUpload(context.Background(), strings.NewReader(input), filename, func(_ context.Context, row LeadRow) error {
		rows = append(rows, row)
		return nil
	})
	return rows, total, err
}

func TestParseCSVUpload(t *testing.T) {
	csv := "name,phone,email,policy,due\n" +
		"Jane,+15550001111,jane@example.com,P9,2025-03-01\n" +
		"Sam,+15550002222,,,\n"

	rows, total, err := collectRows(t, csv, "leads.csv")

	assert.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Jane", rows[0].Lead.Name)
	assert.Equal(t, "P9", rows[0].Lead.PolicyID)
	if assert.NotNil(t, rows[0].DueDate) {
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *rows[0].DueDate)
	}
	assert.Nil(t, rows[1].DueDate)
}

func TestParseCSVSkipsIncompleteRows(t *testing.T) {
	csv := "name,phone\n" +
		"Jane,+15550001111\n" +
		",+15550002222\n" +
		"Sam,\n"

	rows, total, err := collectRows(t, csv, "leads.csv")

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, rows, 1)
}

func TestParseCSVMissingRequiredColumn(t *testing.T) {
	csv := "name,email\nJane,jane@example.com\n"

	_, _, err := collectRows(t, csv, "leads.csv")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "phone")
}

func TestParseJSONUpload(t *testing.T) {
	payload := `[
		{"name": "Jane", "phone": "+15550001111", "policy_id": "P9", "due_date": "2025-03-01"},
		{"name": "", "phone": "+15550002222"}
	]`

	rows, total, err := collectRows(t, payload, "leads.json")

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Jane", rows[0].Lead.Name)
	assert.NotNil(t, rows[0].DueDate)
}

func TestParseJSONDetectedWithoutExtension(t *testing.T) {
	payload := ` [{"name": "Jane", "phone": "+15550001111"}]`

	_, total, err := collectRows(t, payload, "upload")

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestParseBadDueDateDropped(t *testing.T) {
	csv := "name,phone,due_date\nJane,+15550001111,next tuesday\n"

	rows, total, err := collectRows(t, csv, "leads.csv")

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Nil(t, rows[0].DueDate)
}
