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

// Package files parses bulk lead uploads in CSV or JSON form.
package files

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/insuredesk/insuredesk/model"
)

// LeadRow is one parsed upload row. DueDate is set when the row carries a
// recognizable due date, in which case the caller also creates a reminder.
type LeadRow struct {
	Lead    model.Lead
	DueDate *time.Time
}

// StoreFunc persists one parsed row.
type StoreFunc func(ctx context.Context, row LeadRow) error

// ParseLeadUpload detects the upload format and streams rows to the store
// callback. Returns the number of rows stored.
func ParseLeadUpload(ctx context.Context, reader io.Reader, filename string, store StoreFunc) (int, error) {
	buffered := bufio.NewReader(reader)

	fileType, err := detectFileType(buffered, filename)
	if err != nil {
		return 0, err
	}

	switch fileType {
	case "csv":
		return parseCSV(ctx, buffered, store)
	case "json":
		return parseJSON(ctx, buffered, store)
	default:
		return 0, fmt.Errorf("unsupported file type: %s", fileType)
	}
}

// detectFileType sniffs the first non-space byte, falling back to the
// file extension.
func detectFileType(reader *bufio.Reader, filename string) (string, error) {
	for {
		b, err := reader.Peek(1)
		if err != nil {
			return "", fmt.Errorf("could not read upload: %w", err)
		}
		if b[0] == ' ' || b[0] == '\n' || b[0] == '\r' || b[0] == '\t' {
			if _, err := reader.Discard(1); err != nil {
				return "", err
			}
			continue
		}
		if b[0] == '[' || b[0] == '{' {
			return "json", nil
		}
		break
	}

	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".json") {
		return "json", nil
	}
	if strings.HasSuffix(lower, ".csv") || filename == "" {
		return "csv", nil
	}
	return "csv", nil
}

type jsonLeadRow struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	PolicyID string `json:"policy_id"`
	Notes    string `json:"notes"`
	DueDate  string `json:"due_date"`
}

func parseJSON(ctx context.Context, reader io.Reader, store StoreFunc) (int, error) {
	var rows []jsonLeadRow
	if err := json.NewDecoder(reader).Decode(&rows); err != nil {
		return 0, fmt.Errorf("could not decode JSON upload: %w", err)
	}

	total := 0
	for _, raw := range rows {
		if raw.Name == "" || raw.Phone == "" {
			logrus.Warnf("skipping upload row with missing name or phone")
			continue
		}
		row := LeadRow{Lead: model.Lead{
			Name:     raw.Name,
			Phone:    raw.Phone,
			Email:    raw.Email,
			PolicyID: raw.PolicyID,
			Notes:    raw.Notes,
		}}
		row.DueDate = parseDueDate(raw.DueDate)
		if err := store(ctx, row); err != nil {
			return total, err
		}
		total++
	}
	return total, nil
}

func parseCSV(ctx context.Context, reader io.Reader, store StoreFunc) (int, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	headers, err := csvReader.Read()
	if err != nil {
		return 0, fmt.Errorf("could not read CSV headers: %w", err)
	}

	columnMap := mapColumns(headers)
	for _, required := range []string{"name", "phone"} {
		if _, ok := columnMap[required]; !ok {
			return 0, fmt.Errorf("file missing required column: %s", required)
		}
	}

	total := 0
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, fmt.Errorf("could not read CSV row: %w", err)
		}

		row := LeadRow{Lead: model.Lead{
			Name:     field(record, columnMap, "name"),
			Phone:    field(record, columnMap, "phone"),
			Email:    field(record, columnMap, "email"),
			PolicyID: field(record, columnMap, "policy_id"),
			Notes:    field(record, columnMap, "notes"),
		}}
		if row.Lead.Name == "" || row.Lead.Phone == "" {
			logrus.Warnf("skipping upload row with missing name or phone")
			continue
		}
		row.DueDate = parseDueDate(field(record, columnMap, "due_date"))

		if err := store(ctx, row); err != nil {
			return total, err
		}
		total++
	}
	return total, nil
}

// mapColumns normalizes header names so Name/Policy_ID/due variants all
// resolve to the canonical column keys.
func mapColumns(headers []string) map[string]int {
	aliases := map[string]string{
		"policy": "policy_id",
		"due":    "due_date",
	}

	columnMap := make(map[string]int)
	for i, h := range headers {
		name := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := aliases[name]; ok {
			name = canonical
		}
		if _, exists := columnMap[name]; !exists {
			columnMap[name] = i
		}
	}
	return columnMap
}

func field(record []string, columnMap map[string]int, name string) string {
	idx, ok := columnMap[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseDueDate accepts ISO timestamps and plain dates; bad values are
// dropped so one malformed date does not sink the whole upload.
func parseDueDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed
		}
	}
	logrus.Warnf("skipping unparseable due date %q", raw)
	return nil
}
