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

package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/typesense/typesense-go/typesense"
	"github.com/typesense/typesense-go/typesense/api"
	"github.com/typesense/typesense-go/typesense/api/pointer"
)

const (
	CollectionLeads     = "leads"
	CollectionReminders = "reminders"
)

// CollectionConfig holds the schema and normalization rules for one
// indexed collection.
type CollectionConfig struct {
	Schema     *api.CollectionSchema
	IDField    string
	TimeFields []string
}

var collectionConfigs map[string]CollectionConfig

func init() {
	collectionConfigs = map[string]CollectionConfig{
		CollectionLeads: {
			Schema:     getLeadSchema(),
			IDField:    "id",
			TimeFields: []string{"created_at"},
		},
		CollectionReminders: {
			Schema:     getReminderSchema(),
			IDField:    "id",
			TimeFields: []string{"due_date", "created_at"},
		},
	}
}

func getLeadSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: CollectionLeads,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "phone", Type: "string"},
			{Name: "email", Type: "string", Optional: pointer.True()},
			{Name: "policy_id", Type: "string", Optional: pointer.True()},
			{Name: "notes", Type: "string", Optional: pointer.True()},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}
}

func getReminderSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: CollectionReminders,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "lead_id", Type: "string", Facet: pointer.True()},
			{Name: "due_date", Type: "int64"},
			{Name: "message", Type: "string"},
			{Name: "sent", Type: "bool", Facet: pointer.True()},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}
}

// TypesenseClient wraps the Typesense client used to index and query
// leads and reminders.
type TypesenseClient struct {
	Client *typesense.Client
}

func NewTypesenseClient(apiKey string, hosts []string) *TypesenseClient {
	client := typesense.NewClient(
		typesense.WithServer(hosts[0]),
		typesense.WithAPIKey(apiKey),
		typesense.WithConnectionTimeout(5*time.Second),
		typesense.WithCircuitBreakerMaxRequests(50),
		typesense.WithCircuitBreakerInterval(2*time.Minute),
		typesense.WithCircuitBreakerTimeout(1*time.Minute),
	)
	return &TypesenseClient{Client: client}
}

// EnsureCollectionsExist creates any missing collections.
func (t *TypesenseClient) EnsureCollectionsExist(ctx context.Context) error {
	for name, config := range collectionConfigs {
		if _, err := t.CreateCollection(ctx, config.Schema); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}
	return nil
}

// CreateCollection creates a collection from the schema, tolerating
// collections that already exist.
func (t *TypesenseClient) CreateCollection(ctx context.Context, schema *api.CollectionSchema) (*api.CollectionResponse, error) {
	resp, err := t.Client.Collections().Create(ctx, schema)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return nil, nil
		}
		return nil, err
	}
	return resp, nil
}

// Search runs a query against one collection.
func (t *TypesenseClient) Search(ctx context.Context, collection string, searchParams *api.SearchCollectionParams) (*api.SearchResult, error) {
	return t.Client.Collection(collection).Documents().Search(ctx, searchParams)
}

// HandleNotification normalizes an indexing payload and upserts it into
// the collection named by table.
func (t *TypesenseClient) HandleNotification(ctx context.Context, table string, data map[string]interface{}) error {
	config, ok := collectionConfigs[table]
	if !ok {
		return fmt.Errorf("unknown collection: %s", table)
	}

	t.stringifyIDFields(data)
	t.normalizeTimeFields(config, data)

	return t.upsertDocument(ctx, table, data)
}

// stringifyIDFields converts numeric identifiers to the string form
// Typesense requires for document ids and references.
func (t *TypesenseClient) stringifyIDFields(data map[string]interface{}) {
	for _, field := range []string{"id", "lead_id"} {
		switch v := data[field].(type) {
		case float64:
			data[field] = fmt.Sprintf("%.0f", v)
		case int64:
			data[field] = fmt.Sprintf("%d", v)
		case int:
			data[field] = fmt.Sprintf("%d", v)
		}
	}
}

// normalizeTimeFields converts RFC3339 timestamps to unix seconds.
func (t *TypesenseClient) normalizeTimeFields(config CollectionConfig, data map[string]interface{}) {
	for _, field := range config.TimeFields {
		if raw, ok := data[field].(string); ok {
			if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
				data[field] = parsed.Unix()
			}
		}
	}
}

func (t *TypesenseClient) upsertDocument(ctx context.Context, collection string, data map[string]interface{}) error {
	_, err := t.Client.Collection(collection).Documents().Upsert(ctx, data)
	return err
}
