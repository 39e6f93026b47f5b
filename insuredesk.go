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
	"embed"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/typesense/typesense-go/typesense/api"

	"github.com/insuredesk/insuredesk/config"
	"github.com/insuredesk/insuredesk/database"
	"github.com/insuredesk/insuredesk/internal/compliance"
	redis_db "github.com/insuredesk/insuredesk/internal/redis-db"
	"github.com/insuredesk/insuredesk/internal/search"
	"github.com/insuredesk/insuredesk/internal/speech"
	"github.com/insuredesk/insuredesk/internal/storage"
	"github.com/insuredesk/insuredesk/internal/telephony"
)

// InsureDesk wires the datasource, queue, search index, and the call
// collaborators (reviewer, speech cascade, telephony gateway) into one
// service instance.
type InsureDesk struct {
	queue      *Queue
	search     *search.TypesenseClient
	redis      redis.UniversalClient
	datasource database.IDataSource
	reviewer   compliance.Reviewer
	speech     *speech.Cascade
	gateway    telephony.Gateway
}

//go:embed sql/*.sql
var SQLFiles embed.FS

// NewInsureDesk initializes a new instance with the provided database datasource.
// It fetches the configuration and builds the Redis client, queue, search client,
// and the reminder-call collaborators. TTS providers without credentials are
// left out of the cascade rather than treated as errors.
func NewInsureDesk(db database.IDataSource) (*InsureDesk, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)})
	if err != nil {
		return nil, err
	}
	newQueue := NewQueue(configuration)
	newSearch := search.NewTypesenseClient(configuration.TypeSenseKey, []string{configuration.TypeSense.Dns})

	newInsureDesk := &InsureDesk{
		datasource: db,
		queue:      newQueue,
		redis:      redisClient.Client(),
		search:     newSearch,
		reviewer:   compliance.NewOpenAIReviewer(&configuration.OpenAI),
		speech:     buildSpeechCascade(configuration),
		gateway:    telephony.NewTwilioGateway(&configuration.Twilio),
	}
	return newInsureDesk, nil
}

// buildSpeechCascade assembles the configured TTS providers in preference
// order. Both providers host their audio in the same S3 bucket.
func buildSpeechCascade(configuration *config.Configuration) *speech.Cascade {
	var providers []speech.Provider

	store, err := storage.NewS3Store(&configuration.Aws)
	if err == nil {
		if polly, err := speech.NewPollyProvider(&configuration.Aws, store); err == nil {
			providers = append(providers, polly)
		}
		if gcloud, err := speech.NewGCloudProvider(&configuration.GCloud, store); err == nil {
			providers = append(providers, gcloud)
		}
	}

	return speech.NewCascade(providers...)
}

// Search performs a search on the specified collection using the provided query parameters.
func (i *InsureDesk) Search(ctx context.Context, collection string, query *api.SearchCollectionParams) (interface{}, error) {
	return i.search.Search(ctx, collection, query)
}
