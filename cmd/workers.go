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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	insuredesk "github.com/insuredesk/insuredesk"
	"github.com/insuredesk/insuredesk/config"
	redis_db "github.com/insuredesk/insuredesk/internal/redis-db"
	"github.com/insuredesk/insuredesk/internal/search"
)

// indexData represents the data structure used for indexing data in the system.
// It includes the collection name and the payload which is the data to be indexed.
type indexData struct {
	Collection string                 `json:"collection"`
	Payload    map[string]interface{} `json:"payload"`
}

// processReminderCall runs a scheduled reminder call pulled from the Redis
// queue. The run always resolves to a terminal outcome, so the task is
// never requeued; failed calls are surfaced through webhooks and logs.
func (b *deskInstance) processReminderCall(ctx context.Context, t *asynq.Task) error {
	ctx, span := otel.Tracer("insuredesk.reminders.worker").Start(ctx, "Process Reminder Call From Redis Queue")
	defer span.End()

	var request insuredesk.CallRequest
	if err := json.Unmarshal(t.Payload(), &request); err != nil {
		logrus.Error(err)
		return err
	}

	outcome := b.desk.PlaceReminderCall(ctx, request)
	log.Printf(" [*] Reminder Call Processed lead=%d status=%s", request.LeadID, outcome.Status)
	return nil
}

// indexData indexes data into TypeSense for searchability.
// It fetches the collection name and payload from the task, ensures the
// collections exist, and upserts the payload into the collection.
func (b *deskInstance) indexData(ctx context.Context, t *asynq.Task) error {
	var data indexData

	if err := json.Unmarshal(t.Payload(), &data); err != nil {
		logrus.Error(err)
		return err
	}

	newSearch := search.NewTypesenseClient(b.cnf.TypeSenseKey, []string{b.cnf.TypeSense.Dns})
	err := newSearch.EnsureCollectionsExist(ctx)
	if err != nil {
		log.Printf("Failed to ensure collections exist: %v", err)
		return err
	}

	err = newSearch.HandleNotification(ctx, data.Collection, data.Payload)
	if err != nil {
		log.Println("Error indexing data", err)
		return err
	}

	log.Println(" [*] Data indexed", data.Collection)
	return nil
}

func initializeQueues() map[string]int {
	cfg, err := config.Fetch()
	if err != nil {
		log.Printf("Error fetching config, using defaults: %v", err)
		return nil
	}

	queues := make(map[string]int)
	queues[cfg.Queue.ReminderCallQueue] = 2
	queues[cfg.Queue.WebhookQueue] = 3
	queues[cfg.Queue.IndexQueue] = 1
	return queues
}

func initializeWorkerServer(conf *config.Configuration, queues map[string]int) (*asynq.Server, error) {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %v", err)
	}

	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:      redisOption.Addr,
			Password:  redisOption.Password,
			DB:        redisOption.DB,
			TLSConfig: redisOption.TLSConfig,
		},
		asynq.Config{
			Concurrency: 1,
			Queues:      queues,
		},
	), nil
}

func initializeTaskHandlers(b *deskInstance, mux *asynq.ServeMux) {
	cfg, err := config.Fetch()
	if err != nil {
		log.Printf("Error fetching config, using defaults: %v", err)
		return
	}

	mux.HandleFunc(cfg.Queue.ReminderCallQueue, b.processReminderCall)
	mux.HandleFunc(cfg.Queue.IndexQueue, b.indexData)
	mux.HandleFunc(cfg.Queue.WebhookQueue, insuredesk.ProcessWebhook)
}

// workerCommands defines the "workers" command to start worker processes.
// The workers listen to the reminder call, webhook, and indexing queues.
func workerCommands(b *deskInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start insuredesk workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			conf, err := config.Fetch()
			if err != nil {
				log.Fatal("Error fetching config:", err)
			}

			shutdown, err := initializeObservability(ctx, conf)
			if err != nil {
				log.Fatal(err)
			}
			if shutdown != nil {
				defer func() {
					if err := shutdown(ctx); err != nil {
						log.Printf("Error during shutdown: %v", err)
					}
				}()
			}

			queues := initializeQueues()

			srv, err := initializeWorkerServer(conf, queues)
			if err != nil {
				log.Fatal(err)
			}

			mux := asynq.NewServeMux()
			initializeTaskHandlers(b, mux)

			// Start asynqmon server for health checks and monitoring
			redisOption, _ := redis_db.ParseRedisURL(conf.Redis.Dns)
			h := asynqmon.New(asynqmon.Options{
				RootPath: "/monitoring",
				RedisConnOpt: asynq.RedisClientOpt{
					Addr:      redisOption.Addr,
					Password:  redisOption.Password,
					DB:        redisOption.DB,
					TLSConfig: redisOption.TLSConfig,
				},
			})

			go func() {
				monitoringAddr := fmt.Sprintf(":%s", conf.Queue.MonitoringPort)
				log.Printf("Asynqmon server listening on %s/monitoring", monitoringAddr)
				if err := http.ListenAndServe(monitoringAddr, h); err != nil {
					log.Fatalf("could not start asynqmon server: %v", err)
				}
			}()

			if err := srv.Run(mux); err != nil {
				log.Fatalf("could not run server: %v", err)
			}
		},
	}

	return cmd
}
