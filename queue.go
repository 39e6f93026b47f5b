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
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/insuredesk/insuredesk/config"
	redis_db "github.com/insuredesk/insuredesk/internal/redis-db"
)

// Queue represents a queue for handling deferred reminder calls, webhook
// deliveries, and search indexing.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

// NewQueue initializes a new Queue instance with the provided configuration.
func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB, TLSConfig: redisOption.TLSConfig}
	client := asynq.NewClient(queueOptions)
	inspector := asynq.NewInspector(queueOptions)
	return &Queue{
		Client:    client,
		Inspector: inspector,
	}
}

// EnqueueReminderCall schedules a reminder call task for processing at the
// given time. Call placement is never retried automatically: a failed run
// records its outcome and stays failed until an operator reschedules it.
func (q *Queue) EnqueueReminderCall(ctx context.Context, request CallRequest, processAt time.Time) error {
	ctx, span := tracer.Start(ctx, "Adding Reminder Call To Redis Queue")
	defer span.End()

	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return err
	}

	taskOptions := []asynq.Option{
		asynq.TaskID(fmt.Sprintf("reminder_call_%d_%d", request.LeadID, processAt.Unix())),
		asynq.Queue(cfg.Queue.ReminderCallQueue),
		asynq.ProcessAt(processAt),
		asynq.MaxRetry(0),
	}
	task := asynq.NewTask(cfg.Queue.ReminderCallQueue, payload, taskOptions...)
	info, err := q.Client.EnqueueContext(ctx, task)
	if err != nil {
		log.Println(err, info)
		return err
	}
	log.Printf(" [*] Successfully enqueued reminder call for lead: %d", request.LeadID)
	return nil
}

// queueIndexData enqueues a task to index data in a specified collection.
func (q *Queue) queueIndexData(id string, collection string, data interface{}) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	if cfg.TypeSense.Dns == "" {
		return nil
	}

	payload := map[string]interface{}{
		"collection": collection,
		"payload":    data,
	}

	IPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	taskOptions := []asynq.Option{asynq.Queue(cfg.Queue.IndexQueue)}
	task := asynq.NewTask(cfg.Queue.IndexQueue, IPayload, taskOptions...)
	info, err := q.Client.Enqueue(task)
	if err != nil {
		log.Println(err, info)
		return err
	}
	log.Printf(" [*] Successfully enqueued index data: %+v", id)
	return nil
}

// GetScheduledCallFromQueue retrieves a pending reminder call task by its ID.
func (q *Queue) GetScheduledCallFromQueue(taskID string) (*CallRequest, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	task, err := q.Inspector.GetTaskInfo(cfg.Queue.ReminderCallQueue, taskID)
	if err != nil || task == nil {
		return nil, nil
	}

	var request CallRequest
	if err := json.Unmarshal(task.Payload, &request); err != nil {
		return nil, err
	}
	return &request, nil
}
