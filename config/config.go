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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5002"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"INSUREDESK_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"INSUREDESK_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"INSUREDESK_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"INSUREDESK_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"INSUREDESK_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"INSUREDESK_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"INSUREDESK_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"INSUREDESK_REDIS_DNS"`
}

type TypeSenseConfig struct {
	Dns string `json:"dns" envconfig:"INSUREDESK_TYPESENSE_DNS"`
}

// AwsConfig covers both the Polly voice provider and the S3 bucket where
// rendered audio is hosted.
type AwsConfig struct {
	AccessKeyId     string `json:"access_key_id" envconfig:"INSUREDESK_AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `json:"secret_access_key" envconfig:"INSUREDESK_AWS_SECRET_ACCESS_KEY"`
	Region          string `json:"region" envconfig:"INSUREDESK_AWS_REGION"`
	S3Bucket        string `json:"s3_bucket" envconfig:"INSUREDESK_AWS_S3_BUCKET"`
	PollyVoice      string `json:"polly_voice" envconfig:"INSUREDESK_POLLY_VOICE"`
}

type GCloudConfig struct {
	ApiKey       string `json:"api_key" envconfig:"INSUREDESK_GCP_TTS_API_KEY"`
	Voice        string `json:"voice" envconfig:"INSUREDESK_GCP_TTS_VOICE"`
	LanguageCode string `json:"language_code" envconfig:"INSUREDESK_GCP_TTS_LANGUAGE_CODE"`
}

type TwilioConfig struct {
	AccountSid  string `json:"account_sid" envconfig:"INSUREDESK_TWILIO_ACCOUNT_SID"`
	AuthToken   string `json:"auth_token" envconfig:"INSUREDESK_TWILIO_AUTH_TOKEN"`
	PhoneNumber string `json:"phone_number" envconfig:"INSUREDESK_TWILIO_PHONE_NUMBER"`
	Voice       string `json:"voice" envconfig:"INSUREDESK_TWILIO_VOICE"`
}

type OpenAIConfig struct {
	ApiKey string `json:"api_key" envconfig:"INSUREDESK_OPENAI_API_KEY"`
	Model  string `json:"model" envconfig:"INSUREDESK_OPENAI_MODEL"`
	Url    string `json:"url" envconfig:"INSUREDESK_OPENAI_URL"`
}

type QueueConfig struct {
	ReminderCallQueue string `json:"reminder_call_queue" envconfig:"INSUREDESK_REMINDER_CALL_QUEUE"`
	WebhookQueue      string `json:"webhook_queue" envconfig:"INSUREDESK_WEBHOOK_QUEUE"`
	IndexQueue        string `json:"index_queue" envconfig:"INSUREDESK_INDEX_QUEUE"`
	MonitoringPort    string `json:"monitoring_port" envconfig:"INSUREDESK_QUEUE_MONITORING_PORT"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"INSUREDESK_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"INSUREDESK_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"INSUREDESK_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName     string           `json:"project_name" envconfig:"INSUREDESK_PROJECT_NAME"`
	EnableTelemetry bool             `json:"enable_telemetry" envconfig:"INSUREDESK_ENABLE_TELEMETRY"`
	Server          ServerConfig     `json:"server"`
	DataSource      DataSourceConfig `json:"data_source"`
	Redis           RedisConfig      `json:"redis"`
	TypeSense       TypeSenseConfig  `json:"typesense"`
	TypeSenseKey    string           `json:"type_sense_key" envconfig:"INSUREDESK_TYPESENSE_KEY"`
	Aws             AwsConfig        `json:"aws"`
	GCloud          GCloudConfig     `json:"gcloud"`
	Twilio          TwilioConfig     `json:"twilio"`
	OpenAI          OpenAIConfig     `json:"openai"`
	Queue           QueueConfig      `json:"queue"`
	RateLimit       RateLimitConfig  `json:"rate_limit"`
	Notification    Notification     `json:"notification"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("insuredesk", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called insuredesk.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "InsureDesk Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	if cnf.TypeSense.Dns == "" {
		cnf.TypeSense.Dns = "http://typesense:8108"
	}

	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Aws.Region == "" {
		cnf.Aws.Region = "us-east-1"
	}
	if cnf.Aws.PollyVoice == "" {
		cnf.Aws.PollyVoice = "Joanna"
	}
	if cnf.GCloud.Voice == "" {
		cnf.GCloud.Voice = "en-US-Wavenet-D"
	}
	if cnf.GCloud.LanguageCode == "" {
		cnf.GCloud.LanguageCode = "en-US"
	}
	if cnf.Twilio.Voice == "" {
		cnf.Twilio.Voice = "Polly.Joanna"
	}
	if cnf.OpenAI.Model == "" {
		cnf.OpenAI.Model = "gpt-4o-mini"
	}
	if cnf.OpenAI.Url == "" {
		cnf.OpenAI.Url = "https://api.openai.com"
	}

	if cnf.Queue.ReminderCallQueue == "" {
		cnf.Queue.ReminderCallQueue = "reminder_call_queue"
	}
	if cnf.Queue.WebhookQueue == "" {
		cnf.Queue.WebhookQueue = "webhook_queue"
	}
	if cnf.Queue.IndexQueue == "" {
		cnf.Queue.IndexQueue = "index_queue"
	}
	if cnf.Queue.MonitoringPort == "" {
		cnf.Queue.MonitoringPort = "5003"
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	if mockConfig.Queue.ReminderCallQueue == "" {
		mockConfig.Queue.ReminderCallQueue = "reminder_call_queue"
	}
	if mockConfig.Queue.WebhookQueue == "" {
		mockConfig.Queue.WebhookQueue = "webhook_queue"
	}
	if mockConfig.Queue.IndexQueue == "" {
		mockConfig.Queue.IndexQueue = "index_queue"
	}
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
