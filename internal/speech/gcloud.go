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

package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/insuredesk/insuredesk/config"
	"github.com/insuredesk/insuredesk/internal/request"
	"github.com/insuredesk/insuredesk/internal/storage"
)

const ProviderGCloud = "gcloud"

const gcloudSynthesizeURL = "https://texttospeech.googleapis.com/v1/text:synthesize"

// GCloudProvider renders speech with the Google Cloud text-to-speech REST
// API and hosts the audio in the same S3 bucket as the Polly provider.
type GCloudProvider struct {
	apiKey       string
	voice        string
	languageCode string
	endpoint     string
	store        *storage.S3Store
	client       *http.Client
}

func NewGCloudProvider(conf *config.GCloudConfig, store *storage.S3Store) (*GCloudProvider, error) {
	if conf.ApiKey == "" {
		return nil, errors.New("Google Cloud TTS API key is not configured")
	}

	return &GCloudProvider{
		apiKey:       conf.ApiKey,
		voice:        conf.Voice,
		languageCode: conf.LanguageCode,
		endpoint:     gcloudSynthesizeURL,
		store:        store,
		client:       &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (g *GCloudProvider) Name() string {
	return ProviderGCloud
}

type gcloudSynthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type gcloudSynthesizeResponse struct {
	AudioContent string `json:"audioContent"`
	Error        struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *GCloudProvider) Synthesize(ctx context.Context, text string) (string, error) {
	var body gcloudSynthesizeRequest
	body.Input.Text = text
	body.Voice.LanguageCode = g.languageCode
	body.Voice.Name = g.voice
	body.AudioConfig.AudioEncoding = "MP3"

	payload, err := request.ToJsonReq(&body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s?key=%s", g.endpoint, g.apiKey), payload)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "gcloud synthesis request failed")
	}
	defer resp.Body.Close()

	var out gcloudSynthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.Wrap(err, "failed to decode gcloud response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("gcloud synthesis failed with status %d: %s", resp.StatusCode, out.Error.Message)
	}

	audio, err := base64.StdEncoding.DecodeString(out.AudioContent)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode gcloud audio content")
	}

	key := fmt.Sprintf("gctts_%s.mp3", uuid.New().String())
	return g.store.UploadPublic(ctx, key, audio, "audio/mpeg")
}
