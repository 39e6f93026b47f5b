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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	name  string
	url   string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Synthesize(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func TestCascadePreferredProviderWins(t *testing.T) {
	polly := &fakeProvider{name: "polly", url: "https://cdn/tts_1.mp3"}
	gcloud := &fakeProvider{name: "gcloud", url: "https://cdn/gctts_1.mp3"}
	cascade := NewCascade(polly, gcloud)

	result := cascade.Synthesize(context.Background(), "hello", "polly")

	if assert.NotNil(t, result) {
		assert.Equal(t, "polly", result.Provider)
		assert.Equal(t, "https://cdn/tts_1.mp3", result.AudioURL)
	}
	assert.Equal(t, 0, gcloud.calls)
}

func TestCascadeFallsThroughForwardOnly(t *testing.T) {
	polly := &fakeProvider{name: "polly", err: errors.New("polly down")}
	gcloud := &fakeProvider{name: "gcloud", url: "https://cdn/gctts_2.mp3"}
	cascade := NewCascade(polly, gcloud)

	result := cascade.Synthesize(context.Background(), "hello", "polly")

	if assert.NotNil(t, result) {
		assert.Equal(t, "gcloud", result.Provider)
	}
	assert.Equal(t, 1, polly.calls)
}

func TestCascadeUnconfiguredPreferenceFallsThrough(t *testing.T) {
	gcloud := &fakeProvider{name: "gcloud", url: "https://cdn/gctts_9.mp3"}
	cascade := NewCascade(nil, gcloud)

	// Preferring polly on a deployment without polly credentials still
	// reaches the engine ranked after it.
	result := cascade.Synthesize(context.Background(), "hello", "polly")

	if assert.NotNil(t, result) {
		assert.Equal(t, "gcloud", result.Provider)
		assert.Equal(t, "https://cdn/gctts_9.mp3", result.AudioURL)
	}
	assert.Equal(t, 1, gcloud.calls)
}

func TestCascadePreferenceNeverFallsBackward(t *testing.T) {
	polly := &fakeProvider{name: "polly", url: "https://cdn/tts_3.mp3"}
	gcloud := &fakeProvider{name: "gcloud", err: errors.New("gcloud down")}
	cascade := NewCascade(polly, gcloud)

	// Preferring gcloud must not reach for polly, which ranks before it.
	result := cascade.Synthesize(context.Background(), "hello", "gcloud")

	assert.Nil(t, result)
	assert.Equal(t, 0, polly.calls)
}

func TestCascadeUnknownPreferenceSkipsSynthesis(t *testing.T) {
	polly := &fakeProvider{name: "polly", url: "https://cdn/tts_4.mp3"}
	cascade := NewCascade(polly)

	assert.Nil(t, cascade.Synthesize(context.Background(), "hello", "say"))
	assert.Nil(t, cascade.Synthesize(context.Background(), "hello", ""))
	assert.Equal(t, 0, polly.calls)
}

func TestCascadeAllProvidersFail(t *testing.T) {
	polly := &fakeProvider{name: "polly", err: errors.New("polly down")}
	gcloud := &fakeProvider{name: "gcloud", err: errors.New("gcloud down")}
	cascade := NewCascade(polly, gcloud)

	assert.Nil(t, cascade.Synthesize(context.Background(), "hello", "polly"))
}

func TestNewCascadeSkipsNilProviders(t *testing.T) {
	polly := &fakeProvider{name: "polly", url: "https://cdn/tts_5.mp3"}
	cascade := NewCascade(nil, polly, nil)

	assert.Equal(t, []string{"polly"}, cascade.Providers())
}
