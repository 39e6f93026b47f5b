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

package compliance

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

func newTestReviewer() *OpenAIReviewer {
	return &OpenAIReviewer{
		apiKey:  "test-key",
		model:   "gpt-4o-mini",
		baseURL: "https://api.openai.com",
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func completionBody(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"role": "assistant", "content": content}},
		},
	}
}

func TestHeuristicCleanStripsFlaggedTokens(t *testing.T) {
	decision := HeuristicClean("We guarantee the best rate")

	assert.True(t, decision.Approved)
	// Only the listed substrings are removed; surrounding spaces stay.
	assert.Equal(t, "We  the  rate", decision.Message)
}

func TestHeuristicCleanIsCaseSensitive(t *testing.T) {
	decision := HeuristicClean("Best rates, Guaranteed")

	assert.True(t, decision.Approved)
	assert.Equal(t, "Best rates, Guaranteed", decision.Message)
}

func TestReviewApproved(t *testing.T) {
	reviewer := newTestReviewer()
	httpmock.ActivateNonDefault(reviewer.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://api.openai.com/v1/chat/completions",
		func(req *http.Request) (*http.Response, error) {
			return httpmock.NewJsonResponse(200, completionBody(`{"ok": true, "message": "Your premium is due soon."}`))
		})

	decision := reviewer.Review(context.Background(), "Your premium is due soon.")

	assert.True(t, decision.Approved)
	assert.Equal(t, "Your premium is due soon.", decision.Message)
}

func TestReviewRejected(t *testing.T) {
	reviewer := newTestReviewer()
	httpmock.ActivateNonDefault(reviewer.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://api.openai.com/v1/chat/completions",
		func(req *http.Request) (*http.Response, error) {
			return httpmock.NewJsonResponse(200, completionBody(`{"ok": false, "reason": "contains a guarantee"}`))
		})

	decision := reviewer.Review(context.Background(), "We guarantee savings")

	assert.False(t, decision.Approved)
	assert.Equal(t, "contains a guarantee", decision.Reason)
}

func TestReviewToleratesCodeFences(t *testing.T) {
	reviewer := newTestReviewer()
	httpmock.ActivateNonDefault(reviewer.client)
	defer httpmock.DeactivateAndReset()

	fenced := "```json\n{\"ok\": true, \"message\": \"cleaned\"}\n```"
	httpmock.RegisterResponder("POST", "https://api.openai.com/v1/chat/completions",
		func(req *http.Request) (*http.Response, error) {
			return httpmock.NewJsonResponse(200, completionBody(fenced))
		})

	decision := reviewer.Review(context.Background(), "anything")

	assert.True(t, decision.Approved)
	assert.Equal(t, "cleaned", decision.Message)
}

func TestReviewFallsBackOnServerError(t *testing.T) {
	reviewer := newTestReviewer()
	httpmock.ActivateNonDefault(reviewer.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://api.openai.com/v1/chat/completions",
		httpmock.NewStringResponder(500, `{"error": {"message": "overloaded"}}`))

	decision := reviewer.Review(context.Background(), "We guarantee the best rate")

	// The heuristic fallback approves the stripped text.
	assert.True(t, decision.Approved)
	assert.Equal(t, "We  the  rate", decision.Message)
}

func TestReviewFallsBackOnMalformedOutput(t *testing.T) {
	reviewer := newTestReviewer()
	httpmock.ActivateNonDefault(reviewer.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://api.openai.com/v1/chat/completions",
		func(req *http.Request) (*http.Response, error) {
			return httpmock.NewJsonResponse(200, completionBody("sounds fine to me"))
		})

	decision := reviewer.Review(context.Background(), "Premium due")

	assert.True(t, decision.Approved)
	assert.Equal(t, "Premium due", decision.Message)
}

func TestReviewWithoutAPIKeyUsesHeuristic(t *testing.T) {
	reviewer := newTestReviewer()
	reviewer.apiKey = ""

	decision := reviewer.Review(context.Background(), "Premium due")

	assert.True(t, decision.Approved)
	assert.Equal(t, "Premium due", decision.Message)
}

func TestParseDecisionRejectsApprovalWithoutMessage(t *testing.T) {
	_, err := parseDecision(`{"ok": true}`)
	assert.Error(t, err)
}
