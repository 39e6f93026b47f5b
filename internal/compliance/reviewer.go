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

// Package compliance reviews outbound reminder text before it is spoken
// to a customer. The primary reviewer is a language model; when it is
// unreachable or returns malformed output, a local heuristic strips a
// small fixed set of flagged tokens and auto-approves. Review never fails
// outward, so callers must not treat heuristic approval as a compliance
// guarantee.
package compliance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/insuredesk/insuredesk/config"
	"github.com/insuredesk/insuredesk/internal/request"
)

// Decision is the reviewer's verdict on one message. When Approved is
// true, Message holds the (possibly edited) text cleared for delivery;
// otherwise Reason explains the rejection.
type Decision struct {
	Approved bool   `json:"ok"`
	Message  string `json:"message,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Reviewer approves, edits, or rejects an outbound message.
type Reviewer interface {
	Review(ctx context.Context, message string) Decision
}

// flaggedTokens are removed verbatim by the heuristic fallback. The list
// is deliberately small and case-sensitive; it is a stopgap, not a
// substitute for the language-model review.
var flaggedTokens = []string{"best", "guarantee"}

// HeuristicClean strips the flagged tokens and auto-approves the result.
func HeuristicClean(message string) Decision {
	cleaned := message
	for _, token := range flaggedTokens {
		cleaned = strings.ReplaceAll(cleaned, token, "")
	}
	return Decision{Approved: true, Message: strings.TrimSpace(cleaned)}
}

const reviewPrompt = `Check this outbound insurance reminder for compliance. Remove marketing claims or guarantees. Return JSON like {"ok": true, "message": "<cleaned>"} or {"ok": false, "reason": "..."}
Message:
%s`

// OpenAIReviewer submits messages to the OpenAI chat-completions API with
// a fixed review instruction.
type OpenAIReviewer struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewOpenAIReviewer(conf *config.OpenAIConfig) *OpenAIReviewer {
	return &OpenAIReviewer{
		apiKey:  conf.ApiKey,
		model:   conf.Model,
		baseURL: conf.Url,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Review submits the message for language-model review and falls back to
// the local heuristic on any failure.
func (r *OpenAIReviewer) Review(ctx context.Context, message string) Decision {
	decision, err := r.reviewRemote(ctx, message)
	if err != nil {
		logrus.Warnf("compliance review unavailable, using heuristic fallback: %v", err)
		return HeuristicClean(message)
	}
	return decision
}

func (r *OpenAIReviewer) reviewRemote(ctx context.Context, message string) (Decision, error) {
	if r.apiKey == "" {
		return Decision{}, errors.New("OpenAI API key is not configured")
	}

	body := chatCompletionRequest{
		Model:     r.model,
		Messages:  []chatMessage{{Role: "user", Content: fmt.Sprintf(reviewPrompt, message)}},
		MaxTokens: 200,
	}
	payload, err := request.ToJsonReq(&body)
	if err != nil {
		return Decision{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/chat/completions", payload)
	if err != nil {
		return Decision{}, err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	var completion chatCompletionResponse
	resp, err := request.Call(req, &completion)
	if err != nil {
		return Decision{}, errors.Wrap(err, "review request failed")
	}
	if resp.StatusCode != http.StatusOK {
		return Decision{}, errors.Errorf("review request failed with status %d: %s", resp.StatusCode, completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return Decision{}, errors.New("review response contained no choices")
	}

	return parseDecision(completion.Choices[0].Message.Content)
}

// parseDecision decodes the model output, tolerating markdown code fences
// around the JSON body.
func parseDecision(content string) (Decision, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var decision Decision
	if err := json.Unmarshal([]byte(content), &decision); err != nil {
		return Decision{}, errors.Wrap(err, "review response was not valid JSON")
	}
	if decision.Approved && decision.Message == "" {
		return Decision{}, errors.New("review approved without a message")
	}
	return decision, nil
}
