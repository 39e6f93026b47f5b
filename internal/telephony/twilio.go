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

// Package telephony places outbound reminder calls through Twilio.
package telephony

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/insuredesk/insuredesk/config"
	"github.com/insuredesk/insuredesk/internal/request"
)

const twilioAPIBaseURL = "https://api.twilio.com"

// GatewayError reports that the underlying telephony call could not be
// created (bad credentials, invalid number, provider outage).
type GatewayError struct {
	Description string
}

func (e *GatewayError) Error() string {
	return e.Description
}

// Gateway originates a phone call that either plays hosted audio or
// speaks text with the provider's own voice.
type Gateway interface {
	PlaceCall(ctx context.Context, to, message, audioURL string) (string, error)
}

// TwilioGateway implements Gateway against the Twilio REST API.
type TwilioGateway struct {
	accountSid string
	authToken  string
	from       string
	voice      string
	baseURL    string
	client     *http.Client
}

func NewTwilioGateway(conf *config.TwilioConfig) *TwilioGateway {
	return &TwilioGateway{
		accountSid: conf.AccountSid,
		authToken:  conf.AuthToken,
		from:       conf.PhoneNumber,
		voice:      conf.Voice,
		baseURL:    twilioAPIBaseURL,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

type twilioCallResponse struct {
	Sid     string `json:"sid"`
	Message string `json:"message"`
}

// PlaceCall creates the outbound call and returns its SID. Exactly one of
// message/audioURL is used: a non-empty audioURL wins. Passing both empty
// is a programming error and returns a plain error rather than a
// GatewayError.
func (g *TwilioGateway) PlaceCall(ctx context.Context, to, message, audioURL string) (string, error) {
	twiml, err := buildTwiML(message, audioURL, g.voice)
	if err != nil {
		return "", err
	}

	if g.accountSid == "" || g.authToken == "" {
		return "", &GatewayError{Description: "twilio credentials missing; set the account SID and auth token"}
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", g.from)
	form.Set("Twiml", twiml)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", g.baseURL, g.accountSid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, request.ToFormReq(form))
	if err != nil {
		return "", &GatewayError{Description: err.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+request.BasicAuth(g.accountSid, g.authToken))

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &GatewayError{Description: fmt.Sprintf("twilio call creation failed: %v", err)}
	}
	defer resp.Body.Close()

	var call twilioCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&call); err != nil {
		return "", &GatewayError{Description: fmt.Sprintf("failed to decode twilio response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &GatewayError{Description: fmt.Sprintf("twilio call creation failed with status %d: %s", resp.StatusCode, call.Message)}
	}
	if call.Sid == "" {
		return "", &GatewayError{Description: "twilio response contained no call SID"}
	}

	return call.Sid, nil
}

// buildTwiML renders the voice instruction document for the call.
func buildTwiML(message, audioURL, voice string) (string, error) {
	if audioURL != "" {
		return fmt.Sprintf("<Response><Play>%s</Play></Response>", xmlEscape(audioURL)), nil
	}
	if message != "" {
		return fmt.Sprintf(`<Response><Say voice="%s">%s</Say></Response>`, xmlEscape(voice), xmlEscape(message)), nil
	}
	return "", errors.New("either message or audio URL must be provided")
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
