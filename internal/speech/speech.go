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

// Package speech turns reminder text into hosted audio. Providers are
// optional capabilities: a deployment may have zero, one, or two
// configured, and synthesis failure must never abort a reminder run.
package speech

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Provider converts text to audio hosted at a publicly fetchable URL.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, text string) (string, error)
}

// Result reports the hosted audio URL and which provider produced it.
type Result struct {
	AudioURL string
	Provider string
}

// Cascade holds the configured providers in preference order.
type Cascade struct {
	providers []Provider
}

// NewCascade builds a cascade from the configured providers. Nil entries
// (unconfigured providers) are skipped.
func NewCascade(providers ...Provider) *Cascade {
	c := &Cascade{}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// Providers returns the names of the configured providers in order.
func (c *Cascade) Providers() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

// providerOrder ranks the known engines. Preference resolution works on
// this order rather than on the configured set, so preferring an engine
// that is not configured still falls through to the engines ranked
// after it.
var providerOrder = []string{ProviderPolly, ProviderGCloud}

func providerRank(name string) int {
	for i, n := range providerOrder {
		if n == name {
			return i
		}
	}
	return -1
}

// Synthesize tries the preferred engine first and falls through to the
// engines ranked after it, skipping any that are not configured. An
// unknown preference (for example "say") skips synthesis entirely; the
// telephony engine then speaks the raw text. Returns nil if every
// attempt fails or nothing eligible is configured.
func (c *Cascade) Synthesize(ctx context.Context, text, preferred string) *Result {
	for _, p := range c.eligible(preferred) {
		audioURL, err := p.Synthesize(ctx, text)
		if err != nil {
			logrus.Warnf("TTS provider %s failed, falling through: %v", p.Name(), err)
			continue
		}
		return &Result{AudioURL: audioURL, Provider: p.Name()}
	}
	return nil
}

// eligible returns the configured providers ranked at or after the
// preferred engine. The preference never falls back to engines ranked
// before it.
func (c *Cascade) eligible(preferred string) []Provider {
	rank := providerRank(preferred)
	if rank < 0 {
		return nil
	}
	var out []Provider
	for _, p := range c.providers {
		if providerRank(p.Name()) >= rank {
			out = append(out, p)
		}
	}
	return out
}
