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
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	pollytypes "github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/insuredesk/insuredesk/config"
	"github.com/insuredesk/insuredesk/internal/storage"
)

const ProviderPolly = "polly"

// PollyProvider renders speech with Amazon Polly and hosts the audio in S3.
type PollyProvider struct {
	polly *polly.Client
	store *storage.S3Store
	voice string
}

func NewPollyProvider(conf *config.AwsConfig, store *storage.S3Store) (*PollyProvider, error) {
	if conf.AccessKeyId == "" || conf.SecretAccessKey == "" {
		return nil, errors.New("AWS credentials are not configured")
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(conf.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKeyId, conf.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS configuration")
	}

	return &PollyProvider{
		polly: polly.NewFromConfig(cfg),
		store: store,
		voice: conf.PollyVoice,
	}, nil
}

func (p *PollyProvider) Name() string {
	return ProviderPolly
}

func (p *PollyProvider) Synthesize(ctx context.Context, text string) (string, error) {
	out, err := p.polly.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(text),
		OutputFormat: pollytypes.OutputFormatMp3,
		VoiceId:      pollytypes.VoiceId(p.voice),
	})
	if err != nil {
		return "", errors.Wrap(err, "polly synthesis failed")
	}
	defer out.AudioStream.Close()

	audio, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return "", errors.Wrap(err, "failed to read polly audio stream")
	}

	key := fmt.Sprintf("tts_%s.mp3", uuid.New().String())
	return p.store.UploadPublic(ctx, key, audio, "audio/mpeg")
}
