// Copyright 2024 World Journey AI Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package genai

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	calls        int
	temperatures []float32
	responses    []func() (openai.ChatCompletionResponse, error)
}

func (f *fakeAPI) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.temperatures = append(f.temperatures, req.Temperature)
	idx := f.calls
	f.calls++
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx]()
}

func okResponse(content string) func() (openai.ChatCompletionResponse, error) {
	return func() (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: content}},
			},
		}, nil
	}
}

func serverError() func() (openai.ChatCompletionResponse, error) {
	return func() (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, &openai.APIError{
			HTTPStatusCode: http.StatusServiceUnavailable,
			Message:        "overloaded",
		}
	}
}

func testMessages() []openai.ChatCompletionMessage {
	return BuildMessages("[RECOMMENDATION] อัมพวา", "th", "recommendation", nil)
}

func TestGenerate_Success(t *testing.T) {
	api := &fakeAPI{responses: []func() (openai.ChatCompletionResponse, error){okResponse("คำตอบ")}}
	client := &Client{api: api, logger: zap.NewNop(), baseDelay: time.Millisecond}

	content, err := client.Generate(context.Background(), testMessages(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "คำตอบ", content)
	assert.Equal(t, 1, api.calls)
}

func TestGenerate_RetriesServerErrors(t *testing.T) {
	api := &fakeAPI{responses: []func() (openai.ChatCompletionResponse, error){
		serverError(),
		okResponse("recovered"),
	}}
	client := &Client{api: api, logger: zap.NewNop(), baseDelay: time.Millisecond}

	content, err := client.Generate(context.Background(), testMessages(), Options{Timeout: DefaultTimeout})
	require.NoError(t, err)
	assert.Equal(t, "recovered", content)
	assert.Equal(t, 2, api.calls)
}

func TestGenerate_TemperatureVariesPerAttempt(t *testing.T) {
	api := &fakeAPI{responses: []func() (openai.ChatCompletionResponse, error){
		serverError(),
		serverError(),
		okResponse("third time"),
	}}
	client := &Client{api: api, logger: zap.NewNop(), baseDelay: time.Millisecond}

	_, err := client.Generate(context.Background(), testMessages(), Options{Temperature: 0.7})
	require.NoError(t, err)
	require.Len(t, api.temperatures, 3)
	assert.NotEqual(t, api.temperatures[0], api.temperatures[1])
	assert.NotEqual(t, api.temperatures[1], api.temperatures[2])
}

func TestGenerate_ExhaustedRetries(t *testing.T) {
	api := &fakeAPI{responses: []func() (openai.ChatCompletionResponse, error){serverError()}}
	client := &Client{api: api, logger: zap.NewNop(), baseDelay: time.Millisecond}

	_, err := client.Generate(context.Background(), testMessages(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exhausted all retry attempts")
	assert.Equal(t, MaxAttempts, api.calls)
}

func TestGenerate_NonRetryableStopsImmediately(t *testing.T) {
	api := &fakeAPI{responses: []func() (openai.ChatCompletionResponse, error){
		func() (openai.ChatCompletionResponse, error) {
			return openai.ChatCompletionResponse{}, &openai.APIError{
				HTTPStatusCode: http.StatusBadRequest,
				Message:        "bad request",
			}
		},
	}}
	client := &Client{api: api, logger: zap.NewNop(), baseDelay: time.Millisecond}

	_, err := client.Generate(context.Background(), testMessages(), Options{})
	require.Error(t, err)
	assert.Equal(t, 1, api.calls)
}

func TestGenerate_EmptyBodyIsRetried(t *testing.T) {
	api := &fakeAPI{responses: []func() (openai.ChatCompletionResponse, error){
		okResponse("   "),
		okResponse("real answer"),
	}}
	client := &Client{api: api, logger: zap.NewNop(), baseDelay: time.Millisecond}

	content, err := client.Generate(context.Background(), testMessages(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "real answer", content)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient("", zap.NewNop())
	assert.Error(t, err)

	_, err = NewClient("not-a-key", zap.NewNop())
	assert.Error(t, err)

	client, err := NewClient("sk-test", zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, client)
}
