package enhancer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vzahanych/climate-outlook/internal/config"
	"github.com/vzahanych/climate-outlook/pkg/telemetry"
)

func completion(content string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "test-model",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"finish_reason": "stop",
				"logprobs":      nil,
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
					"refusal": nil,
				},
			},
		},
		"usage": map[string]interface{}{
			"prompt_tokens":     10,
			"completion_tokens": 20,
			"total_tokens":      30,
		},
	})
	return body
}

func newTestEnhancer(t *testing.T, url string) *OpenAIEnhancer {
	t.Helper()
	e, err := NewOpenAIEnhancer(config.EnhancementConfig{
		Enabled: true,
		BaseURL: url + "/",
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 5,
	}, zaptest.NewLogger(t), &telemetry.Telemetry{})
	require.NoError(t, err)
	return e
}

func TestNewOpenAIEnhancer_RequiresKey(t *testing.T) {
	_, err := NewOpenAIEnhancer(config.EnhancementConfig{Model: "m"}, zaptest.NewLogger(t), &telemetry.Telemetry{})
	assert.Error(t, err)
}

func TestOpenAIEnhancer_Enhance(t *testing.T) {
	var captured atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		captured.Store(body)

		w.Header().Set("Content-Type", "application/json")
		w.Write(completion(validReply))
	}))
	defer srv.Close()

	e := newTestEnhancer(t, srv.URL)

	report, err := e.Enhance(context.Background(), testSummary(30), "Outdoor Picnic", "Family picnic")
	require.NoError(t, err)

	assert.Equal(t, 87, report.SuitabilityScore)
	assert.Equal(t, HighConfidence, report.ConfidenceRating)
	assert.Equal(t, 15.7, *report.WeatherConditions.Precipitation.Max)

	var req struct {
		Model          string `json:"model"`
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name   string `json:"name"`
				Strict bool   `json:"strict"`
			} `json:"json_schema"`
		} `json:"response_format"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(captured.Load().([]byte), &req))

	assert.Equal(t, "test-model", req.Model)
	assert.Equal(t, "json_schema", req.ResponseFormat.Type)
	assert.Equal(t, "weather_analysis_result", req.ResponseFormat.JSONSchema.Name)
	assert.True(t, req.ResponseFormat.JSONSchema.Strict)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, `"user_activity": "Outdoor Picnic"`)
}

func TestOpenAIEnhancer_MalformedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(completion("Sure! Here is the JSON you asked for."))
	}))
	defer srv.Close()

	_, err := newTestEnhancer(t, srv.URL).Enhance(context.Background(), testSummary(30), "hike", "")
	assert.ErrorIs(t, err, ErrEnhancement)
}

func TestOpenAIEnhancer_ServerErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	_, err := newTestEnhancer(t, srv.URL).Enhance(context.Background(), testSummary(30), "hike", "")
	assert.ErrorIs(t, err, ErrEnhancement)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIEnhancer_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestEnhancer(t, srv.URL).Enhance(ctx, testSummary(30), "hike", "")
	assert.ErrorIs(t, err, ErrEnhancement)
}
