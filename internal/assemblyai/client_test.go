package assemblyai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{
		APIKey: "test-key",
		APIURL: server.URL + "/",
	})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	config := &Config{
		APIKey:  "test-key",
		APIURL:  "https://api.example.com/v2/",
		Timeout: 30 * time.Second,
	}

	client, err := NewClient(config)
	require.NoError(t, err)
	assert.Equal(t, config, client.config)
	assert.Equal(t, "https://api.example.com/v2", client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)

	_, err = NewClient(&Config{APIURL: "https://api.example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestUpload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, "media bytes", string(body))

		_, _ = w.Write([]byte(`{"upload_url": "https://cdn.example.com/u1"}`))
	})

	uploadURL, err := client.Upload(context.Background(), strings.NewReader("media bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/u1", uploadURL)
}

func TestUpload_MissingURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Upload(context.Background(), strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload_url")
}

func TestSubmit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transcript", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{
			"audio_url":      "https://x/u1",
			"language_code":  "ru",
			"speaker_labels": true,
		}, body)

		_, _ = w.Write([]byte(`{"id": "job1", "status": "queued"}`))
	})

	id, err := client.Submit(context.Background(), TranscriptRequest{
		AudioURL:      "https://x/u1",
		LanguageCode:  "ru",
		SpeakerLabels: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "job1", id)
}

func TestTranscript_Completed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transcript/job1", r.URL.Path)

		_, _ = w.Write([]byte(`{
			"id": "job1",
			"status": "completed",
			"text": "Hello world",
			"utterances": [
				{"speaker": "A", "text": "Hi", "start": 5000, "end": 6000, "confidence": 0.9},
				{"speaker": "B", "text": "Hello", "start": 65000, "end": 66000}
			]
		}`))
	})

	transcript, err := client.Transcript(context.Background(), "job1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, transcript.Status)
	assert.Equal(t, "Hello world", transcript.Text)
	require.Len(t, transcript.Utterances, 2)
	assert.Equal(t, Utterance{Speaker: "A", Text: "Hi", Start: 5000, End: 6000, Confidence: 0.9}, transcript.Utterances[0])
	assert.Equal(t, int64(65000), transcript.Utterances[1].Start)
}

func TestTranscript_MissingStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "job1"}`))
	})

	_, err := client.Transcript(context.Background(), "job1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no status")
}

func TestClientErrorHandling(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "Authentication error, API token missing/invalid"}`))
	})

	_, err := client.Submit(context.Background(), TranscriptRequest{AudioURL: "https://x/u1"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Authentication error, API token missing/invalid", apiErr.Message)
	assert.Contains(t, err.Error(), "401")
}

func TestClientErrorHandling_PlainBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := client.Transcript(context.Background(), "job1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := NewClient(&Config{APIKey: "k", APIURL: server.URL})
	require.NoError(t, err)

	_, err = client.Upload(context.Background(), strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to make request")
}

func TestClient_InvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.Transcript(context.Background(), "job1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusQueued.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusError.IsTerminal())
}
