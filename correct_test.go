package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNopCorrector(t *testing.T) {
	lines := []LyricEvent{{Time: 1.0, Text: "hello"}}
	out := NopCorrector{}.Correct(context.Background(), lines)
	assertLines(t, out, lines)
}

func TestChatCorrectorWithoutAPIKey(t *testing.T) {
	lines := []LyricEvent{{Time: 1.0, Text: "hello"}}
	corrector := &ChatCorrector{Model: "test-model", Log: testLogger()}

	out := corrector.Correct(context.Background(), lines)
	assertLines(t, out, lines)
}

func TestChatCorrectorAppliesCorrection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("unexpected model %q", req.Model)
		}
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "hel") {
			t.Errorf("unexpected messages %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[\"Hello \",\"World\"]"}}]}`))
	}))
	defer server.Close()

	corrector := &ChatCorrector{
		APIKey:   "test-key",
		Model:    "test-model",
		Endpoint: server.URL,
		Client:   server.Client(),
		Log:      testLogger(),
	}

	lines := []LyricEvent{
		{Time: 1.0, Text: "hel lo "},
		{Time: 2.0, Text: "world"},
	}
	out := corrector.Correct(context.Background(), lines)

	want := []LyricEvent{
		{Time: 1.0, Text: "Hello "}, // corrected text, original timestamp
		{Time: 2.0, Text: "World"},
	}
	assertLines(t, out, want)
}

func TestChatCorrectorFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	corrector := &ChatCorrector{
		APIKey:   "test-key",
		Model:    "test-model",
		Endpoint: server.URL,
		Client:   server.Client(),
		Log:      testLogger(),
	}

	lines := []LyricEvent{{Time: 1.0, Text: "hello"}}
	out := corrector.Correct(context.Background(), lines)
	assertLines(t, out, lines)
}

func TestChatCorrectorFallsBackOnLengthMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[\"only one\"]"}}]}`))
	}))
	defer server.Close()

	corrector := &ChatCorrector{
		APIKey:   "test-key",
		Model:    "test-model",
		Endpoint: server.URL,
		Client:   server.Client(),
		Log:      testLogger(),
	}

	lines := []LyricEvent{
		{Time: 1.0, Text: "hello"},
		{Time: 2.0, Text: "world"},
	}
	out := corrector.Correct(context.Background(), lines)
	assertLines(t, out, lines)
}

func TestChatCorrectorFallsBackOnMalformedReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"sorry, here are the lyrics:"}}]}`))
	}))
	defer server.Close()

	corrector := &ChatCorrector{
		APIKey:   "test-key",
		Model:    "test-model",
		Endpoint: server.URL,
		Client:   server.Client(),
		Log:      testLogger(),
	}

	lines := []LyricEvent{{Time: 1.0, Text: "hello"}}
	out := corrector.Correct(context.Background(), lines)
	assertLines(t, out, lines)
}
