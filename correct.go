package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// TextCorrector post-processes the grouped lyric lines. Implementations
// return one text per input line, in order, with the timestamps untouched.
// Correction is cosmetic: on any failure the input is returned unchanged,
// so a corrector can never fail the conversion.
type TextCorrector interface {
	Correct(ctx context.Context, lines []LyricEvent) []LyricEvent
}

// NopCorrector leaves the lines exactly as extracted.
type NopCorrector struct{}

func (NopCorrector) Correct(_ context.Context, lines []LyricEvent) []LyricEvent {
	return lines
}

const defaultChatEndpoint = "https://api.openai.com/v1/chat/completions"

const correctionPrompt = "The following JSON maps line numbers to fragments of karaoke lyrics " +
	"reconstructed from a MIDI file. Fix word boundaries, casing and obvious " +
	"spelling mistakes without adding or removing lines. Reply with a JSON " +
	"array of the corrected lines, same order, same length, and nothing else."

// ChatCorrector fixes casing and spelling of the reconstructed lines
// through an OpenAI-style chat-completions endpoint. Every failure path
// logs a warning and falls back to the uncorrected lines.
type ChatCorrector struct {
	APIKey   string
	Model    string
	Endpoint string // defaults to the OpenAI API when empty
	Client   *http.Client
	Log      *logrus.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Correct sends the indexed lines to the model and swaps in the corrected
// texts, keeping every timestamp as-is.
func (c *ChatCorrector) Correct(ctx context.Context, lines []LyricEvent) []LyricEvent {
	if len(lines) == 0 {
		return lines
	}
	if c.APIKey == "" {
		c.warnf("no API key configured, skipping text correction")
		return lines
	}

	corrected, err := c.request(ctx, lines)
	if err != nil {
		c.warnf("text correction failed, keeping uncorrected lines: %v", err)
		return lines
	}

	out := make([]LyricEvent, len(lines))
	for i := range lines {
		out[i] = LyricEvent{Time: lines[i].Time, Text: corrected[i]}
	}
	return out
}

func (c *ChatCorrector) request(ctx context.Context, lines []LyricEvent) ([]string, error) {
	type indexedLine struct {
		Time string `json:"time"`
		Text string `json:"text"`
	}
	indexed := make(map[string]indexedLine, len(lines))
	for i, line := range lines {
		indexed[strconv.Itoa(i)] = indexedLine{
			Time: FormatLRCTime(line.Time),
			Text: line.Text,
		}
	}

	payload, err := json.Marshal(indexed)
	if err != nil {
		return nil, fmt.Errorf("encoding lines: %w", err)
	}

	reqBody, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: correctionPrompt},
			{Role: "user", Content: string(payload)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = defaultChatEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("correction endpoint returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("malformed correction response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("correction response contains no choices")
	}

	var corrected []string
	if err := json.Unmarshal([]byte(parsed.Choices[0].Message.Content), &corrected); err != nil {
		return nil, fmt.Errorf("correction reply is not a JSON array: %w", err)
	}
	if len(corrected) != len(lines) {
		return nil, fmt.Errorf("correction reply has %d lines, want %d", len(corrected), len(lines))
	}
	return corrected, nil
}

func (c *ChatCorrector) warnf(format string, args ...any) {
	if c.Log != nil {
		c.Log.Warnf(format, args...)
	}
}
