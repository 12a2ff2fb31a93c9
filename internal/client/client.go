// Package client talks to the flashcard backend over its JSON REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/verte-zerg/studybuddy/internal/model"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Client is a thin JSON client for the backend routes.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for baseURL. A non-empty token is sent as a bearer
// credential on every request.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchCards returns the cards of a deck, or every card when deckID is nil.
func (c *Client) FetchCards(ctx context.Context, deckID *int64) ([]model.Card, error) {
	path := "/api/cards"
	if deckID != nil {
		path = fmt.Sprintf("/api/flashcard-decks/%d/cards", *deckID)
	}
	var cards []model.Card
	if err := c.do(ctx, "fetch cards", http.MethodGet, path, nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// ListDecks returns the decks visible to the user.
func (c *Client) ListDecks(ctx context.Context) ([]model.DeckInfo, error) {
	var decks []model.DeckInfo
	if err := c.do(ctx, "list decks", http.MethodGet, "/api/flashcard-decks", nil, &decks); err != nil {
		return nil, err
	}
	return decks, nil
}

// SaveProgress posts the session counters.
func (c *Client) SaveProgress(ctx context.Context, report model.ProgressReport) error {
	return c.do(ctx, "save progress", http.MethodPost, "/api/progress", report, nil)
}

type cardStudyRequest struct {
	IsCorrect bool `json:"is_correct"`
}

// RecordCardStudy posts a per-card judgement.
func (c *Client) RecordCardStudy(ctx context.Context, cardID int64, correct bool) error {
	path := fmt.Sprintf("/api/flashcards/%d/study", cardID)
	return c.do(ctx, "record card study", http.MethodPost, path, cardStudyRequest{IsCorrect: correct}, nil)
}

type chatRequest struct {
	Message string `json:"message"`
}

// SendChat sends a message to the study assistant.
func (c *Client) SendChat(ctx context.Context, message string) (model.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.ChatReply{}, ErrEmptyMessage
	}
	var reply model.ChatReply
	if err := c.do(ctx, "send chat", http.MethodPost, "/api/chat", chatRequest{Message: message}, &reply); err != nil {
		return model.ChatReply{}, err
	}
	return reply, nil
}

// ChatHistory returns stored exchanges, oldest first.
func (c *Client) ChatHistory(ctx context.Context) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	if err := c.do(ctx, "chat history", http.MethodGet, "/api/chat/history", nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// ChatStatus reports assistant availability.
func (c *Client) ChatStatus(ctx context.Context) (model.AIStatus, error) {
	var status model.AIStatus
	if err := c.do(ctx, "chat status", http.MethodGet, "/api/chat/status", nil, &status); err != nil {
		return model.AIStatus{}, err
	}
	return status, nil
}

type questionRequest struct {
	Topic string `json:"topic"`
}

// GenerateQuestion asks for a practice question on topic.
func (c *Client) GenerateQuestion(ctx context.Context, topic string) (model.PracticeQuestion, error) {
	if strings.TrimSpace(topic) == "" {
		topic = "general"
	}
	var q model.PracticeQuestion
	if err := c.do(ctx, "generate question", http.MethodPost, "/api/chat/generate-question", questionRequest{Topic: topic}, &q); err != nil {
		return model.PracticeQuestion{}, err
	}
	return q, nil
}

// ClearChat drops the assistant conversation.
func (c *Client) ClearChat(ctx context.Context) error {
	return c.do(ctx, "clear chat", http.MethodPost, "/api/clear", struct{}{}, nil)
}

// UserStats returns the backend study summary for the user.
func (c *Client) UserStats(ctx context.Context) (model.UserStats, error) {
	var stats model.UserStats
	if err := c.do(ctx, "user stats", http.MethodGet, "/api/user/stats", nil, &stats); err != nil {
		return model.UserStats{}, err
	}
	return stats, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return &TransportError{Op: op, Wrapped: err}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &TransportError{Op: op, Wrapped: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: op, Status: resp.StatusCode, Wrapped: readAPIError(resp.Body)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Wrapped: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

type apiError struct {
	Error string `json:"error"`
}

// readAPIError extracts the {"error": "..."} body the backend uses for
// failures, if any.
func readAPIError(r io.Reader) error {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return nil
	}
	var payload apiError
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return errors.New(payload.Error)
	}
	return nil
}
