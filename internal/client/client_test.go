package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/verte-zerg/studybuddy/internal/model"
)

func TestFetchCardsRoutes(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_ = json.NewEncoder(w).Encode([]model.Card{{ID: 3, Question: "q", Answer: "a"}})
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	deckID := int64(7)
	if _, err := c.FetchCards(context.Background(), &deckID); err != nil {
		t.Fatalf("fetch deck cards: %v", err)
	}
	cards, err := c.FetchCards(context.Background(), nil)
	if err != nil {
		t.Fatalf("fetch all cards: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != 3 {
		t.Fatalf("unexpected cards %+v", cards)
	}
	if len(paths) != 2 || paths[0] != "/api/flashcard-decks/7/cards" || paths[1] != "/api/cards" {
		t.Fatalf("unexpected paths %v", paths)
	}
}

func TestCardDeckIDDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"question":"q","answer":"a","deck_id":4},{"id":2,"question":"q2","answer":"a2"}]`))
	}))
	defer srv.Close()

	cards, err := New(srv.URL, "", time.Second).FetchCards(context.Background(), nil)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !cards[0].HasDeck() || *cards[0].DeckID != 4 {
		t.Fatalf("expected deck id on first card: %+v", cards[0])
	}
	if cards[1].HasDeck() {
		t.Fatalf("second card should have no deck")
	}
}

func TestSaveProgressPayload(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/progress" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", time.Second)
	err := c.SaveProgress(context.Background(), model.ProgressReport{Correct: 2, Incorrect: 1, Total: 3, DurationMs: 4200})
	if err != nil {
		t.Fatalf("save progress: %v", err)
	}
	if got["correct"] != float64(2) || got["incorrect"] != float64(1) || got["total"] != float64(3) || got["duration_ms"] != float64(4200) {
		t.Fatalf("unexpected payload %v", got)
	}
	if auth != "Bearer secret" {
		t.Fatalf("unexpected auth header %q", auth)
	}
}

func TestRecordCardStudyPayload(t *testing.T) {
	var path string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
	}))
	defer srv.Close()

	if err := New(srv.URL, "", time.Second).RecordCardStudy(context.Background(), 12, false); err != nil {
		t.Fatalf("record: %v", err)
	}
	if path != "/api/flashcards/12/study" {
		t.Fatalf("unexpected path %q", path)
	}
	if v, ok := body["is_correct"]; !ok || v != false {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestNon2xxIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Message cannot be empty"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", time.Second).ChatStatus(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Status != http.StatusBadRequest || te.Unreachable() {
		t.Fatalf("unexpected error %+v", te)
	}
	if te.Wrapped == nil || te.Wrapped.Error() != "Message cannot be empty" {
		t.Fatalf("expected backend message to be wrapped, got %v", te.Wrapped)
	}
}

func TestUnreachableIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := New(addr, "", time.Second).FetchCards(context.Background(), nil)
	var te *TransportError
	if !errors.As(err, &te) || !te.Unreachable() {
		t.Fatalf("expected unreachable TransportError, got %v", err)
	}
	if !IsTransport(err) {
		t.Fatalf("IsTransport should match")
	}
}

func TestSendChatRejectsEmptyMessage(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", time.Second).SendChat(context.Background(), "   ")
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if called {
		t.Fatalf("empty message should not reach the server")
	}
}

func TestChatRoutes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(model.ChatReply{Response: "echo " + req.Message, Type: "ai"})
	})
	mux.HandleFunc("/api/chat/history", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.ChatMessage{{ID: 1, Message: "hi", Response: "hello"}})
	})
	mux.HandleFunc("/api/chat/status", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ai_available":true,"ai_type":"ollama"}`))
	})
	mux.HandleFunc("/api/chat/generate-question", func(w http.ResponseWriter, r *http.Request) {
		var req questionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(model.PracticeQuestion{Question: "What is Go?", Topic: req.Topic})
	})
	mux.HandleFunc("/api/clear", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"cleared"}`))
	})
	mux.HandleFunc("/api/user/stats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_sessions":4,"cards_studied":30,"accuracy":82.5,"streak":3}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	c := New(srv.URL+"/", "", time.Second)

	reply, err := c.SendChat(ctx, " hi ")
	if err != nil || reply.Response != "echo hi" {
		t.Fatalf("send chat: %+v %v", reply, err)
	}
	history, err := c.ChatHistory(ctx)
	if err != nil || len(history) != 1 || history[0].Response != "hello" {
		t.Fatalf("history: %+v %v", history, err)
	}
	status, err := c.ChatStatus(ctx)
	if err != nil || !status.AIAvailable || status.AIType != "ollama" {
		t.Fatalf("status: %+v %v", status, err)
	}
	q, err := c.GenerateQuestion(ctx, "")
	if err != nil || q.Topic != "general" {
		t.Fatalf("generate question: %+v %v", q, err)
	}
	if err := c.ClearChat(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	stats, err := c.UserStats(ctx)
	if err != nil || stats.Streak != 3 || stats.CardsStudied != 30 || stats.Accuracy != 82.5 {
		t.Fatalf("user stats: %+v %v", stats, err)
	}
}
