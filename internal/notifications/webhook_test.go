package notifications

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSend_NoWebhook(t *testing.T) {
	s := NewSender("", "TestPipeline", testLogger())
	if s.Enabled() {
		t.Fatal("should not be enabled with empty URL")
	}
	// logs only, no error
	s.Send(context.Background(), "collection finished")
}

func TestSend_SlackFormat(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSender(srv.URL, "TestPipeline", testLogger())
	if !s.Enabled() {
		t.Fatal("should be enabled")
	}

	s.Send(context.Background(), "stored 60 price bars for 3 symbols")

	if received["username"] != "TestPipeline" {
		t.Fatalf("username: got %s", received["username"])
	}
	if received["text"] == "" {
		t.Fatal("text should not be empty")
	}
	t.Logf("Slack payload: %+v", received)
}

func TestSend_DiscordFormat(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// URL containing "discord" switches the payload shape
	s := NewSender(srv.URL+"/discord/webhook", "Pipeline", testLogger())
	s.Send(context.Background(), "news collection: 12 stored")

	if received["content"] == "" {
		t.Fatal("content should not be empty for Discord")
	}
	if _, hasText := received["text"]; hasText {
		t.Fatal("Discord payload should not have 'text' field")
	}
}

func TestSend_WebhookError(t *testing.T) {
	s := NewSender("http://localhost:1/bogus", "TestPipeline", testLogger())
	// must not panic or propagate
	s.Send(context.Background(), "this fails gracefully")
}

func TestDefaultName(t *testing.T) {
	s := NewSender("", "", testLogger())
	if s.name != "MarketPipeline" {
		t.Fatalf("expected default name, got %s", s.name)
	}
}
