package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MigsBroedel/tradingAI/internal/httputil"
)

// Sender posts run summaries to a Slack or Discord webhook. With no
// URL configured it logs the message and does nothing else.
type Sender struct {
	webhookURL string
	name       string
	httpClient *http.Client
	retrier    *httputil.Retrier
	log        logrus.FieldLogger
}

func NewSender(webhookURL, name string, log logrus.FieldLogger) *Sender {
	if name == "" {
		name = "MarketPipeline"
	}
	return &Sender{
		webhookURL: webhookURL,
		name:       name,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retrier: httputil.NewRetrier(httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
		}, log),
		log: log,
	}
}

func (s *Sender) Enabled() bool {
	return s.webhookURL != ""
}

// Send posts the message, retrying transient failures. Delivery
// failures are logged, never returned: a lost notification must not
// fail a collection run.
func (s *Sender) Send(ctx context.Context, msg string) {
	formatted := fmt.Sprintf("[%s] %s", s.name, msg)
	s.log.Info(formatted)

	if s.webhookURL == "" {
		return
	}

	body, err := json.Marshal(s.formatPayload(formatted))
	if err != nil {
		s.log.WithError(err).Error("marshal webhook payload")
		return
	}

	err = s.retrier.Execute(ctx, "send webhook", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return fmt.Errorf("webhook status %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).Error("failed to deliver notification")
	}
}

func (s *Sender) formatPayload(msg string) map[string]string {
	if strings.Contains(s.webhookURL, "discord") {
		return map[string]string{
			"content":  msg,
			"username": s.name,
		}
	}
	return map[string]string{
		"text":     fmt.Sprintf("`%s`", msg),
		"username": s.name,
	}
}
