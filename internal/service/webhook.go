package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"staffchat/internal/config"
	"staffchat/internal/logger"
)

// WebhookFallback is returned whenever the external assistant cannot answer:
// unconfigured, unreachable, timed out, or replied with an unusable payload.
const WebhookFallback = "Sorry, I could not reach the assistant right now. Please try again."

// ChatWebhook proxies chat questions to an external automation endpoint.
type ChatWebhook struct {
	url        string
	authHeader string
	authValue  string
	client     *http.Client
}

func NewChatWebhook(cfg config.WebhookConfig) *ChatWebhook {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ChatWebhook{
		url:        cfg.URL,
		authHeader: cfg.AuthHeader,
		authValue:  cfg.AuthValue,
		client:     &http.Client{Timeout: timeout},
	}
}

func (w *ChatWebhook) Configured() bool { return w.url != "" }

// Ask posts the question and coerces whatever comes back into one string.
// Every failure degrades to the fallback text; the chat caller never sees a
// hard error from here.
func (w *ChatWebhook) Ask(ctx context.Context, user, conversationID, question string) string {
	if !w.Configured() {
		return WebhookFallback
	}

	payload, _ := json.Marshal(map[string]string{
		"user":            user,
		"conversation_id": conversationID,
		"question":        question,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		logger.Error("webhook: build request", "err", err)
		return WebhookFallback
	}
	req.Header.Set("Content-Type", "application/json")
	if w.authHeader != "" {
		req.Header.Set(w.authHeader, w.authValue)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		logger.Warn("webhook: call failed", "err", err)
		return WebhookFallback
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || resp.StatusCode >= 400 {
		logger.Warn("webhook: bad response", "status", resp.StatusCode, "err", err)
		return WebhookFallback
	}

	if answer, ok := coerceReply(body); ok {
		return answer
	}
	logger.Warn("webhook: unparseable reply", "body", fmt.Sprintf("%.200s", body))
	return WebhookFallback
}

// coerceReply walks an ordered fallback chain over the known reply shapes:
//  1. plain string (raw text or a JSON-encoded string)
//  2. flat object with one of the well-known answer keys
//  3. object nested under "data"/"output"/"json"
//  4. chat-completion style {"choices":[{"message":{"content":...}}]}
//  5. array whose first element matches any of the above
func coerceReply(body []byte) (string, bool) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		if s := strings.TrimSpace(string(body)); s != "" {
			return s, true
		}
		return "", false
	}
	return coerceValue(v)
}

var replyKeys = []string{"answer", "text", "content", "message", "result", "response"}

func coerceValue(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return s, true
		}
	case map[string]any:
		for _, key := range replyKeys {
			if inner, ok := val[key]; ok {
				if s, ok := coerceValue(inner); ok {
					return s, true
				}
			}
		}
		for _, key := range []string{"data", "output", "json"} {
			if inner, ok := val[key]; ok {
				if s, ok := coerceValue(inner); ok {
					return s, true
				}
			}
		}
		if choices, ok := val["choices"].([]any); ok && len(choices) > 0 {
			if choice, ok := choices[0].(map[string]any); ok {
				if msg, ok := choice["message"]; ok {
					if s, ok := coerceValue(msg); ok {
						return s, true
					}
				}
			}
		}
	case []any:
		if len(val) > 0 {
			return coerceValue(val[0])
		}
	}
	return "", false
}
