package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTelegramClient_Send(t *testing.T) {
	t.Run("nil_client", func(t *testing.T) {
		var c *TelegramClient
		err := c.Send(context.Background(), "msg")
		if err == nil || err.Error() != "telegram client is nil" {
			t.Errorf("expected nil client error, got %v", err)
		}
	})

	t.Run("missing_config", func(t *testing.T) {
		c := NewTelegramClient("", 0)
		err := c.Send(context.Background(), "msg")
		if err == nil || err.Error() != "telegram token or chat_id missing" {
			t.Error("expected missing config error")
		}
	})

	t.Run("success", func(t *testing.T) {
		var gotPath string
		var gotBody map[string]interface{}
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer ts.Close()

		c := NewTelegramClient("tok", 123)
		c.baseURL = ts.URL
		if err := c.Send(context.Background(), "<b>EURUSD</b> alert"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasSuffix(gotPath, "/bottok/sendMessage") {
			t.Errorf("unexpected path: %s", gotPath)
		}
		if gotBody["parse_mode"] != "HTML" {
			t.Errorf("expected HTML parse mode, got %v", gotBody["parse_mode"])
		}
		if gotBody["chat_id"] != float64(123) {
			t.Errorf("expected chat_id 123, got %v", gotBody["chat_id"])
		}
	})

	t.Run("non_2xx_is_error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"ok":false}`, http.StatusBadRequest)
		}))
		defer ts.Close()

		c := NewTelegramClient("tok", 123)
		c.baseURL = ts.URL
		if err := c.Send(context.Background(), "msg"); err == nil {
			t.Error("expected error on 400 response")
		}
	})
}
