package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSendPostsPayload(t *testing.T) {
	var got sendRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(sendResponse{Success: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-123", "reports@plant.com", 5*time.Second)
	err := c.Send(context.Background(), []string{"ops@plant.com"}, "Delays", "<h1>Hi</h1>")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if gotAuth != "Bearer key-123" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
	if got.From != "reports@plant.com" || got.Subject != "Delays" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if len(got.Recipients) != 1 || got.Recipients[0] != "ops@plant.com" {
		t.Fatalf("unexpected recipients: %v", got.Recipients)
	}
}

func TestSendRelayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sendResponse{Success: false, Error: "quota exceeded"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "", 5*time.Second)
	err := c.Send(context.Background(), []string{"ops@plant.com"}, "Delays", "<p>x</p>")
	if err == nil {
		t.Fatal("expected error on relay rejection")
	}
}

func TestSendNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "", 5*time.Second)
	if err := c.Send(context.Background(), []string{"ops@plant.com"}, "x", "y"); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestSendNoRecipients(t *testing.T) {
	c := NewClient("http://localhost:0", "", "", time.Second)
	if err := c.Send(context.Background(), nil, "x", "y"); err == nil {
		t.Fatal("expected error with no recipients")
	}
}
