package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medicine-calendar/internal/domain/medicines"
	"medicine-calendar/internal/domain/notifications"
)

func TestNotifier_Present_PostsBatch(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n, err := New(srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	err = n.Present(context.Background(), notifications.Batch{
		PlaySound: true,
		Items: []notifications.DueDose{{
			Medicine:      medicines.Medicine{ID: "m1", Name: "Aspirin", Dosage: "100mg"},
			Date:          "2025-03-10",
			ScheduledTime: "08:00",
		}},
	})
	if err != nil {
		t.Fatalf("Present error: %v", err)
	}

	if !got.PlaySound || len(got.Notifications) != 1 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	item := got.Notifications[0]
	if item.MedicineName != "Aspirin" || item.Dosage != "100mg" || item.TakeTime != "08:00" {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestNotifier_Present_ErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	n, err := New(srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if err := n.Present(context.Background(), notifications.Batch{PlaySound: true}); err == nil {
		t.Fatalf("expected error on 502")
	}
}

func TestNew_RejectsBadURL(t *testing.T) {
	if _, err := New("not a url", time.Second); err == nil {
		t.Fatalf("expected error for invalid url")
	}
}
