package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"medicine-calendar/internal/router"

	"github.com/jonboulle/clockwork"
)

func newTestServer(t *testing.T, startAt time.Time) (*httptest.Server, *clockwork.FakeClock) {
	t.Helper()

	clock := clockwork.NewFakeClockAt(startAt)
	app := router.New(router.Options{
		Grace:    5 * time.Minute,
		Location: time.UTC,
		Clock:    clock,
	})

	ts := httptest.NewServer(app.Handler)
	t.Cleanup(ts.Close)
	return ts, clock
}

func TestHTTP_EndToEnd_DueToggleAndSuppress(t *testing.T) {
	// 2025-03-10 08:02 UTC: dos minutos después de la toma de las 08:00
	ts, clock := newTestServer(t, time.Date(2025, 3, 10, 8, 2, 0, 0, time.UTC))

	medicineID := createMedicine(t, ts.URL, map[string]any{
		"name":      "Aspirin",
		"dosage":    "100mg",
		"takeTime":  "08:00",
		"startDate": "2025-03-01",
		"endDate":   "2025-03-31",
	})

	// 1) primer check: suena y lista la dosis
	{
		st, body := doJSON(t, ts.URL, "GET", "/notifications/check", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 check, got %d body=%s", st, string(body))
		}
		var resp struct {
			PlaySound     bool `json:"playSound"`
			Notifications []struct {
				MedicineName string `json:"medicineName"`
				Dosage       string `json:"dosage"`
				TakeTime     string `json:"takeTime"`
			} `json:"notifications"`
		}
		mustUnmarshal(t, body, &resp)
		if !resp.PlaySound || len(resp.Notifications) != 1 {
			t.Fatalf("expected one due notification, got %s", string(body))
		}
		n := resp.Notifications[0]
		if n.MedicineName != "Aspirin" || n.Dosage != "100mg" || n.TakeTime != "08:00" {
			t.Fatalf("unexpected notification payload: %+v", n)
		}
	}

	// 2) mismo ciclo repetido: ya anunciada, no vuelve a sonar
	{
		st, body := doJSON(t, ts.URL, "GET", "/notifications/check", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 check, got %d", st)
		}
		var resp struct {
			PlaySound bool `json:"playSound"`
		}
		mustUnmarshal(t, body, &resp)
		if resp.PlaySound {
			t.Fatalf("repeat cycle must not play sound: %s", string(body))
		}
	}

	// 3) toggle marca la toma
	{
		st, body := doForm(t, ts.URL, "/dose/toggle", url.Values{
			"medicineId": {medicineID},
			"date":       {"2025-03-10"},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 toggle, got %d body=%s", st, string(body))
		}
		var resp struct {
			Success bool `json:"success"`
			IsTaken bool `json:"isTaken"`
		}
		mustUnmarshal(t, body, &resp)
		if !resp.Success || !resp.IsTaken {
			t.Fatalf("expected success+taken, got %s", string(body))
		}
	}

	// 4) a las 08:04 ya no hay nada pendiente
	clock.Advance(2 * time.Minute)
	{
		st, body := doJSON(t, ts.URL, "GET", "/notifications/check", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 check, got %d", st)
		}
		var resp struct {
			PlaySound     bool  `json:"playSound"`
			Notifications []any `json:"notifications"`
		}
		mustUnmarshal(t, body, &resp)
		if resp.PlaySound || len(resp.Notifications) != 0 {
			t.Fatalf("taken dose must not notify: %s", string(body))
		}
	}

	// 5) destomar dentro de la ventana re-arma el aviso
	{
		st, body := doForm(t, ts.URL, "/dose/toggle", url.Values{
			"medicineId": {medicineID},
			"date":       {"2025-03-10"},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 untoggle, got %d body=%s", st, string(body))
		}
		st, body = doJSON(t, ts.URL, "GET", "/notifications/check", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 check, got %d", st)
		}
		var resp struct {
			PlaySound bool `json:"playSound"`
		}
		mustUnmarshal(t, body, &resp)
		if !resp.PlaySound {
			t.Fatalf("untaken dose inside its window must re-announce: %s", string(body))
		}
	}

	// 6) el calendario refleja el estado final (no tomada)
	{
		st, body := doJSON(t, ts.URL, "GET", "/calendar?year=2025&month=3", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 calendar, got %d", st)
		}
		var view struct {
			Days []struct {
				Date    string `json:"date"`
				Entries []struct {
					ID      string `json:"id"`
					Name    string `json:"name"`
					IsTaken bool   `json:"isTaken"`
				} `json:"entries"`
			} `json:"days"`
		}
		mustUnmarshal(t, body, &view)
		found := false
		for _, d := range view.Days {
			if d.Date != "2025-03-10" {
				continue
			}
			found = true
			if len(d.Entries) != 1 || d.Entries[0].Name != "Aspirin" || d.Entries[0].IsTaken {
				t.Fatalf("unexpected calendar day: %+v", d)
			}
		}
		if !found {
			t.Fatalf("calendar missing 2025-03-10")
		}
	}
}

func TestHTTP_Toggle_StructuredFailures(t *testing.T) {
	ts, _ := newTestServer(t, time.Date(2025, 3, 10, 8, 2, 0, 0, time.UTC))

	// medicamento inexistente => 404 success:false
	{
		st, body := doForm(t, ts.URL, "/dose/toggle", url.Values{
			"medicineId": {"ghost"},
			"date":       {"2025-03-10"},
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404, got %d body=%s", st, string(body))
		}
		assertFailure(t, body)
	}

	// fecha inválida => 400 success:false
	{
		medicineID := createMedicine(t, ts.URL, map[string]any{
			"name":      "Aspirin",
			"dosage":    "100mg",
			"takeTime":  "08:00",
			"startDate": "2025-03-01",
			"endDate":   "2025-03-31",
		})
		st, body := doForm(t, ts.URL, "/dose/toggle", url.Values{
			"medicineId": {medicineID},
			"date":       {"10/03/2025"},
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", st, string(body))
		}
		assertFailure(t, body)
	}

	// parámetros ausentes => 400 success:false
	{
		st, body := doForm(t, ts.URL, "/dose/toggle", url.Values{})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", st, string(body))
		}
		assertFailure(t, body)
	}
}

func TestHTTP_ManagePanel(t *testing.T) {
	ts, _ := newTestServer(t, time.Date(2025, 3, 10, 8, 2, 0, 0, time.UTC))

	medicineID := createMedicine(t, ts.URL, map[string]any{
		"name":      "Aspirin",
		"dosage":    "100mg",
		"takeTime":  "08:00",
		"startDate": "2025-03-01",
		"endDate":   "2025-03-31",
	})

	st, body := doJSON(t, ts.URL, "GET", "/dose/manage?date=2025-03-10&medicineId="+medicineID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 manage panel, got %d body=%s", st, string(body))
	}

	var resp struct {
		Date     string `json:"date"`
		Medicine *struct {
			ID string `json:"id"`
		} `json:"medicine"`
		MedicinesForDay []any `json:"medicinesForDay"`
	}
	mustUnmarshal(t, body, &resp)
	if resp.Date != "2025-03-10" || resp.Medicine == nil || resp.Medicine.ID != medicineID {
		t.Fatalf("unexpected panel: %s", string(body))
	}
	if len(resp.MedicinesForDay) != 1 {
		t.Fatalf("expected one medicine for the day, got %s", string(body))
	}
}

func createMedicine(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doJSON(t, baseURL, "POST", "/medicines", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create medicine, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	mustUnmarshal(t, body, &resp)
	if resp.ID == "" {
		t.Fatalf("create medicine: missing id body=%s", string(body))
	}
	return resp.ID
}

func doJSON(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func doForm(t *testing.T, baseURL, path string, form url.Values) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func mustUnmarshal(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("unmarshal %s: %v", string(body), err)
	}
}

func assertFailure(t *testing.T, body []byte) {
	t.Helper()
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	mustUnmarshal(t, body, &resp)
	if resp.Success || resp.Message == "" {
		t.Fatalf("expected structured failure, got %s", string(body))
	}
}
