package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"medication-tracker/internal/router"
)

func TestHTTP_EndToEnd_MedicationRefillCycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	userID := "user-1"
	otherID := "user-2"

	// 1) Usuario registra un medicamento con stock bajo
	medID := createMedication(t, ts.URL, userID, map[string]any{
		"name":                "Metformina",
		"dosage":              "500mg",
		"frequency":           "Twice daily",
		"current_stock":       10,
		"refills_remaining":   2,
		"prescription_number": "RX-1001",
		"pharmacy":            "Farmacia Central",
	})

	// 2) Dos time slots (mañana y noche)
	for _, slot := range []string{"08:00", "20:00"} {
		st, body := doReq(t, ts.URL, "POST", "/medications/"+medID+"/slots", userID, map[string]any{
			"time_slot": slot,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 add slot %s, got %d body=%s", slot, st, string(body))
		}
	}

	// 3) Otro usuario NO ve el medicamento (404, nunca 403)
	{
		st, _ := doReq(t, ts.URL, "GET", "/medications/"+medID, otherID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for foreign medication, got %d", st)
		}
	}

	// 4) GET /refills proyecta: 10 unidades a 2 dosis/día => 5 días, medium
	var refillID string
	{
		st, body := doReq(t, ts.URL, "GET", "/refills", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list refills, got %d body=%s", st, string(body))
		}

		var refills []struct {
			ID       string `json:"id"`
			DaysLeft int    `json:"days_left"`
			Priority string `json:"priority"`
			Status   string `json:"status"`
		}
		_ = json.Unmarshal(body, &refills)
		if len(refills) != 1 {
			t.Fatalf("expected 1 projected refill, got %d body=%s", len(refills), string(body))
		}
		if refills[0].DaysLeft != 5 || refills[0].Priority != "medium" || refills[0].Status != "pending" {
			t.Fatalf("unexpected refill: %+v", refills[0])
		}
		refillID = refills[0].ID
	}

	// 5) Registrar dosis tomada: stock 10 -> 9
	{
		st, body := doReq(t, ts.URL, "POST", "/medications/"+medID+"/doses", userID, map[string]any{
			"scheduled_time": "08:00",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 take dose, got %d body=%s", st, string(body))
		}

		var resp struct {
			CurrentStock int `json:"current_stock"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.CurrentStock != 9 {
			t.Fatalf("expected stock 9 after dose, got %d", resp.CurrentStock)
		}
	}

	// 6) La re-proyección no duplica el refill abierto
	{
		st, body := doReq(t, ts.URL, "GET", "/refills", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list refills, got %d body=%s", st, string(body))
		}
		var refills []struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &refills)
		if len(refills) != 1 || refills[0].ID != refillID {
			t.Fatalf("expected the same single open refill, got body=%s", string(body))
		}
	}

	// 7) La agenda de hoy tiene ambos slots y el de las 08:00 figura completado
	{
		st, body := doReq(t, ts.URL, "GET", "/schedule/today", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 today schedule, got %d body=%s", st, string(body))
		}

		var entries []struct {
			TimeSlot string `json:"time_slot"`
			Status   string `json:"status"`
		}
		_ = json.Unmarshal(body, &entries)
		if len(entries) != 2 {
			t.Fatalf("expected 2 schedule entries, got %d body=%s", len(entries), string(body))
		}
		if entries[0].TimeSlot != "08:00" || entries[1].TimeSlot != "20:00" {
			t.Fatalf("expected ascending slot order, got %+v", entries)
		}
		if entries[0].Status != "completed" {
			t.Fatalf("expected 08:00 completed, got %s", entries[0].Status)
		}
	}

	// 8) El otro usuario no puede operar el refill
	{
		st, _ := doReq(t, ts.URL, "POST", "/refills/"+refillID+"/order", otherID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 ordering foreign refill, got %d", st)
		}
	}

	// 9) pending -> ordered -> picked_up
	{
		st, body := doReq(t, ts.URL, "POST", "/refills/"+refillID+"/order", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 order refill, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/refills/"+refillID+"/pickup", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 pickup refill, got %d body=%s", st, string(body))
		}
		var resp struct {
			Status string `json:"status"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Status != "picked_up" {
			t.Fatalf("expected picked_up, got %s", resp.Status)
		}
	}

	// 10) El retiro sumó el restock estimado: 9 + 30 = 39
	{
		st, body := doReq(t, ts.URL, "GET", "/medications/"+medID, userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get medication, got %d body=%s", st, string(body))
		}
		var resp struct {
			CurrentStock int `json:"current_stock"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.CurrentStock != 39 {
			t.Fatalf("expected stock 39 after pickup, got %d", resp.CurrentStock)
		}
	}
}

func TestHTTP_RecurringReminder_ReturnsSeries(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	userID := "user-1"

	st, body := doReq(t, ts.URL, "POST", "/reminders", userID, map[string]any{
		"title":              "Tomar Metformina",
		"type":               "medication",
		"reminder_date":      "2030-01-01",
		"reminder_time":      "08:00",
		"is_recurring":       true,
		"recurrence_pattern": "daily",
		"end_date":           "2030-01-05",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create recurring reminder, got %d body=%s", st, string(body))
	}

	var series []struct {
		ID        string `json:"id"`
		Date      string `json:"reminder_date"`
		TimeOfDay string `json:"reminder_time"`
	}
	if err := json.Unmarshal(body, &series); err != nil {
		t.Fatalf("expected a JSON array for recurring create, body=%s", string(body))
	}
	if len(series) != 5 {
		t.Fatalf("expected 5 instances (Jan 1-5), got %d", len(series))
	}
	if series[0].Date != "2030-01-01" || series[4].Date != "2030-01-05" {
		t.Fatalf("unexpected series bounds: %s .. %s", series[0].Date, series[4].Date)
	}

	// GET /reminders lista toda la serie
	{
		st, body := doReq(t, ts.URL, "GET", "/reminders", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list reminders, got %d body=%s", st, string(body))
		}
		var all []json.RawMessage
		_ = json.Unmarshal(body, &all)
		if len(all) != 5 {
			t.Fatalf("expected 5 reminders listed, got %d", len(all))
		}
	}
}

func TestHTTP_RequestsWithoutUserAreUnauthorized(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	for _, path := range []string{"/medications", "/refills", "/reminders", "/schedule/today"} {
		st, _ := doReq(t, ts.URL, "GET", path, "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without user, got %d", path, st)
		}
	}
}

func createMedication(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/medications", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create medication, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create medication: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
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
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
