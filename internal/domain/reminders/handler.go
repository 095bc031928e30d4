package reminders

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"medication-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reminders", func(rr chi.Router) {
		rr.Post("/", createReminderHandler(svc))
		rr.Get("/", listRemindersHandler(svc))

		rr.Route("/{reminderID}", func(ir chi.Router) {
			ir.Patch("/", updateReminderHandler(svc))
			ir.Post("/complete", completeReminderHandler(svc))
			ir.Delete("/", deleteReminderHandler(svc))
		})
	})
}

type createReminderRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`

	Date      string `json:"reminder_date"` // YYYY-MM-DD
	TimeOfDay string `json:"reminder_time"` // HH:MM

	Type string `json:"type"`

	MedicationID  string `json:"medication_id"`
	AppointmentID string `json:"appointment_id"`

	IsRecurring       bool   `json:"is_recurring"`
	RecurrencePattern string `json:"recurrence_pattern"`
	EndDate           string `json:"end_date"` // YYYY-MM-DD opcional
}

type reminderResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	MedicationID  string `json:"medication_id,omitempty"`
	AppointmentID string `json:"appointment_id,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description"`

	Date      string `json:"reminder_date"`
	TimeOfDay string `json:"reminder_time"`

	Type Type `json:"type"`

	IsCompleted bool `json:"is_completed"`

	IsRecurring       bool   `json:"is_recurring"`
	RecurrencePattern string `json:"recurrence_pattern,omitempty"`
	EndDate           string `json:"end_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type updateReminderRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"reminder_date"`
	TimeOfDay   *string `json:"reminder_time"`
}

type completeReminderRequest struct {
	IsCompleted *bool `json:"is_completed"`
}

// createReminderHandler godoc
// @Summary Crear reminder (expande series recurrentes)
// @Tags reminders
func createReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
		if err != nil {
			http.Error(w, "reminder_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		var end *time.Time
		if strings.TrimSpace(req.EndDate) != "" {
			t, err := time.Parse("2006-01-02", req.EndDate)
			if err != nil {
				http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			end = &t
		}

		created, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Title:             req.Title,
			Description:       req.Description,
			Date:              date,
			TimeOfDay:         req.TimeOfDay,
			Type:              Type(strings.TrimSpace(req.Type)),
			MedicationID:      req.MedicationID,
			AppointmentID:     req.AppointmentID,
			IsRecurring:       req.IsRecurring,
			RecurrencePattern: req.RecurrencePattern,
			EndDate:           end,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		// Contrato: objeto único si no es recurrente, array si lo es.
		if !req.IsRecurring && len(created) == 1 {
			writeJSON(w, http.StatusCreated, toReminderResponse(created[0]))
			return
		}

		out := make([]reminderResponse, 0, len(created))
		for _, c := range created {
			out = append(out, toReminderResponse(c))
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

func listRemindersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]reminderResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toReminderResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updateReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var date *time.Time
		if req.Date != nil {
			t, err := time.Parse("2006-01-02", strings.TrimSpace(*req.Date))
			if err != nil {
				http.Error(w, "reminder_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = &t
		}

		rem, err := svc.Update(r.Context(), chi.URLParam(r, "reminderID"), claims.UserID, UpdateInput{
			Title:       req.Title,
			Description: req.Description,
			Date:        date,
			TimeOfDay:   req.TimeOfDay,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toReminderResponse(rem))
	}
}

func completeReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Body opcional: sin body => marcar completado.
		completed := true
		var req completeReminderRequest
		if r.Body != nil {
			if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.IsCompleted != nil {
				completed = *req.IsCompleted
			}
		}

		rem, err := svc.Complete(r.Context(), chi.URLParam(r, "reminderID"), claims.UserID, completed)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toReminderResponse(rem))
	}
}

func deleteReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "reminderID"), claims.UserID); err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toReminderResponse(r Reminder) reminderResponse {
	resp := reminderResponse{
		ID:                r.ID,
		UserID:            r.UserID,
		MedicationID:      r.MedicationID,
		AppointmentID:     r.AppointmentID,
		Title:             r.Title,
		Description:       r.Description,
		Date:              r.Date.Format("2006-01-02"),
		TimeOfDay:         r.TimeOfDay,
		Type:              r.Type,
		IsCompleted:       r.IsCompleted,
		IsRecurring:       r.IsRecurring,
		RecurrencePattern: r.RecurrencePattern,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.EndDate != nil {
		resp.EndDate = r.EndDate.Format("2006-01-02")
	}
	return resp
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON duplicado a propósito por módulo; ver nota en medications.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
