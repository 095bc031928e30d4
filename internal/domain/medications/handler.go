package medications

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"medication-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc))
		mr.Get("/", listMedicationsHandler(svc))

		mr.Get("/{medicationID}", getMedicationHandler(svc))
		mr.Patch("/{medicationID}", updateMedicationHandler(svc))

		// Consumo de dosis: descuenta stock y re-proyecta refills.
		mr.Post("/{medicationID}/doses", takeDoseHandler(svc))

		// Time slots del medicamento
		mr.Route("/{medicationID}/slots", func(sr chi.Router) {
			sr.Post("/", addSlotHandler(svc))
			sr.Get("/", listSlotsHandler(svc))
			sr.Post("/{slotID}/deactivate", removeSlotHandler(svc))
		})
	})

	// Vista "hoy": slots clasificados completed/pending/upcoming.
	r.Get("/schedule/today", todayScheduleHandler(svc))
}

type createMedicationRequest struct {
	Name               string `json:"name"`
	Dosage             string `json:"dosage"`
	Frequency          string `json:"frequency"`
	CurrentStock       int    `json:"current_stock"`
	RefillsRemaining   int    `json:"refills_remaining"`
	PrescriptionNumber string `json:"prescription_number"`
	Pharmacy           string `json:"pharmacy"`
	StartDate          string `json:"start_date"` // YYYY-MM-DD opcional
}

type medicationResponse struct {
	ID                 string     `json:"id"`
	OwnerUserID        string     `json:"owner_user_id"`
	Name               string     `json:"name"`
	Dosage             string     `json:"dosage"`
	Frequency          string     `json:"frequency"`
	CurrentStock       int        `json:"current_stock"`
	Status             Status     `json:"status"`
	RefillsRemaining   int        `json:"refills_remaining"`
	PrescriptionNumber string     `json:"prescription_number"`
	Pharmacy           string     `json:"pharmacy"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type updateMedicationRequest struct {
	Name               *string `json:"name"`
	Dosage             *string `json:"dosage"`
	Frequency          *string `json:"frequency"`
	CurrentStock       *int    `json:"current_stock"`
	Status             *string `json:"status"`
	RefillsRemaining   *int    `json:"refills_remaining"`
	PrescriptionNumber *string `json:"prescription_number"`
	Pharmacy           *string `json:"pharmacy"`
}

type slotResponse struct {
	ID           string    `json:"id"`
	MedicationID string    `json:"medication_id"`
	TimeSlot     string    `json:"time_slot"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type takeDoseRequest struct {
	ScheduledTime string `json:"scheduled_time"`
	Doses         int    `json:"doses"`
}

type takeDoseResponse struct {
	CurrentStock int `json:"current_stock"`
}

type scheduleEntryResponse struct {
	MedicationID string     `json:"medication_id"`
	Name         string     `json:"name"`
	Dosage       string     `json:"dosage"`
	TimeSlot     string     `json:"time_slot"`
	Status       SlotStatus `json:"status"`
}

// createMedicationHandler godoc
// @Summary Registrar un medicamento
// @Tags medications
func createMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var sd *time.Time
		if strings.TrimSpace(req.StartDate) != "" {
			t, err := time.Parse("2006-01-02", req.StartDate)
			if err != nil {
				http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			sd = &t
		}

		m, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:               req.Name,
			Dosage:             req.Dosage,
			Frequency:          req.Frequency,
			CurrentStock:       req.CurrentStock,
			RefillsRemaining:   req.RefillsRemaining,
			PrescriptionNumber: req.PrescriptionNumber,
			Pharmacy:           req.Pharmacy,
			StartDate:          sd,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		meds, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(meds))
		for _, m := range meds {
			out = append(out, toMedicationResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.GetOwned(r.Context(), chi.URLParam(r, "medicationID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

func updateMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Update(r.Context(), chi.URLParam(r, "medicationID"), claims.UserID, UpdateInput{
			Name:               req.Name,
			Dosage:             req.Dosage,
			Frequency:          req.Frequency,
			CurrentStock:       req.CurrentStock,
			Status:             req.Status,
			RefillsRemaining:   req.RefillsRemaining,
			PrescriptionNumber: req.PrescriptionNumber,
			Pharmacy:           req.Pharmacy,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// takeDoseHandler godoc
// @Summary Registrar dosis tomada (descuenta stock)
// @Tags medications
func takeDoseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Body opcional: sin body => 1 dosis.
		var req takeDoseRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		stock, err := svc.TakeDose(r.Context(), chi.URLParam(r, "medicationID"), claims.UserID, TakeDoseInput{
			ScheduledTime: req.ScheduledTime,
			Doses:         req.Doses,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, takeDoseResponse{CurrentStock: stock})
	}
}

func addSlotHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req struct {
			TimeSlot string `json:"time_slot"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		slot, err := svc.AddSlot(r.Context(), chi.URLParam(r, "medicationID"), claims.UserID, req.TimeSlot)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSlotResponse(slot))
	}
}

func listSlotsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		slots, err := svc.ListSlots(r.Context(), chi.URLParam(r, "medicationID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]slotResponse, 0, len(slots))
		for _, s := range slots {
			out = append(out, toSlotResponse(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func removeSlotHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		err := svc.RemoveSlot(r.Context(), chi.URLParam(r, "slotID"), chi.URLParam(r, "medicationID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// todayScheduleHandler godoc
// @Summary Agenda de hoy clasificada por slot
// @Tags schedule
func todayScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		entries, err := svc.TodaySchedule(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]scheduleEntryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, scheduleEntryResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toMedicationResponse(m Medication) medicationResponse {
	return medicationResponse{
		ID:                 m.ID,
		OwnerUserID:        m.OwnerUserID,
		Name:               m.Name,
		Dosage:             m.Dosage,
		Frequency:          m.Frequency,
		CurrentStock:       m.CurrentStock,
		Status:             m.Status,
		RefillsRemaining:   m.RefillsRemaining,
		PrescriptionNumber: m.PrescriptionNumber,
		Pharmacy:           m.Pharmacy,
		StartDate:          m.StartDate,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toSlotResponse(s ScheduleSlot) slotResponse {
	return slotResponse{
		ID:           s.ID,
		MedicationID: s.MedicationID,
		TimeSlot:     s.TimeSlot,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
	}
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

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (igual que en el resto del repo): todavía no amerita un helper común.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
