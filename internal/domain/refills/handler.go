package refills

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"medication-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/refills", func(rr chi.Router) {
		// GET /refills proyecta primero (side effect) y devuelve las filas.
		rr.Get("/", listRefillsHandler(svc))

		// GET /refills/projections devuelve el cálculo fresco por medicamento.
		rr.Get("/projections", projectionsHandler(svc))

		rr.Post("/", createRefillHandler(svc))

		rr.Route("/{refillID}", func(ir chi.Router) {
			ir.Post("/order", orderRefillHandler(svc))
			ir.Post("/pickup", pickupRefillHandler(svc))
		})
	})
}

type refillResponse struct {
	ID                 string    `json:"id"`
	MedicationID       string    `json:"medication_id"`
	UserID             string    `json:"user_id"`
	PrescriptionNumber string    `json:"prescription_number"`
	Pharmacy           string    `json:"pharmacy"`
	RefillDate         string    `json:"refill_date"` // YYYY-MM-DD
	DaysLeft           int       `json:"days_left"`
	Priority           Priority  `json:"priority"`
	Status             Status    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type projectionResponse struct {
	MedicationID       string   `json:"medication_id"`
	Name               string   `json:"name"`
	Dosage             string   `json:"dosage"`
	CurrentStock       int      `json:"current_stock"`
	DaysRemaining      int      `json:"days_remaining"`
	RefillDate         string   `json:"refill_date"` // YYYY-MM-DD
	Priority           Priority `json:"priority"`
	PrescriptionNumber string   `json:"prescription_number"`
	Pharmacy           string   `json:"pharmacy"`
}

type createRefillRequest struct {
	MedicationID       string `json:"medication_id"`
	PrescriptionNumber string `json:"prescription_number"`
	Pharmacy           string `json:"pharmacy"`
	RefillDate         string `json:"refill_date"` // YYYY-MM-DD
	DaysLeft           int    `json:"days_left"`
}

// listRefillsHandler godoc
// @Summary Listar refills (recalcula proyecciones antes de leer)
// @Tags refills
func listRefillsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]refillResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toRefillResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// projectionsHandler godoc
// @Summary Proyección de refills por medicamento
// @Tags refills
func projectionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		projections, err := svc.Project(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]projectionResponse, 0, len(projections))
		for _, p := range projections {
			out = append(out, projectionResponse{
				MedicationID:       p.MedicationID,
				Name:               p.Name,
				Dosage:             p.Dosage,
				CurrentStock:       p.CurrentStock,
				DaysRemaining:      p.DaysRemaining,
				RefillDate:         p.RefillDate.Format("2006-01-02"),
				Priority:           p.Priority,
				PrescriptionNumber: p.PrescriptionNumber,
				Pharmacy:           p.Pharmacy,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createRefillHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createRefillRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rd, err := time.Parse("2006-01-02", strings.TrimSpace(req.RefillDate))
		if err != nil {
			http.Error(w, "refill_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		ref, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			MedicationID:       req.MedicationID,
			PrescriptionNumber: req.PrescriptionNumber,
			Pharmacy:           req.Pharmacy,
			RefillDate:         rd,
			DaysLeft:           req.DaysLeft,
		})
		if err != nil {
			switch err {
			case ErrBadState:
				// ya hay un refill abierto para ese medicamento
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				writeServiceError(w, err)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toRefillResponse(ref))
	}
}

func orderRefillHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ref, err := svc.Order(r.Context(), chi.URLParam(r, "refillID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRefillResponse(ref))
	}
}

func pickupRefillHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ref, err := svc.Pickup(r.Context(), chi.URLParam(r, "refillID"), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRefillResponse(ref))
	}
}

func toRefillResponse(r Refill) refillResponse {
	return refillResponse{
		ID:                 r.ID,
		MedicationID:       r.MedicationID,
		UserID:             r.UserID,
		PrescriptionNumber: r.PrescriptionNumber,
		Pharmacy:           r.Pharmacy,
		RefillDate:         r.RefillDate.Format("2006-01-02"),
		DaysLeft:           r.DaysLeft,
		Priority:           r.Priority,
		Status:             r.Status,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	case ErrBadState:
		http.Error(w, err.Error(), http.StatusConflict)
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
