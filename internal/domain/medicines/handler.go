package medicines

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medicines", func(mr chi.Router) {
		mr.Post("/", createMedicineHandler(svc))
		mr.Get("/", listMedicinesHandler(svc))
		mr.Patch("/{medicineID}", updateMedicineHandler(svc))
		mr.Post("/{medicineID}/deactivate", deactivateMedicineHandler(svc))
	})

	// Panel de alta/edición para una fecha del calendario.
	// Solo datos: el render es del colaborador de presentación.
	r.Get("/dose/manage", managePanelHandler(svc))
}

type createMedicineRequest struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	TakeTime  string `json:"takeTime"`  // HH:MM
	StartDate string `json:"startDate"` // YYYY-MM-DD
	EndDate   string `json:"endDate"`   // YYYY-MM-DD
	Notes     string `json:"notes"`
}

type updateMedicineRequest struct {
	Name      *string `json:"name"`
	Dosage    *string `json:"dosage"`
	TakeTime  *string `json:"takeTime"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Notes     *string `json:"notes"`
}

type medicineResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	TakeTime  string    `json:"takeTime"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Notes     string    `json:"notes"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type managePanelResponse struct {
	Date            string             `json:"date"`
	Medicine        *medicineResponse  `json:"medicine,omitempty"`
	MedicinesForDay []medicineResponse `json:"medicinesForDay"`
}

func createMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMedicineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), CreateInput{
			Name:      req.Name,
			Dosage:    req.Dosage,
			TakeTime:  req.TakeTime,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Notes:     req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicineResponse(m))
	}
}

func listMedicinesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := strings.TrimSpace(r.URL.Query().Get("date"))
		if date == "" {
			http.Error(w, "date is required (YYYY-MM-DD)", http.StatusBadRequest)
			return
		}

		items, err := svc.ListForDate(r.Context(), date)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicineResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicineResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updateMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateMedicineRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Update(r.Context(), chi.URLParam(r, "medicineID"), UpdateInput{
			Name:      req.Name,
			Dosage:    req.Dosage,
			TakeTime:  req.TakeTime,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Notes:     req.Notes,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "medicine not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toMedicineResponse(m))
	}
}

func deactivateMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Deactivate(r.Context(), chi.URLParam(r, "medicineID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "medicine not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toMedicineResponse(m))
	}
}

func managePanelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		date := strings.TrimSpace(q.Get("date"))
		if date == "" {
			http.Error(w, "date is required (YYYY-MM-DD)", http.StatusBadRequest)
			return
		}

		items, err := svc.ListForDate(r.Context(), date)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := managePanelResponse{
			Date:            date,
			MedicinesForDay: make([]medicineResponse, 0, len(items)),
		}
		for _, m := range items {
			resp.MedicinesForDay = append(resp.MedicinesForDay, toMedicineResponse(m))
		}

		if id := strings.TrimSpace(q.Get("medicineId")); id != "" {
			m, err := svc.GetByID(r.Context(), id)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					http.Error(w, "medicine not found", http.StatusNotFound)
					return
				}
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			mr := toMedicineResponse(m)
			resp.Medicine = &mr
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func toMedicineResponse(m Medicine) medicineResponse {
	return medicineResponse{
		ID:        m.ID,
		Name:      m.Name,
		Dosage:    m.Dosage,
		TakeTime:  m.TakeTime,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Notes:     m.Notes,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (medicines/doses/notifications/calendar) para no crear helpers compartidos
// antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
