package doses

import (
	"encoding/json"
	"errors"
	"net/http"

	"medicine-calendar/internal/domain/medicines"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/dose/toggle", toggleHandler(svc))
}

// toggleResponse es el contrato con el front del calendario: éste solo pinta
// el estado confirmado que devuelve el servidor, nunca hace flip optimista.
type toggleResponse struct {
	Success bool   `json:"success"`
	IsTaken bool   `json:"isTaken"`
	Message string `json:"message,omitempty"`
}

func toggleHandler(svc *Service) http.HandlerFunc {
	// Body form-encoded (medicineId, date), como lo envía el calendario.
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, toggleResponse{Success: false, Message: "invalid form body"})
			return
		}

		medicineID := r.PostFormValue("medicineId")
		date := r.PostFormValue("date")
		if medicineID == "" || date == "" {
			writeJSON(w, http.StatusBadRequest, toggleResponse{Success: false, Message: "medicineId and date are required"})
			return
		}

		rec, err := svc.Toggle(r.Context(), medicineID, date)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidDate):
				writeJSON(w, http.StatusBadRequest, toggleResponse{Success: false, Message: "date must be YYYY-MM-DD"})
			case errors.Is(err, medicines.ErrNotFound):
				writeJSON(w, http.StatusNotFound, toggleResponse{Success: false, Message: "medicine not found"})
			default:
				writeJSON(w, http.StatusInternalServerError, toggleResponse{Success: false, Message: "storage unavailable"})
			}
			return
		}

		writeJSON(w, http.StatusOK, toggleResponse{Success: true, IsTaken: rec.Taken})
	}
}

// writeJSON está duplicado a propósito por módulo (ver medicines/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
