package calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/calendar", monthHandler(svc))
}

func monthHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, month := svc.CurrentYearMonth()

		q := r.URL.Query()
		if v := strings.TrimSpace(q.Get("year")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "year must be numeric", http.StatusBadRequest)
				return
			}
			year = n
		}
		if v := strings.TrimSpace(q.Get("month")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "month must be numeric", http.StatusBadRequest)
				return
			}
			month = n
		}

		view, err := svc.Month(r.Context(), year, month)
		if err != nil {
			if errors.Is(err, ErrInvalidMonth) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, view)
	}
}

// writeJSON está duplicado a propósito por módulo (ver medicines/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
