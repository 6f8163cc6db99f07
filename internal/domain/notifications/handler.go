package notifications

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, d *Dispatcher) {
	r.Get("/notifications/check", checkHandler(d))
}

type notificationItem struct {
	MedicineName string `json:"medicineName"`
	Dosage       string `json:"dosage"`
	TakeTime     string `json:"takeTime"`
}

type checkResponse struct {
	PlaySound     bool               `json:"playSound"`
	Notifications []notificationItem `json:"notifications"`
}

func checkHandler(d *Dispatcher) http.HandlerFunc {
	// El front hace polling cada 5 minutos (y un check inmediato al cargar).
	// Un 500 aquí no es crítico: el cliente simplemente salta el ciclo.
	return func(w http.ResponseWriter, r *http.Request) {
		batch, err := d.Run(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := checkResponse{
			PlaySound:     batch.PlaySound,
			Notifications: make([]notificationItem, 0, len(batch.Items)),
		}
		for _, it := range batch.Items {
			resp.Notifications = append(resp.Notifications, notificationItem{
				MedicineName: it.Medicine.Name,
				Dosage:       it.Medicine.Dosage,
				TakeTime:     it.ScheduledTime,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// writeJSON está duplicado a propósito por módulo (ver medicines/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
