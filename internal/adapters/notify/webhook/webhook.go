package webhook

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"medicine-calendar/internal/domain/notifications"
	"medicine-calendar/internal/platform/httpclient"
)

// Notifier empuja los batches con sonido a una URL configurada (por ejemplo un
// puente hacia push del sistema). Es opcional: el contrato principal sigue
// siendo el polling de GET /notifications/check.
type Notifier struct {
	client *httpclient.Client
	url    string
}

func New(rawURL string, timeout time.Duration) (*Notifier, error) {
	rawURL = strings.TrimSpace(rawURL)
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("webhook: invalid url: %w", err)
	}
	return &Notifier{
		client: httpclient.New(timeout),
		url:    rawURL,
	}, nil
}

type payloadItem struct {
	MedicineName string `json:"medicineName"`
	Dosage       string `json:"dosage"`
	TakeTime     string `json:"takeTime"`
}

type payload struct {
	PlaySound     bool          `json:"playSound"`
	Notifications []payloadItem `json:"notifications"`
}

// Present implementa scheduler.Presenter. Un fallo aquí se loguea y se salta:
// el ciclo siguiente reintenta solo lo que siga pendiente.
func (n *Notifier) Present(ctx context.Context, b notifications.Batch) error {
	p := payload{
		PlaySound:     b.PlaySound,
		Notifications: make([]payloadItem, 0, len(b.Items)),
	}
	for _, it := range b.Items {
		p.Notifications = append(p.Notifications, payloadItem{
			MedicineName: it.Medicine.Name,
			Dosage:       it.Medicine.Dosage,
			TakeTime:     it.ScheduledTime,
		})
	}
	return n.client.DoJSON(ctx, http.MethodPost, n.url, p, nil)
}
