package medicines

import "context"

type Repository interface {
	Create(ctx context.Context, m Medicine) error
	Update(ctx context.Context, m Medicine) error
	GetByID(ctx context.Context, id string) (Medicine, error)

	// ListForDate devuelve los medicamentos activos con toma programada en la
	// fecha dada, ordenados por take_time asc (empates por id).
	ListForDate(ctx context.Context, date string) ([]Medicine, error)

	// ListBetween devuelve los activos cuyo rango [start_date, end_date]
	// solapa con [start, end], con el mismo orden que ListForDate.
	ListBetween(ctx context.Context, start, end string) ([]Medicine, error)
}
