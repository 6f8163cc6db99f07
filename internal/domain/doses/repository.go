package doses

import "context"

type Repository interface {
	// Get devuelve ErrNotFound si la dosis nunca se registró.
	Get(ctx context.Context, medicineID, date string) (Record, error)

	// Upsert persiste el registro de forma síncrona: al volver, el estado ya
	// está confirmado y una lectura posterior no puede ver datos viejos.
	Upsert(ctx context.Context, rec Record) error

	// ListBetween devuelve los registros con fecha en [start, end].
	ListBetween(ctx context.Context, start, end string) ([]Record, error)
}
