package medicines

import "time"

// Medicine representa un medicamento registrado con su pauta diaria.
// Las fechas civiles ("YYYY-MM-DD") y la hora de toma ("HH:MM") se guardan
// como strings normalizados; el orden lexicográfico coincide con el cronológico.
type Medicine struct {
	ID string

	Name   string
	Dosage string // "100mg", "2 comprimidos", etc.

	TakeTime string // "HH:MM" hora local de toma

	StartDate string // "YYYY-MM-DD" inclusive
	EndDate   string // "YYYY-MM-DD" inclusive

	Notes string

	// Active: baja lógica. Nunca se borra físicamente mientras existan
	// registros de toma que lo referencien.
	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduledOn indica si el medicamento tiene toma programada en la fecha dada.
func (m Medicine) ScheduledOn(date string) bool {
	return m.Active && m.StartDate <= date && date <= m.EndDate
}
