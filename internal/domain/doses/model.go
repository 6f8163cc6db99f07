package doses

import "time"

// Key identifica un registro de toma: un medicamento en una fecha concreta.
type Key struct {
	MedicineID string
	Date       string // "YYYY-MM-DD"
}

// Record es el estado tomado/no-tomado de una dosis. Se crea perezosamente la
// primera vez que la fecha se consulta o se marca; como máximo existe un
// Record por (medicamento, fecha).
type Record struct {
	MedicineID string
	Date       string // "YYYY-MM-DD"

	Taken   bool
	TakenAt *time.Time // se fija en la transición false→true, se limpia al destomar
}

func (r Record) Key() Key {
	return Key{MedicineID: r.MedicineID, Date: r.Date}
}
