package calendar

// DayEntry es un medicamento programado en un día del mes, con su estado de
// toma. Es exactamente lo que la vista de calendario pinta por celda.
type DayEntry struct {
	MedicineID string `json:"id"`
	Name       string `json:"name"`
	IsTaken    bool   `json:"isTaken"`
}

type DayView struct {
	Date    string     `json:"date"` // "YYYY-MM-DD"
	Entries []DayEntry `json:"entries"`
}

type MonthView struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Days  []DayView `json:"days"`
}
