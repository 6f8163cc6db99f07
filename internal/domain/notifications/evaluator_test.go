package notifications

import (
	"context"
	"testing"
	"time"

	mem "medicine-calendar/internal/adapters/storage/memory"
	"medicine-calendar/internal/domain/doses"
	"medicine-calendar/internal/domain/medicines"
)

func seedMedicine(t *testing.T, repo medicines.Repository, id, takeTime, start, end string) medicines.Medicine {
	t.Helper()
	m := medicines.Medicine{
		ID:        id,
		Name:      "med-" + id,
		Dosage:    "100mg",
		TakeTime:  takeTime,
		StartDate: start,
		EndDate:   end,
		Active:    true,
	}
	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("seed medicine %s: %v", id, err)
	}
	return m
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return ts.UTC()
}

func TestEvaluator_WindowBounds(t *testing.T) {
	medsRepo := mem.NewMedicinesRepo()
	dosesRepo := mem.NewDosesRepo()
	seedMedicine(t, medsRepo, "m1", "09:00", "2025-03-01", "2025-03-31")

	eval := NewEvaluator(medsRepo, dosesRepo, time.UTC, 5*time.Minute)

	cases := []struct {
		now  string
		want int
	}{
		{"2025-03-10 08:59", 0}, // la ventana aún no abre
		{"2025-03-10 09:00", 1}, // abre exactamente a la hora
		{"2025-03-10 09:03", 1},
		{"2025-03-10 09:05", 1}, // borde superior inclusivo (gracia = polling)
		{"2025-03-10 09:06", 0}, // ventana vencida
	}

	for _, tc := range cases {
		due, err := eval.DueNow(context.Background(), at(t, tc.now))
		if err != nil {
			t.Fatalf("DueNow(%s) error: %v", tc.now, err)
		}
		if len(due) != tc.want {
			t.Fatalf("DueNow(%s): expected %d due, got %d", tc.now, tc.want, len(due))
		}
	}
}

func TestEvaluator_SkipsTakenDoses(t *testing.T) {
	medsRepo := mem.NewMedicinesRepo()
	dosesRepo := mem.NewDosesRepo()
	seedMedicine(t, medsRepo, "m1", "09:00", "2025-03-01", "2025-03-31")

	takenAt := at(t, "2025-03-10 09:01")
	if err := dosesRepo.Upsert(context.Background(), doses.Record{
		MedicineID: "m1",
		Date:       "2025-03-10",
		Taken:      true,
		TakenAt:    &takenAt,
	}); err != nil {
		t.Fatalf("seed dose: %v", err)
	}

	eval := NewEvaluator(medsRepo, dosesRepo, time.UTC, 5*time.Minute)

	due, err := eval.DueNow(context.Background(), at(t, "2025-03-10 09:03"))
	if err != nil {
		t.Fatalf("DueNow error: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("taken dose must not be due, got %v", due)
	}
}

func TestEvaluator_SkipsInactiveAndOutOfRange(t *testing.T) {
	medsRepo := mem.NewMedicinesRepo()
	dosesRepo := mem.NewDosesRepo()

	inactive := seedMedicine(t, medsRepo, "m1", "09:00", "2025-03-01", "2025-03-31")
	inactive.Active = false
	if err := medsRepo.Update(context.Background(), inactive); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	seedMedicine(t, medsRepo, "m2", "09:00", "2025-04-01", "2025-04-30") // fuera de rango

	eval := NewEvaluator(medsRepo, dosesRepo, time.UTC, 5*time.Minute)

	due, err := eval.DueNow(context.Background(), at(t, "2025-03-10 09:03"))
	if err != nil {
		t.Fatalf("DueNow error: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected nothing due, got %v", due)
	}
}

func TestEvaluator_DeterministicOrdering(t *testing.T) {
	medsRepo := mem.NewMedicinesRepo()
	dosesRepo := mem.NewDosesRepo()

	// mismo horario: desempata por id; horario anterior va primero
	seedMedicine(t, medsRepo, "b", "09:02", "2025-03-01", "2025-03-31")
	seedMedicine(t, medsRepo, "a", "09:02", "2025-03-01", "2025-03-31")
	seedMedicine(t, medsRepo, "c", "09:00", "2025-03-01", "2025-03-31")

	eval := NewEvaluator(medsRepo, dosesRepo, time.UTC, 5*time.Minute)

	due, err := eval.DueNow(context.Background(), at(t, "2025-03-10 09:04"))
	if err != nil {
		t.Fatalf("DueNow error: %v", err)
	}

	got := make([]string, 0, len(due))
	for _, d := range due {
		got = append(got, d.Medicine.ID)
	}
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestEvaluator_MidnightSpanningWindow(t *testing.T) {
	medsRepo := mem.NewMedicinesRepo()
	dosesRepo := mem.NewDosesRepo()
	seedMedicine(t, medsRepo, "m1", "23:58", "2025-03-01", "2025-03-31")

	eval := NewEvaluator(medsRepo, dosesRepo, time.UTC, 5*time.Minute)

	// 00:01 del día siguiente: la ventana abrió ayer y sigue viva
	due, err := eval.DueNow(context.Background(), at(t, "2025-03-11 00:01"))
	if err != nil {
		t.Fatalf("DueNow error: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected the spanning dose once, got %d", len(due))
	}
	if due[0].Date != "2025-03-10" {
		t.Fatalf("spanning dose must count for the day the window opened, got %s", due[0].Date)
	}

	// marcada la de ayer, no reaparece ni se evalúa contra hoy
	if err := dosesRepo.Upsert(context.Background(), doses.Record{
		MedicineID: "m1",
		Date:       "2025-03-10",
		Taken:      true,
	}); err != nil {
		t.Fatalf("seed dose: %v", err)
	}
	due, err = eval.DueNow(context.Background(), at(t, "2025-03-11 00:02"))
	if err != nil {
		t.Fatalf("DueNow error: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected nothing due after taking, got %v", due)
	}
}
