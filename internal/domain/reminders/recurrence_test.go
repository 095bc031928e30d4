package reminders

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseRule_Keywords(t *testing.T) {
	cases := []struct {
		pattern string
		kind    RuleKind
	}{
		{"daily", KindDaily},
		{"weekly", KindWeekly},
		{"monthly", KindMonthly},
		{"yearly", KindYearly},
		{"twice daily", KindTwiceDaily},
		{"", KindUnrecognized},
		{"Daily", KindUnrecognized}, // case-sensitive
		{"fortnightly", KindUnrecognized},
	}

	for _, c := range cases {
		r := ParseRule(c.pattern)
		if r.Kind != c.kind {
			t.Fatalf("ParseRule(%q): expected kind %d, got %d", c.pattern, c.kind, r.Kind)
		}
	}
}

func TestParseRule_EveryN(t *testing.T) {
	r := ParseRule("every 2 days")
	if r.Kind != KindEveryN || r.Every != 2 || r.Unit != UnitDay {
		t.Fatalf("unexpected rule: %#v", r)
	}

	r = ParseRule("every 1 week")
	if r.Kind != KindEveryN || r.Every != 1 || r.Unit != UnitWeek {
		t.Fatalf("unexpected rule: %#v", r)
	}

	r = ParseRule("every 3 months")
	if r.Kind != KindEveryN || r.Every != 3 || r.Unit != UnitMonth {
		t.Fatalf("unexpected rule: %#v", r)
	}

	// no matchea => fallback
	r = ParseRule("every other tuesday")
	if r.Kind != KindUnrecognized {
		t.Fatalf("expected unrecognized, got %#v", r)
	}
}

func TestExpand_Daily_InclusiveRange(t *testing.T) {
	end := date(2025, 1, 5)
	got := Expand(Reminder{TimeOfDay: "08:00"}, date(2025, 1, 1), ParseRule("daily"), &end)

	if len(got) != 5 {
		t.Fatalf("expected 5 instances, got %d", len(got))
	}
	for i, inst := range got {
		want := date(2025, 1, 1+i)
		if !inst.Date.Equal(want) {
			t.Fatalf("instance %d: expected %s, got %s", i, want, inst.Date)
		}
		if inst.TimeOfDay != "08:00" {
			t.Fatalf("instance %d: expected base time, got %s", i, inst.TimeOfDay)
		}
	}
}

func TestExpand_EveryTwoDays(t *testing.T) {
	end := date(2025, 1, 7)
	got := Expand(Reminder{TimeOfDay: "09:00"}, date(2025, 1, 1), ParseRule("every 2 days"), &end)

	want := []time.Time{date(2025, 1, 1), date(2025, 1, 3), date(2025, 1, 5), date(2025, 1, 7)}
	if len(got) != len(want) {
		t.Fatalf("expected %d instances, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Date.Equal(want[i]) {
			t.Fatalf("instance %d: expected %s, got %s", i, want[i], got[i].Date)
		}
	}
}

func TestExpand_TwiceDaily_EmitsEveningInstance(t *testing.T) {
	end := date(2025, 1, 1)
	got := Expand(Reminder{TimeOfDay: "08:00"}, date(2025, 1, 1), ParseRule("twice daily"), &end)

	if len(got) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(got))
	}
	if !got[0].Date.Equal(date(2025, 1, 1)) || !got[1].Date.Equal(date(2025, 1, 1)) {
		t.Fatalf("both instances must share the date")
	}
	if got[0].TimeOfDay != "08:00" {
		t.Fatalf("first instance keeps base time, got %s", got[0].TimeOfDay)
	}
	if got[1].TimeOfDay != "20:00" {
		t.Fatalf("second instance must be at 20:00, got %s", got[1].TimeOfDay)
	}
}

func TestExpand_Weekly(t *testing.T) {
	end := date(2025, 1, 31)
	got := Expand(Reminder{}, date(2025, 1, 1), ParseRule("weekly"), &end)

	// 1, 8, 15, 22, 29
	if len(got) != 5 {
		t.Fatalf("expected 5 instances, got %d", len(got))
	}
	if !got[1].Date.Equal(date(2025, 1, 8)) {
		t.Fatalf("expected second instance on Jan 8, got %s", got[1].Date)
	}
}

func TestExpand_Monthly_NativeDateArithmetic(t *testing.T) {
	// 31 de enero + 1 mes corre al 2/3 de marzo (comportamiento AddDate).
	end := date(2025, 4, 30)
	got := Expand(Reminder{}, date(2025, 1, 31), ParseRule("monthly"), &end)

	if len(got) < 2 {
		t.Fatalf("expected at least 2 instances, got %d", len(got))
	}
	if !got[1].Date.Equal(date(2025, 3, 3)) {
		t.Fatalf("expected AddDate normalization to Mar 3, got %s", got[1].Date)
	}
}

func TestExpand_UnrecognizedPattern_FallsBackToDaily(t *testing.T) {
	end := date(2025, 1, 3)
	got := Expand(Reminder{}, date(2025, 1, 1), ParseRule("whenever"), &end)

	if len(got) != 3 {
		t.Fatalf("expected daily fallback with 3 instances, got %d", len(got))
	}
}

func TestExpand_DefaultHorizon_IsOneYear(t *testing.T) {
	got := Expand(Reminder{}, date(2025, 1, 1), ParseRule("monthly"), nil)

	// mensual dentro de start+365d: ene..ene = 13 instancias
	if len(got) != 13 {
		t.Fatalf("expected 13 monthly instances in a year, got %d", len(got))
	}
	last := got[len(got)-1].Date
	if !last.Equal(date(2026, 1, 1)) {
		t.Fatalf("expected last instance on 2026-01-01, got %s", last)
	}
}

func TestExpand_IterationCap_BoundsDailySeries(t *testing.T) {
	// 10 años de "daily" se corta en el cap de 1000 iteraciones.
	end := date(2035, 1, 1)
	got := Expand(Reminder{}, date(2025, 1, 1), ParseRule("daily"), &end)

	if len(got) != 1000 {
		t.Fatalf("expected cap at 1000 instances, got %d", len(got))
	}
}

func TestExpand_IterationCap_TwiceDailyCountsOncePerDay(t *testing.T) {
	// ambas emisiones del día cuentan como UNA iteración: 2000 instancias.
	end := date(2035, 1, 1)
	got := Expand(Reminder{TimeOfDay: "08:00"}, date(2025, 1, 1), ParseRule("twice daily"), &end)

	if len(got) != 2000 {
		t.Fatalf("expected 2000 instances (1000 days x 2), got %d", len(got))
	}
}

func TestExpand_EndBeforeStart_EmitsNothing(t *testing.T) {
	end := date(2024, 12, 31)
	got := Expand(Reminder{}, date(2025, 1, 1), ParseRule("daily"), &end)

	if len(got) != 0 {
		t.Fatalf("expected no instances, got %d", len(got))
	}
}
