package reminders

import (
	"regexp"
	"strconv"
	"time"
)

// Reglas de recurrencia. El patrón llega como texto libre; lo parseamos a
// una variante explícita en vez de comparar strings por todo el código.
// Un patrón no reconocido NO es error: cae a cadencia diaria (ver DESIGN.md).

type RuleKind int

const (
	KindDaily RuleKind = iota
	KindWeekly
	KindMonthly
	KindYearly
	KindTwiceDaily
	KindEveryN
	KindUnrecognized // se comporta como daily
)

type IntervalUnit string

const (
	UnitDay   IntervalUnit = "day"
	UnitWeek  IntervalUnit = "week"
	UnitMonth IntervalUnit = "month"
)

type Rule struct {
	Kind  RuleKind
	Every int          // solo KindEveryN
	Unit  IntervalUnit // solo KindEveryN
}

var everyNPattern = regexp.MustCompile(`^every (\d+) (day|week|month)s?$`)

// ParseRule interpreta el patrón. Match por keyword, case-sensitive:
// un "Daily" con mayúscula cae al fallback.
func ParseRule(pattern string) Rule {
	switch pattern {
	case "daily":
		return Rule{Kind: KindDaily}
	case "weekly":
		return Rule{Kind: KindWeekly}
	case "monthly":
		return Rule{Kind: KindMonthly}
	case "yearly":
		return Rule{Kind: KindYearly}
	case "twice daily":
		return Rule{Kind: KindTwiceDaily}
	}

	if m := everyNPattern.FindStringSubmatch(pattern); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return Rule{Kind: KindEveryN, Every: n, Unit: IntervalUnit(m[2])}
		}
	}

	return Rule{Kind: KindUnrecognized}
}

// Next avanza el cursor un paso según la regla. La aritmética de meses usa
// AddDate tal cual: un 31 de enero + 1 mes corre al 2/3 de marzo.
func (r Rule) Next(t time.Time) time.Time {
	switch r.Kind {
	case KindWeekly:
		return t.AddDate(0, 0, 7)
	case KindMonthly:
		return t.AddDate(0, 1, 0)
	case KindYearly:
		return t.AddDate(1, 0, 0)
	case KindEveryN:
		switch r.Unit {
		case UnitWeek:
			return t.AddDate(0, 0, 7*r.Every)
		case UnitMonth:
			return t.AddDate(0, r.Every, 0)
		default:
			return t.AddDate(0, 0, r.Every)
		}
	default:
		// daily, twice daily y no reconocido: +1 día
		return t.AddDate(0, 0, 1)
	}
}

const (
	// maxIterations acota el loop de expansión: un patrón roto jamás
	// puede colgar el request.
	maxIterations = 1000

	// defaultHorizonDays se usa cuando no mandan end_date.
	defaultHorizonDays = 365

	// eveningTime: hora fija de la segunda toma en "twice daily".
	eveningTime = "20:00"
)

// Expand materializa la serie completa, eager y en orden cronológico.
// base aporta título/descripción/tipo/hora; cada instancia sale con su
// fecha propia. "twice daily" emite dos instancias por día (la segunda a
// las 20:00) y ambas cuentan como UNA iteración del cap.
func Expand(base Reminder, start time.Time, rule Rule, end *time.Time) []Reminder {
	until := start.AddDate(0, 0, defaultHorizonDays)
	if end != nil && !end.IsZero() {
		until = *end
	}

	out := make([]Reminder, 0)

	cursor := start
	for iter := 0; iter < maxIterations && !cursor.After(until); iter++ {
		inst := base
		inst.Date = cursor
		out = append(out, inst)

		if rule.Kind == KindTwiceDaily {
			second := base
			second.Date = cursor
			second.TimeOfDay = eveningTime
			out = append(out, second)
		}

		cursor = rule.Next(cursor)
	}

	return out
}
