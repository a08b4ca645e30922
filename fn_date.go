package xlspill

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// dateLayouts are tried in order when reading a date argument.
var dateLayouts = []string{
	dateLayout,
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// serialEpoch is day zero of spreadsheet serial dates.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func registerDate(l *Library) {
	l.Register(&Function{Name: "TODAY", Call: fnToday})
	l.Register(&Function{Name: "DATE", MinArgs: 3, MaxArgs: 3, Call: fnDate})
	l.Register(&Function{Name: "YEAR", MinArgs: 1, MaxArgs: 1, Call: datePart(func(t time.Time) int { return t.Year() })})
	l.Register(&Function{Name: "MONTH", MinArgs: 1, MaxArgs: 1, Call: datePart(func(t time.Time) int { return int(t.Month()) })})
	l.Register(&Function{Name: "DAY", MinArgs: 1, MaxArgs: 1, Call: datePart(func(t time.Time) int { return t.Day() })})
	l.Register(&Function{Name: "DATEDIF", MinArgs: 3, MaxArgs: 3, Call: fnDateDif})
}

// parseDate reads text in one of dateLayouts, or a serial day number.
func parseDate(v any) (time.Time, error) {
	switch x := v.(type) {
	case float64:
		return serialEpoch.AddDate(0, 0, int(x)), nil
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
			}
		}
	}
	return time.Time{}, newError(ErrValue, "%q is not a date", toText(v))
}

func fnToday(ctx *CallContext, _ []any) (any, error) {
	return ctx.now().Format(dateLayout), nil
}

// fnDate builds a date, letting month and day overflow into the next unit.
func fnDate(_ *CallContext, args []any) (any, error) {
	for _, a := range args {
		if a == nil {
			return nil, newError(ErrValue, "DATE needs year, month and day")
		}
	}
	y := int(toNumber(args[0]))
	m := int(toNumber(args[1]))
	d := int(toNumber(args[2]))
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC).Format(dateLayout), nil
}

func datePart(part func(time.Time) int) func(*CallContext, []any) (any, error) {
	return func(_ *CallContext, args []any) (any, error) {
		t, err := parseDate(args[0])
		if err != nil {
			return nil, err
		}
		return float64(part(t)), nil
	}
}

func fnDateDif(_ *CallContext, args []any) (any, error) {
	start, err := parseDate(args[0])
	if err != nil {
		return nil, err
	}
	end, err := parseDate(args[1])
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, newError(ErrNum, "DATEDIF: start date is after end date")
	}
	switch strings.ToUpper(strings.TrimSpace(toText(args[2]))) {
	case "D":
		return float64(daysBetween(start, end)), nil
	case "M":
		return float64(completeMonths(start, end)), nil
	case "Y":
		return float64(completeMonths(start, end) / 12), nil
	case "MD":
		if end.Day() >= start.Day() {
			return float64(end.Day() - start.Day()), nil
		}
		prev := time.Date(end.Year(), end.Month(), 0, 0, 0, 0, 0, time.UTC)
		return float64(max(0, prev.Day()+end.Day()-start.Day())), nil
	case "YM":
		return float64(completeMonths(start, end) % 12), nil
	case "YD":
		shifted := time.Date(end.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		if shifted.After(end) {
			shifted = time.Date(end.Year()-1, start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		}
		return float64(daysBetween(shifted, end)), nil
	default:
		return nil, newError(ErrValue, "DATEDIF: unknown unit %q", toText(args[2]))
	}
}

// daysBetween counts calendar days from a to b, both UTC midnights.
func daysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / 86400)
}

// completeMonths counts whole months from a to b.
func completeMonths(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	return months
}
