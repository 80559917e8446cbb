package clean

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/varsum/internal/dataset"
)

// DatePart is a calendar field derived from a datetime column.
type DatePart int

const (
	PartSecond DatePart = iota
	PartMinute
	PartHour
	PartDay
	PartMonth
	PartMonthName
	PartQuarter
	PartYear
	PartDayOfYear
	PartWeekOfYear
)

var partNames = []string{
	"second", "minute", "hour", "day", "month", "month_name",
	"quarter", "year", "day_of_year", "week_of_year",
}

func (p DatePart) String() string {
	if int(p) < 0 || int(p) >= len(partNames) {
		return "unknown"
	}
	return partNames[p]
}

// ParseDatePart decodes a date part token.
func ParseDatePart(s string) (DatePart, error) {
	tok := strings.ToLower(strings.TrimSpace(s))
	for i, n := range partNames {
		if n == tok {
			return DatePart(i), nil
		}
	}
	return 0, dataset.Invalid("date part", s, "unknown date part %q (use %s)", s, strings.Join(partNames, "|"))
}

var monthNames = func() []string {
	out := make([]string, 12)
	for m := time.January; m <= time.December; m++ {
		out[m-1] = m.String()
	}
	return out
}()

// ExtractDatetimeFields adds one ordered category column per part, named
// after the part. A same-named column already in the dataset is replaced.
func ExtractDatetimeFields(ds *dataset.Dataset, column string, parts []DatePart) (*dataset.Dataset, error) {
	src, err := ds.Column(column)
	if err != nil {
		return nil, err
	}
	if src.Kind() != dataset.KindDatetime {
		return nil, dataset.DataState(dataset.ErrTypeMismatch, column, "expected a datetime column, got %s", src.Kind())
	}
	if len(parts) == 0 {
		return nil, dataset.Invalid("date parts", "", "no date parts requested")
	}
	out := ds
	for _, p := range parts {
		col := extractPart(src, p)
		if out, err = out.With(col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func extractPart(src *dataset.Column, p DatePart) *dataset.Column {
	vals := make([]dataset.Value, src.Len())
	nums := map[int]struct{}{}
	for i := 0; i < src.Len(); i++ {
		v := src.Value(i)
		if !v.Valid {
			continue
		}
		if p == PartMonthName {
			vals[i] = dataset.Str(v.Time.Month().String())
			continue
		}
		n := partValue(v.Time, p)
		nums[n] = struct{}{}
		vals[i] = dataset.Str(strconv.Itoa(n))
	}
	if p == PartMonthName {
		return dataset.NewCategorical(p.String(), vals, monthNames, true)
	}
	ordered := make([]int, 0, len(nums))
	for n := range nums {
		ordered = append(ordered, n)
	}
	sort.Ints(ordered)
	levels := make([]string, len(ordered))
	for i, n := range ordered {
		levels[i] = strconv.Itoa(n)
	}
	return dataset.NewCategorical(p.String(), vals, levels, true)
}

func partValue(t time.Time, p DatePart) int {
	switch p {
	case PartSecond:
		return t.Second()
	case PartMinute:
		return t.Minute()
	case PartHour:
		return t.Hour()
	case PartDay:
		return t.Day()
	case PartMonth:
		return int(t.Month())
	case PartQuarter:
		return (int(t.Month())-1)/3 + 1
	case PartYear:
		return t.Year()
	case PartDayOfYear:
		return t.YearDay()
	case PartWeekOfYear:
		_, w := t.ISOWeek()
		return w
	}
	return 0
}
