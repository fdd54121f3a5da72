package entity

import (
	"fmt"
	"time"
)

// MonthLayout formato año-mes usado en la API y en la base de datos.
const MonthLayout = "2006-01"

// DateLayout formato de fecha (sin hora) usado en la API.
const DateLayout = "2006-01-02"

// Month granularidad año-mes (ej. 2024-01).
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth interpreta "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("年月 %q は YYYY-MM 形式で指定してください", s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf devuelve el mes al que pertenece t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String devuelve "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// IsZero indica si el mes no fue inicializado.
func (m Month) IsZero() bool { return m.Year == 0 && m.Month == 0 }

// Range devuelve [inicio, fin) del mes en UTC.
func (m Month) Range() (start, end time.Time) {
	start = time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Contains indica si la fecha t cae dentro del mes.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}
