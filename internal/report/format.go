package report

import (
	"fmt"
	"strings"
	"time"
)

// Labels are the user visible strings of the report.
type Labels struct {
	Sheet          string
	Name           string
	Count          string
	Date           string
	Period         string
	Total          string
	DurationFormat string // hours, minutes
}

var (
	labelsPtBR = Labels{
		Sheet:          "Mensagens Enviadas",
		Name:           "Nome do Grupo/Contato",
		Count:          "Número de Mensagens Enviadas",
		Date:           "Data",
		Period:         "Período do Envio",
		Total:          "TOTAL DO DIA",
		DurationFormat: "%d horas e %d minutos",
	}
	labelsEn = Labels{
		Sheet:          "Sent Messages",
		Name:           "Group/Contact Name",
		Count:          "Messages Sent",
		Date:           "Date",
		Period:         "Sending Period",
		Total:          "DAY TOTAL",
		DurationFormat: "%d hours and %d minutes",
	}
)

// Locale bundles labels with date and time layouts.
type Locale struct {
	Labels     Labels
	DateLayout string
	TimeLayout string
}

var locales = map[string]Locale{
	"pt-br": {Labels: labelsPtBR, DateLayout: "02/01/2006", TimeLayout: "15:04:05"},
	"en":    {Labels: labelsEn, DateLayout: "1/2/2006", TimeLayout: "3:04:05 PM"},
}

// DefaultLocale matches the spreadsheet layout the tool has always produced.
const DefaultLocale = "pt-BR"

// LookupLocale resolves a locale name case-insensitively. "en-US" maps to "en".
func LookupLocale(name string) (Locale, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = strings.ToLower(DefaultLocale)
	}
	if l, ok := locales[key]; ok {
		return l, true
	}
	if i := strings.IndexByte(key, '-'); i > 0 {
		l, ok := locales[key[:i]]
		return l, ok
	}
	return Locale{}, false
}

// Formatter renders timestamps and durations in one time zone and locale.
type Formatter struct {
	Locale
	Location *time.Location
}

func NewFormatter(locale string, loc *time.Location) (*Formatter, error) {
	l, ok := LookupLocale(locale)
	if !ok {
		return nil, fmt.Errorf("unsupported locale %q", locale)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{Locale: l, Location: loc}, nil
}

func (f *Formatter) Date(t time.Time) string {
	return t.In(f.Location).Format(f.DateLayout)
}

func (f *Formatter) Time(t time.Time) string {
	return t.In(f.Location).Format(f.TimeLayout)
}

// Stamp returns the date and the time of t.
func (f *Formatter) Stamp(t time.Time) (string, string) {
	return f.Date(t), f.Time(t)
}

// Period renders "<date> <time> - <date> <time>".
func (f *Formatter) Period(start, end time.Time) string {
	return fmt.Sprintf("%s %s - %s %s", f.Date(start), f.Time(start), f.Date(end), f.Time(end))
}

func (f *Formatter) Duration(d time.Duration) string {
	return FormatDuration(d, f.Labels.DurationFormat)
}

// FormatDuration splits d into whole hours and remaining minutes, both
// rounded toward negative infinity. Negative spans are not special-cased.
func FormatDuration(d time.Duration, format string) string {
	hours := floorDiv(int64(d), int64(time.Hour))
	minutes := floorDiv(int64(d)%int64(time.Hour), int64(time.Minute))
	return fmt.Sprintf(format, hours, minutes)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
