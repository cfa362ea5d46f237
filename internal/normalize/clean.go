package normalize

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"appointment-visit-audit/internal/dataset"
	"appointment-visit-audit/internal/model"
)

// ErrMissingColumn is returned when an upload lacks a column the pipeline
// cannot run without.
var ErrMissingColumn = errors.New("missing required column")

//nolint:gochecknoglobals // column contracts
var (
	appointmentRequired = []string{"type", "calendar", "first_name", "last_name", "phone", "email", "start_time", "end_time"}
	appointmentOptional = []string{"paid", "label", "date_scheduled", "date_rescheduled", "appointment_price", "amount_paid_online", "certificate_code", "appointment_id"}
	referenceRequired   = []string{"type", "include_or_not_include"}
	referenceOptional   = []string{"revised_type", "initial_touch_up", "free_touch_up"}
)

// Quality counts values that were present but could not be parsed. They are
// nulls in the output, not failures.
type Quality struct {
	Rows              int `json:"rows"`
	UnparsedStartTime int `json:"unparsed_start_time"`
	UnparsedEndTime   int `json:"unparsed_end_time"`
	UnparsedDates     int `json:"unparsed_dates"`
	UnparsedPrices    int `json:"unparsed_prices"`
	UnparsedIDs       int `json:"unparsed_ids"`
}

// AppointmentTable is a cleaned appointment upload.
type AppointmentTable struct {
	Rows    []model.Appointment
	Quality Quality
}

// ReferenceTable is a cleaned reference upload keyed by type.
type ReferenceTable struct {
	Rows       []model.Reference
	Duplicates int
	Skipped    int
}

type Normalizer struct {
	loc    *time.Location
	titler *Titler
	logger *slog.Logger
}

func New(loc *time.Location, logger *slog.Logger) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{loc: loc, titler: NewTitler(), logger: logger}
}

// Appointments cleans an appointment upload. A nil table means nothing was
// uploaded and yields a nil result.
func (n *Normalizer) Appointments(raw *dataset.Table) (*AppointmentTable, error) {
	if raw == nil {
		return nil, nil
	}
	tbl := raw.RenameColumns(SnakeCase)
	cols, err := columnIndex(tbl, appointmentRequired, appointmentOptional)
	if err != nil {
		return nil, err
	}

	out := &AppointmentTable{Rows: make([]model.Appointment, 0, len(tbl.Rows))}
	for row := range tbl.Rows {
		cell := func(name string) (string, bool) {
			return tbl.Cell(row, cols[name])
		}
		parsedTime := func(name string, counter *int) *time.Time {
			value, ok := cell(name)
			parsed := ParseTimestamp(value, n.loc)
			if ok && parsed == nil && strings.TrimSpace(value) != "" {
				*counter++
				n.unparsed(tbl.Name, row, name, value)
			}
			return parsed
		}
		parsedDate := func(name string) *time.Time {
			value, ok := cell(name)
			parsed := ParseDate(value)
			if ok && parsed == nil && strings.TrimSpace(value) != "" {
				out.Quality.UnparsedDates++
				n.unparsed(tbl.Name, row, name, value)
			}
			return parsed
		}
		parsedPrice := func(name string) *float64 {
			value, ok := cell(name)
			parsed := ParsePrice(value)
			if ok && parsed == nil && strings.TrimSpace(value) != "" {
				out.Quality.UnparsedPrices++
				n.unparsed(tbl.Name, row, name, value)
			}
			return parsed
		}

		appt := model.Appointment{
			StartTime:        parsedTime("start_time", &out.Quality.UnparsedStartTime),
			EndTime:          parsedTime("end_time", &out.Quality.UnparsedEndTime),
			DateScheduled:    parsedDate("date_scheduled"),
			DateRescheduled:  parsedDate("date_rescheduled"),
			AppointmentPrice: parsedPrice("appointment_price"),
			AmountPaidOnline: parsedPrice("amount_paid_online"),
		}

		if value, ok := cell("appointment_id"); ok {
			appt.AppointmentID = ParseInt(value)
			if appt.AppointmentID == nil && strings.TrimSpace(value) != "" {
				out.Quality.UnparsedIDs++
				n.unparsed(tbl.Name, row, "appointment_id", value)
			}
		}

		appt.Type = n.titler.TitlePtr(cell("type"))
		appt.Paid = n.titler.TitlePtr(cell("paid"))
		appt.Label = n.titler.TitlePtr(cell("label"))
		if value, ok := cell("certificate_code"); ok {
			appt.CertificateCode = &value
		}

		value, ok := cell("calendar")
		appt.Calendar = n.titler.TitleOr(value, ok, model.NotAvailable)
		value, ok = cell("first_name")
		appt.FirstName = n.titler.TitleOr(value, ok, model.NotAvailable)
		value, ok = cell("last_name")
		appt.LastName = n.titler.TitleOr(value, ok, model.NotAvailable)
		value, _ = cell("phone")
		appt.Phone = Phone(value)
		appt.Email = model.NotAvailable
		if value, ok := cell("email"); ok && strings.TrimSpace(value) != "" {
			appt.Email = strings.TrimSpace(value)
		}

		appt.FullName = appt.FirstName + " " + appt.LastName
		appt.FirstNameAndPhone = appt.FirstName + "; " + appt.Phone
		appt.FirstNameAndEmail = appt.FirstName + "; " + appt.Email

		out.Rows = append(out.Rows, appt)
	}
	out.Quality.Rows = len(out.Rows)

	n.logger.Info("appointments normalized",
		"table", tbl.Name,
		"rows", out.Quality.Rows,
		"unparsed_start_time", out.Quality.UnparsedStartTime,
		"unparsed_end_time", out.Quality.UnparsedEndTime,
		"unparsed_dates", out.Quality.UnparsedDates,
		"unparsed_prices", out.Quality.UnparsedPrices,
	)
	return out, nil
}

// References cleans a reference upload. The first row wins when a type
// appears more than once; rows without a type are skipped.
func (n *Normalizer) References(raw *dataset.Table) (*ReferenceTable, error) {
	if raw == nil {
		return nil, nil
	}
	tbl := raw.RenameColumns(SnakeCase)
	cols, err := columnIndex(tbl, referenceRequired, referenceOptional)
	if err != nil {
		return nil, err
	}

	out := &ReferenceTable{Rows: make([]model.Reference, 0, len(tbl.Rows))}
	seen := make(map[string]bool, len(tbl.Rows))
	for row := range tbl.Rows {
		cell := func(name string) (string, bool) {
			return tbl.Cell(row, cols[name])
		}
		typ, ok := cell("type")
		if !ok || strings.TrimSpace(typ) == "" {
			out.Skipped++
			continue
		}
		key := JoinKey(typ)
		if seen[key] {
			out.Duplicates++
			n.logger.Warn("duplicate reference type ignored", "table", tbl.Name, "row", row+2, "type", typ)
			continue
		}
		seen[key] = true
		out.Rows = append(out.Rows, model.Reference{
			Type:                n.titler.Title(typ),
			IncludeOrNotInclude: n.titler.TitlePtr(cell("include_or_not_include")),
			RevisedType:         n.titler.TitlePtr(cell("revised_type")),
			InitialTouchUp:      n.titler.TitlePtr(cell("initial_touch_up")),
			FreeTouchUp:         n.titler.TitlePtr(cell("free_touch_up")),
		})
	}

	n.logger.Info("references normalized",
		"table", tbl.Name,
		"rows", len(out.Rows),
		"duplicates", out.Duplicates,
		"skipped", out.Skipped,
	)
	return out, nil
}

// unparsed logs a data-quality fact. Row numbers count the header as row 1.
func (n *Normalizer) unparsed(table string, row int, column, value string) {
	n.logger.Debug("unparseable value set to null", "table", table, "row", row+2, "column", column, "value", value)
}

func columnIndex(tbl *dataset.Table, required, optional []string) (map[string]int, error) {
	cols := make(map[string]int, len(required)+len(optional))
	var missing []string
	for _, name := range required {
		idx := tbl.Index(name)
		if idx < 0 {
			missing = append(missing, name)
			continue
		}
		cols[name] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w: %s", tbl.Name, ErrMissingColumn, strings.Join(missing, ", "))
	}
	for _, name := range optional {
		cols[name] = tbl.Index(name)
	}
	return cols, nil
}
