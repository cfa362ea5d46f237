package visits

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"appointment-visit-audit/internal/model"
)

// Sequenced is the per-individual appointment history.
type Sequenced struct {
	State      State
	Attributes []model.Attribute
	Rows       []model.SequencedAppointment
}

// MonthDelta is the calendar-month distance from one instant to another,
// counted on (year, month) only. Jan 31 to Feb 1 is one month.
func MonthDelta(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// Sequence orders records by identity then start time and numbers each
// individual's appointments.
//
// Rows are stable-sorted, so equal keys keep their input order. Null start
// times sort first within an individual. A linear scan then assigns
// ordinals and month deltas, tracking the highest ordinal per individual; a
// second pass marks the row holding it.
func Sequence(f Filtered, attrs []model.Attribute) (Sequenced, error) {
	for _, attr := range attrs {
		if !attr.Valid() {
			return Sequenced{}, fmt.Errorf("unknown identity attribute: %s", attr)
		}
	}
	if len(attrs) == 0 {
		return Sequenced{}, fmt.Errorf("at least one identity attribute is required")
	}
	out := Sequenced{State: f.State, Attributes: append([]model.Attribute{}, attrs...)}
	if f.State != StateReady {
		return out, nil
	}

	type keyed struct {
		record model.Record
		values []string
		group  string
	}
	rows := make([]keyed, len(f.Records))
	for i, record := range f.Records {
		values := make([]string, len(attrs))
		for j, attr := range attrs {
			values[j], _ = record.Value(attr)
		}
		rows[i] = keyed{record: record, values: values, group: strings.Join(values, "\x00")}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for k := range attrs {
			if rows[i].values[k] != rows[j].values[k] {
				return rows[i].values[k] < rows[j].values[k]
			}
		}
		return startBefore(rows[i].record.StartTime, rows[j].record.StartTime)
	})

	out.Rows = make([]model.SequencedAppointment, len(rows))
	groups := make([]string, len(rows))
	maxOrdinal := make(map[string]int)
	var (
		current   string
		ordinal   int
		prevStart *time.Time
	)
	for i, row := range rows {
		if i == 0 || row.group != current {
			current = row.group
			ordinal = 0
			prevStart = nil
		}
		ordinal++

		seq := model.SequencedAppointment{
			FirstName:         row.record.FirstName,
			LastName:          row.record.LastName,
			FullName:          row.record.FullName,
			Phone:             row.record.Phone,
			Email:             row.record.Email,
			Calendar:          row.record.Calendar,
			Type:              row.record.Type,
			RevisedType:       row.record.RevisedType,
			StartTime:         row.record.StartTime,
			AppointmentNumber: ordinal,
		}
		if ordinal > 1 && prevStart != nil && row.record.StartTime != nil {
			delta := MonthDelta(*prevStart, *row.record.StartTime)
			seq.MonthsSinceLast = &delta
		}
		prevStart = row.record.StartTime

		out.Rows[i] = seq
		groups[i] = row.group
		if ordinal > maxOrdinal[row.group] {
			maxOrdinal[row.group] = ordinal
		}
	}

	for i := range out.Rows {
		if final := maxOrdinal[groups[i]]; out.Rows[i].AppointmentNumber == final {
			out.Rows[i].MaxAppointmentNumber = &final
		}
	}
	return out, nil
}

// startBefore orders start times ascending with nulls first.
func startBefore(a, b *time.Time) bool {
	switch {
	case a == nil && b == nil:
		return false
	case a == nil:
		return true
	case b == nil:
		return false
	}
	return a.Before(*b)
}
